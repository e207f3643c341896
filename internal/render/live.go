package render

import (
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
	"github.com/ssoriche/obsidian-slack-emoji/internal/scanner"
)

// Range is a half-open byte range of the document.
type Range struct {
	From int
	To   int
}

// Widget replaces a matched token in the live view.
type Widget struct {
	Entity  emoji.Entity
	Matched string
}

// Equal reports whether two widgets would render identically, so an
// existing element can be reused.
func (w Widget) Equal(other Widget) bool {
	return w.Entity.Kind() == other.Entity.Kind() &&
		w.Entity.Code() == other.Entity.Code() &&
		w.Matched == other.Matched
}

// HTML renders the widget element.
func (w Widget) HTML() string {
	return RenderElement(w.Entity, w.Matched, ClassLive)
}

// Decoration replaces doc[From:To] with Widget.
type Decoration struct {
	From   int
	To     int
	Widget Widget
}

// ViewUpdate describes a change to the live view. Doc is read only when
// DocChanged is set, Visible only when ViewportChanged is set.
type ViewUpdate struct {
	Doc             string
	DocChanged      bool
	Visible         []Range
	ViewportChanged bool
}

// LiveView keeps emoji decorations for the visible part of an editor
// document.
type LiveView struct {
	scanner     *scanner.Scanner
	doc         string
	tree        *Node
	requested   []Range
	visible     []Range
	decorations []Decoration
}

// NewLiveView builds decorations for doc. With no visible ranges the whole
// document is visible.
func NewLiveView(sc *scanner.Scanner, doc string, visible ...Range) *LiveView {
	v := &LiveView{
		scanner:   sc,
		doc:       doc,
		tree:      ParseMarkdown(doc),
		requested: visible,
		visible:   normalizeRanges(visible, len(doc)),
	}
	v.rebuild()
	return v
}

// Decorations returns the current decorations in document order.
func (v *LiveView) Decorations() []Decoration {
	return v.decorations
}

// Doc returns the current document text.
func (v *LiveView) Doc() string {
	return v.doc
}

// Update applies u and rebuilds decorations if the document or viewport
// changed. Returns true if decorations were rebuilt.
func (v *LiveView) Update(u ViewUpdate) bool {
	if !u.DocChanged && !u.ViewportChanged {
		return false
	}
	if u.DocChanged {
		v.doc = u.Doc
		v.tree = ParseMarkdown(u.Doc)
	}
	if u.ViewportChanged {
		v.requested = u.Visible
	}
	v.visible = normalizeRanges(v.requested, len(v.doc))
	v.rebuild()
	return true
}

// Refresh rebuilds decorations against the resolver's current state.
func (v *LiveView) Refresh() {
	v.rebuild()
}

// Render returns the document with every decoration applied.
func (v *LiveView) Render() string {
	return Apply(v.doc, v.decorations)
}

func (v *LiveView) rebuild() {
	var segments []scanner.Segment
	for _, r := range v.visible {
		segments = append(segments, v.segments(r)...)
	}

	matches := v.scanner.ScanSegments(segments)
	decorations := make([]Decoration, 0, len(matches))
	for _, m := range matches {
		decorations = append(decorations, Decoration{
			From:   m.Start,
			To:     m.End,
			Widget: Widget{Entity: m.Entity, Matched: m.Token},
		})
	}
	v.decorations = decorations

	slog.Debug("live view decorations rebuilt",
		"ranges", len(v.visible),
		"segments", len(segments),
		"decorations", len(decorations),
	)
}

// segments returns the scannable text of r: prose nodes minus their
// excluded children, clipped to r.
func (v *LiveView) segments(r Range) []scanner.Segment {
	var out []scanner.Segment
	Iterate(v.tree, r.From, r.To, func(n *Node) bool {
		if Excluded(n.Name) {
			return false
		}
		if !textBearing(n.Name) {
			return true
		}

		pos := n.From
		for _, c := range n.Children {
			out = appendClipped(out, v.doc, pos, c.From, r)
			pos = c.To
		}
		out = appendClipped(out, v.doc, pos, n.To, r)
		return false
	})
	return out
}

func appendClipped(out []scanner.Segment, doc string, from, to int, r Range) []scanner.Segment {
	from = max(from, r.From)
	to = min(to, r.To)
	if from >= to {
		return out
	}
	return append(out, scanner.Segment{Offset: from, Text: doc[from:to]})
}

// normalizeRanges clamps, sorts and merges ranges. Empty input means the
// whole document.
func normalizeRanges(ranges []Range, docLen int) []Range {
	if len(ranges) == 0 {
		return []Range{{From: 0, To: docLen}}
	}

	clamped := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		r.From = min(max(r.From, 0), docLen)
		r.To = min(max(r.To, r.From), docLen)
		clamped = append(clamped, r)
	}
	sort.Slice(clamped, func(i, j int) bool { return clamped[i].From < clamped[j].From })

	merged := clamped[:1]
	for _, r := range clamped[1:] {
		last := &merged[len(merged)-1]
		if r.From <= last.To {
			last.To = max(last.To, r.To)
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Apply replaces each decorated range of doc with its widget HTML. The text
// between widgets is HTML-escaped. Decorations must be sorted and
// non-overlapping.
func Apply(doc string, decorations []Decoration) string {
	var b strings.Builder
	last := 0
	for _, d := range decorations {
		b.WriteString(html.EscapeString(doc[last:d.From]))
		b.WriteString(d.Widget.HTML())
		last = d.To
	}
	b.WriteString(html.EscapeString(doc[last:]))
	return b.String()
}
