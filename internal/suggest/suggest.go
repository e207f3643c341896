// Package suggest implements :shortcode autocompletion.
//
// Positions are byte offsets within a line.
package suggest

import (
	"regexp"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

const (
	// DefaultMinChars is the query length at which suggestions start.
	DefaultMinChars = 2

	// Limit caps the number of suggestions.
	Limit = 20
)

var triggerPattern = regexp.MustCompile(`:([A-Za-z0-9_-]*)$`)

// Position is a cursor position.
type Position struct {
	Line int
	Ch   int
}

// Context is an active completion: the ":query" text between Start and End.
type Context struct {
	Start Position
	End   Position
	Query string
}

// Searcher finds entities by substring. Implemented by *registry.Registry.
type Searcher interface {
	Search(query string, limit int) []emoji.Entity
}

// Suggestion is the display form of a candidate.
type Suggestion struct {
	Kind      emoji.Kind `json:"type"`
	Shortcode string     `json:"shortcode"`
	Preview   string     `json:"preview"`
	Label     string     `json:"label,omitempty"`
	Insert    string     `json:"insert"`
}

// Suggester produces completions from a Searcher.
type Suggester struct {
	searcher Searcher
	minChars int
}

// New creates a Suggester. minChars < 1 uses DefaultMinChars.
func New(s Searcher, minChars int) *Suggester {
	if minChars < 1 {
		minChars = DefaultMinChars
	}
	return &Suggester{searcher: s, minChars: minChars}
}

// MinChars returns the trigger threshold.
func (s *Suggester) MinChars() int {
	return s.minChars
}

// Trigger reports whether the text of line before cursor ends in a
// ":query" of at least MinChars characters. The context's Start includes
// the colon.
func (s *Suggester) Trigger(line string, cursor Position) (Context, bool) {
	ch := min(max(cursor.Ch, 0), len(line))
	m := triggerPattern.FindStringSubmatch(line[:ch])
	if m == nil {
		return Context{}, false
	}

	query := m[1]
	if len(query) < s.minChars {
		return Context{}, false
	}
	return Context{
		Start: Position{Line: cursor.Line, Ch: ch - len(query) - 1},
		End:   Position{Line: cursor.Line, Ch: ch},
		Query: query,
	}, true
}

// Suggestions returns up to Limit candidates for c.
func (s *Suggester) Suggestions(c Context) []emoji.Entity {
	return s.searcher.Search(c.Query, Limit)
}

// Completion is the text inserted for e.
func Completion(e emoji.Entity) string {
	return emoji.Display(e.Code())
}

// Select replaces the context's range in line with e's completion and
// returns the new line and cursor, placed after the inserted text.
func Select(line string, c Context, e emoji.Entity) (string, Position) {
	insert := Completion(e)
	start := min(max(c.Start.Ch, 0), len(line))
	end := min(max(c.End.Ch, start), len(line))

	out := line[:start] + insert + line[end:]
	return out, Position{Line: c.Start.Line, Ch: start + len(insert)}
}

// Describe returns the display form of e. Custom entities preview as their
// payload and carry no label.
func Describe(e emoji.Entity) Suggestion {
	s := Suggestion{
		Kind:      e.Kind(),
		Shortcode: e.Code(),
		Insert:    Completion(e),
	}
	switch v := e.(type) {
	case emoji.StandardEntity:
		s.Preview = v.Glyph
		s.Label = v.Label
	case emoji.CustomEntity:
		s.Preview = v.Payload
	}
	return s
}
