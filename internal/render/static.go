package render

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ssoriche/obsidian-slack-emoji/internal/scanner"
)

// StaticView replaces shortcodes in rendered HTML.
type StaticView struct {
	scanner *scanner.Scanner
}

// NewStaticView creates a StaticView.
func NewStaticView(sc *scanner.Scanner) *StaticView {
	return &StaticView{scanner: sc}
}

// Render parses an HTML fragment, replaces every resolvable token outside
// <code> and <pre>, and renders the fragment back.
func (v *StaticView) Render(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}

	for _, n := range nodes {
		body.AppendChild(n)
	}
	replaced := v.Process(body)

	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}

	if replaced > 0 {
		slog.Debug("static view rendered", "replaced", replaced)
	}
	return b.String(), nil
}

// Process rewrites the text nodes under root in place and returns the number
// of tokens replaced. Nothing happens if root itself is <code> or <pre>.
func (v *StaticView) Process(root *html.Node) int {
	if isVerbatim(root) {
		return 0
	}

	var texts []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode && !insideVerbatim(n) {
			texts = append(texts, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	replaced := 0
	for _, t := range texts {
		replaced += v.splice(t)
	}
	return replaced
}

// splice replaces a text node with text and emoji element siblings.
func (v *StaticView) splice(text *html.Node) int {
	parent := text.Parent
	if parent == nil {
		return 0
	}
	matches := v.scanner.Scan(text.Data)
	if len(matches) == 0 {
		return 0
	}

	last := 0
	for _, m := range matches {
		if m.Start > last {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text.Data[last:m.Start]}, text)
		}
		parent.InsertBefore(Element(m.Entity, m.Token), text)
		last = m.End
	}
	if last < len(text.Data) {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text.Data[last:]}, text)
	}
	parent.RemoveChild(text)
	return len(matches)
}

func isVerbatim(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.Code || n.DataAtom == atom.Pre)
}

func insideVerbatim(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if isVerbatim(p) {
			return true
		}
	}
	return false
}
