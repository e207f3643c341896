package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

// EntityView is the printable form of an entity. Custom payloads are
// omitted; Path locates the image instead.
type EntityView struct {
	Token     string   `json:"token,omitempty"`
	Kind      string   `json:"kind"`
	Shortcode string   `json:"shortcode"`
	Aliases   []string `json:"aliases"`
	Category  string   `json:"category,omitempty"`
	Glyph     string   `json:"glyph,omitempty"`
	Label     string   `json:"label,omitempty"`
	Path      string   `json:"path,omitempty"`
}

// NewEntityView converts e.
func NewEntityView(e emoji.Entity) EntityView {
	aliases := e.AliasList()
	if aliases == nil {
		aliases = []string{}
	}
	v := EntityView{
		Kind:      string(e.Kind()),
		Shortcode: e.Code(),
		Aliases:   aliases,
		Category:  e.CategoryName(),
	}
	switch x := e.(type) {
	case emoji.StandardEntity:
		v.Glyph = x.Glyph
		v.Label = x.Label
	case emoji.CustomEntity:
		v.Path = x.SourcePath
	}
	return v
}

// Line renders the view on one line, e.g.
//
//	👍 :+1: unicode "thumbs up" aliases=thumbsup
func (v EntityView) Line() string {
	var b strings.Builder
	if v.Glyph != "" {
		b.WriteString(v.Glyph)
		b.WriteString(" ")
	}
	b.WriteString(emoji.Display(v.Shortcode))
	b.WriteString(" ")
	b.WriteString(v.Kind)
	if v.Label != "" {
		fmt.Fprintf(&b, " %q", v.Label)
	}
	if v.Path != "" {
		b.WriteString(" ")
		b.WriteString(v.Path)
	}
	if len(v.Aliases) > 0 {
		b.WriteString(" aliases=")
		b.WriteString(strings.Join(v.Aliases, ","))
	}
	return b.String()
}

// EntityList is a list result.
type EntityList []EntityView

// RenderText prints one entity per line.
func (l EntityList) RenderText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No emoji found.")
		return
	}
	for _, v := range l {
		if v.Token != "" && v.Token != v.Shortcode {
			fmt.Fprintf(w, "%s -> %s\n", emoji.Display(v.Token), v.Line())
			continue
		}
		fmt.Fprintln(w, v.Line())
	}
}

// entityList converts entities.
func entityList(entities []emoji.Entity) EntityList {
	out := make(EntityList, 0, len(entities))
	for _, e := range entities {
		out = append(out, NewEntityView(e))
	}
	return out
}

// trimToken strips surrounding colons from a user-supplied shortcode.
func trimToken(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), ":"), ":")
}
