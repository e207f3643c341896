package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

// CSS classes shared by every emoji element.
const (
	ClassEmoji   = "emoji"
	ClassUnicode = "emoji-unicode"
	ClassCustom  = "emoji-custom"
	ClassLive    = "cm-emoji"
)

// Element builds the element for a resolved entity. matched is the token as
// typed, which may be an alias; it becomes the title (and alt text for
// images). extraClasses are appended to the class list.
//
// Standard entities render as
//
//	<span class="emoji emoji-unicode" data-emoji="..." aria-label="..." title=":matched:">glyph</span>
//
// and custom entities as
//
//	<img class="emoji emoji-custom" src="data:..." alt=":matched:" data-emoji="..." title=":matched:"/>
func Element(e emoji.Entity, matched string, extraClasses ...string) *html.Node {
	display := emoji.Display(matched)

	switch v := e.(type) {
	case emoji.StandardEntity:
		span := &html.Node{
			Type:     html.ElementNode,
			Data:     "span",
			DataAtom: atom.Span,
			Attr: []html.Attribute{
				{Key: "class", Val: classList(ClassUnicode, extraClasses)},
				{Key: "data-emoji", Val: v.Shortcode},
				{Key: "aria-label", Val: v.Label},
				{Key: "title", Val: display},
			},
		}
		span.AppendChild(&html.Node{Type: html.TextNode, Data: v.Glyph})
		return span

	case emoji.CustomEntity:
		return &html.Node{
			Type:     html.ElementNode,
			Data:     "img",
			DataAtom: atom.Img,
			Attr: []html.Attribute{
				{Key: "class", Val: classList(ClassCustom, extraClasses)},
				{Key: "src", Val: v.Payload},
				{Key: "alt", Val: display},
				{Key: "data-emoji", Val: v.Shortcode},
				{Key: "title", Val: display},
			},
		}

	default:
		return &html.Node{Type: html.TextNode, Data: display}
	}
}

// RenderElement renders Element(e, matched, extraClasses...) to HTML.
func RenderElement(e emoji.Entity, matched string, extraClasses ...string) string {
	var b strings.Builder
	// Writes to a strings.Builder cannot fail.
	_ = html.Render(&b, Element(e, matched, extraClasses...))
	return b.String()
}

func classList(kind string, extra []string) string {
	return strings.Join(append([]string{ClassEmoji, kind}, extra...), " ")
}
