package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

var (
	thumbsUp = emoji.StandardEntity{
		Shortcode: "+1",
		Aliases:   []string{"thumbsup"},
		Glyph:     "👍",
		Label:     "thumbs up",
	}
	parrot = emoji.CustomEntity{
		Shortcode: "parrot",
		Payload:   "data:image/gif;base64,R0lG",
	}
)

func TestRenderElement_Standard(t *testing.T) {
	got := RenderElement(thumbsUp, "thumbsup")
	assert.Equal(t,
		`<span class="emoji emoji-unicode" data-emoji="+1" aria-label="thumbs up" title=":thumbsup:">👍</span>`,
		got)
}

func TestRenderElement_Custom(t *testing.T) {
	got := RenderElement(parrot, "parrot")
	assert.Equal(t,
		`<img class="emoji emoji-custom" src="data:image/gif;base64,R0lG" alt=":parrot:" data-emoji="parrot" title=":parrot:"/>`,
		got)
}

func TestRenderElement_ExtraClasses(t *testing.T) {
	got := RenderElement(parrot, "parrot", ClassLive)
	assert.Contains(t, got, `class="emoji emoji-custom cm-emoji"`)
}

func TestRenderElement_EscapesAttributes(t *testing.T) {
	e := emoji.StandardEntity{Shortcode: "x", Glyph: "x", Label: `a "quoted" <label>`}
	got := RenderElement(e, "x")
	assert.Contains(t, got, `aria-label="a &#34;quoted&#34; &lt;label&gt;"`)
}
