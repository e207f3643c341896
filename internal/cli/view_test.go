package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

func TestTrimToken(t *testing.T) {
	assert.Equal(t, "wave", trimToken(":wave:"))
	assert.Equal(t, "wave", trimToken(" wave "))
	assert.Equal(t, "+1", trimToken(":+1"))
	assert.Equal(t, "", trimToken("::"))
}

func TestEntityView_Line(t *testing.T) {
	standard := NewEntityView(emoji.StandardEntity{
		Shortcode: "+1",
		Aliases:   []string{"thumbsup"},
		Category:  "people_body",
		Glyph:     "👍",
		Label:     "thumbs up",
	})
	assert.Equal(t, `👍 :+1: unicode "thumbs up" aliases=thumbsup`, standard.Line())
	assert.Equal(t, "people_body", standard.Category)

	custom := NewEntityView(emoji.CustomEntity{
		Shortcode:  "logo",
		SourcePath: ".obsidian/emoji/logo.png",
		Payload:    "data:image/png;base64,AAAA",
	})
	assert.Equal(t, ":logo: custom .obsidian/emoji/logo.png", custom.Line())
	assert.Equal(t, []string{}, custom.Aliases)
}

func TestEntityList_RenderText(t *testing.T) {
	buf := &bytes.Buffer{}
	EntityList{}.RenderText(buf)
	assert.Equal(t, "No emoji found.\n", buf.String())

	buf.Reset()
	EntityList{
		{Token: "like", Kind: "custom", Shortcode: "logo", Aliases: []string{"like"}},
		{Token: "logo", Kind: "custom", Shortcode: "logo"},
	}.RenderText(buf)
	assert.Equal(t, ":like: -> :logo: custom aliases=like\n:logo: custom\n", buf.String())
}
