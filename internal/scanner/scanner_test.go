package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
	"github.com/ssoriche/obsidian-slack-emoji/internal/registry"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	reg.LoadStandard([]emoji.StandardEntity{
		{Shortcode: "a", Glyph: "🅰️", Label: "a button"},
		{Shortcode: "b", Glyph: "🅱️", Label: "b button"},
		{Shortcode: "+1", Aliases: []string{"thumbsup"}, Glyph: "👍", Label: "thumbs up"},
	})
	reg.UpsertCustom(emoji.CustomEntity{Shortcode: "party-parrot", Payload: "data:image/gif;base64,AA=="})
	return reg
}

func TestScan_AdjacentTokensDoNotOverlap(t *testing.T) {
	s := New(newRegistry(t))

	got := s.Scan(":a::b:")
	require.Len(t, got, 2)

	assert.Equal(t, 0, got[0].Start)
	assert.Equal(t, 3, got[0].End)
	assert.Equal(t, "a", got[0].Token)
	assert.Equal(t, 3, got[1].Start)
	assert.Equal(t, 6, got[1].End)
	assert.Equal(t, "b", got[1].Token)
}

func TestScan_UnknownTokenFailsOpen(t *testing.T) {
	s := New(newRegistry(t))
	text := "x :nonexistent_xyz: y"

	assert.Empty(t, s.Scan(text))
	assert.Equal(t, text, s.Replace(text, func(Match) string { return "!" }))
}

func TestScan_Cases(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		tokens []string
	}{
		{"plus sign", "nice :+1: work", []string{"+1"}},
		{"alias", ":thumbsup:", []string{"thumbsup"}},
		{"custom with dash", "hi :party-parrot:!", []string{"party-parrot"}},
		{"empty token", "::", nil},
		{"space inside", ":a b:", nil},
		{"unclosed", ":a", nil},
		{"unknown consumes its colons", ":zz:a:", nil},
		{"unknown then known", ":zz: :a:", []string{"a"}},
		{"time of day", "at 10:30:00 :b:", []string{"b"}},
	}

	s := New(newRegistry(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tokens []string
			for _, m := range s.Scan(tt.text) {
				tokens = append(tokens, m.Token)
				assert.Equal(t, ":"+m.Token+":", tt.text[m.Start:m.End])
			}
			assert.Equal(t, tt.tokens, tokens)
		})
	}
}

func TestScan_ReflectsLatestRegistryState(t *testing.T) {
	reg := newRegistry(t)
	s := New(reg)

	assert.Empty(t, s.Scan(":late:"))

	reg.UpsertCustom(emoji.CustomEntity{Shortcode: "late"})
	assert.Len(t, s.Scan(":late:"), 1)

	reg.RemoveCustom("late")
	assert.Empty(t, s.Scan(":late:"))
}

func TestScan_EntityKinds(t *testing.T) {
	s := New(newRegistry(t))

	got := s.Scan(":a: :party-parrot:")
	require.Len(t, got, 2)
	assert.Equal(t, emoji.KindStandard, got[0].Entity.Kind())
	assert.Equal(t, emoji.KindCustom, got[1].Entity.Kind())
}

func TestScanAt_ShiftsOffsets(t *testing.T) {
	s := New(newRegistry(t))

	got := s.ScanAt("x :a:", 100)
	require.Len(t, got, 1)
	assert.Equal(t, 102, got[0].Start)
	assert.Equal(t, 105, got[0].End)
}

func TestScanSegments_TokensDoNotSpanSegments(t *testing.T) {
	s := New(newRegistry(t))

	// ":a" + "b:" would only match if scanned as one string.
	got := s.ScanSegments([]Segment{
		{Offset: 0, Text: ":a"},
		{Offset: 10, Text: ":b:"},
		{Offset: 20, Text: "b: :a:"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].Start)
	assert.Equal(t, "b", got[0].Token)
	assert.Equal(t, 23, got[1].Start)
	assert.Equal(t, "a", got[1].Token)
}

func TestReplace(t *testing.T) {
	s := New(newRegistry(t))

	got := s.Replace("go :a::b: :nope: :+1:", func(m Match) string {
		return "[" + strings.ToUpper(m.Token) + "]"
	})
	assert.Equal(t, "go [A][B] :nope: [+1]", got)
}
