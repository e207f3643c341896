package catalog

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	gemoji "github.com/enescakir/emoji"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

func testFS(records, shortcodes string) fstest.MapFS {
	return fstest.MapFS{
		DefaultRecordsPath:    &fstest.MapFile{Data: []byte(records)},
		DefaultShortcodesPath: &fstest.MapFile{Data: []byte(shortcodes)},
	}
}

func find(t *testing.T, entities []emoji.StandardEntity, hexcode string) emoji.StandardEntity {
	t.Helper()
	for _, e := range entities {
		if e.Codepoint == hexcode {
			return e
		}
	}
	t.Fatalf("no entity with hexcode %s", hexcode)
	return emoji.StandardEntity{}
}

func TestLoad_Bundled(t *testing.T) {
	entities, err := New().Load(context.Background())
	require.NoError(t, err)
	assert.Greater(t, len(entities), 1800, "bundled catalog should carry the full dataset")

	thumbs := find(t, entities, "1F44D")
	assert.Equal(t, "+1", thumbs.Shortcode)
	assert.Equal(t, []string{"thumbsup"}, thumbs.Aliases)
	assert.Equal(t, "👍", thumbs.Glyph)
	assert.Equal(t, "thumbs up", thumbs.Label)
	assert.Equal(t, "people-body", thumbs.Category)

	// Variation selectors stay in the glyph but not in the hexcode.
	heart := find(t, entities, "2764")
	assert.Equal(t, "heart", heart.Shortcode)
	assert.Equal(t, "\u2764\ufe0f", heart.Glyph)
	assert.Equal(t, "smileys-emotion", heart.Category)

	// No shortcode in the preset: hexcode becomes canonical.
	phoenix := find(t, entities, "1F426-200D-1F525")
	assert.Equal(t, "1F426-200D-1F525", phoenix.Shortcode)
	assert.Empty(t, phoenix.Aliases)
	assert.Equal(t, "animals-nature", phoenix.Category)
}

func TestLoad_BundledCoversEverydayShortcodes(t *testing.T) {
	entities, err := New().Load(context.Background())
	require.NoError(t, err)

	glyphs := make(map[string]string)
	for _, e := range entities {
		glyphs[e.Shortcode] = e.Glyph
		for _, a := range e.Aliases {
			glyphs[a] = e.Glyph
		}
	}

	// gemoji's own table must agree with the bundled dataset.
	reference := gemoji.Map()
	for _, code := range []string{
		"+1", "thumbsup", "wave", "rocket", "sunglasses", "star", "ok_hand",
		"smiling_imp", "raised_hands", "heart", "tada", "smile", "airplane",
	} {
		got, ok := glyphs[code]
		if assert.True(t, ok, "missing :%s:", code) {
			assert.Equal(t, reference[":"+code+":"], got, ":%s:", code)
		}
	}
}

func TestLoad_Fixture(t *testing.T) {
	l := NewFromFS(os.DirFS("testdata"), WithPaths("compact.json", "shortcodes.json"))
	entities, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, entities, 50)

	plane := find(t, entities, "2708")
	assert.Equal(t, "2708", plane.Shortcode)
	assert.Empty(t, plane.Aliases)
	assert.Equal(t, "travel-places", plane.Category)
}

func TestLoad_Memoized(t *testing.T) {
	l := New()
	first, err := l.Load(context.Background())
	require.NoError(t, err)
	second, err := l.Load(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, first)
	assert.Same(t, &first[0], &second[0], "repeated loads must return the cached slice")

	l.Invalidate()
	third, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, &first[0], &third[0], "invalidate must force a fresh load")
	assert.Equal(t, first, third)
}

func TestLoad_TransformRules(t *testing.T) {
	records := `[
		{"label": "first", "hexcode": "A", "unicode": "a", "group": 0},
		{"label": "", "hexcode": "B", "unicode": "b", "group": 42},
		{"label": "third", "hexcode": "C", "unicode": "c"}
	]`
	shortcodes := `{"A": ["alpha", "first_a", "a1"], "B": "bravo"}`

	entities, err := NewFromFS(testFS(records, shortcodes)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 3)

	assert.Equal(t, "alpha", entities[0].Shortcode)
	assert.Equal(t, []string{"first_a", "a1"}, entities[0].Aliases)
	assert.Equal(t, "smileys-emotion", entities[0].Category)

	assert.Equal(t, "bravo", entities[1].Shortcode)
	assert.Empty(t, entities[1].Aliases)
	assert.Equal(t, "b", entities[1].Label, "empty label falls back to glyph")
	assert.Equal(t, OtherCategory, entities[1].Category)

	assert.Equal(t, "C", entities[2].Shortcode)
	assert.Equal(t, OtherCategory, entities[2].Category)
}

func TestLoad_DataUnavailable(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"missing records", fstest.MapFS{DefaultShortcodesPath: &fstest.MapFile{Data: []byte(`{}`)}}},
		{"missing shortcodes", fstest.MapFS{DefaultRecordsPath: &fstest.MapFile{Data: []byte(`[]`)}}},
		{"corrupt records", testFS(`[{`, `{}`)},
		{"corrupt shortcodes", testFS(`[]`, `{"A": 7}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewFromFS(tt.fsys)
			entities, err := l.Load(context.Background())
			require.Error(t, err)
			assert.True(t, emoji.IsDataUnavailable(err))
			assert.Nil(t, entities)
			assert.Nil(t, l.cache, "no partial state on failure")
		})
	}
}

func TestLoad_CustomPaths(t *testing.T) {
	fsys := fstest.MapFS{
		"en/compact.json":           &fstest.MapFile{Data: []byte(`[{"label": "x", "hexcode": "X", "unicode": "x", "group": 9}]`)},
		"en/shortcodes/github.json": &fstest.MapFile{Data: []byte(`{"X": "ex"}`)},
	}
	entities, err := NewFromFS(fsys, WithPaths("en/compact.json", "en/shortcodes/github.json")).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "ex", entities[0].Shortcode)
	assert.Equal(t, "flags", entities[0].Category)
}

func TestCategoryForGroup(t *testing.T) {
	assert.Equal(t, "smileys-emotion", CategoryForGroup(0))
	assert.Equal(t, "flags", CategoryForGroup(9))
	assert.Equal(t, OtherCategory, CategoryForGroup(10))
	assert.Equal(t, OtherCategory, CategoryForGroup(-1))
}
