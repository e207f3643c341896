package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_YAML(t *testing.T) {
	s, err := Load("testdata/full.yaml")
	require.NoError(t, err)

	assert.Equal(t, Settings{
		Root:                 "/vault",
		CustomEmojiFolder:    "assets/emoji",
		EnableUnicodeEmoji:   false,
		EnableCustomEmoji:    true,
		EnableAutocomplete:   false,
		AutocompleteMinChars: 3,
		Database:             "/var/lib/slackemoji/emoji.db",
	}, s)
	assert.Equal(t, "/var/lib/slackemoji/emoji.db", s.DatabasePath())
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	s, err := Load("testdata/partial.yaml")
	require.NoError(t, err)

	want := Default()
	want.CustomEmojiFolder = "emoji"
	assert.Equal(t, want, s)
}

func TestLoad_YAMLUnknownKey(t *testing.T) {
	_, err := Load("testdata/unknown.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emoji_size")
}

func TestLoad_EmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_CUE(t *testing.T) {
	s, err := Load("testdata/settings.cue")
	require.NoError(t, err)

	want := Default()
	want.CustomEmojiFolder = "slack/emoji"
	want.AutocompleteMinChars = 4
	want.EnableUnicodeEmoji = false
	assert.Equal(t, want, s)
}

func TestLoad_CUEOutOfRange(t *testing.T) {
	_, err := Load("testdata/invalid.cue")
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "autocomplete_min_chars")
}

func TestLoad_CUEUnknownField(t *testing.T) {
	_, err := Load("testdata/unknown.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emoji_size")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		field  string
	}{
		{"empty folder", func(s *Settings) { s.CustomEmojiFolder = "" }, "custom_emoji_folder"},
		{"min chars zero", func(s *Settings) { s.AutocompleteMinChars = 0 }, "autocomplete_min_chars"},
		{"min chars too large", func(s *Settings) { s.AutocompleteMinChars = 11 }, "autocomplete_min_chars"},
		{"empty database", func(s *Settings) { s.Database = "" }, "database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := Validate(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	assert.NoError(t, Validate(Default()))
}

func TestDatabasePath_RelativeToRoot(t *testing.T) {
	s := Default()
	s.Root = "/vault"
	assert.Equal(t, filepath.Join("/vault", "emoji.db"), s.DatabasePath())
}

func TestApplyEnv_FileThenProcess(t *testing.T) {
	t.Setenv(EnvMinChars, "3")
	t.Setenv(EnvEnableUnicode, "false")

	s, err := ApplyEnv(Default(), "testdata/test.env")
	require.NoError(t, err)

	assert.Equal(t, "from-file", s.CustomEmojiFolder)
	assert.Equal(t, 3, s.AutocompleteMinChars)
	assert.False(t, s.EnableUnicodeEmoji)
	assert.True(t, s.EnableCustomEmoji)
}

func TestApplyEnv_NoFiles(t *testing.T) {
	t.Setenv(EnvDatabase, "/tmp/other.db")

	s, err := ApplyEnv(Default())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", s.Database)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	t.Setenv(EnvEnableCustom, "sometimes")
	_, err := ApplyEnv(Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvEnableCustom)

	t.Setenv(EnvEnableCustom, "true")
	t.Setenv(EnvMinChars, "lots")
	_, err = ApplyEnv(Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvMinChars)

	t.Setenv(EnvMinChars, "99")
	_, err = ApplyEnv(Default())
	assert.Error(t, err)
}

func TestApplyEnv_MissingFile(t *testing.T) {
	_, err := ApplyEnv(Default(), "testdata/missing.env")
	assert.Error(t, err)
}
