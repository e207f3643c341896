// Package config loads slackemoji settings from YAML or CUE files and the
// environment. Every result is validated against the embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed settings.cue
var schemaCUE string

// Settings configures emoji resolution. Field names in files use the
// snake_case keys in the tags.
type Settings struct {
	// Root is the vault directory; CustomEmojiFolder is relative to it.
	Root                 string `yaml:"root" json:"root"`
	CustomEmojiFolder    string `yaml:"custom_emoji_folder" json:"custom_emoji_folder"`
	EnableUnicodeEmoji   bool   `yaml:"enable_unicode_emoji" json:"enable_unicode_emoji"`
	EnableCustomEmoji    bool   `yaml:"enable_custom_emoji" json:"enable_custom_emoji"`
	EnableAutocomplete   bool   `yaml:"enable_autocomplete" json:"enable_autocomplete"`
	AutocompleteMinChars int    `yaml:"autocomplete_min_chars" json:"autocomplete_min_chars"`
	// Database is the metadata store path, relative to Root unless absolute.
	Database string `yaml:"database" json:"database"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Root:                 ".",
		CustomEmojiFolder:    ".obsidian/emoji",
		EnableUnicodeEmoji:   true,
		EnableCustomEmoji:    true,
		EnableAutocomplete:   true,
		AutocompleteMinChars: 2,
		Database:             "emoji.db",
	}
}

// DatabasePath resolves Database against Root.
func (s Settings) DatabasePath() string {
	if filepath.IsAbs(s.Database) {
		return s.Database
	}
	return filepath.Join(s.Root, s.Database)
}

// Error is a settings validation failure. Pos is "file:line:col" when known.
type Error struct {
	Pos     string
	Message string
}

func (e *Error) Error() string {
	if e.Pos != "" {
		return fmt.Sprintf("%s: invalid settings: %s", e.Pos, e.Message)
	}
	return "invalid settings: " + e.Message
}

// Load reads settings from path. An empty path returns the defaults.
// Missing keys keep their defaults; unknown keys are rejected.
func Load(path string) (Settings, error) {
	if path == "" {
		s := Default()
		return s, Validate(s)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return loadYAML(data)
	case ".cue":
		return loadCUE(path, data)
	default:
		return Settings{}, fmt.Errorf("read config: unsupported extension %q (want .yaml, .yml or .cue)", ext)
	}
}

func loadYAML(data []byte) (Settings, error) {
	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, &Error{Message: err.Error()}
	}
	return s, Validate(s)
}

func loadCUE(path string, data []byte) (Settings, error) {
	ctx := cuecontext.New()
	def, err := schema(ctx)
	if err != nil {
		return Settings{}, err
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return Settings{}, formatCUEError(err)
	}

	merged := def.Unify(v)
	if err := merged.Validate(); err != nil {
		return Settings{}, formatCUEError(err)
	}

	// Decode resolves schema defaults for keys the file leaves out.
	var s Settings
	if err := merged.Decode(&s); err != nil {
		return Settings{}, formatCUEError(err)
	}
	return s, Validate(s)
}

// Validate checks s against the #Settings schema.
func Validate(s Settings) error {
	ctx := cuecontext.New()
	def, err := schema(ctx)
	if err != nil {
		return err
	}

	v := def.Unify(ctx.Encode(s))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

func schema(ctx *cue.Context) (cue.Value, error) {
	v := ctx.CompileString(schemaCUE, cue.Filename("settings.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile settings schema: %w", err)
	}
	return v.LookupPath(cue.ParsePath("#Settings")), nil
}

// formatCUEError keeps the first error and its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Message: err.Error()}
	}

	first := errs[0]
	out := &Error{Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		p := positions[0]
		if name := p.Filename(); name != "" && name != "settings.cue" {
			out.Pos = fmt.Sprintf("%s:%d:%d", name, p.Line(), p.Column())
		}
	}
	return out
}
