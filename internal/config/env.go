package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names. Process environment wins over env files.
const (
	EnvRoot               = "SLACKEMOJI_ROOT"
	EnvFolder             = "SLACKEMOJI_FOLDER"
	EnvDatabase           = "SLACKEMOJI_DB"
	EnvEnableUnicode      = "SLACKEMOJI_ENABLE_UNICODE"
	EnvEnableCustom       = "SLACKEMOJI_ENABLE_CUSTOM"
	EnvEnableAutocomplete = "SLACKEMOJI_ENABLE_AUTOCOMPLETE"
	EnvMinChars           = "SLACKEMOJI_MIN_CHARS"
)

// ApplyEnv overlays SLACKEMOJI_* values onto s. Values come from envFiles
// (read with godotenv, later files winning) and then the process
// environment. The result is validated.
func ApplyEnv(s Settings, envFiles ...string) (Settings, error) {
	values := map[string]string{}
	if len(envFiles) > 0 {
		fileValues, err := godotenv.Read(envFiles...)
		if err != nil {
			return Settings{}, fmt.Errorf("read env files: %w", err)
		}
		values = fileValues
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}

	textFields := []struct {
		key string
		dst *string
	}{
		{EnvRoot, &s.Root},
		{EnvFolder, &s.CustomEmojiFolder},
		{EnvDatabase, &s.Database},
	}
	for _, f := range textFields {
		if v, ok := lookup(f.key); ok {
			*f.dst = v
		}
	}

	boolFields := []struct {
		key string
		dst *bool
	}{
		{EnvEnableUnicode, &s.EnableUnicodeEmoji},
		{EnvEnableCustom, &s.EnableCustomEmoji},
		{EnvEnableAutocomplete, &s.EnableAutocomplete},
	}
	for _, f := range boolFields {
		v, ok := lookup(f.key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, &Error{Message: fmt.Sprintf("%s: %q is not a boolean", f.key, v)}
		}
		*f.dst = b
	}

	if v, ok := lookup(EnvMinChars); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Settings{}, &Error{Message: fmt.Sprintf("%s: %q is not an integer", EnvMinChars, v)}
		}
		s.AutocompleteMinChars = n
	}

	return s, Validate(s)
}
