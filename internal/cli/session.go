package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ssoriche/obsidian-slack-emoji/internal/catalog"
	"github.com/ssoriche/obsidian-slack-emoji/internal/config"
	"github.com/ssoriche/obsidian-slack-emoji/internal/fsource"
	"github.com/ssoriche/obsidian-slack-emoji/internal/registry"
	"github.com/ssoriche/obsidian-slack-emoji/internal/store"
	"github.com/ssoriche/obsidian-slack-emoji/internal/syncer"
)

// Session is a loaded registry plus, when custom emoji are enabled, the
// source, synchronizer and metadata store feeding it.
type Session struct {
	Settings config.Settings
	Registry *registry.Registry
	Source   *fsource.Source      // nil when custom emoji are disabled
	Sync     *syncer.Synchronizer // nil when custom emoji are disabled
	Store    *store.Store         // nil when custom emoji are disabled
}

// loadSettings resolves settings from the config file, env files, the
// process environment and flags, in increasing precedence.
func loadSettings(opts *RootOptions) (config.Settings, error) {
	s, err := config.Load(opts.Config)
	if err != nil {
		return config.Settings{}, err
	}
	s, err = config.ApplyEnv(s, opts.EnvFiles...)
	if err != nil {
		return config.Settings{}, err
	}

	if opts.Root != "" {
		s.Root = opts.Root
	}
	if opts.Folder != "" {
		s.CustomEmojiFolder = opts.Folder
	}
	if opts.Database != "" {
		s.Database = opts.Database
	}
	if err := config.Validate(s); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

// openSession loads settings and builds the registry. Custom emoji in the
// folder are registered before openSession returns; the synchronizer is
// left subscribed so a caller may go on to watch for changes.
//
// A catalog that cannot be loaded is logged and leaves only custom emoji.
func openSession(ctx context.Context, opts *RootOptions) (*Session, error) {
	settings, err := loadSettings(opts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load settings", err)
	}

	reg := registry.New(registry.WithCollisionHandler(func(c registry.Collision) {
		slog.Warn("alias reassigned",
			"alias", c.Alias,
			"previous", c.Previous,
			"previous_kind", c.PreviousKind,
			"next", c.Next,
			"next_kind", c.NextKind,
		)
	}))
	s := &Session{Settings: settings, Registry: reg}

	if settings.EnableUnicodeEmoji {
		entities, err := catalog.New().Load(ctx)
		if err != nil {
			slog.Error("continuing without standard emoji", "error", err)
		} else {
			reg.LoadStandard(entities)
		}
	}

	if !settings.EnableCustomEmoji {
		return s, nil
	}

	st, err := store.Open(settings.DatabasePath())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	s.Store = st
	s.Source = fsource.New(settings.Root)
	s.Sync = syncer.New(s.Source, reg, s.FolderPath(),
		syncer.WithRegisterHook(st.AttachHook(reg)),
	)

	if err := s.Sync.Start(ctx); err != nil {
		s.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load custom emoji", err)
	}
	return s, nil
}

// FolderPath is the custom emoji folder as a slash-separated path relative
// to the vault root.
func (s *Session) FolderPath() string {
	return filepath.ToSlash(filepath.Clean(s.Settings.CustomEmojiFolder))
}

// FolderDir is the custom emoji folder on disk.
func (s *Session) FolderDir() string {
	return filepath.Join(s.Settings.Root, filepath.FromSlash(s.FolderPath()))
}

// requireCustom returns an error when custom emoji are disabled.
func (s *Session) requireCustom() error {
	if s.Store == nil {
		return NewExitError(ExitCommandError, "custom emoji are disabled")
	}
	return nil
}

// Close stops the synchronizer and closes the store.
func (s *Session) Close() {
	if s.Sync != nil {
		s.Sync.Stop()
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}
}

// String summarizes where the session reads from.
func (s *Session) String() string {
	return fmt.Sprintf("root=%s folder=%s db=%s", s.Settings.Root, s.FolderPath(), s.Settings.DatabasePath())
}
