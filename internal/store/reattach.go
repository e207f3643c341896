package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

// Patcher applies partial updates to custom entities.
// Implemented by *registry.Registry.
type Patcher interface {
	PatchCustom(shortcode string, patch emoji.CustomPatch) bool
}

// Reattach patches every saved alias list onto the matching registered
// entity. Records whose entity is not registered are skipped. Returns the
// number of entities patched.
func (s *Store) Reattach(ctx context.Context, target Patcher) (int, error) {
	records, err := s.ListMetadata(ctx)
	if err != nil {
		return 0, fmt.Errorf("reattach: %w", err)
	}

	patched := 0
	for _, m := range records {
		if target.PatchCustom(m.Shortcode, emoji.CustomPatch{Aliases: m.Aliases}) {
			patched++
			continue
		}
		slog.Debug("metadata without registered emoji", "shortcode", m.Shortcode)
	}

	slog.Info("custom emoji metadata reattached", "records", len(records), "patched", patched)
	return patched, nil
}

// AttachHook returns a registration hook (see syncer.WithRegisterHook) that
// re-applies saved aliases whenever an entity is (re)registered.
func (s *Store) AttachHook(target Patcher) func(context.Context, emoji.CustomEntity) {
	return func(ctx context.Context, e emoji.CustomEntity) {
		m, err := s.ReadMetadata(ctx, e.Shortcode)
		if emoji.IsNotFound(err) {
			return
		}
		if err != nil {
			slog.Warn("failed to read emoji metadata", "shortcode", e.Shortcode, "error", err)
			return
		}
		if len(m.Aliases) == 0 {
			return
		}
		target.PatchCustom(e.Shortcode, emoji.CustomPatch{Aliases: m.Aliases})
	}
}
