package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
	"github.com/ssoriche/obsidian-slack-emoji/internal/registry"
)

var day = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

func TestSaveAndReadMetadata(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	m := emoji.Metadata{
		Shortcode:  "my_company_logo",
		SourceName: "My Company@Logo.png",
		Aliases:    []string{"logo", "company"},
		CreatedAt:  day,
	}
	require.NoError(t, s.SaveMetadata(ctx, m))

	got, err := s.ReadMetadata(ctx, "my_company_logo")
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestSaveMetadata_Upserts(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.SaveMetadata(ctx, emoji.Metadata{Shortcode: "a", SourceName: "a.png", CreatedAt: day}))
	require.NoError(t, s.SaveMetadata(ctx, emoji.Metadata{Shortcode: "a", SourceName: "a.gif", Aliases: []string{"x"}, CreatedAt: day}))

	got, err := s.ReadMetadata(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a.gif", got.SourceName)
	assert.Equal(t, []string{"x"}, got.Aliases)

	all, err := s.ListMetadata(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSaveMetadata_Defaults(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	before := time.Now().Add(-time.Second)
	require.NoError(t, s.SaveMetadata(ctx, emoji.Metadata{Shortcode: "b", SourceName: "b.png"}))

	got, err := s.ReadMetadata(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Aliases)
	assert.True(t, got.CreatedAt.After(before))
}

func TestSaveMetadata_EmptyShortcode(t *testing.T) {
	s := createTestStore(t)

	err := s.SaveMetadata(context.Background(), emoji.Metadata{SourceName: "x.png"})
	assert.True(t, emoji.IsInvalidInput(err))
}

func TestReadMetadata_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadMetadata(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, emoji.IsNotFound(err))
}

func TestDeleteMetadata(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	require.NoError(t, s.SaveMetadata(ctx, emoji.Metadata{Shortcode: "gone", SourceName: "gone.png", CreatedAt: day}))

	require.NoError(t, s.DeleteMetadata(ctx, "gone"))
	assert.True(t, emoji.IsNotFound(s.DeleteMetadata(ctx, "gone")))
}

func TestSetAliases(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	require.NoError(t, s.SaveMetadata(ctx, emoji.Metadata{Shortcode: "c", SourceName: "c.png", CreatedAt: day}))

	require.NoError(t, s.SetAliases(ctx, "c", []string{"see", "sea"}))
	got, err := s.ReadMetadata(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"see", "sea"}, got.Aliases)

	require.NoError(t, s.SetAliases(ctx, "c", nil))
	got, err = s.ReadMetadata(ctx, "c")
	require.NoError(t, err)
	assert.Empty(t, got.Aliases)

	assert.True(t, emoji.IsNotFound(s.SetAliases(ctx, "nope", []string{"x"})))
}

func TestListMetadata_OrderedByAddedDateThenShortcode(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	for _, m := range []emoji.Metadata{
		{Shortcode: "zeta", SourceName: "zeta.png", CreatedAt: day},
		{Shortcode: "alpha", SourceName: "alpha.png", CreatedAt: day.Add(time.Hour)},
		{Shortcode: "beta", SourceName: "beta.png", CreatedAt: day},
	} {
		require.NoError(t, s.SaveMetadata(ctx, m))
	}

	all, err := s.ListMetadata(ctx)
	require.NoError(t, err)

	var codes []string
	for _, m := range all {
		codes = append(codes, m.Shortcode)
	}
	assert.Equal(t, []string{"beta", "zeta", "alpha"}, codes)
}

func TestListMetadata_CorruptAliases(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.db.Exec(`INSERT INTO custom_emojis (shortcode, filename, aliases, added_date) VALUES ('bad', 'bad.png', 'not json', 1)`)
	require.NoError(t, err)

	_, err = s.ListMetadata(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `shortcode "bad"`)
}

func TestReattach(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	reg := registry.New()
	reg.UpsertCustom(emoji.CustomEntity{Shortcode: "logo", SourcePath: "emoji/logo.png"})

	require.NoError(t, s.SaveMetadata(ctx, emoji.Metadata{Shortcode: "logo", SourceName: "logo.png", Aliases: []string{"brand"}, CreatedAt: day}))
	require.NoError(t, s.SaveMetadata(ctx, emoji.Metadata{Shortcode: "orphan", SourceName: "orphan.png", Aliases: []string{"lost"}, CreatedAt: day}))

	n, err := s.Reattach(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	e, ok := reg.Resolve("brand")
	require.True(t, ok)
	assert.Equal(t, "logo", e.Code())

	_, ok = reg.Resolve("lost")
	assert.False(t, ok)
	assert.NoError(t, reg.VerifyIndex())
}

func TestAttachHook(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	reg := registry.New()
	hook := s.AttachHook(reg)

	require.NoError(t, s.SaveMetadata(ctx, emoji.Metadata{Shortcode: "wave2", SourceName: "wave2.gif", Aliases: []string{"hi"}, CreatedAt: day}))

	e := emoji.CustomEntity{Shortcode: "wave2", Aliases: []string{}}
	reg.UpsertCustom(e)
	hook(ctx, e)

	got, ok := reg.Resolve("hi")
	require.True(t, ok)
	assert.Equal(t, "wave2", got.Code())

	// Entities without saved metadata are left alone.
	plain := emoji.CustomEntity{Shortcode: "plain"}
	reg.UpsertCustom(plain)
	hook(ctx, plain)
	assert.Equal(t, 1, reg.Stats().Aliases)
}
