package registry

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

func std(code, label string, aliases ...string) emoji.StandardEntity {
	return emoji.StandardEntity{
		Shortcode: code,
		Aliases:   aliases,
		Glyph:     "*" + code,
		Label:     label,
		Codepoint: "X-" + code,
	}
}

func custom(code string, aliases ...string) emoji.CustomEntity {
	return emoji.CustomEntity{
		Shortcode:  code,
		Aliases:    aliases,
		SourceName: code + ".png",
		SourcePath: ".obsidian/emoji/" + code + ".png",
		Payload:    "data:image/png;base64,AAAA",
	}
}

func requireResolves(t *testing.T, r *Registry, token string, kind emoji.Kind, code string) {
	t.Helper()
	e, ok := r.Resolve(token)
	require.True(t, ok, "expected %q to resolve", token)
	assert.Equal(t, kind, e.Kind(), "kind for %q", token)
	assert.Equal(t, code, e.Code(), "shortcode for %q", token)
}

func TestResolve_CanonicalAndAlias(t *testing.T) {
	r := New()
	r.LoadStandard([]emoji.StandardEntity{std("+1", "thumbs up", "thumbsup", "thumbup")})
	r.UpsertCustom(custom("logo", "brand", "company"))

	for _, token := range []string{"+1", "thumbsup", "thumbup"} {
		requireResolves(t, r, token, emoji.KindStandard, "+1")
	}
	for _, token := range []string{"logo", "brand", "company"} {
		requireResolves(t, r, token, emoji.KindCustom, "logo")
	}

	_, ok := r.Resolve("nonexistent_xyz")
	assert.False(t, ok)
	require.NoError(t, r.VerifyIndex())
}

func TestResolve_CustomOverridesStandard(t *testing.T) {
	r := New()
	r.LoadStandard([]emoji.StandardEntity{std("fire", "fire", "flame")})
	r.UpsertCustom(custom("fire"))

	requireResolves(t, r, "fire", emoji.KindCustom, "fire")
	// The alias still targets shortcode "fire", which now resolves custom first.
	requireResolves(t, r, "flame", emoji.KindCustom, "fire")

	require.True(t, r.RemoveCustom("fire"))
	requireResolves(t, r, "fire", emoji.KindStandard, "fire")
	requireResolves(t, r, "flame", emoji.KindStandard, "fire")
}

func TestLoadStandard_LeavesCustomUntouched(t *testing.T) {
	r := New()
	r.LoadStandard([]emoji.StandardEntity{std("smile", "smile", "happy")})
	r.UpsertCustom(custom("logo", "brand"))

	r.LoadStandard([]emoji.StandardEntity{std("joy", "joy", "lol")})

	_, ok := r.Resolve("smile")
	assert.False(t, ok)
	_, ok = r.Resolve("happy")
	assert.False(t, ok, "aliases of replaced standard entities are dropped")
	requireResolves(t, r, "lol", emoji.KindStandard, "joy")
	requireResolves(t, r, "brand", emoji.KindCustom, "logo")

	assert.Equal(t, Stats{Standard: 1, Custom: 1, Aliases: 2}, r.Stats())
	require.NoError(t, r.VerifyIndex())
}

func TestLoadStandard_DuplicateShortcodeReplacesInPlace(t *testing.T) {
	r := New()
	r.LoadStandard([]emoji.StandardEntity{
		std("a", "first", "a_old"),
		std("b", "b"),
		std("a", "second", "a_new"),
	})

	e, ok := r.Resolve("a")
	require.True(t, ok)
	assert.Equal(t, "second", e.(emoji.StandardEntity).Label)
	_, ok = r.Resolve("a_old")
	assert.False(t, ok)

	codes := []string{}
	for _, s := range r.Standard() {
		codes = append(codes, s.Shortcode)
	}
	assert.Equal(t, []string{"a", "b"}, codes)
	require.NoError(t, r.VerifyIndex())
}

func TestUpsertCustom_ReplacesAliases(t *testing.T) {
	r := New()
	r.UpsertCustom(custom("logo", "brand", "co"))
	r.UpsertCustom(custom("other"))
	r.UpsertCustom(custom("logo", "company"))

	_, ok := r.Resolve("brand")
	assert.False(t, ok)
	_, ok = r.Resolve("co")
	assert.False(t, ok)
	requireResolves(t, r, "company", emoji.KindCustom, "logo")

	codes := []string{}
	for _, c := range r.Custom() {
		codes = append(codes, c.Shortcode)
	}
	assert.Equal(t, []string{"logo", "other"}, codes, "replacement keeps insertion position")
	require.NoError(t, r.VerifyIndex())
}

func TestUpsertCustom_CopiesAliases(t *testing.T) {
	r := New()
	aliases := []string{"brand"}
	r.UpsertCustom(emoji.CustomEntity{Shortcode: "logo", Aliases: aliases})
	aliases[0] = "mutated"

	requireResolves(t, r, "brand", emoji.KindCustom, "logo")
	require.NoError(t, r.VerifyIndex())
}

func TestRemoveCustom(t *testing.T) {
	r := New()
	assert.False(t, r.RemoveCustom("missing"))

	r.UpsertCustom(custom("logo", "brand", "company"))
	require.True(t, r.RemoveCustom("logo"))

	for _, token := range []string{"logo", "brand", "company"} {
		_, ok := r.Resolve(token)
		assert.False(t, ok, "%q should not resolve after removal", token)
	}
	assert.Equal(t, Stats{}, r.Stats())
	assert.False(t, r.RemoveCustom("logo"))
}

func TestPatchCustom(t *testing.T) {
	r := New()
	assert.False(t, r.PatchCustom("missing", emoji.CustomPatch{Aliases: []string{"x"}}))
	_, ok := r.Resolve("x")
	assert.False(t, ok)

	r.UpsertCustom(custom("logo", "brand"))
	require.True(t, r.PatchCustom("logo", emoji.CustomPatch{Aliases: []string{"co", "company"}}))

	_, ok = r.Resolve("brand")
	assert.False(t, ok)
	requireResolves(t, r, "co", emoji.KindCustom, "logo")
	requireResolves(t, r, "company", emoji.KindCustom, "logo")

	category := "work"
	require.True(t, r.PatchCustom("logo", emoji.CustomPatch{Category: &category}))
	e, _ := r.Resolve("logo")
	assert.Equal(t, "work", e.CategoryName())
	assert.Equal(t, []string{"co", "company"}, e.AliasList(), "nil aliases leave the list unchanged")
	require.NoError(t, r.VerifyIndex())
}

func TestAliasCollision_LastWriteWinsAndFallsBack(t *testing.T) {
	var collisions []Collision
	r := New(WithCollisionHandler(func(c Collision) { collisions = append(collisions, c) }))

	r.LoadStandard([]emoji.StandardEntity{std("thumbsup", "thumbs up", "yes")})
	r.UpsertCustom(custom("approve", "yes"))

	requireResolves(t, r, "yes", emoji.KindCustom, "approve")
	require.Len(t, collisions, 1)
	assert.Equal(t, Collision{
		Alias:        "yes",
		Previous:     "thumbsup",
		PreviousKind: emoji.KindStandard,
		Next:         "approve",
		NextKind:     emoji.KindCustom,
	}, collisions[0])

	// Removing the winner hands the alias back to the remaining claimant.
	require.True(t, r.RemoveCustom("approve"))
	requireResolves(t, r, "yes", emoji.KindStandard, "thumbsup")
	require.NoError(t, r.VerifyIndex())
}

func TestAliasCollision_LoserRemovalKeepsWinner(t *testing.T) {
	r := New()
	r.UpsertCustom(custom("a", "shared"))
	r.UpsertCustom(custom("b", "shared"))
	requireResolves(t, r, "shared", emoji.KindCustom, "b")

	require.True(t, r.RemoveCustom("a"))
	requireResolves(t, r, "shared", emoji.KindCustom, "b")
	require.NoError(t, r.VerifyIndex())
}

func TestAliasCollision_HandlerMayReenter(t *testing.T) {
	var r *Registry
	seen := 0
	r = New(WithCollisionHandler(func(c Collision) {
		seen++
		_, _ = r.Resolve(c.Alias)
	}))
	r.UpsertCustom(custom("a", "shared"))
	r.UpsertCustom(custom("b", "shared"))
	assert.Equal(t, 1, seen)
}

func TestSearch(t *testing.T) {
	r := New()
	r.LoadStandard([]emoji.StandardEntity{
		std("smile", "grinning face with smiling eyes"),
		std("+1", "thumbs up", "thumbsup"),
		std("joy", "face with tears of joy"),
		std("sob", "Loudly Crying Face"),
	})
	r.UpsertCustom(custom("party_parrot", "parrot"))
	r.UpsertCustom(custom("smiley_corp"))

	codes := func(es []emoji.Entity) []string {
		out := []string{}
		for _, e := range es {
			out = append(out, e.Code())
		}
		return out
	}

	t.Run("shortcode alias and label", func(t *testing.T) {
		assert.Equal(t, []string{"+1"}, codes(r.Search("thumbsup", 10)))
		assert.Equal(t, []string{"+1"}, codes(r.Search("THUMBS", 10)))
		assert.Equal(t, []string{"sob"}, codes(r.Search("crying", 10)))
		assert.Equal(t, []string{"party_parrot"}, codes(r.Search("parrot", 10)))
	})

	t.Run("standard before custom", func(t *testing.T) {
		assert.Equal(t, []string{"smile", "smiley_corp"}, codes(r.Search("smil", 10)))
	})

	t.Run("custom labels are not searched", func(t *testing.T) {
		assert.Empty(t, r.Search("png", 10))
	})

	t.Run("limit stops early in insertion order", func(t *testing.T) {
		assert.Equal(t, []string{"smile", "joy"}, codes(r.Search("face", 2)))
		assert.Len(t, r.Search("", 5), 5)
		assert.Len(t, r.Search("", DefaultSearchLimit), 6)
	})

	t.Run("non-positive limit returns nothing", func(t *testing.T) {
		assert.Empty(t, r.Search("smile", 0))
		assert.Empty(t, r.Search("", -1))
	})
}

func TestSearch_LimitNeverExceeded(t *testing.T) {
	r := New()
	var standard []emoji.StandardEntity
	for i := 0; i < 20; i++ {
		standard = append(standard, std(fmt.Sprintf("a%02d", i), "label"))
	}
	r.LoadStandard(standard)
	for i := 0; i < 5; i++ {
		r.UpsertCustom(custom(fmt.Sprintf("ca%d", i)))
	}

	results := r.Search("a", 5)
	require.Len(t, results, 5)
	for i, e := range results {
		assert.Equal(t, emoji.KindStandard, e.Kind())
		assert.Equal(t, fmt.Sprintf("a%02d", i), e.Code())
	}
}

func TestEnumeration(t *testing.T) {
	r := New()
	r.LoadStandard([]emoji.StandardEntity{std("s1", "one"), std("s2", "two")})
	r.UpsertCustom(custom("c1"))
	r.UpsertCustom(custom("c2"))

	all := r.All()
	require.Len(t, all, 4)
	assert.Equal(t, "c1", all[0].Code())
	assert.Equal(t, "c2", all[1].Code())
	assert.Equal(t, "s1", all[2].Code())

	e, ok := r.CustomByPath(".obsidian/emoji/c2.png")
	require.True(t, ok)
	assert.Equal(t, "c2", e.Shortcode)
	_, ok = r.CustomByPath("nope.png")
	assert.False(t, ok)

	r.Clear()
	assert.Equal(t, Stats{}, r.Stats())
	assert.Empty(t, r.All())
	assert.Empty(t, r.AliasIndex())
}

// TestAliasIndexIntegrity applies a long random sequence of mutations and
// checks the maintained index against a rebuild after every step.
func TestAliasIndexIntegrity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pool := []string{"a", "b", "c", "d", "e", "f"}
	codes := []string{"x", "y", "z", "w"}
	pick := func() []string {
		n := rng.Intn(4)
		out := make([]string, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, pool[rng.Intn(len(pool))])
		}
		return out
	}

	r := New()
	r.LoadStandard([]emoji.StandardEntity{std("x", "x", "a", "b"), std("q", "q", "c")})

	for step := 0; step < 500; step++ {
		code := codes[rng.Intn(len(codes))]
		switch rng.Intn(4) {
		case 0:
			r.UpsertCustom(custom(code, pick()...))
		case 1:
			r.RemoveCustom(code)
		case 2:
			r.PatchCustom(code, emoji.CustomPatch{Aliases: pick()})
		case 3:
			if rng.Intn(10) == 0 {
				r.LoadStandard([]emoji.StandardEntity{std("q", "q", pick()...), std(code, code, pick()...)})
			}
		}
		require.NoError(t, r.VerifyIndex(), "step %d", step)

		for alias := range r.AliasIndex() {
			_, ok := r.Resolve(alias)
			require.True(t, ok, "step %d: alias %q must resolve", step, alias)
		}
		for _, e := range r.All() {
			for _, alias := range e.AliasList() {
				_, ok := r.Resolve(alias)
				require.True(t, ok, "step %d: alias %q of %q must resolve", step, alias, e.Code())
			}
		}
	}
}
