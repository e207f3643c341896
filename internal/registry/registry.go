package registry

import (
	"log/slog"
	"sync"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

// DefaultSearchLimit is the result cap callers use when none is given.
const DefaultSearchLimit = 50

// Collision describes an alias whose target changed because a later entity
// claimed it.
type Collision struct {
	Alias        string
	Previous     string // canonical shortcode that owned the alias
	PreviousKind emoji.Kind
	Next         string // canonical shortcode that owns it now
	NextKind     emoji.Kind
}

// Stats summarizes table sizes.
type Stats struct {
	Standard int `json:"unicode"`
	Custom   int `json:"custom"`
	Aliases  int `json:"total_aliases"`
}

// claimKey identifies the entity that declared an alias.
type claimKey struct {
	kind      emoji.Kind
	shortcode string
}

// Registry indexes standard and custom entities by shortcode and alias.
type Registry struct {
	mu sync.RWMutex

	standard      map[string]emoji.StandardEntity
	standardOrder []string
	custom        map[string]emoji.CustomEntity
	customOrder   []string

	aliases  map[string]string     // alias -> canonical shortcode of the winning claim
	claims   map[string][]claimKey // alias -> claimants, oldest first
	claimSeq map[claimKey]int64    // when each entity's aliases were last claimed
	seq      int64

	onCollision func(Collision)
}

// Option configures a Registry.
type Option func(*Registry)

// WithCollisionHandler registers a callback invoked after a mutation whenever
// an alias changes owner. The callback runs outside the registry lock and may
// call back into the registry.
func WithCollisionHandler(fn func(Collision)) Option {
	return func(r *Registry) {
		r.onCollision = fn
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	r.reset()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) reset() {
	r.standard = make(map[string]emoji.StandardEntity)
	r.standardOrder = nil
	r.custom = make(map[string]emoji.CustomEntity)
	r.customOrder = nil
	r.aliases = make(map[string]string)
	r.claims = make(map[string][]claimKey)
	r.claimSeq = make(map[claimKey]int64)
}

// LoadStandard replaces the standard table. Only alias claims made by
// standard entities are dropped and rebuilt; custom entities and their
// aliases are untouched.
//
// When the input repeats a shortcode, the later entity replaces the earlier
// one in place.
func (r *Registry) LoadStandard(entities []emoji.StandardEntity) {
	var collisions []Collision

	r.mu.Lock()
	for _, code := range r.standardOrder {
		r.release(claimKey{emoji.KindStandard, code}, r.standard[code].Aliases)
	}
	r.standard = make(map[string]emoji.StandardEntity, len(entities))
	r.standardOrder = make([]string, 0, len(entities))

	for _, e := range entities {
		key := claimKey{emoji.KindStandard, e.Shortcode}
		if prev, exists := r.standard[e.Shortcode]; exists {
			r.release(key, prev.Aliases)
		} else {
			r.standardOrder = append(r.standardOrder, e.Shortcode)
		}
		e.Aliases = cloneStrings(e.Aliases)
		r.standard[e.Shortcode] = e
		collisions = append(collisions, r.claim(key, e.Aliases)...)
	}
	standardCount, aliasCount := len(r.standard), len(r.aliases)
	r.mu.Unlock()

	slog.Info("loaded standard emoji into registry",
		"unicode", standardCount,
		"aliases", aliasCount,
	)
	r.report(collisions)
}

// UpsertCustom inserts or fully replaces the custom entity at e.Shortcode.
// Aliases owned by the prior version are de-indexed before the new set is
// indexed. A replaced entity keeps its position in enumeration order.
func (r *Registry) UpsertCustom(e emoji.CustomEntity) {
	e.Aliases = cloneStrings(e.Aliases)
	key := claimKey{emoji.KindCustom, e.Shortcode}

	r.mu.Lock()
	if prev, exists := r.custom[e.Shortcode]; exists {
		r.release(key, prev.Aliases)
	} else {
		r.customOrder = append(r.customOrder, e.Shortcode)
	}
	r.custom[e.Shortcode] = e
	collisions := r.claim(key, e.Aliases)
	r.mu.Unlock()

	slog.Debug("custom emoji registered",
		"shortcode", e.Shortcode,
		"path", e.SourcePath,
		"aliases", len(e.Aliases),
	)
	r.report(collisions)
}

// RemoveCustom deletes the custom entity and de-indexes its aliases.
// Returns false if no custom entity has that shortcode.
func (r *Registry) RemoveCustom(shortcode string) bool {
	r.mu.Lock()
	prev, exists := r.custom[shortcode]
	if !exists {
		r.mu.Unlock()
		return false
	}
	r.release(claimKey{emoji.KindCustom, shortcode}, prev.Aliases)
	delete(r.custom, shortcode)
	r.customOrder = removeString(r.customOrder, shortcode)
	r.mu.Unlock()

	slog.Debug("custom emoji removed", "shortcode", shortcode)
	return true
}

// PatchCustom merges patch into the existing custom entity and re-indexes
// its aliases. Returns false if no custom entity has that shortcode.
func (r *Registry) PatchCustom(shortcode string, patch emoji.CustomPatch) bool {
	key := claimKey{emoji.KindCustom, shortcode}

	r.mu.Lock()
	prev, exists := r.custom[shortcode]
	if !exists {
		r.mu.Unlock()
		return false
	}
	next := patch.Apply(prev)
	next.Aliases = cloneStrings(next.Aliases)

	var collisions []Collision
	if patch.Aliases != nil {
		r.release(key, prev.Aliases)
		r.custom[shortcode] = next
		collisions = r.claim(key, next.Aliases)
	} else {
		r.custom[shortcode] = next
	}
	r.mu.Unlock()

	r.report(collisions)
	return true
}

// Resolve maps a canonical shortcode or alias to its entity.
func (r *Registry) Resolve(token string) (emoji.Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.lookup(token); ok {
		return e, true
	}
	if target, ok := r.aliases[token]; ok {
		return r.lookup(target)
	}
	return nil, false
}

// lookup finds an entity by canonical shortcode, custom first.
// Caller must hold r.mu.
func (r *Registry) lookup(shortcode string) (emoji.Entity, bool) {
	if e, ok := r.custom[shortcode]; ok {
		return e, true
	}
	if e, ok := r.standard[shortcode]; ok {
		return e, true
	}
	return nil, false
}

// Stats returns the table sizes.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		Standard: len(r.standard),
		Custom:   len(r.custom),
		Aliases:  len(r.aliases),
	}
}

// Clear removes every entity and alias.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
	r.seq = 0
}

// All returns custom entities followed by standard entities, each in
// insertion order.
func (r *Registry) All() []emoji.Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]emoji.Entity, 0, len(r.custom)+len(r.standard))
	for _, code := range r.customOrder {
		out = append(out, r.custom[code])
	}
	for _, code := range r.standardOrder {
		out = append(out, r.standard[code])
	}
	return out
}

// Standard returns the standard entities in insertion order.
func (r *Registry) Standard() []emoji.StandardEntity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]emoji.StandardEntity, 0, len(r.standardOrder))
	for _, code := range r.standardOrder {
		out = append(out, r.standard[code])
	}
	return out
}

// Custom returns the custom entities in insertion order.
func (r *Registry) Custom() []emoji.CustomEntity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]emoji.CustomEntity, 0, len(r.customOrder))
	for _, code := range r.customOrder {
		out = append(out, r.custom[code])
	}
	return out
}

// CustomByPath returns the custom entity registered from sourcePath.
func (r *Registry) CustomByPath(sourcePath string) (emoji.CustomEntity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, code := range r.customOrder {
		if e := r.custom[code]; e.SourcePath == sourcePath {
			return e, true
		}
	}
	return emoji.CustomEntity{}, false
}

// AliasIndex returns a copy of the alias -> canonical shortcode index.
func (r *Registry) AliasIndex() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.aliases))
	for alias, target := range r.aliases {
		out[alias] = target
	}
	return out
}

func (r *Registry) report(collisions []Collision) {
	for _, c := range collisions {
		slog.Debug("alias reassigned",
			"alias", c.Alias,
			"previous", c.Previous,
			"previous_kind", c.PreviousKind,
			"next", c.Next,
			"next_kind", c.NextKind,
		)
		if r.onCollision != nil {
			r.onCollision(c)
		}
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func removeString(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
