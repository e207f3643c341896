package registry

import (
	"fmt"
	"sort"
)

// claim indexes aliases for key at the next sequence number and returns the
// aliases whose owner changed. Duplicate aliases within one entity count once.
// Caller must hold r.mu for writing.
func (r *Registry) claim(key claimKey, aliases []string) []Collision {
	r.seq++
	r.claimSeq[key] = r.seq

	var collisions []Collision
	seen := make(map[string]bool, len(aliases))
	for _, alias := range aliases {
		if seen[alias] {
			continue
		}
		seen[alias] = true

		list := r.claims[alias]
		if n := len(list); n > 0 && list[n-1] != key {
			prev := list[n-1]
			collisions = append(collisions, Collision{
				Alias:        alias,
				Previous:     prev.shortcode,
				PreviousKind: prev.kind,
				Next:         key.shortcode,
				NextKind:     key.kind,
			})
		}
		r.claims[alias] = append(removeClaim(list, key), key)
		r.aliases[alias] = key.shortcode
	}
	return collisions
}

// release withdraws key's claim on each alias. An alias whose winning claim
// is withdrawn falls back to the most recent remaining claimant, or leaves
// the index when none remain.
// Caller must hold r.mu for writing.
func (r *Registry) release(key claimKey, aliases []string) {
	for _, alias := range aliases {
		list := removeClaim(r.claims[alias], key)
		if len(list) == 0 {
			delete(r.claims, alias)
			delete(r.aliases, alias)
			continue
		}
		r.claims[alias] = list
		r.aliases[alias] = list[len(list)-1].shortcode
	}
	delete(r.claimSeq, key)
}

func removeClaim(list []claimKey, key claimKey) []claimKey {
	out := list[:0:0]
	for _, k := range list {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}

// VerifyIndex rebuilds the alias index from scratch by replaying every live
// entity's aliases in claim order and compares it with the maintained index.
// Returns nil when both agree and every alias resolves to a live entity.
func (r *Registry) VerifyIndex() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type live struct {
		key     claimKey
		aliases []string
		seq     int64
	}
	var entities []live
	for code, e := range r.standard {
		key := claimKey{e.Kind(), code}
		entities = append(entities, live{key, e.Aliases, r.claimSeq[key]})
	}
	for code, e := range r.custom {
		key := claimKey{e.Kind(), code}
		entities = append(entities, live{key, e.Aliases, r.claimSeq[key]})
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].seq < entities[j].seq })

	rebuilt := make(map[string]string)
	for _, e := range entities {
		for _, alias := range e.aliases {
			rebuilt[alias] = e.key.shortcode
		}
	}

	if len(rebuilt) != len(r.aliases) {
		return fmt.Errorf("alias index has %d entries, rebuild has %d", len(r.aliases), len(rebuilt))
	}
	for alias, want := range rebuilt {
		got, ok := r.aliases[alias]
		if !ok {
			return fmt.Errorf("alias %q missing from index", alias)
		}
		if got != want {
			return fmt.Errorf("alias %q maps to %q, rebuild maps to %q", alias, got, want)
		}
		if _, live := r.lookup(got); !live {
			return fmt.Errorf("alias %q references missing shortcode %q", alias, got)
		}
	}
	return nil
}
