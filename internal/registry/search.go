package registry

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

// Search returns entities whose shortcode, aliases or (standard only) label
// contain query, compared case-insensitively.
//
// Standard entities are scanned before custom entities, each in insertion
// order. Scanning stops as soon as limit results are collected, so insertion
// order rather than relevance decides which matches are returned. A
// non-positive limit returns nothing.
func (r *Registry) Search(query string, limit int) []emoji.Entity {
	if limit <= 0 {
		return nil
	}
	fold := cases.Fold()
	q := fold.String(query)
	contains := func(s string) bool {
		return strings.Contains(fold.String(s), q)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]emoji.Entity, 0, min(limit, len(r.standard)+len(r.custom)))
	for _, code := range r.standardOrder {
		if len(results) >= limit {
			return results
		}
		e := r.standard[code]
		if contains(e.Shortcode) || anyContains(e.Aliases, contains) || contains(e.Label) {
			results = append(results, e)
		}
	}
	for _, code := range r.customOrder {
		if len(results) >= limit {
			return results
		}
		e := r.custom[code]
		if contains(e.Shortcode) || anyContains(e.Aliases, contains) {
			results = append(results, e)
		}
	}
	return results
}

func anyContains(list []string, contains func(string) bool) bool {
	for _, s := range list {
		if contains(s) {
			return true
		}
	}
	return false
}
