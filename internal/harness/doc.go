// Package harness provides scenario testing for custom emoji synchronization.
//
// A scenario seeds an in-memory source and a registry, starts a
// synchronizer, replays file events, and validates the registry mutations
// and the final registry state.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	folder: .obsidian/emoji
//	standard:
//	  - shortcode: thumbsup
//	    aliases: ["+1"]
//	    glyph: "👍"
//	files:
//	  - path: .obsidian/emoji/logo.png
//	    content: "png"
//	events:
//	  - op: rename
//	    path: .obsidian/emoji/logo.png
//	    to: assets/logo.png
//	assertions:
//	  - type: absent
//	    token: logo
//	  - type: trace_contains
//	    op: remove
//	    shortcode: logo
//
// # Event Operations
//
//   - create, write, remove: change a file and notify subscribers
//   - rename: move Path to To and notify subscribers
//   - fail_read: make later reads of Path fail
//   - alias: replace the aliases of a registered custom entity
//   - stop: stop the synchronizer
//
// # Assertion Types
//
//   - resolves: Token resolves to Shortcode, optionally of Kind
//   - absent: Token does not resolve
//   - stats: registry counts match exactly
//   - trace_contains: a mutation with Op (and Shortcode) was recorded
//   - trace_count: Op (and Shortcode) was recorded exactly Count times
//
// # Deterministic Testing
//
// Subscription handles come from a sequence generator and file times from
// testutil.BaseTime, and events are processed synchronously after each
// step. Identical scenarios therefore produce identical traces, which
// RunWithGolden compares against testdata/golden/<name>.golden.
package harness
