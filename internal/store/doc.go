// Package store provides SQLite-backed persistence for custom emoji
// metadata: shortcode, source file name, aliases and the date it was added.
//
// Image payloads are never stored; they are re-read from the watched folder
// on every start. On startup (and after every re-registration) the saved
// aliases are re-attached to the freshly registered entities, see Reattach
// and AttachHook.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Schema upgrades are tracked with PRAGMA user_version.
//
// # Deterministic Query Results
//
// ListMetadata orders by added_date, then shortcode, so results are stable
// across runs.
package store
