// Package registry holds every resolvable emoji and the alias index.
//
// The registry is the single source of truth consulted by the synchronizer,
// the scanner and the renderers. It is an explicit instance passed to each
// collaborator; there is no package-level registry.
//
// Tables:
//   - standard: bundled catalog entities, replaced wholesale by LoadStandard
//   - custom: user images, mutated by UpsertCustom/RemoveCustom/PatchCustom
//   - aliases: alias -> canonical shortcode, derived from both tables
//
// Resolution precedence (enforced at read time):
//  1. custom table by exact shortcode
//  2. standard table by exact shortcode
//  3. alias index, then the target's custom-then-standard lookup
//
// Alias collisions: the most recent claim wins. Every entity's alias set is
// claimed at a logical sequence number; when the winning claimant of an
// alias is removed, the alias falls back to the most recent remaining
// claimant. The index therefore always equals a replay of the live
// entities' aliases in claim order (see VerifyIndex).
//
// Thread-safety: all methods are safe for concurrent use. Each mutation is
// applied under the write lock and is never observable half-done.
package registry
