// Package render turns scanner matches into emoji elements for the two
// rendering surfaces:
//
//   - the live view (live.go) decorates editor text. It walks a markdown
//     syntax tree, skips code, formatting and escape nodes, and keeps a set
//     of widget decorations for the visible ranges, rebuilt when the
//     document or viewport changes.
//   - the static view (static.go) post-processes rendered HTML. It walks
//     text nodes, skips anything under <code> or <pre>, and splices emoji
//     elements in place of matched tokens.
//
// Both surfaces call the same scanner.Scanner and build elements with
// Element, so identical input text produces identical emoji.
package render
