// Package catalog loads the bundled standard emoji dataset.
//
// The dataset is an emojibase "compact" record list plus a GitHub shortcode
// preset (hexcode -> shortcode or list of shortcodes), both embedded in the
// binary. Loading is a pure transform; the result is memoized and never
// mutated after the first successful load.
//
// Transform rules per record:
//   - The first shortcode is canonical, the remainder become aliases in
//     source order.
//   - A record without shortcodes falls back to its hexcode as canonical
//     shortcode with no aliases.
//   - The numeric group maps to one of ten category names, "other" otherwise.
package catalog
