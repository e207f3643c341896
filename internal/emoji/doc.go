// Package emoji provides the entity types shared by every other package.
//
// This package contains type definitions and error kinds only. All other
// internal packages import emoji; emoji imports nothing internal.
//
// An Entity is one of two variants:
//   - StandardEntity: a pictographic character from the bundled catalog
//   - CustomEntity: a user-supplied image backed by a file in the watched folder
//
// Both variants share a canonical shortcode, an ordered alias list and an
// optional category. All JSON tags use snake_case.
package emoji
