// Package scanner finds resolvable :shortcode: tokens in text.
//
// Matching is left to right and non-overlapping: after a candidate, the
// search resumes at the candidate's end, so ":a::b:" yields two adjacent
// matches. Candidates that do not resolve are dropped from the result and
// stay in the text as typed.
//
// Excluded regions (code spans, fenced blocks, <pre>/<code> content) are the
// caller's concern: each view removes them and hands the remaining text to
// ScanSegments, so the live and static renderings see identical matches.
package scanner

import (
	"regexp"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

// Pattern is the shortcode token: a colon, one or more of [A-Za-z0-9_+-],
// and a closing colon. Group 1 is the shortcode.
var Pattern = regexp.MustCompile(`:([A-Za-z0-9_+-]+):`)

// Resolver looks up a shortcode or alias. Implemented by *registry.Registry.
type Resolver interface {
	Resolve(token string) (emoji.Entity, bool)
}

// Match is a resolved token. Start and End are byte offsets of the whole
// ":token:" span; Token excludes the colons.
type Match struct {
	Start  int
	End    int
	Token  string
	Entity emoji.Entity
}

// Segment is a run of scannable text starting at Offset in the enclosing
// document.
type Segment struct {
	Offset int
	Text   string
}

// Scanner matches tokens against a Resolver. The resolver is consulted on
// every scan, so results always reflect its current state.
type Scanner struct {
	resolver Resolver
}

// New creates a Scanner.
func New(r Resolver) *Scanner {
	return &Scanner{resolver: r}
}

// Scan returns the resolved matches in text, in order.
func (s *Scanner) Scan(text string) []Match {
	return s.ScanAt(text, 0)
}

// ScanAt is Scan with every offset shifted by offset.
func (s *Scanner) ScanAt(text string, offset int) []Match {
	var matches []Match
	for _, loc := range Pattern.FindAllStringSubmatchIndex(text, -1) {
		token := text[loc[2]:loc[3]]
		entity, ok := s.resolver.Resolve(token)
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Start:  offset + loc[0],
			End:    offset + loc[1],
			Token:  token,
			Entity: entity,
		})
	}
	return matches
}

// ScanSegments scans each segment independently; a token never spans two
// segments. Segments must be in document order.
func (s *Scanner) ScanSegments(segments []Segment) []Match {
	var matches []Match
	for _, seg := range segments {
		matches = append(matches, s.ScanAt(seg.Text, seg.Offset)...)
	}
	return matches
}

// Replace rewrites text, substituting fn(m) for every resolved match and
// leaving everything else untouched.
func (s *Scanner) Replace(text string, fn func(Match) string) string {
	matches := s.Scan(text)
	if len(matches) == 0 {
		return text
	}

	out := make([]byte, 0, len(text))
	last := 0
	for _, m := range matches {
		out = append(out, text[last:m.Start]...)
		out = append(out, fn(m)...)
		last = m.End
	}
	out = append(out, text[last:]...)
	return string(out)
}
