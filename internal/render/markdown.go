package render

import "strings"

// Node is a markdown syntax tree node covering doc[From:To].
//
// Names follow the usual markdown grammar names: Document, Paragraph,
// ATXHeading1..6, HeaderMark, FencedCode, CodeBlock, InlineCode, Escape.
type Node struct {
	Name     string
	From     int
	To       int
	Children []*Node
}

// ParseMarkdown builds a syntax tree for doc. Only the structure the live
// view needs is recognized: paragraphs, ATX headings, fenced and indented
// code blocks, inline code spans and backslash escapes.
func ParseMarkdown(doc string) *Node {
	root := &Node{Name: "Document", From: 0, To: len(doc)}

	paraFrom, paraTo := -1, 0
	fenceFrom, fenceMark := -1, ""
	codeFrom, codeTo := -1, 0
	lineOffset := 0

	flush := func() {
		if paraFrom < 0 {
			return
		}
		para := &Node{Name: "Paragraph", From: paraFrom, To: paraTo}
		para.Children = parseInline(doc, paraFrom, paraTo)
		root.Children = append(root.Children, para)
		paraFrom = -1
	}

	for _, line := range strings.SplitAfter(doc, "\n") {
		from := lineOffset
		lineOffset += len(line)
		content := strings.TrimSuffix(line, "\n")
		to := from + len(content)
		trimmed := strings.TrimLeft(content, " \t")

		if fenceFrom >= 0 {
			if strings.HasPrefix(trimmed, fenceMark) {
				root.Children = append(root.Children, &Node{Name: "FencedCode", From: fenceFrom, To: to})
				fenceFrom = -1
			}
			continue
		}

		// Indented code runs until the first non-blank line indented less
		// than four columns; trailing blank lines are not part of it.
		if codeFrom >= 0 {
			if trimmed == "" {
				continue
			}
			if indentWidth(content) >= 4 {
				codeTo = to
				continue
			}
			root.Children = append(root.Children, &Node{Name: "CodeBlock", From: codeFrom, To: codeTo})
			codeFrom = -1
		}
		// An indented line cannot interrupt a paragraph.
		if paraFrom < 0 && trimmed != "" && indentWidth(content) >= 4 {
			codeFrom, codeTo = from, to
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "```"), strings.HasPrefix(trimmed, "~~~"):
			flush()
			fenceFrom = from
			fenceMark = trimmed[:3]

		case trimmed == "":
			flush()

		case headingLevel(trimmed) > 0:
			flush()
			level := headingLevel(trimmed)
			markFrom := to - len(trimmed)
			heading := &Node{Name: "ATXHeading" + string(rune('0'+level)), From: from, To: to}
			heading.Children = append(heading.Children, &Node{Name: "HeaderMark", From: markFrom, To: markFrom + level})
			heading.Children = append(heading.Children, parseInline(doc, markFrom+level, to)...)
			root.Children = append(root.Children, heading)

		default:
			if paraFrom < 0 {
				paraFrom = from
			}
			paraTo = to
		}
	}

	if fenceFrom >= 0 {
		root.Children = append(root.Children, &Node{Name: "FencedCode", From: fenceFrom, To: len(doc)})
	}
	if codeFrom >= 0 {
		root.Children = append(root.Children, &Node{Name: "CodeBlock", From: codeFrom, To: codeTo})
	}
	flush()
	return root
}

// indentWidth returns the leading indentation of line in columns, with tabs
// advancing to the next multiple of four.
func indentWidth(line string) int {
	width := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			width++
		case '\t':
			width += 4 - width%4
		default:
			return width
		}
	}
	return width
}

// headingLevel returns 1..6 for an ATX heading line, 0 otherwise.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0
	}
	if n < len(line) && line[n] != ' ' && line[n] != '\t' {
		return 0
	}
	return n
}

// parseInline finds inline code spans and escapes in doc[from:to].
func parseInline(doc string, from, to int) []*Node {
	var nodes []*Node
	for i := from; i < to; {
		switch doc[i] {
		case '\\':
			if i+1 < to && isASCIIPunct(doc[i+1]) {
				nodes = append(nodes, &Node{Name: "Escape", From: i, To: i + 2})
				i += 2
				continue
			}
			i++

		case '`':
			run := backtickRun(doc, i, to)
			end := closingRun(doc, i+run, to, run)
			if end < 0 {
				i += run
				continue
			}
			nodes = append(nodes, &Node{Name: "InlineCode", From: i, To: end})
			i = end

		default:
			i++
		}
	}
	return nodes
}

func backtickRun(doc string, i, to int) int {
	n := 0
	for i+n < to && doc[i+n] == '`' {
		n++
	}
	return n
}

// closingRun returns the end offset of the first run of exactly n backticks
// at or after i, or -1.
func closingRun(doc string, i, to, n int) int {
	for i < to {
		if doc[i] != '`' {
			i++
			continue
		}
		run := backtickRun(doc, i, to)
		if run == n {
			return i + run
		}
		i += run
	}
	return -1
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

// Iterate walks the subtree rooted at n depth first, visiting only nodes
// that overlap [from, to]. Children are skipped when enter returns false.
func Iterate(n *Node, from, to int, enter func(*Node) bool) {
	if n.To < from || n.From > to {
		return
	}
	if !enter(n) {
		return
	}
	for _, c := range n.Children {
		Iterate(c, from, to, enter)
	}
}

// Excluded reports whether a node's text must never be scanned: code,
// formatting marks and escapes.
func Excluded(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "code") ||
		strings.Contains(lower, "formatting") ||
		strings.Contains(lower, "escape")
}

// textBearing reports whether a node holds inline prose.
func textBearing(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "paragraph") ||
		strings.Contains(lower, "heading") ||
		strings.Contains(lower, "text") ||
		strings.Contains(lower, "inline")
}
