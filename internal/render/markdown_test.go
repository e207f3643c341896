package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(nodes []*Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestParseMarkdown_Blocks(t *testing.T) {
	doc := "# Title\n\npara one\npara two\n\n```go\ncode :x:\n```\ntail"
	root := ParseMarkdown(doc)

	assert.Equal(t, "Document", root.Name)
	assert.Equal(t, len(doc), root.To)
	require.Equal(t, []string{"ATXHeading1", "Paragraph", "FencedCode", "Paragraph"}, names(root.Children))

	para := root.Children[1]
	assert.Equal(t, "para one\npara two", doc[para.From:para.To])

	fence := root.Children[2]
	assert.Equal(t, "```go\ncode :x:\n```", doc[fence.From:fence.To])

	assert.Equal(t, "tail", doc[root.Children[3].From:root.Children[3].To])
}

func TestParseMarkdown_IndentedCode(t *testing.T) {
	doc := "    :a: first\n\n\t:b:\n\n\npara\n    still para\n\n    ```\n    :c:\n# after"
	root := ParseMarkdown(doc)

	require.Equal(t, []string{"CodeBlock", "Paragraph", "CodeBlock", "ATXHeading1"}, names(root.Children))

	code := root.Children[0]
	assert.Equal(t, "    :a: first\n\n\t:b:", doc[code.From:code.To], "trailing blank lines are excluded")

	para := root.Children[1]
	assert.Equal(t, "para\n    still para", doc[para.From:para.To], "indented lines continue a paragraph")

	// A fence marker inside indented code is literal.
	fenced := root.Children[2]
	assert.Equal(t, "    ```\n    :c:", doc[fenced.From:fenced.To])

	assert.Equal(t, []string{"CodeBlock"}, names(ParseMarkdown("text\n\n    :smile:\n").Children[1:]))
}

func TestIndentWidth(t *testing.T) {
	assert.Equal(t, 0, indentWidth("x"))
	assert.Equal(t, 3, indentWidth("   x"))
	assert.Equal(t, 4, indentWidth("\tx"))
	assert.Equal(t, 4, indentWidth("  \tx"))
	assert.Equal(t, 8, indentWidth("    \tx"))
	assert.Equal(t, 2, indentWidth("  "))
}

func TestParseMarkdown_UnterminatedFenceRunsToEnd(t *testing.T) {
	doc := "text\n~~~\n:a:\n"
	root := ParseMarkdown(doc)

	require.Equal(t, []string{"Paragraph", "FencedCode"}, names(root.Children))
	assert.Equal(t, len(doc), root.Children[1].To)
}

func TestParseMarkdown_Heading(t *testing.T) {
	doc := "### Deep :a:"
	root := ParseMarkdown(doc)

	require.Len(t, root.Children, 1)
	h := root.Children[0]
	assert.Equal(t, "ATXHeading3", h.Name)
	require.Equal(t, []string{"HeaderMark"}, names(h.Children))
	assert.Equal(t, "###", doc[h.Children[0].From:h.Children[0].To])

	assert.Equal(t, []string{"Paragraph"}, names(ParseMarkdown("#hashtag").Children))
	assert.Equal(t, []string{"Paragraph"}, names(ParseMarkdown("####### seven").Children))
}

func TestParseMarkdown_Inline(t *testing.T) {
	doc := "a `b` c ``d ` e`` \\:f: \\q g`unclosed"
	root := ParseMarkdown(doc)

	require.Len(t, root.Children, 1)
	para := root.Children[0]
	require.Equal(t, []string{"InlineCode", "InlineCode", "Escape"}, names(para.Children))

	assert.Equal(t, "`b`", doc[para.Children[0].From:para.Children[0].To])
	assert.Equal(t, "``d ` e``", doc[para.Children[1].From:para.Children[1].To])
	assert.Equal(t, "\\:", doc[para.Children[2].From:para.Children[2].To])
}

func TestExcluded(t *testing.T) {
	for _, name := range []string{"FencedCode", "InlineCode", "CodeBlock", "formatting-strong", "Escape", "hmd-escape"} {
		assert.True(t, Excluded(name), name)
	}
	for _, name := range []string{"Document", "Paragraph", "ATXHeading1", "HeaderMark"} {
		assert.False(t, Excluded(name), name)
	}
}

func TestIterate_SkipsNonOverlappingAndRejected(t *testing.T) {
	root := &Node{Name: "Document", From: 0, To: 30, Children: []*Node{
		{Name: "Paragraph", From: 0, To: 10, Children: []*Node{{Name: "InlineCode", From: 2, To: 5}}},
		{Name: "Paragraph", From: 20, To: 30},
	}}

	var visited []string
	Iterate(root, 0, 12, func(n *Node) bool {
		visited = append(visited, n.Name)
		return n.Name != "Paragraph"
	})
	assert.Equal(t, []string{"Document", "Paragraph"}, visited)
}
