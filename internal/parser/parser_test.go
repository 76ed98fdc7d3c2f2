package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/scriptbar/internal/directive"
)

// outline renders the body as one line per node, indented by tree depth.
func outline(t *Tree) string {
	var b strings.Builder
	var visit func(nodes []*Node, depth int)
	visit = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			label := n.Title.Text
			if n.Separator {
				label = "<sep>"
			}
			fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", depth), label)
			visit(n.Children, depth+1)
		}
	}
	visit(t.Roots, 0)
	return b.String()
}

func TestParseWithoutSeparatorIsAllHeader(t *testing.T) {
	inputs := []string{"one", "one\ntwo\nthree", "a|color=red\n--b\n-----", "x\n--- \n"}
	for _, raw := range inputs {
		res := Parse(raw)
		assert.Empty(t, res.Tree.Roots, "input %q", raw)
		assert.Equal(t, splitLines(raw), res.Tree.Header, "input %q", raw)
	}
}

func TestParseEmptyOutputUsesPlaceholder(t *testing.T) {
	for _, raw := range []string{"", "\n\n", "   \n\t\n", "\r\n"} {
		res := Parse(raw)
		assert.Equal(t, []string{DefaultPlaceholder}, res.Tree.Header, "input %q", raw)
		assert.Empty(t, res.Tree.Roots)
		assert.Empty(t, res.Bindings)
	}

	res := ParseWith("", Options{Placeholder: "..."})
	assert.Equal(t, []string{"..."}, res.Tree.Header)
}

func TestParseSeparatorOnlyBodyHasPlaceholderHeader(t *testing.T) {
	res := Parse("---\nItem")
	assert.Equal(t, []string{DefaultPlaceholder}, res.Tree.Header)
	assert.Equal(t, "<sep>\nItem\n", outline(res.Tree))
}

func TestParseSplitsHeaderAndBody(t *testing.T) {
	res := Parse("Title 1\nTitle 2\n---\nItem A\nItem B")
	assert.Equal(t, []string{"Title 1", "Title 2"}, res.Tree.Header)
	assert.Equal(t, "<sep>\nItem A\nItem B\n", outline(res.Tree))
}

func TestParseNestingLaw(t *testing.T) {
	// "-----" stands in for the "---D" separator line: "---D" itself strips
	// to "-D" at depth 1 (see TestParseNestedSeparatorMarkers).
	res := Parse("---\nA\n--B\n--C\n-----\nE")
	require.Len(t, res.Tree.Roots, 3)

	a := res.Tree.Roots[1]
	assert.Equal(t, "A", a.Title.Text)
	require.Len(t, a.Children, 3)
	assert.Equal(t, "B", a.Children[0].Title.Text)
	assert.Equal(t, 1, a.Children[0].Depth)
	assert.Equal(t, "C", a.Children[1].Title.Text)
	assert.Equal(t, 1, a.Children[1].Depth)
	assert.True(t, a.Children[2].Separator)
	assert.Equal(t, 1, a.Children[2].Depth)

	e := res.Tree.Roots[2]
	assert.Equal(t, "E", e.Title.Text)
	assert.Empty(t, e.Children)
}

func TestParseSiblingsDoNotNest(t *testing.T) {
	res := Parse("---\nA\nB\n--B1\n--B2\n----B2a\n--B3\nC")
	assert.Equal(t, strings.Join([]string{
		"<sep>",
		"A",
		"B",
		"  B1",
		"  B2",
		"    B2a",
		"  B3",
		"C",
	}, "\n")+"\n", outline(res.Tree))
}

func TestParseDeepJumpAttachesToDeepestOpenAncestor(t *testing.T) {
	res := Parse("---\nA\n------Deep\n--Shallow")
	assert.Equal(t, "<sep>\nA\n  Deep\n  Shallow\n", outline(res.Tree))
	deep, ok := res.Tree.Path(1, 0)
	require.True(t, ok)
	assert.Equal(t, 3, deep.Depth)
}

func TestParseOrphanNestedLineAttachesAtRoot(t *testing.T) {
	res := ParseWith("", Options{})
	assert.Empty(t, res.Tree.Roots)

	header, body := Split("---\n--orphan")
	assert.Empty(t, header)
	require.Len(t, body, 2)

	tree := &Tree{Generation: uuid.New()}
	b := builder{tree: tree, res: &Result{Tree: tree}}
	b.addLine("----orphan")
	require.Len(t, tree.Roots, 1)
	assert.Equal(t, "orphan", tree.Roots[0].Title.Text)
}

func TestParseConsecutiveSeparatorsStayDistinct(t *testing.T) {
	res := Parse("T\n---\n---\n---\nX")
	assert.Equal(t, "<sep>\n<sep>\n<sep>\nX\n", outline(res.Tree))
}

func TestParseRootSeparatorKeepsOpenParent(t *testing.T) {
	res := Parse("T\n---\nA\n--B\n---\n--C")
	assert.Equal(t, "<sep>\nA\n  B\n  C\n<sep>\n", outline(res.Tree))
	require.Len(t, res.Tree.Roots, 3)

	c, ok := res.Tree.Path(1, 1)
	require.True(t, ok)
	assert.Equal(t, "C", c.Title.Text)
}

func TestParseNestedSeparatorMarkers(t *testing.T) {
	depth, content := Nesting("-------")
	assert.Equal(t, 2, depth)
	assert.Equal(t, "---", content)

	depth, content = Nesting("---")
	assert.Zero(t, depth)
	assert.Equal(t, "---", content)

	depth, content = Nesting("---D")
	assert.Equal(t, 1, depth)
	assert.Equal(t, "-D", content)
}

func TestParseDropdownFalseMovesToHeader(t *testing.T) {
	res := Parse("Main\n---\nVisible\nHidden title|dropdown=false\n--child")
	assert.Equal(t, []string{"Main", "Hidden title|dropdown=false"}, res.Tree.Header)
	assert.Equal(t, "<sep>\nVisible\n  child\n", outline(res.Tree))
}

func TestParseHeaderItemsOnlyWhenRotating(t *testing.T) {
	single := Parse("Only\n---\nX")
	assert.Empty(t, single.Tree.HeaderItems)

	multi := Parse("One\nTwo|color=red\nThree|dropdown=false\n---\nX")
	require.Len(t, multi.Tree.HeaderItems, 2)
	assert.Equal(t, "One", multi.Tree.HeaderItems[0].Title.Text)
	assert.Equal(t, "#ff0000", multi.Tree.HeaderItems[1].Title.Color)
	for _, n := range multi.Tree.HeaderItems {
		got, ok := multi.Tree.Lookup(n.Handle)
		require.True(t, ok)
		assert.Same(t, n, got)
	}
}

func TestParseShortcutBindings(t *testing.T) {
	res := Parse("Title|shortcut=CMD+SHIFT+T\n---\nA|shortcut=CMD+A href=https://a.example\n--B|key=ctrl+b\nC|shortcut=bogus+c")
	require.Len(t, res.Bindings, 3)

	a := res.Bindings[0]
	node, ok := res.Tree.Lookup(a.Target)
	require.True(t, ok)
	assert.Equal(t, "A", node.Title.Text)
	assert.Equal(t, directive.KeyCombo{Modifiers: directive.ModCommand, Key: "a"}, a.Shortcut)
	assert.False(t, a.OpensMenu)

	b := res.Bindings[1]
	node, ok = res.Tree.Lookup(b.Target)
	require.True(t, ok)
	assert.Equal(t, "B", node.Title.Text)

	title := res.Bindings[2]
	assert.True(t, title.OpensMenu)
	assert.Equal(t, "SHIFT+CMD+T", title.Shortcut.String())
}

func TestParseIsIdempotent(t *testing.T) {
	raw := "T1\nT2\n---\nA|color=red\n--B|bash=/bin/echo param1=hi\n----C\n-----\nD|href=https://example.com shortcut=cmd+d"
	first := Parse(raw)
	second := Parse(raw)

	assert.NotEqual(t, first.Tree.Generation, second.Tree.Generation)
	assert.Equal(t, first.Digest, second.Digest)
	assert.Equal(t, first.Tree.HeaderDigest, second.Tree.HeaderDigest)
	assert.Equal(t, first.Tree.Len(), second.Tree.Len())
	assert.Equal(t, outline(first.Tree), outline(second.Tree))
	require.Len(t, second.Bindings, len(first.Bindings))

	var firstParams, secondParams []directive.Params
	first.Tree.Walk(func(n *Node) bool { firstParams = append(firstParams, n.Params); return true })
	second.Tree.Walk(func(n *Node) bool { secondParams = append(secondParams, n.Params); return true })
	assert.Equal(t, firstParams, secondParams)
}

func TestLookupRejectsStaleHandles(t *testing.T) {
	old := Parse("---\nA|refresh=true")
	fresh := Parse("---\nA|refresh=true")

	n, ok := old.Tree.Path(1)
	require.True(t, ok)

	_, ok = fresh.Tree.Lookup(n.Handle)
	assert.False(t, ok)
	_, ok = old.Tree.Lookup(Handle{Generation: old.Tree.Generation, Index: 99})
	assert.False(t, ok)
}

func TestNodeSelectable(t *testing.T) {
	res := Parse("---\nplain\nlink|href=https://example.com\nrun|bash=/bin/true\nreload|refresh=true")
	var selectable []bool
	res.Tree.Walk(func(n *Node) bool { selectable = append(selectable, n.Selectable()); return true })
	assert.Equal(t, []bool{false, false, true, true, true}, selectable)
}

func TestHighlightTitleDropsColor(t *testing.T) {
	res := Parse("---\nred|color=red")
	n, ok := res.Tree.Path(1)
	require.True(t, ok)
	assert.Equal(t, "#ff0000", n.Title.Color)
	assert.Empty(t, n.HighlightTitle().Color)
	assert.Equal(t, "red", n.HighlightTitle().Text)
}

func TestHeaderDigestTracksHeaderOnly(t *testing.T) {
	a := Parse("T1\nT2\n---\nX")
	b := Parse("T1\nT2\n---\nY")
	c := Parse("T1\nT3\n---\nX")
	assert.Equal(t, a.Tree.HeaderDigest, b.Tree.HeaderDigest)
	assert.NotEqual(t, a.Digest, b.Digest)
	assert.NotEqual(t, a.Tree.HeaderDigest, c.Tree.HeaderDigest)
}

func TestHandleStringRoundTrip(t *testing.T) {
	res := Parse("---\na|href=https://example.com")
	n, ok := res.Tree.Path(1)
	require.True(t, ok)

	parsed, err := ParseHandle(n.Handle.String())
	require.NoError(t, err)
	assert.Equal(t, n.Handle, parsed)

	for _, bad := range []string{"", "nope", "not-a-uuid/1", res.Tree.Generation.String() + "/-1", res.Tree.Generation.String() + "/x"} {
		_, err := ParseHandle(bad)
		assert.ErrorIs(t, err, ErrInvalidHandle, bad)
	}
}
