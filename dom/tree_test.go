package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-markup/atom"
)

func TestNewTreeHasAttachedDocumentRoot(t *testing.T) {
	tree, root := NewTree()
	require.True(t, tree.IsAttached(root))
	_, hasParent := tree.Parent(root)
	require.False(t, hasParent)
}

func TestAppendMakesLastChild(t *testing.T) {
	tree, root := NewTree()
	div := tree.Orphan(NewElementValue(atom.NewQName("", "", "div"), nil, false, false))
	tree.Append(root, div)

	require.True(t, tree.IsAttached(div))
	p, ok := tree.Parent(div)
	require.True(t, ok)
	require.Equal(t, root, p)

	fc, _ := tree.FirstChild(root)
	lc, _ := tree.LastChild(root)
	require.Equal(t, div, fc)
	require.Equal(t, div, lc)
}

func TestAppendNoOpWhenAlreadyLastChild(t *testing.T) {
	tree, root := NewTree()
	a := tree.Orphan(NewCommentValue("a"))
	b := tree.Orphan(NewCommentValue("b"))
	tree.Append(root, a)
	tree.Append(root, b)
	tree.Append(root, b) // no-op: already last child

	children := tree.Children(root)
	require.Equal(t, []NodeId{a, b}, children)
}

func TestSiblingPointersAreSymmetric(t *testing.T) {
	tree, root := NewTree()
	a := tree.Orphan(NewCommentValue("a"))
	b := tree.Orphan(NewCommentValue("b"))
	c := tree.Orphan(NewCommentValue("c"))
	tree.Append(root, a)
	tree.Append(root, b)
	tree.Append(root, c)

	next, _ := tree.NextSibling(a)
	require.Equal(t, b, next)
	prev, _ := tree.PrevSibling(next)
	require.Equal(t, a, prev)

	_, hasPrev := tree.PrevSibling(a)
	require.False(t, hasPrev)
	_, hasNext := tree.NextSibling(c)
	require.False(t, hasNext)
}

// TestAppendThenDetachIsARoundTrip covers the §8 round-trip property:
// for any detached node n, append(p, n) then detach(n) leaves the tree
// structurally identical to its pre-append state.
func TestAppendThenDetachIsARoundTrip(t *testing.T) {
	tree, root := NewTree()
	a := tree.Orphan(NewCommentValue("a"))
	b := tree.Orphan(NewCommentValue("b"))
	tree.Append(root, a)
	tree.Append(root, b)

	before := snapshot(tree, root)

	n := tree.Orphan(NewCommentValue("detached"))
	tree.Append(root, n)
	tree.Detach(n)

	require.True(t, cmp.Equal(before, snapshot(tree, root)))
}

func TestCyclePreventionPanics(t *testing.T) {
	tree, root := NewTree()
	div := tree.Orphan(NewElementValue(atom.NewQName("", "", "div"), nil, false, false))
	tree.Append(root, div)
	child := tree.Orphan(NewElementValue(atom.NewQName("", "", "span"), nil, false, false))
	tree.Append(div, child)

	require.Panics(t, func() { tree.Append(div, div) }, "a node cannot become its own parent")
	require.Panics(t, func() { tree.Append(child, div) }, "cannot append an ancestor under its own descendant")
}

func TestReparentAppendMovesChildrenInOrder(t *testing.T) {
	tree, root := NewTree()
	from := tree.Orphan(NewElementValue(atom.NewQName("", "", "div"), nil, false, false))
	to := tree.Orphan(NewElementValue(atom.NewQName("", "", "section"), nil, false, false))
	tree.Append(root, from)
	tree.Append(root, to)

	a := tree.Orphan(NewCommentValue("a"))
	b := tree.Orphan(NewCommentValue("b"))
	tree.Append(from, a)
	tree.Append(from, b)

	tree.ReparentAppend(to, from)

	require.Empty(t, tree.Children(from))
	require.Equal(t, []NodeId{a, b}, tree.Children(to))
}

func TestAppendTextCoalescesTrailingTextSibling(t *testing.T) {
	tree, root := NewTree()
	firstID := tree.AppendText(root, "Hel")
	secondID := tree.AppendText(root, "lo")

	require.Equal(t, firstID, secondID, "coalescing reuses the existing trailing Text node")
	children := tree.Children(root)
	require.Len(t, children, 1)
	require.Equal(t, "Hello", tree.Get(children[0]).Text.String())
}

func TestAttrsDeduplicatesKeepingFirstAndStaysSorted(t *testing.T) {
	idName := atom.NewQName("", "", "id")
	classText := atom.NewQName("", "", "class")
	a := NewAttrs([]Attribute{
		{Name: classText, Value: atom.NewTendril("a b")},
		{Name: idName, Value: atom.NewTendril("first")},
		{Name: idName, Value: atom.NewTendril("second")},
	})

	require.Equal(t, 2, a.Len())
	v, ok := a.Get(idName)
	require.True(t, ok)
	require.Equal(t, "first", v.String(), "duplicate attribute keeps the first occurrence")

	names := make([]string, 0, a.Len())
	for _, p := range a.All() {
		names = append(names, p.Name.Local.String())
	}
	require.Equal(t, []string{"class", "id"}, names, "attribute sequence stays sorted by QName")
}

func TestAttrsIDAndClassCachesInvalidateOnMutation(t *testing.T) {
	a := NewAttrs([]Attribute{
		{Name: atom.NewQName("", "", "class"), Value: atom.NewTendril("title  nav")},
	})
	require.Equal(t, []string{"nav", "title"}, a.Classes())

	a.Set(atom.NewQName("", "", "class"), atom.NewTendril("other"))
	require.Equal(t, []string{"other"}, a.Classes(), "mutation must invalidate the class cache")

	_, ok := a.ID()
	require.False(t, ok)
	a.Set(atom.NewQName("", "", "id"), atom.NewTendril("x"))
	id, ok := a.ID()
	require.True(t, ok)
	require.Equal(t, "x", id)
}

func TestAttrsClassesSplitsOnASCIIWhitespaceOnly(t *testing.T) {
	a := NewAttrs([]Attribute{
		{Name: atom.NewQName("", "", "class"), Value: atom.NewTendril("a\u00a0b c")},
	})
	require.Equal(t, []string{"a\u00a0b", "c"}, a.Classes(), "U+00A0 is not ASCII whitespace and must not split a token")
}

func TestDescendantsIsDepthFirstPreOrder(t *testing.T) {
	tree, root := NewTree()
	div := tree.Orphan(NewElementValue(atom.NewQName("", "", "div"), nil, false, false))
	tree.Append(root, div)
	p := tree.Orphan(NewElementValue(atom.NewQName("", "", "p"), nil, false, false))
	tree.Append(div, p)
	text := tree.Orphan(NewTextValue("hi"))
	tree.Append(p, text)
	sibling := tree.Orphan(NewElementValue(atom.NewQName("", "", "span"), nil, false, false))
	tree.Append(div, sibling)

	order := tree.Descendants(root)
	require.Equal(t, []NodeId{root, div, p, text, sibling}, order)
}

func snapshot(tree *Tree, root NodeId) []NodeId {
	return tree.Descendants(root)
}
