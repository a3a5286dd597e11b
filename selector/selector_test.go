package selector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-markup/treesink"
)

func TestSelectSingleMatch(t *testing.T) {
	tree, root, err := treesink.ParseHTML(`<div class="title"><p id="x">hi</p></div><p>other</p>`)
	require.NoError(t, err)

	seq, err := Select(tree, root, "div.title p#x", nil, nil)
	require.NoError(t, err)
	matches := Collect(seq)
	require.Len(t, matches, 1)
	require.True(t, matches[0].HasID("x", CaseSensitive))
}

func TestSelectScopedByClassAncestor(t *testing.T) {
	tree, root, err := treesink.ParseHTML(`
		<nav class="navbar"><p>a</p></nav>
		<nav class="nav2"><p>b</p></nav>
	`)
	require.NoError(t, err)

	seq, err := Select(tree, root, "nav.navbar p", nil, nil)
	require.NoError(t, err)
	matches := Collect(seq)
	require.Len(t, matches, 1)
}

func TestHasHrefAttribute(t *testing.T) {
	tree, root, err := treesink.ParseHTML(`<a href="x">one</a><a>two</a>`)
	require.NoError(t, err)

	// :has() is self-inclusive and a bareword argument like "href" is an
	// attribute-existence shorthand (see rewriteBarewordsAsAttrExists),
	// so this matches the one <a> that carries an href attribute.
	seq, err := Select(tree, root, "a:has(href)", nil, nil)
	require.NoError(t, err)
	require.Len(t, Collect(seq), 1)

	seq2, err := Select(tree, root, "a:has([href])", nil, nil)
	require.NoError(t, err)
	require.Len(t, Collect(seq2), 1, "[href] is an explicit attribute selector, not a bareword, but :has() is still self-inclusive")

	seq3, err := Select(tree, root, "a[href]", nil, nil)
	require.NoError(t, err)
	require.Len(t, Collect(seq3), 1)
}

func TestNthChildSecondListItem(t *testing.T) {
	tree, root, err := treesink.ParseHTML(`<ul><li>1</li><li>2</li><li>3</li></ul>`)
	require.NoError(t, err)

	seq, err := Select(tree, root, "li:nth-child(2)", nil, nil)
	require.NoError(t, err)
	matches := Collect(seq)
	require.Len(t, matches, 1)
}

func TestParseRejectsUnknownPseudoClass(t *testing.T) {
	_, err := Parse("a:child-nth(1)", nil)
	require.Error(t, err)
	var sp SelectorParse
	require.ErrorAs(t, err, &sp)
}

func TestParseRejectsMalformedExpression(t *testing.T) {
	_, err := Parse("<bad expr>", nil)
	require.Error(t, err)
}

func TestIsRootMatchesDocumentNotFirstElement(t *testing.T) {
	tree, root, err := treesink.ParseHTML(`<html><body>hi</body></html>`)
	require.NoError(t, err)

	seq, err := Select(tree, root, ":root", nil, nil)
	require.NoError(t, err)
	matches := Collect(seq)
	require.Len(t, matches, 0, ":root only matches the Document node, which Select never yields since IsElement() excludes it")
}
