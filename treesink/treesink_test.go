package treesink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-markup/dom"
)

func TestParseHTMLBuildsSimpleTree(t *testing.T) {
	tree, root, err := ParseHTML(`<!DOCTYPE html><html><body><div class="a b" id="x"><p>Hel</p></div></body></html>`)
	require.NoError(t, err)
	require.True(t, tree.Exhausted())

	var div dom.NodeId
	for _, id := range tree.Descendants(root) {
		v := tree.Get(id)
		if v.Kind == dom.KindElement && v.Element.Name.Local.String() == "div" {
			div = id
		}
	}
	require.NotZero(t, div)
	v := tree.Get(div)
	classes := v.Element.Attrs.Classes()
	require.Equal(t, []string{"a", "b"}, classes)
	idVal, ok := v.Element.Attrs.ID()
	require.True(t, ok)
	require.Equal(t, "x", idVal)
}

func TestParseHTMLVoidElementsHaveNoChildren(t *testing.T) {
	tree, root, err := ParseHTML(`<div><img src="x.png"><p>after</p></div>`)
	require.NoError(t, err)

	var img dom.NodeId
	for _, id := range tree.Descendants(root) {
		v := tree.Get(id)
		if v.Kind == dom.KindElement && v.Element.Name.Local.String() == "img" {
			img = id
		}
	}
	require.NotZero(t, img)
	require.Empty(t, tree.Children(img))
}

func TestParseHTMLDoesNotCoalesceTextAcrossComment(t *testing.T) {
	tree, root, err := ParseHTML(`<p>Hel<!--c-->lo</p>`)
	require.NoError(t, err)

	var p dom.NodeId
	for _, id := range tree.Descendants(root) {
		v := tree.Get(id)
		if v.Kind == dom.KindElement && v.Element.Name.Local.String() == "p" {
			p = id
		}
	}
	require.NotZero(t, p)
	children := tree.Children(p)
	require.Len(t, children, 3, "text-comment-text, since the comment breaks direct adjacency")
	require.Equal(t, "Hel", tree.Get(children[0]).Text.String())
	require.Equal(t, "lo", tree.Get(children[2]).Text.String())
}

func TestFinalizeTwiceReturnsStateExhausted(t *testing.T) {
	d, err := NewHTMLDriver()
	require.NoError(t, err)
	require.NoError(t, d.Feed("<p>hi</p>"))
	_, _, err = d.Finalize()
	require.NoError(t, err)
	_, _, err = d.Finalize()
	require.ErrorIs(t, err, StateExhausted{})
}

func TestParseXMLBuildsSimpleTree(t *testing.T) {
	tree, root, err := ParseXML(`<root a="1"><child>text</child></root>`)
	require.NoError(t, err)

	var child dom.NodeId
	for _, id := range tree.Descendants(root) {
		v := tree.Get(id)
		if v.Kind == dom.KindElement && v.Element.Name.Local.String() == "child" {
			child = id
		}
	}
	require.NotZero(t, child)
	text := tree.Children(child)
	require.Len(t, text, 1)
	require.Equal(t, "text", tree.Get(text[0]).Text.String())
}

func TestFullDocumentFalseRejectsDoctypeAsFragmentError(t *testing.T) {
	tree, root, err := ParseHTML(`<!DOCTYPE html><p>hi</p>`, WithFullDocument(false))
	require.NoError(t, err)
	require.NotEmpty(t, tree.Errors(), "a doctype in a body-scoped fragment parse must be reported, not silently accepted")

	var p dom.NodeId
	for _, id := range tree.Descendants(root) {
		v := tree.Get(id)
		if v.Kind == dom.KindElement && v.Element.Name.Local.String() == "p" {
			p = id
		}
	}
	require.NotZero(t, p, "fragment content after the rejected doctype still parses")
}

func TestIframeSrcdocForcesNoQuirksRegardlessOfDoctype(t *testing.T) {
	tree, _, err := ParseHTML(`<html><body>hi</body></html>`, WithIframeSrcdoc(true))
	require.NoError(t, err)
	require.Equal(t, dom.NoQuirks, tree.QuirksModeOf())
}

func TestProfileRecordsParseDuration(t *testing.T) {
	d, err := NewHTMLDriver(WithProfile(true))
	require.NoError(t, err)
	require.NoError(t, d.Feed("<p>hi</p>"))
	_, _, err = d.Finalize()
	require.NoError(t, err)
	require.GreaterOrEqual(t, d.ParseDuration(), time.Duration(0))
}

func TestNewHTMLOptionsRejectsInvalidQuirksMode(t *testing.T) {
	_, err := NewHTMLOptions(WithQuirksModeRequest(QuirksModeRequest(9)))
	require.Error(t, err)
	var invalid InvalidOption
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "quirks_mode", invalid.Field)
}
