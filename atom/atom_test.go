package atom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternIdentity(t *testing.T) {
	a := InternLocalName("div")
	b := InternLocalName("div")
	require.True(t, a.Equal(b), "interning the same text twice must yield equal atoms")
	require.Equal(t, a.Hash(), b.Hash())

	c := InternLocalName("span")
	require.False(t, a.Equal(c))
}

func TestInternDifferentKindsDontCollide(t *testing.T) {
	local := InternLocalName("a")
	prefix := InternPrefix("a")
	ns := InternNamespace("a")

	require.Equal(t, "a", local.String())
	require.Equal(t, "a", prefix.String())
	require.Equal(t, "a", ns.String())
}

func TestQNameEquality(t *testing.T) {
	a := NewQName("xlink", "http://www.w3.org/1999/xlink", "href")
	b := NewQName("xlink", "http://www.w3.org/1999/xlink", "href")
	c := NewQName("", "http://www.w3.org/1999/xlink", "href")

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c), "prefix participates in QName equality")
}

func TestQNameLessOrdersByNamespaceThenLocal(t *testing.T) {
	a := NewQName("", "", "id")
	b := NewQName("", "", "class")
	require.True(t, b.Less(a), "\"class\" < \"id\" lexicographically")
	require.False(t, a.Less(b))
}

func TestEmptyPrefixIsInterned(t *testing.T) {
	p := InternPrefix("")
	require.True(t, p.IsEmptyPrefix())
	require.Equal(t, "", p.String())
}
