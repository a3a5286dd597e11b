package serialize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-markup/treesink"
)

// bufSink accumulates events as a flat string, enough to assert
// ordering and content without a full HTML/XML writer.
type bufSink struct {
	strings.Builder
}

func (s *bufSink) StartElem(name string, attrs []Attr) error {
	s.WriteByte('<')
	s.WriteString(name)
	for _, a := range attrs {
		s.WriteByte(' ')
		s.WriteString(a.Name)
		s.WriteString(`="`)
		s.WriteString(a.Value)
		s.WriteString(`"`)
	}
	s.WriteByte('>')
	return nil
}
func (s *bufSink) EndElem(name string) error {
	s.WriteString("</")
	s.WriteString(name)
	s.WriteByte('>')
	return nil
}
func (s *bufSink) WriteText(text string) error { s.WriteString(text); return nil }
func (s *bufSink) WriteComment(text string) error {
	s.WriteString("<!--")
	s.WriteString(text)
	s.WriteString("-->")
	return nil
}
func (s *bufSink) WriteDoctype(name, publicID, systemID string) error {
	s.WriteString("<!DOCTYPE ")
	s.WriteString(name)
	s.WriteByte('>')
	return nil
}
func (s *bufSink) WriteProcessingInstruction(target, data string) error {
	s.WriteString("<?")
	s.WriteString(target)
	s.WriteByte(' ')
	s.WriteString(data)
	s.WriteString("?>")
	return nil
}

func TestSerializeEmitsSortedAttributesAndStructure(t *testing.T) {
	tree, root, err := treesink.ParseHTML(`<div z="last" a="first">hi</div>`)
	require.NoError(t, err)

	var sink bufSink
	require.NoError(t, Serialize(tree, root, ChildrenOnly, &sink))
	require.Equal(t, `<div a="first" z="last">hi</div>`, sink.String())
}

func TestSerializeIncludeNodeVsChildrenOnly(t *testing.T) {
	tree, root, err := treesink.ParseHTML(`<p>x</p>`)
	require.NoError(t, err)

	var full, childrenOnly bufSink
	require.NoError(t, Serialize(tree, root, IncludeNode, &full))
	require.NoError(t, Serialize(tree, root, ChildrenOnly, &childrenOnly))
	require.Equal(t, full.String(), childrenOnly.String(), "a Document node emits only its children regardless of scope")
}

func TestCanonicalizeHasNoSelfClosingTags(t *testing.T) {
	tree, root, err := treesink.ParseHTML(`<br>`)
	require.NoError(t, err)

	b, err := Canonicalize(tree, root, ChildrenOnly)
	require.NoError(t, err)
	require.Equal(t, `<br></br>`, string(b))
}
