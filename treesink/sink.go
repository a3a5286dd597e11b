package treesink

import (
	"github.com/arturoeanton/go-markup/atom"
	"github.com/arturoeanton/go-markup/dom"
)

// Sink implements the tree-construction callback protocol of spec §4.D
// ("tree-sink adapter") against a *dom.Tree. It has no tokenizer
// knowledge of its own; the HTML and XML builders in this package each
// drive a Sink from their own token loop, mirroring how html5ever's
// TreeSink trait is deliberately tokenizer-agnostic.
type Sink struct {
	tree     *dom.Tree
	document dom.NodeId
}

// NewSink wraps tree, recording its document root as the sink's
// get_document() answer.
func NewSink(tree *dom.Tree, document dom.NodeId) *Sink {
	return &Sink{tree: tree, document: document}
}

// ParseError implements the "parse_error" callback: a non-fatal
// diagnostic is appended to the tree's error list, never the Go error
// return path, per spec §4.D.
func (s *Sink) ParseError(msg string) { s.tree.AddError(msg) }

// SetCurrentLine implements "set_current_line".
func (s *Sink) SetCurrentLine(line int) { s.tree.SetCurrentLine(line) }

// SetQuirksMode implements "set_quirks_mode".
func (s *Sink) SetQuirksMode(mode dom.QuirksMode) { s.tree.SetQuirksMode(mode) }

// GetDocument implements "get_document".
func (s *Sink) GetDocument() dom.NodeId { return s.document }

// GetTemplateContents implements "get_template_contents": a <template>
// element's content root is modeled as the element's own child list, so
// the template node itself is returned.
func (s *Sink) GetTemplateContents(templ dom.NodeId) dom.NodeId { return templ }

// SameNode implements "same_node": NodeId is a plain handle, so identity
// is value equality.
func (s *Sink) SameNode(a, b dom.NodeId) bool { return a == b }

// ElemName implements "elem_name".
func (s *Sink) ElemName(elem dom.NodeId) atom.QName {
	v := s.tree.Get(elem)
	if v.Kind != dom.KindElement {
		panic("treesink: elem_name called on a non-element node")
	}
	return v.Element.Name
}

// CreateElement implements "create_element": orphans an Element, and if
// name carries a namespace prefix, records that prefix→namespace mapping
// on the tree, per spec §4.D "if name.prefix is set, map
// prefix→namespace." Neither byte-level tokenizer this package drives
// ever hands CreateElement a non-empty prefix today — x/net/html's
// Tokenizer never reports one, and encoding/xml.Decoder resolves
// prefixes to namespace URIs before construction sees a token, as
// documented on xmlBuilder.handleStart — so this branch is presently
// unreachable from treesink's own builders, but the callback honors the
// literal contract for any QName a caller does construct with a prefix.
func (s *Sink) CreateElement(name atom.QName, attrs []dom.Attribute, template, mathmlAXIP bool) dom.NodeId {
	if !name.Prefix.IsEmptyPrefix() {
		s.tree.RecordNamespace(name.Prefix.String(), name.Namespace.String())
	}
	return s.tree.Orphan(dom.NewElementValue(name, attrs, template, mathmlAXIP))
}

// CreateComment implements "create_comment".
func (s *Sink) CreateComment(text string) dom.NodeId {
	return s.tree.Orphan(dom.NewCommentValue(text))
}

// CreatePI implements "create_pi".
func (s *Sink) CreatePI(target, data string) dom.NodeId {
	return s.tree.Orphan(dom.NewPIValue(target, data))
}

// AppendDoctypeToDocument implements "append_doctype_to_document".
func (s *Sink) AppendDoctypeToDocument(name, publicID, systemID string) {
	id := s.tree.Orphan(dom.NewDoctypeValue(name, publicID, systemID))
	s.tree.Append(s.document, id)
}

// Append implements the node-append half of "append": attach an
// already-created node as parent's last child.
func (s *Sink) Append(parent, child dom.NodeId) { s.tree.Append(parent, child) }

// AppendText implements the text half of "append": trailing Text runs
// are coalesced in place rather than producing adjacent Text nodes.
func (s *Sink) AppendText(parent dom.NodeId, text string) dom.NodeId {
	return s.tree.AppendText(parent, text)
}

// AppendBeforeSibling implements the node-insert half of
// "append_before_sibling".
func (s *Sink) AppendBeforeSibling(sibling, node dom.NodeId) {
	s.tree.InsertBefore(sibling, node)
}

// AppendTextBeforeSibling implements the text half of
// "append_before_sibling", coalescing into sibling's previous Text run
// when present.
func (s *Sink) AppendTextBeforeSibling(sibling dom.NodeId, text string) dom.NodeId {
	return s.tree.InsertTextBeforeSibling(sibling, text)
}

// AppendBasedOnParentNode implements "append_based_on_parent_node": the
// HTML5 foster-parenting rule used for misnested table content. If
// element is already attached to a parent, node is inserted as
// element's previous sibling; otherwise node is appended as prev's last
// child.
func (s *Sink) AppendBasedOnParentNode(element, prev, node dom.NodeId) {
	if _, ok := s.tree.Parent(element); ok {
		s.tree.InsertBefore(element, node)
		return
	}
	s.tree.Append(prev, node)
}

// AddAttrsIfMissing implements "add_attrs_if_missing".
func (s *Sink) AddAttrsIfMissing(target dom.NodeId, attrs []dom.Attribute) {
	v := s.tree.Get(target)
	if v.Kind != dom.KindElement {
		panic("treesink: add_attrs_if_missing called on a non-element node")
	}
	v.Element.Attrs.AddIfMissing(attrs)
}

// RemoveFromParent implements "remove_from_parent".
func (s *Sink) RemoveFromParent(target dom.NodeId) { s.tree.Detach(target) }

// ReparentChildren implements "reparent_children": all children move
// from from to the end of to's children, preserving order.
func (s *Sink) ReparentChildren(from, to dom.NodeId) { s.tree.ReparentAppend(to, from) }

// IsMathMLAnnotationXMLIntegrationPoint implements
// "is_mathml_annotation_xml_integration_point".
func (s *Sink) IsMathMLAnnotationXMLIntegrationPoint(elem dom.NodeId) bool {
	v := s.tree.Get(elem)
	if v.Kind != dom.KindElement {
		return false
	}
	return v.Element.MathMLAnnotationXMLIntegrationPoint
}
