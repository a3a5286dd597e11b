// Package serialize implements the tree-walk serializer of spec §4.I:
// given a node, it emits a stream of start/end/text/comment/doctype/PI
// events to an external sink. The walk is grounded on the teacher's
// xml/c14n.go, which already implements "sorted attributes, minimal XML
// escaping" for its own Canonicalize helper — generalized here from a
// *xml.OrderedMap walk to a *dom.Tree walk, and split into two entry
// points: Serialize (stored order, one StartElem/EndElem pair per
// element, unescaped text and values left to the Sink; spec §4.I's
// primary contract) and Canonicalize (attribute-sorted, no self-closing,
// escaped, the supplemented c14n form).
package serialize

import "github.com/arturoeanton/go-markup/dom"

// Sink is the serializer's output contract, per spec §4.I/§6 "serializer
// sink contract": one method per event kind, each reporting the first
// I/O failure it hits.
type Sink interface {
	StartElem(name string, attrs []Attr) error
	EndElem(name string) error
	WriteText(s string) error
	WriteComment(s string) error
	WriteDoctype(name, publicID, systemID string) error
	WriteProcessingInstruction(target, data string) error
}

// Attr is one name/value pair as handed to a Sink's StartElem, in
// stored (sorted) emission order.
type Attr struct {
	Name  string
	Value string
}

// Scope selects how much of a node's subtree Serialize emits, per spec
// §4.I.
type Scope uint8

const (
	// IncludeNode emits the node itself plus its subtree.
	IncludeNode Scope = iota
	// ChildrenOnly emits only the subtree, skipping the node itself.
	ChildrenOnly
)

func attrsOf(v dom.Value) []Attr {
	if v.Kind != dom.KindElement {
		return nil
	}
	pairs := v.Element.Attrs.All()
	out := make([]Attr, len(pairs))
	for i, p := range pairs {
		out[i] = Attr{Name: p.Name.String(), Value: p.Value.String()}
	}
	return out
}
