package serialize

import "github.com/arturoeanton/go-markup/dom"

// Serialize walks node and writes start/end/text/comment/doctype/PI
// events to sink, per spec §4.I: a Document node emits only its
// children regardless of scope; an Element emits start, all children,
// then end; attribute emission order matches the node's stored (sorted)
// order. The first error a Sink method returns is wrapped as IoError
// and propagation stops immediately.
func Serialize(tree *dom.Tree, node dom.NodeId, scope Scope, sink Sink) error {
	v := tree.Get(node)
	if v.Kind == dom.KindDocument || scope == ChildrenOnly {
		return serializeChildren(tree, node, sink)
	}
	return serializeNode(tree, node, v, sink)
}

func serializeChildren(tree *dom.Tree, node dom.NodeId, sink Sink) error {
	for _, child := range tree.Children(node) {
		if err := serializeNode(tree, child, tree.Get(child), sink); err != nil {
			return err
		}
	}
	return nil
}

func serializeNode(tree *dom.Tree, node dom.NodeId, v dom.Value, sink Sink) error {
	switch v.Kind {
	case dom.KindDocument:
		return serializeChildren(tree, node, sink)
	case dom.KindDoctype:
		if err := sink.WriteDoctype(v.Doctype.Name, v.Doctype.PublicID, v.Doctype.SystemID); err != nil {
			return IoError{Underlying: err}
		}
		return nil
	case dom.KindComment:
		if err := sink.WriteComment(v.Comment.String()); err != nil {
			return IoError{Underlying: err}
		}
		return nil
	case dom.KindText:
		if err := sink.WriteText(v.Text.String()); err != nil {
			return IoError{Underlying: err}
		}
		return nil
	case dom.KindProcessingInstruction:
		if err := sink.WriteProcessingInstruction(v.PI.Target, v.PI.Data); err != nil {
			return IoError{Underlying: err}
		}
		return nil
	case dom.KindElement:
		name := v.Element.Name.String()
		if err := sink.StartElem(name, attrsOf(v)); err != nil {
			return IoError{Underlying: err}
		}
		if err := serializeChildren(tree, node, sink); err != nil {
			return err
		}
		if err := sink.EndElem(name); err != nil {
			return IoError{Underlying: err}
		}
		return nil
	default:
		return nil
	}
}
