package selector

import (
	"golang.org/x/text/cases"

	"github.com/arturoeanton/go-markup/atom"
	"github.com/arturoeanton/go-markup/dom"
)

// foldCaser performs the Unicode case fold used by case-insensitive
// id/class/attribute comparisons; grounded on golang.org/x/text/cases,
// the same package livetemplate-livetemplate's dependency graph pulls
// in transitively through golang.org/x/net, generalized here from
// display-text casing to selector value comparison.
var foldCaser = cases.Fold()

// Element adapts a (tree, NodeId) pair to the predicate surface spec
// §4.G requires of the matcher. It is a thin value type, cheap to pass
// by value and to recreate on every traversal step, matching the
// "matching context reused across many candidates" design of §4.H.
type Element struct {
	Tree *dom.Tree
	Node dom.NodeId
}

// IsElement reports whether the underlying node is an Element; the
// matcher only ever tests Element nodes, but traversal may hand back
// any node kind while walking descendants.
func (e Element) IsElement() bool { return e.Tree.Get(e.Node).Kind == dom.KindElement }

func (e Element) data() *dom.ElementData { return e.Tree.Get(e.Node).Element }

// ParentElement implements "parent_element": nearest ancestor that is
// an Element, skipping non-Element ancestors (the Document root is
// never an Element, so this naturally stops there).
func (e Element) ParentElement() (Element, bool) {
	cur := e.Node
	for {
		parent, ok := e.Tree.Parent(cur)
		if !ok {
			return Element{}, false
		}
		if e.Tree.Get(parent).Kind == dom.KindElement {
			return Element{Tree: e.Tree, Node: parent}, true
		}
		cur = parent
	}
}

// PrevSiblingElement implements "prev_sibling_elem".
func (e Element) PrevSiblingElement() (Element, bool) {
	return e.walkSiblings(e.Tree.PrevSibling)
}

// NextSiblingElement implements "next_sibling_elem".
func (e Element) NextSiblingElement() (Element, bool) {
	return e.walkSiblings(e.Tree.NextSibling)
}

func (e Element) walkSiblings(step func(dom.NodeId) (dom.NodeId, bool)) (Element, bool) {
	cur := e.Node
	for {
		next, ok := step(cur)
		if !ok {
			return Element{}, false
		}
		if e.Tree.Get(next).Kind == dom.KindElement {
			return Element{Tree: e.Tree, Node: next}, true
		}
		cur = next
	}
}

// FirstElementChild implements "first_element_child".
func (e Element) FirstElementChild() (Element, bool) {
	child, ok := e.Tree.FirstChild(e.Node)
	for ok {
		if e.Tree.Get(child).Kind == dom.KindElement {
			return Element{Tree: e.Tree, Node: child}, true
		}
		child, ok = e.Tree.NextSibling(child)
	}
	return Element{}, false
}

// IsSameType implements "is_same_type": both Elements and their QNames
// are equal.
func (e Element) IsSameType(o Element) bool {
	if !e.IsElement() || !o.IsElement() {
		return false
	}
	return e.data().Name.Equal(o.data().Name)
}

// IsHTMLInHTMLDoc implements "is_html_in_html_doc".
func (e Element) IsHTMLInHTMLDoc() bool {
	return e.data().Name.Namespace.Equal(atom.NamespaceHTML)
}

// HasLocalName implements "has_local_name(l)".
func (e Element) HasLocalName(l string) bool {
	return e.data().Name.Local.String() == l
}

// HasNamespace implements "has_namespace(ns)".
func (e Element) HasNamespace(ns string) bool {
	return e.data().Name.Namespace.String() == ns
}

// AttrMatches implements "attr_matches(ns, l, op)": anyNamespace means
// "any namespace satisfies ns", matching an unprefixed CSS attribute
// selector's default behavior.
func (e Element) AttrMatches(anyNamespace bool, ns, local string, op func(value string, present bool) bool) bool {
	for _, pair := range e.data().Attrs.All() {
		if !anyNamespace && pair.Name.Namespace.String() != ns {
			continue
		}
		if pair.Name.Local.String() != local {
			continue
		}
		if op(pair.Value.String(), true) {
			return true
		}
	}
	return op("", false)
}

// HasID implements "has_id(id, cs)".
func (e Element) HasID(id string, cs CaseSensitivity) bool {
	got, ok := e.data().Attrs.ID()
	if !ok {
		return false
	}
	return equalFold(got, id, cs)
}

// HasClass implements "has_class(c, cs)".
func (e Element) HasClass(class string, cs CaseSensitivity) bool {
	for _, c := range e.data().Attrs.Classes() {
		if equalFold(c, class, cs) {
			return true
		}
	}
	return false
}

// IsLink implements "is_link".
func (e Element) IsLink() bool { return e.HasLocalName("link") }

// IsRoot implements "is_root": per spec §9's deliberate design, this is
// true only for the Document node, not its first Element child.
func (e Element) IsRoot() bool { return e.Tree.Get(e.Node).Kind == dom.KindDocument }

// IsEmpty implements "is_empty": no child is an Element or Text node.
func (e Element) IsEmpty() bool {
	for _, child := range e.Tree.Children(e.Node) {
		switch e.Tree.Get(child).Kind {
		case dom.KindElement, dom.KindText:
			return false
		}
	}
	return true
}

// SlotAssigned and IsXSLTBoundary are pseudo-element/non-tree-structural
// hooks that always report false, per spec §4.G and the supplemented
// slot/XSLT-boundary hooks of the original implementation — kept for
// interface parity with a DOM that could one day grow shadow-tree
// semantics, not exercised by any selector this engine compiles today.
func (e Element) SlotAssigned() bool  { return false }
func (e Element) IsXSLTBoundary() bool { return false }

func equalFold(a, b string, cs CaseSensitivity) bool {
	if cs == CaseInsensitive {
		return foldCaser.String(a) == foldCaser.String(b)
	}
	return a == b
}
