package selector

import (
	"iter"

	"github.com/arturoeanton/go-markup/dom"
)

// Select compiles expr under ns (may be nil) and returns a lazy,
// document-order iterator over the elements of root's subtree matching
// the compiled selector list, per spec §4.H. scope, if non-nil, is the
// element a top-level :scope resolves to; a nil scope makes :scope match
// nothing. scope does not change where :has searches: :has always
// searches from the element it is tested on.
//
// Compilation errors surface as SelectorParse; iterating never fails.
func Select(tree *dom.Tree, root dom.NodeId, expr string, ns NamespaceMap, scope *dom.NodeId) (iter.Seq[Element], error) {
	list, err := Parse(expr, ns)
	if err != nil {
		return nil, err
	}
	var ctx MatchContext
	if scope != nil {
		se := Element{Tree: tree, Node: *scope}
		ctx.Scope = &se
	}
	return func(yield func(Element) bool) {
		for _, id := range tree.Descendants(root) {
			el := Element{Tree: tree, Node: id}
			if !el.IsElement() {
				continue
			}
			if !list.Matches(el, &ctx) {
				continue
			}
			if !yield(el) {
				return
			}
		}
	}, nil
}

// Collect drains a Select iterator into a slice, for callers that do
// not need streaming/early-exit semantics.
func Collect(seq iter.Seq[Element]) []Element {
	var out []Element
	for el := range seq {
		out = append(out, el)
	}
	return out
}
