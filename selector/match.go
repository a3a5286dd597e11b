package selector

import "strings"

// MatchContext is the reusable matching context spec §4.H describes as
// "bloom filter + caches". This implementation keeps only the :scope
// element, since the selector subset spec §4.F lists does not require
// ancestor bloom-filter pre-rejection to be correct — it is a pure
// performance optimization the spec leaves as an implementation detail,
// and the dom.Tree arena's direct parent/sibling links already make a
// naive ancestor walk cheap at the scale this library targets.
type MatchContext struct {
	Scope *Element
}

// Matches reports whether el satisfies any selector in the list, per
// spec §4.F "matching is the disjunction over the list." Matching never
// fails; an unmatchable element simply returns false.
func (list *SelectorList) Matches(el Element, ctx *MatchContext) bool {
	for _, sel := range list.Selectors {
		if matchesSelector(sel, el, ctx) {
			return true
		}
	}
	return false
}

func matchesSelector(sel Selector, el Element, ctx *MatchContext) bool {
	if !matchesCompound(sel.First, el, ctx) {
		return false
	}
	return matchesRestFromRight(sel.Rest, el, ctx)
}

// matchesRestFromRight walks the combinator chain right-to-left: the
// rightmost compound has already matched el (by the caller), so this
// checks that a suitable ancestor/sibling chain exists satisfying every
// preceding step back to sel.First.
func matchesRestFromRight(rest []Combined, el Element, ctx *MatchContext) bool {
	if len(rest) == 0 {
		return true
	}
	last := rest[len(rest)-1]
	switch last.Combinator {
	case CombinatorChild:
		parent, ok := el.ParentElement()
		if !ok || !matchesCompound(last.Compound, parent, ctx) {
			return false
		}
		return matchesRestFromRight(rest[:len(rest)-1], parent, ctx)
	case CombinatorDescendant:
		cur := el
		for {
			parent, ok := cur.ParentElement()
			if !ok {
				return false
			}
			if matchesCompound(last.Compound, parent, ctx) && matchesRestFromRight(rest[:len(rest)-1], parent, ctx) {
				return true
			}
			cur = parent
		}
	case CombinatorNextSibling:
		prev, ok := el.PrevSiblingElement()
		if !ok || !matchesCompound(last.Compound, prev, ctx) {
			return false
		}
		return matchesRestFromRight(rest[:len(rest)-1], prev, ctx)
	case CombinatorSubsequentSibling:
		cur := el
		for {
			prev, ok := cur.PrevSiblingElement()
			if !ok {
				return false
			}
			if matchesCompound(last.Compound, prev, ctx) && matchesRestFromRight(rest[:len(rest)-1], prev, ctx) {
				return true
			}
			cur = prev
		}
	}
	return false
}

func matchesCompound(c Compound, el Element, ctx *MatchContext) bool {
	if !el.IsElement() {
		return false
	}
	if c.Type != nil {
		if !c.Type.AnyLocal && !el.HasLocalName(c.Type.Local) {
			return false
		}
		if !c.Type.AnyNamespace && !el.HasNamespace(c.Type.Namespace) {
			return false
		}
	}
	for _, id := range c.IDs {
		if !el.HasID(id, CaseSensitive) {
			return false
		}
	}
	for _, cl := range c.Classes {
		if !el.HasClass(cl.Name, cl.Fold) {
			return false
		}
	}
	for _, a := range c.Attrs {
		if !matchesAttr(a, el) {
			return false
		}
	}
	for _, ps := range c.Pseudos {
		if !matchesPseudo(ps, el, ctx) {
			return false
		}
	}
	return true
}

func matchesAttr(a AttrSelector, el Element) bool {
	op := attrOperatorFunc(a)
	return el.AttrMatches(a.AnyNamespace, a.Namespace, a.Local, op)
}

func attrOperatorFunc(a AttrSelector) func(value string, present bool) bool {
	fold := func(s string) string {
		if a.CaseFold == CaseInsensitive {
			return foldCaser.String(s)
		}
		return s
	}
	want := fold(a.Value)
	return func(value string, present bool) bool {
		if !present {
			return false
		}
		switch a.Op {
		case AttrExists:
			return true
		case AttrEquals:
			return fold(value) == want
		case AttrIncludesWord:
			for _, w := range strings.Fields(value) {
				if fold(w) == want {
					return true
				}
			}
			return false
		case AttrDashMatch:
			v := fold(value)
			return v == want || strings.HasPrefix(v, want+"-")
		case AttrPrefixMatch:
			return want != "" && strings.HasPrefix(fold(value), want)
		case AttrSuffixMatch:
			return want != "" && strings.HasSuffix(fold(value), want)
		case AttrSubstringMatch:
			return want != "" && strings.Contains(fold(value), want)
		}
		return false
	}
}

func matchesPseudo(ps Pseudo, el Element, ctx *MatchContext) bool {
	switch ps.Kind {
	case PseudoIs, PseudoWhere:
		return ps.Args.Matches(el, ctx)
	case PseudoNot:
		return !ps.Args.Matches(el, ctx)
	case PseudoHas:
		return matchesHas(ps.Args, el, ctx)
	case PseudoNthChild:
		return matchesNth(*ps.Nth, el, ctx, false)
	case PseudoNthOfType:
		return matchesNth(*ps.Nth, el, ctx, true)
	case PseudoFirstChild:
		_, ok := el.PrevSiblingElement()
		return !ok
	case PseudoLastChild:
		_, ok := el.NextSiblingElement()
		return !ok
	case PseudoOnlyChild:
		_, hasPrev := el.PrevSiblingElement()
		_, hasNext := el.NextSiblingElement()
		return !hasPrev && !hasNext
	case PseudoRoot:
		return el.IsRoot()
	case PseudoEmpty:
		return el.IsEmpty()
	case PseudoScope:
		return ctx.Scope != nil && ctx.Scope.Node == el.Node
	}
	return false
}

// matchesHas implements ":has(S)": true if el itself or any descendant
// (found via a relative-selector scan rooted at el) matches S. Treating
// el as its own first candidate is what makes spec §8 scenario 3's
// a:has(href) match <a href="u">x</a>: the href attribute belongs to
// the anchor itself, which has no element children to search. The search
// always starts at el, and :scope inside S resolves to el; the scope of
// the outer context is not used.
func matchesHas(args *SelectorList, el Element, outer *MatchContext) bool {
	inner := &MatchContext{Scope: &el}
	if args.Matches(el, inner) {
		return true
	}
	var walk func(Element) bool
	walk = func(cur Element) bool {
		for _, child := range cur.Tree.Children(cur.Node) {
			ce := Element{Tree: cur.Tree, Node: child}
			if !ce.IsElement() {
				continue
			}
			if args.Matches(ce, inner) {
				return true
			}
			if walk(ce) {
				return true
			}
		}
		return false
	}
	return walk(el)
}

// matchesNth implements :nth-child/:nth-of-type's An+B arithmetic,
// optionally filtered by "of S". 1-indexed position among matching
// siblings, per the CSS specification's An+B semantics: position p
// matches when (p - B) is divisible by A with a non-negative quotient
// (or p == B when A == 0).
func matchesNth(nth NthExpr, el Element, ctx *MatchContext, sameType bool) bool {
	parent, ok := el.Tree.Parent(el.Node)
	var siblings []Element
	if ok {
		for _, child := range el.Tree.Children(parent) {
			ce := Element{Tree: el.Tree, Node: child}
			if !ce.IsElement() {
				continue
			}
			if sameType && !ce.IsSameType(el) {
				continue
			}
			if nth.Of != nil && !nth.Of.Matches(ce, ctx) {
				continue
			}
			siblings = append(siblings, ce)
		}
	} else {
		// el has no parent node at all (a detached element); treat it as
		// the sole candidate in its own sibling group.
		if nth.Of == nil || nth.Of.Matches(el, ctx) {
			siblings = []Element{el}
		}
	}
	pos := -1
	for i, s := range siblings {
		if s.Node == el.Node {
			pos = i + 1
			break
		}
	}
	if pos < 0 {
		return false
	}
	return nthMatches(nth.A, nth.B, pos)
}

func nthMatches(a, b, pos int) bool {
	if a == 0 {
		return pos == b
	}
	diff := pos - b
	if diff%a != 0 {
		return false
	}
	return diff/a >= 0
}
