package selector

// Combinator joins two compound selectors, per spec §4.F's combinator
// set (descendant, child, next-sibling, subsequent-sibling).
type Combinator uint8

const (
	// CombinatorDescendant is the implicit " " combinator.
	CombinatorDescendant Combinator = iota
	CombinatorChild
	CombinatorNextSibling
	CombinatorSubsequentSibling
)

// CaseSensitivity controls how attribute/id/class value comparisons
// fold case, per spec §4.F's "with optional case sensitivity".
type CaseSensitivity uint8

const (
	CaseSensitive CaseSensitivity = iota
	CaseInsensitive
)

// AttrOperator is the comparison applied by an attribute selector.
type AttrOperator uint8

const (
	AttrExists       AttrOperator = iota // [a]
	AttrEquals                           // [a=v]
	AttrIncludesWord                     // [a~=v]
	AttrDashMatch                        // [a|=v]
	AttrPrefixMatch                      // [a^=v]
	AttrSuffixMatch                      // [a$=v]
	AttrSubstringMatch                   // [a*=v]
)

// AttrSelector matches an attribute by (optional namespace), local
// name, operator and operand, per spec §4.G's attr_matches predicate.
type AttrSelector struct {
	Namespace    string // resolved namespace URI; "" means "no namespace constraint" unless AnyNamespace is false
	AnyNamespace bool   // true for an unprefixed attribute selector per CSS's "no namespace" default
	Local        string
	Op           AttrOperator
	Value        string
	CaseFold     CaseSensitivity
}

// PseudoKind enumerates the functional and structural pseudo-classes
// spec §4.F recognizes.
type PseudoKind uint8

const (
	PseudoIs PseudoKind = iota
	PseudoWhere
	PseudoNot
	PseudoHas
	PseudoNthChild
	PseudoNthOfType
	PseudoFirstChild
	PseudoLastChild
	PseudoOnlyChild
	PseudoRoot
	PseudoEmpty
	PseudoScope
)

// NthExpr is the An+B expression accepted by :nth-child/:nth-of-type,
// with an optional "of S" selector-list filter per spec §4.F's
// ":nth-child(An+B of S)".
type NthExpr struct {
	A, B int
	Of   *SelectorList // nil unless "of S" was given
}

// Pseudo is one functional or structural pseudo-class application.
type Pseudo struct {
	Kind  PseudoKind
	Args  *SelectorList // for :is/:where/:not/:has
	Nth   *NthExpr      // for :nth-child/:nth-of-type
}

// Compound is one compound selector: a sequence of simple selectors all
// applying to the same element (no combinator between them).
type Compound struct {
	Type      *TypeSelector // nil for a bare universal/qualified-less compound
	Universal bool
	IDs       []string
	Classes   []struct {
		Name string
		Fold CaseSensitivity
	}
	Attrs   []AttrSelector
	Pseudos []Pseudo
}

// TypeSelector matches a namespace+local-name pair, or a wildcard
// namespace/local with "*".
type TypeSelector struct {
	Namespace     string
	AnyNamespace  bool
	Local         string
	AnyLocal      bool
}

// Combined is one non-first step of a selector: how it is joined to
// the previous compound, and the compound itself.
type Combined struct {
	Combinator Combinator
	Compound   Compound
}

// Selector is one compound or compound-chain: First is the leftmost
// compound, Rest are subsequent combinator+compound steps in left-to-
// right (ancestor-to-descendant) source order.
type Selector struct {
	First Compound
	Rest  []Combined
}

// SelectorList is a non-empty sequence of selectors joined by ",", per
// spec §4.F: "matching is the disjunction over the list."
type SelectorList struct {
	Selectors []Selector
}
