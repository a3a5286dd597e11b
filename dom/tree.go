// Package dom implements the shared, arena-backed tree of heterogeneous
// markup nodes described in spec §3-§4.C: component B (tagged-variant
// node interface) and component C (the arena tree itself), plus the
// tree-level state (parse errors, quirks mode, namespace map, line
// counter) spec §3 "Tree-level state" assigns to the tree.
//
// There is no teacher file that implements an ID-addressed arena — the
// teacher (xml/map.go's OrderedMap) is a plain in-memory tree of Go
// maps/slices with no stable node handles. This package keeps the
// teacher's "small, mutable struct with fluent helpers and defensive
// nil/bounds checks" texture (see e.g. OrderedMap.Get/Has) while using
// the integer-ID + single-mutex design spec §5 requires for safe
// concurrent readers once the tree is finalized.
package dom

import (
	"sync"

	pkgerrors "github.com/pkg/errors"
)

// NodeId addresses a node within a Tree. The zero value is never a valid
// id; ids are assigned monotonically starting at 1 and are never reused,
// per spec §5 ("IDs are monotonic... reuse is impossible").
type NodeId uint64

// QuirksMode records which of the three HTML compatibility modes the
// tokenizer/tree-builder selected, per spec §3 and the wire encoding in
// §6 (0=Quirks, 1=LimitedQuirks, 2=NoQuirks).
type QuirksMode uint8

const (
	Quirks QuirksMode = iota
	LimitedQuirks
	NoQuirks
)

// ParseError is one entry of the tree's accumulated parse-warning list
// (spec §3 "the parse-error list (each entry a message plus the line
// number at which it was reported)").
type ParseError struct {
	Msg  string
	Line int
}

// NamespaceEntry is one (prefix, namespace) mapping recorded as elements
// are created; the map only grows, per spec §4.D "Namespaces are
// accumulated only on element creation (never removed)".
type NamespaceEntry struct {
	Prefix    string
	Namespace string
}

type nodeSlot struct {
	value Value

	parent, prevSibling, nextSibling NodeId
	firstChild, lastChild            NodeId

	// orphan is true for nodes present in the arena but with no parent.
	// The document root's slot also carries orphan=true (allocate sets it
	// for every node); IsAttached checks the root by id instead, since
	// "the document root is the only attached node without a parent".
	orphan bool
}

// Tree is the arena owning every node created for one document. A *Tree
// is the "tree handle" spec §3/§5 describe as shared-ownership: multiple
// (tree, NodeId) holders such as selector.Element may reference the same
// *Tree concurrently, and Go's
// garbage collector reclaims the arena once the last reference drops, by
// never holding a node reference other than Go's own.
type Tree struct {
	mu    sync.Mutex
	nodes []nodeSlot // index 0 is an unused sentinel; real ids start at 1

	errors     []ParseError
	quirks     QuirksMode
	namespaces []NamespaceEntry
	line       int

	documentID NodeId
	exhausted  bool
}

// NewTree allocates a fresh arena with a single Document root node and
// returns both the tree and the root's id.
func NewTree() (*Tree, NodeId) {
	t := &Tree{nodes: make([]nodeSlot, 1)} // sentinel at index 0
	id := t.allocate(NewDocumentValue())
	t.documentID = id
	return t, id
}

// allocate appends a new, detached slot and returns its id. Callers must
// hold t.mu.
func (t *Tree) allocate(v Value) NodeId {
	t.nodes = append(t.nodes, nodeSlot{value: v, orphan: true})
	return NodeId(len(t.nodes) - 1)
}

func (t *Tree) slot(id NodeId) *nodeSlot {
	if id == 0 || int(id) >= len(t.nodes) {
		panic(pkgerrors.Errorf("dom: invalid NodeId %d", id))
	}
	return &t.nodes[id]
}

// Document returns the id of the tree's root Document node.
func (t *Tree) Document() NodeId { return t.documentID }

// Orphan allocates a new, detached node holding v and returns its id,
// per spec §4.C "orphan(value) → NodeId".
func (t *Tree) Orphan(v Value) NodeId {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocate(v)
}

// Get returns a copy of the Value stored at id. Pointer-valued payload
// fields (Element, Doctype, PI) still alias the node's actual storage,
// so mutations through e.g. Get(id).Element.Attrs are visible to later
// Get calls; this mirrors how the arena exposes a single shared node
// rather than copying the whole subtree.
func (t *Tree) Get(id NodeId) Value {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.slot(id).value
}

// Parent, PrevSibling, NextSibling, FirstChild and LastChild return the
// respective link and whether it is set.
func (t *Tree) Parent(id NodeId) (NodeId, bool)      { return t.link(id, func(s *nodeSlot) NodeId { return s.parent }) }
func (t *Tree) PrevSibling(id NodeId) (NodeId, bool)  { return t.link(id, func(s *nodeSlot) NodeId { return s.prevSibling }) }
func (t *Tree) NextSibling(id NodeId) (NodeId, bool)  { return t.link(id, func(s *nodeSlot) NodeId { return s.nextSibling }) }
func (t *Tree) FirstChild(id NodeId) (NodeId, bool)   { return t.link(id, func(s *nodeSlot) NodeId { return s.firstChild }) }
func (t *Tree) LastChild(id NodeId) (NodeId, bool)    { return t.link(id, func(s *nodeSlot) NodeId { return s.lastChild }) }

func (t *Tree) link(id NodeId, pick func(*nodeSlot) NodeId) (NodeId, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := pick(t.slot(id))
	return v, v != 0
}

// IsAttached reports whether id has a parent, or is the document root
// (spec §3 invariant 4: "the document root is the only attached node
// without a parent").
func (t *Tree) IsAttached(id NodeId) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return id == t.documentID || !t.slot(id).orphan
}

// Children returns the ids of id's children in document order.
func (t *Tree) Children(id NodeId) []NodeId {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []NodeId
	cur := t.slot(id).firstChild
	for cur != 0 {
		out = append(out, cur)
		cur = t.slot(cur).nextSibling
	}
	return out
}

// cycleCheck panics with a CycleAttempt error if inserting node under (or
// adjacent to a descendant of) parent would create a cycle, per spec
// §4.C "Cycle prevention". Callers must hold t.mu.
func (t *Tree) cycleCheck(parent, node NodeId) {
	if parent == node {
		panic(CycleAttempt{Reason: "node cannot be its own parent"})
	}
	cur := parent
	for cur != 0 {
		if cur == node {
			panic(CycleAttempt{Reason: "node is an ancestor of the requested parent"})
		}
		cur = t.slot(cur).parent
	}
}

// detachLocked removes node from its current parent/sibling links,
// leaving it as an orphan. Callers must hold t.mu.
func (t *Tree) detachLocked(node NodeId) {
	s := t.slot(node)
	if s.parent == 0 {
		return
	}
	parent := t.slot(s.parent)
	if s.prevSibling != 0 {
		t.slot(s.prevSibling).nextSibling = s.nextSibling
	} else {
		parent.firstChild = s.nextSibling
	}
	if s.nextSibling != 0 {
		t.slot(s.nextSibling).prevSibling = s.prevSibling
	} else {
		parent.lastChild = s.prevSibling
	}
	s.parent, s.prevSibling, s.nextSibling = 0, 0, 0
	s.orphan = true
}

// Detach removes node from its parent, leaving it reachable by id as an
// orphan; its own children are unaffected (spec §4.C "detach").
func (t *Tree) Detach(node NodeId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.detachLocked(node)
}

// Append makes child the last child of parent (spec §4.C "append"). If
// child is already the last child of parent, this is a no-op. child is
// detached from wherever it currently is first.
func (t *Tree) Append(parent, child NodeId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.slot(parent)
	if p.lastChild == child {
		return
	}
	t.cycleCheck(parent, child)
	t.detachLocked(child)
	c := t.slot(child)
	c.parent = parent
	c.prevSibling = p.lastChild
	c.nextSibling = 0
	c.orphan = false
	if p.lastChild != 0 {
		t.slot(p.lastChild).nextSibling = child
	} else {
		p.firstChild = child
	}
	p.lastChild = child
}

// Prepend makes child the first child of parent (spec §4.C "prepend").
func (t *Tree) Prepend(parent, child NodeId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.slot(parent)
	if p.firstChild == child {
		return
	}
	t.cycleCheck(parent, child)
	t.detachLocked(child)
	c := t.slot(child)
	c.parent = parent
	c.nextSibling = p.firstChild
	c.prevSibling = 0
	c.orphan = false
	if p.firstChild != 0 {
		t.slot(p.firstChild).prevSibling = child
	} else {
		p.lastChild = child
	}
	p.firstChild = child
}

// InsertBefore makes node the previous sibling of sibling (spec §4.C
// "insert_before"). sibling must already be attached.
func (t *Tree) InsertBefore(sibling, node NodeId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.insertAdjacentLocked(sibling, node, true)
}

// InsertAfter makes node the next sibling of sibling (spec §4.C
// "insert_after").
func (t *Tree) InsertAfter(sibling, node NodeId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.insertAdjacentLocked(sibling, node, false)
}

func (t *Tree) insertAdjacentLocked(sibling, node NodeId, before bool) {
	if node == sibling {
		panic(CycleAttempt{Reason: "node cannot be inserted adjacent to itself"})
	}
	s := t.slot(sibling)
	parent := s.parent
	if parent == 0 {
		panic(pkgerrors.New("dom: insert_before/after requires an attached sibling"))
	}
	t.cycleCheck(parent, node)
	t.detachLocked(node)

	n := t.slot(node)
	n.parent = parent
	n.orphan = false
	p := t.slot(parent)

	if before {
		n.prevSibling = s.prevSibling
		n.nextSibling = sibling
		if s.prevSibling != 0 {
			t.slot(s.prevSibling).nextSibling = node
		} else {
			p.firstChild = node
		}
		s.prevSibling = node
	} else {
		n.nextSibling = s.nextSibling
		n.prevSibling = sibling
		if s.nextSibling != 0 {
			t.slot(s.nextSibling).prevSibling = node
		} else {
			p.lastChild = node
		}
		s.nextSibling = node
	}
}

// ReparentAppend moves all children of from, in order, to the end of
// newParent's child list (spec §4.C "reparent_append").
func (t *Tree) ReparentAppend(newParent, from NodeId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if newParent == from {
		panic(CycleAttempt{Reason: "cannot reparent a node's children into itself"})
	}
	for _, child := range t.childrenLocked(from) {
		t.cycleCheck(newParent, child)
	}
	for _, child := range t.childrenLocked(from) {
		t.appendLocked(newParent, child)
	}
}

// ReparentPrepend moves all children of from, in order, to the start of
// newParent's child list (spec §4.C "reparent_prepend").
func (t *Tree) ReparentPrepend(newParent, from NodeId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if newParent == from {
		panic(CycleAttempt{Reason: "cannot reparent a node's children into itself"})
	}
	children := t.childrenLocked(from)
	for _, child := range children {
		t.cycleCheck(newParent, child)
	}
	for i := len(children) - 1; i >= 0; i-- {
		t.prependLocked(newParent, children[i])
	}
}

func (t *Tree) childrenLocked(id NodeId) []NodeId {
	var out []NodeId
	cur := t.slot(id).firstChild
	for cur != 0 {
		out = append(out, cur)
		cur = t.slot(cur).nextSibling
	}
	return out
}

// appendLocked/prependLocked duplicate Append/Prepend's body for use
// from within an already-locked call (ReparentAppend/ReparentPrepend),
// since Tree's mutex is not reentrant.
func (t *Tree) appendLocked(parent, child NodeId) {
	p := t.slot(parent)
	if p.lastChild == child {
		return
	}
	t.detachLocked(child)
	c := t.slot(child)
	c.parent = parent
	c.prevSibling = p.lastChild
	c.nextSibling = 0
	c.orphan = false
	if p.lastChild != 0 {
		t.slot(p.lastChild).nextSibling = child
	} else {
		p.firstChild = child
	}
	p.lastChild = child
}

func (t *Tree) prependLocked(parent, child NodeId) {
	p := t.slot(parent)
	if p.firstChild == child {
		return
	}
	t.detachLocked(child)
	c := t.slot(child)
	c.parent = parent
	c.nextSibling = p.firstChild
	c.prevSibling = 0
	c.orphan = false
	if p.firstChild != 0 {
		t.slot(p.firstChild).prevSibling = child
	} else {
		p.lastChild = child
	}
	p.firstChild = child
}

// AppendText implements the text half of the §4.D "append" callback: if
// parent's last child is a Text node, its contents are extended in
// place and no new node is created; otherwise a new Text node is
// allocated and appended. It returns the id of the (possibly reused)
// Text node.
func (t *Tree) AppendText(parent NodeId, text string) NodeId {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.slot(parent)
	if last := p.lastChild; last != 0 {
		ls := t.slot(last)
		if ls.value.Kind == KindText {
			ls.value.Text.Append(text)
			return last
		}
	}
	id := t.allocate(NewTextValue(text))
	t.appendLocked(parent, id)
	return id
}

// InsertTextBeforeSibling implements the text half of the §4.D
// "append_before_sibling" callback: if sibling's previous sibling exists
// and is a Text node, its contents are extended in place; otherwise a
// new Text node is inserted immediately before sibling.
func (t *Tree) InsertTextBeforeSibling(sibling NodeId, text string) NodeId {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.slot(sibling)
	if prev := s.prevSibling; prev != 0 {
		ps := t.slot(prev)
		if ps.value.Kind == KindText {
			ps.value.Text.Append(text)
			return prev
		}
	}
	id := t.allocate(NewTextValue(text))
	t.insertAdjacentLocked(sibling, id, true)
	return id
}

// AddError appends (msg, currentLine) to the tree's parse-error list,
// per spec §4.D "parse_error".
func (t *Tree) AddError(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = append(t.errors, ParseError{Msg: msg, Line: t.line})
}

// Errors returns the accumulated parse-warning list.
func (t *Tree) Errors() []ParseError {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ParseError, len(t.errors))
	copy(out, t.errors)
	return out
}

// SetCurrentLine updates the running line counter (spec §4.D
// "set_current_line").
func (t *Tree) SetCurrentLine(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.line = n
}

// CurrentLine returns the running line counter.
func (t *Tree) CurrentLine() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.line
}

// SetQuirksMode stores the tokenizer/tree-builder's detected quirks mode
// (spec §4.D "set_quirks_mode").
func (t *Tree) SetQuirksMode(m QuirksMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.quirks = m
}

// QuirksModeOf returns the tree's recorded quirks mode.
func (t *Tree) QuirksModeOf() QuirksMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.quirks
}

// RecordNamespace appends a (prefix, namespace) mapping; the map is
// never pruned, per spec §4.D.
func (t *Tree) RecordNamespace(prefix, namespace string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.namespaces = append(t.namespaces, NamespaceEntry{Prefix: prefix, Namespace: namespace})
}

// Namespaces returns the accumulated prefix→namespace map in the order
// entries were recorded.
func (t *Tree) Namespaces() []NamespaceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]NamespaceEntry, len(t.namespaces))
	copy(out, t.namespaces)
	return out
}

// NamespaceForPrefix looks up the most recently recorded namespace for
// prefix, if any.
func (t *Tree) NamespaceForPrefix(prefix string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.namespaces) - 1; i >= 0; i-- {
		if t.namespaces[i].Prefix == prefix {
			return t.namespaces[i].Namespace, true
		}
	}
	return "", false
}

// Descendants returns the ids of root and all of its descendants in
// depth-first pre-order, per spec §3 "Document order" and the §8
// testable property that this equals the arena's depth-first pre-order
// walk.
func (t *Tree) Descendants(root NodeId) []NodeId {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []NodeId
	var walk func(id NodeId)
	walk = func(id NodeId) {
		out = append(out, id)
		cur := t.slot(id).firstChild
		for cur != 0 {
			walk(cur)
			cur = t.slot(cur).nextSibling
		}
	}
	walk(root)
	return out
}

// MarkExhausted and Exhausted implement the streaming driver's one-shot
// finalize contract (spec §4.E, §7 StateExhausted): a Tree itself is
// reusable, but treesink.Driver consults these to refuse a second
// Finalize call.
func (t *Tree) MarkExhausted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exhausted = true
}

func (t *Tree) Exhausted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.exhausted
}
