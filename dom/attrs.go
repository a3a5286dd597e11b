package dom

import (
	"sort"

	"github.com/arturoeanton/go-markup/atom"
)

// Attribute is one (name, value) pair of an Element's attribute sequence.
type Attribute struct {
	Name  atom.QName
	Value atom.Tendril
}

// Attrs is the ordered, deduplicated attribute sequence of an Element,
// plus its lazily computed id/class caches (spec §3 "Element attributes",
// §4.B "Cached-attribute invariant").
//
// The teacher's OrderedMap (xml/map.go) keeps insertion order with O(1)
// lookup via a parallel keys slice + map; here the sort key is the QName
// itself (spec requires the sequence to stay sorted for stable equality),
// so Attrs keeps a single sorted slice instead of a keys+map pair.
type idCacheEntry struct {
	val string
	ok  bool
}

type Attrs struct {
	pairs      []Attribute
	idCache    *idCacheEntry
	classCache []string
}

// NewAttrs builds a deduplicated, sorted Attrs from possibly-duplicated
// input pairs, keeping the first occurrence of each QName as spec §3
// requires ("duplicates... MUST be deduplicated (keeping first)").
func NewAttrs(pairs []Attribute) *Attrs {
	a := &Attrs{}
	a.setAll(pairs)
	return a
}

func (a *Attrs) setAll(pairs []Attribute) {
	// Stable sort preserves input (insertion) order among equal keys so
	// "keeping first" is well defined after the sort.
	ordered := make([]Attribute, len(pairs))
	copy(ordered, pairs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Name.Less(ordered[j].Name) })

	deduped := ordered[:0:0]
	for i, p := range ordered {
		if i > 0 && p.Name.Equal(ordered[i-1].Name) {
			continue
		}
		deduped = append(deduped, p)
	}
	a.pairs = deduped
	a.invalidate()
}

// invalidate clears the id/class caches; called after every mutation per
// the §4.B cached-attribute invariant.
func (a *Attrs) invalidate() {
	a.idCache = nil
	a.classCache = nil
}

// Len returns the number of distinct attributes.
func (a *Attrs) Len() int { return len(a.pairs) }

// All returns the attribute sequence in stored (sorted) order. The
// returned slice must not be mutated by the caller.
func (a *Attrs) All() []Attribute { return a.pairs }

// Get returns the value of the first attribute whose QName equals name,
// and whether it was found.
func (a *Attrs) Get(name atom.QName) (atom.Tendril, bool) {
	i := a.search(name)
	if i < 0 {
		return atom.Tendril{}, false
	}
	return a.pairs[i].Value, true
}

// GetByLocal returns the value of the first attribute (any namespace)
// whose local name equals local.
func (a *Attrs) GetByLocal(local string) (atom.Tendril, bool) {
	for _, p := range a.pairs {
		if p.Name.Local.String() == local {
			return p.Value, true
		}
	}
	return atom.Tendril{}, false
}

func (a *Attrs) search(name atom.QName) int {
	for i, p := range a.pairs {
		if p.Name.Equal(name) {
			return i
		}
	}
	return -1
}

// Set inserts or overwrites the attribute with the given name, keeping
// the sequence sorted, and invalidates the id/class caches.
func (a *Attrs) Set(name atom.QName, value atom.Tendril) {
	if i := a.search(name); i >= 0 {
		a.pairs[i].Value = value
		a.invalidate()
		return
	}
	a.pairs = append(a.pairs, Attribute{Name: name, Value: value})
	sort.SliceStable(a.pairs, func(i, j int) bool { return a.pairs[i].Name.Less(a.pairs[j].Name) })
	a.invalidate()
}

// AddIfMissing implements the §4.D add_attrs_if_missing callback: for
// each attribute in pairs whose QName is not already present, it is
// appended; the sequence is then re-sorted and caches invalidated.
func (a *Attrs) AddIfMissing(pairs []Attribute) {
	changed := false
	for _, p := range pairs {
		if a.search(p.Name) < 0 {
			a.pairs = append(a.pairs, p)
			changed = true
		}
	}
	if changed {
		sort.SliceStable(a.pairs, func(i, j int) bool { return a.pairs[i].Name.Less(a.pairs[j].Name) })
		a.invalidate()
	}
}

// Remove deletes the attribute with the given name, if present.
func (a *Attrs) Remove(name atom.QName) {
	i := a.search(name)
	if i < 0 {
		return
	}
	a.pairs = append(a.pairs[:i], a.pairs[i+1:]...)
	a.invalidate()
}

// ID returns the cached value of the first attribute whose local name is
// "id", computing it on first access after a mutation (§3 "id" cache).
func (a *Attrs) ID() (string, bool) {
	if a.idCache != nil {
		return a.idCache.val, a.idCache.ok
	}
	val, found := a.GetByLocal("id")
	if !found {
		a.idCache = &idCacheEntry{}
		return "", false
	}
	a.idCache = &idCacheEntry{val: val.String(), ok: true}
	return a.idCache.val, true
}

// isASCIIWhitespace matches Rust's u8::is_ascii_whitespace: space, tab,
// line feed, form feed, carriage return. Unicode whitespace (e.g.
// U+00A0 NBSP) is deliberately excluded, per original_source/treedom's
// data.rs and interface.rs use of split_ascii_whitespace for the class
// list, which strings.Fields (Unicode-aware) would not reproduce.
func isASCIIWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// splitASCIIWhitespace tokenizes s on runs of ASCII whitespace only.
func splitASCIIWhitespace(s string) []string {
	var out []string
	i, n := 0, len(s)
	for i < n {
		for i < n && isASCIIWhitespace(s[i]) {
			i++
		}
		start := i
		for i < n && !isASCIIWhitespace(s[i]) {
			i++
		}
		if i > start {
			out = append(out, s[start:i])
		}
	}
	return out
}

// Classes returns the cached, sorted, de-duplicated set of
// ASCII-whitespace-split tokens across all attributes whose local name
// is "class" (§3 "classes" cache).
func (a *Attrs) Classes() []string {
	if a.classCache != nil {
		return a.classCache
	}
	set := make(map[string]struct{})
	for _, p := range a.pairs {
		if p.Name.Local.String() != "class" {
			continue
		}
		for _, tok := range splitASCIIWhitespace(p.Value.String()) {
			set[tok] = struct{}{}
		}
	}
	classes := make([]string, 0, len(set))
	for tok := range set {
		classes = append(classes, tok)
	}
	sort.Strings(classes)
	a.classCache = classes
	return classes
}

// HasClass reports whether c is present among the cached classes, using
// the given case sensitivity.
func (a *Attrs) HasClass(c string, fold func(string) string) bool {
	target := fold(c)
	for _, cls := range a.Classes() {
		if fold(cls) == target {
			return true
		}
	}
	return false
}

// Equal reports whether a and o hold the same multiset of attribute
// pairs, per the Element equality rule in spec §4.B. Both sequences are
// assumed already sorted+deduplicated, so a straight positional compare
// suffices.
func (a *Attrs) Equal(o *Attrs) bool {
	if a.Len() != o.Len() {
		return false
	}
	for i, p := range a.pairs {
		q := o.pairs[i]
		if !p.Name.Equal(q.Name) || p.Value.String() != q.Value.String() {
			return false
		}
	}
	return true
}

// Clone returns an independent Attrs with copies of the value tendrils
// detached from the original's buffers.
func (a *Attrs) Clone() *Attrs {
	pairs := make([]Attribute, len(a.pairs))
	for i, p := range a.pairs {
		pairs[i] = Attribute{Name: p.Name, Value: p.Value.Detach()}
	}
	return &Attrs{pairs: pairs}
}
