package treesink

import (
	"strings"
	"time"

	"github.com/arturoeanton/go-markup/dom"
)

// Driver implements the streaming contract of spec §4.E: chunks are fed
// incrementally and a single Finalize call completes the parse. A
// second Finalize (or any Feed after one) returns StateExhausted,
// delegated to the dom.Tree's own exhausted flag so driver and tree
// agree on lifecycle state.
type Driver struct {
	tree          *dom.Tree
	sink          *Sink
	builder       interface{ feed(string) }
	pending       strings.Builder
	profile       bool
	parseDuration time.Duration
}

// NewHTMLDriver starts a streaming HTML5 parse into a fresh tree.
func NewHTMLDriver(opts ...HTMLOption) (*Driver, error) {
	o, err := NewHTMLOptions(opts...)
	if err != nil {
		return nil, err
	}
	tree, root := dom.NewTree()
	sink := NewSink(tree, root)
	return &Driver{tree: tree, sink: sink, builder: newHTMLBuilder(sink, o), profile: o.Profile}, nil
}

// NewXMLDriver starts a streaming XML5 parse into a fresh tree.
func NewXMLDriver(opts ...XMLOption) (*Driver, error) {
	o, err := NewXMLOptions(opts...)
	if err != nil {
		return nil, err
	}
	tree, root := dom.NewTree()
	sink := NewSink(tree, root)
	return &Driver{tree: tree, sink: sink, builder: newXMLBuilder(sink, o), profile: o.Profile}, nil
}

// Feed appends a chunk of input. Chunks are buffered and run through
// the builder as a whole at Finalize time: neither x/net/html's
// Tokenizer nor encoding/xml.Decoder can resume mid-token across
// separate Reader instances, so true incremental tokenization is not
// attempted here — only the single-finalize lifecycle contract is.
func (d *Driver) Feed(chunk string) error {
	if d.tree.Exhausted() {
		return StateExhausted{}
	}
	d.pending.WriteString(chunk)
	return nil
}

// Finalize runs construction over all fed input and returns the
// resulting tree. A second call returns StateExhausted.
func (d *Driver) Finalize() (*dom.Tree, dom.NodeId, error) {
	if d.tree.Exhausted() {
		return nil, 0, StateExhausted{}
	}
	if d.profile {
		start := time.Now()
		d.builder.feed(d.pending.String())
		d.parseDuration = time.Since(start)
	} else {
		d.builder.feed(d.pending.String())
	}
	d.tree.MarkExhausted()
	return d.tree, d.sink.GetDocument(), nil
}

// ParseDuration reports the wall-clock time spent constructing the tree
// during the last Finalize call, per spec §6's "profile" option. It is
// only populated when the profile option was enabled; zero otherwise.
func (d *Driver) ParseDuration() time.Duration { return d.parseDuration }

// ParseHTML is a non-streaming convenience wrapper: feed the whole
// input and finalize in one call.
func ParseHTML(input string, opts ...HTMLOption) (*dom.Tree, dom.NodeId, error) {
	d, err := NewHTMLDriver(opts...)
	if err != nil {
		return nil, 0, err
	}
	if err := d.Feed(input); err != nil {
		return nil, 0, err
	}
	return d.Finalize()
}

// ParseXML is a non-streaming convenience wrapper: feed the whole input
// and finalize in one call.
func ParseXML(input string, opts ...XMLOption) (*dom.Tree, dom.NodeId, error) {
	d, err := NewXMLDriver(opts...)
	if err != nil {
		return nil, 0, err
	}
	if err := d.Feed(input); err != nil {
		return nil, 0, err
	}
	return d.Finalize()
}
