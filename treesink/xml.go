package treesink

import (
	gxml "encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/arturoeanton/go-markup/atom"
	"github.com/arturoeanton/go-markup/dom"
)

// xmlBuilder drives an XML5-flavored tree-construction algorithm over
// encoding/xml.Decoder.Token(), mirroring the teacher's own use of
// *xml.Decoder in its streaming Stream[T] type (xml/streaming_decoder.go),
// generalized here from "decode into a typed struct" to "build a
// dom.Tree node for every token".
type xmlBuilder struct {
	sink  *Sink
	opts  XMLOptions
	stack []dom.NodeId
}

func newXMLBuilder(sink *Sink, opts XMLOptions) *xmlBuilder {
	root := sink.GetDocument()
	return &xmlBuilder{sink: sink, opts: opts, stack: []dom.NodeId{root}}
}

func (b *xmlBuilder) top() dom.NodeId { return b.stack[len(b.stack)-1] }

func (b *xmlBuilder) feed(data string) {
	if b.opts.DiscardBOM {
		data = strings.TrimPrefix(data, string(rune(0xFEFF)))
	}
	dec := gxml.NewDecoder(strings.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			if err != io.EOF {
				if b.opts.ExactErrors {
					b.sink.ParseError(fmt.Sprintf("decoder error at byte offset %d: %v", dec.InputOffset(), err))
				} else {
					b.sink.ParseError("malformed XML input")
				}
			}
			return
		}
		switch t := tok.(type) {
		case gxml.ProcInst:
			if t.Target == "xml" {
				continue // XML declaration, not a sink-visible PI
			}
			id := b.sink.CreatePI(t.Target, string(t.Inst))
			b.sink.Append(b.top(), id)
		case gxml.Directive:
			b.handleDirective(string(t))
		case gxml.StartElement:
			b.handleStart(t)
		case gxml.EndElement:
			if len(b.stack) > 1 {
				b.stack = b.stack[:len(b.stack)-1]
			}
		case gxml.CharData:
			if len(t) == 0 {
				continue
			}
			b.sink.AppendText(b.top(), string(t))
		case gxml.Comment:
			id := b.sink.CreateComment(string(t))
			b.sink.Append(b.top(), id)
		}
	}
}

// handleDirective recognizes a leading "DOCTYPE" directive and appends
// it to the document; anything else is reported as a parse warning,
// matching the "treated as a black box" tokenizer boundary of spec §1.
func (b *xmlBuilder) handleDirective(raw string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(strings.ToUpper(raw), "DOCTYPE") {
		b.sink.ParseError("unrecognized directive: " + raw)
		return
	}
	fields := strings.Fields(raw)
	name := ""
	if len(fields) > 1 {
		name = fields[1]
	}
	b.sink.AppendDoctypeToDocument(name, "", "")
}

// encoding/xml resolves prefixes to full namespace URIs before handing
// us a token and does not preserve the original prefix text, so every
// QName built here carries an empty prefix; namespace identity still
// flows through correctly via the Namespace component.
func (b *xmlBuilder) handleStart(t gxml.StartElement) {
	name := atom.NewQName("", t.Name.Space, t.Name.Local)
	attrs := make([]dom.Attribute, 0, len(t.Attr))
	for _, a := range t.Attr {
		attrs = append(attrs, dom.Attribute{
			Name:  atom.NewQName("", a.Name.Space, a.Name.Local),
			Value: atom.NewTendril(a.Value),
		})
		if a.Name.Local == "xmlns" || a.Name.Space == "xmlns" {
			b.sink.tree.RecordNamespace(namespacePrefix(a.Name), a.Value)
		}
	}
	id := b.sink.CreateElement(name, attrs, false, false)
	b.sink.Append(b.top(), id)
	b.stack = append(b.stack, id)
}

// namespacePrefix recovers the declared prefix of an "xmlns" or
// "xmlns:prefix" attribute name.
func namespacePrefix(name gxml.Name) string {
	if name.Local == "xmlns" {
		return ""
	}
	return name.Local
}
