package treesink

import (
	"fmt"
	"io"
	"strings"

	xhtml "golang.org/x/net/html"
	xatom "golang.org/x/net/html/atom"

	"github.com/arturoeanton/go-markup/atom"
	"github.com/arturoeanton/go-markup/dom"
)

// htmlBuilder drives the HTML5 tree-construction algorithm on top of a
// Sink, consuming tokens from golang.org/x/net/html's Tokenizer — the
// byte-level black box spec §1 puts out of scope. It keeps a simplified
// open-elements stack rather than the full insertion-mode state machine
// of the HTML5 standard: void elements are classified via
// golang.org/x/net/html/atom (the same package the pack's parser
// depends on), and every node is appended to the top of the stack.
// Table foster-parenting is not performed (this builder never calls the
// Sink's AppendBasedOnParentNode), and other insertion-mode transitions
// (e.g. "in head noscript", AAA reconstruction) are not reproduced. This matches the spec's component boundary: correctness
// of the construction algorithm's happy path and documented edge cases,
// not byte-for-byte parity with every HTML5 insertion mode.
type htmlBuilder struct {
	sink  *Sink
	opts  HTMLOptions
	stack []dom.NodeId
}

func newHTMLBuilder(sink *Sink, opts HTMLOptions) *htmlBuilder {
	root := sink.GetDocument()
	return &htmlBuilder{sink: sink, opts: opts, stack: []dom.NodeId{root}}
}

func (b *htmlBuilder) top() dom.NodeId { return b.stack[len(b.stack)-1] }

func (b *htmlBuilder) push(id dom.NodeId) { b.stack = append(b.stack, id) }

// popTo pops the stack until an element named local is found and
// removed, or the stack would be emptied below the document.
func (b *htmlBuilder) popTo(local string) {
	for i := len(b.stack) - 1; i > 0; i-- {
		v := b.sink.tree.Get(b.stack[i])
		if v.Kind == dom.KindElement && v.Element.Name.Local.String() == local {
			b.stack = b.stack[:i]
			return
		}
	}
}

// feed runs the construction algorithm over a full HTML document or
// fragment string, per spec §4.E's single-shot streaming contract
// collapsed to one call (the Driver type exposes the chunked form).
func (b *htmlBuilder) feed(data string) {
	if b.opts.DiscardBOM {
		data = strings.TrimPrefix(data, string(rune(0xFEFF)))
	}
	// Quirks mode for input without a DOCTYPE; handleDoctype replaces it
	// when a DOCTYPE is seen.
	b.sink.SetQuirksMode(quirksModeFor("", "", "", b.opts))
	z := xhtml.NewTokenizer(strings.NewReader(data))
	for {
		tt := z.Next()
		switch tt {
		case xhtml.ErrorToken:
			if err := z.Err(); err != nil && err != io.EOF {
				if b.opts.ExactErrors {
					b.sink.ParseError(fmt.Sprintf("tokenizer error at byte offset %d: %v", z.InputOffset(), err))
				} else {
					b.sink.ParseError("malformed HTML input")
				}
			}
			return
		case xhtml.DoctypeToken:
			b.handleDoctype(z.Token())
		case xhtml.TextToken:
			b.handleText(z.Token())
		case xhtml.CommentToken:
			b.handleComment(z.Token())
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			b.handleStartTag(z.Token(), tt == xhtml.SelfClosingTagToken)
		case xhtml.EndTagToken:
			b.handleEndTag(z.Token())
		}
	}
}

func (b *htmlBuilder) handleDoctype(tok xhtml.Token) {
	if b.opts.DropDoctype {
		return
	}
	if !b.opts.FullDocument {
		b.sink.ParseError("doctype encountered while parsing a body-scoped fragment (full_document=false)")
		return
	}
	name := tok.Data
	var publicID, systemID string
	for _, a := range tok.Attr {
		switch a.Key {
		case "public":
			publicID = a.Val
		case "system":
			systemID = a.Val
		}
	}
	b.sink.AppendDoctypeToDocument(name, publicID, systemID)
	b.sink.SetQuirksMode(quirksModeFor(name, publicID, systemID, b.opts))
}

// quirksModeFor implements a conservative approximation of the HTML5
// "quirks mode" detection algorithm: a missing or non-canonical DOCTYPE
// triggers quirks mode, an HTML4 DOCTYPE with a legacy public ID
// triggers limited quirks, anything else is no-quirks. An explicit
// QuirksModeRequest option overrides detection entirely, and an
// iframe srcdoc payload always forces no-quirks per the HTML5 standard
// ("iframe srcdoc documents" always use no-quirks mode regardless of
// any DOCTYPE their content happens to carry).
func quirksModeFor(name, publicID, systemID string, opts HTMLOptions) dom.QuirksMode {
	switch opts.QuirksMode {
	case QuirksModeFull:
		return dom.Quirks
	case QuirksModeLimited:
		return dom.LimitedQuirks
	}
	if opts.IframeSrcdoc {
		return dom.NoQuirks
	}
	if !strings.EqualFold(name, "html") {
		return dom.Quirks
	}
	if publicID == "" && systemID == "" {
		return dom.NoQuirks
	}
	lower := strings.ToLower(publicID)
	if strings.HasPrefix(lower, "-//w3c//dtd html 4.01 transitional//") ||
		strings.HasPrefix(lower, "-//w3c//dtd xhtml 1.0 transitional//") {
		return dom.LimitedQuirks
	}
	return dom.NoQuirks
}

func (b *htmlBuilder) handleText(tok xhtml.Token) {
	if tok.Data == "" {
		return
	}
	b.sink.AppendText(b.top(), tok.Data)
}

func (b *htmlBuilder) handleComment(tok xhtml.Token) {
	id := b.sink.CreateComment(tok.Data)
	b.sink.Append(b.top(), id)
}

func (b *htmlBuilder) handleStartTag(tok xhtml.Token, selfClosing bool) {
	attrs := make([]dom.Attribute, 0, len(tok.Attr))
	for _, a := range tok.Attr {
		attrs = append(attrs, dom.Attribute{
			Name:  atom.NewQName("", a.Namespace, a.Key),
			Value: atom.NewTendril(a.Val),
		})
	}
	name := atom.NewQName("", atom.NamespaceHTML.String(), tok.Data)
	isTemplate := tok.Data == "template"
	id := b.sink.CreateElement(name, attrs, isTemplate, false)
	b.sink.Append(b.top(), id)

	if selfClosing || isVoidElement(tok.Data) {
		return
	}
	b.push(id)
}

func (b *htmlBuilder) handleEndTag(tok xhtml.Token) {
	b.popTo(tok.Data)
}

// isVoidElement reports whether a tag name never has an end tag or
// content, per the HTML5 list of void elements. Classification uses
// golang.org/x/net/html/atom to recognize the well-known tag, falling
// back to "not void" for anything it does not know.
func isVoidElement(tagName string) bool {
	switch xatom.Lookup([]byte(tagName)) {
	case xatom.Area, xatom.Base, xatom.Br, xatom.Col, xatom.Embed, xatom.Hr,
		xatom.Img, xatom.Input, xatom.Link, xatom.Meta, xatom.Param,
		xatom.Source, xatom.Track, xatom.Wbr:
		return true
	default:
		return false
	}
}
