// Package treesink implements the streaming tree-construction protocol of
// spec §4.D (tree-sink adapter) and §4.E (streaming driver): it realizes
// the HTML5 and XML5 construction algorithms on top of package dom,
// driving golang.org/x/net/html's Tokenizer and encoding/xml's Decoder
// respectively as the byte-level tokenizers spec §1 explicitly treats as
// an external, out-of-scope collaborator ("the underlying byte-level
// HTML/XML tokenizer state machine... treated as a black box exposing
// the standard tree-builder callbacks").
//
// The functional-options configuration here follows the teacher's
// xml/xml.go pattern (a config struct plus `type Option func(*config)`),
// generalized to the two option records spec §6 specifies.
package treesink

import "fmt"

// QuirksModeRequest is the user-requested initial quirks mode for an
// HTML parse, per spec §6 "quirks_mode ∈ {Full=0, Limited=1, Off=2}".
type QuirksModeRequest uint8

const (
	QuirksModeFull QuirksModeRequest = iota
	QuirksModeLimited
	QuirksModeOff
)

// HTMLOptions holds the recognized HTML parser options of spec §6.
type HTMLOptions struct {
	FullDocument  bool
	ExactErrors   bool
	DiscardBOM    bool
	Profile       bool
	IframeSrcdoc  bool
	DropDoctype   bool
	QuirksMode    QuirksModeRequest
}

// DefaultHTMLOptions returns the spec §6 documented defaults:
// full_document=true, discard_bom=true, quirks_mode=Off.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{
		FullDocument: true,
		DiscardBOM:   true,
		QuirksMode:   QuirksModeOff,
	}
}

// HTMLOption mutates an HTMLOptions record.
type HTMLOption func(*HTMLOptions)

// WithFullDocument toggles between a full-document parse and a
// body-scoped fragment parse (spec §6 "full_document").
func WithFullDocument(full bool) HTMLOption {
	return func(o *HTMLOptions) { o.FullDocument = full }
}

// WithExactErrors toggles whether tokenizer errors report the exact byte
// offset and underlying error text, versus a generic "malformed input"
// diagnostic.
func WithExactErrors(exact bool) HTMLOption {
	return func(o *HTMLOptions) { o.ExactErrors = exact }
}

// WithDiscardBOM toggles stripping a leading UTF-8 BOM before tokenizing.
func WithDiscardBOM(discard bool) HTMLOption {
	return func(o *HTMLOptions) { o.DiscardBOM = discard }
}

// WithProfile enables the driver's wall-clock timing of the
// tree-construction pass, retrievable afterward via Driver.ParseDuration.
func WithProfile(profile bool) HTMLOption {
	return func(o *HTMLOptions) { o.Profile = profile }
}

// WithIframeSrcdoc marks the input as an <iframe srcdoc="..."> payload,
// which forces no-quirks mode regardless of any DOCTYPE present, per the
// HTML5 standard's treatment of srcdoc documents.
func WithIframeSrcdoc(srcdoc bool) HTMLOption {
	return func(o *HTMLOptions) { o.IframeSrcdoc = srcdoc }
}

// WithDropDoctype discards any DOCTYPE encountered instead of appending
// it to the document.
func WithDropDoctype(drop bool) HTMLOption {
	return func(o *HTMLOptions) { o.DropDoctype = drop }
}

// WithQuirksModeRequest forces the initial quirks mode, per spec §6.
func WithQuirksModeRequest(m QuirksModeRequest) HTMLOption {
	return func(o *HTMLOptions) { o.QuirksMode = m }
}

// NewHTMLOptions builds an HTMLOptions from DefaultHTMLOptions plus the
// given overrides, validating the result per spec §7 InvalidOption.
func NewHTMLOptions(opts ...HTMLOption) (HTMLOptions, error) {
	o := DefaultHTMLOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.QuirksMode > QuirksModeOff {
		return o, InvalidOption{Field: "quirks_mode", Detail: fmt.Sprintf("value %d outside 0..=2", o.QuirksMode)}
	}
	return o, nil
}

// XMLOptions holds the recognized XML parser options of spec §6.
type XMLOptions struct {
	ExactErrors bool
	DiscardBOM  bool
	Profile     bool
}

// DefaultXMLOptions returns the spec §6 documented defaults:
// discard_bom=true.
func DefaultXMLOptions() XMLOptions {
	return XMLOptions{DiscardBOM: true}
}

// XMLOption mutates an XMLOptions record.
type XMLOption func(*XMLOptions)

// WithXMLExactErrors toggles whether decoder errors report the exact
// byte offset and underlying error text, versus a generic "malformed
// input" diagnostic.
func WithXMLExactErrors(exact bool) XMLOption {
	return func(o *XMLOptions) { o.ExactErrors = exact }
}

// WithXMLDiscardBOM toggles stripping a leading UTF-8 BOM.
func WithXMLDiscardBOM(discard bool) XMLOption {
	return func(o *XMLOptions) { o.DiscardBOM = discard }
}

// WithXMLProfile enables the driver's wall-clock timing of the
// tree-construction pass, retrievable afterward via Driver.ParseDuration.
func WithXMLProfile(profile bool) XMLOption {
	return func(o *XMLOptions) { o.Profile = profile }
}

// NewXMLOptions builds an XMLOptions from DefaultXMLOptions plus the
// given overrides.
func NewXMLOptions(opts ...XMLOption) (XMLOptions, error) {
	o := DefaultXMLOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o, nil
}
