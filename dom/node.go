package dom

import "github.com/arturoeanton/go-markup/atom"

// Kind discriminates the tagged variant a Node carries, per spec §3
// "Node interface (tagged variant)".
type Kind uint8

const (
	KindDocument Kind = iota
	KindDoctype
	KindComment
	KindText
	KindElement
	KindProcessingInstruction
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindDoctype:
		return "Doctype"
	case KindComment:
		return "Comment"
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindProcessingInstruction:
		return "ProcessingInstruction"
	default:
		return "Unknown"
	}
}

// DoctypeData holds the payload of a Doctype node.
type DoctypeData struct {
	Name     string
	PublicID string
	SystemID string
}

// ElementData holds the payload of an Element node: its qualified name,
// its attribute sequence, and the two boolean flags spec §3 lists
// ("template flag", "mathml-AXIP flag").
type ElementData struct {
	Name  atom.QName
	Attrs *Attrs

	// Template marks this Element as an HTML <template> element; per
	// spec §4.D get_template_contents, its "template contents" are its
	// own children, so this flag only changes how a tree-sink reports
	// the content root, not the tree shape.
	Template bool

	// MathMLAnnotationXMLIntegrationPoint marks a MathML <annotation-xml>
	// element whose encoding permits HTML content, per §4.D
	// is_mathml_annotation_xml_integration_point.
	MathMLAnnotationXMLIntegrationPoint bool
}

// ProcessingInstructionData holds the payload of a ProcessingInstruction
// node.
type ProcessingInstructionData struct {
	Target string
	Data   string
}

// Value is the payload carried by a node, keyed by Kind. Exactly one of
// the pointer/Tendril fields is meaningful for a given Kind, matching
// the "exactly one of" wording of spec §3; Go has no closed sum type, so
// this struct plays that role with the Kind field acting as the
// discriminant client code must check before reading a payload field.
type Value struct {
	Kind Kind

	Doctype *DoctypeData
	Comment atom.Tendril
	Text    atom.Tendril
	Element *ElementData
	PI      *ProcessingInstructionData
}

// NewDocumentValue returns the payload for a Document node.
func NewDocumentValue() Value { return Value{Kind: KindDocument} }

// NewDoctypeValue returns the payload for a Doctype node.
func NewDoctypeValue(name, publicID, systemID string) Value {
	return Value{Kind: KindDoctype, Doctype: &DoctypeData{Name: name, PublicID: publicID, SystemID: systemID}}
}

// NewCommentValue returns the payload for a Comment node.
func NewCommentValue(contents string) Value {
	return Value{Kind: KindComment, Comment: atom.NewTendril(contents)}
}

// NewTextValue returns the payload for a Text node.
func NewTextValue(contents string) Value {
	return Value{Kind: KindText, Text: atom.NewTendril(contents)}
}

// NewElementValue returns the payload for an Element node. attrs are
// deduplicated and sorted by NewAttrs as part of construction, per spec
// §3's "duplicates... MUST be deduplicated (keeping first)".
func NewElementValue(name atom.QName, attrs []Attribute, template, mathmlAXIP bool) Value {
	return Value{Kind: KindElement, Element: &ElementData{
		Name:                                name,
		Attrs:                               NewAttrs(attrs),
		Template:                            template,
		MathMLAnnotationXMLIntegrationPoint: mathmlAXIP,
	}}
}

// NewPIValue returns the payload for a ProcessingInstruction node.
func NewPIValue(target, data string) Value {
	return Value{Kind: KindProcessingInstruction, PI: &ProcessingInstructionData{Target: target, Data: data}}
}

// Equal implements node equality per spec §4.B: same variant AND same
// payload, where Element equality requires identical name, flags, and
// multiset of attribute pairs.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindDocument:
		return true
	case KindDoctype:
		return *v.Doctype == *o.Doctype
	case KindComment:
		return v.Comment.String() == o.Comment.String()
	case KindText:
		return v.Text.String() == o.Text.String()
	case KindElement:
		e, f := v.Element, o.Element
		return e.Name.Equal(f.Name) && e.Template == f.Template &&
			e.MathMLAnnotationXMLIntegrationPoint == f.MathMLAnnotationXMLIntegrationPoint &&
			e.Attrs.Equal(f.Attrs)
	case KindProcessingInstruction:
		return *v.PI == *o.PI
	default:
		return false
	}
}

// Hash is defined for all variants except Element; hashing an Element
// panics per spec §4.B, since a total hash would require traversing the
// attribute multiset and callers are expected to use structural
// traversal for Element comparisons instead.
func (v Value) Hash() uint64 {
	switch v.Kind {
	case KindDocument:
		return fnvString("Document")
	case KindDoctype:
		return fnvString("Doctype\x00" + v.Doctype.Name + "\x00" + v.Doctype.PublicID + "\x00" + v.Doctype.SystemID)
	case KindComment:
		return fnvString("Comment\x00" + v.Comment.String())
	case KindText:
		return fnvString("Text\x00" + v.Text.String())
	case KindProcessingInstruction:
		return fnvString("PI\x00" + v.PI.Target + "\x00" + v.PI.Data)
	case KindElement:
		panic("dom: hashing an Element node is undefined; compare structurally instead")
	default:
		panic("dom: hashing a node of unknown kind")
	}
}

func fnvString(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}
