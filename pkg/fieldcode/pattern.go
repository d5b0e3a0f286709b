package fieldcode

import (
	"github.com/benjaminschreck/go-fieldcode/pkg/fieldcode/xml"
)

// PatternKind identifies which grammar produced a FieldPattern
type PatternKind int

const (
	KindMergeField PatternKind = iota + 1
	KindIfField
	KindIncludePicture
)

func (k PatternKind) String() string {
	switch k {
	case KindMergeField:
		return "MERGEFIELD"
	case KindIfField:
		return "IF"
	case KindIncludePicture:
		return "INCLUDEPICTURE"
	default:
		return "UNKNOWN"
	}
}

// FieldPattern is a recognized field. The set of implementations is closed:
// MergeFieldPattern, IfFieldPattern and IncludePicturePattern.
type FieldPattern interface {
	Kind() PatternKind
	// FieldCode is the exact instruction text that matched the grammar
	FieldCode() string
	// Anchor is the node the field occupies: the w:fldSimple element for
	// simple fields, the run holding the begin w:fldChar for complex fields.
	Anchor() xml.NodeID
	// Accept calls the visitor method for the concrete pattern type
	Accept(v PatternVisitor)

	withAnchor(anchor xml.NodeID) FieldPattern
}

// PatternVisitor handles every pattern type. Implementing it is a compile-time
// check that a consumer covers all variants.
type PatternVisitor interface {
	VisitMergeField(p MergeFieldPattern)
	VisitIfField(p IfFieldPattern)
	VisitIncludePicture(p IncludePicturePattern)
}

// Field holds what every pattern shares
type Field struct {
	Code string
	Node xml.NodeID
}

func (f Field) FieldCode() string  { return f.Code }
func (f Field) Anchor() xml.NodeID { return f.Node }

// MergeFieldPattern is MERGEFIELD name, bound to the data key FieldName
type MergeFieldPattern struct {
	Field
	FieldName string
}

func (MergeFieldPattern) Kind() PatternKind         { return KindMergeField }
func (p MergeFieldPattern) Accept(v PatternVisitor) { v.VisitMergeField(p) }

func (p MergeFieldPattern) withAnchor(anchor xml.NodeID) FieldPattern {
	p.Node = anchor
	return p
}

// IfFieldPattern is IF condition "true text" "false text"
type IfFieldPattern struct {
	Field
	Condition string
	TrueText  string
	FalseText string
}

func (IfFieldPattern) Kind() PatternKind         { return KindIfField }
func (p IfFieldPattern) Accept(v PatternVisitor) { v.VisitIfField(p) }

func (p IfFieldPattern) withAnchor(anchor xml.NodeID) FieldPattern {
	p.Node = anchor
	return p
}

// IncludePicturePattern is INCLUDEPICTURE "MERGEFIELD name"; the picture is
// taken from the value bound to PathFieldName.
type IncludePicturePattern struct {
	Field
	PathFieldName string
}

func (IncludePicturePattern) Kind() PatternKind         { return KindIncludePicture }
func (p IncludePicturePattern) Accept(v PatternVisitor) { v.VisitIncludePicture(p) }

func (p IncludePicturePattern) withAnchor(anchor xml.NodeID) FieldPattern {
	p.Node = anchor
	return p
}

// DataKey returns the data key a pattern reads from the bound model
func DataKey(p FieldPattern) string {
	switch v := p.(type) {
	case MergeFieldPattern:
		return v.FieldName
	case IfFieldPattern:
		return v.Condition
	case IncludePicturePattern:
		return v.PathFieldName
	default:
		return ""
	}
}
