package xml

import (
	"errors"
	"fmt"
)

// ErrInvalidNode is returned when an operation receives a NodeID that does not
// refer to a live node of the tree.
var ErrInvalidNode = errors.New("invalid node")

// Kind identifies the structural role of a node
type Kind uint8

const (
	KindElement Kind = iota
	KindDocument
	KindBody
	KindParagraph
	KindRun
	KindText
	KindInstrText
	KindFieldChar
	KindSimpleField
	KindHyperlink
	KindTable
	KindTableRow
	KindTableCell
)

var kindNames = map[Kind]string{
	KindElement:     "element",
	KindDocument:    "document",
	KindBody:        "body",
	KindParagraph:   "paragraph",
	KindRun:         "run",
	KindText:        "text",
	KindInstrText:   "instrText",
	KindFieldChar:   "fldChar",
	KindSimpleField: "fldSimple",
	KindHyperlink:   "hyperlink",
	KindTable:       "table",
	KindTableRow:    "tableRow",
	KindTableCell:   "tableCell",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// kindForLocal maps a WordprocessingML local element name to its Kind
func kindForLocal(local string) Kind {
	switch local {
	case "document", "hdr", "ftr", "footnotes", "endnotes":
		return KindDocument
	case "body":
		return KindBody
	case "p":
		return KindParagraph
	case "r":
		return KindRun
	case "t":
		return KindText
	case "instrText":
		return KindInstrText
	case "fldChar":
		return KindFieldChar
	case "fldSimple":
		return KindSimpleField
	case "hyperlink":
		return KindHyperlink
	case "tbl":
		return KindTable
	case "tr":
		return KindTableRow
	case "tc":
		return KindTableCell
	default:
		return KindElement
	}
}

// FieldCharType is the w:fldCharType of a field character
type FieldCharType uint8

const (
	FieldCharUnknown FieldCharType = iota
	FieldCharBegin
	FieldCharSeparate
	FieldCharEnd
)

func (t FieldCharType) String() string {
	switch t {
	case FieldCharBegin:
		return "begin"
	case FieldCharSeparate:
		return "separate"
	case FieldCharEnd:
		return "end"
	default:
		return "unknown"
	}
}

func parseFieldCharType(s string) FieldCharType {
	switch s {
	case "begin":
		return FieldCharBegin
	case "separate":
		return FieldCharSeparate
	case "end":
		return FieldCharEnd
	default:
		return FieldCharUnknown
	}
}

// NodeID is a handle to a node in a Tree. The low 32 bits hold the slot index
// plus one, the high 32 bits the slot generation. The zero value is NoNode.
type NodeID uint64

// NoNode is the handle that never refers to a node
const NoNode NodeID = 0

func makeNodeID(index int32, gen uint32) NodeID {
	return NodeID(uint64(gen)<<32 | uint64(uint32(index)+1))
}

func (id NodeID) index() int32 {
	return int32(uint32(id)) - 1
}

func (id NodeID) generation() uint32 {
	return uint32(id >> 32)
}

func (id NodeID) String() string {
	if id == NoNode {
		return "node(none)"
	}
	return fmt.Sprintf("node(%d@%d)", id.index(), id.generation())
}
