package xml

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// namespaceToPrefix converts a namespace URI to its conventional prefix
func namespaceToPrefix(uri string) string {
	prefixMap := map[string]string{
		// Core Word namespaces
		"http://schemas.openxmlformats.org/wordprocessingml/2006/main":        "w",
		"http://schemas.openxmlformats.org/officeDocument/2006/relationships": "r",
		"http://schemas.openxmlformats.org/officeDocument/2006/math":          "m",
		"http://www.w3.org/XML/1998/namespace":                                "xml",
		// Drawing namespaces
		"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
		"http://schemas.openxmlformats.org/drawingml/2006/main":                  "a",
		"http://schemas.openxmlformats.org/drawingml/2006/picture":               "pic",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing":    "wp14",
		// VML namespaces
		"urn:schemas-microsoft-com:vml":          "v",
		"urn:schemas-microsoft-com:office:office": "o",
		"urn:schemas-microsoft-com:office:word":  "w10",
		// Markup compatibility namespace
		"http://schemas.openxmlformats.org/markup-compatibility/2006": "mc",
		// Word processing shapes
		"http://schemas.microsoft.com/office/word/2010/wordprocessingShape": "wps",
		// Extended Word namespaces
		"http://schemas.microsoft.com/office/word/2010/wordml": "w14",
		"http://schemas.microsoft.com/office/word/2012/wordml": "w15",
	}

	if prefix, ok := prefixMap[uri]; ok {
		return prefix
	}
	return ""
}

// Parse decodes a WordprocessingML part (document, header, footer, ...) into a Tree
func Parse(r io.Reader) (*Tree, error) {
	decoder := xml.NewDecoder(r)
	tree := NewTree()
	var stack []int32

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			attrs := append([]xml.Attr(nil), t.Attr...)
			idx := tree.alloc(kindForLocal(t.Name.Local), t.Name, attrs)
			if len(stack) == 0 {
				if tree.root != none {
					return nil, errors.New("failed to parse document: multiple root elements")
				}
				tree.root = idx
			} else if err := tree.AppendChild(tree.id(stack[len(stack)-1]), tree.id(idx)); err != nil {
				return nil, fmt.Errorf("failed to parse document: %w", err)
			}
			stack = append(stack, idx)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := &tree.nodes[stack[len(stack)-1]]
			// Whitespace between elements carries no content, except inside text-bearing elements
			if keepsWhitespace(top.kind) || strings.TrimSpace(string(t)) != "" {
				top.text += string(t)
			}
		}
	}

	if tree.root == none {
		return nil, errors.New("failed to parse document: no root element")
	}
	return tree, nil
}

func keepsWhitespace(k Kind) bool {
	return k == KindText || k == KindInstrText
}

// Encode writes the tree as an XML document
func (t *Tree) Encode(w io.Writer) error {
	if t.root == none {
		return errors.New("encode: tree has no root")
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(xml.Header)

	prefixes := make(map[string]string)
	for _, a := range t.nodes[t.root].attrs {
		switch {
		case a.Name.Space == "xmlns":
			prefixes[a.Value] = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			prefixes[a.Value] = ""
		}
	}
	if err := t.encodeNode(bw, t.root, prefixes); err != nil {
		return err
	}
	return bw.Flush()
}

func (t *Tree) encodeNode(w *bufio.Writer, idx int32, prefixes map[string]string) error {
	n := &t.nodes[idx]
	name := qualify(n.name, prefixes)

	w.WriteString("<")
	w.WriteString(name)
	for _, a := range n.attrs {
		w.WriteString(" ")
		w.WriteString(qualifyAttr(a.Name, prefixes))
		w.WriteString(`="`)
		if err := xml.EscapeText(w, []byte(a.Value)); err != nil {
			return err
		}
		w.WriteString(`"`)
	}
	if n.text == "" && n.first == none {
		w.WriteString("/>")
		return nil
	}
	w.WriteString(">")
	if n.text != "" {
		if err := xml.EscapeText(w, []byte(n.text)); err != nil {
			return err
		}
	}
	for c := n.first; c != none; c = t.nodes[c].next {
		if err := t.encodeNode(w, c, prefixes); err != nil {
			return err
		}
	}
	w.WriteString("</")
	w.WriteString(name)
	_, err := w.WriteString(">")
	return err
}

func prefixFor(space string, prefixes map[string]string) string {
	if p, ok := prefixes[space]; ok {
		return p
	}
	if p := namespaceToPrefix(space); p != "" {
		return p
	}
	// The decoder leaves undeclared prefixes untranslated
	if !strings.Contains(space, ":") {
		return space
	}
	return ""
}

func qualify(name xml.Name, prefixes map[string]string) string {
	if name.Space == "" {
		return name.Local
	}
	if p := prefixFor(name.Space, prefixes); p != "" {
		return p + ":" + name.Local
	}
	return name.Local
}

func qualifyAttr(name xml.Name, prefixes map[string]string) string {
	if name.Space == "xmlns" {
		return "xmlns:" + name.Local
	}
	return qualify(name, prefixes)
}
