// Package xml provides the in-memory WordprocessingML tree scanned by go-fieldcode.
//
// A DOCX part such as word/document.xml is parsed into a Tree: a flat table of
// nodes linked by parent, child and sibling indices. Nodes are addressed by
// NodeID handles instead of pointers, so a handle held by a recognized field
// pattern stays a comparable value for the whole processing pass and can be
// checked for staleness with Tree.Valid once the tree has been edited.
//
// # Structure Organization
//
//   - types.go: Kind, FieldCharType and the NodeID handle
//   - tree.go: the node table, navigation and editing operations
//   - document.go: Parse (decoding) and Encode (re-serialization)
//
// # Key Concepts
//
// Kind: the structural role of a node. Only the elements that matter for field
// recognition get a dedicated kind (paragraphs, runs, text, field characters,
// instruction text, simple fields, tables); everything else is KindElement and
// is still walked, so fields inside content controls or smart tags are found.
//
// NodeID: a generation-checked handle. Removing a node bumps the generation of
// every slot in its subtree, so outstanding handles report Valid() == false
// instead of silently pointing at reused storage.
//
// # Usage
//
//	tree, err := xml.Parse(strings.NewReader(documentXML))
//	if err != nil {
//	    return err
//	}
//	for _, id := range tree.Descendants(tree.Root(), xml.KindSimpleField) {
//	    instr, _ := tree.Attr(id, "instr")
//	    fmt.Println(instr)
//	}
package xml
