package fieldcode

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
)

// MainDocumentPart is the part holding the document body
const MainDocumentPart = "word/document.xml"

// Relationship types of the parts that can carry fields, by their last path segment
var fieldPartRelationships = map[string]bool{
	"header":    true,
	"footer":    true,
	"footnotes": true,
	"endnotes":  true,
}

// DocxReader reads the parts of a DOCX package
type DocxReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// Relationship represents a relationship in the DOCX package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships represents the collection of relationships
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Relationship []Relationship `xml:"Relationship"`
}

// NewDocxReader creates a new DOCX reader
func NewDocxReader(r io.ReaderAt, size int64) (*DocxReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	dr := &DocxReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}
	for _, file := range zipReader.File {
		dr.Parts[file.Name] = file
	}

	if _, ok := dr.Parts[MainDocumentPart]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", MainDocumentPart)
	}

	return dr, nil
}

// OpenDocx creates a DocxReader from a file path
func OpenDocx(filename string) (*DocxReader, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, NewDocumentError("open", filename, err)
	}

	dr, err := NewDocxReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, NewDocumentError("open", filename, err)
	}
	return dr, nil
}

// GetPart retrieves the content of a specific part
func (dr *DocxReader) GetPart(partName string) ([]byte, error) {
	file, ok := dr.Parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s not found", partName)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partName, err)
	}

	return content, nil
}

// GetRelationships retrieves relationships for a given part.
// A part without a relationships file has none.
func (dr *DocxReader) GetRelationships(partName string) ([]Relationship, error) {
	dir, base := path.Split(partName)
	relPath := dir + "_rels/" + base + ".rels"

	if _, ok := dr.Parts[relPath]; !ok {
		return nil, nil
	}
	content, err := dr.GetPart(relPath)
	if err != nil {
		return nil, err
	}

	var rels Relationships
	if err := xml.Unmarshal(content, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}

	return rels.Relationship, nil
}

// ListParts returns the names of all parts in the package, sorted
func (dr *DocxReader) ListParts() []string {
	parts := make([]string, 0, len(dr.Parts))
	for name := range dr.Parts {
		parts = append(parts, name)
	}
	sort.Strings(parts)
	return parts
}

// FieldParts returns the parts that can carry fields: the main document and
// the headers, footers, footnotes and endnotes it references. When the main
// document has no relationships, parts are found by their conventional names.
func (dr *DocxReader) FieldParts() ([]string, error) {
	rels, err := dr.GetRelationships(MainDocumentPart)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{MainDocumentPart: true}
	parts := []string{MainDocumentPart}
	add := func(name string) {
		if _, ok := dr.Parts[name]; ok && !seen[name] {
			seen[name] = true
			parts = append(parts, name)
		}
	}

	if len(rels) > 0 {
		for _, rel := range rels {
			if rel.TargetMode == "External" || !fieldPartRelationships[path.Base(rel.Type)] {
				continue
			}
			add(resolveTarget(MainDocumentPart, rel.Target))
		}
	} else {
		for _, name := range dr.ListParts() {
			if isConventionalFieldPart(name) {
				add(name)
			}
		}
	}

	sort.Strings(parts)
	return parts, nil
}

// resolveTarget resolves a relationship target against the part that owns it
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(path.Dir(source), target)
}

func isConventionalFieldPart(name string) bool {
	dir, base := path.Split(name)
	if dir != "word/" || !strings.HasSuffix(base, ".xml") {
		return false
	}
	for _, prefix := range []string{"header", "footer", "footnotes", "endnotes"} {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}
