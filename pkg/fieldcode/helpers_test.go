package fieldcode

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/benjaminschreck/go-fieldcode/pkg/fieldcode/xml"
)

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentFooter = `</w:body></w:document>`

// document wraps paragraphs into a word/document.xml body
func document(paragraphs ...string) string {
	return documentHeader + strings.Join(paragraphs, "") + documentFooter
}

// part wraps paragraphs into a header or footer part
func part(root string, paragraphs ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:` + root + ` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		strings.Join(paragraphs, "") + `</w:` + root + `>`
}

func paragraph(children ...string) string {
	return "<w:p>" + strings.Join(children, "") + "</w:p>"
}

func textRun(text string) string {
	return `<w:r><w:t xml:space="preserve">` + escape(text) + `</w:t></w:r>`
}

func instrRun(texts ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:r>")
	for _, text := range texts {
		sb.WriteString(`<w:instrText xml:space="preserve">` + escape(text) + `</w:instrText>`)
	}
	sb.WriteString("</w:r>")
	return sb.String()
}

func fieldCharRun(typ string) string {
	return `<w:r><w:fldChar w:fldCharType="` + typ + `"/></w:r>`
}

func beginRun() string {
	return fieldCharRun("begin")
}

func separateRun() string {
	return fieldCharRun("separate")
}

func endRun() string {
	return fieldCharRun("end")
}

func simpleField(instruction, result string) string {
	return `<w:fldSimple w:instr="` + escape(instruction) + `">` + textRun(result) + `</w:fldSimple>`
}

// complexField lays a whole complex field out as sibling runs
func complexField(instruction, result string) []string {
	return []string{beginRun(), instrRun(instruction), separateRun(), textRun(result), endRun()}
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func parseTree(t *testing.T, content string) *xml.Tree {
	t.Helper()
	tree, err := xml.Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return tree
}

// beginHolders returns the runs holding a begin marker, in document order
func beginHolders(tree *xml.Tree) []xml.NodeID {
	var holders []xml.NodeID
	for _, marker := range tree.Descendants(tree.Root(), xml.KindFieldChar) {
		if tree.FieldCharType(marker) == xml.FieldCharBegin {
			holders = append(holders, tree.Parent(marker))
		}
	}
	return holders
}

func testParser(t *testing.T, config *Config) *Parser {
	t.Helper()
	if config == nil {
		config = DefaultConfig()
	}
	return NewParserWithConfig(config)
}

// createTestDocx packs parts into an in-memory DOCX
func createTestDocx(t *testing.T, parts map[string]string) *DocxReader {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create part %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write part %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}

	dr, err := NewDocxReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("failed to open test docx: %v", err)
	}
	return dr
}
