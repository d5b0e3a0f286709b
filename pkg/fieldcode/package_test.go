package fieldcode

import (
	"archive/zip"
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="/word/footer1.xml"/>
  <Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/footer" TargetMode="External"/>
  <Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`

func testPackage() map[string]string {
	return map[string]string{
		MainDocumentPart:               document(paragraph(simpleField("MERGEFIELD customer", ""))),
		"word/_rels/document.xml.rels": documentRels,
		"word/styles.xml":              `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
		"word/header1.xml":             part("hdr", paragraph(simpleField(`INCLUDEPICTURE "MERGEFIELD logo"`, ""))),
		"word/footer1.xml":             part("ftr", paragraph(complexField(`IF show_page "yes" "no"`, "yes")...)),
		"word/footer2.xml":             part("ftr", paragraph(simpleField("MERGEFIELD unreferenced", ""))),
		"word/media/image1.png":        "png",
	}
}

func TestFieldParts(t *testing.T) {
	dr := createTestDocx(t, testPackage())

	got, err := dr.FieldParts()
	if err != nil {
		t.Fatalf("FieldParts() error = %v", err)
	}

	want := []string{"word/document.xml", "word/footer1.xml", "word/header1.xml"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FieldParts() mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldPartsWithoutRelationships(t *testing.T) {
	dr := createTestDocx(t, map[string]string{
		MainDocumentPart:     document(),
		"word/header2.xml":   part("hdr"),
		"word/footnotes.xml": part("footnotes"),
		"word/styles.xml":    "<styles/>",
		"customXml/item.xml": "<item/>",
	})

	got, err := dr.FieldParts()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"word/document.xml", "word/footnotes.xml", "word/header2.xml"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FieldParts() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"header1.xml", "word/header1.xml"},
		{"/word/footer1.xml", "word/footer1.xml"},
		{"../customXml/item1.xml", "customXml/item1.xml"},
		{"media/image1.png", "word/media/image1.png"},
	}
	for _, tt := range tests {
		if got := resolveTarget(MainDocumentPart, tt.target); got != tt.want {
			t.Errorf("resolveTarget(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestScanPackage(t *testing.T) {
	dr := createTestDocx(t, testPackage())
	parser := testParser(t, nil)

	results, err := parser.ScanPackage(context.Background(), dr)
	if err != nil {
		t.Fatalf("ScanPackage() error = %v", err)
	}

	got := map[string][]string{}
	var order []string
	for _, r := range results {
		order = append(order, r.Part)
		for _, p := range r.Patterns {
			got[r.Part] = append(got[r.Part], p.Kind().String()+":"+DataKey(p))
			if !r.Tree.Valid(p.Anchor()) {
				t.Errorf("%s: anchor %v does not belong to the part tree", r.Part, p.Anchor())
			}
		}
	}

	wantOrder := []string{"word/document.xml", "word/footer1.xml", "word/header1.xml"}
	if diff := cmp.Diff(wantOrder, order); diff != "" {
		t.Errorf("part order mismatch (-want +got):\n%s", diff)
	}
	want := map[string][]string{
		"word/document.xml": {"MERGEFIELD:customer"},
		"word/footer1.xml":  {"IF:show_page"},
		"word/header1.xml":  {"INCLUDEPICTURE:logo"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestScanPackageCollectsPartErrors(t *testing.T) {
	parts := testPackage()
	parts["word/header1.xml"] = "<w:hdr><w:p>"
	dr := createTestDocx(t, parts)

	results, err := testParser(t, nil).ScanPackage(context.Background(), dr)
	if !IsDocumentError(err) {
		t.Fatalf("expected DocumentError, got %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d part results, want the 2 readable parts", len(results))
	}
}

func TestScanPartsCanceled(t *testing.T) {
	dr := createTestDocx(t, testPackage())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testParser(t, nil).ScanParts(ctx, dr, []string{MainDocumentPart})
	if err != context.Canceled {
		t.Errorf("ScanParts() error = %v, want context.Canceled", err)
	}
}

func TestScanPartsMissingPart(t *testing.T) {
	dr := createTestDocx(t, testPackage())

	results, err := testParser(t, nil).ScanParts(context.Background(), dr, []string{MainDocumentPart, "word/missing.xml"})
	if !IsDocumentError(err) {
		t.Fatalf("expected DocumentError, got %v", err)
	}
	if len(results) != 1 || results[0].Part != MainDocumentPart {
		t.Errorf("ScanParts() = %v", results)
	}
}

func TestNewDocxReaderRejectsNonDocx(t *testing.T) {
	if _, err := NewDocxReader(bytes.NewReader([]byte("not a zip")), 9); err == nil {
		t.Error("expected error for non-zip input")
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	if _, err := w.Create("word/styles.xml"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := NewDocxReader(bytes.NewReader(buf.Bytes()), int64(buf.Len())); err == nil {
		t.Error("expected error for a package without word/document.xml")
	}
}

func TestOpenDocxMissingFile(t *testing.T) {
	_, err := OpenDocx(filepath.Join(t.TempDir(), "missing.docx"))
	if !IsDocumentError(err) {
		t.Errorf("expected DocumentError, got %v", err)
	}
}

func TestGetRelationships(t *testing.T) {
	dr := createTestDocx(t, testPackage())

	rels, err := dr.GetRelationships(MainDocumentPart)
	if err != nil {
		t.Fatal(err)
	}
	if len(rels) != 5 {
		t.Fatalf("got %d relationships, want 5", len(rels))
	}
	if rels[3].TargetMode != "External" {
		t.Errorf("TargetMode = %q, want External", rels[3].TargetMode)
	}

	rels, err = dr.GetRelationships("word/header1.xml")
	if err != nil || rels != nil {
		t.Errorf("GetRelationships() for a part without rels = %v, %v", rels, err)
	}
}
