package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/benjaminschreck/go-fieldcode/pkg/fieldcode"
	"github.com/benjaminschreck/go-fieldcode/pkg/fieldcode/xml"
)

type fileReport struct {
	File  string       `json:"file" yaml:"file"`
	Parts []partReport `json:"parts" yaml:"parts"`
}

type partReport struct {
	Part   string        `json:"part" yaml:"part"`
	Fields []fieldReport `json:"fields" yaml:"fields"`
}

type fieldReport struct {
	Kind       string `json:"kind" yaml:"kind"`
	Code       string `json:"code" yaml:"code"`
	Anchor     string `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	AnchorKind string `json:"anchor_kind,omitempty" yaml:"anchor_kind,omitempty"`

	FieldName     string  `json:"field_name,omitempty" yaml:"field_name,omitempty"`
	Condition     string  `json:"condition,omitempty" yaml:"condition,omitempty"`
	TrueText      *string `json:"true_text,omitempty" yaml:"true_text,omitempty"`
	FalseText     *string `json:"false_text,omitempty" yaml:"false_text,omitempty"`
	PathFieldName string  `json:"path_field_name,omitempty" yaml:"path_field_name,omitempty"`
}

type extentReport struct {
	Cx            int64   `json:"cx" yaml:"cx"`
	Cy            int64   `json:"cy" yaml:"cy"`
	Rotation      float64 `json:"rotation" yaml:"rotation"`
	RotationUnits int64   `json:"rotation_units" yaml:"rotation_units"`
}

// fieldReporter fills a fieldReport with the attributes of each pattern type
type fieldReporter struct {
	report *fieldReport
}

func (r fieldReporter) VisitMergeField(p fieldcode.MergeFieldPattern) {
	r.report.FieldName = p.FieldName
}

func (r fieldReporter) VisitIfField(p fieldcode.IfFieldPattern) {
	r.report.Condition = p.Condition
	r.report.TrueText = &p.TrueText
	r.report.FalseText = &p.FalseText
}

func (r fieldReporter) VisitIncludePicture(p fieldcode.IncludePicturePattern) {
	r.report.PathFieldName = p.PathFieldName
}

// newFieldReport describes a pattern. tree may be nil for unanchored patterns.
func newFieldReport(p fieldcode.FieldPattern, tree *xml.Tree) fieldReport {
	report := fieldReport{
		Kind: p.Kind().String(),
		Code: p.FieldCode(),
	}
	if tree != nil && tree.Valid(p.Anchor()) {
		report.Anchor = p.Anchor().String()
		report.AnchorKind = tree.Kind(p.Anchor()).String()
	}
	p.Accept(fieldReporter{report: &report})
	return report
}

func newFileReport(file string, parts []fieldcode.PartPatterns) *fileReport {
	report := &fileReport{File: file, Parts: make([]partReport, 0, len(parts))}
	for _, part := range parts {
		pr := partReport{Part: part.Part, Fields: make([]fieldReport, 0, len(part.Patterns))}
		for _, p := range part.Patterns {
			pr.Fields = append(pr.Fields, newFieldReport(p, part.Tree))
		}
		report.Parts = append(report.Parts, pr)
	}
	return report
}

func newExtentReport(e fieldcode.Extent) extentReport {
	return extentReport{
		Cx:            e.Cx,
		Cy:            e.Cy,
		Rotation:      float64(e.Rotation),
		RotationUnits: e.Rotation.Units(),
	}
}

func checkFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

// writeOutput writes v as JSON or YAML, or the text rendering
func writeOutput(w io.Writer, format string, v interface{}, text func() string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, text())
		return err
	}
}

func formatFileReports(reports []fileReport) string {
	var sb strings.Builder
	for _, report := range reports {
		sb.WriteString(report.File + "\n")
		for _, part := range report.Parts {
			fmt.Fprintf(&sb, "  %s (%d fields)\n", part.Part, len(part.Fields))
			for _, field := range part.Fields {
				sb.WriteString("    " + formatFieldReport(field))
			}
		}
	}
	return sb.String()
}

func formatFieldReport(f fieldReport) string {
	var details string
	switch {
	case f.FieldName != "":
		details = "name=" + f.FieldName
	case f.Condition != "":
		details = fmt.Sprintf("condition=%s true=%q false=%q", f.Condition, deref(f.TrueText), deref(f.FalseText))
	case f.PathFieldName != "":
		details = "path=" + f.PathFieldName
	}

	line := fmt.Sprintf("%-15s %s", f.Kind, details)
	if f.Anchor != "" {
		line += fmt.Sprintf(" at %s %s", f.AnchorKind, f.Anchor)
	}
	return line + "\n"
}

func formatExtentReport(r extentReport) string {
	return fmt.Sprintf("cx=%d cy=%d rotation=%g (%d)\n", r.Cx, r.Cy, r.Rotation, r.RotationUnits)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
