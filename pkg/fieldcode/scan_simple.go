package fieldcode

import (
	"github.com/benjaminschreck/go-fieldcode/pkg/fieldcode/xml"
)

// ScanSimple recognizes every w:fldSimple under root. Each pattern is anchored
// to its w:fldSimple element. Fields with unsupported instructions are skipped.
func (p *Parser) ScanSimple(doc Document, root xml.NodeID) ([]FieldPattern, error) {
	var patterns []FieldPattern

	for _, field := range doc.Descendants(root, xml.KindSimpleField) {
		instruction, _ := doc.Attr(field, "instr")

		pattern, err := p.classifier.classifyAt(instruction, field)
		if err != nil {
			return nil, WithContext(err, "scan simple field", map[string]interface{}{"node": field})
		}
		if pattern == nil {
			p.logger.Debug("Skipping unsupported simple field %q", instruction)
			continue
		}
		patterns = append(patterns, pattern)
	}

	return patterns, nil
}
