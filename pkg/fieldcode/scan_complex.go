package fieldcode

import (
	"strings"

	"github.com/benjaminschreck/go-fieldcode/pkg/fieldcode/xml"
)

// ScanComplex recognizes every complex field under root. A complex field
// starts at a Begin marker, and its instruction sits in a run between the
// marker's run and the sibling that holds the matching End. Each pattern is
// anchored to the run holding the Begin marker.
//
// Nested fields inside a field are skipped when resolving the outer End, and
// they are reported on their own. Fields without a matching End are ignored.
func (p *Parser) ScanComplex(doc Document, root xml.NodeID) ([]FieldPattern, error) {
	var markers []xml.NodeID
	for _, marker := range doc.Descendants(root, xml.KindFieldChar) {
		if doc.FieldCharType(marker) == xml.FieldCharBegin {
			markers = append(markers, marker)
		}
	}

	// Inner fields come later in document order. Resolving them first lets
	// every outer field reuse their ends instead of searching again.
	m := newEndMatcher(doc, p.config.MaxNestingDepth)
	for i := len(markers) - 1; i >= 0; i-- {
		if _, err := m.match(markers[i]); err != nil {
			return nil, err
		}
	}

	var patterns []FieldPattern
	for _, marker := range markers {
		holder := doc.Parent(marker)
		end := m.memo[marker]
		if !end.found {
			p.logger.Debug("Skipping complex field at %s: no matching end", holder)
			continue
		}

		instruction, ok := instructionBetween(doc, holder, end.stop)
		if !ok {
			p.logger.Debug("Skipping complex field at %s: no instruction text", holder)
			continue
		}

		pattern, err := p.classifier.classifyAt(instruction, holder)
		if err != nil {
			return nil, WithContext(err, "scan complex field", map[string]interface{}{"node": holder})
		}
		if pattern == nil {
			p.logger.Debug("Skipping unsupported complex field %q", instruction)
			continue
		}
		patterns = append(patterns, pattern)
	}

	return patterns, nil
}

// endMatch is the resolved end of one Begin marker. depth counts the levels
// of complex fields nested inside the field.
type endMatch struct {
	stop  xml.NodeID
	found bool
	depth int
}

// endMatcher resolves Begin markers to their End holders. Each marker is
// resolved at most once per scan.
type endMatcher struct {
	doc   Document
	limit int
	memo  map[xml.NodeID]endMatch
}

func newEndMatcher(doc Document, limit int) *endMatcher {
	return &endMatcher{doc: doc, limit: limit, memo: make(map[xml.NodeID]endMatch)}
}

func (m *endMatcher) match(begin xml.NodeID) (endMatch, error) {
	if end, ok := m.memo[begin]; ok {
		return end, nil
	}
	end, err := m.resolve(begin)
	if err != nil {
		return endMatch{}, err
	}
	m.memo[begin] = end
	return end, nil
}

// resolve walks the siblings after the run holding begin and finds the
// sibling that contains the matching End marker. A sibling containing an End
// wins over one containing a Begin. A nested field is skipped by resuming the
// walk after the sibling that holds its End.
func (m *endMatcher) resolve(begin xml.NodeID) (endMatch, error) {
	doc := m.doc
	holder := doc.Parent(begin)
	if holder == xml.NoNode {
		return endMatch{}, nil
	}
	list := doc.Parent(holder)

	depth := 0
	for sibling := doc.NextSibling(holder); sibling != xml.NoNode; sibling = doc.NextSibling(sibling) {
		if findFieldChar(doc, sibling, xml.FieldCharEnd) != xml.NoNode {
			if depth > m.limit {
				return endMatch{}, &NestingDepthError{Limit: m.limit}
			}
			return endMatch{stop: sibling, found: true, depth: depth}, nil
		}

		nested := findFieldChar(doc, sibling, xml.FieldCharBegin)
		if nested == xml.NoNode {
			continue
		}
		inner, err := m.match(nested)
		if err != nil {
			return endMatch{}, err
		}
		if !inner.found {
			// The nested field already searched the rest of this list
			if doc.Parent(nested) == sibling {
				return endMatch{}, nil
			}
			continue
		}
		if inner.depth+1 > depth {
			depth = inner.depth + 1
		}
		if resume := ancestorIn(doc, inner.stop, list); resume != xml.NoNode {
			sibling = resume
		}
	}

	return endMatch{}, nil
}

// findFieldChar returns the first marker of the given type at or below id
func findFieldChar(doc Document, id xml.NodeID, typ xml.FieldCharType) xml.NodeID {
	return doc.Find(id, func(n xml.NodeID) bool {
		return doc.Kind(n) == xml.KindFieldChar && doc.FieldCharType(n) == typ
	})
}

// ancestorIn returns the ancestor-or-self of id whose parent is list
func ancestorIn(doc Document, id, list xml.NodeID) xml.NodeID {
	for id != xml.NoNode {
		parent := doc.Parent(id)
		if parent == list {
			return id
		}
		id = parent
	}
	return xml.NoNode
}

// instructionBetween returns the instruction text of the first run strictly
// between holder and stop that has w:instrText children. Instructions split
// over several w:instrText elements of that run are joined.
func instructionBetween(doc Document, holder, stop xml.NodeID) (string, bool) {
	for sibling := doc.NextSibling(holder); sibling != xml.NoNode && sibling != stop; sibling = doc.NextSibling(sibling) {
		if doc.Kind(sibling) != xml.KindRun {
			continue
		}

		var sb strings.Builder
		found := false
		for _, child := range doc.Children(sibling) {
			if doc.Kind(child) == xml.KindInstrText {
				sb.WriteString(doc.Text(child))
				found = true
			}
		}
		if found {
			return sb.String(), true
		}
	}
	return "", false
}
