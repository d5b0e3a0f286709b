package fieldcode

import (
	"io"
	"sync"

	"github.com/benjaminschreck/go-fieldcode/pkg/fieldcode/xml"
)

// Document is the read-only view of a document tree that the scanners need.
// *xml.Tree implements it.
type Document interface {
	Descendants(id xml.NodeID, kinds ...xml.Kind) []xml.NodeID
	Find(id xml.NodeID, match func(xml.NodeID) bool) xml.NodeID
	Children(id xml.NodeID) []xml.NodeID
	Parent(id xml.NodeID) xml.NodeID
	NextSibling(id xml.NodeID) xml.NodeID
	Kind(id xml.NodeID) xml.Kind
	Attr(id xml.NodeID, local string) (string, bool)
	Text(id xml.NodeID) string
	FieldCharType(id xml.NodeID) xml.FieldCharType
}

// Parser recognizes fields in a document tree. Scanning never modifies the
// tree. A Parser is safe for concurrent use on trees nobody is editing.
type Parser struct {
	config     *Config
	classifier *Classifier
	logger     *Logger
}

// NewParser creates a parser from the global configuration
func NewParser() *Parser {
	return NewParserWithConfig(GetGlobalConfig())
}

// NewParserWithConfig creates a parser with a custom configuration
func NewParserWithConfig(config *Config) *Parser {
	config = NewConfigWithDefaults(config)
	return &Parser{
		config:     config,
		classifier: NewClassifier(config),
		logger:     GetLogger(),
	}
}

// Classifier returns the classifier the parser delegates to
func (p *Parser) Classifier() *Classifier {
	return p.classifier
}

// Parse returns every recognized field under root: simple fields first, then
// complex fields, each group in document order. The result is not globally
// ordered by document position.
func (p *Parser) Parse(doc Document, root xml.NodeID) ([]FieldPattern, error) {
	simple, err := p.ScanSimple(doc, root)
	if err != nil {
		return nil, err
	}
	complexFields, err := p.ScanComplex(doc, root)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Recognized %d simple and %d complex fields", len(simple), len(complexFields))
	return append(simple, complexFields...), nil
}

// ParseDocument decodes a WordprocessingML part and recognizes its fields.
// The tree is returned so that callers can act on the pattern anchors.
func (p *Parser) ParseDocument(r io.Reader) (*xml.Tree, []FieldPattern, error) {
	tree, err := xml.Parse(r)
	if err != nil {
		return nil, nil, NewDocumentError("parse", "", err)
	}
	patterns, err := p.Parse(tree, tree.Root())
	if err != nil {
		return nil, nil, err
	}
	return tree, patterns, nil
}

var (
	defaultParser      *Parser
	defaultParserMutex sync.Mutex
)

// getDefaultParser returns the parser behind the package-level helpers. It is
// rebuilt from the global configuration after every SetGlobalConfig.
func getDefaultParser() *Parser {
	defaultParserMutex.Lock()
	defer defaultParserMutex.Unlock()

	if defaultParser == nil {
		defaultParser = NewParser()
	}
	return defaultParser
}

func resetDefaultParser() {
	defaultParserMutex.Lock()
	defaultParser = nil
	defaultParserMutex.Unlock()
}

// Parse recognizes fields under root with the default parser
func Parse(doc Document, root xml.NodeID) ([]FieldPattern, error) {
	return getDefaultParser().Parse(doc, root)
}

// ParseDocument decodes a part and recognizes its fields with the default parser
func ParseDocument(r io.Reader) (*xml.Tree, []FieldPattern, error) {
	return getDefaultParser().ParseDocument(r)
}

// ScanSimple recognizes simple fields under root with the default parser
func ScanSimple(doc Document, root xml.NodeID) ([]FieldPattern, error) {
	return getDefaultParser().ScanSimple(doc, root)
}

// ScanComplex recognizes complex fields under root with the default parser
func ScanComplex(doc Document, root xml.NodeID) ([]FieldPattern, error) {
	return getDefaultParser().ScanComplex(doc, root)
}
