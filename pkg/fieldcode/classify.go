package fieldcode

import "github.com/benjaminschreck/go-fieldcode/pkg/fieldcode/xml"

// Classifier matches instruction text against the supported grammars in a
// fixed order: MERGEFIELD, IF, INCLUDEPICTURE. It is safe for concurrent use.
type Classifier struct {
	grammars []grammar
	cache    *classificationCache
	logger   *Logger
}

// NewClassifier creates a classifier using the match timeout and cache size of config
func NewClassifier(config *Config) *Classifier {
	config = NewConfigWithDefaults(config)
	return &Classifier{
		grammars: newGrammars(config.MatchTimeout),
		cache:    newClassificationCache(config.CacheMaxSize),
		logger:   GetLogger(),
	}
}

// Classify returns the pattern described by instruction, or nil when no grammar
// matches. The returned pattern has no anchor. An error is returned only when a
// grammar cannot be evaluated in time, which points at adversarial input.
func (c *Classifier) Classify(instruction string) (FieldPattern, error) {
	if p, ok := c.cache.Get(instruction); ok {
		return p, nil
	}

	for _, g := range c.grammars {
		p, err := g.match(instruction)
		if err != nil {
			c.logger.WithField("grammar", g.name()).Error("Grammar timed out for instruction %q", instruction)
			return nil, err
		}
		if p != nil {
			c.cache.Set(instruction, p)
			c.logger.DebugInstruction(instruction, p)
			return p, nil
		}
	}

	c.cache.Set(instruction, nil)
	c.logger.DebugInstruction(instruction, nil)
	return nil, nil
}

// classifyAt classifies instruction and anchors the result to a node
func (c *Classifier) classifyAt(instruction string, anchor xml.NodeID) (FieldPattern, error) {
	p, err := c.Classify(instruction)
	if err != nil || p == nil {
		return nil, err
	}
	return p.withAnchor(anchor), nil
}

// Classify classifies an instruction with the classifier of the default parser
func Classify(instruction string) (FieldPattern, error) {
	return getDefaultParser().classifier.Classify(instruction)
}
