package fieldcode

import (
	"bytes"
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/benjaminschreck/go-fieldcode/pkg/fieldcode/xml"
)

// PartPatterns holds the fields recognized in one package part
type PartPatterns struct {
	Part     string
	Tree     *xml.Tree
	Patterns []FieldPattern
}

// ScanPackage recognizes fields in every part of the package that can carry
// them. See ScanParts.
func (p *Parser) ScanPackage(ctx context.Context, dr *DocxReader) ([]PartPatterns, error) {
	parts, err := dr.FieldParts()
	if err != nil {
		return nil, NewDocumentError("list parts", "", err)
	}
	return p.ScanParts(ctx, dr, parts)
}

// ScanParts parses and scans the named parts concurrently. Results come back
// in the order the parts were given. Parts that fail are left out of the
// result and their errors are returned together as a *MultiError.
func (p *Parser) ScanParts(ctx context.Context, dr *DocxReader, parts []string) ([]PartPatterns, error) {
	results := make([]*PartPatterns, len(parts))
	errs := NewMultiError()
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := p.scanPart(dr, part)
			if err != nil {
				mu.Lock()
				errs.Add(err)
				mu.Unlock()
				return nil
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scanned := make([]PartPatterns, 0, len(parts))
	for _, result := range results {
		if result != nil {
			scanned = append(scanned, *result)
		}
	}

	p.logger.Debug("Scanned %d of %d parts", len(scanned), len(parts))
	return scanned, errs.Err()
}

func (p *Parser) scanPart(dr *DocxReader, part string) (*PartPatterns, error) {
	content, err := dr.GetPart(part)
	if err != nil {
		return nil, NewDocumentError("read", part, err)
	}

	tree, err := xml.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, NewDocumentError("parse", part, err)
	}

	patterns, err := p.Parse(tree, tree.Root())
	if err != nil {
		return nil, WithContext(err, "scan part", map[string]interface{}{"part": part})
	}

	return &PartPatterns{Part: part, Tree: tree, Patterns: patterns}, nil
}

// ScanPackage recognizes fields in a package with the default parser
func ScanPackage(ctx context.Context, dr *DocxReader) ([]PartPatterns, error) {
	return getDefaultParser().ScanPackage(ctx, dr)
}
