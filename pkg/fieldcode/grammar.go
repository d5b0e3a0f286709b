package fieldcode

import (
	"time"

	"github.com/dlclark/regexp2"
)

// Instruction grammars. All are anchored, case-insensitive and tolerate
// surrounding and repeated whitespace.
const (
	// MERGEFIELD name [\* FORMAT]...
	mergeFieldExpr = `^\s*MERGEFIELD\s+(?:"(?<quoted>[^"]+)"|(?<bare>[^"\s]+))` +
		`(?:\s*\\\*\s*(?:MERGEFORMAT|CHARFORMAT|UPPER|LOWER|FIRSTCAP|CAPS))*\s*$`

	// IF condition "true text" "false text"
	ifFieldExpr = `^\s*IF\s+(?:"(?<quoted>[^"\s]+)"|(?<bare>[^"\s]+))` +
		`\s+"(?<true>[^"]*)"\s+"(?<false>[^"]*)"\s*$`

	// INCLUDEPICTURE "MERGEFIELD name" [\d] [\x] [\y] [\* MERGEFORMAT[INET]]
	includePictureExpr = `^\s*INCLUDEPICTURE\s+"\s*MERGEFIELD\s+(?<name>[^"\s]+)\s*"` +
		`(?:\s*\\(?:d|x|y|\*\s*MERGEFORMAT(?:INET)?))*\s*$`
)

// grammar turns one instruction syntax into a pattern
type grammar struct {
	kind  PatternKind
	re    *regexp2.Regexp
	build func(code string, m *regexp2.Match) FieldPattern
}

func (g grammar) name() string {
	return g.kind.String()
}

// match runs the grammar under its timeout. A nil pattern with a nil error means no match.
func (g grammar) match(instruction string) (FieldPattern, error) {
	m, err := g.re.FindStringMatch(instruction)
	if err != nil {
		return nil, NewPatternMatchError(g.name(), instruction, err)
	}
	if m == nil {
		return nil, nil
	}
	return g.build(instruction, m), nil
}

func compileGrammar(expr string, timeout time.Duration) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, regexp2.IgnoreCase)
	re.MatchTimeout = timeout
	return re
}

// newGrammars returns the supported grammars in priority order
func newGrammars(timeout time.Duration) []grammar {
	return []grammar{
		{
			kind: KindMergeField,
			re:   compileGrammar(mergeFieldExpr, timeout),
			build: func(code string, m *regexp2.Match) FieldPattern {
				return MergeFieldPattern{
					Field:     Field{Code: code},
					FieldName: quotedOrBare(m),
				}
			},
		},
		{
			kind: KindIfField,
			re:   compileGrammar(ifFieldExpr, timeout),
			build: func(code string, m *regexp2.Match) FieldPattern {
				return IfFieldPattern{
					Field:     Field{Code: code},
					Condition: quotedOrBare(m),
					TrueText:  group(m, "true"),
					FalseText: group(m, "false"),
				}
			},
		},
		{
			kind: KindIncludePicture,
			re:   compileGrammar(includePictureExpr, timeout),
			build: func(code string, m *regexp2.Match) FieldPattern {
				return IncludePicturePattern{
					Field:         Field{Code: code},
					PathFieldName: group(m, "name"),
				}
			},
		},
	}
}

func group(m *regexp2.Match, name string) string {
	g := m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}

func quotedOrBare(m *regexp2.Match) string {
	if quoted := group(m, "quoted"); quoted != "" {
		return quoted
	}
	return group(m, "bare")
}
