// Package fieldcode recognizes Word field codes in WordprocessingML documents.
//
// Word stores a field either as a simple field, a single w:fldSimple element
// whose w:instr attribute holds the instruction, or as a complex field spread
// over sibling runs: a w:fldChar Begin marker, a run with w:instrText, an
// optional Separate marker with the cached result, and an End marker. Complex
// fields may nest inside one another.
//
// Go-fieldcode finds both kinds, classifies their instruction text and returns
// typed patterns anchored to the node a template engine should act on. It does
// not evaluate or substitute anything and never modifies the tree it scans.
//
// # Quick Start
//
//	tree, patterns, err := fieldcode.ParseDocument(strings.NewReader(documentXML))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range patterns {
//	    fmt.Println(p.Kind(), fieldcode.DataKey(p), p.Anchor())
//	}
//
// Whole packages are scanned part by part:
//
//	dr, err := fieldcode.OpenDocx("letter.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	parts, err := fieldcode.ScanPackage(ctx, dr)
//
// # Supported Instructions
//
// Matching is anchored, case-insensitive and tolerant of extra whitespace.
// The grammars are tried in this order and the first match wins:
//
//	MERGEFIELD name [\* MERGEFORMAT]            -> MergeFieldPattern
//	IF condition "true text" "false text"       -> IfFieldPattern
//	INCLUDEPICTURE "MERGEFIELD name" [\d]       -> IncludePicturePattern
//
// Any other instruction (PAGE, DATE, TOC and so on) is not an error; the field
// is simply not reported.
//
// # Handling Patterns
//
// FieldPattern is a closed set. Implement PatternVisitor to handle every
// variant and let the compiler flag a missing case:
//
//	type replacer struct{ data map[string]string }
//
//	func (r replacer) VisitMergeField(p fieldcode.MergeFieldPattern)         { ... }
//	func (r replacer) VisitIfField(p fieldcode.IfFieldPattern)               { ... }
//	func (r replacer) VisitIncludePicture(p fieldcode.IncludePicturePattern) { ... }
//
// # Errors
//
// Grammars run with a match timeout (Config.MatchTimeout). A timeout is
// returned as *PatternMatchError and aborts the scan. Complete complex fields
// nested deeper than Config.MaxNestingDepth yield *NestingDepthError.
// Everything else, such as Begin markers without an End, is skipped and
// logged at debug level.
//
// # Configuration
//
// Settings come from DefaultConfig, FIELDCODE_* environment variables and
// optionally a YAML file loaded with LoadConfigFile:
//
//	FIELDCODE_LOG_LEVEL=debug
//	FIELDCODE_MATCH_TIMEOUT=250ms
//	FIELDCODE_MAX_NESTING_DEPTH=16
//	FIELDCODE_CACHE_MAX_SIZE=0
package fieldcode
