package fieldcode

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// PatternMatchError reports that a grammar could not be evaluated against an
// instruction within the configured time limit. It is the only failure raised
// while classifying; unrecognized instructions are not errors.
type PatternMatchError struct {
	Grammar     string
	Instruction string
	Cause       error
}

func (e *PatternMatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pattern match error in %s grammar for instruction %q: %v", e.Grammar, e.Instruction, e.Cause)
	}
	return fmt.Sprintf("pattern match error in %s grammar for instruction %q", e.Grammar, e.Instruction)
}

func (e *PatternMatchError) Unwrap() error {
	return e.Cause
}

// NewPatternMatchError creates a new pattern match error
func NewPatternMatchError(grammar, instruction string, cause error) error {
	return &PatternMatchError{
		Grammar:     grammar,
		Instruction: instruction,
		Cause:       cause,
	}
}

// NestingDepthError reports complex fields nested deeper than Config.MaxNestingDepth
type NestingDepthError struct {
	Limit int
}

func (e *NestingDepthError) Error() string {
	return fmt.Sprintf("complex fields nested deeper than %d levels", e.Limit)
}

// PictureArgumentError reports a picture size argument that could not be evaluated
type PictureArgumentError struct {
	Argument string
	Cause    error
}

func (e *PictureArgumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid picture argument '%s': %v", e.Argument, e.Cause)
	}
	return fmt.Sprintf("invalid picture argument '%s'", e.Argument)
}

func (e *PictureArgumentError) Unwrap() error {
	return e.Cause
}

// DocumentError represents an error during document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// MultiError collects multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the collection (ignores nil errors)
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Err returns the multi-error or nil if empty
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.errors
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}

	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d errors occurred:", len(m.errors)))
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	var contextParts []string
	for k, v := range e.Context {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(contextParts)

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsPatternMatchError checks if an error is, or wraps, a pattern match error
func IsPatternMatchError(err error) bool {
	var target *PatternMatchError
	return errors.As(err, &target)
}

// IsNestingDepthError checks if an error is, or wraps, a nesting depth error
func IsNestingDepthError(err error) bool {
	var target *NestingDepthError
	return errors.As(err, &target)
}

// IsDocumentError checks if an error is, or wraps, a document error
func IsDocumentError(err error) bool {
	var target *DocumentError
	return errors.As(err, &target)
}

// IsPictureArgumentError checks if an error is, or wraps, a picture argument error
func IsPictureArgumentError(err error) bool {
	var target *PictureArgumentError
	return errors.As(err, &target)
}
