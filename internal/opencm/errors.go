package opencm

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic checking via errors.Is().
var (
	// ErrParse indicates the input bytes are not valid JSON text.
	ErrParse = errors.New("parse error")

	// ErrSchema indicates the JSON is well-formed but a field has the
	// wrong shape (e.g. a string where a number is required).
	ErrSchema = errors.New("schema error")

	// ErrValidation indicates the document is well-shaped JSON but
	// violates the OpenCM format rules.
	ErrValidation = errors.New("validation error")
)

// ParseError reports malformed JSON input.
// Wraps ErrParse for errors.Is() compatibility.
type ParseError struct {
	Msg string
	Err error // optional underlying error from encoding/json
}

func (e *ParseError) Error() string {
	if e == nil || e.Msg == "" {
		return ErrParse.Error()
	}
	return fmt.Sprintf("%s: %s", ErrParse.Error(), e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// SchemaError reports a field whose JSON value has the wrong type or shape.
// Wraps ErrSchema for errors.Is() compatibility.
type SchemaError struct {
	Field string // offending field, when known
	Msg   string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return ErrSchema.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", ErrSchema.Error(), e.Field, e.Msg)
	}
	if e.Msg == "" {
		return ErrSchema.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSchema.Error(), e.Msg)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// ValidationError bundles the complete ordered list of violations found in
// one validation pass. Wraps ErrValidation for errors.Is() compatibility.
type ValidationError struct {
	Path   string // source file, when loading from disk
	Errors []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return ErrValidation.Error()
	}
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	if e.Path != "" {
		fmt.Fprintf(&b, " for %s", e.Path)
	}
	fmt.Fprintf(&b, " (%d violations):", len(e.Errors))
	for _, msg := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(msg)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
