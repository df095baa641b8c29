package opencm

import (
	"context"
	"fmt"
	"os"

	"github.com/getcognition-online/openCM/internal/ctxlog"
)

// Load reads, validates and parses an OpenCM model file.
//
// Failure modes are distinct and checkable with errors.Is: a missing file
// wraps os.ErrNotExist, bytes that are not JSON wrap ErrParse, wrong-shaped
// fields wrap ErrSchema, and format violations wrap ErrValidation with the
// complete ordered list of violations found in one pass. Warnings never
// fail a load; they are forwarded to the slog logger carried in ctx.
func Load(ctx context.Context, path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, err
	}

	report := Validate(doc)
	if !report.OK() {
		return nil, &ValidationError{Path: path, Errors: report.Errors}
	}

	logger := ctxlog.FromContext(ctx)
	for _, w := range report.Warnings {
		logger.Warn(w, "path", path)
	}

	return Parse(doc, path), nil
}

// ValidateFile reads and validates a model file without parsing it,
// returning the raw diagnostic report. The error covers only I/O and
// decode failures; a rule-violating document yields a Report with errors
// and a nil error.
func ValidateFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open model file: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return Report{}, err
	}
	return Validate(doc), nil
}
