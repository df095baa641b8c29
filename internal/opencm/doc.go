// Package opencm implements the OpenCM (Open Structural Causal Model)
// interchange format: a JSON-based standard for portable, versionable
// causal models.
//
// The package is organized around three tightly coupled pieces:
//
//   - Validate: checks a decoded Document against the format rules,
//     accumulating blocking errors and advisory warnings
//   - Parse: converts a validated Document into a typed Model, filling
//     documented defaults for every optional field
//   - Serialize: converts a Model back into a Document, omitting fields
//     that hold their default value
//
// Structural equation expressions are stored as opaque text; they are
// never parsed or evaluated here.
//
// Decoding failures are categorized into distinct error types that can be
// checked programmatically using errors.Is().
package opencm
