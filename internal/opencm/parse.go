package opencm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Decode reads an OpenCM JSON document into its typed Document form.
//
// It returns ParseError for malformed JSON and SchemaError for fields of
// the wrong shape (a string where a number is required, and so on). Unknown
// fields are tolerated; the format reserves the right to grow. No format
// rules are checked here: a successfully decoded Document still has to go
// through Validate before it can be trusted.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaError{Field: typeErr.Field, Msg: fmt.Sprintf("cannot decode %s as %s", typeErr.Value, typeErr.Type)}
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &ParseError{Msg: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset), Err: err}
		}
		return nil, &ParseError{Msg: err.Error(), Err: err}
	}
	return &doc, nil
}

// Parse converts a validated Document into a Model, filling the documented
// default for every optional field that is absent.
//
// Precondition: Validate(doc) reported no errors. Parse performs no
// re-validation; feeding it an unvalidated document produces a Model that
// must not be trusted until re-validated.
func Parse(doc *Document, origin string) *Model {
	section := doc.Model
	if section == nil {
		section = &ModelSection{}
	}

	variables := make(map[string]Variable, len(doc.Variables))
	for name, def := range doc.Variables {
		variables[name] = parseVariable(name, def)
	}

	edges := make([]Edge, 0, len(doc.Edges))
	for _, def := range doc.Edges {
		edges = append(edges, parseEdge(def))
	}

	equations := make(map[string]Equation, len(doc.Equations))
	for target, def := range doc.Equations {
		equations[target] = parseEquation(target, def)
	}

	return &Model{
		ID:           orDefault(section.ID, "unknown"),
		Name:         orDefault(section.Name, "Unknown Model"),
		Version:      orDefault(section.Version, "1.0.0"),
		Domain:       orDefault(section.Domain, "general"),
		Description:  section.Description,
		Variables:    variables,
		Edges:        edges,
		Equations:    equations,
		AllowCycles:  section.AllowCycles,
		Assumptions:  append([]string(nil), doc.Assumptions...),
		Requirements: parseRequirements(doc.Validation),
		Metadata:     parseMetadata(doc.Metadata),
		Origin:       origin,
	}
}

func parseVariable(name string, def VariableDef) Variable {
	domain := Interval{Min: 0.0, Max: 1.0}
	if len(def.Domain) == 2 {
		domain = Interval{Min: def.Domain[0], Max: def.Domain[1]}
	}
	observed := true
	if def.Observed != nil {
		observed = *def.Observed
	}
	return Variable{
		Name:         name,
		Kind:         VariableKind(orDefault(def.Type, string(Continuous))),
		Domain:       domain,
		Unit:         def.Unit,
		Description:  def.Description,
		Observed:     observed,
		DefaultValue: def.DefaultValue,
		Categories:   def.Categories,
	}
}

func parseEdge(def EdgeDef) Edge {
	strength := 0.5
	if def.Strength != nil {
		strength = *def.Strength
	}
	confidence := 1.0
	if def.Confidence != nil {
		confidence = *def.Confidence
	}
	return Edge{
		Source:      def.Source,
		Target:      def.Target,
		Kind:        EdgeKind(orDefault(def.Type, string(Causes))),
		Strength:    strength,
		Description: def.Description,
		Confidence:  confidence,
		Learned:     def.IsLearned,
	}
}

func parseEquation(target string, def EquationDef) Equation {
	if def.IsBare {
		return Equation{
			Target:            target,
			Kind:              Linear,
			Expression:        def.Bare,
			NoiseDistribution: "normal",
			NoiseParams:       defaultNoiseParams(),
		}
	}
	params := def.NoiseParams
	if params == nil {
		params = defaultNoiseParams()
	}
	return Equation{
		Target:            target,
		Kind:              EquationKind(orDefault(def.Type, string(Linear))),
		Expression:        def.Expression,
		NoiseDistribution: orDefault(def.NoiseDistribution, "normal"),
		NoiseParams:       params,
	}
}

func parseRequirements(section *ValidationSection) *Requirements {
	if section == nil {
		return nil
	}
	minPoints := 20
	if section.MinDataPoints != nil {
		minPoints = *section.MinDataPoints
	}
	return &Requirements{
		MinDataPoints:     minPoints,
		RequiredVariables: append([]string(nil), section.RequiredVariables...),
		SuggestedDatasets: append([]string(nil), section.SuggestedDatasets...),
	}
}

// parseMetadata always materializes a Metadata value, even when the section
// is absent, so every parsed model carries at least the default license.
func parseMetadata(section *MetadataSection) *Metadata {
	if section == nil {
		section = &MetadataSection{}
	}
	return &Metadata{
		Author:          section.Author,
		Citation:        section.Citation,
		License:         orDefault(section.License, "CC0-1.0-Universal"),
		Tags:            append([]string(nil), section.Tags...),
		CreatedAt:       section.CreatedAt,
		UpdatedAt:       section.UpdatedAt,
		SourceURL:       section.SourceURL,
		AdaptationNotes: section.AdaptationNotes,
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
