package opencm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/getcognition-online/openCM/internal/ctxlog"
)

// Serialize converts a Model back to its Document form, the structural
// inverse of Parse. Fields holding their default value are omitted for
// compact output:
//
//   - variable description, default value and category list when empty
//   - edge description when empty, confidence when 1.0, learned when false
//   - allow_cycles when false
//   - an equation collapses to a bare expression string when its kind is
//     linear, its noise distribution is "normal" and its noise parameters
//     equal the default
//
// The validation and metadata sections appear only when present on the
// Model; within metadata, source URL and adaptation notes only when
// non-empty.
func Serialize(m *Model) *Document {
	version := SpecVersion
	doc := &Document{
		OpenCMVersion: &version,
		Model: &ModelSection{
			ID:          m.ID,
			Name:        m.Name,
			Version:     m.Version,
			Domain:      m.Domain,
			Description: m.Description,
			AllowCycles: m.AllowCycles,
		},
		Variables:   make(map[string]VariableDef, len(m.Variables)),
		Edges:       make([]EdgeDef, 0, len(m.Edges)),
		Assumptions: append([]string(nil), m.Assumptions...),
	}

	for name, v := range m.Variables {
		doc.Variables[name] = serializeVariable(v)
	}
	for _, e := range m.Edges {
		doc.Edges = append(doc.Edges, serializeEdge(e))
	}
	if len(m.Equations) > 0 {
		doc.Equations = make(map[string]EquationDef, len(m.Equations))
		for target, eq := range m.Equations {
			doc.Equations[target] = serializeEquation(eq)
		}
	}
	if m.Requirements != nil {
		minPoints := m.Requirements.MinDataPoints
		doc.Validation = &ValidationSection{
			MinDataPoints:     &minPoints,
			RequiredVariables: append([]string(nil), m.Requirements.RequiredVariables...),
			SuggestedDatasets: append([]string(nil), m.Requirements.SuggestedDatasets...),
		}
	}
	if m.Metadata != nil {
		doc.Metadata = &MetadataSection{
			Author:          m.Metadata.Author,
			Citation:        m.Metadata.Citation,
			License:         m.Metadata.License,
			Tags:            append([]string(nil), m.Metadata.Tags...),
			CreatedAt:       m.Metadata.CreatedAt,
			UpdatedAt:       m.Metadata.UpdatedAt,
			SourceURL:       m.Metadata.SourceURL,
			AdaptationNotes: m.Metadata.AdaptationNotes,
		}
	}
	return doc
}

func serializeVariable(v Variable) VariableDef {
	observed := v.Observed
	def := VariableDef{
		Type:     string(v.Kind),
		Domain:   []float64{v.Domain.Min, v.Domain.Max},
		Unit:     v.Unit,
		Observed: &observed,
	}
	if v.Description != "" {
		def.Description = v.Description
	}
	if v.DefaultValue != nil {
		value := *v.DefaultValue
		def.DefaultValue = &value
	}
	if len(v.Categories) > 0 {
		def.Categories = append([]string(nil), v.Categories...)
	}
	return def
}

func serializeEdge(e Edge) EdgeDef {
	strength := e.Strength
	def := EdgeDef{
		Source:      e.Source,
		Target:      e.Target,
		Type:        string(e.Kind),
		Strength:    &strength,
		Description: e.Description,
		IsLearned:   e.Learned,
	}
	if e.Confidence != 1.0 {
		confidence := e.Confidence
		def.Confidence = &confidence
	}
	return def
}

func serializeEquation(eq Equation) EquationDef {
	if eq.Kind == Linear && eq.NoiseDistribution == "normal" && isDefaultNoiseParams(eq.NoiseParams) {
		return EquationDef{Bare: eq.Expression, IsBare: true}
	}
	params := eq.NoiseParams
	if params == nil {
		params = defaultNoiseParams()
	}
	return EquationDef{
		Type:              string(eq.Kind),
		Expression:        eq.Expression,
		NoiseDistribution: eq.NoiseDistribution,
		NoiseParams:       params,
	}
}

func isDefaultNoiseParams(params map[string]float64) bool {
	if len(params) != 2 {
		return false
	}
	mean, okMean := params["mean"]
	std, okStd := params["std"]
	return okMean && okStd && mean == 0.0 && std == 0.05
}

// Save serializes a model and writes it as indented JSON, creating the
// destination directory if needed. It returns the absolute path written.
// This is the one place the package touches the file system for output;
// everything above it is pure.
func Save(ctx context.Context, m *Model, path string) (string, error) {
	data, err := json.MarshalIndent(Serialize(m), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode model %q: %w", m.ID, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create model directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write model file: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Info("saved model", "id", m.ID, "path", abs)
	return abs, nil
}
