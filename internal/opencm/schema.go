package opencm

import (
	"bytes"
	"encoding/json"
)

// Document is the typed form of a *.opencm.json file, shared by the
// validator, the parser and the serializer. It mirrors the wire format
// one-to-one; defaults are NOT filled in here (that is Parse's job).
//
// The four required top-level sections are detected as absent when nil.
// Optional fields whose absence is meaningful (as opposed to absent being
// equivalent to empty) are pointers.
type Document struct {
	OpenCMVersion *string                `json:"opencm_version"`
	Model         *ModelSection          `json:"model"`
	Variables     map[string]VariableDef `json:"variables"`
	Edges         []EdgeDef              `json:"edges"`
	Equations     map[string]EquationDef `json:"structural_equations,omitempty"`
	Assumptions   []string               `json:"assumptions,omitempty"`
	Validation    *ValidationSection     `json:"validation,omitempty"`
	Metadata      *MetadataSection       `json:"metadata,omitempty"`
}

// ModelSection is the model identity block.
type ModelSection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Domain      string `json:"domain,omitempty"`
	Description string `json:"description,omitempty"`
	AllowCycles bool   `json:"allow_cycles,omitempty"`
}

// VariableDef is the wire form of a variable definition. All fields are
// optional; an empty object is a valid variable.
type VariableDef struct {
	Type         string    `json:"type,omitempty"`
	Domain       []float64 `json:"domain,omitempty"`
	Unit         string    `json:"unit"`
	Description  string    `json:"description,omitempty"`
	Observed     *bool     `json:"observed,omitempty"`
	DefaultValue *float64  `json:"default_value,omitempty"`
	Categories   []string  `json:"categories,omitempty"`
}

// EdgeDef is the wire form of a directed edge. Source and target are
// required; the rest default per the spec.
type EdgeDef struct {
	Source      string   `json:"source"`
	Target      string   `json:"target"`
	Type        string   `json:"type,omitempty"`
	Strength    *float64 `json:"strength,omitempty"`
	Description string   `json:"description,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	IsLearned   bool     `json:"is_learned,omitempty"`
}

// EquationDef is the wire form of a structural equation. The format allows
// two shapes: a bare expression string, or a full record with type, noise
// distribution and noise parameters. Bare holds the string form and is
// meaningful only when IsBare is true.
type EquationDef struct {
	Bare   string
	IsBare bool

	Type              string
	Expression        string
	NoiseDistribution string
	NoiseParams       map[string]float64
}

// equationRecord is the JSON shape of the full-record equation form.
type equationRecord struct {
	Type              string             `json:"type,omitempty"`
	Expression        string             `json:"expression,omitempty"`
	NoiseDistribution string             `json:"noise_distribution,omitempty"`
	NoiseParams       map[string]float64 `json:"noise_params,omitempty"`
}

// UnmarshalJSON accepts either a bare expression string or a full record.
func (e *EquationDef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var expr string
		if err := json.Unmarshal(data, &expr); err != nil {
			return err
		}
		*e = EquationDef{Bare: expr, IsBare: true}
		return nil
	}
	var rec equationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*e = EquationDef{
		Type:              rec.Type,
		Expression:        rec.Expression,
		NoiseDistribution: rec.NoiseDistribution,
		NoiseParams:       rec.NoiseParams,
	}
	return nil
}

// MarshalJSON writes the bare string form when IsBare is set, otherwise the
// full record form.
func (e EquationDef) MarshalJSON() ([]byte, error) {
	if e.IsBare {
		return json.Marshal(e.Bare)
	}
	return json.Marshal(equationRecord{
		Type:              e.Type,
		Expression:        e.Expression,
		NoiseDistribution: e.NoiseDistribution,
		NoiseParams:       e.NoiseParams,
	})
}

// ValidationSection lists data-fitting requirements.
type ValidationSection struct {
	MinDataPoints     *int     `json:"min_data_points,omitempty"`
	RequiredVariables []string `json:"required_variables,omitempty"`
	SuggestedDatasets []string `json:"suggested_datasets,omitempty"`
}

// MetadataSection carries provenance. All fields are optional.
type MetadataSection struct {
	Author          string   `json:"author,omitempty"`
	Citation        string   `json:"citation,omitempty"`
	License         string   `json:"license,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
	UpdatedAt       string   `json:"updated_at,omitempty"`
	SourceURL       string   `json:"source_url,omitempty"`
	AdaptationNotes string   `json:"adaptation_notes,omitempty"`
}
