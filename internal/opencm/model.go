package opencm

import (
	"fmt"
	"sort"
)

// SpecVersion is the OpenCM format version this package implements.
const SpecVersion = "1.0"

// FileExtension is the conventional suffix for OpenCM files.
const FileExtension = ".opencm.json"

// VariableKind classifies a variable's value space.
type VariableKind string

const (
	Continuous  VariableKind = "continuous"
	Discrete    VariableKind = "discrete"
	Binary      VariableKind = "binary"
	Categorical VariableKind = "categorical"
)

// EdgeKind classifies the causal relationship an edge asserts.
type EdgeKind string

const (
	Causes     EdgeKind = "causes"
	Correlates EdgeKind = "correlates"
	Mediates   EdgeKind = "mediates"
	Moderates  EdgeKind = "moderates"
	Inhibits   EdgeKind = "inhibits"
)

// EquationKind classifies the functional form of a structural equation.
type EquationKind string

const (
	Linear      EquationKind = "linear"
	Polynomial  EquationKind = "polynomial"
	Exponential EquationKind = "exponential"
	Logistic    EquationKind = "logistic"
	Interaction EquationKind = "interaction"
	Synergy     EquationKind = "synergy"
	Custom      EquationKind = "custom"
)

// Closed kind sets, sorted, as listed in validator diagnostics. Unrecognized
// values downgrade to warnings where the format tolerates them.
var (
	variableKinds = []string{"binary", "categorical", "continuous", "discrete"}
	edgeKinds     = []string{"causes", "correlates", "inhibits", "mediates", "moderates"}
	equationKinds = []string{"custom", "exponential", "interaction", "linear", "logistic", "polynomial", "synergy"}

	// Advisory model domain tags; unknown domains warn, never fail.
	modelDomains = []string{
		"economics", "finance", "general", "healthcare", "marketing",
		"operations", "organization", "psychology", "strategy",
		"supply_chain", "technology",
	}
)

func knownKind(set []string, s string) bool {
	i := sort.SearchStrings(set, s)
	return i < len(set) && set[i] == s
}

// Interval is an ordered numeric range with Min < Max.
type Interval struct {
	Min float64
	Max float64
}

// Variable is a named quantity in a causal model.
type Variable struct {
	Name         string
	Kind         VariableKind
	Domain       Interval
	Unit         string
	Description  string
	Observed     bool
	DefaultValue *float64
	Categories   []string // meaningful only when Kind is Categorical
}

// Edge is a directed, typed, weighted causal relationship between two
// variables of the same model.
type Edge struct {
	Source      string
	Target      string
	Kind        EdgeKind
	Strength    float64 // in [-1, 1]
	Description string
	Confidence  float64
	Learned     bool
}

// Equation describes how a target variable is determined by its parents
// plus noise. Expression is opaque text; it is never evaluated.
type Equation struct {
	Target            string
	Kind              EquationKind
	Expression        string
	NoiseDistribution string
	NoiseParams       map[string]float64
}

// defaultNoiseParams returns a fresh copy of the default noise parameters.
// Each equation owns its own map.
func defaultNoiseParams() map[string]float64 {
	return map[string]float64{"mean": 0.0, "std": 0.05}
}

// Requirements lists what a dataset must provide to fit the model.
type Requirements struct {
	MinDataPoints     int
	RequiredVariables []string
	SuggestedDatasets []string
}

// Metadata carries model provenance.
type Metadata struct {
	Author          string
	Citation        string
	License         string
	Tags            []string
	CreatedAt       string
	UpdatedAt       string
	SourceURL       string
	AdaptationNotes string
}

// Model is the complete in-memory representation of an OpenCM model.
//
// A Model produced by Parse is treated as an immutable value; consumers
// that need a variant should build a new Model (or replace a collection
// wholesale) and re-validate before trusting it. Nothing here re-checks
// the cross-reference or acyclicity invariants at construction time.
type Model struct {
	ID          string
	Name        string
	Version     string
	Domain      string
	Description string

	Variables   map[string]Variable
	Edges       []Edge
	Equations   map[string]Equation // keyed by target variable name
	AllowCycles bool

	Assumptions  []string
	Requirements *Requirements
	Metadata     *Metadata

	// Origin is the file the model was loaded from, if any. Provenance
	// only; never re-read.
	Origin string
}

// VariableNames returns the declared variable names in sorted order.
func (m *Model) VariableNames() []string {
	names := make([]string, 0, len(m.Variables))
	for name := range m.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary returns a one-line human-readable description.
func (m *Model) Summary() string {
	return fmt.Sprintf("%s (%s): %d vars, %d edges", m.Name, m.Domain, len(m.Variables), len(m.Edges))
}
