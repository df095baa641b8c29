package opencm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"opencm_version": `))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestDecode_NotJSONAtAll(t *testing.T) {
	_, err := Decode(strings.NewReader(`version: 1.0`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestDecode_WrongShape(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"variables as list", `{"variables": ["a", "b"]}`},
		{"strength as string", `{"edges": [{"source": "a", "target": "b", "strength": "strong"}]}`},
		{"domain as string", `{"variables": {"a": {"domain": "0..1"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.json))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchema))
		})
	}
}

func TestDecode_UnknownFieldsTolerated(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{
		"opencm_version": "1.0",
		"future_section": {"anything": true},
		"model": {"id": "m1", "name": "M"},
		"variables": {"a": {}},
		"edges": []
	}`))
	require.NoError(t, err)
	assert.Equal(t, "m1", doc.Model.ID)
}

func TestParse_MinimalDefaults(t *testing.T) {
	model := Parse(decodeString(t, minimalJSON), "")

	require.Len(t, model.Variables, 2)
	for _, name := range []string{"a", "b"} {
		v := model.Variables[name]
		assert.Equal(t, name, v.Name)
		assert.Equal(t, Continuous, v.Kind)
		assert.Equal(t, Interval{Min: 0.0, Max: 1.0}, v.Domain)
		assert.True(t, v.Observed)
		assert.Nil(t, v.DefaultValue)
		assert.Nil(t, v.Categories)
	}

	require.Len(t, model.Edges, 1)
	e := model.Edges[0]
	assert.Equal(t, "a", e.Source)
	assert.Equal(t, "b", e.Target)
	assert.Equal(t, Causes, e.Kind)
	assert.Equal(t, 0.7, e.Strength)
	assert.Equal(t, 1.0, e.Confidence)
	assert.False(t, e.Learned)

	assert.Equal(t, "m1", model.ID)
	assert.Equal(t, "M", model.Name)
	assert.Equal(t, "1.0.0", model.Version)
	assert.Equal(t, "general", model.Domain)
	assert.False(t, model.AllowCycles)
	assert.Empty(t, model.Assumptions)
	assert.Nil(t, model.Requirements)

	// Metadata is always materialized, carrying at least the default license.
	require.NotNil(t, model.Metadata)
	assert.Equal(t, "CC0-1.0-Universal", model.Metadata.License)
}

func TestParse_VariableFields(t *testing.T) {
	doc := decodeString(t, `{
		"opencm_version": "1.0",
		"model": {"id": "m1", "name": "M"},
		"variables": {
			"price": {
				"type": "continuous",
				"domain": [10, 500],
				"unit": "$",
				"description": "unit price",
				"observed": false,
				"default_value": 99.5
			},
			"segment": {"type": "categorical", "categories": ["smb", "mid", "ent"]}
		},
		"edges": []
	}`)
	model := Parse(doc, "")

	price := model.Variables["price"]
	assert.Equal(t, Interval{Min: 10, Max: 500}, price.Domain)
	assert.Equal(t, "$", price.Unit)
	assert.Equal(t, "unit price", price.Description)
	assert.False(t, price.Observed)
	require.NotNil(t, price.DefaultValue)
	assert.Equal(t, 99.5, *price.DefaultValue)

	segment := model.Variables["segment"]
	assert.Equal(t, Categorical, segment.Kind)
	assert.Equal(t, []string{"smb", "mid", "ent"}, segment.Categories)
}

func TestParse_BareEquation(t *testing.T) {
	doc := decodeString(t, `{
		"opencm_version": "1.0",
		"model": {"id": "m1", "name": "M"},
		"variables": {"a": {}, "b": {}},
		"edges": [{"source": "a", "target": "b"}],
		"structural_equations": {"b": "0.6 * a"}
	}`)
	model := Parse(doc, "")

	eq, ok := model.Equations["b"]
	require.True(t, ok)
	assert.Equal(t, "b", eq.Target)
	assert.Equal(t, Linear, eq.Kind)
	assert.Equal(t, "0.6 * a", eq.Expression)
	assert.Equal(t, "normal", eq.NoiseDistribution)
	assert.Equal(t, map[string]float64{"mean": 0.0, "std": 0.05}, eq.NoiseParams)
}

func TestParse_RecordEquation(t *testing.T) {
	doc := decodeString(t, `{
		"opencm_version": "1.0",
		"model": {"id": "m1", "name": "M"},
		"variables": {"a": {}, "b": {}},
		"edges": [{"source": "a", "target": "b"}],
		"structural_equations": {
			"b": {
				"type": "logistic",
				"expression": "1 / (1 + exp(-a))",
				"noise_distribution": "uniform",
				"noise_params": {"low": -0.1, "high": 0.1}
			}
		}
	}`)
	model := Parse(doc, "")

	eq := model.Equations["b"]
	assert.Equal(t, Logistic, eq.Kind)
	assert.Equal(t, "1 / (1 + exp(-a))", eq.Expression)
	assert.Equal(t, "uniform", eq.NoiseDistribution)
	assert.Equal(t, map[string]float64{"low": -0.1, "high": 0.1}, eq.NoiseParams)
}

func TestParse_RecordEquationDefaults(t *testing.T) {
	doc := decodeString(t, `{
		"opencm_version": "1.0",
		"model": {"id": "m1", "name": "M"},
		"variables": {"a": {}, "b": {}},
		"edges": [{"source": "a", "target": "b"}],
		"structural_equations": {"b": {"expression": "a + 1"}}
	}`)
	model := Parse(doc, "")

	eq := model.Equations["b"]
	assert.Equal(t, Linear, eq.Kind)
	assert.Equal(t, "normal", eq.NoiseDistribution)
	assert.Equal(t, map[string]float64{"mean": 0.0, "std": 0.05}, eq.NoiseParams)
}

func TestParse_EquationsOwnTheirNoiseParams(t *testing.T) {
	doc := decodeString(t, `{
		"opencm_version": "1.0",
		"model": {"id": "m1", "name": "M"},
		"variables": {"a": {}, "b": {}, "c": {}},
		"edges": [{"source": "a", "target": "b"}, {"source": "a", "target": "c"}],
		"structural_equations": {"b": "a", "c": "a"}
	}`)
	model := Parse(doc, "")

	model.Equations["b"].NoiseParams["std"] = 0.9
	assert.Equal(t, 0.05, model.Equations["c"].NoiseParams["std"])
}

func TestParse_ValidationSection(t *testing.T) {
	doc := decodeString(t, `{
		"opencm_version": "1.0",
		"model": {"id": "m1", "name": "M"},
		"variables": {"a": {}},
		"edges": [],
		"validation": {"required_variables": ["a"], "suggested_datasets": ["ds1"]}
	}`)
	model := Parse(doc, "")

	require.NotNil(t, model.Requirements)
	assert.Equal(t, 20, model.Requirements.MinDataPoints)
	assert.Equal(t, []string{"a"}, model.Requirements.RequiredVariables)
	assert.Equal(t, []string{"ds1"}, model.Requirements.SuggestedDatasets)
}

func TestParse_MetadataSection(t *testing.T) {
	doc := decodeString(t, `{
		"opencm_version": "1.0",
		"model": {"id": "m1", "name": "M"},
		"variables": {"a": {}},
		"edges": [],
		"metadata": {
			"author": "Jane",
			"license": "MIT",
			"tags": ["pricing"],
			"source_url": "https://example.com/m1",
			"created_at": "2024-01-01T00:00:00Z"
		}
	}`)
	model := Parse(doc, "")

	require.NotNil(t, model.Metadata)
	assert.Equal(t, "Jane", model.Metadata.Author)
	assert.Equal(t, "MIT", model.Metadata.License)
	assert.Equal(t, []string{"pricing"}, model.Metadata.Tags)
	assert.Equal(t, "https://example.com/m1", model.Metadata.SourceURL)
	assert.Equal(t, "2024-01-01T00:00:00Z", model.Metadata.CreatedAt)
}

func TestParse_OriginIsProvenanceOnly(t *testing.T) {
	model := Parse(decodeString(t, minimalJSON), "/models/m1.opencm.json")
	assert.Equal(t, "/models/m1.opencm.json", model.Origin)
}

func TestModel_Accessors(t *testing.T) {
	model := Parse(decodeString(t, minimalJSON), "")

	assert.Equal(t, []string{"a", "b"}, model.VariableNames())
	assert.Equal(t, "M (general): 2 vars, 1 edges", model.Summary())
}
