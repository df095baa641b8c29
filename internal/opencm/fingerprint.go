package opencm

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// fingerprintDoc is the subset of a serialized document that defines model
// identity. Metadata, assumptions, the validation section and the format
// version are excluded so provenance edits never change the fingerprint.
type fingerprintDoc struct {
	Model     *ModelSection          `json:"model"`
	Variables map[string]VariableDef `json:"variables"`
	Edges     []EdgeDef              `json:"edges"`
	Equations map[string]EquationDef `json:"structural_equations,omitempty"`
}

// Fingerprint computes a stable SHA-256 hex digest of the model's causal
// structure: identity, variables, edges and equations.
//
// The digest is stable across edge declaration order, JSON formatting and
// metadata changes, and changes whenever a variable, edge or equation is
// added, removed or altered.
func Fingerprint(m *Model) (string, error) {
	doc := Serialize(m).Normalized()
	data, err := json.Marshal(fingerprintDoc{
		Model:     doc.Model,
		Variables: doc.Variables,
		Edges:     doc.Edges,
		Equations: doc.Equations,
	})
	if err != nil {
		return "", fmt.Errorf("encode model %q for hashing: %w", m.ID, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
