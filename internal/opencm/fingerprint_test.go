package opencm

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestFingerprint_Deterministic(t *testing.T) {
	model := Parse(loadFixture(t, "maximal.opencm.json"), "")

	first, err := Fingerprint(model)
	require.NoError(t, err)
	assert.Regexp(t, hexDigest, first)

	again := Parse(loadFixture(t, "maximal.opencm.json"), "")
	second, err := Fingerprint(again)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFingerprint_IgnoresProvenance(t *testing.T) {
	model := Parse(loadFixture(t, "maximal.opencm.json"), "")
	before, err := Fingerprint(model)
	require.NoError(t, err)

	model.Metadata.Author = "Someone Else"
	model.Metadata.Tags = []string{"different"}
	model.Assumptions = append(model.Assumptions, "a new assumption")
	model.Origin = "/elsewhere/pricing.opencm.json"

	after, err := Fingerprint(model)
	require.NoError(t, err)
	assert.Equal(t, before, after, "provenance edits must not change the fingerprint")
}

func TestFingerprint_IgnoresEdgeOrder(t *testing.T) {
	model := Parse(loadFixture(t, "maximal.opencm.json"), "")
	before, err := Fingerprint(model)
	require.NoError(t, err)

	model.Edges[0], model.Edges[2] = model.Edges[2], model.Edges[0]

	after, err := Fingerprint(model)
	require.NoError(t, err)
	assert.Equal(t, before, after, "edge declaration order must not change the fingerprint")
}

func TestFingerprint_TracksStructure(t *testing.T) {
	model := Parse(loadFixture(t, "maximal.opencm.json"), "")
	before, err := Fingerprint(model)
	require.NoError(t, err)

	model.Edges[0].Strength = -0.4

	after, err := Fingerprint(model)
	require.NoError(t, err)
	assert.NotEqual(t, before, after, "a structural change must change the fingerprint")
}
