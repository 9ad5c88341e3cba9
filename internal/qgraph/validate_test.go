package qgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidate_Clean(t *testing.T) {
	q := &QGraph{
		Nodes: []Node{
			{Key: "n0", IDs: Scalar("NCBIGene:1017"), Properties: []Property{{Key: "approved", Value: Bool(true)}}},
			{Key: "n1", Categories: Multiple("biolink:Disease", "disease")},
		},
		Edges: []Edge{{Key: "e0", Subject: "n0", Object: "n1", Predicates: Scalar("biolink:affects")}},
	}

	assert.Empty(t, Validate(q))
}

func TestValidate_CollectsAllFindings(t *testing.T) {
	q := &QGraph{
		Nodes: []Node{
			{Key: "n0", Properties: []Property{{Key: "weight", Value: Int(3)}}},
			{Key: "n0"},
			{Key: "", IDs: Multiple()},
		},
		Edges: []Edge{
			{Key: "e0", Subject: "n0", Object: "nX"},
			{Key: "e0", Subject: "nY", Object: "n0", Predicates: Multiple("biolink:affects", "")},
		},
	}

	errs := Validate(q)
	assert.Equal(t, []string{
		ErrCodeUnsupportedValue,
		ErrCodeDuplicateKey,
		ErrCodeEmptyKey,
		ErrCodeEmptyList,
		ErrCodeDanglingEdge,
		ErrCodeDuplicateKey,
		ErrCodeDanglingEdge,
		ErrCodeEmptyListMember,
	}, codes(errs))

	assert.Equal(t, "nodes.n0.weight", errs[0].Field)
	assert.Equal(t, "edges.e0.object", errs[4].Field)
	assert.Equal(t, "edges.e0.predicate[1]", errs[7].Field)
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "edges.e0.subject", Message: `subject "nX" is not a node`, Code: ErrCodeDanglingEdge}
	assert.Equal(t, `[E201] edges.e0.subject: subject "nX" is not a node`, err.Error())
}

func TestValidate_DecodedDocument(t *testing.T) {
	q, err := DecodeJSON([]byte(`{"nodes": {"n0": {"score": 0.5}}, "edges": {"e0": {"subject": "n0", "object": "n1"}}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{ErrCodeUnsupportedValue, ErrCodeDanglingEdge}, codes(Validate(q)))
}
