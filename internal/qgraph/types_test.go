package qgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_Variants(t *testing.T) {
	absent := Absent()
	assert.Equal(t, FieldAbsent, absent.Kind())
	assert.True(t, absent.IsAbsent())
	assert.Nil(t, absent.Values())
	_, ok := absent.Scalar()
	assert.False(t, ok)

	scalar := Scalar("A:1")
	s, ok := scalar.Scalar()
	assert.True(t, ok)
	assert.Equal(t, "A:1", s)
	assert.Equal(t, []string{"A:1"}, scalar.Values())

	input := []string{"A:1", "A:2"}
	multi := Multiple(input...)
	input[0] = "mutated"
	assert.Equal(t, []string{"A:1", "A:2"}, multi.Values(), "Multiple copies its input")
	_, ok = multi.Scalar()
	assert.False(t, ok)

	values := multi.Values()
	values[1] = "mutated"
	assert.Equal(t, []string{"A:1", "A:2"}, multi.Values(), "Values returns a copy")

	assert.Equal(t, "multiple", FieldMultiple.String())
	assert.Equal(t, "unknown", FieldKind(9).String())
}

func TestQGraph_AddRejectsDuplicates(t *testing.T) {
	q := &QGraph{}
	require.NoError(t, q.AddNode(Node{Key: "n0"}))
	err := q.AddNode(Node{Key: "n0"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	require.NoError(t, q.AddEdge(Edge{Key: "e0", Subject: "n0", Object: "n0"}))
	err = q.AddEdge(Edge{Key: "e0"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Contains(t, err.Error(), `duplicate edge key "e0"`)
}

func TestQGraph_Lookups(t *testing.T) {
	q := &QGraph{}
	assert.True(t, q.IsEmpty())

	require.NoError(t, q.AddNode(Node{Key: "n0", Properties: []Property{{Key: "symbol", Value: String("CDK2")}}}))
	assert.False(t, q.IsEmpty())

	n, ok := q.Node("n0")
	require.True(t, ok)
	v, ok := n.Property("symbol")
	require.True(t, ok)
	assert.Equal(t, String("CDK2"), v)

	_, ok = n.Property("missing")
	assert.False(t, ok)
	_, ok = q.Node("missing")
	assert.False(t, ok)
	_, ok = q.Edge("missing")
	assert.False(t, ok)
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "string", TypeName(String("x")))
	assert.Equal(t, "bool", TypeName(Bool(true)))
	assert.Equal(t, "int", TypeName(Int(1)))
	assert.Equal(t, "float", TypeName(Float(1.5)))
	assert.Equal(t, "null", TypeName(Null{}))
	assert.Equal(t, "list", TypeName(List{}))
	assert.Equal(t, "object", TypeName(Object{}))
	assert.Equal(t, "nil", TypeName(nil))
}
