package cypher

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcypher/internal/biolink"
	"github.com/roach88/qcypher/internal/qgraph"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value qgraph.Value
		want  string
	}{
		{"true", qgraph.Bool(true), "true"},
		{"false", qgraph.Bool(false), "false"},
		{"string", qgraph.String("BRCA1"), "'BRCA1'"},
		{"empty string", qgraph.String(""), "''"},
		{"single quote", qgraph.String("O'Neil"), `'O\'Neil'`},
		{"backslash", qgraph.String(`a\b`), `'a\\b'`},
		{"unicode", qgraph.String("Café"), "'Café'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatValue(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatValue_Unsupported(t *testing.T) {
	for _, v := range []qgraph.Value{
		qgraph.Int(3),
		qgraph.Float(1.5),
		qgraph.Null{},
		qgraph.List{qgraph.String("a")},
		qgraph.Object{},
	} {
		t.Run(qgraph.TypeName(v), func(t *testing.T) {
			_, err := formatValue(v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedPropertyType))

			var typeErr *UnsupportedPropertyTypeError
			require.True(t, errors.As(err, &typeErr))
			assert.Equal(t, qgraph.TypeName(v), typeErr.Type)
		})
	}
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `"biolink:treats"`, doubleQuote("biolink:treats"))
	assert.Equal(t, `"a\"b\\c"`, doubleQuote(`a"b\c`))
	assert.Equal(t, "`id`", backtick("id"))
	assert.Equal(t, "`we``ird`", backtick("we`ird"))
}

func TestCounterpart_DirectionFollowsPattern(t *testing.T) {
	vocab := biolink.Default()

	tests := []struct {
		label string
		want  string
	}{
		{"biolink:Gene", "gene"},
		{"biolink:GeneProduct", "gene_product"},
		{"biolink:RNAProduct", "rna_product"},
		{"gene", "biolink:Gene"},
		{"named_thing", "biolink:NamedThing"},
		// Prefixed but not CamelCase: upgrade is the identity.
		{"biolink:gene", "biolink:gene"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, counterpart(vocab.Categories, categoryPattern, tt.label))
		})
	}

	assert.Equal(t, "affects", counterpart(vocab.Predicates, predicatePattern, "biolink:affects"))
	assert.Equal(t, "biolink:interacts_with", counterpart(vocab.Predicates, predicatePattern, "interacts_with"))
	assert.Equal(t, "biolink:Affects", counterpart(vocab.Predicates, predicatePattern, "biolink:Affects"))
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&UnsupportedPropertyTypeError{Type: "int"}, "unsupported_property_type"},
		{fmt.Errorf("wrapped: %w", &DanglingEdgeError{Edge: "e0", Endpoint: "object", Node: "x"}), "dangling_edge_reference"},
		{fmt.Errorf("%w: x", ErrUnknownMode), "unknown_mode"},
		{qgraph.ErrMalformedCurieType, "malformed_curie_type"},
		{&qgraph.DuplicateKeyError{Scope: "node", Key: "n0"}, "duplicate_key"},
		{errors.New("disk on fire"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err))
	}
}
