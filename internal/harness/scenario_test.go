package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcypher/internal/cypher"
)

func TestLoadScenario_Inline(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/shared_hub_paginated.yaml")
	require.NoError(t, err)

	assert.Equal(t, "shared_hub_paginated", s.Name)
	assert.Empty(t, s.QueryFile)
	require.Len(t, s.Assertions, 5)

	opts := s.Options.CompileOptions()
	assert.Equal(t, 100, opts.MaxConnectivity)
	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, 10, *opts.Skip)
	assert.Equal(t, 5, *opts.Limit)

	q, err := s.QGraph()
	require.NoError(t, err)
	assert.Equal(t, []string{"n0", "n1", "n2"}, q.NodeKeys())
	assert.Equal(t, []string{"e0", "e1"}, q.EdgeKeys())
	n2, ok := q.Node("n2")
	require.True(t, ok)
	assert.True(t, n2.IsSet)
}

func TestLoadScenario_QueryFileResolvedRelative(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/file_query.yaml")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "queries", "gene_affects.json"), s.QueryFile)

	q, err := s.QGraph()
	require.NoError(t, err)
	assert.Equal(t, []string{"n0", "n1"}, q.NodeKeys())
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"missing file", "testdata/scenarios/nope.yaml", "failed to read scenario file"},
		{"unknown field", "testdata/invalid/unknown_field.yaml", "field assertion not found"},
		{"both queries", "testdata/invalid/both_queries.yaml", "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingQueryFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: s
description: d
query_file: missing.json
assertions:
  - type: contains
    text: MATCH
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestParseScenario_Validation(t *testing.T) {
	const query = "query:\n  nodes:\n    n0: {}\n"
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\n" + query + "assertions: [{type: contains, text: x}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\n" + query + "assertions: [{type: contains, text: x}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing query",
			yaml:    "name: n\ndescription: d\nassertions: [{type: contains, text: x}]\n",
			wantErr: "query or query_file is required",
		},
		{
			name:    "bad mode",
			yaml:    "name: n\ndescription: d\nmode: table\n" + query + "assertions: [{type: contains, text: x}]\n",
			wantErr: "unknown compile mode",
		},
		{
			name:    "no assertions",
			yaml:    "name: n\ndescription: d\n" + query,
			wantErr: "assertions list is required",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\n" + query + "assertions: [{type: matches, text: x}]\n",
			wantErr: `unknown assertion type "matches"`,
		},
		{
			name:    "contains without text",
			yaml:    "name: n\ndescription: d\n" + query + "assertions: [{type: contains}]\n",
			wantErr: "text is required for contains",
		},
		{
			name:    "order with one text",
			yaml:    "name: n\ndescription: d\n" + query + "assertions: [{type: order, texts: [MATCH]}]\n",
			wantErr: "at least two entries",
		},
		{
			name:    "count negative",
			yaml:    "name: n\ndescription: d\n" + query + "assertions: [{type: count, text: x, count: -1}]\n",
			wantErr: "count must be non-negative",
		},
		{
			name:    "error without kind",
			yaml:    "name: n\ndescription: d\n" + query + "assertions: [{type: error}]\n",
			wantErr: "error kind is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScenario_QGraphNotMapping(t *testing.T) {
	s, err := ParseScenario([]byte("name: n\ndescription: d\nquery: [1, 2]\nassertions: [{type: error, error: malformed_document}]\n"))
	require.NoError(t, err)

	_, err = s.QGraph()
	require.Error(t, err)
	assert.Equal(t, "malformed_document", cypher.ErrorKind(err))
}

func TestScenario_Vocabulary(t *testing.T) {
	dir := t.TempDir()
	vocabPath := filepath.Join(dir, "vocab.yaml")
	require.NoError(t, os.WriteFile(vocabPath, []byte("categories:\n  biolink:Gene: locus\n"), 0o644))
	scenarioPath := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(scenarioPath, []byte(`
name: custom_vocab
description: overrides replace the lexical rule
mode: match
vocabulary: vocab.yaml
query:
  nodes:
    n0: { category: "biolink:Gene" }
assertions:
  - type: contains
    text: "'locus' in n0.category"
`), 0o644))

	s, err := LoadScenario(scenarioPath)
	require.NoError(t, err)
	assert.Equal(t, vocabPath, s.Vocabulary)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}
