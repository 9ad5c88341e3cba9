package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcypher/internal/store"
)

const singleGeneMatch = "MATCH (n0 {`id`: 'NCBIGene:1017'}) WHERE 'biolink:Gene' in n0.category OR 'gene' in n0.category"

// compileReport decodes a JSON compile response.
func compileReport(t *testing.T, out string) (CLIResponse, CompileReport) {
	t.Helper()
	var resp struct {
		CLIResponse
		Data CompileReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp.CLIResponse, resp.Data
}

func TestCompile_SingleFileMatch(t *testing.T) {
	out, err := execute(t, nil, "compile", "--mode", "match", filepath.Join("testdata", "queries", "single_gene.yaml"))
	require.NoError(t, err)
	assert.Equal(t, singleGeneMatch+"\n", out)
}

func TestCompile_SingleFileAnswerMap(t *testing.T) {
	out, err := execute(t, nil, "compile", "--skip", "0", "--limit", "25",
		filepath.Join("testdata", "queries", "gene_affects.json"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "MATCH (n0 {`id`: 'NCBIGene:1017'})-[e0:`biolink:affects`]->(n1 {})\n"))
	assert.Contains(t, out, "\nWITH n0 AS n0, n1 AS n1, collect(e0) AS e0\n")
	assert.True(t, strings.HasSuffix(out, " SKIP 0 LIMIT 25\n"))
}

func TestCompile_CUEWithConnectivityCap(t *testing.T) {
	out, err := execute(t, nil, "compile", "--mode", "match", "--max-connectivity", "40",
		filepath.Join("testdata", "queries", "drug_treats.cue"))
	require.NoError(t, err)

	assert.Contains(t, out, "MATCH (drug {`approved`: true})-[treats]->(gene {})")
	assert.Contains(t, out, "(gene.id = 'NCBIGene:1017' OR gene.id = 'NCBIGene:1018') AND ('biolink:Gene' in gene.category OR 'gene' in gene.category)")
	assert.Contains(t, out, `type(treats) = "biolink:affects" OR type(treats) = "affects"`)
	assert.Contains(t, out, "(size( (gene)-[]-() ) < 40)")
}

func TestCompile_Stdin(t *testing.T) {
	in := strings.NewReader("nodes:\n  n0:\n    id: \"NCBIGene:1017\"\n    category: \"biolink:Gene\"\n")
	out, err := execute(t, in, "compile", "-", "--mode", "match", "--input-format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, singleGeneMatch+"\n", out)
}

func TestCompile_Vocabulary(t *testing.T) {
	out, err := execute(t, nil, "--vocabulary", filepath.Join("testdata", "vocab.yaml"),
		"compile", "--mode", "match", filepath.Join("testdata", "queries", "single_gene.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "'locus' in n0.category")
}

func TestCompile_Directory(t *testing.T) {
	out, err := execute(t, nil, "compile", "--mode", "match", filepath.Join("testdata", "queries"))
	require.NoError(t, err)

	// Sorted by path.
	drug := strings.Index(out, "// "+filepath.Join("testdata", "queries", "drug_treats.cue"))
	gene := strings.Index(out, "// "+filepath.Join("testdata", "queries", "gene_affects.json"))
	single := strings.Index(out, "// "+filepath.Join("testdata", "queries", "single_gene.yaml"))
	require.True(t, drug >= 0 && gene >= 0 && single >= 0, out)
	assert.Less(t, drug, gene)
	assert.Less(t, gene, single)
	assert.Contains(t, out, "Compiled 3 of 3 query file(s)")
}

func TestCompile_DirectoryJSONWithFailures(t *testing.T) {
	out, err := execute(t, nil, "--format", "json", "compile", filepath.Join("testdata", "bad"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, report := compileReport(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "3 of 3 query file(s) failed", resp.Error.Message)

	require.Len(t, report.Files, 3)
	byName := map[string]CompileFileResult{}
	for _, f := range report.Files {
		byName[filepath.Base(f.Path)] = f
	}
	assert.Equal(t, "E004", byName["curie_number.json"].Code)
	assert.Equal(t, "malformed_curie_type", byName["curie_number.json"].Kind)
	assert.Empty(t, byName["curie_number.json"].Fingerprint)

	assert.Equal(t, ErrCodeCompileFailed, byName["dangling.json"].Code)
	assert.Equal(t, "dangling_edge_reference", byName["dangling.json"].Kind)
	assert.NotEmpty(t, byName["dangling.json"].Fingerprint)

	assert.Equal(t, "unsupported_property_type", byName["numeric_property.yaml"].Kind)
	assert.Contains(t, byName["numeric_property.yaml"].Error, `property "score" has type float`)
}

func TestCompile_SingleFailureText(t *testing.T) {
	out, err := execute(t, nil, "compile", filepath.Join("testdata", "bad", "dangling.json"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, `Error [E009]: dangling edge reference: edge "e0" object "n7" is not a node`)
}

func TestCompile_CommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"missing file", []string{"compile", "nope.json"}, "E005"},
		{"unsupported extension", []string{"compile", "testdata/vocab.txt"}, "E008"},
		{"bad mode", []string{"compile", "--mode", "table", "testdata/queries/gene_affects.json"}, ErrCodeInvalidFlag},
		{"negative skip", []string{"compile", "--skip", "-3", "testdata/queries/gene_affects.json"}, ErrCodeInvalidFlag},
		{"cap below sentinel", []string{"compile", "--max-connectivity", "-2", "testdata/queries/gene_affects.json"}, ErrCodeInvalidFlag},
		{"missing vocabulary", []string{"--vocabulary", "none.yaml", "compile", "testdata/queries/gene_affects.json"}, ErrCodeVocabulary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, nil, append([]string{"--format", "json"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestCompile_OutputFile(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "query.cypher")
	out, err := execute(t, nil, "compile", "--mode", "match", "-o", outFile,
		filepath.Join("testdata", "queries", "single_gene.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote statement to "+outFile)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, singleGeneMatch+"\n", string(data))
}

func TestCompile_Record(t *testing.T) {
	db := filepath.Join(t.TempDir(), "log.db")
	out, err := execute(t, nil, "--format", "json", "compile", "--record", db, filepath.Join("testdata", "bad"))
	require.Error(t, err)

	_, report := compileReport(t, out)
	recorded := 0
	for _, f := range report.Files {
		if f.ID != "" {
			recorded++
		}
	}
	// The curie_number file never decoded, so it has nothing to record.
	assert.Equal(t, 2, recorded)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	rows, err := st.List(context.Background(), store.ListFilter{FailedOnly: true})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
