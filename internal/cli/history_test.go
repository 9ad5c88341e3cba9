package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordQueries(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "log.db")
	_, err := execute(t, nil, "compile", "--mode", "match", "--record", db, filepath.Join("testdata", "queries"))
	require.NoError(t, err)
	_, err = execute(t, nil, "compile", "--record", db, filepath.Join("testdata", "bad", "dangling.json"))
	require.Error(t, err)
	return db
}

func TestHistory_JSON(t *testing.T) {
	db := recordQueries(t)

	out, err := execute(t, nil, "--format", "json", "history", "--db", db)
	require.NoError(t, err)

	var resp struct {
		CLIResponse
		Data []HistoryEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Len(t, resp.Data, 4)

	// Newest first.
	assert.Equal(t, filepath.Join("testdata", "bad", "dangling.json"), resp.Data[0].Source)
	assert.Equal(t, "answer_map", resp.Data[0].Mode)
	assert.NotEmpty(t, resp.Data[0].Error)
	assert.Equal(t, "dangling_edge_reference", resp.Data[0].Kind)
	assert.Equal(t, "match", resp.Data[1].Mode)
	assert.NotEmpty(t, resp.Data[1].Cypher)
}

func TestHistory_Filters(t *testing.T) {
	db := recordQueries(t)

	out, err := execute(t, nil, "history", "--db", db, "--failed")
	require.NoError(t, err)
	assert.Contains(t, out, "✗ ")
	assert.Contains(t, out, "[dangling_edge_reference] ")
	assert.Contains(t, out, "dangling edge reference")
	assert.NotContains(t, out, "✓ ")

	out, err = execute(t, nil, "history", "--db", db, "--kind", "unsupported_property_type")
	require.NoError(t, err)
	assert.Contains(t, out, "No compilations recorded.")

	out, err = execute(t, nil, "history", "--db", db, "--source", "elsewhere.json")
	require.NoError(t, err)
	assert.Contains(t, out, "No compilations recorded.")

	out, err = execute(t, nil, "--format", "json", "history", "--db", db, "--limit", "1")
	require.NoError(t, err)
	var resp struct {
		Data []HistoryEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestHistory_MissingDatabase(t *testing.T) {
	_, err := execute(t, nil, "history", "--db", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistory_RequiresDB(t *testing.T) {
	_, err := execute(t, nil, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}
