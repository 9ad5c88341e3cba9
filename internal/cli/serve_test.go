package cli

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	assert.Equal(t, ":8080", serveCmd.Flags().Lookup("addr").DefValue)
	require.NotNil(t, serveCmd.Flags().Lookup("record"))
}

func TestNewServer_UsesVocabularyAndStore(t *testing.T) {
	opts := &ServeOptions{
		RootOptions: &RootOptions{Format: "text", Vocabulary: filepath.Join("testdata", "vocab.yaml")},
		Record:      filepath.Join(t.TempDir(), "serve.db"),
	}
	srv, cleanup, err := newServer(opts, &cobra.Command{})
	require.NoError(t, err)
	defer cleanup()

	body := `{"mode": "match", "query_graph": {"nodes": {"n0": {"category": "biolink:Gene"}}}}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/compile", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "'locus' in n0.category")
	assert.Contains(t, rec.Body.String(), `"id":`)
}

func TestNewServer_BadVocabulary(t *testing.T) {
	opts := &ServeOptions{RootOptions: &RootOptions{Format: "text", Vocabulary: "missing.yaml"}}
	_, _, err := newServer(opts, &cobra.Command{})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
