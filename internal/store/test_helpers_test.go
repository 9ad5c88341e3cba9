package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/qcypher/internal/testutil"
)

// createTestStore creates a store in a temp dir with a fixed clock and
// sequential IDs.
func createTestStore(t *testing.T) (*Store, *testutil.FixedClock) {
	t.Helper()
	clock := testutil.NewFixedClock()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(clock.Now), WithIDGenerator(testutil.NewSequentialIDs("cmp")))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, clock
}
