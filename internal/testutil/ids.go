package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates compilation IDs "<prefix>-0001", "<prefix>-0002", ...
//
// The same test with a fresh generator always sees the same IDs, which keeps
// golden output stable.
//
// Thread-safety: safe for concurrent use.
type SequentialIDs struct {
	prefix string

	mu  sync.Mutex
	seq int
}

// NewSequentialIDs creates a generator. An empty prefix becomes "test".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "test"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID. It matches the store's ID generator signature.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}
