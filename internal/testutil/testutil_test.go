package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qcypher/internal/qgraph"
)

func TestFixedClock_AdvanceAndReset(t *testing.T) {
	clock := NewFixedClock()
	assert.Equal(t, Epoch, clock.Now())

	clock.Advance(time.Second)
	clock.Advance(time.Minute)
	assert.Equal(t, Epoch.Add(61*time.Second), clock.Now())

	clock.Reset()
	assert.Equal(t, Epoch, clock.Now())
}

func TestSequentialIDs(t *testing.T) {
	gen := NewSequentialIDs("cmp")
	assert.Equal(t, "cmp-0001", gen.Generate())
	assert.Equal(t, "cmp-0002", gen.Generate())

	assert.Equal(t, "test-0001", NewSequentialIDs("").Generate())
}

func TestSequentialIDs_ConcurrentUnique(t *testing.T) {
	gen := NewSequentialIDs("")
	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := gen.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 500)
}

func TestStubTranslator_RecordsCalls(t *testing.T) {
	stub := NewStubTranslator()
	stub.Legacy["biolink:Gene"] = "gene"

	assert.Equal(t, "gene", stub.ToLegacy("biolink:Gene"))
	assert.Equal(t, "up(drug)", stub.ToCanonical("drug"))
	assert.Equal(t, "down(biolink:Drug)", stub.ToLegacy("biolink:Drug"))

	assert.Equal(t, []Call{
		{Method: "ToLegacy", Label: "biolink:Gene"},
		{Method: "ToCanonical", Label: "drug"},
		{Method: "ToLegacy", Label: "biolink:Drug"},
	}, stub.Calls())
}

func TestFixtures_AreValid(t *testing.T) {
	for name, q := range map[string]*qgraph.QGraph{
		"SingleGene":  SingleGene(),
		"GeneAffects": GeneAffects(),
		"SharedHub":   SharedHub(),
	} {
		t.Run(name, func(t *testing.T) {
			require.NotNil(t, q)
			assert.Empty(t, qgraph.Validate(q))
		})
	}
}
