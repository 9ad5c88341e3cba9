package biolink

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTranslator_Rules(t *testing.T) {
	tr := NewCategoryTranslator()

	tests := []struct {
		name      string
		canonical string
		legacy    string
	}{
		{"single word", "biolink:Gene", "gene"},
		{"two words", "biolink:GeneProduct", "gene_product"},
		{"default label", "biolink:NamedThing", "named_thing"},
		{"three words", "biolink:ChemicalSubstanceEntity", "chemical_substance_entity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.legacy, tr.ToLegacy(tt.canonical))
			assert.Equal(t, tt.canonical, tr.ToCanonical(tt.legacy))
		})
	}
}

func TestCategoryTranslator_Idempotent(t *testing.T) {
	tr := NewCategoryTranslator()

	assert.Equal(t, "biolink:Gene", tr.ToCanonical("biolink:Gene"))
	assert.Equal(t, "gene", tr.ToLegacy("gene"))
}

func TestCategoryTranslator_AcronymDowngrade(t *testing.T) {
	tr := NewCategoryTranslator()

	// The lexical rule keeps a run of capitals together.
	assert.Equal(t, "rna_product", tr.ToLegacy("biolink:RNAProduct"))
	// ...but cannot recover the acronym going the other way.
	assert.Equal(t, "biolink:RnaProduct", tr.ToCanonical("rna_product"))

	tr.Register("biolink:RNAProduct", "rna_product")
	assert.Equal(t, "biolink:RNAProduct", tr.ToCanonical("rna_product"))
}

func TestPredicateTranslator_Rules(t *testing.T) {
	tr := NewPredicateTranslator()

	assert.Equal(t, "affects", tr.ToLegacy("biolink:affects"))
	assert.Equal(t, "biolink:affects", tr.ToCanonical("affects"))
	assert.Equal(t, "biolink:gene_associated_with_condition", tr.ToCanonical("gene associated with condition"))
	assert.Equal(t, "biolink:treats", tr.ToCanonical("biolink:treats"))
	assert.Equal(t, "treats", tr.ToLegacy("treats"))
}

func TestRuleTranslator_RegisterReplaces(t *testing.T) {
	tr := NewPredicateTranslator()
	tr.Register("biolink:interacts_with", "interacts")
	tr.Register("biolink:interacts_with", "interacts_with_legacy")

	assert.Equal(t, "interacts_with_legacy", tr.ToLegacy("biolink:interacts_with"))
	assert.Equal(t, "biolink:interacts_with", tr.ToCanonical("interacts_with_legacy"))
	assert.Equal(t, 1, tr.Len())
}

func TestRuleTranslator_ConcurrentUse(t *testing.T) {
	tr := NewCategoryTranslator()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Register("biolink:SNV", "snv")
				_ = tr.ToCanonical("gene_product")
				_ = tr.ToLegacy("biolink:GeneProduct")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, "biolink:SNV", tr.ToCanonical("snv"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "categories", KindCategory.String())
	assert.Equal(t, "predicates", KindPredicate.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestDefault_AppliesEmbeddedOverrides(t *testing.T) {
	v := Default()

	assert.Equal(t, "biolink:RNAProduct", v.Categories.ToCanonical("rna_product"))
	assert.Equal(t, "microrna", v.Categories.ToLegacy("biolink:MicroRNA"))
	assert.Equal(t, "biolink:Gene", v.Categories.ToCanonical("gene"))
	assert.Equal(t, "affects", v.Predicates.ToLegacy("biolink:affects"))
}

func TestNewVocabulary_LaterSourcesWin(t *testing.T) {
	extra := `
categories:
  biolink:RNAProduct: rna
predicates:
  biolink:treats: treats_legacy
`
	v, err := NewVocabulary(strings.NewReader(extra))
	require.NoError(t, err)

	assert.Equal(t, "rna", v.Categories.ToLegacy("biolink:RNAProduct"))
	assert.Equal(t, "biolink:treats", v.Predicates.ToCanonical("treats_legacy"))
}

func TestParseOverrides(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		o, err := ParseOverrides(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, o.Categories)
		assert.Empty(t, o.Predicates)
	})

	t.Run("unknown section rejected", func(t *testing.T) {
		_, err := ParseOverrides(strings.NewReader("categorys:\n  biolink:Gene: gene\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse vocabulary overrides")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := NewVocabulary(strings.NewReader("categories: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "vocabulary source 1")
	})
}
