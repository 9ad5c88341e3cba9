package biolink

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Prefix is the CURIE prefix shared by every canonical label.
const Prefix = "biolink:"

// Translator converts a label into the other naming convention.
//
// ToCanonical upgrades a legacy label; ToLegacy downgrades a canonical one.
// Both return their input unchanged when it is already in the target form.
// Implementations must be safe for concurrent use.
type Translator interface {
	ToCanonical(label string) string
	ToLegacy(label string) string
}

// Vocabulary bundles the category and predicate translators the compiler needs.
type Vocabulary struct {
	Categories Translator
	Predicates Translator
}

// Kind selects the lexical rule a RuleTranslator applies.
type Kind int

const (
	// KindCategory translates "biolink:GeneProduct" <-> "gene_product".
	KindCategory Kind = iota
	// KindPredicate translates "biolink:affects" <-> "affects".
	KindPredicate
)

// String returns the YAML section name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCategory:
		return "categories"
	case KindPredicate:
		return "predicates"
	default:
		return "unknown"
	}
}

// RuleTranslator is a Translator backed by an override table and a lexical
// fallback rule selected by Kind.
//
// Thread-safety: Register may run concurrently with lookups.
type RuleTranslator struct {
	kind Kind

	mu          sync.RWMutex
	toCanonical map[string]string // legacy -> canonical
	toLegacy    map[string]string // canonical -> legacy
}

// NewRuleTranslator creates a translator with an empty override table.
func NewRuleTranslator(kind Kind) *RuleTranslator {
	return &RuleTranslator{
		kind:        kind,
		toCanonical: make(map[string]string),
		toLegacy:    make(map[string]string),
	}
}

// NewCategoryTranslator creates a category translator with no overrides.
func NewCategoryTranslator() *RuleTranslator {
	return NewRuleTranslator(KindCategory)
}

// NewPredicateTranslator creates a predicate translator with no overrides.
func NewPredicateTranslator() *RuleTranslator {
	return NewRuleTranslator(KindPredicate)
}

// Kind returns the lexical rule this translator applies.
func (t *RuleTranslator) Kind() Kind {
	return t.kind
}

// Register adds an override pair. A later registration for the same label
// replaces the earlier one in both directions.
func (t *RuleTranslator) Register(canonical, legacy string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.toLegacy[canonical] = legacy
	t.toCanonical[legacy] = canonical
}

// Len returns the number of registered overrides.
func (t *RuleTranslator) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.toLegacy)
}

// ToCanonical implements Translator.
func (t *RuleTranslator) ToCanonical(label string) string {
	t.mu.RLock()
	canonical, ok := t.toCanonical[label]
	t.mu.RUnlock()
	if ok {
		return canonical
	}
	if strings.HasPrefix(label, Prefix) {
		return label
	}

	switch t.kind {
	case KindCategory:
		return Prefix + t.camelCase(label)
	default:
		return Prefix + snakeCase(label)
	}
}

// ToLegacy implements Translator.
func (t *RuleTranslator) ToLegacy(label string) string {
	t.mu.RLock()
	legacy, ok := t.toLegacy[label]
	t.mu.RUnlock()
	if ok {
		return legacy
	}

	bare := strings.TrimPrefix(label, Prefix)
	switch t.kind {
	case KindCategory:
		return camelToSnake(bare)
	default:
		return bare
	}
}

// camelCase turns "gene_product" or "gene product" into "GeneProduct".
// Casers carry state, so each call gets its own.
func (t *RuleTranslator) camelCase(label string) string {
	words := strings.FieldsFunc(label, func(r rune) bool {
		return r == '_' || r == ' ' || r == '-'
	})
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// snakeCase lowercases a predicate and joins space-separated words with "_".
func snakeCase(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}

// camelToSnake turns "GeneProduct" into "gene_product" and "RNAProduct" into
// "rna_product". A run of capitals is one word; its last capital starts the
// next word when followed by a lowercase letter.
func camelToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
