package biolink

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed overrides.yaml
var defaultOverrides []byte

// Overrides is the YAML document shape for translator overrides.
// Keys are canonical labels, values are legacy labels.
type Overrides struct {
	Categories map[string]string `yaml:"categories"`
	Predicates map[string]string `yaml:"predicates"`
}

// ParseOverrides decodes an override document. Unknown top-level keys are
// rejected so that a misspelled section does not silently do nothing.
func ParseOverrides(r io.Reader) (*Overrides, error) {
	var o Overrides
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		if errors.Is(err, io.EOF) {
			return &Overrides{}, nil
		}
		return nil, fmt.Errorf("parse vocabulary overrides: %w", err)
	}
	return &o, nil
}

// Apply registers the overrides on the given translators in sorted key order.
func (o *Overrides) Apply(categories, predicates *RuleTranslator) {
	register(categories, o.Categories)
	register(predicates, o.Predicates)
}

func register(t *RuleTranslator, pairs map[string]string) {
	if t == nil || len(pairs) == 0 {
		return
	}
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, canonical := range keys {
		t.Register(canonical, pairs[canonical])
	}
}

// NewVocabulary builds rule translators seeded with the embedded overrides,
// then applies each extra source in order. Later sources win.
func NewVocabulary(sources ...io.Reader) (Vocabulary, error) {
	categories := NewCategoryTranslator()
	predicates := NewPredicateTranslator()

	all := append([]io.Reader{bytes.NewReader(defaultOverrides)}, sources...)
	for i, src := range all {
		o, err := ParseOverrides(src)
		if err != nil {
			return Vocabulary{}, fmt.Errorf("vocabulary source %d: %w", i, err)
		}
		o.Apply(categories, predicates)
	}

	return Vocabulary{Categories: categories, Predicates: predicates}, nil
}

// Default returns the rule translators with only the embedded overrides.
// It panics if the embedded table is malformed, which is a build defect.
func Default() Vocabulary {
	v, err := NewVocabulary()
	if err != nil {
		panic(err)
	}
	return v
}
