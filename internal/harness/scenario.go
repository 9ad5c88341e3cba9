package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qcypher/internal/biolink"
	"github.com/roach88/qcypher/internal/cypher"
	"github.com/roach88/qcypher/internal/loader"
	"github.com/roach88/qcypher/internal/qgraph"
)

// Scenario is one compile case with its expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Mode is "match" or "answer_map". Empty means answer_map.
	Mode string `yaml:"mode,omitempty"`

	// Options are passed to the compiler.
	Options ScenarioOptions `yaml:"options,omitempty"`

	// Vocabulary is an optional override file for the translators.
	Vocabulary string `yaml:"vocabulary,omitempty"`

	// Query is an inline query graph. Exactly one of Query and QueryFile is set.
	Query yaml.Node `yaml:"query,omitempty"`

	// QueryFile is a JSON, YAML or CUE query graph file.
	QueryFile string `yaml:"query_file,omitempty"`

	// Assertions validate the compiled statement or the error.
	Assertions []Assertion `yaml:"assertions"`
}

// ScenarioOptions mirror cypher.Options; nil fields take the defaults.
type ScenarioOptions struct {
	MaxConnectivity *int `yaml:"max_connectivity,omitempty"`
	Skip            *int `yaml:"skip,omitempty"`
	Limit           *int `yaml:"limit,omitempty"`
}

// CompileOptions converts to compiler options.
func (o ScenarioOptions) CompileOptions() cypher.Options {
	opts := cypher.DefaultOptions()
	if o.MaxConnectivity != nil {
		opts.MaxConnectivity = *o.MaxConnectivity
	}
	opts.Skip = o.Skip
	opts.Limit = o.Limit
	return opts
}

// Assertion validates one aspect of a scenario result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Text is the fragment for contains, not_contains, count and equals.
	Text string `yaml:"text,omitempty"`

	// Texts are the fragments for order.
	Texts []string `yaml:"texts,omitempty"`

	// Count is the expected number of occurrences for count.
	Count int `yaml:"count,omitempty"`

	// Error is the expected error kind for error.
	Error string `yaml:"error,omitempty"`
}

// Assertion type constants.
const (
	AssertContains    = "contains"
	AssertNotContains = "not_contains"
	AssertCount       = "count"
	AssertOrder       = "order"
	AssertEquals      = "equals"
	AssertError       = "error"
)

// LoadScenario reads and parses a scenario YAML file. Relative query_file
// and vocabulary paths are resolved against the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	if scenario.QueryFile != "" && !filepath.IsAbs(scenario.QueryFile) {
		scenario.QueryFile = filepath.Join(base, scenario.QueryFile)
	}
	if scenario.Vocabulary != "" && !filepath.IsAbs(scenario.Vocabulary) {
		scenario.Vocabulary = filepath.Join(base, scenario.Vocabulary)
	}

	for _, p := range []string{scenario.QueryFile, scenario.Vocabulary} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: file not found: %s", p)
		}
	}

	return scenario, nil
}

// ParseScenario decodes a scenario document with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// QGraph decodes the scenario's query graph. Decode failures are returned
// as is so that error assertions can match them.
func (s *Scenario) QGraph() (*qgraph.QGraph, error) {
	if s.QueryFile != "" {
		return loader.Load(s.QueryFile)
	}
	root, err := qgraph.FromYAMLNode(&s.Query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	obj, ok := root.(qgraph.Object)
	if !ok {
		return nil, fmt.Errorf("%w: query is %s, want mapping", qgraph.ErrMalformedDocument, qgraph.TypeName(root))
	}
	return qgraph.FromObject(obj)
}

// Vocab returns the translators for this scenario.
func (s *Scenario) Vocab() (biolink.Vocabulary, error) {
	if s.Vocabulary == "" {
		return biolink.Default(), nil
	}
	f, err := os.Open(s.Vocabulary)
	if err != nil {
		return biolink.Vocabulary{}, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()
	return biolink.NewVocabulary(f)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	hasInline := s.Query.Kind != 0
	switch {
	case hasInline && s.QueryFile != "":
		return fmt.Errorf("query and query_file are mutually exclusive")
	case !hasInline && s.QueryFile == "":
		return fmt.Errorf("query or query_file is required")
	}

	if _, err := cypher.ParseMode(s.Mode); err != nil {
		return fmt.Errorf("mode: %w", err)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertContains, AssertNotContains, AssertEquals:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
	case AssertCount:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for count", index)
		}
	case AssertOrder:
		if len(a.Texts) < 2 {
			return fmt.Errorf("assertions[%d]: texts needs at least two entries for order", index)
		}
	case AssertError:
		if a.Error == "" {
			return fmt.Errorf("assertions[%d]: error kind is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
