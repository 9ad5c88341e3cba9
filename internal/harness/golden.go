package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenContent is the text a golden file holds for a result: the
// statement, or "error: <kind>: <message>" when compilation failed. Both
// end with a newline.
func GoldenContent(result *Result) []byte {
	if result.Err != nil {
		return []byte(fmt.Sprintf("error: %s: %s\n", result.ErrorKind, result.ErrorMessage))
	}
	return []byte(result.Cypher + "\n")
}

// RunWithGolden executes a scenario and compares its output against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot be executed. Test failure (via
// goldie) occurs if the output doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, GoldenContent(result))
}

// GoldenPath returns where the CLI keeps the golden file for a scenario
// file: golden/<base>.golden next to the scenario.
func GoldenPath(scenarioPath string) string {
	base := filepath.Base(scenarioPath)
	base = base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(filepath.Dir(scenarioPath), "golden", base+".golden")
}

// CompareGolden reports whether the golden file at path matches the result.
// A missing golden file is an error.
func CompareGolden(path string, result *Result) (bool, error) {
	want, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read golden file: %w", err)
	}
	return bytes.Equal(want, GoldenContent(result)), nil
}

// UpdateGolden writes the result's golden content to path, creating the
// directory if needed.
func UpdateGolden(path string, result *Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create golden dir: %w", err)
	}
	if err := os.WriteFile(path, GoldenContent(result), 0o644); err != nil {
		return fmt.Errorf("write golden file: %w", err)
	}
	return nil
}
