package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stmt = "MATCH (n0 {})-[e0]->(n1 {})\nWHERE (a)\nAND (b) MATCH (n1)-[e1]->(n2 {})\nRETURN n0"

func TestEvaluateAssertions(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"contains", Assertion{Type: AssertContains, Text: "(n1)-[e1]->"}, ""},
		{"contains missing", Assertion{Type: AssertContains, Text: "LIMIT"}, `statement contains "LIMIT"`},
		{"not contains", Assertion{Type: AssertNotContains, Text: "SKIP"}, ""},
		{"not contains found", Assertion{Type: AssertNotContains, Text: "WHERE"}, "found at offset 28"},
		{"count", Assertion{Type: AssertCount, Text: "MATCH (", Count: 2}, ""},
		{"count zero", Assertion{Type: AssertCount, Text: "WITH", Count: 0}, ""},
		{"count wrong", Assertion{Type: AssertCount, Text: "AND", Count: 2}, "1 occurrences"},
		{"order", Assertion{Type: AssertOrder, Texts: []string{"WHERE", "MATCH (n1)", "RETURN"}}, ""},
		{"order reversed", Assertion{Type: AssertOrder, Texts: []string{"RETURN", "WHERE"}}, `"WHERE" appears only before "RETURN"`},
		{"order missing", Assertion{Type: AssertOrder, Texts: []string{"MATCH", "LIMIT"}}, `missing "LIMIT"`},
		{"equals", Assertion{Type: AssertEquals, Text: "  " + stmt + "\n"}, ""},
		{"equals differs", Assertion{Type: AssertEquals, Text: "MATCH"}, "Expected: MATCH"},
		{"error on success", Assertion{Type: AssertError, Error: "dangling_edge_reference"}, "compiled successfully"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewResult("t")
			result.Cypher = stmt

			errs := EvaluateAssertions(result, []Assertion{tt.assertion})
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.wantErr)
		})
	}
}

func TestEvaluateAssertions_AgainstError(t *testing.T) {
	result := NewResult("t")
	result.setErr(errors.New("boom"))

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertError, Error: "error"},
		{Type: AssertError, Error: "dangling_edge_reference"},
		{Type: AssertContains, Text: "MATCH"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "assertion 1 (error)")
	assert.Contains(t, errs[0], "error: boom")
	assert.Contains(t, errs[1], "assertion 2 (contains)")
	assert.Contains(t, errs[1], "successful compilation")
}

func TestAssertionError_IncludesStatement(t *testing.T) {
	err := &AssertionError{Type: AssertContains, Expected: "x", Actual: "y", Cypher: "MATCH (a)\nRETURN a"}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: contains")
	assert.Contains(t, msg, "Statement:\n  MATCH (a)\n  RETURN a\n")
}
