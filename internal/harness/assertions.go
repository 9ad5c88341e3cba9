package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the compiled statement to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Cypher   string // Compiled statement for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Cypher != "" {
		fmt.Fprintf(&buf, "\nStatement:\n")
		for _, line := range strings.Split(e.Cypher, "\n") {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the result and returns
// the failure messages. All assertions run; evaluation does not stop at the
// first failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	if a.Type == AssertError {
		return assertError(result, a)
	}
	if result.Err != nil {
		return &AssertionError{
			Type:     a.Type,
			Expected: "successful compilation",
			Actual:   fmt.Sprintf("%s: %v", result.ErrorKind, result.Err),
		}
	}

	switch a.Type {
	case AssertContains:
		return assertContains(result.Cypher, a)
	case AssertNotContains:
		return assertNotContains(result.Cypher, a)
	case AssertCount:
		return assertCount(result.Cypher, a)
	case AssertOrder:
		return assertOrder(result.Cypher, a)
	case AssertEquals:
		return assertEquals(result.Cypher, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertContains checks that the statement includes the text.
func assertContains(cypher string, a Assertion) error {
	if strings.Contains(cypher, a.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertContains,
		Expected: fmt.Sprintf("statement contains %q", a.Text),
		Actual:   "not found",
		Cypher:   cypher,
	}
}

// assertNotContains checks that the statement does not include the text.
func assertNotContains(cypher string, a Assertion) error {
	if !strings.Contains(cypher, a.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertNotContains,
		Expected: fmt.Sprintf("statement does not contain %q", a.Text),
		Actual:   fmt.Sprintf("found at offset %d", strings.Index(cypher, a.Text)),
		Cypher:   cypher,
	}
}

// assertCount checks that the text occurs exactly the expected number of
// times. Occurrences do not overlap.
func assertCount(cypher string, a Assertion) error {
	count := strings.Count(cypher, a.Text)
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertCount,
		Expected: fmt.Sprintf("%d occurrences of %q", a.Count, a.Text),
		Actual:   fmt.Sprintf("%d occurrences", count),
		Cypher:   cypher,
	}
}

// assertOrder checks that the texts appear in order. They don't need to be
// adjacent; each search starts after the previous match.
func assertOrder(cypher string, a Assertion) error {
	offset := 0
	for i, text := range a.Texts {
		idx := strings.Index(cypher[offset:], text)
		if idx < 0 {
			actual := fmt.Sprintf("missing %q", text)
			if i > 0 && strings.Contains(cypher, text) {
				actual = fmt.Sprintf("%q appears only before %q", text, a.Texts[i-1])
			}
			return &AssertionError{
				Type:     AssertOrder,
				Expected: fmt.Sprintf("fragments in order: %q", a.Texts),
				Actual:   actual,
				Cypher:   cypher,
			}
		}
		offset += idx + len(text)
	}
	return nil
}

// assertEquals compares the whole statement, ignoring surrounding whitespace.
func assertEquals(cypher string, a Assertion) error {
	want := strings.TrimSpace(a.Text)
	got := strings.TrimSpace(cypher)
	if got == want {
		return nil
	}
	return &AssertionError{
		Type:     AssertEquals,
		Expected: want,
		Actual:   got,
	}
}

// assertError checks that the scenario failed with the named error kind.
func assertError(result *Result, a Assertion) error {
	if result.Err == nil {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("error of kind %s", a.Error),
			Actual:   "compiled successfully",
			Cypher:   result.Cypher,
		}
	}
	if result.ErrorKind != a.Error {
		return &AssertionError{
			Type:     AssertError,
			Expected: fmt.Sprintf("error of kind %s", a.Error),
			Actual:   fmt.Sprintf("%s: %v", result.ErrorKind, result.Err),
		}
	}
	return nil
}
