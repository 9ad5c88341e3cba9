package cypher

import (
	"regexp"
	"strings"

	"github.com/roach88/qcypher/internal/biolink"
	"github.com/roach88/qcypher/internal/qgraph"
)

var (
	categoryPattern  = regexp.MustCompile(`^biolink:[A-Z][A-Za-z0-9]*$`)
	predicatePattern = regexp.MustCompile(`^biolink:[a-z][a-z0-9_]*$`)
)

// formatValue renders a literal property value. Only bools and strings are
// renderable; there is no coercion.
func formatValue(v qgraph.Value) (string, error) {
	switch val := v.(type) {
	case qgraph.Bool:
		if val {
			return "true", nil
		}
		return "false", nil
	case qgraph.String:
		return quote(string(val)), nil
	default:
		return "", &UnsupportedPropertyTypeError{Type: qgraph.TypeName(v)}
	}
}

var (
	singleQuoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	doubleQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
)

// quote renders a single-quoted Cypher string literal.
func quote(s string) string {
	return "'" + singleQuoter.Replace(s) + "'"
}

// doubleQuote renders a double-quoted Cypher string literal.
func doubleQuote(s string) string {
	return `"` + doubleQuoter.Replace(s) + `"`
}

// backtick renders a quoted identifier; embedded backticks are doubled.
func backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// counterpart returns the label in the other naming convention: downgraded
// when it already looks canonical, upgraded otherwise.
func counterpart(t biolink.Translator, canonical *regexp.Regexp, label string) string {
	if canonical.MatchString(label) {
		return t.ToLegacy(label)
	}
	return t.ToCanonical(label)
}
