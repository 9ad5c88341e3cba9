package qgraph

import "fmt"

// Validation error codes (E200-E299)
const (
	ErrCodeDanglingEdge     = "E201" // edge endpoint names no node
	ErrCodeEmptyKey         = "E202" // node or edge key is empty
	ErrCodeDuplicateKey     = "E203" // node or edge key appears twice
	ErrCodeUnsupportedValue = "E204" // literal property is neither string nor bool
	ErrCodeEmptyList        = "E205" // list-valued field holds no values
	ErrCodeEmptyListMember  = "E206" // list-valued field holds an empty string
)

// ValidationError is one finding from Validate.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a query graph for problems the compiler would otherwise
// only meet halfway through emitting a statement. It returns every finding
// rather than stopping at the first one.
//
// The compiler does not call Validate; callers that accept untrusted input
// run it first.
func Validate(q *QGraph) []ValidationError {
	v := &validator{}

	nodeKeys := make(map[string]bool, len(q.Nodes))
	for _, n := range q.Nodes {
		field := "nodes." + n.Key
		if n.Key == "" {
			v.add("nodes", ErrCodeEmptyKey, "node key is empty")
		} else if nodeKeys[n.Key] {
			v.add(field, ErrCodeDuplicateKey, "node key appears more than once")
		}
		nodeKeys[n.Key] = true

		v.checkField(field+".id", n.IDs)
		v.checkField(field+".category", n.Categories)
		for _, p := range n.Properties {
			switch p.Value.(type) {
			case String, Bool:
			default:
				v.add(field+"."+p.Key, ErrCodeUnsupportedValue,
					fmt.Sprintf("property value has type %s, only string and bool are supported", TypeName(p.Value)))
			}
		}
	}

	edgeKeys := make(map[string]bool, len(q.Edges))
	for _, e := range q.Edges {
		field := "edges." + e.Key
		if e.Key == "" {
			v.add("edges", ErrCodeEmptyKey, "edge key is empty")
		} else if edgeKeys[e.Key] {
			v.add(field, ErrCodeDuplicateKey, "edge key appears more than once")
		}
		edgeKeys[e.Key] = true

		if !nodeKeys[e.Subject] {
			v.add(field+".subject", ErrCodeDanglingEdge, fmt.Sprintf("subject %q is not a node", e.Subject))
		}
		if !nodeKeys[e.Object] {
			v.add(field+".object", ErrCodeDanglingEdge, fmt.Sprintf("object %q is not a node", e.Object))
		}
		v.checkField(field+".predicate", e.Predicates)
	}

	return v.errs
}

type validator struct {
	errs []ValidationError
}

func (v *validator) add(field, code, message string) {
	v.errs = append(v.errs, ValidationError{Field: field, Message: message, Code: code})
}

func (v *validator) checkField(field string, f Field) {
	if f.Kind() != FieldMultiple {
		return
	}
	if f.Len() == 0 {
		v.add(field, ErrCodeEmptyList, "list is empty")
		return
	}
	for i, s := range f.Values() {
		if s == "" {
			v.add(fmt.Sprintf("%s[%d]", field, i), ErrCodeEmptyListMember, "list member is empty")
		}
	}
}
