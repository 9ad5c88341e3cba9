package cypher

import (
	"errors"
	"fmt"

	"github.com/roach88/qcypher/internal/qgraph"
)

var (
	// ErrUnsupportedPropertyType: a literal property is neither a string nor a bool.
	ErrUnsupportedPropertyType = errors.New("unsupported property type")
	// ErrDanglingEdgeReference: an edge endpoint names a node the graph does not have.
	ErrDanglingEdgeReference = errors.New("dangling edge reference")
	// ErrUnknownMode: Compile was asked for a mode it does not know.
	ErrUnknownMode = errors.New("unknown compile mode")
)

// UnsupportedPropertyTypeError reports a property value the formatter cannot render.
type UnsupportedPropertyTypeError struct {
	Node     string
	Property string
	Type     string
}

func (e *UnsupportedPropertyTypeError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("%s: %s", ErrUnsupportedPropertyType, e.Type)
	}
	return fmt.Sprintf("%s: node %q property %q has type %s", ErrUnsupportedPropertyType, e.Node, e.Property, e.Type)
}

func (e *UnsupportedPropertyTypeError) Unwrap() error {
	return ErrUnsupportedPropertyType
}

// DanglingEdgeError reports an edge whose subject or object is not a node.
type DanglingEdgeError struct {
	Edge     string
	Endpoint string // "subject" or "object"
	Node     string
}

func (e *DanglingEdgeError) Error() string {
	return fmt.Sprintf("%s: edge %q %s %q is not a node", ErrDanglingEdgeReference, e.Edge, e.Endpoint, e.Node)
}

func (e *DanglingEdgeError) Unwrap() error {
	return ErrDanglingEdgeReference
}

var errorKinds = []struct {
	kind string
	err  error
}{
	{"unsupported_property_type", ErrUnsupportedPropertyType},
	{"dangling_edge_reference", ErrDanglingEdgeReference},
	{"unknown_mode", ErrUnknownMode},
	{"malformed_curie_type", qgraph.ErrMalformedCurieType},
	{"malformed_category_type", qgraph.ErrMalformedCategoryType},
	{"malformed_predicate_type", qgraph.ErrMalformedPredicateType},
	{"malformed_attribute", qgraph.ErrMalformedAttribute},
	{"duplicate_key", qgraph.ErrDuplicateKey},
	{"malformed_document", qgraph.ErrMalformedDocument},
}

// ErrorKind names the failure class of an error returned while decoding or
// compiling a query graph: "dangling_edge_reference", "malformed_curie_type"
// and so on. It returns "" for nil and "error" for anything unrecognised.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "error"
}
