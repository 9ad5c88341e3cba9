package qgraph

import (
	"errors"
	"fmt"
)

// Sentinel errors for decode failures. Use errors.Is to test for them.
var (
	// ErrMalformedCurieType: a node id is neither a string nor a list of strings.
	ErrMalformedCurieType = errors.New("malformed curie type")
	// ErrMalformedCategoryType: a node category is neither a string nor a list of strings.
	ErrMalformedCategoryType = errors.New("malformed category type")
	// ErrMalformedPredicateType: an edge predicate is neither a string nor a list of strings.
	ErrMalformedPredicateType = errors.New("malformed predicate type")
	// ErrMalformedAttribute: a fixed attribute (is_set, name, subject, ...) has the wrong type or is missing.
	ErrMalformedAttribute = errors.New("malformed attribute")
	// ErrDuplicateKey: a node, edge or attribute key appears twice.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrMalformedDocument: the document is not a query graph.
	ErrMalformedDocument = errors.New("malformed query graph document")
)

// MalformedFieldError reports an attribute whose value has the wrong type.
type MalformedFieldError struct {
	Owner string // node or edge key
	Field string // attribute name
	Type  string // type actually found
	kind  error
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("%s: %q.%s has type %s", e.kind, e.Owner, e.Field, e.Type)
}

func (e *MalformedFieldError) Unwrap() error {
	return e.kind
}

// DuplicateKeyError reports a key that appears more than once in one scope.
type DuplicateKeyError struct {
	Scope string // "node", "edge" or "attribute of <key>"
	Key   string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate %s key %q", e.Scope, e.Key)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}
