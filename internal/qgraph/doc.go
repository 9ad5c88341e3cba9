// Package qgraph defines the query-graph model the compiler consumes.
//
// A QGraph is an ordered set of named nodes and named edges. Slice order is
// the insertion order of the source document and fixes the order in which
// the compiler emits clauses, so the same document always compiles to the
// same text.
//
// Fields that may be either a single string or a list of strings (node ids,
// categories, edge predicates) are resolved once, at decode time, into the
// Field variant: Absent, Scalar or Multiple.
//
// Literal property constraints keep their Value exactly as decoded. Only
// strings and booleans can be rendered; the compiler rejects anything else
// when it formats the property block, and Validate reports it up front.
//
// This package imports nothing internal.
package qgraph
