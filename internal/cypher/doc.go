// Package cypher compiles a query graph into a Cypher statement.
//
// The compiler builds one reference per node and edge, then emits:
//
//	MATCH (n0 {`id`: 'NCBIGene:1017'}) WHERE 'biolink:Gene' in n0.category OR 'gene' in n0.category
//
// for every orphan node (a node no edge touches), and
//
//	MATCH (n0 {})-[e0:`biolink:affects`]->(n1 {})
//	WHERE (...)
//	AND (...)
//
// for every edge, in document order. A node or edge carries its property
// block and relationship label only the first time it is rendered; later
// occurrences use the bare variable name.
//
// AnswerMapQuery appends a WITH projection that collects set nodes and all
// edges, and a RETURN clause listing every variable, its labels or type, and
// each edge's endpoint id pairs.
//
// Category and predicate labels are matched in both biolink conventions.
// The compiler decides which direction to translate by testing the label
// against the canonical pattern, then asks the injected biolink.Translator.
//
// Reference objects are built fresh for every call and never shared, so a
// Compiler is safe for concurrent use.
package cypher
