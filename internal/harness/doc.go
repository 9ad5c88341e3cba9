// Package harness runs compile scenarios written in YAML.
//
// # Scenario Format
//
//	name: gene_affects
//	description: "Two gene nodes joined by one predicate"
//	mode: answer_map            # or match; defaults to answer_map
//	options:
//	  max_connectivity: 3
//	  skip: 10
//	  limit: 5
//	vocabulary: overrides.yaml  # optional, relative to the scenario file
//	query:                      # or query_file: ../queries/gene.json
//	  nodes:
//	    n0: { category: biolink:Gene, id: "NCBIGene:1017" }
//	    n1: { category: biolink:Disease }
//	  edges:
//	    e0: { subject: n0, object: n1, predicate: biolink:affects }
//	assertions:
//	  - type: contains
//	    text: "-[e0:`biolink:affects`]->"
//	  - type: count
//	    text: "MATCH ("
//	    count: 1
//
// Inline queries keep their YAML key order, which decides clause order in
// the compiled statement.
//
// # Assertion Types
//
//   - contains / not_contains: the statement does or does not include text
//   - count: text occurs exactly count times
//   - order: every entry of texts occurs, in the given order
//   - equals: the statement is exactly text (surrounding whitespace trimmed)
//   - error: decoding or compiling failed with the named kind, such as
//     dangling_edge_reference or unsupported_property_type
//
// A scenario whose query fails without an error assertion fails.
//
// # Golden Files
//
// RunWithGolden compares the compiled statement (or the error kind and
// message) with testdata/golden/<name>.golden through goldie. The CLI test
// command keeps golden files next to the scenarios, in golden/<file>.golden.
package harness
