package testutil

import "github.com/roach88/qcypher/internal/qgraph"

// SingleGene is one gene node pinned to a curie, with no edges.
func SingleGene() *qgraph.QGraph {
	return &qgraph.QGraph{
		Nodes: []qgraph.Node{
			{Key: "n0", IDs: qgraph.Scalar("NCBIGene:1017"), Categories: qgraph.Scalar("biolink:Gene")},
		},
	}
}

// GeneAffects is two nodes joined by a biolink:affects edge.
func GeneAffects() *qgraph.QGraph {
	return &qgraph.QGraph{
		Nodes: []qgraph.Node{
			{Key: "n0", Categories: qgraph.Scalar("biolink:Gene")},
			{Key: "n1", Categories: qgraph.Scalar("biolink:ChemicalSubstance")},
		},
		Edges: []qgraph.Edge{
			{Key: "e0", Subject: "n0", Object: "n1", Predicates: qgraph.Scalar("biolink:affects")},
		},
	}
}

// SharedHub is a chain n0-e0->n1-e1->n2 where n1 appears in both edges.
func SharedHub() *qgraph.QGraph {
	return &qgraph.QGraph{
		Nodes: []qgraph.Node{
			{Key: "n0", IDs: qgraph.Scalar("MONDO:0005148")},
			{Key: "n1", Categories: qgraph.Scalar("biolink:Gene"), Properties: []qgraph.Property{{Key: "approved", Value: qgraph.Bool(true)}}},
			{Key: "n2", Categories: qgraph.Multiple("chemical_substance", "biolink:Drug"), IsSet: true},
		},
		Edges: []qgraph.Edge{
			{Key: "e0", Subject: "n0", Object: "n1"},
			{Key: "e1", Subject: "n1", Object: "n2", Predicates: qgraph.Multiple("biolink:treats", "interacts_with")},
		},
	}
}
