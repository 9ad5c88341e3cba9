package cypher

import (
	"fmt"
	"strings"

	"github.com/roach88/qcypher/internal/biolink"
	"github.com/roach88/qcypher/internal/qgraph"
)

// EdgeReference renders one query-graph edge as a relationship pattern.
// It belongs to a single compilation and is not safe for concurrent use.
type EdgeReference struct {
	name     string
	label    string
	filters  string
	directed bool
	state    RenderState
}

func newEdgeReference(edge qgraph.Edge, anonymous bool, predicates biolink.Translator) *EdgeReference {
	ref := &EdgeReference{}
	if !anonymous {
		ref.name = edge.Key
	}

	switch edge.Predicates.Kind() {
	case qgraph.FieldScalar:
		ref.label, _ = edge.Predicates.Scalar()
	case qgraph.FieldMultiple:
		clauses := make([]string, 0, 2*edge.Predicates.Len())
		for _, pred := range edge.Predicates.Values() {
			clauses = append(clauses,
				fmt.Sprintf("type(%s) = %s", ref.name, doubleQuote(pred)),
				fmt.Sprintf("type(%s) = %s", ref.name, doubleQuote(counterpart(predicates, predicatePattern, pred))),
			)
		}
		ref.filters = strings.Join(clauses, " OR ")
	}

	if edge.Directed != nil {
		ref.directed = *edge.Directed
	} else {
		ref.directed = !edge.Predicates.IsAbsent()
	}

	return ref
}

// Name returns the variable name, empty for an anonymous edge.
func (r *EdgeReference) Name() string {
	return r.name
}

// State reports whether the reference has been rendered.
func (r *EdgeReference) State() RenderState {
	return r.state
}

// Directed reports whether the relationship pattern carries an arrow.
func (r *EdgeReference) Directed() bool {
	return r.directed
}

// Render returns the relationship pattern. The type label appears only on first use.
func (r *EdgeReference) Render() string {
	inner := r.name
	if r.state == Unrendered {
		r.state = Rendered
		if r.label != "" {
			inner += ":" + backtick(r.label)
		}
	}
	if r.directed {
		return "-[" + inner + "]->"
	}
	return "-[" + inner + "]-"
}

// Filters returns the predicate condition, possibly empty.
func (r *EdgeReference) Filters() string {
	return r.filters
}
