package cypher

import (
	"fmt"
	"strings"

	"github.com/roach88/qcypher/internal/biolink"
	"github.com/roach88/qcypher/internal/qgraph"
)

// DefaultCategory is matched when a node names no category.
const DefaultCategory = "named_thing"

// RenderState records whether a reference has been emitted yet.
type RenderState int

const (
	// Unrendered: the next Render call includes the full decoration.
	Unrendered RenderState = iota
	// Rendered: Render emits only the variable name.
	Rendered
)

// String returns the state name.
func (s RenderState) String() string {
	switch s {
	case Unrendered:
		return "unrendered"
	case Rendered:
		return "rendered"
	default:
		return "unknown"
	}
}

// NodeReference renders one query-graph node as a pattern variable.
// It belongs to a single compilation and is not safe for concurrent use.
type NodeReference struct {
	name    string
	props   string
	filters string
	state   RenderState
}

func newNodeReference(node qgraph.Node, anonymous bool, categories biolink.Translator) (*NodeReference, error) {
	ref := &NodeReference{}
	if !anonymous {
		ref.name = node.Key
	}

	labels := []string{DefaultCategory}
	if !node.Categories.IsAbsent() {
		labels = node.Categories.Values()
	}

	// A scalar id is a property; a list of ids is a filter.
	var props []string
	var curieFilter string
	switch node.IDs.Kind() {
	case qgraph.FieldScalar:
		curie, _ := node.IDs.Scalar()
		props = append(props, backtick(qgraph.AttrID)+": "+quote(curie))
	case qgraph.FieldMultiple:
		clauses := make([]string, 0, node.IDs.Len())
		for _, curie := range node.IDs.Values() {
			clauses = append(clauses, fmt.Sprintf("%s.id = %s", ref.name, quote(curie)))
		}
		curieFilter = strings.Join(clauses, " OR ")
	}

	for _, p := range node.Properties {
		lit, err := formatValue(p.Value)
		if err != nil {
			return nil, &UnsupportedPropertyTypeError{Node: node.Key, Property: p.Key, Type: qgraph.TypeName(p.Value)}
		}
		props = append(props, backtick(p.Key)+": "+lit)
	}
	ref.props = " {" + strings.Join(props, ", ") + "}"

	labelClauses := make([]string, 0, 2*len(labels))
	for _, label := range labels {
		labelClauses = append(labelClauses,
			fmt.Sprintf("%s in %s.category", quote(label), ref.name),
			fmt.Sprintf("%s in %s.category", quote(counterpart(categories, categoryPattern, label)), ref.name),
		)
	}
	labelFilter := strings.Join(labelClauses, " OR ")

	switch {
	case curieFilter != "" && labelFilter != "":
		ref.filters = "(" + curieFilter + ") AND (" + labelFilter + ")"
	case curieFilter != "":
		ref.filters = curieFilter
	default:
		ref.filters = labelFilter
	}

	return ref, nil
}

// Name returns the variable name, empty for an anonymous node.
func (r *NodeReference) Name() string {
	return r.name
}

// State reports whether the reference has been rendered.
func (r *NodeReference) State() RenderState {
	return r.state
}

// Render returns the name and property block on first use, the bare name after.
func (r *NodeReference) Render() string {
	if r.state == Unrendered {
		r.state = Rendered
		return r.name + r.props
	}
	return r.name
}

// Filters returns the combined curie and label condition, possibly empty.
func (r *NodeReference) Filters() string {
	return r.filters
}

// Extras returns the index hint that follows a rendered node. No hints are
// emitted yet, so it is always empty.
func (r *NodeReference) Extras() string {
	return ""
}
