package cypher

import (
	"fmt"
	"strings"

	"github.com/roach88/qcypher/internal/biolink"
	"github.com/roach88/qcypher/internal/qgraph"
)

// NoConnectivityCap disables the target-node degree filter.
const NoConnectivityCap = -1

// Options tune a compilation.
type Options struct {
	// MaxConnectivity bounds the relationship count of every edge's target
	// node. Values at or below NoConnectivityCap add no bound.
	MaxConnectivity int
	// Skip and Limit paginate answer-map queries. A nil pointer omits the
	// clause; zero is emitted.
	Skip  *int
	Limit *int
}

// DefaultOptions returns options with no connectivity cap and no pagination.
func DefaultOptions() Options {
	return Options{MaxConnectivity: NoConnectivityCap}
}

// WithSkip returns a copy of o with Skip set.
func (o Options) WithSkip(n int) Options {
	o.Skip = &n
	return o
}

// WithLimit returns a copy of o with Limit set.
func (o Options) WithLimit(n int) Options {
	o.Limit = &n
	return o
}

// Mode selects the statement shape Compile produces.
type Mode string

const (
	// ModeMatch produces the MATCH/WHERE fragment only.
	ModeMatch Mode = "match"
	// ModeAnswerMap produces the full query with WITH and RETURN clauses.
	ModeAnswerMap Mode = "answer_map"
)

// ParseMode converts a flag or request value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMatch, ModeAnswerMap:
		return Mode(s), nil
	case "":
		return ModeAnswerMap, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownMode, s, ModeMatch, ModeAnswerMap)
	}
}

// Compiler translates query graphs into Cypher.
//
// A Compiler holds only its translators. Every call builds fresh references,
// so one Compiler may serve concurrent compilations.
type Compiler struct {
	vocab biolink.Vocabulary
}

// New creates a compiler. A nil translator falls back to the default rules.
func New(vocab biolink.Vocabulary) *Compiler {
	if vocab.Categories == nil || vocab.Predicates == nil {
		def := biolink.Default()
		if vocab.Categories == nil {
			vocab.Categories = def.Categories
		}
		if vocab.Predicates == nil {
			vocab.Predicates = def.Predicates
		}
	}
	return &Compiler{vocab: vocab}
}

// NewDefault creates a compiler using the built-in vocabulary overrides.
func NewDefault() *Compiler {
	return &Compiler{vocab: biolink.Default()}
}

// Compile produces the statement for mode.
func (c *Compiler) Compile(q *qgraph.QGraph, mode Mode, opts Options) (string, error) {
	switch mode {
	case ModeMatch:
		return c.MatchFragment(q, opts)
	case ModeAnswerMap:
		return c.AnswerMapQuery(q, opts)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// MatchFragment renders the MATCH clauses for q: one per orphan node, then
// one per edge, in document order, joined by single spaces.
func (c *Compiler) MatchFragment(q *qgraph.QGraph, opts Options) (string, error) {
	if q == nil {
		return "", fmt.Errorf("cannot compile nil query graph")
	}

	nodes := make(map[string]*NodeReference, len(q.Nodes))
	for _, n := range q.Nodes {
		ref, err := newNodeReference(n, false, c.vocab.Categories)
		if err != nil {
			return "", err
		}
		nodes[n.Key] = ref
	}

	// Endpoints are resolved up front so nothing is emitted for a graph
	// that fails.
	type edgeClause struct {
		ref      *EdgeReference
		src, tgt *NodeReference
	}
	edges := make([]edgeClause, 0, len(q.Edges))
	referenced := make(map[string]bool, len(q.Nodes))
	for _, e := range q.Edges {
		src, ok := nodes[e.Subject]
		if !ok {
			return "", &DanglingEdgeError{Edge: e.Key, Endpoint: qgraph.AttrSubject, Node: e.Subject}
		}
		tgt, ok := nodes[e.Object]
		if !ok {
			return "", &DanglingEdgeError{Edge: e.Key, Endpoint: qgraph.AttrObject, Node: e.Object}
		}
		referenced[e.Subject] = true
		referenced[e.Object] = true
		edges = append(edges, edgeClause{ref: newEdgeReference(e, false, c.vocab.Predicates), src: src, tgt: tgt})
	}

	var clauses []string
	for _, n := range q.Nodes {
		if referenced[n.Key] {
			continue
		}
		ref := nodes[n.Key]
		rendered := ref.Render()
		clauses = append(clauses, "MATCH ("+rendered+")"+ref.Extras())
		if filters := ref.Filters(); filters != "" {
			clauses = append(clauses, "WHERE "+filters)
		}
	}

	for _, e := range edges {
		// Render order decides which occurrence carries the decoration.
		src := e.src.Render()
		rel := e.ref.Render()
		tgt := e.tgt.Render()
		clause := "MATCH (" + src + ")" + rel + "(" + tgt + ")" + e.src.Extras() + e.tgt.Extras()

		var filters []string
		for _, f := range []string{e.src.Filters(), e.tgt.Filters(), e.ref.Filters()} {
			if f != "" {
				filters = append(filters, "("+f+")")
			}
		}
		if opts.MaxConnectivity > NoConnectivityCap {
			filters = append(filters, fmt.Sprintf("(size( (%s)-[]-() ) < %d)", e.tgt.Name(), opts.MaxConnectivity))
		}
		if len(filters) > 0 {
			clause += "\nWHERE " + strings.Join(filters, "\nAND ")
		}
		clauses = append(clauses, clause)
	}

	return strings.Join(clauses, " "), nil
}

// AnswerMapQuery renders the match fragment followed by a WITH projection
// and a RETURN clause describing every node and edge, then pagination.
func (c *Compiler) AnswerMapQuery(q *qgraph.QGraph, opts Options) (string, error) {
	match, err := c.MatchFragment(q, opts)
	if err != nil {
		return "", err
	}

	var clauses []string
	if match != "" {
		clauses = append(clauses, match)
	}

	with := make([]string, 0, len(q.Nodes)+len(q.Edges))
	for _, n := range q.Nodes {
		if n.IsSet {
			with = append(with, fmt.Sprintf("collect(%s) AS %s", n.Key, n.Key))
		} else {
			with = append(with, fmt.Sprintf("%s AS %s", n.Key, n.Key))
		}
	}
	for _, e := range q.Edges {
		with = append(with, fmt.Sprintf("collect(%s) AS %s", e.Key, e.Key))
	}
	if len(with) > 0 {
		clauses = append(clauses, "WITH "+strings.Join(with, ", "))
	}

	ret := append(q.NodeKeys(), q.EdgeKeys()...)
	for _, n := range q.Nodes {
		if n.IsSet {
			ret = append(ret, fmt.Sprintf("[node in %s | labels(node)] AS type__%s", n.Key, n.Key))
		}
	}
	for _, n := range q.Nodes {
		if !n.IsSet {
			ret = append(ret, fmt.Sprintf("labels(%s) AS type__%s", n.Key, n.Key))
		}
	}
	for _, e := range q.Edges {
		ret = append(ret, fmt.Sprintf("[edge in %s | type(edge)] AS type__%s", e.Key, e.Key))
	}
	for _, e := range q.Edges {
		ret = append(ret, fmt.Sprintf("[edge in %s | [startNode(edge).id, endNode(edge).id]] AS id_pairs__%s", e.Key, e.Key))
	}
	clauses = append(clauses, "RETURN "+strings.Join(ret, ", "))

	cypher := strings.Join(clauses, "\n")
	if opts.Skip != nil {
		cypher += fmt.Sprintf(" SKIP %d", *opts.Skip)
	}
	if opts.Limit != nil {
		cypher += fmt.Sprintf(" LIMIT %d", *opts.Limit)
	}
	return cypher, nil
}
