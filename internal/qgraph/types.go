package qgraph

// Default attribute names in query graph documents.
const (
	AttrID        = "id"
	AttrCategory  = "category"
	AttrIsSet     = "is_set"
	AttrName      = "name"
	AttrSubject   = "subject"
	AttrObject    = "object"
	AttrPredicate = "predicate"
	AttrDirected  = "directed"
)

// QGraph is a query graph. Slice order is insertion order.
type QGraph struct {
	Nodes []Node
	Edges []Edge
}

// Node is one queried node.
type Node struct {
	Key        string
	IDs        Field      // curie constraint
	Categories Field      // category labels to match
	IsSet      bool       // binds to a collection of entities
	Name       string     // display label, never part of the pattern
	Properties []Property // literal constraints in source order
}

// Edge is one queried edge.
type Edge struct {
	Key        string
	Subject    string
	Object     string
	Predicates Field
	Directed   *bool // nil means "directed iff a predicate was given"
}

// Node looks up a node by key.
func (q *QGraph) Node(key string) (Node, bool) {
	for _, n := range q.Nodes {
		if n.Key == key {
			return n, true
		}
	}
	return Node{}, false
}

// Edge looks up an edge by key.
func (q *QGraph) Edge(key string) (Edge, bool) {
	for _, e := range q.Edges {
		if e.Key == key {
			return e, true
		}
	}
	return Edge{}, false
}

// AddNode appends a node, rejecting a key already present.
func (q *QGraph) AddNode(n Node) error {
	if _, ok := q.Node(n.Key); ok {
		return &DuplicateKeyError{Scope: "node", Key: n.Key}
	}
	q.Nodes = append(q.Nodes, n)
	return nil
}

// AddEdge appends an edge, rejecting a key already present.
func (q *QGraph) AddEdge(e Edge) error {
	if _, ok := q.Edge(e.Key); ok {
		return &DuplicateKeyError{Scope: "edge", Key: e.Key}
	}
	q.Edges = append(q.Edges, e)
	return nil
}

// IsEmpty reports whether the graph has neither nodes nor edges.
func (q *QGraph) IsEmpty() bool {
	return len(q.Nodes) == 0 && len(q.Edges) == 0
}

// NodeKeys returns node keys in insertion order.
func (q *QGraph) NodeKeys() []string {
	keys := make([]string, len(q.Nodes))
	for i, n := range q.Nodes {
		keys[i] = n.Key
	}
	return keys
}

// EdgeKeys returns edge keys in insertion order.
func (q *QGraph) EdgeKeys() []string {
	keys := make([]string, len(q.Edges))
	for i, e := range q.Edges {
		keys[i] = e.Key
	}
	return keys
}

// Property returns the literal constraint stored under key.
func (n Node) Property(key string) (Value, bool) {
	for _, p := range n.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// BoolPtr returns a pointer to b, for Edge.Directed literals.
func BoolPtr(b bool) *bool {
	return &b
}
