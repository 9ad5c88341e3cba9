package qgraph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeJSON parses a JSON query graph, keeping document key order.
//
// The document may be a bare query graph ({"nodes": ..., "edges": ...}),
// or wrapped as {"query_graph": ...} or {"message": {"query_graph": ...}}.
func DecodeJSON(data []byte) (*QGraph, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode json: trailing data after document")
	}

	obj, ok := root.(Object)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %s, want object", ErrMalformedDocument, TypeName(root))
	}
	return FromObject(obj)
}

// decodeJSONValue reads one value from the token stream.
func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var obj Object
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, fmt.Errorf("key %q: %w", key, err)
				}
				obj = append(obj, Property{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // '}'
				return nil, err
			}
			return obj, nil
		case '[':
			list := List{}
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, fmt.Errorf("index %d: %w", len(list), err)
				}
				list = append(list, val)
			}
			if _, err := dec.Token(); err != nil { // ']'
				return nil, err
			}
			return list, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %s: %w", t, err)
		}
		return Float(f), nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}

// DecodeYAML parses a YAML query graph, keeping document key order.
// Accepts the same wrappers as DecodeJSON.
func DecodeYAML(data []byte) (*QGraph, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Kind == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedDocument)
	}

	root, err := FromYAMLNode(&doc)
	if err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	obj, ok := root.(Object)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %s, want mapping", ErrMalformedDocument, TypeName(root))
	}
	return FromObject(obj)
}

// FromYAMLNode converts a yaml.v3 node tree into a Value, keeping mapping order.
// Scenario files embed query graphs and use it to decode them.
func FromYAMLNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null{}, nil
		}
		return FromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return FromYAMLNode(n.Alias)
	case yaml.MappingNode:
		obj := make(Object, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			val, err := FromYAMLNode(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: key %q: %w", k.Line, k.Value, err)
			}
			obj = append(obj, Property{Key: k.Value, Value: val})
		}
		return obj, nil
	case yaml.SequenceNode:
		list := make(List, 0, len(n.Content))
		for i, c := range n.Content {
			val, err := FromYAMLNode(c)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			list = append(list, val)
		}
		return list, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}

func yamlScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}

// FromObject builds a QGraph from a decoded document. Every decoder in the
// repository funnels through here, so the attribute rules live in one place.
func FromObject(root Object) (*QGraph, error) {
	doc, err := unwrap(root)
	if err != nil {
		return nil, err
	}

	q := &QGraph{}

	nodesVal, ok := doc.Get("nodes")
	if !ok {
		return nil, fmt.Errorf("%w: missing \"nodes\"", ErrMalformedDocument)
	}
	nodes, ok := nodesVal.(Object)
	if !ok {
		return nil, fmt.Errorf("%w: \"nodes\" is %s, want object", ErrMalformedDocument, TypeName(nodesVal))
	}
	for _, p := range nodes {
		attrs, ok := p.Value.(Object)
		if !ok {
			return nil, fmt.Errorf("%w: node %q is %s, want object", ErrMalformedDocument, p.Key, TypeName(p.Value))
		}
		n, err := buildNode(p.Key, attrs)
		if err != nil {
			return nil, err
		}
		if err := q.AddNode(n); err != nil {
			return nil, err
		}
	}

	if edgesVal, ok := doc.Get("edges"); ok {
		if _, isNull := edgesVal.(Null); !isNull {
			edges, ok := edgesVal.(Object)
			if !ok {
				return nil, fmt.Errorf("%w: \"edges\" is %s, want object", ErrMalformedDocument, TypeName(edgesVal))
			}
			for _, p := range edges {
				attrs, ok := p.Value.(Object)
				if !ok {
					return nil, fmt.Errorf("%w: edge %q is %s, want object", ErrMalformedDocument, p.Key, TypeName(p.Value))
				}
				e, err := buildEdge(p.Key, attrs)
				if err != nil {
					return nil, err
				}
				if err := q.AddEdge(e); err != nil {
					return nil, err
				}
			}
		}
	}

	return q, nil
}

// unwrap strips the {"message": {"query_graph": ...}} and {"query_graph": ...} envelopes.
func unwrap(root Object) (Object, error) {
	doc := root
	for _, envelope := range []string{"message", "query_graph"} {
		inner, ok := doc.Get(envelope)
		if !ok {
			continue
		}
		obj, ok := inner.(Object)
		if !ok {
			return nil, fmt.Errorf("%w: %q is %s, want object", ErrMalformedDocument, envelope, TypeName(inner))
		}
		doc = obj
	}
	return doc, nil
}

func buildNode(key string, attrs Object) (Node, error) {
	n := Node{Key: key}
	seen := make(map[string]bool, len(attrs))

	for _, p := range attrs {
		if seen[p.Key] {
			return Node{}, &DuplicateKeyError{Scope: "attribute of " + key, Key: p.Key}
		}
		seen[p.Key] = true

		var err error
		switch p.Key {
		case AttrID:
			n.IDs, err = fieldFromValue(p.Value, key, p.Key, ErrMalformedCurieType)
		case AttrCategory:
			n.Categories, err = fieldFromValue(p.Value, key, p.Key, ErrMalformedCategoryType)
		case AttrIsSet:
			n.IsSet, err = optionalBool(p.Value, key, p.Key)
		case AttrName:
			switch v := p.Value.(type) {
			case String:
				n.Name = string(v)
			case Null:
			default:
				err = &MalformedFieldError{Owner: key, Field: p.Key, Type: TypeName(v), kind: ErrMalformedAttribute}
			}
		default:
			n.Properties = append(n.Properties, p)
		}
		if err != nil {
			return Node{}, err
		}
	}

	return n, nil
}

// buildEdge ignores attributes it does not know; TRAPI edges carry extras
// such as "relation" that have no pattern equivalent.
func buildEdge(key string, attrs Object) (Edge, error) {
	e := Edge{Key: key}
	seen := make(map[string]bool, len(attrs))

	for _, p := range attrs {
		if seen[p.Key] {
			return Edge{}, &DuplicateKeyError{Scope: "attribute of " + key, Key: p.Key}
		}
		seen[p.Key] = true

		var err error
		switch p.Key {
		case AttrSubject:
			e.Subject, err = requiredString(p.Value, key, p.Key)
		case AttrObject:
			e.Object, err = requiredString(p.Value, key, p.Key)
		case AttrPredicate:
			e.Predicates, err = fieldFromValue(p.Value, key, p.Key, ErrMalformedPredicateType)
		case AttrDirected:
			if _, isNull := p.Value.(Null); isNull {
				break
			}
			var b bool
			b, err = optionalBool(p.Value, key, p.Key)
			e.Directed = BoolPtr(b)
		}
		if err != nil {
			return Edge{}, err
		}
	}

	for _, required := range []string{AttrSubject, AttrObject} {
		if !seen[required] {
			return Edge{}, &MalformedFieldError{Owner: key, Field: required, Type: "missing", kind: ErrMalformedAttribute}
		}
	}

	return e, nil
}

func optionalBool(v Value, owner, name string) (bool, error) {
	switch b := v.(type) {
	case Bool:
		return bool(b), nil
	case Null:
		return false, nil
	default:
		return false, &MalformedFieldError{Owner: owner, Field: name, Type: TypeName(v), kind: ErrMalformedAttribute}
	}
}

func requiredString(v Value, owner, name string) (string, error) {
	s, ok := v.(String)
	if !ok || strings.TrimSpace(string(s)) == "" {
		typ := TypeName(v)
		if ok {
			typ = "empty string"
		}
		return "", &MalformedFieldError{Owner: owner, Field: name, Type: typ, kind: ErrMalformedAttribute}
	}
	return string(s), nil
}
