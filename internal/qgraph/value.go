package qgraph

import "fmt"

// Value is a sealed interface for decoded literal values.
// Only String, Bool, Int, Float, Null, List and Object implement it.
type Value interface {
	qgraphValue()
}

// String is a string literal.
type String string

func (String) qgraphValue() {}

// Bool is a boolean literal.
type Bool bool

func (Bool) qgraphValue() {}

// Int is an integer literal.
type Int int64

func (Int) qgraphValue() {}

// Float is a non-integral number literal.
type Float float64

func (Float) qgraphValue() {}

// Null is an explicit null.
type Null struct{}

func (Null) qgraphValue() {}

// List is an ordered list of values.
type List []Value

func (List) qgraphValue() {}

// Object is an ordered list of key/value pairs. Order is the source order.
type Object []Property

func (Object) qgraphValue() {}

// Get returns the first value stored under key.
func (o Object) Get(key string) (Value, bool) {
	for _, p := range o {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Property is one key/value pair. Nodes use it for literal constraints.
type Property struct {
	Key   string
	Value Value
}

// TypeName returns the document-level type name of a value, for messages.
func TypeName(v Value) string {
	switch v.(type) {
	case String:
		return "string"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Null:
		return "null"
	case List:
		return "list"
	case Object:
		return "object"
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%T", v)
	}
}
