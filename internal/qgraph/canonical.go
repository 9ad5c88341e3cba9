package qgraph

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/unicode/norm"
)

// DomainQGraph separates query graph fingerprints from any other hash the
// repository may compute. The version suffix allows a future encoding change.
const DomainQGraph = "qcypher/qgraph/v1"

// MarshalCanonical encodes a query graph deterministically.
//
// Nodes, edges and node properties stay in insertion order (they decide
// clause order in the compiled statement), encoded as arrays of
// [key, attributes] pairs. Attribute keys are sorted. Strings are
// NFC-normalised and HTML characters are not escaped.
func MarshalCanonical(q *QGraph) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"edges":[`)
	for i, e := range q.Edges {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeEdge(&buf, e); err != nil {
			return nil, fmt.Errorf("edge %q: %w", e.Key, err)
		}
	}
	buf.WriteString(`],"nodes":[`)
	for i, n := range q.Nodes {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeNode(&buf, n); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Key, err)
		}
	}
	buf.WriteString(`]}`)
	return buf.Bytes(), nil
}

// Fingerprint returns the hex xxh3-128 digest of the canonical encoding,
// domain-separated with a null byte.
func Fingerprint(q *QGraph) (string, error) {
	canonical, err := MarshalCanonical(q)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	data := make([]byte, 0, len(DomainQGraph)+1+len(canonical))
	data = append(data, DomainQGraph...)
	data = append(data, 0x00)
	data = append(data, canonical...)

	sum := xxh3.Hash128(data).Bytes()
	return hex.EncodeToString(sum[:]), nil
}

func writeNode(buf *bytes.Buffer, n Node) error {
	buf.WriteByte('[')
	if err := writeString(buf, n.Key); err != nil {
		return err
	}
	buf.WriteString(`,{`)

	// Keys in sorted order: category, id, is_set, name, properties.
	first := true
	sep := func() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
	}
	if !n.Categories.IsAbsent() {
		sep()
		buf.WriteString(`"category":`)
		if err := writeField(buf, n.Categories); err != nil {
			return err
		}
	}
	if !n.IDs.IsAbsent() {
		sep()
		buf.WriteString(`"id":`)
		if err := writeField(buf, n.IDs); err != nil {
			return err
		}
	}
	if n.IsSet {
		sep()
		buf.WriteString(`"is_set":true`)
	}
	if n.Name != "" {
		sep()
		buf.WriteString(`"name":`)
		if err := writeString(buf, n.Name); err != nil {
			return err
		}
	}
	if len(n.Properties) > 0 {
		sep()
		buf.WriteString(`"properties":[`)
		for i, p := range n.Properties {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('[')
			if err := writeString(buf, p.Key); err != nil {
				return err
			}
			buf.WriteByte(',')
			if err := writeValue(buf, p.Value); err != nil {
				return fmt.Errorf("property %q: %w", p.Key, err)
			}
			buf.WriteByte(']')
		}
		buf.WriteByte(']')
	}

	buf.WriteString(`}]`)
	return nil
}

func writeEdge(buf *bytes.Buffer, e Edge) error {
	buf.WriteByte('[')
	if err := writeString(buf, e.Key); err != nil {
		return err
	}
	buf.WriteString(`,{`)

	// Keys in sorted order: directed, object, predicate, subject.
	if e.Directed != nil {
		buf.WriteString(`"directed":` + strconv.FormatBool(*e.Directed) + `,`)
	}
	buf.WriteString(`"object":`)
	if err := writeString(buf, e.Object); err != nil {
		return err
	}
	if !e.Predicates.IsAbsent() {
		buf.WriteString(`,"predicate":`)
		if err := writeField(buf, e.Predicates); err != nil {
			return err
		}
	}
	buf.WriteString(`,"subject":`)
	if err := writeString(buf, e.Subject); err != nil {
		return err
	}

	buf.WriteString(`}]`)
	return nil
}

// writeField keeps Scalar and one-element Multiple distinct; the compiler
// treats them differently.
func writeField(buf *bytes.Buffer, f Field) error {
	if s, ok := f.Scalar(); ok {
		return writeString(buf, s)
	}
	buf.WriteByte('[')
	for i, s := range f.Values() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, s); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case String:
		return writeString(buf, string(val))
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		buf.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 64))
	case Null:
		buf.WriteString("null")
	case List:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, elem); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case Object:
		sorted := append(Object{}, val...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
		buf.WriteByte('{')
		for i, p := range sorted {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, p.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, p.Value); err != nil {
				return fmt.Errorf("[%q]: %w", p.Key, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported value type %s", TypeName(v))
	}
	return nil
}

// writeString writes an NFC-normalised JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
