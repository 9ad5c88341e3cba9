package qgraph

// FieldKind tags which variant a Field holds.
type FieldKind int

const (
	FieldAbsent FieldKind = iota
	FieldScalar
	FieldMultiple
)

func (k FieldKind) String() string {
	switch k {
	case FieldAbsent:
		return "absent"
	case FieldScalar:
		return "scalar"
	case FieldMultiple:
		return "multiple"
	default:
		return "unknown"
	}
}

// Field is a string-valued attribute that is absent, a single string, or a
// list of strings. The zero value is Absent.
type Field struct {
	kind   FieldKind
	values []string
}

// Absent returns an absent field.
func Absent() Field {
	return Field{}
}

// Scalar returns a single-string field.
func Scalar(s string) Field {
	return Field{kind: FieldScalar, values: []string{s}}
}

// Multiple returns a list field. The slice is copied. An empty list is still
// Multiple; Validate reports it.
func Multiple(ss ...string) Field {
	return Field{kind: FieldMultiple, values: append([]string{}, ss...)}
}

// Kind returns the variant tag.
func (f Field) Kind() FieldKind {
	return f.kind
}

// IsAbsent reports whether the field was not given.
func (f Field) IsAbsent() bool {
	return f.kind == FieldAbsent
}

// Scalar returns the single string when the field is Scalar.
func (f Field) Scalar() (string, bool) {
	if f.kind != FieldScalar {
		return "", false
	}
	return f.values[0], true
}

// Values returns the strings held by the field: one for Scalar, all for
// Multiple, nil for Absent. The returned slice is a copy.
func (f Field) Values() []string {
	if f.kind == FieldAbsent {
		return nil
	}
	return append([]string{}, f.values...)
}

// Len returns the number of strings held.
func (f Field) Len() int {
	return len(f.values)
}

// fieldFromValue resolves a decoded value into a Field. Null means absent.
func fieldFromValue(v Value, owner, name string, kind error) (Field, error) {
	switch val := v.(type) {
	case Null:
		return Absent(), nil
	case String:
		return Scalar(string(val)), nil
	case List:
		out := make([]string, 0, len(val))
		for _, elem := range val {
			s, ok := elem.(String)
			if !ok {
				return Field{}, &MalformedFieldError{Owner: owner, Field: name, Type: "list of " + TypeName(elem), kind: kind}
			}
			out = append(out, string(s))
		}
		return Multiple(out...), nil
	default:
		return Field{}, &MalformedFieldError{Owner: owner, Field: name, Type: TypeName(v), kind: kind}
	}
}
