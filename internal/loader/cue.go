package loader

import (
	_ "embed"
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/qcypher/internal/qgraph"
)

//go:embed schema.cue
var schemaSource []byte

// ParseCUE evaluates a CUE query document, checks it against #QGraph and
// converts it into a query graph. filename is used in positions only.
func ParseCUE(data []byte, filename string) (*qgraph.QGraph, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue")).LookupPath(cue.ParsePath("#QGraph"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("embedded schema: %w", err)
	}

	doc := ctx.CompileBytes(data, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return nil, cueLoadError(filename, err)
	}

	graph := unwrapCUE(doc)
	if err := schema.Unify(graph).Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(filename, err)
	}

	// Convert the document itself rather than the unified value so that
	// node and property order is the order written in the file.
	root, err := fromCUE(graph)
	if err != nil {
		return nil, cueLoadError(filename, err)
	}
	obj, ok := root.(qgraph.Object)
	if !ok {
		return nil, &LoadError{Code: ErrCodeSchema, Path: filename, Message: "top level is not a struct"}
	}

	q, err := qgraph.FromObject(obj)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Path: filename, Message: err.Error(), Err: err}
	}
	return q, nil
}

// unwrapCUE strips the message and query_graph envelopes.
func unwrapCUE(v cue.Value) cue.Value {
	for _, envelope := range []string{"message", "query_graph"} {
		if inner := v.LookupPath(cue.ParsePath(envelope)); inner.Exists() {
			v = inner
		}
	}
	return v
}

// fromCUE converts a concrete CUE value into a qgraph.Value. Only regular
// fields are visited; definitions, hidden and optional fields are skipped.
func fromCUE(v cue.Value) (qgraph.Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return qgraph.Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return qgraph.Bool(b), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return qgraph.Int(i), nil
	case cue.FloatKind:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return qgraph.Float(f), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return qgraph.String(s), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		list := qgraph.List{}
		for iter.Next() {
			elem, err := fromCUE(iter.Value())
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
		}
		return list, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		var obj qgraph.Object
		for iter.Next() {
			val, err := fromCUE(iter.Value())
			if err != nil {
				return nil, err
			}
			obj = append(obj, qgraph.Property{Key: iter.Label(), Value: val})
		}
		return obj, nil
	default:
		return nil, &cuePosError{pos: v, msg: fmt.Sprintf("value of kind %v is not concrete", v.IncompleteKind())}
	}
}

// cuePosError keeps the offending value so its position can be reported.
type cuePosError struct {
	pos cue.Value
	msg string
}

func (e *cuePosError) Error() string { return e.msg }

// cueLoadError extracts the first CUE error and its position.
func cueLoadError(filename string, err error) *LoadError {
	var pe *cuePosError
	if errors.As(err, &pe) {
		return &LoadError{Code: ErrCodeSchema, Path: filename, Message: pe.msg, Pos: pe.pos.Pos(), Err: err}
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeSchema, Path: filename, Message: err.Error(), Err: err}
	}
	first := errs[0]
	loadErr := &LoadError{Code: ErrCodeSchema, Path: filename, Message: first.Error(), Err: err}
	// Prefer a position inside the query file over one in the schema.
	for _, pos := range cueerrors.Positions(first) {
		if !loadErr.Pos.IsValid() || pos.Filename() == filename {
			loadErr.Pos = pos
		}
		if pos.Filename() == filename {
			break
		}
	}
	return loadErr
}
