package server

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/qcypher/internal/cypher"
)

var validate = validator.New()

// CompileRequest is the body of POST /compile.
type CompileRequest struct {
	QueryGraph      json.RawMessage `json:"query_graph" validate:"required"`
	Mode            string          `json:"mode,omitempty" validate:"omitempty,oneof=match answer_map"`
	MaxConnectivity *int            `json:"max_connectivity,omitempty" validate:"omitempty,min=-1"`
	Skip            *int            `json:"skip,omitempty" validate:"omitempty,min=0"`
	Limit           *int            `json:"limit,omitempty" validate:"omitempty,min=0"`
}

// Options converts the request fields to compiler options.
func (r CompileRequest) Options() cypher.Options {
	opts := cypher.DefaultOptions()
	if r.MaxConnectivity != nil {
		opts.MaxConnectivity = *r.MaxConnectivity
	}
	opts.Skip = r.Skip
	opts.Limit = r.Limit
	return opts
}

// CompileResponse is the body of a successful POST /compile.
type CompileResponse struct {
	Cypher      string `json:"cypher"`
	Mode        string `json:"mode"`
	Fingerprint string `json:"fingerprint"`
	// ID is the recorded compilation, when the server has a store.
	ID string `json:"id,omitempty"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	// ID is the recorded failed compilation, when the server has a store.
	ID string `json:"id,omitempty"`
}

// CompilationSummary is one entry of GET /compilations.
type CompilationSummary struct {
	ID          string `json:"id"`
	Fingerprint string `json:"fingerprint"`
	Source      string `json:"source"`
	Mode        string `json:"mode"`
	Cypher      string `json:"cypher,omitempty"`
	Error       string `json:"error,omitempty"`
	Kind        string `json:"kind,omitempty"`
	CreatedAt   string `json:"created_at"`
}
