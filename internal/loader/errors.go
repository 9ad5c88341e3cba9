package loader

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// Error codes shared by every command that reads query files.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No query files found
	ErrCodeDecodeFailed = "E004" // Document could not be decoded into a query graph
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeSchema       = "E006" // CUE evaluation or schema check failed
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeUnsupported  = "E008" // Unsupported file extension
)

// LoadError describes a file that could not be turned into a query graph.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
