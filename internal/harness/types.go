package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass indicates overall success: every assertion held.
	Pass bool `json:"pass"`

	// Cypher is the compiled statement. Empty when compilation failed.
	Cypher string `json:"cypher,omitempty"`

	// Fingerprint identifies the decoded query graph. Empty when decoding failed.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Err is the decode or compile error, if any.
	Err error `json:"-"`

	// ErrorKind classifies Err (see cypher.ErrorKind).
	ErrorKind string `json:"error_kind,omitempty"`

	// ErrorMessage is Err's text, kept for JSON output.
	ErrorMessage string `json:"error,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
