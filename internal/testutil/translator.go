package testutil

import "sync"

// Call records one translator invocation.
type Call struct {
	Method string // "ToCanonical" or "ToLegacy"
	Label  string
}

// StubTranslator is a biolink.Translator that answers from fixed tables and
// records every call. Unknown labels translate to "<method>(<label>)", which
// makes the chosen direction visible in compiled output.
type StubTranslator struct {
	Canonical map[string]string // legacy -> canonical
	Legacy    map[string]string // canonical -> legacy

	mu    sync.Mutex
	calls []Call
}

// NewStubTranslator creates a stub with empty tables.
func NewStubTranslator() *StubTranslator {
	return &StubTranslator{
		Canonical: make(map[string]string),
		Legacy:    make(map[string]string),
	}
}

// ToCanonical implements biolink.Translator.
func (s *StubTranslator) ToCanonical(label string) string {
	s.record("ToCanonical", label)
	if out, ok := s.Canonical[label]; ok {
		return out
	}
	return "up(" + label + ")"
}

// ToLegacy implements biolink.Translator.
func (s *StubTranslator) ToLegacy(label string) string {
	s.record("ToLegacy", label)
	if out, ok := s.Legacy[label]; ok {
		return out
	}
	return "down(" + label + ")"
}

// Calls returns a copy of the recorded calls in order.
func (s *StubTranslator) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *StubTranslator) record(method, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: method, Label: label})
}
