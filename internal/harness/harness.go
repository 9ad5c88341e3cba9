package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/qcypher/internal/cypher"
	"github.com/roach88/qcypher/internal/qgraph"
	"github.com/roach88/qcypher/internal/store"
)

// Runner executes scenarios against the compiler.
//
// Decode and compile failures are part of a scenario's outcome and end up in
// the Result. Run only returns an error when the scenario cannot be executed
// at all, for instance when its vocabulary file is unreadable.
type Runner struct {
	logger *slog.Logger
	store  *store.Store
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStore records every compilation the runner performs.
func WithStore(s *store.Store) Option {
	return func(r *Runner) {
		r.store = s
	}
}

// NewRunner creates a runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a scenario with a default runner.
func Run(scenario *Scenario) (*Result, error) {
	return NewRunner().Run(context.Background(), scenario)
}

// Run decodes the scenario's query graph, compiles it and evaluates the
// assertions against the statement or the error.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	mode, err := cypher.ParseMode(scenario.Mode)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	vocab, err := scenario.Vocab()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	opts := scenario.Options.CompileOptions()

	result := NewResult(scenario.Name)

	q, err := scenario.QGraph()
	if err != nil {
		result.setErr(err)
	} else {
		if fp, ferr := qgraph.Fingerprint(q); ferr == nil {
			result.Fingerprint = fp
		}

		stmt, cerr := cypher.New(vocab).Compile(q, mode, opts)
		if cerr != nil {
			result.setErr(cerr)
		} else {
			result.Cypher = stmt
		}

		if r.store != nil {
			if _, err := r.store.Record(ctx, store.Entry{
				Source:  "scenario:" + scenario.Name,
				Mode:    mode,
				Options: opts,
				QGraph:  q,
				Cypher:  stmt,
				Err:     cerr,
			}); err != nil {
				return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
			}
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	r.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"error_kind", result.ErrorKind,
	)
	return result, nil
}

func (r *Result) setErr(err error) {
	r.Err = err
	r.ErrorKind = cypher.ErrorKind(err)
	r.ErrorMessage = err.Error()
}
