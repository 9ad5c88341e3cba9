package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/qcypher/internal/cypher"
	"github.com/roach88/qcypher/internal/qgraph"
)

// Entry is one compile call to record. Cypher is empty when Err is set.
type Entry struct {
	Source  string // file path, "stdin" or "http"
	Mode    cypher.Mode
	Options cypher.Options
	QGraph  *qgraph.QGraph
	Cypher  string
	Err     error
}

// Compilation is a recorded compile call.
type Compilation struct {
	Seq         int64
	ID          string
	Fingerprint string
	Source      string
	Mode        cypher.Mode
	Options     cypher.Options
	QGraph      string // canonical encoding
	Cypher      string
	Error       string
	ErrorKind   string // cypher.ErrorKind of Error, empty on success
	CreatedAt   time.Time
}

// Failed reports whether the recorded compile call returned an error.
func (c Compilation) Failed() bool {
	return c.Error != ""
}

// Record appends a compilation to the log and returns the stored row.
//
// The query graph is stored in its canonical encoding, so two records with
// the same fingerprint hold byte-identical graphs.
func (s *Store) Record(ctx context.Context, e Entry) (Compilation, error) {
	if e.QGraph == nil {
		return Compilation{}, fmt.Errorf("record compilation: nil query graph")
	}

	canonical, err := qgraph.MarshalCanonical(e.QGraph)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: %w", err)
	}
	fingerprint, err := qgraph.Fingerprint(e.QGraph)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: %w", err)
	}

	c := Compilation{
		ID:          s.ids.Generate(),
		Fingerprint: fingerprint,
		Source:      e.Source,
		Mode:        e.Mode,
		Options:     e.Options,
		QGraph:      string(canonical),
		Cypher:      e.Cypher,
		CreatedAt:   s.now().UTC(),
	}
	if e.Err != nil {
		c.Error = e.Err.Error()
		c.ErrorKind = cypher.ErrorKind(e.Err)
		c.Cypher = ""
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO compilations
		(id, fingerprint, source, mode, max_connectivity, skip, lim, qgraph, cypher, error, error_kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID,
		c.Fingerprint,
		c.Source,
		string(c.Mode),
		c.Options.MaxConnectivity,
		nullInt(c.Options.Skip),
		nullInt(c.Options.Limit),
		c.QGraph,
		c.Cypher,
		c.Error,
		c.ErrorKind,
		c.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Compilation{}, fmt.Errorf("record compilation: %w", err)
	}
	if c.Seq, err = res.LastInsertId(); err != nil {
		return Compilation{}, fmt.Errorf("record compilation: seq: %w", err)
	}

	s.logger.Info("compilation recorded",
		"id", c.ID,
		"fingerprint", c.Fingerprint,
		"source", c.Source,
		"error_kind", c.ErrorKind,
	)
	return c, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
