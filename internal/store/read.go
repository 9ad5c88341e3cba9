package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/qcypher/internal/cypher"
)

// ErrNotFound is returned by Get when no compilation has the given ID.
var ErrNotFound = errors.New("compilation not found")

// ListFilter narrows List. Zero fields do not filter.
type ListFilter struct {
	Fingerprint string
	Source      string
	FailedOnly  bool
	ErrorKind   string
	Limit       int
}

const selectColumns = `
	SELECT seq, id, fingerprint, source, mode, max_connectivity, skip, lim, qgraph, cypher, error, error_kind, created_at
	FROM compilations
`

// Get returns the compilation with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Compilation, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	c, err := scanCompilation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Compilation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Compilation{}, fmt.Errorf("get compilation: %w", err)
	}
	return c, nil
}

// List returns compilations newest first.
// Ordering: ORDER BY seq DESC, id COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) List(ctx context.Context, f ListFilter) ([]Compilation, error) {
	var (
		where []string
		args  []any
	)
	if f.Fingerprint != "" {
		where = append(where, "fingerprint = ?")
		args = append(args, f.Fingerprint)
	}
	if f.Source != "" {
		where = append(where, "source = ?")
		args = append(args, f.Source)
	}
	if f.FailedOnly {
		where = append(where, "error != ''")
	}
	if f.ErrorKind != "" {
		where = append(where, "error_kind = ?")
		args = append(args, f.ErrorKind)
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC, id COLLATE BINARY ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query compilations: %w", err)
	}
	defer rows.Close()

	compilations := []Compilation{}
	for rows.Next() {
		c, err := scanCompilation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan compilation: %w", err)
		}
		compilations = append(compilations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}

	return compilations, nil
}

// Count returns the number of recorded compilations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM compilations").Scan(&n); err != nil {
		return 0, fmt.Errorf("count compilations: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompilation(row scanner) (Compilation, error) {
	var (
		c           Compilation
		mode        string
		skip, limit sql.NullInt64
		createdAt   string
	)
	err := row.Scan(
		&c.Seq,
		&c.ID,
		&c.Fingerprint,
		&c.Source,
		&mode,
		&c.Options.MaxConnectivity,
		&skip,
		&limit,
		&c.QGraph,
		&c.Cypher,
		&c.Error,
		&c.ErrorKind,
		&createdAt,
	)
	if err != nil {
		return Compilation{}, err
	}

	c.Mode = cypher.Mode(mode)
	if skip.Valid {
		n := int(skip.Int64)
		c.Options.Skip = &n
	}
	if limit.Valid {
		n := int(limit.Int64)
		c.Options.Limit = &n
	}
	c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Compilation{}, fmt.Errorf("created_at %q: %w", createdAt, err)
	}
	return c, nil
}
