package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// migration upgrades the compilations table from version-1 to version.
type migration struct {
	version int
	name    string
	stmt    string
}

// migrations run in order against any database whose user_version is below
// their version. schema.sql is version 0.
var migrations = []migration{
	{
		version: 1,
		name:    "fingerprint index",
		stmt:    `CREATE INDEX IF NOT EXISTS idx_compilations_fingerprint ON compilations(fingerprint)`,
	},
	{
		version: 2,
		name:    "error kind",
		stmt: `ALTER TABLE compilations ADD COLUMN error_kind TEXT NOT NULL DEFAULT '';
		       CREATE INDEX IF NOT EXISTS idx_compilations_error_kind ON compilations(error_kind)`,
	},
}

// currentSchemaVersion is the user_version of a fully migrated log.
var currentSchemaVersion = migrations[len(migrations)-1].version

// connection settings applied through the go-sqlite3 DSN, so every pooled
// connection gets them.
var dsnParams = url.Values{
	"_journal_mode": {"WAL"},
	"_synchronous":  {"NORMAL"},
	"_busy_timeout": {"5000"},
	"_foreign_keys": {"on"},
}

// Store is the durable compilation log, one SQLite file in WAL mode.
// Safe for concurrent use; writes are serialised on a single connection.
type Store struct {
	db     *sql.DB
	now    func() time.Time
	ids    IDGenerator
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the timestamp source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the compilation ID source. Defaults to UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open opens the compilation log at path, creating and migrating it as
// needed. Opening an up-to-date log twice is a no-op.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		now:    time.Now,
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?"+dsnParams.Encode())
	if err != nil {
		return nil, fmt.Errorf("open compilation log: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open compilation log %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	applied, err := migrate(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate compilation log %s: %w", path, err)
	}
	s.db = db

	s.logger.Debug("compilation log opened",
		"path", path,
		"schema_version", currentSchemaVersion,
		"migrations_applied", applied,
	)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// migrate creates the base table and applies pending migrations in one
// transaction. It returns how many migrations ran.
func migrate(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schemaSQL); err != nil {
		return 0, fmt.Errorf("base schema: %w", err)
	}

	var version int
	if err := tx.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		if _, err := tx.Exec(m.stmt); err != nil {
			return 0, fmt.Errorf("v%d (%s): %w", m.version, m.name, err)
		}
		applied++
	}
	if version < currentSchemaVersion {
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return 0, fmt.Errorf("set user_version: %w", err)
		}
	}

	return applied, tx.Commit()
}

// pragma reads a connection setting. Tests use it to check the DSN took effect.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}
