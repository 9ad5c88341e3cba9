// Package store provides a SQLite-backed log of compilations.
//
// Every compile run with recording enabled appends one row holding the
// query graph's canonical encoding and fingerprint, the mode and options,
// and either the produced Cypher or the error text with its kind.
//
// # Ordering
//
// Rows are read back ORDER BY seq DESC, id COLLATE BINARY ASC. seq is the
// insertion counter, so listings are newest first and stable regardless of
// wall-clock skew.
//
// # Schema
//
// schema.sql is version 0. Later changes are entries in the migrations
// table and the applied version is kept in PRAGMA user_version. Connections
// are opened with WAL journaling, synchronous=NORMAL and a 5s busy timeout.
package store
