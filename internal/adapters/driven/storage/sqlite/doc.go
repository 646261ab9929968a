// Package sqlite provides a SQLite-based implementation of the driven
// storage ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single database connection backs:
//
//   - SourceStore: configured repository sources
//   - RefreshStore: refresh bookkeeping and history
//
// The cache itself is never persisted; only the list of sources and the
// time of the last automatic and manual refresh survive restarts.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.repocache/data/repocache.db
package sqlite
