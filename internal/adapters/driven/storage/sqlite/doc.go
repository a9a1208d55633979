// Package sqlite persists vector index snapshots with SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A snapshot is one metadata row (embedding
// model, dimensions, record count) plus one row per segment with its vector stored
// as a little-endian float32 blob, so a save and load round trip is bit-exact.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.edubridge/vectorstore/index.db
//
// # Thread Safety
//
// Save replaces the snapshot inside one transaction, so a concurrent Load sees
// either the old or the new snapshot, never a mix.
package sqlite
