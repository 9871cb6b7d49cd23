// Package sqlite provides the SQLite-backed implementation of the
// DocumentStore driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Documents and their
// chunks share a single database connection; chunk replacement happens in a
// transaction so readers never observe a partially replaced chunk set.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and embedded into the binary.
//
// # Data Location
//
// By default, the database is stored at ~/.pagelens/data/knowledge.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
