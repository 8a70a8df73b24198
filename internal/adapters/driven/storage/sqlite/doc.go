// Package sqlite stores the search history in a SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The database lives next to the configuration file, by
// default at ~/.pitrseek/history.db.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files; applied
// versions are recorded in schema_migrations.
//
// # Thread Safety
//
// All operations are safe for concurrent use. The store runs SQLite in WAL
// mode so the history can be listed while another process records a search.
package sqlite
