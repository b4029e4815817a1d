// Package client bootstraps the local persistence used by the machinecal CLI.
//
// # Overview
//
// InitDatabase opens (or creates) the SQLite file through the pure-Go
// modernc.org/sqlite driver and applies the embedded goose migrations from
// internal/client/migrations. RunMigrations can be called on its own and is
// idempotent.
//
// The database is opened with a single connection: there is exactly one
// writer, the REPL loop, and SQLite serializes writers anyway.
//
// See Also
//
//   - Migrations:  internal/client/migrations
//   - KV store:    internal/client/repositories/metadata
package client
