// Package store keeps a library of named WOQL queries in SQLite.
//
// Each saved query records:
//   - the canonical JSON of its AST (RFC 8785, see internal/ir)
//   - its content hash, shared by every name that saves the same query
//   - the fluent source text the printer produces for it
//   - a logical save sequence number
//
// Saving an existing name replaces the query but keeps the record id.
// Listing is ordered by name using binary collation so output is stable
// across platforms.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
