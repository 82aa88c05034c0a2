// Package store provides a SQLite-backed ledger of sampling runs.
//
// Every run the CLI executes with --db is appended as one row: its
// parameters, seed, outcome, the full accounting ledger and, when the target
// has a known CDF, the Kolmogorov-Smirnov result. Samples themselves are
// never stored.
//
// # Ordering
//
//   - Rows are ordered by seq INTEGER, assigned on insert, never by timestamps
//   - All list queries use ORDER BY seq so output is stable across reads
//
// # Idempotency
//
//   - Run IDs are unique; writing the same run twice is a no-op
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// # Schema Version
//
// PRAGMA user_version holds the schema version. Open stamps fresh ledgers and
// refuses ones written by a newer schema.
package store
