// Package repositories implements SQLite persistence for the sync run history.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// Repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [SyncRunRepository] : one row per source per sync invocation, with per-source and per-run lookups
//
// Sequence numbers provide stable ordering independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
