// Package tasks drives the catalog synchronization.
//
// # Pipeline
//
// Every source runs the same stages:
//
//	LoadLocal → FetchRemote → Normalize → CheckConsistency → Diff → (Write | Skip) → Done
//
// LoadLocal never fails; an absent or unreadable snapshot is "no prior state". FetchRemote, Normalize,
// CheckConsistency and Write failures end that source only. Nothing is written after a failed check.
//
// # Dispatch Table
//
// [Sources] builds the fixed, ordered list of sources from configuration. Each entry is a generic pipeline
// parameterized by the raw record, canonical song and category types of its source, with a per-source
// extraction strategy and consistency check.
//
// # Concurrency
//
// [Engine.Sync] starts one goroutine per source and waits for all of them. [RunResult.Results] keeps dispatch
// order. Paginated sources additionally bound their page fetches (see services.FetchPages).
//
// # Progress Reporting
//
// The [ProgressUpdate] struct names the source, the stage it entered and a message. Updates use select with
// default to prevent blocking.
//
// # Export
//
// [Engine.Export] re-encodes the persisted snapshots for downstream consumers.
package tasks
