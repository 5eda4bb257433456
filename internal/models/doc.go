// Package models defines the source-independent entities of the catalog synchronizer.
//
// The package contains three categories of types:
//
// 1. Source description
//   - [Descriptor] : name, endpoint and [Strategy] of one remote catalog
//
// 2. Catalog values
//   - [Snapshot] : the persisted, versioned catalog of one source
//   - [Date] : calendar date used for release dates
//   - [SongSummary] : flat listing row produced by every canonical song type
//
// 3. Persistent Entities: Database-backed models with full lifecycle management
//   - [SyncRun] : outcome of one source within one sync invocation
//
// Canonical song and category types are source-specific and live in the games packages.
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
