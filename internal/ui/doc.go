// Package ui implements the interactive sync progress view using bubbletea's Elm architecture.
//
// The view shows one row per source in dispatch order. A row carries a spinner while its pipeline runs, then the
// stage it reached and the final outcome (written, unchanged or failed) once the engine reports it done.
//
// The [Model] implements bubbletea's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a buffered channel from [tasks.Engine.Sync]; the engine never blocks on the view.
//
// Key bindings: r runs the sync again once it has finished, q (or ctrl+c) quits and cancels a sync in flight.
package ui
