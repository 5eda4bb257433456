package models

import (
	"fmt"
	"time"
)

// Outcome is the terminal result of one source's sync.
type Outcome string

const (
	OutcomeWritten   Outcome = "written"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "failed"
)

// SyncRun records the outcome of one source within one sync invocation.
type SyncRun struct {
	id         string
	sequence   int
	runID      string
	source     string
	outcome    Outcome
	stage      string
	songCount  int
	errMessage string
	startedAt  time.Time
	finishedAt time.Time
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewSyncRun creates a SyncRun for source belonging to the invocation runID.
func NewSyncRun(runID, source string, outcome Outcome, stage string, songCount int, startedAt, finishedAt time.Time) *SyncRun {
	now := time.Now()
	return &SyncRun{
		runID:      runID,
		source:     source,
		outcome:    outcome,
		stage:      stage,
		songCount:  songCount,
		startedAt:  startedAt,
		finishedAt: finishedAt,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (r *SyncRun) ID() string              { return r.id }
func (r *SyncRun) Sequence() int           { return r.sequence }
func (r *SyncRun) RunID() string           { return r.runID }
func (r *SyncRun) Source() string          { return r.source }
func (r *SyncRun) Outcome() Outcome        { return r.outcome }
func (r *SyncRun) Stage() string           { return r.stage }
func (r *SyncRun) SongCount() int          { return r.songCount }
func (r *SyncRun) ErrorMessage() string    { return r.errMessage }
func (r *SyncRun) StartedAt() time.Time    { return r.startedAt }
func (r *SyncRun) FinishedAt() time.Time   { return r.finishedAt }
func (r *SyncRun) CreatedAt() time.Time    { return r.createdAt }
func (r *SyncRun) UpdatedAt() time.Time    { return r.updatedAt }
func (r *SyncRun) DeletedAt() *time.Time   { return r.deletedAt }
func (r *SyncRun) Duration() time.Duration { return r.finishedAt.Sub(r.startedAt) }

func (r *SyncRun) SetID(id string)                { r.id = id }
func (r *SyncRun) SetSequence(seq int)            { r.sequence = seq }
func (r *SyncRun) SetErrorMessage(msg string)     { r.errMessage = msg }
func (r *SyncRun) SetCreatedAt(t time.Time)       { r.createdAt = t }
func (r *SyncRun) SetUpdatedAt(t time.Time)       { r.updatedAt = t }
func (r *SyncRun) SetDeletedAt(t *time.Time)      { r.deletedAt = t }
func (r *SyncRun) SetOutcome(o Outcome, s string) { r.outcome, r.stage = o, s }

// Validate checks required fields and the outcome value.
func (r *SyncRun) Validate() error {
	if r.runID == "" {
		return fmt.Errorf("run id is required")
	}
	if r.source == "" {
		return fmt.Errorf("source is required")
	}
	switch r.outcome {
	case OutcomeWritten, OutcomeUnchanged, OutcomeFailed:
	default:
		return fmt.Errorf("invalid outcome %q", r.outcome)
	}
	if r.finishedAt.Before(r.startedAt) {
		return fmt.Errorf("finished_at precedes started_at")
	}
	return nil
}
