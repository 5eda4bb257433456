package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
)

const syncRunColumns = `id, sequence, run_id, source, outcome, stage, song_count, error_message,
		started_at, finished_at, created_at, updated_at, deleted_at`

// SyncRunRepository implements models.Repository[*models.SyncRun] for the run history.
type SyncRunRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.SyncRun] = (*SyncRunRepository)(nil)

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a new run with generated ID and sequence
func (r *SyncRunRepository) Create(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)
	run.SetSequence(sequence)

	query := `
		INSERT INTO sync_runs (id, sequence, run_id, source, outcome, stage, song_count, error_message,
			started_at, finished_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.RunID(),
		run.Source(),
		string(run.Outcome()),
		run.Stage(),
		run.SongCount(),
		nullString(run.ErrorMessage()),
		run.StartedAt(),
		run.FinishedAt(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *SyncRunRepository) Get(id string) (*models.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE id = ? AND deleted_at IS NULL`
	return scanSyncRun(r.db.QueryRow(query, id))
}

// Latest retrieves the most recent run of source
func (r *SyncRunRepository) Latest(source string) (*models.SyncRun, error) {
	query := `
		SELECT ` + syncRunColumns + `
		FROM sync_runs
		WHERE source = ? AND deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`
	return scanSyncRun(r.db.QueryRow(query, source))
}

// Update rewrites the outcome, stage, song count and error of an existing run
func (r *SyncRunRepository) Update(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE sync_runs
		SET outcome = ?, stage = ?, song_count = ?, error_message = ?, finished_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(run.Outcome()),
		run.Stage(),
		run.SongCount(),
		nullString(run.ErrorMessage()),
		run.FinishedAt(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update sync run: %w", err)
	}

	return expectAffected(result, run.ID())
}

// Delete soft-deletes a run by ID
func (r *SyncRunRepository) Delete(id string) error {
	query := `
		UPDATE sync_runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete sync run: %w", err)
	}

	return expectAffected(result, id)
}

// List retrieves runs matching the given criteria, newest first, excluding soft-deleted runs.
//
// Supported criteria: "source", "run_id" and "outcome" (strings) and "limit" (int).
func (r *SyncRunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE deleted_at IS NULL`
	args := []any{}

	for _, column := range []string{"source", "run_id", "outcome"} {
		if v, ok := criteria[column].(string); ok && v != "" {
			query += " AND " + column + " = ?"
			args = append(args, v)
		}
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// ListRecent retrieves the newest limit runs across all sources
func (r *SyncRunRepository) ListRecent(limit int) ([]*models.SyncRun, error) {
	return r.List(map[string]any{"limit": limit})
}

// BySource retrieves the newest limit runs of source
func (r *SyncRunRepository) BySource(source string, limit int) ([]*models.SyncRun, error) {
	return r.List(map[string]any{"source": source, "limit": limit})
}

// ByRun retrieves every source's run of one sync invocation
func (r *SyncRunRepository) ByRun(runID string) ([]*models.SyncRun, error) {
	return r.List(map[string]any{"run_id": runID})
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSyncRun scans a row from either [sql.Row] or [sql.Rows] into a [models.SyncRun]
func scanSyncRun(row scanner) (*models.SyncRun, error) {
	var (
		id         string
		sequence   int
		runID      string
		source     string
		outcome    string
		stage      string
		songCount  int
		errMessage sql.NullString
		startedAt  time.Time
		finishedAt time.Time
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &runID, &source, &outcome, &stage, &songCount, &errMessage,
		&startedAt, &finishedAt, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	run := models.NewSyncRun(runID, source, models.Outcome(outcome), stage, songCount, startedAt, finishedAt)
	run.SetID(id)
	run.SetSequence(sequence)
	run.SetErrorMessage(errMessage.String)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}

func expectAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
