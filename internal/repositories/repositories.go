package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// NextSequence advances the single-row <table>_sequence counter and returns the new value.
//
// Sequence numbers order runs by insertion (run #42 of the history).
func NextSequence(db *sql.DB, table string) (int, error) {
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)

	var sequence int
	err := db.QueryRow(query).Scan(&sequence)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("sequence for %s is not initialized", table)
	} else if err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", table, err)
	}
	return sequence, nil
}
