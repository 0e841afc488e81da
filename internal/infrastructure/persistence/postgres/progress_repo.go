package postgres

import (
	"context"
	"fmt"

	"github.com/alem-hub/progress-tracker/internal/domain/progress"
	"github.com/alem-hub/progress-tracker/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRepository implements progress.Repository for PostgreSQL.
// A student's log is the set of score_entries rows ordered by id.
type ProgressRepository struct {
	conn *Connection
}

var _ progress.Repository = (*ProgressRepository)(nil)

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

// Reset deletes every entry of the student. An empty log is the absence of rows.
func (r *ProgressRepository) Reset(ctx context.Context, username string) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM score_entries WHERE username = $1`, username); err != nil {
		return fmt.Errorf("failed to reset entries: %w", err)
	}
	return nil
}

// Append inserts an entry at the end of the student's log.
// The student row must exist.
func (r *ProgressRepository) Append(ctx context.Context, username string, e progress.Entry) error {
	return insertEntry(ctx, r.conn, username, e)
}

// List returns the student's entries in insertion order.
func (r *ProgressRepository) List(ctx context.Context, username string) ([]progress.Entry, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT subject, score, max_score, entry_date
		FROM score_entries
		WHERE username = $1
		ORDER BY id
	`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	out := make([]progress.Entry, 0)
	for rows.Next() {
		var e progress.Entry
		if err := rows.Scan(&e.Subject, &e.Score, &e.MaxScore, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func insertEntry(ctx context.Context, q Querier, username string, e progress.Entry) error {
	_, err := q.Exec(ctx, `
		INSERT INTO score_entries (username, subject, score, max_score, entry_date)
		VALUES ($1, $2, $3, $4, $5)
	`, username, e.Subject, e.Score, e.MaxScore, e.Date)
	if err != nil {
		switch {
		case IsForeignKeyViolation(err):
			return shared.ErrStudentNotFound
		case IsCheckViolation(err):
			return shared.WrapError("progress", "append", shared.ErrInvalidInput, "max score must be positive", err)
		}
		return fmt.Errorf("failed to append entry: %w", err)
	}
	return nil
}
