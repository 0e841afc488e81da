package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/progress-tracker/internal/domain/student"
	"github.com/alem-hub/progress-tracker/internal/infrastructure/persistence/fixtures"
)

// SeedIfEmpty inserts the sample accounts and their logs when the students
// table has no rows. It reports whether anything was inserted.
func SeedIfEmpty(ctx context.Context, conn *Connection, hasher student.PasswordHasher) (bool, error) {
	n, err := NewStudentRepository(conn).Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	students, err := fixtures.Students(hasher)
	if err != nil {
		return false, err
	}
	logs := fixtures.Progress()

	err = conn.WithTx(ctx, func(tx pgx.Tx) error {
		for _, s := range students {
			if err := insertStudent(ctx, tx, s); err != nil {
				return fmt.Errorf("seed %s: %w", s.Username, err)
			}
			for _, e := range logs[s.Username.String()] {
				if err := insertEntry(ctx, tx, s.Username.String(), e); err != nil {
					return fmt.Errorf("seed %s: %w", s.Username, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
