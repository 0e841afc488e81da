package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/progress-tracker/internal/domain/shared"
	"github.com/alem-hub/progress-tracker/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

var _ student.Repository = (*StudentRepository)(nil)

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `username, password_digest, full_name, email, is_admin, created_at`

// Get returns a student by exact username.
func (r *StudentRepository) Get(ctx context.Context, username student.Username) (*student.Student, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE username = $1`,
		username.String())

	s, err := scanStudent(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return s, nil
}

// Create inserts a student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	return insertStudent(ctx, r.conn, s)
}

// List returns all students ordered by username.
func (r *StudentRepository) List(ctx context.Context) ([]*student.Student, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	out := make([]*student.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Exists checks whether the username is taken.
func (r *StudentRepository) Exists(ctx context.Context, username student.Username) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE username = $1)`,
		username.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check student: %w", err)
	}
	return exists, nil
}

// Count returns the number of stored accounts.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func insertStudent(ctx context.Context, q Querier, s *student.Student) error {
	_, err := q.Exec(ctx, `
		INSERT INTO students (username, password_digest, full_name, email, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		s.Username.String(),
		s.PasswordDigest,
		s.FullName,
		s.Email,
		s.IsAdmin(),
		s.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func scanStudent(row pgx.Row) (*student.Student, error) {
	var (
		s        student.Student
		username string
		isAdmin  bool
	)
	if err := row.Scan(&username, &s.PasswordDigest, &s.FullName, &s.Email, &isAdmin, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Username = student.Username(username)
	if isAdmin {
		s.Role = student.RoleAdmin
	}
	return &s, nil
}
