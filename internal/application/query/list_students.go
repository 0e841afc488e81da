package query

import (
	"context"
	"fmt"

	"github.com/alem-hub/progress-tracker/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY (admin)
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsQuery - запрос всех аккаунтов, кроме администраторов.
type ListStudentsQuery struct{}

// ListStudentsResult содержит аккаунты, отсортированные по username.
type ListStudentsResult struct {
	Students []*student.Student
}

// ListStudentsHandler обрабатывает ListStudentsQuery.
type ListStudentsHandler struct {
	session  CurrentStudent
	students student.Repository
}

// NewListStudentsHandler создаёт новый обработчик.
func NewListStudentsHandler(session CurrentStudent, students student.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{session: session, students: students}
}

// Handle выполняет запрос. Список доступен только администратору.
func (h *ListStudentsHandler) Handle(ctx context.Context, _ ListStudentsQuery) (*ListStudentsResult, error) {
	if _, err := h.session.RequireAdmin(); err != nil {
		return nil, err
	}

	all, err := h.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_students: %w", err)
	}

	out := make([]*student.Student, 0, len(all))
	for _, st := range all {
		if !st.IsAdmin() {
			out = append(out, st)
		}
	}
	return &ListStudentsResult{Students: out}, nil
}
