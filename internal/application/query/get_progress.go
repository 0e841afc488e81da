package query

import (
	"context"
	"fmt"

	"github.com/alem-hub/progress-tracker/internal/domain/progress"
	"github.com/alem-hub/progress-tracker/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROGRESS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetProgressQuery - запрос журнала оценок. Пустой Username означает "мой".
type GetProgressQuery struct {
	Username string
}

// ProgressLine - одна запись с уже посчитанным процентом.
type ProgressLine struct {
	Number     int
	Entry      progress.Entry
	Percentage float64
}

// GetProgressResult содержит журнал в порядке добавления.
type GetProgressResult struct {
	Student *student.Student
	Lines   []ProgressLine
}

// GetProgressHandler обрабатывает GetProgressQuery.
type GetProgressHandler struct {
	session  CurrentStudent
	students student.Repository
	logs     progress.Repository
}

// NewGetProgressHandler создаёт новый обработчик.
func NewGetProgressHandler(session CurrentStudent, students student.Repository, logs progress.Repository) *GetProgressHandler {
	return &GetProgressHandler{session: session, students: students, logs: logs}
}

// Handle выполняет запрос.
func (h *GetProgressHandler) Handle(ctx context.Context, q GetProgressQuery) (*GetProgressResult, error) {
	st, err := resolveTarget(ctx, h.session, h.students, q.Username)
	if err != nil {
		return nil, err
	}

	entries, err := h.logs.List(ctx, st.Username.String())
	if err != nil {
		return nil, fmt.Errorf("get_progress: list entries: %w", err)
	}

	lines := make([]ProgressLine, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, ProgressLine{Number: i + 1, Entry: e, Percentage: e.Percentage()})
	}

	return &GetProgressResult{Student: st, Lines: lines}, nil
}
