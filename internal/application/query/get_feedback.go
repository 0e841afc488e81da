package query

import (
	"context"
	"fmt"

	"github.com/alem-hub/progress-tracker/internal/domain/feedback"
	"github.com/alem-hub/progress-tracker/internal/domain/progress"
	"github.com/alem-hub/progress-tracker/internal/domain/student"
	"github.com/alem-hub/progress-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET FEEDBACK QUERY
// Персональное сообщение студенту, обращение по имени.
// ══════════════════════════════════════════════════════════════════════════════

// GetFeedbackQuery - запрос персонального сообщения. Пустой Username означает "моё".
type GetFeedbackQuery struct {
	Username string
}

// GetFeedbackResult содержит готовое сообщение.
type GetFeedbackResult struct {
	Student   *student.Student
	Message   string
	FromCache bool
}

// GetFeedbackHandler обрабатывает GetFeedbackQuery.
type GetFeedbackHandler struct {
	session  CurrentStudent
	students student.Repository
	logs     progress.Repository
	cache    feedback.Cache // может быть nil
	log      *logger.Logger
}

// NewGetFeedbackHandler создаёт новый обработчик. cache может быть nil.
func NewGetFeedbackHandler(
	session CurrentStudent,
	students student.Repository,
	logs progress.Repository,
	cache feedback.Cache,
	log *logger.Logger,
) *GetFeedbackHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &GetFeedbackHandler{
		session:  session,
		students: students,
		logs:     logs,
		cache:    cache,
		log:      log.With(logger.Component("get_feedback")),
	}
}

// Handle выполняет запрос.
func (h *GetFeedbackHandler) Handle(ctx context.Context, q GetFeedbackQuery) (*GetFeedbackResult, error) {
	st, err := resolveTarget(ctx, h.session, h.students, q.Username)
	if err != nil {
		return nil, err
	}
	username := st.Username.String()

	if h.cache != nil {
		msg, ok, err := h.cache.GetMessage(ctx, username)
		if err != nil {
			h.log.Warn("feedback cache read failed", logger.Username(username), logger.Err(err))
		} else if ok {
			return &GetFeedbackResult{Student: st, Message: msg, FromCache: true}, nil
		}
	}

	entries, err := h.logs.List(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get_feedback: list entries: %w", err)
	}

	msg := feedback.ComposeMessage(entries, st.FirstName())

	// приветствие не зависит от журнала, кэшировать нечего
	if h.cache != nil && len(entries) > 0 {
		if err := h.cache.SetMessage(ctx, username, msg); err != nil {
			h.log.Warn("feedback cache write failed", logger.Username(username), logger.Err(err))
		}
	}

	return &GetFeedbackResult{Student: st, Message: msg}, nil
}
