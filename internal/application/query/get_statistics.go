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
// GET STATISTICS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetStatisticsQuery - запрос статистики. Пустой Username означает "моя".
type GetStatisticsQuery struct {
	Username string
}

// GetStatisticsResult: Statistics равна nil, если журнал пуст.
type GetStatisticsResult struct {
	Student    *student.Student
	Statistics *feedback.Statistics
	FromCache  bool
}

// Available сообщает, есть ли что показать.
func (r *GetStatisticsResult) Available() bool {
	return r.Statistics != nil
}

// GetStatisticsHandler обрабатывает GetStatisticsQuery.
type GetStatisticsHandler struct {
	session  CurrentStudent
	students student.Repository
	logs     progress.Repository
	cache    feedback.Cache // может быть nil
	log      *logger.Logger
}

// NewGetStatisticsHandler создаёт новый обработчик. cache может быть nil.
func NewGetStatisticsHandler(
	session CurrentStudent,
	students student.Repository,
	logs progress.Repository,
	cache feedback.Cache,
	log *logger.Logger,
) *GetStatisticsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &GetStatisticsHandler{
		session:  session,
		students: students,
		logs:     logs,
		cache:    cache,
		log:      log.With(logger.Component("get_statistics")),
	}
}

// Handle выполняет запрос.
func (h *GetStatisticsHandler) Handle(ctx context.Context, q GetStatisticsQuery) (*GetStatisticsResult, error) {
	st, err := resolveTarget(ctx, h.session, h.students, q.Username)
	if err != nil {
		return nil, err
	}
	username := st.Username.String()

	if h.cache != nil {
		stats, ok, err := h.cache.GetStatistics(ctx, username)
		if err != nil {
			h.log.Warn("statistics cache read failed", logger.Username(username), logger.Err(err))
		} else if ok {
			return &GetStatisticsResult{Student: st, Statistics: stats, FromCache: true}, nil
		}
	}

	entries, err := h.logs.List(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get_statistics: list entries: %w", err)
	}

	stats := feedback.ComputeStatistics(entries)

	if h.cache != nil && stats != nil {
		if err := h.cache.SetStatistics(ctx, username, stats); err != nil {
			h.log.Warn("statistics cache write failed", logger.Username(username), logger.Err(err))
		}
	}

	return &GetStatisticsResult{Student: st, Statistics: stats}, nil
}
