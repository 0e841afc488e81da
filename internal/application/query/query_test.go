package query

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/progress-tracker/internal/application/session"
	"github.com/alem-hub/progress-tracker/internal/domain/feedback"
	"github.com/alem-hub/progress-tracker/internal/domain/progress"
	"github.com/alem-hub/progress-tracker/internal/domain/shared"
	"github.com/alem-hub/progress-tracker/internal/domain/student"
	"github.com/alem-hub/progress-tracker/internal/infrastructure/persistence/jsonfile"
	"github.com/alem-hub/progress-tracker/internal/infrastructure/security"
	"github.com/alem-hub/progress-tracker/pkg/logger"
)

type env struct {
	students *jsonfile.StudentStore
	logs     *jsonfile.ProgressStore
	session  *session.Session
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	hasher := security.SHA256Hasher{}
	students, err := jsonfile.OpenStudentStore(filepath.Join(dir, "students.json"), hasher, logger.Nop())
	require.NoError(t, err)
	logs, err := jsonfile.OpenProgressStore(filepath.Join(dir, "progress.json"), logger.Nop())
	require.NoError(t, err)
	return &env{students: students, logs: logs, session: session.New(students, hasher, logger.Nop())}
}

func (e *env) login(t *testing.T, username student.Username, password string) {
	t.Helper()
	require.NoError(t, e.session.Authenticate(context.Background(), username, password))
}

// mapCache is an in-memory feedback.Cache.
type mapCache struct {
	messages map[string]string
	stats    map[string]*feedback.Statistics
}

func newMapCache() *mapCache {
	return &mapCache{messages: map[string]string{}, stats: map[string]*feedback.Statistics{}}
}

func (c *mapCache) GetMessage(_ context.Context, u string) (string, bool, error) {
	m, ok := c.messages[u]
	return m, ok, nil
}
func (c *mapCache) SetMessage(_ context.Context, u, m string) error {
	c.messages[u] = m
	return nil
}
func (c *mapCache) GetStatistics(_ context.Context, u string) (*feedback.Statistics, bool, error) {
	s, ok := c.stats[u]
	return s, ok, nil
}
func (c *mapCache) SetStatistics(_ context.Context, u string, s *feedback.Statistics) error {
	c.stats[u] = s
	return nil
}
func (c *mapCache) Invalidate(_ context.Context, u string) error {
	delete(c.messages, u)
	delete(c.stats, u)
	return nil
}

func TestQueries_RequireLogin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := NewGetProgressHandler(e.session, e.students, e.logs).Handle(ctx, GetProgressQuery{})
	assert.ErrorIs(t, err, shared.ErrNotLoggedIn)

	_, err = NewGetStatisticsHandler(e.session, e.students, e.logs, nil, nil).Handle(ctx, GetStatisticsQuery{})
	assert.ErrorIs(t, err, shared.ErrNotLoggedIn)

	_, err = NewGetFeedbackHandler(e.session, e.students, e.logs, nil, nil).Handle(ctx, GetFeedbackQuery{})
	assert.ErrorIs(t, err, shared.ErrNotLoggedIn)

	_, err = NewListStudentsHandler(e.session, e.students).Handle(ctx, ListStudentsQuery{})
	assert.ErrorIs(t, err, shared.ErrNotLoggedIn)
}

func TestGetProgress(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.login(t, "ratul", "ratul123")

	res, err := NewGetProgressHandler(e.session, e.students, e.logs).Handle(ctx, GetProgressQuery{})
	require.NoError(t, err)
	require.Len(t, res.Lines, 3)
	assert.Equal(t, 1, res.Lines[0].Number)
	assert.Equal(t, "Math", res.Lines[0].Entry.Subject)
	assert.InDelta(t, 72.0, res.Lines[0].Percentage, 1e-9)
	assert.Equal(t, "Science", res.Lines[2].Entry.Subject)

	// students may not look at each other
	_, err = NewGetProgressHandler(e.session, e.students, e.logs).Handle(ctx, GetProgressQuery{Username: "faiza"})
	assert.ErrorIs(t, err, shared.ErrAdminOnly)
}

func TestGetProgress_AdminViewsAnyone(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.login(t, "admin", "admin123")
	h := NewGetProgressHandler(e.session, e.students, e.logs)

	res, err := h.Handle(ctx, GetProgressQuery{Username: "faiza"})
	require.NoError(t, err)
	assert.Equal(t, "Faiza Rahman", res.Student.FullName)
	assert.Len(t, res.Lines, 3)

	res, err = h.Handle(ctx, GetProgressQuery{})
	require.NoError(t, err)
	assert.Empty(t, res.Lines)

	_, err = h.Handle(ctx, GetProgressQuery{Username: "ghost"})
	assert.True(t, shared.IsNotFound(err))
}

func TestGetStatistics(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.login(t, "faiza", "faiza123")
	cache := newMapCache()
	h := NewGetStatisticsHandler(e.session, e.students, e.logs, cache, nil)

	res, err := h.Handle(ctx, GetStatisticsQuery{})
	require.NoError(t, err)
	require.True(t, res.Available())
	assert.False(t, res.FromCache)
	assert.Equal(t, 3, res.Statistics.TotalEntries)
	assert.InDelta(t, 85.0, res.Statistics.AverageScore, 1e-9)
	assert.InDelta(t, 92.0, res.Statistics.HighestScore, 1e-9)
	assert.InDelta(t, 78.0, res.Statistics.LowestScore, 1e-9)
	assert.Equal(t, []string{"Math", "English", "Science"}, res.Statistics.Subjects)

	res, err = h.Handle(ctx, GetStatisticsQuery{})
	require.NoError(t, err)
	assert.True(t, res.FromCache)
}

func TestGetStatistics_EmptyLog(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.login(t, "admin", "admin123")

	res, err := NewGetStatisticsHandler(e.session, e.students, e.logs, newMapCache(), nil).Handle(ctx, GetStatisticsQuery{})
	require.NoError(t, err)
	assert.False(t, res.Available())
}

func TestGetFeedback(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.login(t, "ratul", "ratul123")
	cache := newMapCache()
	h := NewGetFeedbackHandler(e.session, e.students, e.logs, cache, nil)

	res, err := h.Handle(ctx, GetFeedbackQuery{})
	require.NoError(t, err)
	assert.True(t, res.Student.Username == "ratul")
	assert.Equal(t, feedback.ComposeMessage([]progress.Entry{
		{Subject: "Math", Score: 72, MaxScore: 100},
		{Subject: "English", Score: 88, MaxScore: 100},
		{Subject: "Science", Score: 65, MaxScore: 100},
	}, "Ratul"), res.Message)
	assert.Contains(t, cache.messages, "ratul")

	// a new entry invalidates, the next read recomputes
	require.NoError(t, e.logs.Append(ctx, "ratul", progress.Entry{Subject: "Math", Score: 100, MaxScore: 100, Date: "2026-10-16"}))
	require.NoError(t, cache.Invalidate(ctx, "ratul"))

	res, err = h.Handle(ctx, GetFeedbackQuery{})
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Contains(t, res.Message, "📈 You're improving! Keep up the momentum, Ratul!")
}

func TestGetFeedback_WelcomeIsNotCached(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.login(t, "admin", "admin123")
	cache := newMapCache()

	res, err := NewGetFeedbackHandler(e.session, e.students, e.logs, cache, nil).Handle(ctx, GetFeedbackQuery{})
	require.NoError(t, err)
	assert.Equal(t, feedback.WelcomeMessage, res.Message)
	assert.Empty(t, cache.messages)
}

func TestListStudents(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	e.login(t, "faiza", "faiza123")
	_, err := NewListStudentsHandler(e.session, e.students).Handle(ctx, ListStudentsQuery{})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	e.login(t, "admin", "admin123")
	res, err := NewListStudentsHandler(e.session, e.students).Handle(ctx, ListStudentsQuery{})
	require.NoError(t, err)
	require.Len(t, res.Students, 2)
	assert.Equal(t, student.Username("faiza"), res.Students[0].Username)
	assert.Equal(t, student.Username("ratul"), res.Students[1].Username)
}
