package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/progress-tracker/internal/application/command"
	"github.com/alem-hub/progress-tracker/internal/application/query"
	"github.com/alem-hub/progress-tracker/internal/application/session"
	"github.com/alem-hub/progress-tracker/internal/domain/feedback"
	"github.com/alem-hub/progress-tracker/internal/infrastructure/persistence/jsonfile"
	"github.com/alem-hub/progress-tracker/internal/infrastructure/security"
	"github.com/alem-hub/progress-tracker/pkg/logger"
	"github.com/alem-hub/progress-tracker/pkg/timeutil"
	"github.com/alem-hub/progress-tracker/pkg/validate"
)

// run drives a fresh app over the seeded stores in dir with scripted input.
func run(t *testing.T, dir, input string, fd int) string {
	t.Helper()
	hasher := security.SHA256Hasher{}
	log := logger.Nop()

	students, err := jsonfile.OpenStudentStore(filepath.Join(dir, "students.json"), hasher, log)
	require.NoError(t, err)
	logs, err := jsonfile.OpenProgressStore(filepath.Join(dir, "progress.json"), log)
	require.NoError(t, err)

	sess := session.New(students, hasher, log)
	v := validate.New()
	clock := timeutil.FixedClock{At: time.Date(2026, time.October, 16, 12, 0, 0, 0, time.Local)}

	h := Handlers{
		Register:     command.NewRegisterStudentHandler(students, logs, hasher, v, log),
		AddProgress:  command.NewAddProgressHandler(sess, logs, nil, clock, v, log),
		Progress:     query.NewGetProgressHandler(sess, students, logs),
		Statistics:   query.NewGetStatisticsHandler(sess, students, logs, nil, log),
		Feedback:     query.NewGetFeedbackHandler(sess, students, logs, nil, log),
		ListStudents: query.NewListStudentsHandler(sess, students),
	}

	var out bytes.Buffer
	app := New(Options{In: strings.NewReader(input), Out: &out, InputFD: fd}, sess, h, log)
	require.NoError(t, app.Run(context.Background()))
	return out.String()
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func TestRun_Exit(t *testing.T) {
	out := run(t, t.TempDir(), lines("3"), -1)
	assert.Contains(t, out, "📚 STUDENT PROGRESS TRACKER 📚")
	assert.Contains(t, out, "🔐 LOGIN PORTAL")
	assert.True(t, strings.HasSuffix(out, "👋 Goodbye!\n"), out)
}

func TestRun_EOFExits(t *testing.T) {
	out := run(t, t.TempDir(), "", -1)
	assert.Contains(t, out, "👋 Goodbye!")

	out = run(t, t.TempDir(), "1\nfaiza", -1)
	assert.Contains(t, out, "👋 Goodbye!")
}

func TestRun_StudentSession(t *testing.T) {
	out := run(t, t.TempDir(), lines("1", "  Faiza ", "faiza123", "2", "3", "4", "9", "5", "0", "3"), -1)

	assert.Contains(t, out, "✅ Welcome back, Faiza Rahman!")
	assert.Contains(t, out, "🎉 👍 Great job, Faiza! You're doing really well!")
	assert.Contains(t, out, "👤 Logged in as: Faiza Rahman")
	assert.NotContains(t, out, "5. View All Students (Admin)")

	assert.Contains(t, out, lines(
		"1. Math: 85/100 (85.0%) - 2024-01-15",
		"2. English: 78/100 (78.0%) - 2024-01-16",
		"3. Science: 92/100 (92.0%) - 2024-01-17",
	))
	assert.Contains(t, out, lines(
		"Total Entries: 3",
		"Average Score: 85.0%",
		"Highest Score: 92.0%",
		"Lowest Score: 78.0%",
		"Subjects: Math, English, Science",
	))
	assert.Contains(t, out, "💌 PERSONALIZED MESSAGE")
	assert.Equal(t, 2, strings.Count(out, "❌ Invalid choice!"))
	assert.Contains(t, out, "👋 Goodbye, Faiza Rahman!")
}

func TestRun_InvalidLogin(t *testing.T) {
	out := run(t, t.TempDir(), lines("1", "faiza", "nope", "1", "ghost", "x", "3"), -1)
	assert.Equal(t, 2, strings.Count(out, "❌ Invalid username or password!"))
	assert.NotContains(t, out, "Logged in as")
}

func TestRun_Register(t *testing.T) {
	dir := t.TempDir()

	out := run(t, dir, lines("2", "faiza", "pw", "Someone Else", "x@x.io", "3"), -1)
	assert.Contains(t, out, "❌ Username already exists")

	out = run(t, dir, lines("2", "Nadia", "pw", "Nadia Islam", "nadia@email.com", "1", "nadia", "pw", "2", "3", "0", "3"), -1)
	assert.Contains(t, out, "✅ Student registered successfully")
	assert.Contains(t, out, "✅ Welcome back, Nadia Islam!")
	assert.Contains(t, out, "🎉 "+feedback.WelcomeMessage)
	assert.Contains(t, out, "No progress entries found.")
	assert.Contains(t, out, "No statistics available yet.")

	out = run(t, dir, lines("2", "omar", "pw", "  ", "bad", "3"), -1)
	assert.Contains(t, out, "❌ full_name is required")
	assert.NotContains(t, out, "valid email address")
}

func TestRun_AddProgress(t *testing.T) {
	dir := t.TempDir()
	out := run(t, dir, lines(
		"1", "ratul", "ratul123",
		"1", "Math", "abc",
		"1", "Math", "50", "ten",
		"1", "Art", "45", "",
		"1", "Art", "9", "0",
		"2", "0", "3",
	), -1)

	assert.Equal(t, 2, strings.Count(out, "❌ Please enter valid numbers for scores!"))
	assert.Equal(t, 1, strings.Count(out, "✅ Progress added successfully"))
	assert.Contains(t, out, "💌 Updated Message:\n💪 Ratul, you need to put in more effort. You can do better!")
	assert.Contains(t, out, "❌ max_score must be greater than 0")
	assert.Contains(t, out, "4. Art: 45/100 (45.0%) - 2026-10-16")
	assert.NotContains(t, out, "5. Art")

	// persisted across runs
	out = run(t, dir, lines("1", "ratul", "ratul123", "2", "0", "3"), -1)
	assert.Contains(t, out, "4. Art: 45/100 (45.0%) - 2026-10-16")
}

func TestRun_Admin(t *testing.T) {
	out := run(t, t.TempDir(), lines(
		"1", "admin", "admin123",
		"5",
		"6", "RATUL",
		"6", "ghost",
		"6", "admin",
		"0", "3",
	), -1)

	assert.Contains(t, out, "🎉 "+feedback.WelcomeMessage)
	assert.Contains(t, out, "6. View Any Student's Progress (Admin)")
	assert.Contains(t, out, lines(
		"• Faiza Rahman (faiza) - faiza@email.com",
		"• Ratul Ahmed (ratul) - ratul@email.com",
	))
	assert.NotContains(t, out, "(admin) -")

	assert.Contains(t, out, "📈 PROGRESS FOR Ratul Ahmed")
	assert.Contains(t, out, "3. Science: 65/100 (65.0%) - 2024-01-17")
	assert.Contains(t, out, "💌 Personalized Message for this student:\n📚 Good effort, Ratul! Keep working hard!")
	assert.Contains(t, out, "❌ Student not found!")
	assert.Contains(t, out, "No progress entries found for this student.")
}

func TestRun_AdminBlankUsernameIsNotFound(t *testing.T) {
	out := run(t, t.TempDir(), lines("1", "admin", "admin123", "6", "   ", "0", "3"), -1)

	assert.Contains(t, out, "❌ Student not found!")
	assert.NotContains(t, out, "PROGRESS FOR Administrator")
}

func TestRun_HiddenPassword(t *testing.T) {
	origRead, origIsTerm := readPasswordFunc, isTerminalFunc
	t.Cleanup(func() { readPasswordFunc, isTerminalFunc = origRead, origIsTerm })

	var calls int
	isTerminalFunc = func(int) bool { return true }
	readPasswordFunc = func(fd int) ([]byte, error) {
		calls++
		return []byte("faiza123\n"), nil
	}

	out := run(t, t.TempDir(), lines("1", "faiza", "0", "3"), 0)
	assert.Equal(t, 1, calls)
	assert.Contains(t, out, "✅ Welcome back, Faiza Rahman!")
}

func TestFormatProgressLine(t *testing.T) {
	line := query.ProgressLine{Number: 2, Percentage: 200.0 / 3}
	line.Entry.Subject, line.Entry.Score, line.Entry.MaxScore, line.Entry.Date = "Physics", 20, 30, "2024-02-01"
	assert.Equal(t, "2. Physics: 20/30 (66.7%) - 2024-02-01", FormatProgressLine(line))
}
