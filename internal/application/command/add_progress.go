package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/alem-hub/progress-tracker/internal/domain/feedback"
	"github.com/alem-hub/progress-tracker/internal/domain/progress"
	"github.com/alem-hub/progress-tracker/pkg/logger"
	"github.com/alem-hub/progress-tracker/pkg/timeutil"
	"github.com/alem-hub/progress-tracker/pkg/validate"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD PROGRESS COMMAND
// Appends a score entry dated today to the logged-in student's log.
// ══════════════════════════════════════════════════════════════════════════════

// MsgProgressAdded is returned on success.
const MsgProgressAdded = "Progress added successfully"

// AddProgressCommand contains one score. Score may exceed MaxScore.
type AddProgressCommand struct {
	Subject  string `json:"subject" validate:"required,notblank"`
	Score    int    `json:"score"`
	MaxScore int    `json:"max_score" validate:"gt=0"`
}

// NewAddProgressCommand builds a command out of progress.DefaultMaxScore.
func NewAddProgressCommand(subject string, score int) AddProgressCommand {
	return AddProgressCommand{Subject: subject, Score: score, MaxScore: progress.DefaultMaxScore}
}

// AddProgressResult contains the stored entry.
type AddProgressResult struct {
	Username string
	Entry    progress.Entry
	Message  string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AddProgressHandler handles the AddProgressCommand.
type AddProgressHandler struct {
	session   CurrentStudent
	logs      progress.Repository
	cache     feedback.Cache // Optional cache for invalidation
	clock     timeutil.Clock
	validator *validate.Validator
	log       *logger.Logger
}

// NewAddProgressHandler creates a new AddProgressHandler. cache may be nil.
func NewAddProgressHandler(
	session CurrentStudent,
	logs progress.Repository,
	cache feedback.Cache,
	clock timeutil.Clock,
	validator *validate.Validator,
	log *logger.Logger,
) *AddProgressHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AddProgressHandler{
		session:   session,
		logs:      logs,
		cache:     cache,
		clock:     clock,
		validator: validator,
		log:       log.With(logger.Component("add_progress")),
	}
}

// Handle executes the add progress command.
func (h *AddProgressHandler) Handle(ctx context.Context, cmd AddProgressCommand) (*AddProgressResult, error) {
	st, err := h.session.Require()
	if err != nil {
		return nil, err
	}

	cmd.Subject = strings.TrimSpace(cmd.Subject)
	if err := h.validator.Struct(cmd); err != nil {
		return nil, validationError(err)
	}

	username := st.Username.String()
	entry := progress.NewEntry(cmd.Subject, cmd.Score, cmd.MaxScore, h.clock.Now())

	if err := h.logs.Append(ctx, username, entry); err != nil {
		return nil, fmt.Errorf("add_progress: append entry: %w", err)
	}

	// Invalidate cache if available
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, username); err != nil {
			h.log.Warn("feedback cache not invalidated", logger.Username(username), logger.Err(err))
		}
	}

	h.log.Info("progress added",
		logger.Username(username),
		logger.Subject(entry.Subject),
		logger.Int("score", entry.Score),
		logger.Int("max_score", entry.MaxScore),
	)

	return &AddProgressResult{Username: username, Entry: entry, Message: MsgProgressAdded}, nil
}
