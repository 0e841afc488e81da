package command

import (
	"context"
	"fmt"

	"github.com/alem-hub/progress-tracker/internal/domain/progress"
	"github.com/alem-hub/progress-tracker/internal/domain/shared"
	"github.com/alem-hub/progress-tracker/internal/domain/student"
	"github.com/alem-hub/progress-tracker/pkg/logger"
	"github.com/alem-hub/progress-tracker/pkg/validate"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT COMMAND
// Creates a non-admin account and its empty progress log.
// ══════════════════════════════════════════════════════════════════════════════

// MsgStudentRegistered is returned on success.
const MsgStudentRegistered = "Student registered successfully"

// RegisterStudentCommand contains the data of a new account.
// Username is used as given; callers normalize it first.
type RegisterStudentCommand struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,notblank"`
	FullName string `json:"full_name" validate:"required,notblank"`
	Email    string `json:"email"`
}

// RegisterStudentResult contains the result of a registration.
type RegisterStudentResult struct {
	Student *student.Student
	Message string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentHandler handles the RegisterStudentCommand.
type RegisterStudentHandler struct {
	students  student.Repository
	logs      progress.Repository
	hasher    student.PasswordHasher
	validator *validate.Validator
	log       *logger.Logger
}

// NewRegisterStudentHandler creates a new RegisterStudentHandler.
func NewRegisterStudentHandler(
	students student.Repository,
	logs progress.Repository,
	hasher student.PasswordHasher,
	validator *validate.Validator,
	log *logger.Logger,
) *RegisterStudentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterStudentHandler{
		students:  students,
		logs:      logs,
		hasher:    hasher,
		validator: validator,
		log:       log.With(logger.Component("register_student")),
	}
}

// Handle executes the register command.
// A taken username is rejected before anything else is looked at, so a
// duplicate never changes either store.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*RegisterStudentResult, error) {
	username := student.Username(cmd.Username)

	exists, err := h.students.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("register_student: check username: %w", err)
	}
	if exists {
		h.log.Info("username taken", logger.Username(cmd.Username))
		return nil, shared.ErrStudentAlreadyExists
	}

	if err := h.validator.Struct(cmd); err != nil {
		return nil, validationError(err)
	}

	digest, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("register_student: hash password: %w", err)
	}

	st, err := student.NewStudent(student.NewStudentParams{
		Username:       username,
		PasswordDigest: digest,
		FullName:       cmd.FullName,
		Email:          cmd.Email,
	})
	if err != nil {
		return nil, shared.WrapError("student", "Register", shared.ErrInvalidInput, err.Error(), err)
	}

	if err := h.students.Create(ctx, st); err != nil {
		if shared.IsAlreadyExists(err) {
			return nil, shared.ErrStudentAlreadyExists
		}
		return nil, fmt.Errorf("register_student: save student: %w", err)
	}

	// No cross-store transaction: a failure here leaves an account without a log,
	// and Append creates it later. Entries left by an earlier owner of the name go.
	if err := h.logs.Reset(ctx, cmd.Username); err != nil {
		h.log.Error("progress log not created", logger.Username(cmd.Username), logger.Err(err))
		return nil, fmt.Errorf("register_student: init progress log: %w", err)
	}

	h.log.Info("student registered", logger.Username(cmd.Username))
	return &RegisterStudentResult{Student: st, Message: MsgStudentRegistered}, nil
}
