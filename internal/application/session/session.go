// Package session tracks the single logged-in student of a process run.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/alem-hub/progress-tracker/internal/domain/shared"
	"github.com/alem-hub/progress-tracker/internal/domain/student"
	"github.com/alem-hub/progress-tracker/pkg/logger"
)

// Session holds at most one authenticated student.
type Session struct {
	students student.Repository
	hasher   student.PasswordHasher
	log      *logger.Logger

	mu      sync.RWMutex
	current *student.Student
	id      string
}

// New creates a logged-out session.
func New(students student.Repository, hasher student.PasswordHasher, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		students: students,
		hasher:   hasher,
		log:      log.With(logger.Component("session")),
	}
}

// Authenticate looks up username (exact match, callers normalize) and checks
// the password. On success the session switches to that student; on failure
// it is left unchanged and shared.ErrInvalidCredentials is returned.
func (s *Session) Authenticate(ctx context.Context, username student.Username, password string) error {
	st, err := s.students.Get(ctx, username)
	if err != nil {
		if shared.IsNotFound(err) {
			s.log.Warn("login failed", logger.Username(username.String()), logger.String("reason", "unknown user"))
			return shared.ErrInvalidCredentials
		}
		return fmt.Errorf("load student %s: %w", username, err)
	}

	if !s.hasher.Verify(st.PasswordDigest, password) {
		s.log.Warn("login failed", logger.Username(username.String()), logger.String("reason", "wrong password"))
		return shared.ErrInvalidCredentials
	}

	s.mu.Lock()
	s.current = st
	s.id = uuid.NewString()
	id := s.id
	s.mu.Unlock()

	s.log.Info("logged in", logger.Username(username.String()), logger.SessionID(id), logger.Bool("admin", st.IsAdmin()))
	return nil
}

// Logout clears the session. It is a no-op when nobody is logged in.
func (s *Session) Logout() {
	s.mu.Lock()
	prev, id := s.current, s.id
	s.current, s.id = nil, ""
	s.mu.Unlock()

	if prev != nil {
		s.log.Info("logged out", logger.Username(prev.Username.String()), logger.SessionID(id))
	}
}

// Current returns the logged-in student.
func (s *Session) Current() (*student.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// Username returns the logged-in username or "".
func (s *Session) Username() student.Username {
	if st, ok := s.Current(); ok {
		return st.Username
	}
	return ""
}

// ID returns the id of the current login or "".
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// IsAdmin is true iff a student is logged in and carries the admin role.
func (s *Session) IsAdmin() bool {
	st, ok := s.Current()
	return ok && st.IsAdmin()
}

// Require returns the logged-in student or shared.ErrNotLoggedIn.
func (s *Session) Require() (*student.Student, error) {
	st, ok := s.Current()
	if !ok {
		return nil, shared.ErrNotLoggedIn
	}
	return st, nil
}

// RequireAdmin is Require plus an admin check (shared.ErrAdminOnly).
func (s *Session) RequireAdmin() (*student.Student, error) {
	st, err := s.Require()
	if err != nil {
		return nil, err
	}
	if !st.IsAdmin() {
		return nil, shared.ErrAdminOnly
	}
	return st, nil
}

// Logger returns the session logger annotated with the current login.
func (s *Session) Logger() *logger.Logger {
	st, ok := s.Current()
	if !ok {
		return s.log
	}
	return s.log.With(logger.Username(st.Username.String()), logger.SessionID(s.ID()))
}
