// Package command contains write operations (CQRS - Commands).
package command

import (
	"errors"

	"github.com/alem-hub/progress-tracker/internal/domain/shared"
	"github.com/alem-hub/progress-tracker/internal/domain/student"
	"github.com/alem-hub/progress-tracker/pkg/validate"
)

// CurrentStudent exposes the logged-in student. Implemented by session.Session.
type CurrentStudent interface {
	Require() (*student.Student, error)
}

// validationError converts validator output into a shared.ValidationError.
func validationError(err error) error {
	var verrs validate.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]shared.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, shared.FieldError{Field: fe.Field, Message: fe.Message})
	}
	return shared.NewValidationError(fields...)
}
