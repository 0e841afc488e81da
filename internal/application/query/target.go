// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/alem-hub/progress-tracker/internal/domain/student"
)

// CurrentStudent - текущий вошедший студент. Реализуется session.Session.
type CurrentStudent interface {
	Require() (*student.Student, error)
	RequireAdmin() (*student.Student, error)
}

// resolveTarget возвращает студента, о котором запрос.
// Пустой username - это сам вошедший студент; чужой журнал доступен только администратору.
func resolveTarget(
	ctx context.Context,
	session CurrentStudent,
	students student.Repository,
	username string,
) (*student.Student, error) {
	me, err := session.Require()
	if err != nil {
		return nil, err
	}
	if username == "" || username == me.Username.String() {
		return me, nil
	}

	if _, err := session.RequireAdmin(); err != nil {
		return nil, err
	}

	st, err := students.Get(ctx, student.Username(username))
	if err != nil {
		return nil, fmt.Errorf("load student %s: %w", username, err)
	}
	return st, nil
}
