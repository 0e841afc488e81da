package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,username"`
	FullName string `json:"full_name" validate:"required,notblank"`
	Email    string `json:"email" validate:"omitempty,email"`
	MaxScore int    `json:"max_score" validate:"gt=0"`
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(signup{Username: "faiza", FullName: "Faiza Rahman", MaxScore: 100}))
	assert.NoError(t, v.Struct(&signup{Username: "ratul", FullName: "Ratul", Email: "ratul@email.com", MaxScore: 1}))
}

func TestStruct_TranslatedMessages(t *testing.T) {
	v := New()

	err := v.Struct(signup{Username: "two words", FullName: "   ", Email: "nope", MaxScore: 0})
	require.Error(t, err)

	var errs Errors
	require.True(t, errors.As(err, &errs))

	byField := map[string]string{}
	for _, fe := range errs {
		byField[fe.Field] = fe.Message
	}
	assert.Equal(t, "username must be a single word without spaces", byField["username"])
	assert.Equal(t, "full_name must not be blank", byField["full_name"])
	assert.Equal(t, "email must be a valid email address", byField["email"])
	assert.Equal(t, "max_score must be greater than 0", byField["max_score"])
}

func TestStruct_Required(t *testing.T) {
	err := New().Struct(signup{MaxScore: 1})

	var errs Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs.Error(), "username is required")
	assert.Contains(t, errs.Error(), "full_name is required")
}

func TestStruct_NotAStruct(t *testing.T) {
	err := New().Struct(42)
	require.Error(t, err)

	var errs Errors
	assert.False(t, errors.As(err, &errs))
}
