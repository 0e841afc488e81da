package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, Username("faiza"), NormalizeUsername("  Faiza "))
	assert.Equal(t, Username(""), NormalizeUsername("   "))
}

func TestUsername_IsValid(t *testing.T) {
	assert.True(t, Username("ratul").IsValid())
	assert.False(t, Username("").IsValid())
	assert.False(t, Username("two words").IsValid())
}

func TestNewStudent(t *testing.T) {
	s, err := NewStudent(NewStudentParams{
		Username:       "faiza",
		PasswordDigest: "abc",
		FullName:       "Faiza Rahman",
		Email:          "faiza@email.com",
	})
	require.NoError(t, err)
	assert.False(t, s.IsAdmin())
	assert.Equal(t, RoleStudent, s.Role)

	admin, err := NewStudent(NewStudentParams{Username: "admin", PasswordDigest: "x", Admin: true})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	_, err = NewStudent(NewStudentParams{Username: "", PasswordDigest: "x"})
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = NewStudent(NewStudentParams{Username: "u"})
	assert.ErrorIs(t, err, ErrEmptyDigest)
}

func TestFirstName(t *testing.T) {
	tests := []struct {
		full string
		want string
	}{
		{"Faiza Rahman", "Faiza"},
		{"  Ratul   Ahmed ", "Ratul"},
		{"Administrator", "Administrator"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FirstName(tt.full), tt.full)
	}

	s := &Student{Username: "ghost"}
	assert.Equal(t, "ghost", s.FirstName())
}
