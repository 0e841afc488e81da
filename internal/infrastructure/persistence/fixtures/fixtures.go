// Package fixtures holds the sample accounts and scores a fresh store is seeded with.
package fixtures

import (
	"fmt"

	"github.com/alem-hub/progress-tracker/internal/domain/progress"
	"github.com/alem-hub/progress-tracker/internal/domain/student"
)

type sampleStudent struct {
	username string
	password string
	fullName string
	email    string
	admin    bool
}

var sampleStudents = []sampleStudent{
	{username: "faiza", password: "faiza123", fullName: "Faiza Rahman", email: "faiza@email.com"},
	{username: "ratul", password: "ratul123", fullName: "Ratul Ahmed", email: "ratul@email.com"},
	{username: "admin", password: "admin123", fullName: "Administrator", email: "admin@school.com", admin: true},
}

var sampleProgress = map[string][]progress.Entry{
	"faiza": {
		{Subject: "Math", Score: 85, MaxScore: 100, Date: "2024-01-15"},
		{Subject: "English", Score: 78, MaxScore: 100, Date: "2024-01-16"},
		{Subject: "Science", Score: 92, MaxScore: 100, Date: "2024-01-17"},
	},
	"ratul": {
		{Subject: "Math", Score: 72, MaxScore: 100, Date: "2024-01-15"},
		{Subject: "English", Score: 88, MaxScore: 100, Date: "2024-01-16"},
		{Subject: "Science", Score: 65, MaxScore: 100, Date: "2024-01-17"},
	},
}

// Students returns the sample accounts with passwords digested by hasher.
// The admin account has no progress log.
func Students(hasher student.PasswordHasher) ([]*student.Student, error) {
	out := make([]*student.Student, 0, len(sampleStudents))
	for _, s := range sampleStudents {
		digest, err := hasher.Hash(s.password)
		if err != nil {
			return nil, fmt.Errorf("hash password of %s: %w", s.username, err)
		}
		st, err := student.NewStudent(student.NewStudentParams{
			Username:       student.Username(s.username),
			PasswordDigest: digest,
			FullName:       s.fullName,
			Email:          s.email,
			Admin:          s.admin,
		})
		if err != nil {
			return nil, fmt.Errorf("sample student %s: %w", s.username, err)
		}
		out = append(out, st)
	}
	return out, nil
}

// Progress returns a fresh copy of the sample progress logs.
func Progress() map[string][]progress.Entry {
	out := make(map[string][]progress.Entry, len(sampleProgress))
	for username, entries := range sampleProgress {
		out[username] = append([]progress.Entry(nil), entries...)
	}
	return out
}
