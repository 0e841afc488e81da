package jsonfile

import (
	"context"
	"sort"
	"sync"

	"github.com/alem-hub/progress-tracker/internal/domain/shared"
	"github.com/alem-hub/progress-tracker/internal/domain/student"
	"github.com/alem-hub/progress-tracker/internal/infrastructure/persistence/fixtures"
	"github.com/alem-hub/progress-tracker/pkg/logger"
)

// studentRecord is the on-disk shape of one account.
type studentRecord struct {
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
}

var _ student.Repository = (*StudentStore)(nil)

// StudentStore implements student.Repository over the students document.
type StudentStore struct {
	mu      sync.Mutex
	doc     document[studentRecord]
	records map[string]studentRecord
	corrupt bool
}

// OpenStudentStore loads path, seeding it with the sample accounts
// (digested by hasher) when the file does not exist.
func OpenStudentStore(path string, hasher student.PasswordHasher, log *logger.Logger) (*StudentStore, error) {
	doc := document[studentRecord]{
		path: path,
		log:  log.With(logger.Component("jsonfile.students")),
	}

	records, corrupt, err := doc.load(func() (map[string]studentRecord, error) {
		sample, err := fixtures.Students(hasher)
		if err != nil {
			return nil, err
		}
		out := make(map[string]studentRecord, len(sample))
		for _, s := range sample {
			out[s.Username.String()] = toStudentRecord(s)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return &StudentStore{doc: doc, records: records, corrupt: corrupt}, nil
}

// Corrupt reports whether the document failed to load and the store started empty.
func (s *StudentStore) Corrupt() bool {
	return s.corrupt
}

// Get returns a student by exact username.
func (s *StudentStore) Get(_ context.Context, username student.Username) (*student.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[username.String()]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return fromStudentRecord(username, rec), nil
}

// Create inserts a student and rewrites the document.
func (s *StudentStore) Create(_ context.Context, st *student.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := st.Username.String()
	if _, ok := s.records[key]; ok {
		return shared.ErrStudentAlreadyExists
	}

	s.records[key] = toStudentRecord(st)
	if err := s.doc.save(s.records); err != nil {
		delete(s.records, key)
		return err
	}
	return nil
}

// List returns every student ordered by username.
func (s *StudentStore) List(_ context.Context) ([]*student.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*student.Student, 0, len(s.records))
	for name, rec := range s.records {
		out = append(out, fromStudentRecord(student.Username(name), rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// Exists checks if the username is taken.
func (s *StudentStore) Exists(_ context.Context, username student.Username) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.records[username.String()]
	return ok, nil
}

func toStudentRecord(st *student.Student) studentRecord {
	return studentRecord{
		Password: st.PasswordDigest,
		FullName: st.FullName,
		Email:    st.Email,
		Role:     string(st.Role),
	}
}

func fromStudentRecord(username student.Username, rec studentRecord) *student.Student {
	return &student.Student{
		Username:       username,
		PasswordDigest: rec.Password,
		FullName:       rec.FullName,
		Email:          rec.Email,
		Role:           student.Role(rec.Role),
	}
}
