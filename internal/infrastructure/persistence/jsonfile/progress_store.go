package jsonfile

import (
	"context"
	"sync"

	"github.com/alem-hub/progress-tracker/internal/domain/progress"
	"github.com/alem-hub/progress-tracker/internal/infrastructure/persistence/fixtures"
	"github.com/alem-hub/progress-tracker/pkg/logger"
)

// entryRecord is the on-disk shape of one score entry.
type entryRecord struct {
	Subject  string `json:"subject"`
	Score    int    `json:"score"`
	MaxScore int    `json:"max_score"`
	Date     string `json:"date"`
}

var _ progress.Repository = (*ProgressStore)(nil)

// ProgressStore implements progress.Repository over the progress document.
type ProgressStore struct {
	mu      sync.Mutex
	doc     document[[]entryRecord]
	logs    map[string][]entryRecord
	corrupt bool
}

// OpenProgressStore loads path, seeding it with the sample scores when the
// file does not exist.
func OpenProgressStore(path string, log *logger.Logger) (*ProgressStore, error) {
	doc := document[[]entryRecord]{
		path: path,
		log:  log.With(logger.Component("jsonfile.progress")),
	}

	logs, corrupt, err := doc.load(func() (map[string][]entryRecord, error) {
		sample := fixtures.Progress()
		out := make(map[string][]entryRecord, len(sample))
		for username, entries := range sample {
			out[username] = toEntryRecords(entries)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return &ProgressStore{doc: doc, logs: logs, corrupt: corrupt}, nil
}

// Corrupt reports whether the document failed to load and the store started empty.
func (s *ProgressStore) Corrupt() bool {
	return s.corrupt
}

// Reset replaces username's log with an empty one and rewrites the document.
// On a failed save the previous log is kept in memory.
func (s *ProgressStore) Reset(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.logs[username]
	s.logs[username] = []entryRecord{}
	if err := s.doc.save(s.logs); err != nil {
		if existed {
			s.logs[username] = prev
		} else {
			delete(s.logs, username)
		}
		return err
	}
	return nil
}

// Append adds e to the end of the log and rewrites the document.
func (s *ProgressStore) Append(_ context.Context, username string, e progress.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.logs[username]
	next := make([]entryRecord, len(prev), len(prev)+1)
	copy(next, prev)
	s.logs[username] = append(next, toEntryRecord(e))

	if err := s.doc.save(s.logs); err != nil {
		if existed {
			s.logs[username] = prev
		} else {
			delete(s.logs, username)
		}
		return err
	}
	return nil
}

// List returns the log in insertion order.
func (s *ProgressStore) List(_ context.Context, username string) ([]progress.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.logs[username]
	out := make([]progress.Entry, 0, len(recs))
	for _, r := range recs {
		out = append(out, progress.Entry{
			Subject:  r.Subject,
			Score:    r.Score,
			MaxScore: r.MaxScore,
			Date:     r.Date,
		})
	}
	return out, nil
}

func toEntryRecord(e progress.Entry) entryRecord {
	return entryRecord{Subject: e.Subject, Score: e.Score, MaxScore: e.MaxScore, Date: e.Date}
}

func toEntryRecords(entries []progress.Entry) []entryRecord {
	out := make([]entryRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryRecord(e))
	}
	return out
}
