// Package progress содержит журнал оценок студента (ProgressLog).
// Записи только добавляются: не редактируются и не удаляются.
package progress

import (
	"context"
	"time"
)

// DefaultMaxScore - максимальный балл по умолчанию.
const DefaultMaxScore = 100

// DateLayout - формат даты записи (ISO, YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Entry - одна запись об оценке.
type Entry struct {
	// Subject - предмет.
	Subject string

	// Score - полученный балл. Может превышать MaxScore.
	Score int

	// MaxScore - максимальный балл (> 0).
	MaxScore int

	// Date - календарная дата в формате YYYY-MM-DD.
	Date string
}

// NewEntry создаёт запись с датой t.
func NewEntry(subject string, score, maxScore int, t time.Time) Entry {
	return Entry{
		Subject:  subject,
		Score:    score,
		MaxScore: maxScore,
		Date:     t.Format(DateLayout),
	}
}

// Percentage возвращает score / max_score * 100.
// Для повреждённых записей с MaxScore <= 0 возвращает 0.
func (e Entry) Percentage() float64 {
	if e.MaxScore <= 0 {
		return 0
	}
	return float64(e.Score) / float64(e.MaxScore) * 100
}

// Percentages переводит записи в проценты, сохраняя порядок.
func Percentages(entries []Entry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.Percentage()
	}
	return out
}

// Repository - хранилище журналов (username -> []Entry).
type Repository interface {
	// Reset заводит пустой журнал. Прежние записи под этим именем удаляются:
	// журнал принадлежит только текущему владельцу username.
	Reset(ctx context.Context, username string) error

	// Append добавляет запись в конец журнала и сохраняет документ.
	// Если журнала нет, он создаётся.
	Append(ctx context.Context, username string, e Entry) error

	// List возвращает записи в порядке добавления (пустой срез, если журнала нет).
	List(ctx context.Context, username string) ([]Entry, error)
}
