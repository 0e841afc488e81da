package cli

import (
	"fmt"
	"strings"

	"github.com/alem-hub/progress-tracker/internal/application/query"
	"github.com/alem-hub/progress-tracker/internal/domain/feedback"
	"github.com/alem-hub/progress-tracker/internal/domain/shared"
	"github.com/alem-hub/progress-tracker/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// PRESENTER
// Форматирует результаты запросов для вывода в терминал.
// ══════════════════════════════════════════════════════════════════════════════

const (
	bannerRule = "=================================================="
	menuRule   = "--------------------"
	listRule   = "------------------------------"
	wideRule   = "----------------------------------------"
)

// FormatProgressLine форматирует строку журнала: "N. Subject: score/max (pct%) - date".
func FormatProgressLine(line query.ProgressLine) string {
	e := line.Entry
	return fmt.Sprintf("%d. %s: %d/%d (%.1f%%) - %s",
		line.Number, e.Subject, e.Score, e.MaxScore, line.Percentage, e.Date)
}

// FormatProgress форматирует весь журнал, по строке на запись.
func FormatProgress(lines []query.ProgressLine) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, FormatProgressLine(l))
	}
	return strings.Join(out, "\n")
}

// FormatStatistics форматирует статистику с одним знаком после запятой.
func FormatStatistics(s *feedback.Statistics) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total Entries: %d\n", s.TotalEntries)
	fmt.Fprintf(&sb, "Average Score: %.1f%%\n", s.AverageScore)
	fmt.Fprintf(&sb, "Highest Score: %.1f%%\n", s.HighestScore)
	fmt.Fprintf(&sb, "Lowest Score: %.1f%%\n", s.LowestScore)
	fmt.Fprintf(&sb, "Subjects: %s", strings.Join(s.Subjects, ", "))
	return sb.String()
}

// FormatStudentLine - строка списка студентов для администратора.
func FormatStudentLine(s *student.Student) string {
	return fmt.Sprintf("• %s (%s) - %s", s.FullName, s.Username, s.Email)
}

// describe returns the text shown after "❌ ".
func describe(err error) string {
	if ve, ok := asValidation(err); ok {
		msgs := make([]string, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			msgs = append(msgs, f.Message)
		}
		return strings.Join(msgs, "; ")
	}
	return shared.UserMessage(err)
}
