// Package feedback - движок статистики и персональных сообщений.
//
// Все функции пакета чистые: они получают журнал оценок и имя студента
// как данные и не обращаются к хранилищам.
package feedback

import "github.com/alem-hub/progress-tracker/internal/domain/progress"

// ══════════════════════════════════════════════════════════════════════════════
// STATISTICS
// ══════════════════════════════════════════════════════════════════════════════

// Statistics - агрегированная статистика по журналу (все значения в процентах).
type Statistics struct {
	TotalEntries int      `json:"total_entries"`
	AverageScore float64  `json:"average_score"`
	HighestScore float64  `json:"highest_score"`
	LowestScore  float64  `json:"lowest_score"`
	Subjects     []string `json:"subjects"`
}

// ComputeStatistics считает статистику по журналу.
// Для пустого журнала возвращает nil ("статистика недоступна"), это не ошибка.
// Subjects перечисляются в порядке первого появления.
func ComputeStatistics(entries []progress.Entry) *Statistics {
	if len(entries) == 0 {
		return nil
	}

	pcts := progress.Percentages(entries)
	stats := &Statistics{
		TotalEntries: len(entries),
		AverageScore: mean(pcts),
		HighestScore: pcts[0],
		LowestScore:  pcts[0],
	}
	for _, p := range pcts[1:] {
		if p > stats.HighestScore {
			stats.HighestScore = p
		}
		if p < stats.LowestScore {
			stats.LowestScore = p
		}
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Subject]; ok {
			continue
		}
		seen[e.Subject] = struct{}{}
		stats.Subjects = append(stats.Subjects, e.Subject)
	}

	return stats
}

// SubjectAverage - средний процент по одному предмету.
type SubjectAverage struct {
	Subject string
	Average float64
	Count   int
}

// SubjectAverages группирует проценты по предметам в порядке первого появления.
func SubjectAverages(entries []progress.Entry) []SubjectAverage {
	index := make(map[string]int)
	sums := make([]float64, 0)
	out := make([]SubjectAverage, 0)

	for _, e := range entries {
		i, ok := index[e.Subject]
		if !ok {
			i = len(out)
			index[e.Subject] = i
			out = append(out, SubjectAverage{Subject: e.Subject})
			sums = append(sums, 0)
		}
		sums[i] += e.Percentage()
		out[i].Count++
	}

	for i := range out {
		out[i].Average = sums[i] / float64(out[i].Count)
	}
	return out
}

// mean возвращает среднее значение; 0 для пустого среза.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
