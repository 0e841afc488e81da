package feedback

import (
	"fmt"
	"strings"

	"github.com/alem-hub/progress-tracker/internal/domain/progress"
)

// ══════════════════════════════════════════════════════════════════════════════
// THRESHOLDS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// RecentWindow - сколько последних записей входит в "недавнее среднее".
	RecentWindow = 3

	// TrendThreshold - изменение (в процентных пунктах), после которого сообщаем о тренде.
	TrendThreshold = 5.0

	// WeakSubjectBelow - средний процент, ниже которого предмет требует внимания.
	WeakSubjectBelow = 75.0

	// StrongSubjectAbove - средний процент, выше которого хвалим за предмет.
	StrongSubjectAbove = 85.0
)

// WelcomeMessage показывается, пока в журнале нет ни одной записи.
const WelcomeMessage = "Welcome! Start adding your progress to see personalized feedback."

// Tier - уровень успеваемости по недавнему среднему.
type Tier int

const (
	TierNeedsImprovement Tier = iota // < 60
	TierNeedsEffort                  // >= 60
	TierGood                         // >= 70
	TierGreat                        // >= 80
	TierExcellent                    // >= 90
)

// tierFloors - нижние границы (включительно), от высшей к низшей.
var tierFloors = []struct {
	tier  Tier
	floor float64
}{
	{TierExcellent, 90},
	{TierGreat, 80},
	{TierGood, 70},
	{TierNeedsEffort, 60},
}

// TierFor выбирает уровень: побеждает первая (самая высокая) подходящая граница.
func TierFor(recentAvg float64) Tier {
	for _, tf := range tierFloors {
		if recentAvg >= tf.floor {
			return tf.tier
		}
	}
	return TierNeedsImprovement
}

// Message возвращает шаблон уровня с подставленным именем.
func (t Tier) Message(name string) string {
	switch t {
	case TierExcellent:
		return fmt.Sprintf("🌟 Excellent work, %s! You're performing outstandingly!", name)
	case TierGreat:
		return fmt.Sprintf("👍 Great job, %s! You're doing really well!", name)
	case TierGood:
		return fmt.Sprintf("📚 Good effort, %s! Keep working hard!", name)
	case TierNeedsEffort:
		return fmt.Sprintf("💪 %s, you need to put in more effort. You can do better!", name)
	default:
		return fmt.Sprintf("⚠️ %s, your performance needs significant improvement. Work harder!", name)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ANALYSIS
// ══════════════════════════════════════════════════════════════════════════════

// Analysis - промежуточные величины, из которых собирается сообщение.
type Analysis struct {
	RecentAverage float64
	Trend         float64
	Tier          Tier
	Subjects      []SubjectAverage
	Weakest       SubjectAverage
	Strongest     SubjectAverage
}

// Analyze считает недавнее среднее, тренд и крайние предметы.
// Возвращает false для пустого журнала.
func Analyze(entries []progress.Entry) (Analysis, bool) {
	if len(entries) == 0 {
		return Analysis{}, false
	}

	pcts := progress.Percentages(entries)

	recent := pcts
	if len(recent) > RecentWindow {
		recent = recent[len(recent)-RecentWindow:]
	}

	var trend float64
	if n := len(pcts); n >= 2 {
		trend = pcts[n-1] - pcts[n-2]
	}

	a := Analysis{
		RecentAverage: mean(recent),
		Trend:         trend,
		Subjects:      SubjectAverages(entries),
	}
	a.Tier = TierFor(a.RecentAverage)

	// при равенстве побеждает предмет, встреченный первым
	a.Weakest, a.Strongest = a.Subjects[0], a.Subjects[0]
	for _, s := range a.Subjects[1:] {
		if s.Average < a.Weakest.Average {
			a.Weakest = s
		}
		if s.Average > a.Strongest.Average {
			a.Strongest = s
		}
	}

	return a, true
}

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGE
// ══════════════════════════════════════════════════════════════════════════════

// ComposeMessage собирает персональное сообщение:
// уровень -> тренд (опционально) -> слабый предмет (опционально) -> сильный предмет (опционально).
// Фрагменты соединяются одним пробелом.
func ComposeMessage(entries []progress.Entry, firstName string) string {
	a, ok := Analyze(entries)
	if !ok {
		return WelcomeMessage
	}

	parts := []string{a.Tier.Message(firstName)}

	switch {
	case a.Trend > TrendThreshold:
		parts = append(parts, fmt.Sprintf("📈 You're improving! Keep up the momentum, %s!", firstName))
	case a.Trend < -TrendThreshold:
		parts = append(parts, fmt.Sprintf("📉 %s, your recent performance is declining. Focus more on your studies!", firstName))
	}

	// проверки независимы: при одном предмете он может быть и слабым, и сильным
	if a.Weakest.Average < WeakSubjectBelow {
		parts = append(parts, fmt.Sprintf("Focus more on %s, %s!", a.Weakest.Subject, firstName))
	}
	if a.Strongest.Average > StrongSubjectAbove {
		parts = append(parts, fmt.Sprintf("You're excelling in %s! 🏆", a.Strongest.Subject))
	}

	return strings.Join(parts, " ")
}
