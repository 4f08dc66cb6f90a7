// Package revision is the scheduling brain: it scores how urgently each
// question should reappear and turns a question set into a weighted-random
// presentation order biased toward weak, stale, and failed questions.
package revision

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vredchenko/cscs-card-audio-revision/internal/store"
)

const (
	// NeverAttemptedPriority is the fixed score for questions with no
	// recorded attempts.
	NeverAttemptedPriority = 70
	// DefaultPriority is used when statistics cannot be read at all.
	DefaultPriority = 50

	basePriority = 50
	maxPriority  = 100
)

// needsReview thresholds. Deliberately independent of the success-rate tiers
// used for scoring below; unifying them would change scheduling behavior.
const (
	reviewSuccessRateCeiling = 0.6
	reviewIncorrectFloor     = 2
)

// NeedsReview derives the under-mastered flag from a stats row. Callers
// recompute it on every stats update; it is never hand-set.
func NeedsReview(successRate float64, incorrectAttempts int) bool {
	return successRate < reviewSuccessRateCeiling || incorrectAttempts >= reviewIncorrectFloor
}

// Priority scores how urgently a question should be practiced, 0-100,
// together with a human-readable reason. A nil stats row means the question
// was never attempted.
func Priority(stats *store.QuestionStats, now time.Time) (int, string) {
	if stats == nil {
		return NeverAttemptedPriority, "Never attempted"
	}
	return score(stats, now), reason(stats, now)
}

// score applies the additive model: base 50, plus capped bonuses for
// success-rate weakness (max 40), staleness (max 30), repeated failure
// (max 20), and the explicit review flag (max 10), clamped to 100.
func score(stats *store.QuestionStats, now time.Time) int {
	priority := basePriority

	switch {
	case stats.SuccessRate < 0.3:
		priority += 40
	case stats.SuccessRate < 0.5:
		priority += 30
	case stats.SuccessRate < 0.7:
		priority += 20
	case stats.SuccessRate < 0.9:
		priority += 10
	}

	days := daysSince(stats.LastAttempt, now)
	switch {
	case days > 7:
		priority += 30
	case days > 3:
		priority += 20
	case days > 1:
		priority += 10
	}

	switch {
	case stats.IncorrectAttempts >= 3:
		priority += 20
	case stats.IncorrectAttempts >= 2:
		priority += 10
	}

	if stats.NeedsReview {
		priority += 10
	}

	if priority > maxPriority {
		priority = maxPriority
	}
	return priority
}

// reason builds the display string. Its thresholds mirror but do not exactly
// match the scoring tiers (the staleness reason distinguishes only >7 and >3
// days).
func reason(stats *store.QuestionStats, now time.Time) string {
	var reasons []string

	if stats.SuccessRate < 0.5 {
		reasons = append(reasons, fmt.Sprintf("Low success rate (%d%%)", int(math.Round(stats.SuccessRate*100))))
	}

	days := daysSince(stats.LastAttempt, now)
	if days > 7 {
		reasons = append(reasons, fmt.Sprintf("Not practiced in %d days", int(math.Round(days))))
	} else if days > 3 {
		reasons = append(reasons, "Due for review")
	}

	if stats.IncorrectAttempts >= 3 {
		reasons = append(reasons, "Multiple incorrect attempts")
	}

	if len(reasons) == 0 {
		return "Regular practice"
	}
	return strings.Join(reasons, ", ")
}

func daysSince(t, now time.Time) float64 {
	return now.Sub(t).Hours() / 24
}
