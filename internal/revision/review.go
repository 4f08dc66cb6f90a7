package revision

import (
	"context"
	"sort"

	"github.com/vredchenko/cscs-card-audio-revision/internal/domain/question"
)

// Weak-category thresholds: a category is weak below a 70% success rate,
// but only once it has at least 3 recorded answers, so one wrong answer
// cannot flag a category on no evidence.
const (
	weakRateCeiling = 0.7
	weakMinSample   = 3
)

// WeakCategories returns the categories performing below the weakness
// threshold with a sufficient sample, sorted for stable output. On a store
// failure it returns an empty result rather than an error.
func (s *Scheduler) WeakCategories(ctx context.Context) []string {
	stats, err := s.store.GetCategoryStats(ctx)
	if err != nil {
		s.logger.Warn("category statistics unavailable", "error", err)
		return nil
	}

	var out []string
	for category, perf := range stats {
		if perf.Rate < weakRateCeiling && perf.Total >= weakMinSample {
			out = append(out, category)
		}
	}
	sort.Strings(out)
	return out
}

// NeedsReviewQuestions filters the supplied questions to those flagged for
// review plus those never attempted at all. On a store failure the full list
// is returned so the caller can still practice everything.
func (s *Scheduler) NeedsReviewQuestions(ctx context.Context, questions []question.Question) []question.Question {
	flagged, err := s.store.GetQuestionsNeedingReview(ctx)
	if err != nil {
		s.logger.Warn("review flags unavailable", "error", err)
		return questions
	}
	all, err := s.store.GetAllQuestionStats(ctx)
	if err != nil {
		s.logger.Warn("question statistics unavailable", "error", err)
		return questions
	}

	flaggedIDs := make(map[string]bool, len(flagged))
	for _, row := range flagged {
		flaggedIDs[row.QuestionID] = true
	}
	attemptedIDs := make(map[string]bool, len(all))
	for _, row := range all {
		attemptedIDs[row.QuestionID] = true
	}

	var out []question.Question
	for _, q := range questions {
		if flaggedIDs[q.ID] || !attemptedIDs[q.ID] {
			out = append(out, q)
		}
	}
	return out
}
