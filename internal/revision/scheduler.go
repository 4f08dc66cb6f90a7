package revision

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/vredchenko/cscs-card-audio-revision/internal/domain/question"
	"github.com/vredchenko/cscs-card-audio-revision/internal/store"
)

// QuestionPriority pairs a question with its computed score. Ephemeral:
// recomputed on every prioritization pass, never persisted.
type QuestionPriority struct {
	Question question.Question
	Priority int
	Reason   string
}

// Scheduler orchestrates loading statistics, scoring a question set, and
// producing a weighted-random presentation order.
type Scheduler struct {
	store  *store.Store
	logger *slog.Logger
	rng    *rand.Rand
	now    func() time.Time
}

// NewScheduler creates a scheduler backed by the given statistics store.
func NewScheduler(st *store.Store, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:  st,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// PrioritizeQuestions scores every question against its recorded statistics
// and returns the list sorted by descending priority (stable on input order
// for ties). If statistics cannot be read the whole set degrades to a neutral
// default ordering; storage errors are never propagated to the caller.
func (s *Scheduler) PrioritizeQuestions(ctx context.Context, questions []question.Question) []QuestionPriority {
	all, err := s.store.GetAllQuestionStats(ctx)
	if err != nil {
		s.logger.Warn("statistics unavailable, using default question order", "error", err)
		out := make([]QuestionPriority, len(questions))
		for i, q := range questions {
			out[i] = QuestionPriority{Question: q, Priority: DefaultPriority, Reason: "Default order"}
		}
		return out
	}

	byID := make(map[string]store.QuestionStats, len(all))
	for _, row := range all {
		byID[row.QuestionID] = row
	}

	now := s.now()
	out := make([]QuestionPriority, len(questions))
	for i, q := range questions {
		var stats *store.QuestionStats
		if row, ok := byID[q.ID]; ok {
			stats = &row
		}
		p, why := Priority(stats, now)
		out[i] = QuestionPriority{Question: q, Priority: p, Reason: why}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// SmartShuffle produces a weighted random permutation of the prioritized
// questions: repeatedly draws one remaining item with probability
// proportional to its priority, so high-priority questions are statistically
// front-loaded but never guaranteed first.
func (s *Scheduler) SmartShuffle(prioritized []QuestionPriority) []question.Question {
	return smartShuffle(prioritized, s.rng)
}

// Sequence composes prioritization and smart shuffle into one presentation
// order. Callers re-invoke it whenever a pass is exhausted, so every pass
// re-derives order from current statistics; there is no static deck.
func (s *Scheduler) Sequence(ctx context.Context, questions []question.Question) []question.Question {
	return s.SmartShuffle(s.PrioritizeQuestions(ctx, questions))
}

func smartShuffle(prioritized []QuestionPriority, rng *rand.Rand) []question.Question {
	remaining := make([]QuestionPriority, len(prioritized))
	copy(remaining, prioritized)

	out := make([]question.Question, 0, len(remaining))
	for len(remaining) > 0 {
		total := 0
		for _, item := range remaining {
			if item.Priority > 0 {
				total += item.Priority
			}
		}

		idx := len(remaining) - 1
		if total <= 0 {
			// All remaining weights are zero: fall back to a uniform draw.
			idx = rng.Intn(len(remaining))
		} else {
			r := rng.Float64() * float64(total)
			for i, item := range remaining {
				if item.Priority <= 0 {
					continue
				}
				r -= float64(item.Priority)
				if r <= 0 {
					idx = i
					break
				}
			}
		}

		out = append(out, remaining[idx].Question)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out
}
