package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vredchenko/cscs-card-audio-revision/internal/domain/question"
	"github.com/vredchenko/cscs-card-audio-revision/internal/revision"
	"github.com/vredchenko/cscs-card-audio-revision/internal/store"
	"github.com/vredchenko/cscs-card-audio-revision/internal/worker"
)

// Submission is one answered question crossing from the presentation layer
// into the engine.
type Submission struct {
	Question    question.Question
	Selected    []int
	IsCorrect   bool
	AnsweredAt  time.Time
	TimeSpentMs int64
}

// Recorder applies the two-phase recording contract: the in-memory tally is
// updated synchronously and is authoritative for the current session; the
// durable write (answer record, stats update, session upsert) runs
// best-effort on the worker pool, with failures logged and never surfaced.
type Recorder struct {
	store  *store.Store
	pool   *worker.Pool
	logger *slog.Logger

	mu      sync.RWMutex
	pending map[string]*sync.WaitGroup // sessionID → in-flight writes
}

// NewRecorder creates a Recorder and starts draining the pool's results,
// logging any failed persistence jobs.
func NewRecorder(st *store.Store, pool *worker.Pool, logger *slog.Logger) *Recorder {
	r := &Recorder{
		store:   st,
		pool:    pool,
		logger:  logger,
		pending: make(map[string]*sync.WaitGroup),
	}
	go r.drain()
	return r
}

func (r *Recorder) drain() {
	for res := range r.pool.Results() {
		if res.Err != nil {
			r.logger.Error("answer persistence failed", "session_id", res.JobID, "error", res.Err)
		}
	}
}

// Track registers a session for pending-write tracking. Call once after
// creating its tracker.
func (r *Recorder) Track(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[sessionID] = &sync.WaitGroup{}
}

// RecordAnswer tallies the submission synchronously and schedules the
// durable write. The returned snapshot reflects the updated in-memory state
// regardless of whether persistence later succeeds.
func (r *Recorder) RecordAnswer(t *Tracker, sub Submission) Snapshot {
	snap := t.Record(sub.IsCorrect)

	r.mu.RLock()
	wg, ok := r.pending[t.ID]
	r.mu.RUnlock()
	if ok {
		wg.Add(1)
	}

	r.pool.Submit(t.ID, func() error {
		if ok {
			defer wg.Done()
		}
		return r.persist(t.ID, sub, snap)
	})

	return snap
}

// Wait blocks until every scheduled write for the session has finished.
func (r *Recorder) Wait(sessionID string) {
	r.mu.RLock()
	wg, ok := r.pending[sessionID]
	r.mu.RUnlock()
	if ok {
		wg.Wait()
	}
}

// Complete finalizes the session: waits out in-flight writes, stamps the end
// time, and upserts the final summary. The write error is logged, not
// returned; the snapshot is authoritative either way.
func (r *Recorder) Complete(t *Tracker) Snapshot {
	r.Wait(t.ID)
	snap := t.Complete(time.Now())

	if err := r.store.SaveSession(context.Background(), snap.Record()); err != nil {
		r.logger.Error("final session save failed", "session_id", t.ID, "error", err)
	}

	r.mu.Lock()
	delete(r.pending, t.ID)
	r.mu.Unlock()

	return snap
}

// persist runs asynchronously and must not be cancelled when the originating
// request ends, so it uses a background context.
func (r *Recorder) persist(sessionID string, sub Submission, snap Snapshot) error {
	ctx := context.Background()

	selected := -1
	if len(sub.Selected) > 0 {
		selected = sub.Selected[0]
	}

	rec := store.AnswerRecord{
		QuestionID:    sub.Question.ID,
		SessionID:     sessionID,
		AnsweredAt:    sub.AnsweredAt,
		SelectedIndex: selected,
		CorrectIndex:  sub.Question.Key.PrimaryIndex(),
		IsCorrect:     sub.IsCorrect,
		TimeSpentMs:   sub.TimeSpentMs,
		Category:      sub.Question.Category,
	}
	if _, err := r.store.RecordAnswer(ctx, rec); err != nil {
		return fmt.Errorf("append answer record: %w", err)
	}

	if err := r.updateStats(ctx, sub); err != nil {
		return fmt.Errorf("update question stats: %w", err)
	}

	if err := r.store.SaveSession(ctx, snap.Record()); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// updateStats applies a single attempt to the question's stats row,
// recomputing the derived fields. successRate is always recomputed from the
// attempt counters and needsReview from the rest of the row.
func (r *Recorder) updateStats(ctx context.Context, sub Submission) error {
	stats, err := r.store.GetQuestionStats(ctx, sub.Question.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		stats = &store.QuestionStats{
			QuestionID:   sub.Question.ID,
			FirstAttempt: sub.AnsweredAt,
			Category:     sub.Question.Category,
		}
	case err != nil:
		return err
	}

	stats.TotalAttempts++
	if sub.IsCorrect {
		stats.CorrectAttempts++
	} else {
		stats.IncorrectAttempts++
	}
	stats.SuccessRate = float64(stats.CorrectAttempts) / float64(stats.TotalAttempts)

	// lastAttemptDate is monotonic non-decreasing.
	if sub.AnsweredAt.After(stats.LastAttempt) {
		stats.LastAttempt = sub.AnsweredAt
	}

	// Running average over all attempts.
	n := int64(stats.TotalAttempts)
	stats.AverageTimeMs = (stats.AverageTimeMs*(n-1) + sub.TimeSpentMs) / n

	stats.NeedsReview = revision.NeedsReview(stats.SuccessRate, stats.IncorrectAttempts)

	return r.store.SaveQuestionStats(ctx, *stats)
}
