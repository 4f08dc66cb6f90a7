// Package session tracks one continuous practice run: the synchronous
// in-memory tally that is authoritative for the current session, and the
// best-effort persistence that follows it.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vredchenko/cscs-card-audio-revision/internal/store"
)

// Tracker is the explicit session-scoped state object. One per practice
// session, created at session start and discarded at session end; there is
// no process-wide session singleton.
type Tracker struct {
	ID        string
	StartTime time.Time

	mu        sync.Mutex
	total     int
	correct   int
	incorrect int
	endTime   *time.Time
}

// Snapshot is a point-in-time copy of a tracker's tally.
type Snapshot struct {
	SessionID        string     `json:"session_id"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	TotalQuestions   int        `json:"total_questions"`
	CorrectAnswers   int        `json:"correct_answers"`
	IncorrectAnswers int        `json:"incorrect_answers"`
	ScorePercentage  float64    `json:"score_percentage"`
}

// NewTracker starts a new session with a generated id.
func NewTracker() *Tracker {
	return &Tracker{
		ID:        uuid.New().String(),
		StartTime: time.Now(),
	}
}

// Record tallies one answered question and returns the updated snapshot.
// Always succeeds and is immediately visible; durable persistence follows
// separately and its failure never rolls this back.
func (t *Tracker) Record(correct bool) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++
	if correct {
		t.correct++
	} else {
		t.incorrect++
	}
	return t.snapshotLocked()
}

// Snapshot returns the current tally.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Complete marks the session finished and returns the final snapshot.
func (t *Tracker) Complete(now time.Time) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.endTime == nil {
		end := now
		t.endTime = &end
	}
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:        t.ID,
		StartTime:        t.StartTime,
		TotalQuestions:   t.total,
		CorrectAnswers:   t.correct,
		IncorrectAnswers: t.incorrect,
	}
	if t.total > 0 {
		snap.ScorePercentage = float64(t.correct) / float64(t.total) * 100
	}
	if t.endTime != nil {
		end := *t.endTime
		snap.EndTime = &end
	}
	return snap
}

// Record converts the snapshot to its persistent form.
func (s Snapshot) Record() store.SessionRecord {
	return store.SessionRecord{
		SessionID:        s.SessionID,
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
		TotalQuestions:   s.TotalQuestions,
		CorrectAnswers:   s.CorrectAnswers,
		IncorrectAnswers: s.IncorrectAnswers,
		ScorePercentage:  s.ScorePercentage,
	}
}
