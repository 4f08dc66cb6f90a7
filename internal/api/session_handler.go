package api

import (
	"net/http"
	"time"

	"github.com/vredchenko/cscs-card-audio-revision/internal/session"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionResponse struct {
	SessionID string         `json:"session_id"`
	StartTime time.Time      `json:"start_time"`
	Questions []QuestionView `json:"questions"`
}

type SubmitAnswerRequest struct {
	QuestionID      string `json:"question_id"`
	SelectedIndex   *int   `json:"selected_index,omitempty"`
	SelectedIndices []int  `json:"selected_indices,omitempty"`
	TimeSpentMs     int64  `json:"time_spent_ms,omitempty"`
}

type SubmitAnswerResponse struct {
	Correct        bool             `json:"correct"`
	CorrectIndices []int            `json:"correct_indices"`
	Explanation    string           `json:"explanation,omitempty"`
	Session        session.Snapshot `json:"session"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /sessions — start a practice session. The initial queue is included
// so the client can begin immediately.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	tracker := session.NewTracker()
	h.registry.Add(tracker)
	h.recorder.Track(tracker.ID)

	queue := h.scheduler.Sequence(r.Context(), h.bank.Questions)

	h.logger.Info("session started", "session_id", tracker.ID, "questions", len(queue))
	respondJSON(w, http.StatusCreated, CreateSessionResponse{
		SessionID: tracker.ID,
		StartTime: tracker.StartTime,
		Questions: newQuestionViews(queue),
	})
}

// GET /sessions/{sessionID} — the running in-memory tally.
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	tracker, ok := h.registry.Get(r.PathValue("sessionID"))
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, tracker.Snapshot())
}

// POST /sessions/{sessionID}/answers — grade one answer, update the tally
// synchronously, and schedule the durable write.
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	tracker, ok := h.registry.Get(r.PathValue("sessionID"))
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	var req SubmitAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	q, ok := h.bank.ByID(req.QuestionID)
	if !ok {
		respondError(w, http.StatusNotFound, "question not found")
		return
	}

	var selected []int
	switch {
	case len(req.SelectedIndices) > 0:
		selected = req.SelectedIndices
	case req.SelectedIndex != nil:
		selected = []int{*req.SelectedIndex}
	default:
		respondError(w, http.StatusBadRequest, "selected_index or selected_indices is required")
		return
	}
	for _, i := range selected {
		if i < 0 || i >= len(q.Answers) {
			respondError(w, http.StatusBadRequest, "selected index out of range")
			return
		}
	}

	isCorrect := q.Key.Grade(selected)
	snap := h.recorder.RecordAnswer(tracker, session.Submission{
		Question:    q,
		Selected:    selected,
		IsCorrect:   isCorrect,
		AnsweredAt:  time.Now(),
		TimeSpentMs: req.TimeSpentMs,
	})

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		Correct:        isCorrect,
		CorrectIndices: q.Key.CorrectIndices(),
		Explanation:    q.Explanation,
		Session:        snap,
	})
}

// POST /sessions/{sessionID}/complete — finalize the session.
func (h *Handler) completeSession(w http.ResponseWriter, r *http.Request) {
	tracker, ok := h.registry.Get(r.PathValue("sessionID"))
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	snap := h.recorder.Complete(tracker)
	h.registry.Remove(tracker.ID)

	h.logger.Info("session completed",
		"session_id", tracker.ID,
		"total", snap.TotalQuestions,
		"score", snap.ScorePercentage,
	)
	respondJSON(w, http.StatusOK, snap)
}
