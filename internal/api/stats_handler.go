package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vredchenko/cscs-card-audio-revision/internal/store"
)

// Default limits for the most-recent-N queries, matching the engine's
// reporting windows.
const (
	defaultRecentAnswers  = 50
	defaultRecentSessions = 10
)

// ── Response types ──────────────────────────────────────────────────────────

type QuestionStatsView struct {
	QuestionID        string    `json:"question_id"`
	TotalAttempts     int       `json:"total_attempts"`
	CorrectAttempts   int       `json:"correct_attempts"`
	IncorrectAttempts int       `json:"incorrect_attempts"`
	SuccessRate       float64   `json:"success_rate"`
	FirstAttempt      time.Time `json:"first_attempt"`
	LastAttempt       time.Time `json:"last_attempt"`
	AverageTimeMs     int64     `json:"average_time_ms"`
	NeedsReview       bool      `json:"needs_review"`
	Category          string    `json:"category,omitempty"`
}

type CategoryStatsView struct {
	Category string  `json:"category"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Rate     float64 `json:"rate"`
}

type AnswerRecordView struct {
	ID            int64     `json:"id"`
	QuestionID    string    `json:"question_id"`
	SessionID     string    `json:"session_id"`
	AnsweredAt    time.Time `json:"answered_at"`
	SelectedIndex int       `json:"selected_index"`
	CorrectIndex  int       `json:"correct_index"`
	IsCorrect     bool      `json:"is_correct"`
	TimeSpentMs   int64     `json:"time_spent_ms"`
	Category      string    `json:"category,omitempty"`
}

type SessionRecordView struct {
	SessionID        string     `json:"session_id"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	TotalQuestions   int        `json:"total_questions"`
	CorrectAnswers   int        `json:"correct_answers"`
	IncorrectAnswers int        `json:"incorrect_answers"`
	ScorePercentage  float64    `json:"score_percentage"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /stats/questions
func (h *Handler) questionStats(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.GetAllQuestionStats(r.Context())
	if h.handleStoreError(w, err, "question stats") {
		return
	}

	out := make([]QuestionStatsView, len(all))
	for i, s := range all {
		out[i] = newQuestionStatsView(s)
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /stats/categories
func (h *Handler) categoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetCategoryStats(r.Context())
	if h.handleStoreError(w, err, "category stats") {
		return
	}

	out := make([]CategoryStatsView, 0, len(stats))
	for category, perf := range stats {
		out = append(out, CategoryStatsView{
			Category: category,
			Correct:  perf.Correct,
			Total:    perf.Total,
			Rate:     perf.Rate,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /stats/categories/weak
func (h *Handler) weakCategories(w http.ResponseWriter, r *http.Request) {
	weak := h.scheduler.WeakCategories(r.Context())
	if weak == nil {
		weak = []string{}
	}
	respondJSON(w, http.StatusOK, weak)
}

// GET /stats/sessions?limit=N
func (h *Handler) recentSessions(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, defaultRecentSessions)
	sessions, err := h.store.GetRecentSessions(r.Context(), limit)
	if h.handleStoreError(w, err, "sessions") {
		return
	}

	out := make([]SessionRecordView, len(sessions))
	for i, s := range sessions {
		out[i] = SessionRecordView{
			SessionID:        s.SessionID,
			StartTime:        s.StartTime,
			EndTime:          s.EndTime,
			TotalQuestions:   s.TotalQuestions,
			CorrectAnswers:   s.CorrectAnswers,
			IncorrectAnswers: s.IncorrectAnswers,
			ScorePercentage:  s.ScorePercentage,
		}
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /stats/answers?limit=N
func (h *Handler) recentAnswers(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, defaultRecentAnswers)
	answers, err := h.store.GetRecentAnswers(r.Context(), limit)
	if h.handleStoreError(w, err, "answers") {
		return
	}

	out := make([]AnswerRecordView, len(answers))
	for i, a := range answers {
		out[i] = AnswerRecordView{
			ID:            a.ID,
			QuestionID:    a.QuestionID,
			SessionID:     a.SessionID,
			AnsweredAt:    a.AnsweredAt,
			SelectedIndex: a.SelectedIndex,
			CorrectIndex:  a.CorrectIndex,
			IsCorrect:     a.IsCorrect,
			TimeSpentMs:   a.TimeSpentMs,
			Category:      a.Category,
		}
	}
	respondJSON(w, http.StatusOK, out)
}

// DELETE /data — clears all three tables atomically.
func (h *Handler) resetData(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearAllData(r.Context()); h.handleStoreError(w, err, "data") {
		return
	}
	h.logger.Info("all statistics cleared")
	w.WriteHeader(http.StatusNoContent)
}

func newQuestionStatsView(s store.QuestionStats) QuestionStatsView {
	return QuestionStatsView{
		QuestionID:        s.QuestionID,
		TotalAttempts:     s.TotalAttempts,
		CorrectAttempts:   s.CorrectAttempts,
		IncorrectAttempts: s.IncorrectAttempts,
		SuccessRate:       s.SuccessRate,
		FirstAttempt:      s.FirstAttempt,
		LastAttempt:       s.LastAttempt,
		AverageTimeMs:     s.AverageTimeMs,
		NeedsReview:       s.NeedsReview,
		Category:          s.Category,
	}
}

func queryLimit(r *http.Request, fallback int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
