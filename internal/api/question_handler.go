package api

import (
	"net/http"

	"github.com/vredchenko/cscs-card-audio-revision/internal/domain/question"
)

// ── Response types ──────────────────────────────────────────────────────────

// QuestionView is the client-facing question shape. The answer key is never
// included: grading happens server-side when an answer is submitted.
type QuestionView struct {
	ID              string          `json:"id"`
	Text            string          `json:"question"`
	Image           *question.Image `json:"image,omitempty"`
	Answers         []string        `json:"answers"`
	Category        string          `json:"category,omitempty"`
	Difficulty      string          `json:"difficulty,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
	MultipleAnswers bool            `json:"multiple_answers"`
}

type QuestionPriorityView struct {
	ID       string `json:"id"`
	Priority int    `json:"priority"`
	Reason   string `json:"reason"`
}

func newQuestionView(q question.Question) QuestionView {
	return QuestionView{
		ID:              q.ID,
		Text:            q.Text,
		Image:           q.Image,
		Answers:         q.Answers,
		Category:        q.Category,
		Difficulty:      string(q.Difficulty),
		Tags:            q.Tags,
		MultipleAnswers: q.Key.Kind == question.MultipleAnswers,
	}
}

func newQuestionViews(questions []question.Question) []QuestionView {
	out := make([]QuestionView, len(questions))
	for i, q := range questions {
		out[i] = newQuestionView(q)
	}
	return out
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /questions
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"version":   h.bank.Version,
		"metadata":  h.bank.Metadata,
		"questions": newQuestionViews(h.bank.Questions),
	})
}

// GET /questions/queue — smart-shuffled presentation order, re-derived from
// current statistics on every call.
func (h *Handler) questionQueue(w http.ResponseWriter, r *http.Request) {
	queue := h.scheduler.Sequence(r.Context(), h.bank.Questions)
	respondJSON(w, http.StatusOK, newQuestionViews(queue))
}

// GET /questions/priorities — priority-ordered list with reasons, for
// inspection and display.
func (h *Handler) questionPriorities(w http.ResponseWriter, r *http.Request) {
	prioritized := h.scheduler.PrioritizeQuestions(r.Context(), h.bank.Questions)

	out := make([]QuestionPriorityView, len(prioritized))
	for i, qp := range prioritized {
		out[i] = QuestionPriorityView{
			ID:       qp.Question.ID,
			Priority: qp.Priority,
			Reason:   qp.Reason,
		}
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /questions/review — questions flagged for review or never attempted.
func (h *Handler) reviewQuestions(w http.ResponseWriter, r *http.Request) {
	needing := h.scheduler.NeedsReviewQuestions(r.Context(), h.bank.Questions)
	respondJSON(w, http.StatusOK, newQuestionViews(needing))
}
