package api

import "net/http"

// RegisterRoutes wires every handler onto the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Questions
	mux.HandleFunc("GET /questions", h.listQuestions)
	mux.HandleFunc("GET /questions/queue", h.questionQueue)
	mux.HandleFunc("GET /questions/priorities", h.questionPriorities)
	mux.HandleFunc("GET /questions/review", h.reviewQuestions)

	// Sessions
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{sessionID}", h.getSession)
	mux.HandleFunc("POST /sessions/{sessionID}/answers", h.submitAnswer)
	mux.HandleFunc("POST /sessions/{sessionID}/complete", h.completeSession)

	// Statistics
	mux.HandleFunc("GET /stats/questions", h.questionStats)
	mux.HandleFunc("GET /stats/categories", h.categoryStats)
	mux.HandleFunc("GET /stats/categories/weak", h.weakCategories)
	mux.HandleFunc("GET /stats/sessions", h.recentSessions)
	mux.HandleFunc("GET /stats/answers", h.recentAnswers)

	// Full reset — explicit, irreversible
	mux.HandleFunc("DELETE /data", h.resetData)
}
