// Package api is the HTTP boundary of the revision engine. It is thin
// presentation glue: grading, recording, and scheduling all live in the
// internal packages it delegates to.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vredchenko/cscs-card-audio-revision/internal/domain/question"
	"github.com/vredchenko/cscs-card-audio-revision/internal/revision"
	"github.com/vredchenko/cscs-card-audio-revision/internal/session"
	"github.com/vredchenko/cscs-card-audio-revision/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers. Every handler
// method receives its dependencies through this struct instead of
// package-level globals.
type Handler struct {
	bank      *question.Bank
	store     *store.Store
	scheduler *revision.Scheduler
	registry  *session.Registry
	recorder  *session.Recorder
	logger    *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(
	bank *question.Bank,
	st *store.Store,
	scheduler *revision.Scheduler,
	registry *session.Registry,
	recorder *session.Recorder,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		bank:      bank,
		store:     st,
		scheduler: scheduler,
		registry:  registry,
		recorder:  recorder,
		logger:    logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON decodes the request body into v. On failure it writes a 400
// and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// handleStoreError maps store errors to HTTP responses. Returns true if an
// error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, store.ErrNotInitialized), errors.Is(err, store.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "statistics unavailable")
	default:
		h.logger.Error("store error", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
