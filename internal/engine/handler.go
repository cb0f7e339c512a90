package engine

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/brainbolt/backend/internal/logger"
	"github.com/brainbolt/backend/internal/middleware"
	"github.com/brainbolt/backend/internal/models"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type Handler struct {
	engine *Engine
	log    *logger.Logger
}

func NewHandler(engine *Engine, log *logger.Logger) *Handler {
	return &Handler{engine: engine, log: log}
}

// ── Quiz ────────────────────────────────────────────────

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	next, err := h.engine.GetNextItem(r.Context(), identity)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NextItemResponse{
		Item:    next.Item,
		State:   next.State,
		Version: next.Version,
	})
}

func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.ItemID == "" || req.ChoiceIndex == nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "item_id and choice_index are required"})
		return
	}

	key := r.Header.Get(IdempotencyKeyHeader)
	if key == "" {
		key = req.IdempotencyKey
	}

	out, err := h.engine.SubmitAnswer(r.Context(), SubmitRequest{
		Identity:        identity,
		ItemID:          req.ItemID,
		ChoiceIndex:     *req.ChoiceIndex,
		IdempotencyKey:  key,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if out.RateRemaining >= 0 {
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(out.RateRemaining))
	}
	writeJSON(w, http.StatusOK, models.SubmitAnswerResponse{
		AnswerResult: out.Result,
		Idempotent:   out.Idempotent,
	})
}

// ── Helpers ─────────────────────────────────────────────

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var conflict *VersionConflictError
	var limited *RateLimitedError

	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, models.ConflictResponse{Error: "Version conflict", CurrentVersion: conflict.Current})
	case errors.As(err, &limited):
		w.Header().Set("Retry-After", strconv.Itoa(limited.RetryAfterSeconds))
		writeJSON(w, http.StatusTooManyRequests, models.RateLimitedResponse{Error: "Too many requests", RetryAfterSeconds: limited.RetryAfterSeconds})
	case errors.Is(err, ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Item not found"})
	case errors.Is(err, ErrInvalidChoice):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid choice"})
	case errors.Is(err, ErrNoItemsAvailable):
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "No items available"})
	case errors.Is(err, ErrSubmissionInFlight):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Submission already in progress"})
	case errors.Is(err, ErrInvalidIdentity):
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
	default:
		h.log.Error("quiz request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
