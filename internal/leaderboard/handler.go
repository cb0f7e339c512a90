package leaderboard

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/brainbolt/backend/internal/logger"
	"github.com/brainbolt/backend/internal/middleware"
	"github.com/brainbolt/backend/internal/models"
)

type Handler struct {
	projection Projection
	log        *logger.Logger
}

func NewHandler(projection Projection, log *logger.Logger) *Handler {
	return &Handler{projection: projection, log: log}
}

func boardFromRequest(r *http.Request) (models.Board, bool) {
	b := models.Board(mux.Vars(r)["board"])
	return b, b.Valid()
}

// ── Leaderboard ─────────────────────────────────────────

func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	board, ok := boardFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Unknown leaderboard"})
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", DefaultLimit)
	entries, err := h.projection.Top(r.Context(), board, limit)
	if err != nil {
		h.log.Error("leaderboard top failed", "board", board, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get leaderboard"})
		return
	}
	for i := range entries {
		entries[i].IsCurrentUser = entries[i].Identity == identity
	}

	rank, err := h.projection.Rank(r.Context(), board, identity)
	if err != nil {
		h.log.Warn("leaderboard rank failed", "board", board, "error", err)
		rank = Unranked
	}

	writeJSON(w, http.StatusOK, models.LeaderboardResponse{
		Board:    board,
		Entries:  entries,
		UserRank: rank,
	})
}

func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	board, ok := boardFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Unknown leaderboard"})
		return
	}

	rank, err := h.projection.Rank(r.Context(), board, identity)
	if err != nil {
		h.log.Error("leaderboard rank failed", "board", board, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get rank"})
		return
	}

	writeJSON(w, http.StatusOK, models.RankResponse{Board: board, Identity: identity, Rank: rank})
}

// ── Helpers ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
