package handler

import (
	"net/http"

	"github.com/BayoGabriel/igaming/internal/api/apierr"
	"github.com/BayoGabriel/igaming/internal/api/response"
	"github.com/BayoGabriel/igaming/internal/services/leaderboard"
)

// LeaderboardHandler serves the leaderboard and session history endpoints
type LeaderboardHandler struct {
	leaderboard *leaderboard.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(service *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: service,
	}
}

// Top handles GET /api/v1/leaderboard?filter=all|day|week|month
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	period := leaderboard.ParsePeriod(r.URL.Query().Get("filter"))

	entries, err := h.leaderboard.TopWinners(r.Context(), period)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LeaderboardFromEntries(entries))
}

// Sessions handles GET /api/v1/sessions?filter=all|day|week|month
func (h *LeaderboardHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	period := leaderboard.ParsePeriod(r.URL.Query().Get("filter"))

	sessions, err := h.leaderboard.History(r.Context(), period)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.HistoryFromSessions(sessions))
}
