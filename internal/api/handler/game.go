package handler

import (
	"encoding/json"
	"net/http"

	"github.com/BayoGabriel/igaming/internal/api/apierr"
	"github.com/BayoGabriel/igaming/internal/api/middleware"
	"github.com/BayoGabriel/igaming/internal/api/request"
	"github.com/BayoGabriel/igaming/internal/api/response"
	"github.com/BayoGabriel/igaming/internal/services/game"
)

// GameHandler serves the session lifecycle endpoints
type GameHandler struct {
	engine *game.Engine
}

// NewGameHandler creates a new game handler
func NewGameHandler(engine *game.Engine) *GameHandler {
	return &GameHandler{
		engine: engine,
	}
}

// Current handles GET /api/v1/game/current. Returns the active session, a
// just-completed one still inside the result window, or null.
func (h *GameHandler) Current(w http.ResponseWriter, r *http.Request) {
	session, err := h.engine.CurrentSession(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if session == nil {
		response.Null(w, http.StatusOK)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Join handles POST /api/v1/game/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	outcome, session, err := h.engine.JoinOrCreate(r.Context(), user.ID, user.Username)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if outcome == game.OutcomeCreated {
		status = http.StatusCreated
	}
	response.JSON(w, status, response.JoinFromOutcome(outcome, session))
}

// Leave handles POST /api/v1/game/leave
func (h *GameHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	if err := h.engine.Leave(r.Context(), user.ID); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Status{Status: "left"})
}

// SelectNumber handles POST /api/v1/game/select-number
func (h *GameHandler) SelectNumber(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.SelectNumber
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.engine.PickNumber(r.Context(), user.ID, req.Number); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Status{Status: "picked"})
}
