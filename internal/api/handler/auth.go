package handler

import (
	"encoding/json"
	"net/http"

	"github.com/BayoGabriel/igaming/internal/api/apierr"
	"github.com/BayoGabriel/igaming/internal/api/middleware"
	"github.com/BayoGabriel/igaming/internal/api/request"
	"github.com/BayoGabriel/igaming/internal/api/response"
	"github.com/BayoGabriel/igaming/internal/model"
	"github.com/BayoGabriel/igaming/internal/services/auth"
	"github.com/BayoGabriel/igaming/internal/services/game"
)

// AuthHandler serves registration, login and identity endpoints
type AuthHandler struct {
	auth   *auth.Service
	engine *game.Engine
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, engine *game.Engine) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		engine: engine,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.Register
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	cred, err := h.auth.Register(r.Context(), req.Username)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Auth{
		Token: cred.Token,
		User:  response.UserFromModel(cred.User),
	})
}

// Login handles POST /api/v1/auth/login. A user who is still a player in the
// active session cannot log in again until it completes.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.Login
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	cred, err := h.auth.Login(r.Context(), req.Username)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	current, err := h.engine.CurrentSession(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if current != nil && current.Status == model.SessionStatusActive && current.FindPlayer(cred.User.ID) != nil {
		apierr.WriteError(w, apierr.NewAlreadyInSessionError())
		return
	}

	response.JSON(w, http.StatusOK, response.Auth{
		Token: cred.Token,
		User:  response.UserFromModel(cred.User),
	})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}
