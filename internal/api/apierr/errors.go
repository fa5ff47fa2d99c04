package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/BayoGabriel/igaming/internal/model"
	"github.com/BayoGabriel/igaming/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeUsernameTaken    = "USERNAME_TAKEN"
	CodeUsernameTooShort = "USERNAME_TOO_SHORT"
	CodeInvalidNumber    = "INVALID_NUMBER"
	CodeAlreadyPicked    = "ALREADY_PICKED"
	CodeNoActiveSession  = "NO_ACTIVE_SESSION"
	CodeNotInSession     = "NOT_IN_SESSION"
	CodeFullOrExpired    = "FULL_OR_EXPIRED"
	CodeAlreadyInSession = "ALREADY_IN_SESSION"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, APIError{CodeUsernameTaken, "Username already exists"}}
	case errors.Is(err, model.ErrUsernameTooShort):
		return &httpError{http.StatusBadRequest, APIError{CodeUsernameTooShort, "Username must be at least 2 characters long"}}
	case errors.Is(err, model.ErrInvalidNumber):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidNumber, "Number must be between 1 and 9"}}
	case errors.Is(err, model.ErrAlreadyPicked):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyPicked, "You have already selected a number"}}
	case errors.Is(err, model.ErrNoActiveSession):
		return &httpError{http.StatusConflict, APIError{CodeNoActiveSession, "No active session"}}
	case errors.Is(err, model.ErrNotInSession):
		return &httpError{http.StatusConflict, APIError{CodeNotInSession, "You are not in this session"}}
	case errors.Is(err, model.ErrSessionUnavailable):
		return &httpError{http.StatusConflict, APIError{CodeFullOrExpired, "Failed to join session. It may be full or expired."}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired token"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewAlreadyInSessionError creates the login-time conflict for a user who is
// still in the active session
func NewAlreadyInSessionError() error {
	return &httpError{http.StatusConflict, APIError{CodeAlreadyInSession, "You already have an active session. Please wait for it to complete."}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
