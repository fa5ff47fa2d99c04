package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/BayoGabriel/igaming/internal/api/apierr"
	"github.com/BayoGabriel/igaming/internal/model"
	"github.com/BayoGabriel/igaming/internal/services/auth"
)

type contextKey string

const userContextKey contextKey = "user"

// Auth creates middleware that requires a valid bearer token and loads the
// authenticated user into the request context
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			userID, err := authService.ValidateToken(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			user, err := authService.GetUser(r.Context(), userID)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// UserFromContext returns the authenticated user from the request context
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

// MustGetUser returns the authenticated user or panics; only for handlers
// behind the Auth middleware
func MustGetUser(ctx context.Context) *model.User {
	user, ok := UserFromContext(ctx)
	if !ok {
		panic("no authenticated user in context")
	}
	return user
}
