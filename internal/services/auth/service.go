package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BayoGabriel/igaming/internal/dependencies/clock"
	"github.com/BayoGabriel/igaming/internal/model"
	"github.com/BayoGabriel/igaming/internal/storage"
)

// Errors
var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// MinUsernameLength is the minimum username length after trimming
const MinUsernameLength = 2

// Credential is an issued bearer token plus the user it identifies
type Credential struct {
	Token string
	User  *model.User
}

// Service handles identity: username registration, login, and bearer token
// issuance/validation. Tokens are stateless HS256 JWTs with the user ID as
// subject, so the backend keeps no session state.
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	secret   []byte
	tokenTTL time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenTTL: 24 * time.Hour,
	}
}

// New creates a new auth service
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}
	return &Service{
		storage:  storage,
		clock:    clock,
		secret:   []byte(cfg.Secret),
		tokenTTL: cfg.TokenTTL,
	}
}

// Register creates a new user for the given username and issues a token.
// Usernames are trimmed, case-sensitive, and unique.
func (s *Service) Register(ctx context.Context, username string) (*Credential, error) {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength {
		return nil, model.ErrUsernameTooShort
	}

	user := &model.User{
		ID:        model.UserID(uuid.New().String()),
		Username:  username,
		Wins:      0,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login authenticates an existing username and issues a token
func (s *Service) Login(ctx context.Context, username string) (*Credential, error) {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength {
		return nil, model.ErrUsernameTooShort
	}

	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

// GetUser loads a user by ID
func (s *Service) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, id)
}

// ValidateToken parses and verifies a bearer token and returns the user ID
// it was issued for
func (s *Service) ValidateToken(token string) (model.UserID, error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return model.UserID(claims.Subject), nil
}

func (s *Service) issue(user *model.User) (*Credential, error) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(user.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Credential{
		Token: token,
		User:  user,
	}, nil
}
