package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrUsernameTooShort = errors.New("username must be at least 2 characters long")

	// Session errors
	ErrSessionNotFound    = errors.New("session not found")
	ErrNoActiveSession    = errors.New("no active session")
	ErrNotInSession       = errors.New("user is not in this session")
	ErrAlreadyPicked      = errors.New("number already selected")
	ErrInvalidNumber      = errors.New("number must be between 1 and 9")
	ErrSessionUnavailable = errors.New("session is full or expired")
)
