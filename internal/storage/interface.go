package storage

import (
	"context"
	"time"

	"github.com/BayoGabriel/igaming/internal/model"
)

// Storage defines the interface for data persistence.
//
// Session mutations (AppendPlayer, RemovePlayer, SetSelection,
// FinalizeSession) are single-document conditional updates: they apply only
// while their filter holds and must be atomic with respect to concurrent
// callers. They report whether the mutation was applied rather than
// returning an error for a failed condition.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// IncrementWins atomically adds one win to the user's counter
	IncrementWins(ctx context.Context, id model.UserID) error

	// TopWinners returns up to limit users with at least one win,
	// ordered by wins descending
	TopWinners(ctx context.Context, limit int) ([]*model.User, error)

	// Session operations
	CreateSession(ctx context.Context, session *model.GameSession) error
	GetSession(ctx context.Context, id model.SessionID) (*model.GameSession, error)

	// CurrentSession returns the active session with EndTime after now if
	// one exists, otherwise a completed session whose EndTime falls within
	// the trailing resultWindow, otherwise (nil, nil).
	CurrentSession(ctx context.Context, now time.Time, resultWindow time.Duration) (*model.GameSession, error)

	// AppendPlayer adds a player only while the session is active and
	// EndTime is after now. Capacity and duplicate membership are NOT
	// re-validated here; callers must check both under the same read.
	AppendPlayer(ctx context.Context, id model.SessionID, player model.Player, now time.Time) (bool, error)

	// RemovePlayer removes the player only while the session is active and
	// unexpired, and only if they are a member.
	RemovePlayer(ctx context.Context, id model.SessionID, userID model.UserID, now time.Time) (bool, error)

	// SetSelection records the player's number only while the session is
	// active and unexpired, and only if they are a member.
	SetSelection(ctx context.Context, id model.SessionID, userID model.UserID, number int, now time.Time) (bool, error)

	// ListExpiredActive returns all sessions still marked active whose
	// EndTime is at or before now.
	ListExpiredActive(ctx context.Context, now time.Time) ([]*model.GameSession, error)

	// FinalizeSession transitions the session to completed with the drawn
	// winning number. Returns false without error if the session was
	// already completed; repeated calls leave state unchanged.
	FinalizeSession(ctx context.Context, id model.SessionID, winningNumber int) (bool, error)

	// ListCompletedSessions returns completed sessions with StartTime at or
	// after since (zero since means no lower bound), newest first, up to
	// limit.
	ListCompletedSessions(ctx context.Context, since time.Time, limit int) ([]*model.GameSession, error)
}
