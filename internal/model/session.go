package model

import "time"

// SessionID uniquely identifies a game session
type SessionID string

// SessionStatus represents the lifecycle state of a session
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// Player is a user's membership in a session. Username is a snapshot taken
// at join time; SelectedNumber stays nil until the player picks.
type Player struct {
	UserID         UserID `json:"userId"`
	Username       string `json:"username"`
	SelectedNumber *int   `json:"selectedNumber,omitempty"`
	IsStarter      bool   `json:"isStarter"`
}

// GameSession is one timed round of the guessing game. At most one session
// is active with EndTime in the future at any instant. Completed sessions
// are never deleted; they are the history and leaderboard source.
type GameSession struct {
	ID            SessionID     `json:"id"`
	StartTime     time.Time     `json:"startTime"`
	EndTime       time.Time     `json:"endTime"`
	Status        SessionStatus `json:"status"`
	Players       []Player      `json:"players"`
	WinningNumber *int          `json:"winningNumber,omitempty"`
	MaxPlayers    int           `json:"maxPlayers"`
}

// FindPlayer returns the player with the given user ID, or nil
func (s *GameSession) FindPlayer(userID UserID) *Player {
	for i := range s.Players {
		if s.Players[i].UserID == userID {
			return &s.Players[i]
		}
	}
	return nil
}

// IsExpired reports whether the session's end time has passed
func (s *GameSession) IsExpired(now time.Time) bool {
	return !s.EndTime.After(now)
}

// IsJoinable reports whether the session is active and unexpired
func (s *GameSession) IsJoinable(now time.Time) bool {
	return s.Status == SessionStatusActive && s.EndTime.After(now)
}

// Winners returns the players whose selected number equals the winning
// number. Players who never selected are never winners. Returns nil for
// sessions that have no winning number drawn yet.
func (s *GameSession) Winners() []Player {
	if s.WinningNumber == nil {
		return nil
	}
	var winners []Player
	for _, p := range s.Players {
		if p.SelectedNumber != nil && *p.SelectedNumber == *s.WinningNumber {
			winners = append(winners, p)
		}
	}
	return winners
}
