package response

import (
	"time"

	"github.com/BayoGabriel/igaming/internal/model"
	"github.com/BayoGabriel/igaming/internal/services/game"
	"github.com/BayoGabriel/igaming/internal/services/leaderboard"
)

// User is the public view of a user
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

// UserFromModel converts a model user to its response form
func UserFromModel(u *model.User) User {
	return User{
		ID:       string(u.ID),
		Username: u.Username,
		Wins:     u.Wins,
	}
}

// Auth is returned by register and login
type Auth struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Player is one participant in a session snapshot
type Player struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	SelectedNumber *int   `json:"selectedNumber,omitempty"`
	IsStarter      bool   `json:"isStarter,omitempty"`
}

// Session is a full session snapshot
type Session struct {
	ID            string    `json:"id"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
	Players       []Player  `json:"players"`
	WinningNumber *int      `json:"winningNumber,omitempty"`
	MaxPlayers    int       `json:"maxPlayers"`
}

// SessionFromModel converts a model session to its response form
func SessionFromModel(s *model.GameSession) *Session {
	if s == nil {
		return nil
	}
	players := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, Player{
			UserID:         string(p.UserID),
			Username:       p.Username,
			SelectedNumber: p.SelectedNumber,
			IsStarter:      p.IsStarter,
		})
	}
	return &Session{
		ID:            string(s.ID),
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Status:        string(s.Status),
		Players:       players,
		WinningNumber: s.WinningNumber,
		MaxPlayers:    s.MaxPlayers,
	}
}

// Join is returned by POST /api/v1/game/join
type Join struct {
	Status  string   `json:"status"`
	Session *Session `json:"session"`
}

// JoinFromOutcome converts a join outcome and session to the response form
func JoinFromOutcome(outcome game.JoinOutcome, s *model.GameSession) Join {
	return Join{
		Status:  string(outcome),
		Session: SessionFromModel(s),
	}
}

// Status is a simple status acknowledgement
type Status struct {
	Status string `json:"status"`
}

// LeaderboardEntry is one leaderboard row
type LeaderboardEntry struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

// LeaderboardFromEntries converts leaderboard entries to their response form
func LeaderboardFromEntries(entries []leaderboard.Entry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, LeaderboardEntry{
			UserID:   string(e.UserID),
			Username: e.Username,
			Wins:     e.Wins,
		})
	}
	return out
}

// SessionWithWinners is a history row: the session plus its winners' names
type SessionWithWinners struct {
	Session
	Winners []string `json:"winners"`
}

// HistoryFromSessions converts completed sessions to their history form
func HistoryFromSessions(sessions []*model.GameSession) []SessionWithWinners {
	out := make([]SessionWithWinners, 0, len(sessions))
	for _, s := range sessions {
		winners := make([]string, 0)
		for _, w := range s.Winners() {
			winners = append(winners, w.Username)
		}
		out = append(out, SessionWithWinners{
			Session: *SessionFromModel(s),
			Winners: winners,
		})
	}
	return out
}

// Health is returned by GET /health
type Health struct {
	Status string `json:"status"`
}
