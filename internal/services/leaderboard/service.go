package leaderboard

import (
	"context"
	"sort"
	"time"

	"github.com/BayoGabriel/igaming/internal/dependencies/clock"
	"github.com/BayoGabriel/igaming/internal/model"
	"github.com/BayoGabriel/igaming/internal/storage"
)

// Period selects the time window for leaderboard and history queries
type Period string

const (
	PeriodAll   Period = "all"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod maps a query-string filter to a Period, defaulting to all
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return Period(s)
	default:
		return PeriodAll
	}
}

const (
	// TopLimit is the number of leaderboard entries returned
	TopLimit = 10
	// HistoryLimit is the number of sessions returned by History
	HistoryLimit = 50
)

// Entry is one leaderboard row
type Entry struct {
	UserID   model.UserID
	Username string
	Wins     int
}

// Service answers read-model queries over completed sessions and win
// counters. It never mutates state; it is a consumer of the lifecycle
// engine's output data.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new leaderboard service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
	}
}

// TopWinners returns the top winners for the period. The all-time board
// reads the persisted win counters; windowed boards are recomputed from the
// completed sessions inside the window.
func (s *Service) TopWinners(ctx context.Context, period Period) ([]Entry, error) {
	if period == PeriodAll {
		users, err := s.storage.TopWinners(ctx, TopLimit)
		if err != nil {
			return nil, err
		}
		entries := make([]Entry, 0, len(users))
		for _, u := range users {
			entries = append(entries, Entry{
				UserID:   u.ID,
				Username: u.Username,
				Wins:     u.Wins,
			})
		}
		return entries, nil
	}

	sessions, err := s.storage.ListCompletedSessions(ctx, s.windowStart(period), 0)
	if err != nil {
		return nil, err
	}

	wins := make(map[model.UserID]*Entry)
	for _, session := range sessions {
		for _, winner := range session.Winners() {
			entry, ok := wins[winner.UserID]
			if !ok {
				entry = &Entry{
					UserID:   winner.UserID,
					Username: winner.Username,
				}
				wins[winner.UserID] = entry
			}
			entry.Wins++
		}
	}

	entries := make([]Entry, 0, len(wins))
	for _, entry := range wins {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].Username < entries[j].Username
	})

	if len(entries) > TopLimit {
		entries = entries[:TopLimit]
	}
	return entries, nil
}

// History returns recently completed sessions for the period, newest first
func (s *Service) History(ctx context.Context, period Period) ([]*model.GameSession, error) {
	return s.storage.ListCompletedSessions(ctx, s.windowStart(period), HistoryLimit)
}

// windowStart returns the inclusive lower bound for the period, or the zero
// time for the unbounded all-time window
func (s *Service) windowStart(period Period) time.Time {
	now := s.clock.Now()
	switch period {
	case PeriodDay:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		return now.Add(-7 * 24 * time.Hour)
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}
