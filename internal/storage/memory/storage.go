package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BayoGabriel/igaming/internal/model"
	"github.com/BayoGabriel/igaming/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Conditional session updates run under a single lock, giving the same
// per-document atomicity the Redis backend provides.
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	sessions      map[model.SessionID]*model.GameSession

	// Insertion order of sessions, oldest first
	sessionOrder []model.SessionID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		sessions:      make(map[model.SessionID]*model.GameSession),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usernameIndex[user.Username]; taken {
		return model.ErrUsernameTaken
	}

	u := *user
	s.users[user.ID] = &u
	s.usernameIndex[user.Username] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) IncrementWins(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	user.Wins++
	return nil
}

func (s *Storage) TopWinners(ctx context.Context, limit int) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var winners []*model.User
	for _, user := range s.users {
		if user.Wins > 0 {
			u := *user
			winners = append(winners, &u)
		}
	}

	sort.Slice(winners, func(i, j int) bool {
		if winners[i].Wins != winners[j].Wins {
			return winners[i].Wins > winners[j].Wins
		}
		return winners[i].Username < winners[j].Username
	})

	if limit > 0 && len(winners) > limit {
		winners = winners[:limit]
	}
	return winners, nil
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := cloneSession(session)
	s.sessions[session.ID] = sess
	s.sessionOrder = append(s.sessionOrder, session.ID)
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *Storage) CurrentSession(ctx context.Context, now time.Time, resultWindow time.Duration) (*model.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Active and unexpired first
	for _, session := range s.sessions {
		if session.Status == model.SessionStatusActive && session.EndTime.After(now) {
			return cloneSession(session), nil
		}
	}

	// Then a just-completed session still inside the result window, so
	// polling clients can observe the outcome
	cutoff := now.Add(-resultWindow)
	for i := len(s.sessionOrder) - 1; i >= 0; i-- {
		session := s.sessions[s.sessionOrder[i]]
		if session.Status == model.SessionStatusCompleted && session.EndTime.After(cutoff) {
			return cloneSession(session), nil
		}
	}

	return nil, nil
}

func (s *Storage) AppendPlayer(ctx context.Context, id model.SessionID, player model.Player, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return false, model.ErrSessionNotFound
	}
	if !session.IsJoinable(now) {
		return false, nil
	}

	session.Players = append(session.Players, player)
	return true, nil
}

func (s *Storage) RemovePlayer(ctx context.Context, id model.SessionID, userID model.UserID, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return false, model.ErrSessionNotFound
	}
	if !session.IsJoinable(now) {
		return false, nil
	}

	for i, p := range session.Players {
		if p.UserID == userID {
			session.Players = append(session.Players[:i], session.Players[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Storage) SetSelection(ctx context.Context, id model.SessionID, userID model.UserID, number int, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return false, model.ErrSessionNotFound
	}
	if !session.IsJoinable(now) {
		return false, nil
	}

	player := session.FindPlayer(userID)
	if player == nil {
		return false, nil
	}
	n := number
	player.SelectedNumber = &n
	return true, nil
}

func (s *Storage) ListExpiredActive(ctx context.Context, now time.Time) ([]*model.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []*model.GameSession
	for _, id := range s.sessionOrder {
		session := s.sessions[id]
		if session.Status == model.SessionStatusActive && !session.EndTime.After(now) {
			expired = append(expired, cloneSession(session))
		}
	}
	return expired, nil
}

func (s *Storage) FinalizeSession(ctx context.Context, id model.SessionID, winningNumber int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return false, model.ErrSessionNotFound
	}
	if session.Status != model.SessionStatusActive {
		return false, nil
	}

	n := winningNumber
	session.Status = model.SessionStatusCompleted
	session.WinningNumber = &n
	return true, nil
}

func (s *Storage) ListCompletedSessions(ctx context.Context, since time.Time, limit int) ([]*model.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var completed []*model.GameSession
	for i := len(s.sessionOrder) - 1; i >= 0; i-- {
		session := s.sessions[s.sessionOrder[i]]
		if session.Status != model.SessionStatusCompleted {
			continue
		}
		if !since.IsZero() && session.StartTime.Before(since) {
			continue
		}
		completed = append(completed, cloneSession(session))
		if limit > 0 && len(completed) >= limit {
			break
		}
	}
	return completed, nil
}

// cloneSession deep-copies a session so callers never share the stored
// player slice
func cloneSession(session *model.GameSession) *model.GameSession {
	clone := *session
	clone.Players = make([]model.Player, len(session.Players))
	copy(clone.Players, session.Players)
	if session.WinningNumber != nil {
		n := *session.WinningNumber
		clone.WinningNumber = &n
	}
	return &clone
}
