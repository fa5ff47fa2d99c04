package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/BayoGabriel/igaming/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	now     time.Time
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = context.Background()
}

func (s *StorageSuite) activeSession(id string, players ...model.Player) *model.GameSession {
	session := &model.GameSession{
		ID:         model.SessionID(id),
		StartTime:  s.now,
		EndTime:    s.now.Add(20 * time.Second),
		Status:     model.SessionStatusActive,
		Players:    players,
		MaxPlayers: 10,
	}
	s.Require().NoError(s.storage.CreateSession(s.ctx, session))
	return session
}

// User tests

func (s *StorageSuite) TestCreateAndGetUser() {
	user := &model.User{ID: "u1", Username: "alice", CreatedAt: s.now}
	s.Require().NoError(s.storage.CreateUser(s.ctx, user))

	retrieved, err := s.storage.GetUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)

	byName, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), byName.ID)
}

func (s *StorageSuite) TestCreateUserDuplicateUsername() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{ID: "u1", Username: "alice"}))

	err := s.storage.CreateUser(s.ctx, &model.User{ID: "u2", Username: "alice"})
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestIncrementWins() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{ID: "u1", Username: "alice"}))

	s.Require().NoError(s.storage.IncrementWins(s.ctx, "u1"))
	s.Require().NoError(s.storage.IncrementWins(s.ctx, "u1"))

	user, err := s.storage.GetUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(2, user.Wins)
}

func (s *StorageSuite) TestTopWinnersOrdering() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{ID: "u1", Username: "alice", Wins: 2}))
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{ID: "u2", Username: "bob", Wins: 5}))
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{ID: "u3", Username: "carol", Wins: 0}))

	winners, err := s.storage.TopWinners(s.ctx, 10)
	s.Require().NoError(err)

	s.Require().Len(winners, 2)
	s.Equal("bob", winners[0].Username)
	s.Equal("alice", winners[1].Username)
}

// Session tests

func (s *StorageSuite) TestCreateAndGetSession() {
	created := s.activeSession("s1", model.Player{UserID: "u1", Username: "alice", IsStarter: true})

	retrieved, err := s.storage.GetSession(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal(created.ID, retrieved.ID)
	s.Require().Len(retrieved.Players, 1)
	s.True(retrieved.Players[0].IsStarter)
}

func (s *StorageSuite) TestGetSessionReturnsCopy() {
	s.activeSession("s1", model.Player{UserID: "u1", Username: "alice"})

	first, err := s.storage.GetSession(s.ctx, "s1")
	s.Require().NoError(err)
	first.Players[0].Username = "mutated"

	second, err := s.storage.GetSession(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal("alice", second.Players[0].Username)
}

func (s *StorageSuite) TestCurrentSessionPrefersActive() {
	s.activeSession("s1")
	applied, err := s.storage.FinalizeSession(s.ctx, "s1", 5)
	s.Require().NoError(err)
	s.Require().True(applied)
	s.activeSession("s2")

	current, err := s.storage.CurrentSession(s.ctx, s.now, 5*time.Second)
	s.Require().NoError(err)
	s.Require().NotNil(current)
	s.Equal(model.SessionID("s2"), current.ID)
}

func (s *StorageSuite) TestCurrentSessionResultWindow() {
	s.activeSession("s1")
	applied, err := s.storage.FinalizeSession(s.ctx, "s1", 5)
	s.Require().NoError(err)
	s.Require().True(applied)

	// Inside the trailing window the completed session is still visible
	at := s.now.Add(23 * time.Second)
	current, err := s.storage.CurrentSession(s.ctx, at, 5*time.Second)
	s.Require().NoError(err)
	s.Require().NotNil(current)
	s.Equal(model.SessionStatusCompleted, current.Status)

	// Past the window it is not
	at = s.now.Add(26 * time.Second)
	current, err = s.storage.CurrentSession(s.ctx, at, 5*time.Second)
	s.Require().NoError(err)
	s.Nil(current)
}

func (s *StorageSuite) TestAppendPlayer() {
	s.activeSession("s1", model.Player{UserID: "u1", Username: "alice"})

	applied, err := s.storage.AppendPlayer(s.ctx, "s1", model.Player{UserID: "u2", Username: "bob"}, s.now)
	s.Require().NoError(err)
	s.True(applied)

	session, err := s.storage.GetSession(s.ctx, "s1")
	s.Require().NoError(err)
	s.Len(session.Players, 2)
}

func (s *StorageSuite) TestAppendPlayerExpired() {
	s.activeSession("s1")

	applied, err := s.storage.AppendPlayer(s.ctx, "s1", model.Player{UserID: "u2"}, s.now.Add(21*time.Second))
	s.Require().NoError(err)
	s.False(applied)
}

func (s *StorageSuite) TestAppendPlayerCompleted() {
	s.activeSession("s1")
	_, err := s.storage.FinalizeSession(s.ctx, "s1", 5)
	s.Require().NoError(err)

	applied, err := s.storage.AppendPlayer(s.ctx, "s1", model.Player{UserID: "u2"}, s.now)
	s.Require().NoError(err)
	s.False(applied)
}

func (s *StorageSuite) TestRemovePlayer() {
	s.activeSession("s1",
		model.Player{UserID: "u1", Username: "alice"},
		model.Player{UserID: "u2", Username: "bob"},
	)

	applied, err := s.storage.RemovePlayer(s.ctx, "s1", "u1", s.now)
	s.Require().NoError(err)
	s.True(applied)

	session, err := s.storage.GetSession(s.ctx, "s1")
	s.Require().NoError(err)
	s.Require().Len(session.Players, 1)
	s.Equal(model.UserID("u2"), session.Players[0].UserID)
}

func (s *StorageSuite) TestRemovePlayerNotMember() {
	s.activeSession("s1", model.Player{UserID: "u1", Username: "alice"})

	applied, err := s.storage.RemovePlayer(s.ctx, "s1", "u2", s.now)
	s.Require().NoError(err)
	s.False(applied)
}

func (s *StorageSuite) TestSetSelection() {
	s.activeSession("s1", model.Player{UserID: "u1", Username: "alice"})

	applied, err := s.storage.SetSelection(s.ctx, "s1", "u1", 7, s.now)
	s.Require().NoError(err)
	s.True(applied)

	session, err := s.storage.GetSession(s.ctx, "s1")
	s.Require().NoError(err)
	s.Require().NotNil(session.Players[0].SelectedNumber)
	s.Equal(7, *session.Players[0].SelectedNumber)
}

func (s *StorageSuite) TestSetSelectionExpired() {
	s.activeSession("s1", model.Player{UserID: "u1", Username: "alice"})

	applied, err := s.storage.SetSelection(s.ctx, "s1", "u1", 7, s.now.Add(21*time.Second))
	s.Require().NoError(err)
	s.False(applied)
}

func (s *StorageSuite) TestListExpiredActive() {
	s.activeSession("s1")
	s.activeSession("s2")
	_, err := s.storage.FinalizeSession(s.ctx, "s1", 5)
	s.Require().NoError(err)

	expired, err := s.storage.ListExpiredActive(s.ctx, s.now.Add(21*time.Second))
	s.Require().NoError(err)

	s.Require().Len(expired, 1)
	s.Equal(model.SessionID("s2"), expired[0].ID)
}

func (s *StorageSuite) TestFinalizeSessionOnce() {
	s.activeSession("s1")

	applied, err := s.storage.FinalizeSession(s.ctx, "s1", 5)
	s.Require().NoError(err)
	s.True(applied)

	applied, err = s.storage.FinalizeSession(s.ctx, "s1", 9)
	s.Require().NoError(err)
	s.False(applied)

	session, err := s.storage.GetSession(s.ctx, "s1")
	s.Require().NoError(err)
	s.Equal(model.SessionStatusCompleted, session.Status)
	s.Equal(5, *session.WinningNumber)
}

func (s *StorageSuite) TestListCompletedSessions() {
	s.activeSession("s1")
	s.activeSession("s2")
	s.activeSession("s3")
	for _, id := range []model.SessionID{"s1", "s2"} {
		_, err := s.storage.FinalizeSession(s.ctx, id, 5)
		s.Require().NoError(err)
	}

	completed, err := s.storage.ListCompletedSessions(s.ctx, time.Time{}, 0)
	s.Require().NoError(err)

	s.Require().Len(completed, 2)
	s.Equal(model.SessionID("s2"), completed[0].ID)
	s.Equal(model.SessionID("s1"), completed[1].ID)
}

func (s *StorageSuite) TestListCompletedSessionsLimit() {
	for _, id := range []string{"s1", "s2", "s3"} {
		s.activeSession(id)
		_, err := s.storage.FinalizeSession(s.ctx, model.SessionID(id), 5)
		s.Require().NoError(err)
	}

	completed, err := s.storage.ListCompletedSessions(s.ctx, time.Time{}, 2)
	s.Require().NoError(err)
	s.Len(completed, 2)
}
