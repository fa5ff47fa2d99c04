package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BayoGabriel/igaming/internal/model"
	"github.com/BayoGabriel/igaming/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Sessions are stored as JSON documents; conditional session updates use
// optimistic WATCH transactions so concurrent callers never partially apply
// a mutation. User win counters use native atomic increments.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	// Claim the username first; SETNX makes the uniqueness check atomic
	claimed, err := s.client.SetNX(ctx, usernameIndexKey(user.Username), string(user.ID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrUsernameTaken
	}

	return s.client.HSet(ctx, userKey(user.ID),
		"username", user.Username,
		"wins", user.Wins,
		"created_at", user.CreatedAt.Format(time.RFC3339Nano),
	).Err()
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	fields, err := s.client.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrUserNotFound
	}
	return userFromFields(id, fields)
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(idStr))
}

func (s *Storage) IncrementWins(ctx context.Context, id model.UserID) error {
	exists, err := s.client.Exists(ctx, userKey(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrUserNotFound
	}

	// Counter and leaderboard index move together
	pipe := s.client.Pipeline()
	pipe.HIncrBy(ctx, userKey(id), "wins", 1)
	pipe.ZIncrBy(ctx, winsIndexKey(), 1, string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) TopWinners(ctx context.Context, limit int) ([]*model.User, error) {
	if limit <= 0 {
		limit = 10
	}

	ids, err := s.client.ZRevRange(ctx, winsIndexKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.GetUser(ctx, model.UserID(id))
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.GameSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, 0)
	pipe.SAdd(ctx, activeSessionsKey(), string(session.ID))
	pipe.ZAdd(ctx, sessionsByStartKey(), redis.Z{
		Score:  float64(session.StartTime.UnixMilli()),
		Member: string(session.ID),
	})
	pipe.Set(ctx, latestSessionKey(), string(session.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.GameSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.GameSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) CurrentSession(ctx context.Context, now time.Time, resultWindow time.Duration) (*model.GameSession, error) {
	// Active and unexpired first
	ids, err := s.client.SMembers(ctx, activeSessionsKey()).Result()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		session, err := s.GetSession(ctx, model.SessionID(id))
		if err != nil {
			if errors.Is(err, model.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		if session.Status == model.SessionStatusActive && session.EndTime.After(now) {
			return session, nil
		}
	}

	// Then a just-completed session still inside the result window
	latest, err := s.client.Get(ctx, latestSessionKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	session, err := s.GetSession(ctx, model.SessionID(latest))
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if session.Status == model.SessionStatusCompleted && session.EndTime.After(now.Add(-resultWindow)) {
		return session, nil
	}
	return nil, nil
}

func (s *Storage) AppendPlayer(ctx context.Context, id model.SessionID, player model.Player, now time.Time) (bool, error) {
	return s.updateSession(ctx, id, nil, func(session *model.GameSession) bool {
		if !session.IsJoinable(now) {
			return false
		}
		session.Players = append(session.Players, player)
		return true
	})
}

func (s *Storage) RemovePlayer(ctx context.Context, id model.SessionID, userID model.UserID, now time.Time) (bool, error) {
	return s.updateSession(ctx, id, nil, func(session *model.GameSession) bool {
		if !session.IsJoinable(now) {
			return false
		}
		for i, p := range session.Players {
			if p.UserID == userID {
				session.Players = append(session.Players[:i], session.Players[i+1:]...)
				return true
			}
		}
		return false
	})
}

func (s *Storage) SetSelection(ctx context.Context, id model.SessionID, userID model.UserID, number int, now time.Time) (bool, error) {
	return s.updateSession(ctx, id, nil, func(session *model.GameSession) bool {
		if !session.IsJoinable(now) {
			return false
		}
		player := session.FindPlayer(userID)
		if player == nil {
			return false
		}
		n := number
		player.SelectedNumber = &n
		return true
	})
}

func (s *Storage) ListExpiredActive(ctx context.Context, now time.Time) ([]*model.GameSession, error) {
	ids, err := s.client.SMembers(ctx, activeSessionsKey()).Result()
	if err != nil {
		return nil, err
	}

	var expired []*model.GameSession
	for _, id := range ids {
		session, err := s.GetSession(ctx, model.SessionID(id))
		if err != nil {
			if errors.Is(err, model.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		if session.Status == model.SessionStatusActive && !session.EndTime.After(now) {
			expired = append(expired, session)
		}
	}
	return expired, nil
}

func (s *Storage) FinalizeSession(ctx context.Context, id model.SessionID, winningNumber int) (bool, error) {
	extra := func(pipe redis.Pipeliner) {
		pipe.SRem(ctx, activeSessionsKey(), string(id))
	}
	return s.updateSession(ctx, id, extra, func(session *model.GameSession) bool {
		if session.Status != model.SessionStatusActive {
			return false
		}
		n := winningNumber
		session.Status = model.SessionStatusCompleted
		session.WinningNumber = &n
		return true
	})
}

func (s *Storage) ListCompletedSessions(ctx context.Context, since time.Time, limit int) ([]*model.GameSession, error) {
	min := "-inf"
	if !since.IsZero() {
		min = strconv.FormatInt(since.UnixMilli(), 10)
	}

	// Newest first; over-fetch is harmless since only completed sessions
	// count toward the limit
	ids, err := s.client.ZRevRangeByScore(ctx, sessionsByStartKey(), &redis.ZRangeBy{
		Min: min,
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}

	var completed []*model.GameSession
	for _, id := range ids {
		session, err := s.GetSession(ctx, model.SessionID(id))
		if err != nil {
			if errors.Is(err, model.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		if session.Status != model.SessionStatusCompleted {
			continue
		}
		completed = append(completed, session)
		if limit > 0 && len(completed) >= limit {
			break
		}
	}
	return completed, nil
}

// updateSession applies mutate to the session document under an optimistic
// WATCH transaction. mutate returns whether the conditional update should be
// applied; a false return leaves the document untouched. extra, when set,
// queues additional index commands in the same transaction.
func (s *Storage) updateSession(ctx context.Context, id model.SessionID, extra func(redis.Pipeliner), mutate func(*model.GameSession) bool) (bool, error) {
	key := sessionKey(id)
	applied := false

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrSessionNotFound
			}
			return err
		}

		var session model.GameSession
		if err := json.Unmarshal(data, &session); err != nil {
			return err
		}

		if !mutate(&session) {
			applied = false
			return nil
		}

		updated, err := json.Marshal(&session)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			if extra != nil {
				extra(pipe)
			}
			return nil
		})
		if err != nil {
			return err
		}
		applied = true
		return nil
	}

	for i := 0; i < s.cfg.MaxTxRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return applied, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// Lost the optimistic lock; re-read and retry
			continue
		}
		return false, err
	}
	return false, redis.TxFailedErr
}

func userFromFields(id model.UserID, fields map[string]string) (*model.User, error) {
	wins, err := strconv.Atoi(fields["wins"])
	if err != nil {
		wins = 0
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		createdAt = time.Time{}
	}

	return &model.User{
		ID:        id,
		Username:  fields["username"],
		Wins:      wins,
		CreatedAt: createdAt,
	}, nil
}
