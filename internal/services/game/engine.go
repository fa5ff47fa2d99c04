package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BayoGabriel/igaming/internal/dependencies/clock"
	"github.com/BayoGabriel/igaming/internal/dependencies/random"
	"github.com/BayoGabriel/igaming/internal/model"
	"github.com/BayoGabriel/igaming/internal/services/ledger"
	"github.com/BayoGabriel/igaming/internal/storage"
)

// JoinOutcome describes the result of a join request
type JoinOutcome string

const (
	// OutcomeCreated means no joinable session existed and a new one was
	// created with the caller as starter
	OutcomeCreated JoinOutcome = "created"
	// OutcomeJoined means the caller was appended to the current session
	OutcomeJoined JoinOutcome = "joined"
	// OutcomeAlreadyIn means the caller was already a player in the
	// current session; not an error
	OutcomeAlreadyIn JoinOutcome = "already-in"
)

// Config holds game rule settings
type Config struct {
	// MaxPlayers is the session capacity
	MaxPlayers int
	// SessionDuration is the active window of a session
	SessionDuration time.Duration
	// ResultWindow is how long a completed session stays visible to
	// polling clients before the current-session view goes empty
	ResultWindow time.Duration
}

// DefaultConfig returns the default game configuration
func DefaultConfig() Config {
	return Config{
		MaxPlayers:      10,
		SessionDuration: 20 * time.Second,
		ResultWindow:    5 * time.Second,
	}
}

// Engine is the session lifecycle engine. It enforces the session-level
// business rules (single current session, capacity, membership, one pick
// per player) on top of the store's conditional primitives, and settles
// expired sessions.
//
// There is no background scheduler: every state-observing or state-mutating
// method runs the expiry sweep first, so settlement latency is bounded by
// client polling frequency.
type Engine struct {
	cfg     Config
	storage storage.Storage
	ledger  *ledger.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewEngine creates a new lifecycle engine
func NewEngine(cfg Config, storage storage.Storage, ledger *ledger.Service, clock clock.Clock, random random.Random, logger *slog.Logger) *Engine {
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = DefaultConfig().MaxPlayers
	}
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.ResultWindow <= 0 {
		cfg.ResultWindow = DefaultConfig().ResultWindow
	}
	return &Engine{
		cfg:     cfg,
		storage: storage,
		ledger:  ledger,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CurrentSession settles anything expired, then returns the current session:
// the active one, or a just-completed one still inside the result window, or
// nil when neither exists.
func (e *Engine) CurrentSession(ctx context.Context) (*model.GameSession, error) {
	if err := e.SweepExpired(ctx); err != nil {
		return nil, err
	}
	return e.storage.CurrentSession(ctx, e.clock.Now(), e.cfg.ResultWindow)
}

// JoinOrCreate puts the user into the current session, creating one if no
// joinable session exists. Returns model.ErrSessionUnavailable when the
// session is at capacity or expired between read and write.
func (e *Engine) JoinOrCreate(ctx context.Context, userID model.UserID, username string) (JoinOutcome, *model.GameSession, error) {
	if err := e.SweepExpired(ctx); err != nil {
		return "", nil, err
	}

	now := e.clock.Now()
	current, err := e.storage.CurrentSession(ctx, now, e.cfg.ResultWindow)
	if err != nil {
		return "", nil, err
	}

	if current != nil && current.Status == model.SessionStatusActive {
		if current.FindPlayer(userID) != nil {
			return OutcomeAlreadyIn, current, nil
		}
	}

	// A completed session inside the result window is not joinable; start
	// fresh
	if current == nil || !current.IsJoinable(now) {
		session := &model.GameSession{
			ID:        model.SessionID(uuid.New().String()),
			StartTime: now,
			EndTime:   now.Add(e.cfg.SessionDuration),
			Status:    model.SessionStatusActive,
			Players: []model.Player{
				{
					UserID:    userID,
					Username:  username,
					IsStarter: true,
				},
			},
			MaxPlayers: e.cfg.MaxPlayers,
		}
		if err := e.storage.CreateSession(ctx, session); err != nil {
			return "", nil, err
		}
		return OutcomeCreated, session, nil
	}

	// Capacity is checked here, not by the store; the conditional append
	// only re-validates liveness. Two joiners racing at capacity-1 can
	// both pass, transiently exceeding MaxPlayers. Accepted bounded race.
	if len(current.Players) >= current.MaxPlayers {
		return "", nil, model.ErrSessionUnavailable
	}

	player := model.Player{
		UserID:   userID,
		Username: username,
	}
	applied, err := e.storage.AppendPlayer(ctx, current.ID, player, e.clock.Now())
	if err != nil {
		return "", nil, err
	}
	if !applied {
		// Session expired between the read and the append
		return "", nil, model.ErrSessionUnavailable
	}

	session, err := e.storage.GetSession(ctx, current.ID)
	if err != nil {
		return "", nil, err
	}
	return OutcomeJoined, session, nil
}

// Leave removes the user from the current active session. A leave that
// loses the race with expiry fails with model.ErrNoActiveSession and is not
// retried.
func (e *Engine) Leave(ctx context.Context, userID model.UserID) error {
	if err := e.SweepExpired(ctx); err != nil {
		return err
	}

	now := e.clock.Now()
	current, err := e.storage.CurrentSession(ctx, now, e.cfg.ResultWindow)
	if err != nil {
		return err
	}
	if current == nil || !current.IsJoinable(now) {
		return model.ErrNoActiveSession
	}
	if current.FindPlayer(userID) == nil {
		return model.ErrNotInSession
	}

	applied, err := e.storage.RemovePlayer(ctx, current.ID, userID, e.clock.Now())
	if err != nil {
		return err
	}
	if !applied {
		return model.ErrNoActiveSession
	}
	return nil
}

// PickNumber records the user's guess for the current session. Each player
// picks at most once; the first selection stands.
func (e *Engine) PickNumber(ctx context.Context, userID model.UserID, number int) error {
	if number < 1 || number > 9 {
		return model.ErrInvalidNumber
	}

	if err := e.SweepExpired(ctx); err != nil {
		return err
	}

	now := e.clock.Now()
	current, err := e.storage.CurrentSession(ctx, now, e.cfg.ResultWindow)
	if err != nil {
		return err
	}
	if current == nil || !current.IsJoinable(now) {
		return model.ErrNoActiveSession
	}

	player := current.FindPlayer(userID)
	if player == nil {
		return model.ErrNotInSession
	}
	if player.SelectedNumber != nil {
		return model.ErrAlreadyPicked
	}

	applied, err := e.storage.SetSelection(ctx, current.ID, userID, number, e.clock.Now())
	if err != nil {
		return err
	}
	if !applied {
		return model.ErrNoActiveSession
	}
	return nil
}

// SweepExpired settles every session whose end time has passed: draw the
// winning number, finalize the session, then credit each winner once.
//
// Safe to run redundantly from concurrent requests: the conditional
// finalize applies exactly once, and only the caller whose finalize applied
// performs the crediting. A crash between finalize and crediting loses the
// remaining credits for that session permanently; failures are logged for
// manual reconciliation, never retried.
func (e *Engine) SweepExpired(ctx context.Context) error {
	expired, err := e.storage.ListExpiredActive(ctx, e.clock.Now())
	if err != nil {
		return err
	}

	for _, session := range expired {
		winningNumber := e.random.Intn(9) + 1

		// Winner set comes from the same read the finalize is based on;
		// the roster is frozen once the session expires
		var winners []model.Player
		for _, p := range session.Players {
			if p.SelectedNumber != nil && *p.SelectedNumber == winningNumber {
				winners = append(winners, p)
			}
		}

		applied, err := e.storage.FinalizeSession(ctx, session.ID, winningNumber)
		if err != nil {
			e.logger.Error("failed to finalize session",
				slog.String("session_id", string(session.ID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !applied {
			// A concurrent sweep finalized it first; that caller credits
			continue
		}

		for _, winner := range winners {
			if err := e.ledger.CreditWin(ctx, winner.UserID); err != nil {
				e.logger.Error("failed to credit win",
					slog.String("session_id", string(session.ID)),
					slog.String("user_id", string(winner.UserID)),
					slog.String("error", err.Error()),
				)
			}
		}

		e.logger.Info("session settled",
			slog.String("session_id", string(session.ID)),
			slog.Int("winning_number", winningNumber),
			slog.Int("players", len(session.Players)),
			slog.Int("winners", len(winners)),
		)
	}

	return nil
}
