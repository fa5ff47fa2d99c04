package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/BayoGabriel/igaming/internal/dependencies/clock"
	"github.com/BayoGabriel/igaming/internal/dependencies/random"
	"github.com/BayoGabriel/igaming/internal/services/auth"
	"github.com/BayoGabriel/igaming/internal/services/game"
	"github.com/BayoGabriel/igaming/internal/services/leaderboard"
	"github.com/BayoGabriel/igaming/internal/services/ledger"
	"github.com/BayoGabriel/igaming/internal/storage"
	"github.com/BayoGabriel/igaming/internal/storage/memory"
	redisstorage "github.com/BayoGabriel/igaming/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService        *auth.Service
	LedgerService      *ledger.Service
	GameEngine         *game.Engine
	LeaderboardService *leaderboard.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// GameConfig holds the game rule settings (optional)
	// If zero value, defaults to game.DefaultConfig()
	GameConfig game.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.TokenTTL == 0 {
		authCfg = auth.Config{Secret: cfg.AuthConfig.Secret, TokenTTL: auth.DefaultConfig().TokenTTL}
	}

	return newWithDependencies(store, clk, rnd, authCfg, cfg.GameConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, gameCfg game.Config, logger *slog.Logger) *App {
	// Create services
	authService := auth.New(store, clk, authCfg)
	ledgerService := ledger.New(store, logger)
	gameEngine := game.NewEngine(gameCfg, store, ledgerService, clk, rnd, logger)
	leaderboardService := leaderboard.New(store, clk)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		AuthService:        authService,
		LedgerService:      ledgerService,
		GameEngine:         gameEngine,
		LeaderboardService: leaderboardService,
	}
}
