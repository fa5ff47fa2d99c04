package factory

import (
	"time"

	"github.com/BayoGabriel/igaming/internal/dependencies/mocks"
	"github.com/BayoGabriel/igaming/internal/services/auth"
	"github.com/BayoGabriel/igaming/internal/services/game"
	"github.com/BayoGabriel/igaming/internal/storage/memory"
	"github.com/BayoGabriel/igaming/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(game.DefaultConfig())
}

// NewTestAppWithConfig creates a test App with custom game rules
func NewTestAppWithConfig(gameCfg game.Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.Config{Secret: "test-secret", TokenTTL: 24 * time.Hour}
	app := newWithDependencies(store, mockClock, mockRandom, authCfg, gameCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
