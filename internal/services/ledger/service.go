package ledger

import (
	"context"
	"log/slog"

	"github.com/BayoGabriel/igaming/internal/model"
	"github.com/BayoGabriel/igaming/internal/storage"
)

// Service is the win-credit ledger. It owns the only mutation path for a
// user's win counter: one atomic increment per winner per completed session,
// invoked by the lifecycle engine during settlement.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new ledger service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// CreditWin increments the user's win counter by one. The increment is
// atomic at the store level, so concurrent credits for different users never
// interfere.
func (s *Service) CreditWin(ctx context.Context, userID model.UserID) error {
	return s.storage.IncrementWins(ctx, userID)
}
