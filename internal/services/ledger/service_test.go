package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BayoGabriel/igaming/internal/model"
	"github.com/BayoGabriel/igaming/internal/storage/memory"
	"github.com/BayoGabriel/igaming/internal/testutil"
)

func TestCreditWin(t *testing.T) {
	store := memory.New()
	service := New(store, testutil.NopLogger())
	ctx := context.Background()

	user := &model.User{ID: "u1", Username: "alice", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(ctx, user))

	require.NoError(t, service.CreditWin(ctx, "u1"))
	require.NoError(t, service.CreditWin(ctx, "u1"))

	stored, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Wins)
}

func TestCreditWinUnknownUser(t *testing.T) {
	store := memory.New()
	service := New(store, testutil.NopLogger())

	err := service.CreditWin(context.Background(), "nobody")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}
