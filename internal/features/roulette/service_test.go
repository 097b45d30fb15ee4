package roulette

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fludilka.ru/credits-bot/internal/common"
	"fludilka.ru/credits-bot/internal/config"
	"fludilka.ru/credits-bot/internal/features/credits"
	"fludilka.ru/credits-bot/internal/features/events"
	"fludilka.ru/credits-bot/internal/features/limits"
)

// balanceStore — минимальный двойник хранилища экономики для спинов.
type balanceStore struct {
	balances map[int64]int64
	ledger   []*credits.LedgerEntry
}

func (s *balanceStore) EnsureBalance(_ context.Context, userID int64) error {
	if _, ok := s.balances[userID]; !ok {
		s.balances[userID] = 0
	}
	return nil
}

func (s *balanceStore) GetBalance(_ context.Context, userID int64) (int64, error) {
	return s.balances[userID], nil
}

func (s *balanceStore) ApplyDelta(_ context.Context, entry *credits.LedgerEntry) (int64, error) {
	newBalance := s.balances[entry.UserID] + entry.Delta
	if newBalance < 0 {
		return 0, common.ErrInsufficientBalance
	}
	s.balances[entry.UserID] = newBalance
	s.ledger = append(s.ledger, entry)
	return newBalance, nil
}

func (s *balanceStore) ApplyPair(_ context.Context, _ *credits.LedgerEntry) (int64, int64, error) {
	panic("не используется рулеткой")
}

func (s *balanceStore) RecentEntries(_ context.Context, _ int64, _ int) ([]*credits.LedgerEntry, error) {
	return nil, nil
}
func (s *balanceStore) TopBalances(_ context.Context, _ int) ([]credits.LeaderboardRow, error) {
	return nil, nil
}
func (s *balanceStore) TopWagered(_ context.Context, _ int) ([]credits.LeaderboardRow, error) {
	return nil, nil
}
func (s *balanceStore) TopStolen(_ context.Context, _ int) ([]credits.LeaderboardRow, error) {
	return nil, nil
}
func (s *balanceStore) Reconcile(_ context.Context) ([]credits.Drift, error) { return nil, nil }

func newTestService(balance int64) (*Service, *balanceStore) {
	cfg := &config.Config{RouletteMinBet: 10}
	store := &balanceStore{balances: map[int64]int64{1: balance}}
	creditsService := credits.NewService(
		store,
		limits.NewLimiter(nil),
		events.NewManager(nil, 0, 0), // криты в этих тестах не нужны
		cfg,
	)
	return NewService(creditsService, cfg), store
}

func TestPlayWin(t *testing.T) {
	svc, store := newTestService(100)
	svc.draw = func() int { return 7 } // красное, нечет

	result, err := svc.Play(context.Background(), 1, 50, "красное")
	require.NoError(t, err)
	assert.True(t, result.Spin.Win)
	assert.Equal(t, int64(150), result.NewBalance)

	require.Len(t, store.ledger, 1)
	assert.Equal(t, credits.ActionBet, store.ledger[0].ActionKind)
	require.NotNil(t, store.ledger[0].BetKind)
	assert.Equal(t, "red", *store.ledger[0].BetKind)
	assert.True(t, store.ledger[0].Success)
}

func TestPlayLoss(t *testing.T) {
	svc, store := newTestService(100)
	svc.draw = func() int { return 8 } // чёрное

	result, err := svc.Play(context.Background(), 1, 50, "красное")
	require.NoError(t, err)
	assert.False(t, result.Spin.Win)
	assert.Equal(t, int64(-50), result.Spin.Delta)
	assert.Equal(t, int64(50), result.NewBalance)
	assert.False(t, store.ledger[0].Success)
}

func TestPlayZeroPays35x(t *testing.T) {
	svc, _ := newTestService(100)
	svc.draw = func() int { return 0 }

	result, err := svc.Play(context.Background(), 1, 10, "зеро")
	require.NoError(t, err)
	assert.True(t, result.Spin.Win)
	assert.Equal(t, int64(350), result.Spin.Delta)
	assert.Equal(t, int64(450), result.NewBalance)
}

func TestPlayRejections(t *testing.T) {
	svc, store := newTestService(100)
	svc.draw = func() int { return 7 }
	ctx := context.Background()

	// Нераспознанная ставка
	_, err := svc.Play(ctx, 1, 50, "синее")
	assert.ErrorIs(t, err, common.ErrUnknownBetKind)

	// Ниже минимальной ставки
	_, err = svc.Play(ctx, 1, 5, "красное")
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	// Ставка больше баланса
	_, err = svc.Play(ctx, 1, 500, "красное")
	assert.ErrorIs(t, err, common.ErrInsufficientBalance)

	// Отказы ничего не списали и не записали
	assert.Equal(t, int64(100), store.balances[1])
	assert.Empty(t, store.ledger)
}
