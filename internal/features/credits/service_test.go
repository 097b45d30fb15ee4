package credits

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fludilka.ru/credits-bot/internal/common"
	"fludilka.ru/credits-bot/internal/config"
	"fludilka.ru/credits-bot/internal/features/events"
	"fludilka.ru/credits-bot/internal/features/limits"
)

// memStore — in-memory двойник Repository с теми же инвариантами:
// счёт не уходит в минус, каждая мутация пишет запись журнала,
// парная операция меняет оба счёта или ни одного.
type memStore struct {
	balances map[int64]int64
	ledger   []*LedgerEntry
}

func newMemStore() *memStore {
	return &memStore{balances: make(map[int64]int64)}
}

func (m *memStore) EnsureBalance(_ context.Context, userID int64) error {
	if _, ok := m.balances[userID]; !ok {
		m.balances[userID] = 0
	}
	return nil
}

func (m *memStore) GetBalance(_ context.Context, userID int64) (int64, error) {
	return m.balances[userID], nil
}

func (m *memStore) ApplyDelta(_ context.Context, entry *LedgerEntry) (int64, error) {
	newBalance := m.balances[entry.UserID] + entry.Delta
	if newBalance < 0 {
		return 0, common.ErrInsufficientBalance
	}
	m.balances[entry.UserID] = newBalance
	m.ledger = append(m.ledger, entry)
	return newBalance, nil
}

func (m *memStore) ApplyPair(_ context.Context, entry *LedgerEntry) (int64, int64, error) {
	target := *entry.TargetUserID
	userBalance := m.balances[entry.UserID] + entry.Delta
	targetBalance := m.balances[target] - entry.Delta
	if userBalance < 0 || targetBalance < 0 {
		return 0, 0, common.ErrInsufficientBalance
	}
	m.balances[entry.UserID] = userBalance
	m.balances[target] = targetBalance
	m.ledger = append(m.ledger, entry)
	return userBalance, targetBalance, nil
}

func (m *memStore) RecentEntries(_ context.Context, userID int64, limit int) ([]*LedgerEntry, error) {
	var out []*LedgerEntry
	for i := len(m.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		e := m.ledger[i]
		if e.UserID == userID || (e.TargetUserID != nil && *e.TargetUserID == userID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) TopBalances(_ context.Context, _ int) ([]LeaderboardRow, error) { return nil, nil }
func (m *memStore) TopWagered(_ context.Context, _ int) ([]LeaderboardRow, error)  { return nil, nil }
func (m *memStore) TopStolen(_ context.Context, _ int) ([]LeaderboardRow, error)   { return nil, nil }

// Reconcile восстанавливает балансы по правилу журнала и сравнивает.
func (m *memStore) Reconcile(_ context.Context) ([]Drift, error) {
	expected := make(map[int64]int64)
	for id := range m.balances {
		expected[id] = 0
	}
	for _, e := range m.ledger {
		expected[e.UserID] += e.Delta
		if e.TargetUserID != nil {
			expected[*e.TargetUserID] -= e.Delta
		}
	}
	var drifts []Drift
	for id, want := range expected {
		if m.balances[id] != want {
			drifts = append(drifts, Drift{UserID: id, Stored: m.balances[id], FromLedger: want})
		}
	}
	return drifts, nil
}

// faultyPairStore имитирует обрыв на второй записи парной операции.
// Как и транзакция в Repository, неудавшийся ApplyPair не фиксирует
// ничего: изменения копятся в staged и применяются только целиком.
type faultyPairStore struct {
	*memStore
	failSecondWrite bool
}

func (f *faultyPairStore) ApplyPair(_ context.Context, entry *LedgerEntry) (int64, int64, error) {
	target := *entry.TargetUserID
	staged := map[int64]int64{
		entry.UserID: f.balances[entry.UserID] + entry.Delta,
	}
	if staged[entry.UserID] < 0 {
		return 0, 0, common.ErrInsufficientBalance
	}
	if f.failSecondWrite {
		// staged отброшен: первая половина не переживает откат
		return 0, 0, errors.New("соединение с базой оборвалось")
	}
	staged[target] = f.balances[target] - entry.Delta
	if staged[target] < 0 {
		return 0, 0, common.ErrInsufficientBalance
	}
	for id, b := range staged {
		f.balances[id] = b
	}
	f.ledger = append(f.ledger, entry)
	return staged[entry.UserID], staged[target], nil
}

func testConfig() *config.Config {
	return &config.Config{
		StealMaxChance:     0.90,
		DailyGrantMax:      1,
		StealDailyMax:      3,
		EventSuccessChance: 0,
		EventFailureChance: 0,
	}
}

func newTestService(store Store, cfg *config.Config) *Service {
	limiter := limits.NewLimiter(map[limits.Category]int{
		limits.CategoryDailyGrant: cfg.DailyGrantMax,
		limits.CategorySteal:      cfg.StealDailyMax,
	})
	manager := events.NewManager(events.Catalog, cfg.EventSuccessChance, cfg.EventFailureChance)
	return NewService(store, limiter, manager, cfg)
}

// seedBalance заводит стартовый баланс через журнал: фикстура,
// пишущая в balances напрямую, ломала бы восстановимость балансов
// из записей — тот самый инвариант, который проверяет Reconcile.
func seedBalance(t *testing.T, svc *Service, userID, amount int64) {
	t.Helper()
	_, err := svc.ApplyDelta(context.Background(), &LedgerEntry{
		UserID:     userID,
		Delta:      amount,
		ActionKind: ActionAdmin,
		Success:    true,
	})
	require.NoError(t, err)
}

func TestGrantDailyDeterministicAndLimited(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestService(store, testConfig())

	result, err := svc.GrantDaily(ctx, 42)
	require.NoError(t, err)

	// Выплата совпадает с детерминированным тиром на сегодня
	wantTier := DailyTier(42, common.GetMoscowDate())
	assert.Equal(t, wantTier, result.Tier)
	assert.Equal(t, wantTier.Payout(), result.Payout)
	assert.Equal(t, result.Payout, result.NewBalance)

	// Второй раз за день — отказ без изменения счёта
	_, err = svc.GrantDaily(ctx, 42)
	assert.ErrorIs(t, err, common.ErrDailyLimitReached)
	balance, _ := store.GetBalance(ctx, 42)
	assert.Equal(t, result.NewBalance, balance)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestService(store, testConfig())
	seedBalance(t, svc, 1, 100)

	newBalance, err := svc.Transfer(ctx, 1, 2, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(60), newBalance)

	b2, _ := store.GetBalance(ctx, 2)
	assert.Equal(t, int64(40), b2)

	// Сумма по системе не изменилась
	drifts, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

// Перевод либо меняет оба счёта, либо ни одного — даже если хранилище
// падает между двумя записями.
func TestTransferAtomicUnderMidOperationFailure(t *testing.T) {
	ctx := context.Background()
	store := &faultyPairStore{memStore: newMemStore()}
	svc := newTestService(store, testConfig())
	seedBalance(t, svc, 1, 100)

	store.failSecondWrite = true
	_, err := svc.Transfer(ctx, 1, 2, 40)
	require.Error(t, err)

	b1, _ := store.GetBalance(ctx, 1)
	b2, _ := store.GetBalance(ctx, 2)
	assert.Equal(t, int64(100), b1)
	assert.Equal(t, int64(0), b2)
	assert.Len(t, store.ledger, 1) // только стартовая запись

	drifts, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)

	// После восстановления связи перевод проходит целиком
	store.failSecondWrite = false
	newBalance, err := svc.Transfer(ctx, 1, 2, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(60), newBalance)
}

func TestTransferRejections(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.balances[1] = 100
	svc := newTestService(store, testConfig())

	_, err := svc.Transfer(ctx, 1, 1, 10)
	assert.ErrorIs(t, err, common.ErrSelfTransfer)

	_, err = svc.Transfer(ctx, 1, 2, 0)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	_, err = svc.Transfer(ctx, 1, 2, -5)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	// Больше, чем есть — отказ, счета не тронуты
	_, err = svc.Transfer(ctx, 1, 2, 500)
	assert.ErrorIs(t, err, common.ErrInsufficientBalance)

	b1, _ := store.GetBalance(ctx, 1)
	b2, _ := store.GetBalance(ctx, 2)
	assert.Equal(t, int64(100), b1)
	assert.Equal(t, int64(0), b2)
	assert.Empty(t, store.ledger)
}

func TestValidateSteal(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.balances[2] = 100
	svc := newTestService(store, testConfig())

	assert.ErrorIs(t, svc.ValidateSteal(ctx, 1, 1, 10), common.ErrSelfSteal)
	assert.ErrorIs(t, svc.ValidateSteal(ctx, 1, 2, 0), common.ErrInvalidAmount)
	assert.ErrorIs(t, svc.ValidateSteal(ctx, 1, 3, 10), common.ErrVictimBroke)
	assert.ErrorIs(t, svc.ValidateSteal(ctx, 1, 2, 150), common.ErrStealTooGreedy)
	assert.NoError(t, svc.ValidateSteal(ctx, 1, 2, 50))

	// Валидация ничего не меняет и не пишет в журнал
	assert.Empty(t, store.ledger)
}

func TestStealSuccess(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestService(store, testConfig())
	seedBalance(t, svc, 2, 100)
	svc.roll = func() float64 { return 0.0 } // кубик всегда за вора

	result, err := svc.Steal(ctx, 1, 2, 30)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(30), result.Amount)
	assert.Equal(t, int64(30), result.NewBalance)
	assert.InDelta(t, StealChance(30, 100, 0.90), result.Chance, 1e-9)

	victimBalance, _ := store.GetBalance(ctx, 2)
	assert.Equal(t, int64(70), victimBalance)

	drifts, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestStealFailureLogsAttempt(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.balances[2] = 100
	svc := newTestService(store, testConfig())
	svc.roll = func() float64 { return 0.999 } // кубик всегда против

	result, err := svc.Steal(ctx, 1, 2, 30)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, int64(0), result.NewBalance)

	// Счета не изменились, но попытка в журнале (delta=0, success=false)
	victimBalance, _ := store.GetBalance(ctx, 2)
	assert.Equal(t, int64(100), victimBalance)
	require.Len(t, store.ledger, 1)
	assert.Equal(t, int64(0), store.ledger[0].Delta)
	assert.False(t, store.ledger[0].Success)
	assert.Equal(t, ActionSteal, store.ledger[0].ActionKind)
}

func TestStealDailyLimit(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.balances[2] = 1000
	svc := newTestService(store, testConfig())
	svc.roll = func() float64 { return 0.999 }

	for i := 0; i < 3; i++ {
		_, err := svc.Steal(ctx, 1, 2, 10)
		require.NoError(t, err)
	}
	_, err := svc.Steal(ctx, 1, 2, 10)
	assert.ErrorIs(t, err, common.ErrDailyLimitReached)
}

func TestStealCriticalOverlayIsExtraLedgerEntry(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cfg := testConfig()
	cfg.EventSuccessChance = 1.0 // крит срабатывает всегда
	svc := newTestService(store, cfg)
	seedBalance(t, svc, 2, 100)
	svc.roll = func() float64 { return 0.0 }

	result, err := svc.Steal(ctx, 1, 2, 30)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.NotEmpty(t, result.EventMessage)

	// Поверх стартовой записи — две новые: базовый исход и добавочное событие
	require.Len(t, store.ledger, 3)
	assert.Equal(t, ActionSteal, store.ledger[1].ActionKind)
	assert.Equal(t, ActionEvent, store.ledger[2].ActionKind)

	// Журнал согласован с балансами даже после второй мутации
	drifts, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

// TestLedgerInvariantUnderRandomOps гоняет случайную смесь операций
// и проверяет главный инвариант: балансы восстанавливаются из журнала,
// ни один счёт не ушёл в минус.
func TestLedgerInvariantUnderRandomOps(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cfg := testConfig()
	cfg.StealDailyMax = 1000000
	cfg.DailyGrantMax = 1000000
	cfg.EventSuccessChance = 0.5
	cfg.EventFailureChance = 0.5
	svc := newTestService(store, cfg)

	rng := rand.New(rand.NewSource(1))
	svc.roll = rng.Float64

	users := []int64{1, 2, 3, 4, 5}
	for _, u := range users {
		require.NoError(t, svc.CreateBalance(ctx, u))
	}

	for i := 0; i < 2000; i++ {
		from := users[rng.Intn(len(users))]
		to := users[rng.Intn(len(users))]
		amount := int64(rng.Intn(200) + 1)

		switch rng.Intn(4) {
		case 0:
			svc.GrantDaily(ctx, from)
		case 1:
			svc.Transfer(ctx, from, to, amount)
		case 2:
			svc.Steal(ctx, from, to, amount)
		case 3:
			svc.ApplyDelta(ctx, &LedgerEntry{
				UserID:     from,
				Delta:      amount - 100, // и плюсы, и минусы
				ActionKind: ActionBet,
				Success:    amount > 100,
			})
		}

		for _, u := range users {
			balance, err := store.GetBalance(ctx, u)
			require.NoError(t, err)
			require.GreaterOrEqual(t, balance, int64(0), "итерация %d", i)
		}
	}

	drifts, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestFormatHistoryMirrorsCounterpartDelta(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.balances[1] = 100
	svc := newTestService(store, testConfig())

	_, err := svc.Transfer(ctx, 1, 2, 40)
	require.NoError(t, err)

	// У отправителя операция отображается как −40
	senderHistory, err := svc.FormatHistory(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, senderHistory, "-40")

	// У получателя та же запись зеркалится в +40
	recipientHistory, err := svc.FormatHistory(ctx, 2)
	require.NoError(t, err)
	assert.Contains(t, recipientHistory, "+40")
}

func TestFormatHistorySpoilerAfterFive(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestService(store, testConfig())

	for i := 0; i < 8; i++ {
		_, err := svc.ApplyDelta(ctx, &LedgerEntry{
			UserID:     1,
			Delta:      10,
			ActionKind: ActionDaily,
			Success:    true,
		})
		require.NoError(t, err)
	}

	history, err := svc.FormatHistory(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, history, "||")
}
