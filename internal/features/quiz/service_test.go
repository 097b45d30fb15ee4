package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fludilka.ru/credits-bot/internal/common"
	"fludilka.ru/credits-bot/internal/config"
	"fludilka.ru/credits-bot/internal/features/credits"
	"fludilka.ru/credits-bot/internal/features/events"
	"fludilka.ru/credits-bot/internal/features/limits"
)

// fakeCompletions — отметки об отвеченных вопросах в памяти.
type fakeCompletions struct {
	done map[int64]map[int]bool
}

func newFakeCompletions() *fakeCompletions {
	return &fakeCompletions{done: make(map[int64]map[int]bool)}
}

func (f *fakeCompletions) MarkCompleted(_ context.Context, userID int64, questionID int, _ bool) error {
	if f.done[userID] == nil {
		f.done[userID] = make(map[int]bool)
	}
	f.done[userID][questionID] = true
	return nil
}

func (f *fakeCompletions) CompletedIDs(_ context.Context, userID int64) (map[int]bool, error) {
	out := make(map[int]bool)
	for id := range f.done[userID] {
		out[id] = true
	}
	return out, nil
}

// balanceStore — минимальный двойник хранилища экономики.
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
	panic("не используется викториной")
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

func newTestService(balance int64) (*Service, *balanceStore, *fakeCompletions) {
	cfg := &config.Config{
		QuizBaseSeconds:    10,
		QuizSecondsPerWord: 1,
	}
	store := &balanceStore{balances: map[int64]int64{1: balance}}
	creditsService := credits.NewService(
		store,
		limits.NewLimiter(nil),
		events.NewManager(nil, 0, 0), // криты в этих тестах не нужны
		cfg,
	)
	completions := newFakeCompletions()
	svc := NewService(completions, creditsService, NewSessionCache(), cfg)
	svc.pick = func(n int) int { return 0 } // детерминированный выбор вопроса
	return svc, store, completions
}

// indexOf возвращает индекс варианта с данным текстом.
func indexOf(q *Question, option string) int {
	for i, opt := range q.Options {
		if opt == option {
			return i
		}
	}
	return -1
}

// wrongIndex возвращает индекс любого неверного варианта.
func wrongIndex(q *Question) int {
	for i, opt := range q.Options {
		if opt != q.CorrectAnswer {
			return i
		}
	}
	return -1
}

func TestIssueFilters(t *testing.T) {
	svc, _, completions := newTestService(0)
	ctx := context.Background()

	// Несуществующая категория — вопросов нет вообще
	_, err := svc.Issue(ctx, 100, 1, Filter{Category: "спорт"})
	assert.ErrorIs(t, err, common.ErrNoQuestionsMatch)

	// Фильтр подходит — вопрос соответствует
	session, err := svc.Issue(ctx, 100, 1, Filter{Category: "кино", Difficulty: DifficultyEasy})
	require.NoError(t, err)
	assert.Equal(t, "кино", session.Question.Category)
	assert.Equal(t, DifficultyEasy, session.Question.Difficulty)
	assert.Positive(t, session.Budget)

	// Все подходящие вопросы отвечены — отдельная ошибка
	for _, q := range questionBank {
		if q.Category == "кино" {
			completions.MarkCompleted(ctx, 1, q.ID, true)
		}
	}
	_, err = svc.Issue(ctx, 100, 1, Filter{Category: "кино"})
	assert.ErrorIs(t, err, common.ErrQuestionsExhausted)
}

func TestIssueSkipsCompleted(t *testing.T) {
	svc, _, completions := newTestService(0)
	ctx := context.Background()

	first, err := svc.Issue(ctx, 100, 1, Filter{})
	require.NoError(t, err)
	completions.MarkCompleted(ctx, 1, first.Question.ID, true)

	second, err := svc.Issue(ctx, 100, 1, Filter{})
	require.NoError(t, err)
	assert.NotEqual(t, first.Question.ID, second.Question.ID)
}

func TestAnswerCorrectPays(t *testing.T) {
	svc, store, _ := newTestService(0)
	ctx := context.Background()

	session, err := svc.Issue(ctx, 100, 1, Filter{})
	require.NoError(t, err)
	svc.Attach(55, session)

	q := session.Question
	result, err := svc.Answer(ctx, 55, 1, indexOf(q, q.CorrectAnswer))
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, Reward(q.Difficulty), result.Delta)
	assert.Equal(t, Reward(q.Difficulty), result.NewBalance)

	require.Len(t, store.ledger, 1)
	assert.Equal(t, credits.ActionQuiz, store.ledger[0].ActionKind)
	assert.True(t, store.ledger[0].Success)
}

func TestAnswerWrongPenalizes(t *testing.T) {
	svc, store, _ := newTestService(500)
	ctx := context.Background()

	session, err := svc.Issue(ctx, 100, 1, Filter{})
	require.NoError(t, err)
	svc.Attach(55, session)

	q := session.Question
	result, err := svc.Answer(ctx, 55, 1, wrongIndex(q))
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.False(t, result.TooPoor)

	penalty := Penalty(q.Type, q.Difficulty)
	assert.Equal(t, -penalty, result.Delta)
	assert.Equal(t, 500-penalty, result.NewBalance)
	assert.False(t, store.ledger[0].Success)
}

func TestAnswerWrongTooPoorToPenalize(t *testing.T) {
	svc, store, _ := newTestService(1) // меньше любого штрафа
	ctx := context.Background()

	session, err := svc.Issue(ctx, 100, 1, Filter{})
	require.NoError(t, err)
	svc.Attach(55, session)

	result, err := svc.Answer(ctx, 55, 1, wrongIndex(session.Question))
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.True(t, result.TooPoor)
	assert.Zero(t, result.Delta)

	// Счёт не тронут, записей нет
	assert.Equal(t, int64(1), store.balances[1])
	assert.Empty(t, store.ledger)
}

func TestAnswerAfterDeadline(t *testing.T) {
	svc, store, completions := newTestService(100)
	ctx := context.Background()

	session, err := svc.Issue(ctx, 100, 1, Filter{})
	require.NoError(t, err)
	session.IssuedAt = time.Now().Add(-time.Hour) // дедлайн давно прошёл
	svc.Attach(55, session)

	result, err := svc.Answer(ctx, 55, 1, indexOf(session.Question, session.Question.CorrectAnswer))
	require.NoError(t, err)
	assert.True(t, result.TimedOut)
	assert.Zero(t, result.Delta)
	assert.Equal(t, int64(100), result.NewBalance)

	// Счёт не изменился, но вопрос сгорел
	assert.Empty(t, store.ledger)
	done, _ := completions.CompletedIDs(ctx, 1)
	assert.True(t, done[session.Question.ID])
}

func TestAnswerOnlyIssuerAndOnlyOnce(t *testing.T) {
	svc, _, _ := newTestService(0)
	ctx := context.Background()

	session, err := svc.Issue(ctx, 100, 1, Filter{})
	require.NoError(t, err)
	svc.Attach(55, session)

	correct := indexOf(session.Question, session.Question.CorrectAnswer)

	// Чужое нажатие игнорируется, сессия жива
	_, err = svc.Answer(ctx, 55, 2, correct)
	assert.ErrorIs(t, err, common.ErrSessionNotFound)

	// Автор отвечает
	_, err = svc.Answer(ctx, 55, 1, correct)
	require.NoError(t, err)

	// Повторное нажатие — сессия уже разрешена
	_, err = svc.Answer(ctx, 55, 1, correct)
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
}
