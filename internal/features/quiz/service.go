package quiz

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"fludilka.ru/credits-bot/internal/common"
	"fludilka.ru/credits-bot/internal/config"
	"fludilka.ru/credits-bot/internal/features/credits"
	"fludilka.ru/credits-bot/internal/features/events"
)

// CompletionStore — хранилище отметок об отвеченных вопросах.
// В проде — Repository на Postgres, в тестах — мапа в памяти.
type CompletionStore interface {
	MarkCompleted(ctx context.Context, userID int64, questionID int, correct bool) error
	CompletedIDs(ctx context.Context, userID int64) (map[int]bool, error)
}

// Service — выдача вопросов и разбор ответов.
type Service struct {
	store   CompletionStore
	credits *credits.Service
	cache   *SessionCache
	cfg     *config.Config

	mu   sync.Mutex
	pick func(n int) int // индекс случайного вопроса, подменяется в тестах
}

func NewService(store CompletionStore, creditsService *credits.Service, cache *SessionCache, cfg *config.Config) *Service {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Service{
		store:   store,
		credits: creditsService,
		cache:   cache,
		cfg:     cfg,
		pick:    rng.Intn,
	}
}

// Issue подбирает вопрос под фильтры и заводит сессию. Сессия ещё не
// привязана к сообщению — Attach вызывается после отправки кнопок.
// Вопросы, на которые пользователь уже отвечал, не выдаются повторно.
func (s *Service) Issue(ctx context.Context, chatID, userID int64, filter Filter) (*Session, error) {
	var matched []*Question
	for i := range questionBank {
		if filter.Matches(&questionBank[i]) {
			matched = append(matched, &questionBank[i])
		}
	}
	if len(matched) == 0 {
		return nil, common.ErrNoQuestionsMatch
	}

	done, err := s.store.CompletedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	var fresh []*Question
	for _, q := range matched {
		if !done[q.ID] {
			fresh = append(fresh, q)
		}
	}
	if len(fresh) == 0 {
		return nil, common.ErrQuestionsExhausted
	}

	s.mu.Lock()
	q := fresh[s.pick(len(fresh))]
	s.mu.Unlock()

	session := &Session{
		ChatID:   chatID,
		UserID:   userID,
		Question: q,
		IssuedAt: time.Now(),
		Budget:   AnswerBudget(q.Text, s.cfg.QuizBaseSeconds, s.cfg.QuizSecondsPerWord),
	}

	log.WithFields(log.Fields{
		"user_id":     userID,
		"question_id": q.ID,
		"difficulty":  q.Difficulty,
		"budget":      session.Budget,
	}).Info("Выдан вопрос викторины")

	return session, nil
}

// Attach привязывает сессию к отправленному сообщению с кнопками.
func (s *Service) Attach(messageID int, session *Session) {
	s.cache.Put(messageID, session)
}

// AnswerResult — исход разбора ответа.
type AnswerResult struct {
	Question     *Question
	Correct      bool
	TimedOut     bool
	TooPoor      bool // штраф не применён: на счету меньше штрафа
	Delta        int64
	NewBalance   int64
	EventMessage string
	Elapsed      time.Duration
	Budget       time.Duration
}

// Answer разбирает нажатие кнопки. Возвращает ErrSessionNotFound, если
// сессии нет или нажал не автор — обработчик молча игнорирует такие
// нажатия. Ответивший с опозданием ничего не теряет и не получает,
// но вопрос считается использованным.
func (s *Service) Answer(ctx context.Context, messageID int, userID int64, optionIndex int) (*AnswerResult, error) {
	session := s.cache.Resolve(messageID, userID)
	if session == nil {
		return nil, common.ErrSessionNotFound
	}

	q := session.Question
	elapsed := time.Since(session.IssuedAt)

	result := &AnswerResult{Question: q, Elapsed: elapsed, Budget: session.Budget}

	if elapsed > session.Budget {
		result.TimedOut = true
		s.markCompleted(ctx, userID, q.ID, false)
		balance, err := s.credits.GetBalance(ctx, userID)
		if err != nil {
			return nil, err
		}
		result.NewBalance = balance
		log.WithFields(log.Fields{
			"user_id":     userID,
			"question_id": q.ID,
			"elapsed":     elapsed,
			"budget":      session.Budget,
		}).Info("Ответ после дедлайна")
		return result, nil
	}

	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return nil, common.ErrSessionNotFound
	}
	answer := q.Options[optionIndex]
	result.Correct = answer == q.CorrectAnswer
	s.markCompleted(ctx, userID, q.ID, result.Correct)

	if result.Correct {
		payout := Reward(q.Difficulty)
		newBalance, err := s.credits.ApplyDelta(ctx, &credits.LedgerEntry{
			UserID:     userID,
			Delta:      payout,
			ActionKind: credits.ActionQuiz,
			Success:    true,
		})
		if err != nil {
			return nil, err
		}
		result.Delta = payout
		result.NewBalance = newBalance
		result.EventMessage, result.NewBalance = s.credits.ApplyCritical(ctx, userID, events.CategoryQuiz, true, payout, newBalance)
		return result, nil
	}

	penalty := Penalty(q.Type, q.Difficulty)
	newBalance, err := s.credits.ApplyDelta(ctx, &credits.LedgerEntry{
		UserID:     userID,
		Delta:      -penalty,
		ActionKind: credits.ActionQuiz,
		Success:    false,
	})
	if err != nil {
		if errors.Is(err, common.ErrInsufficientBalance) {
			// Штрафовать нечем: счёт не трогаем, но вопрос сгорел.
			result.TooPoor = true
			balance, berr := s.credits.GetBalance(ctx, userID)
			if berr != nil {
				return nil, berr
			}
			result.NewBalance = balance
			return result, nil
		}
		return nil, err
	}
	result.Delta = -penalty
	result.NewBalance = newBalance
	result.EventMessage, result.NewBalance = s.credits.ApplyCritical(ctx, userID, events.CategoryQuiz, false, penalty, newBalance)
	return result, nil
}

func (s *Service) markCompleted(ctx context.Context, userID int64, questionID int, correct bool) {
	if err := s.store.MarkCompleted(ctx, userID, questionID, correct); err != nil {
		log.WithError(err).WithField("question_id", questionID).Error("Не удалось пометить вопрос отвеченным")
	}
}

// Sweep выбрасывает заброшенные сессии. Дёргается планировщиком.
func (s *Service) Sweep(maxAge time.Duration) {
	if removed := s.cache.Sweep(maxAge); removed > 0 {
		log.WithField("removed", removed).Info("Убраны заброшенные сессии викторины")
	}
}
