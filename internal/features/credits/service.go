// Package credits — service.go содержит бизнес-логику экономики:
// ежедневная раздача, переводы, кражи, топы, сверка журнала.
//
// Все мутации счетов проходят через Store; сервис не держит балансы в памяти
// и не разделяет проверку и применение — атомарность обеспечивает хранилище.
package credits

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	log "github.com/sirupsen/logrus"

	"fludilka.ru/credits-bot/internal/common"
	"fludilka.ru/credits-bot/internal/config"
	"fludilka.ru/credits-bot/internal/features/events"
	"fludilka.ru/credits-bot/internal/features/limits"
)

// Store — хранилище счетов и журнала. Реализуется *Repository (PostgreSQL);
// в тестах подменяется на in-memory двойник, чтобы проверять инварианты
// экономики без БД.
type Store interface {
	EnsureBalance(ctx context.Context, userID int64) error
	GetBalance(ctx context.Context, userID int64) (int64, error)
	ApplyDelta(ctx context.Context, entry *LedgerEntry) (int64, error)
	ApplyPair(ctx context.Context, entry *LedgerEntry) (int64, int64, error)
	RecentEntries(ctx context.Context, userID int64, limit int) ([]*LedgerEntry, error)
	TopBalances(ctx context.Context, limit int) ([]LeaderboardRow, error)
	TopWagered(ctx context.Context, limit int) ([]LeaderboardRow, error)
	TopStolen(ctx context.Context, limit int) ([]LeaderboardRow, error)
	Reconcile(ctx context.Context) ([]Drift, error)
}

// LeaderboardSize — сколько строк показываем в любом топе.
const LeaderboardSize = 10

// Service управляет экономикой бота.
type Service struct {
	store   Store
	limiter *limits.Limiter
	events  *events.Manager
	cfg     *config.Config

	roll func() float64 // подменяется в тестах
}

// NewService создаёт сервис экономики.
func NewService(store Store, limiter *limits.Limiter, eventManager *events.Manager, cfg *config.Config) *Service {
	return &Service{
		store:   store,
		limiter: limiter,
		events:  eventManager,
		cfg:     cfg,
		roll:    rand.Float64,
	}
}

// GetBalance возвращает текущий баланс пользователя (0 для новичка).
func (s *Service) GetBalance(ctx context.Context, userID int64) (int64, error) {
	return s.store.GetBalance(ctx, userID)
}

// CreateBalance открывает счёт для нового участника (0 кредитов).
func (s *Service) CreateBalance(ctx context.Context, userID int64) error {
	return s.store.EnsureBalance(ctx, userID)
}

// ApplyDelta применяет знаковое изменение счёта и пишет журнал.
// Используется другими сервисами (рулетка, викторина) и админкой.
func (s *Service) ApplyDelta(ctx context.Context, entry *LedgerEntry) (int64, error) {
	return s.store.ApplyDelta(ctx, entry)
}

// DailyResult — исход ежедневной раздачи.
type DailyResult struct {
	Tier       LuckTier
	Payout     int64
	NewBalance int64
}

// GrantDaily выдаёт ежедневные кредиты.
// Тир детерминирован парой (пользователь, день по Москве) — см. luck.go;
// лимит раздач в день контролирует Limiter.
func (s *Service) GrantDaily(ctx context.Context, userID int64) (*DailyResult, error) {
	if !s.limiter.TryConsume(userID, limits.CategoryDailyGrant) {
		return nil, common.ErrDailyLimitReached
	}

	tier := DailyTier(userID, common.GetMoscowDate())
	payout := tier.Payout()

	newBalance, err := s.store.ApplyDelta(ctx, &LedgerEntry{
		UserID:     userID,
		Delta:      payout,
		ActionKind: ActionDaily,
		Success:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка начисления ежедневных кредитов: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"tier":    int(tier),
		"payout":  payout,
	}).Info("Ежедневные кредиты выданы")

	return &DailyResult{Tier: tier, Payout: payout, NewBalance: newBalance}, nil
}

// Transfer переводит кредиты от одного участника к другому.
// Атомарно: либо оба счёта изменятся, либо ни одного.
func (s *Service) Transfer(ctx context.Context, fromUserID, toUserID, amount int64) (int64, error) {
	if fromUserID == toUserID {
		return 0, common.ErrSelfTransfer
	}
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}

	target := toUserID
	fromBalance, _, err := s.store.ApplyPair(ctx, &LedgerEntry{
		UserID:       fromUserID,
		TargetUserID: &target,
		Delta:        -amount,
		ActionKind:   ActionTransfer,
		Success:      true,
	})
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"from":   fromUserID,
		"to":     toUserID,
		"amount": amount,
	}).Info("Перевод выполнен")

	return fromBalance, nil
}

// StealResult — исход попытки кражи.
type StealResult struct {
	Success      bool
	Amount       int64
	Chance       float64 // вероятность, с которой бросали кубик
	NewBalance   int64   // баланс вора после всего
	EventMessage string  // текст критического события, если сработало
}

// ValidateSteal проверяет предусловия кражи, ничего не меняя.
// Отдельный шаг, чтобы отказ (пустой счёт жертвы, жадность) не тратил
// дневной лимит и не оставлял записей в журнале.
func (s *Service) ValidateSteal(ctx context.Context, thiefID, victimID, amount int64) error {
	if thiefID == victimID {
		return common.ErrSelfSteal
	}
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	victimBalance, err := s.store.GetBalance(ctx, victimID)
	if err != nil {
		return err
	}
	if victimBalance <= 0 {
		return common.ErrVictimBroke
	}
	if amount > victimBalance {
		return common.ErrStealTooGreedy
	}
	return nil
}

// Steal — попытка украсть amount кредитов у victimID.
//
// Вероятность успеха считает StealChance (строго убывает с долей от счёта
// жертвы). Неудачная попытка тоже попадает в журнал (delta=0, success=false).
// Финальную защиту от ухода жертвы в минус даёт хранилище: даже если баланс
// жертвы упал между проверкой и применением, транзакция откатится.
func (s *Service) Steal(ctx context.Context, thiefID, victimID, amount int64) (*StealResult, error) {
	if err := s.ValidateSteal(ctx, thiefID, victimID, amount); err != nil {
		return nil, err
	}
	if !s.limiter.TryConsume(thiefID, limits.CategorySteal) {
		return nil, common.ErrDailyLimitReached
	}

	victimBalance, err := s.store.GetBalance(ctx, victimID)
	if err != nil {
		return nil, err
	}
	chance := StealChance(amount, victimBalance, s.cfg.StealMaxChance)
	success := s.roll() < chance

	target := victimID
	result := &StealResult{Amount: amount, Chance: chance, Success: success}

	if success {
		thiefBalance, _, err := s.store.ApplyPair(ctx, &LedgerEntry{
			UserID:       thiefID,
			TargetUserID: &target,
			Delta:        amount,
			ActionKind:   ActionSteal,
			Success:      true,
		})
		if err != nil {
			// Жертва успела обеднеть — кража срывается целиком
			return nil, err
		}
		result.NewBalance = thiefBalance
	} else {
		// Попытка логируется, счёта не меняются
		balance, err := s.store.ApplyDelta(ctx, &LedgerEntry{
			UserID:       thiefID,
			TargetUserID: &target,
			Delta:        0,
			ActionKind:   ActionSteal,
			Success:      false,
		})
		if err != nil {
			return nil, err
		}
		result.NewBalance = balance
	}

	log.WithFields(log.Fields{
		"thief":   thiefID,
		"victim":  victimID,
		"amount":  amount,
		"chance":  chance,
		"success": success,
	}).Info("Попытка кражи")

	// Критическое событие — добавочная вторая мутация поверх исхода
	result.EventMessage, result.NewBalance = s.applyCritical(
		ctx, thiefID, events.CategorySteal, success, amount, result.NewBalance)

	return result, nil
}

// applyCritical бросает кубик крита и, если выпало, применяет эффект
// события отдельной записью журнала (action_kind=event).
// Штрафное событие, на которое не хватает баланса, пропускается: сам
// базовый исход уже зафиксирован, а уводить счёт в минус нельзя.
func (s *Service) applyCritical(ctx context.Context, userID int64, category events.Category, success bool, amount, balance int64) (string, int64) {
	ev := s.events.Maybe(category, success)
	if ev == nil {
		return "", balance
	}

	delta, message := events.ApplyEffect(ev, amount)
	if delta == 0 {
		return message, balance
	}

	newBalance, err := s.store.ApplyDelta(ctx, &LedgerEntry{
		UserID:     userID,
		Delta:      delta,
		ActionKind: ActionEvent,
		Success:    delta > 0,
	})
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Критическое событие не применено")
		return "", balance
	}
	return message, newBalance
}

// ApplyCritical — критический оверлей для других сервисов (рулетка, викторина).
// Возвращает текст события (пустой, если не сработало) и актуальный баланс.
func (s *Service) ApplyCritical(ctx context.Context, userID int64, category events.Category, success bool, amount, balance int64) (string, int64) {
	return s.applyCritical(ctx, userID, category, success, amount, balance)
}

// FormatHistory возвращает форматированную историю операций пользователя.
// Последние 10 записей. Если больше 5 — хвост оборачивается в спойлер.
func (s *Service) FormatHistory(ctx context.Context, userID int64) (string, error) {
	entries, err := s.store.RecentEntries(ctx, userID, 10)
	if err != nil {
		return "", err
	}

	if len(entries) == 0 {
		return "📋 У вас пока нет операций", nil
	}

	var lines []string
	for i, e := range entries {
		// Дельта с точки зрения запрашивающего: зеркалим, если он контрагент
		delta := e.Delta
		if e.UserID != userID {
			delta = -delta
		}
		lines = append(lines, fmt.Sprintf("%d. %s | %s | %s",
			i+1,
			common.FormatDateTime(e.CreatedAt),
			common.FormatSignedCredits(delta),
			actionLabel(e),
		))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Последние %d операций:\n\n", len(lines)))

	if len(lines) > 5 {
		for _, line := range lines[:5] {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n||")
		for _, line := range lines[5:] {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("||")
	} else {
		for _, line := range lines {
			sb.WriteString(line + "\n")
		}
	}

	return sb.String(), nil
}

// actionLabel — короткая русская подпись операции для истории.
func actionLabel(e *LedgerEntry) string {
	switch e.ActionKind {
	case ActionDaily:
		return "ежедневные"
	case ActionBet:
		if e.BetKind != nil {
			return "рулетка (" + *e.BetKind + ")"
		}
		return "рулетка"
	case ActionSteal:
		if e.Success {
			return "кража"
		}
		return "кража (провал)"
	case ActionQuiz:
		return "викторина"
	case ActionTransfer:
		return "перевод"
	case ActionEvent:
		return "критическое событие"
	case ActionAdmin:
		return "корректировка"
	default:
		return string(e.ActionKind)
	}
}

// TopBalances / TopWagered / TopStolen — топы для команд чата.
func (s *Service) TopBalances(ctx context.Context) ([]LeaderboardRow, error) {
	return s.store.TopBalances(ctx, LeaderboardSize)
}

func (s *Service) TopWagered(ctx context.Context) ([]LeaderboardRow, error) {
	return s.store.TopWagered(ctx, LeaderboardSize)
}

func (s *Service) TopStolen(ctx context.Context) ([]LeaderboardRow, error) {
	return s.store.TopStolen(ctx, LeaderboardSize)
}

// Reconcile сверяет балансы с журналом и логирует расхождения.
// Возвращает список расхождений (пустой — всё сходится).
func (s *Service) Reconcile(ctx context.Context) ([]Drift, error) {
	drifts, err := s.store.Reconcile(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка сверки журнала: %w", err)
	}
	for _, d := range drifts {
		log.WithFields(log.Fields{
			"user_id":     d.UserID,
			"stored":      d.Stored,
			"from_ledger": d.FromLedger,
		}).Error("Расхождение баланса с журналом")
	}
	return drifts, nil
}
