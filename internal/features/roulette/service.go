// Package roulette — service.go координирует один спин: валидация ставки,
// розыгрыш, проводка через журнал и критический оверлей.
package roulette

import (
	"context"
	"math/rand"

	log "github.com/sirupsen/logrus"

	"fludilka.ru/credits-bot/internal/common"
	"fludilka.ru/credits-bot/internal/config"
	"fludilka.ru/credits-bot/internal/features/credits"
	"fludilka.ru/credits-bot/internal/features/events"
)

// Service управляет рулеткой. Сам стол без состояния (wheel.go);
// сервису остаётся розыгрыш и проводка исхода через экономику.
type Service struct {
	creditsService *credits.Service
	cfg            *config.Config

	draw func() int // выпавшее число 0–36; подменяется в тестах
}

// NewService создаёт сервис рулетки.
func NewService(creditsService *credits.Service, cfg *config.Config) *Service {
	return &Service{
		creditsService: creditsService,
		cfg:            cfg,
		draw:           func() int { return rand.Intn(37) },
	}
}

// PlayResult — итог спина для обработчика.
type PlayResult struct {
	Spin         SpinResult
	Kind         BetKind
	BetSize      int64
	NewBalance   int64
	EventMessage string
}

// Play выполняет полный цикл спина.
//
// Предусловия: betSize ≥ минимальной ставки, kindText распознаваем.
// Недостаточный баланс отлавливает сама проводка (ErrInsufficientBalance):
// проверка и списание — одна транзакция, между ними никто не вклинится.
func (s *Service) Play(ctx context.Context, userID, betSize int64, kindText string) (*PlayResult, error) {
	kind, err := ParseBetKind(kindText)
	if err != nil {
		return nil, err
	}
	if betSize < s.cfg.RouletteMinBet {
		return nil, common.ErrInvalidAmount
	}

	// Балансовая проверка до розыгрыша, чтобы не крутить колесо нищему.
	// Окончательное слово — за транзакцией проводки.
	balance, err := s.creditsService.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < betSize {
		return nil, common.ErrInsufficientBalance
	}

	spin := Evaluate(s.draw(), kind, betSize)

	kindStr := string(kind)
	newBalance, err := s.creditsService.ApplyDelta(ctx, &credits.LedgerEntry{
		UserID:     userID,
		Delta:      spin.Delta,
		ActionKind: credits.ActionBet,
		BetKind:    &kindStr,
		Success:    spin.Win,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"bet":     betSize,
		"kind":    kind,
		"number":  spin.Number,
		"win":     spin.Win,
	}).Info("Спин рулетки")

	result := &PlayResult{
		Spin:       spin,
		Kind:       kind,
		BetSize:    betSize,
		NewBalance: newBalance,
	}

	// Критический оверлей — добавочная вторая мутация поверх исхода.
	// Сумма-триггер: выигрыш при победе, ставка при проигрыше.
	amount := spin.Delta
	if amount < 0 {
		amount = -amount
	}
	result.EventMessage, result.NewBalance = s.creditsService.ApplyCritical(
		ctx, userID, events.CategoryBet, spin.Win, amount, newBalance)

	return result, nil
}
