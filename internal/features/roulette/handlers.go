// Package roulette — handlers.go обрабатывает команду !рулетка.
package roulette

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fludilka.ru/credits-bot/internal/common"
)

// Handler обрабатывает команды рулетки.
type Handler struct {
	service  *Service
	bot      *tgbotapi.BotAPI
	suspense time.Duration // пауза перед объявлением исхода
}

// NewHandler создаёт обработчик рулетки.
func NewHandler(service *Service, bot *tgbotapi.BotAPI, suspense time.Duration) *Handler {
	return &Handler{service: service, bot: bot, suspense: suspense}
}

// HandlePlay обрабатывает команду !рулетка <сумма> <ставка>.
//
// Формат ответа:
//
//	🎡 Шарик крутится...
//	🔴 Выпало 23!
//	💰 Выигрыш: +100 кредитов
//	📊 Баланс: 250 кредитов
//
// Пауза «саспенса» — подача; на её время не держится ни одна блокировка
// и ни одна транзакция.
func (h *Handler) HandlePlay(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "❌ Формат: !рулетка <сумма> <красное|чёрное|зеро|чет|нечет|больше|меньше>")
		return
	}

	betSize, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || betSize <= 0 {
		h.sendMessage(chatID, "❌ Ставка должна быть положительным числом")
		return
	}

	// Валидация типа ставки до саспенса: мимо кассы — мимо паузы
	if _, err := ParseBetKind(args[1]); err != nil {
		h.sendMessage(chatID, "❌ Неизвестный тип ставки. Варианты: красное, чёрное, зеро, чет, нечет, больше, меньше")
		return
	}

	h.sendMessage(chatID, "🎡 Шарик крутится...")
	if h.suspense > 0 {
		select {
		case <-time.After(h.suspense):
		case <-ctx.Done():
			return
		}
	}

	result, err := h.service.Play(ctx, userID, betSize, args[1])
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInsufficientBalance):
			h.sendMessage(chatID, "❌ Недостаточно кредитов для такой ставки")
		case errors.Is(err, common.ErrInvalidAmount):
			h.sendMessage(chatID, fmt.Sprintf("❌ Минимальная ставка — %s",
				common.FormatCredits(h.service.cfg.RouletteMinBet)))
		case errors.Is(err, common.ErrUnknownBetKind):
			h.sendMessage(chatID, "❌ Неизвестный тип ставки")
		default:
			log.WithError(err).Error("Ошибка спина рулетки")
			h.sendMessage(chatID, "❌ Ошибка при игре в рулетку")
		}
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s Выпало %d!\n", result.Spin.Color.Emoji(), result.Spin.Number))
	if result.Spin.Win {
		sb.WriteString(fmt.Sprintf("💰 Ставка на %s сыграла: %s\n",
			result.Kind.Name(), common.FormatSignedCredits(result.Spin.Delta)))
	} else {
		sb.WriteString(fmt.Sprintf("💸 Ставка на %s не сыграла: %s\n",
			result.Kind.Name(), common.FormatSignedCredits(result.Spin.Delta)))
	}
	if result.EventMessage != "" {
		sb.WriteString(result.EventMessage + "\n")
	}
	sb.WriteString(fmt.Sprintf("📊 Баланс: %s", common.FormatCredits(result.NewBalance)))

	h.sendMessage(chatID, sb.String())
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
