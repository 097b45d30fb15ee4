// Package credits — handlers.go обрабатывает команды:
// !кредиты (баланс), !дейли (ежедневные), !отсыпать (перевод),
// !украсть (кража), !операции (история), !топ / !топставки / !топворы.
package credits

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
	"fludilka.ru/credits-bot/internal/features/members"
)

// Handler обрабатывает команды экономики.
type Handler struct {
	service       *Service
	memberService *members.Service
	bot           *tgbotapi.BotAPI
	suspense      time.Duration // пауза перед объявлением исхода кражи
}

// NewHandler создаёт новый обработчик экономических команд.
func NewHandler(service *Service, memberService *members.Service, bot *tgbotapi.BotAPI, suspense time.Duration) *Handler {
	return &Handler{
		service:       service,
		memberService: memberService,
		bot:           bot,
		suspense:      suspense,
	}
}

// HandleBalance обрабатывает команду !кредиты — показывает баланс.
func (h *Handler) HandleBalance(ctx context.Context, chatID, userID int64) {
	balance, err := h.service.GetBalance(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения баланса")
		h.sendMessage(chatID, "❌ Ошибка получения баланса")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("💰 Баланс: %s", common.FormatCredits(balance)))
}

// HandleDaily обрабатывает команду !дейли — ежедневная раздача.
//
// Формат ответа:
//
//	🎲 Сегодня повезло 🍀: +100 кредитов
//	💰 Баланс: 350 кредитов
func (h *Handler) HandleDaily(ctx context.Context, chatID, userID int64) {
	result, err := h.service.GrantDaily(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrDailyLimitReached) {
			h.sendMessage(chatID, "⏳ Ежедневные кредиты уже забраны. Приходи завтра!")
			return
		}
		log.WithError(err).Error("Ошибка ежедневной раздачи")
		h.sendMessage(chatID, "❌ Ошибка начисления ежедневных кредитов")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf(
		"🎲 Сегодня %s: %s\n💰 Баланс: %s",
		result.Tier.Name(),
		common.FormatSignedCredits(result.Payout),
		common.FormatCredits(result.NewBalance),
	))
}

// HandleTransfer обрабатывает команду !отсыпать @username 100.
func (h *Handler) HandleTransfer(ctx context.Context, chatID, fromUserID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "❌ Формат: !отсыпать @username сумма")
		return
	}

	recipient, amount, ok := h.parseTarget(ctx, chatID, args)
	if !ok {
		return
	}

	newBalance, err := h.service.Transfer(ctx, fromUserID, recipient.UserID, amount)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrSelfTransfer):
			h.sendMessage(chatID, "❌ Самому себе отсыпать нельзя")
		case errors.Is(err, common.ErrInsufficientBalance):
			h.sendMessage(chatID, "❌ Недостаточно кредитов для перевода")
		case errors.Is(err, common.ErrInvalidAmount):
			h.sendMessage(chatID, "❌ Сумма должна быть положительной")
		default:
			log.WithError(err).Error("Ошибка перевода")
			h.sendMessage(chatID, "❌ Ошибка перевода")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf(
		"✅ Переведено %s %s\n💰 Твой баланс: %s",
		common.FormatCredits(amount),
		recipient.DisplayName(),
		common.FormatCredits(newBalance),
	))
}

// HandleSteal обрабатывает команду !украсть @username 100.
// Пауза «саспенса» — чистая подача: никакие блокировки и транзакции
// на время паузы не держатся.
func (h *Handler) HandleSteal(ctx context.Context, chatID, thiefID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "❌ Формат: !украсть @username сумма")
		return
	}

	victim, amount, ok := h.parseTarget(ctx, chatID, args)
	if !ok {
		return
	}

	// Быстрая проверка предусловий до саспенса, чтобы не нагнетать зря
	if err := h.service.ValidateSteal(ctx, thiefID, victim.UserID, amount); err != nil {
		h.sendStealRejection(chatID, victim, err)
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("🔪 Подбираемся к карманам %s...", victim.DisplayName()))
	if h.suspense > 0 {
		select {
		case <-time.After(h.suspense):
		case <-ctx.Done():
			return
		}
	}

	result, err := h.service.Steal(ctx, thiefID, victim.UserID, amount)
	if err != nil {
		if errors.Is(err, common.ErrDailyLimitReached) {
			h.sendMessage(chatID, "⏳ Лимит краж на сегодня исчерпан. Завтра карманы снова наполнятся")
			return
		}
		h.sendStealRejection(chatID, victim, err)
		return
	}

	var sb strings.Builder
	if result.Success {
		sb.WriteString(fmt.Sprintf("🧤 Удача! Украдено %s у %s",
			common.FormatCredits(result.Amount), victim.DisplayName()))
	} else {
		sb.WriteString(fmt.Sprintf("🚔 Провал! %s заметил тебя, кража не удалась",
			victim.DisplayName()))
	}
	if result.EventMessage != "" {
		sb.WriteString("\n" + result.EventMessage)
	}
	sb.WriteString(fmt.Sprintf("\n💰 Баланс: %s", common.FormatCredits(result.NewBalance)))

	h.sendMessage(chatID, sb.String())
}

// sendStealRejection переводит бизнес-отказ кражи в сообщение чата.
func (h *Handler) sendStealRejection(chatID int64, victim *members.Member, err error) {
	switch {
	case errors.Is(err, common.ErrSelfSteal):
		h.sendMessage(chatID, "❌ У самого себя красть бессмысленно")
	case errors.Is(err, common.ErrVictimBroke):
		h.sendMessage(chatID, fmt.Sprintf("❌ У %s пустой счёт, красть нечего", victim.DisplayName()))
	case errors.Is(err, common.ErrStealTooGreedy):
		h.sendMessage(chatID, "❌ Нельзя украсть больше, чем есть у жертвы")
	case errors.Is(err, common.ErrInvalidAmount):
		h.sendMessage(chatID, "❌ Сумма должна быть положительной")
	case errors.Is(err, common.ErrInsufficientBalance):
		h.sendMessage(chatID, "❌ Жертва успела спрятать кредиты, кража сорвалась")
	default:
		log.WithError(err).Error("Ошибка кражи")
		h.sendMessage(chatID, "❌ Ошибка при попытке кражи")
	}
}

// HandleHistory обрабатывает команду !операции — история операций.
func (h *Handler) HandleHistory(ctx context.Context, chatID, userID int64) {
	text, err := h.service.FormatHistory(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения истории")
		h.sendMessage(chatID, "❌ Ошибка получения истории операций")
		return
	}
	h.sendMessage(chatID, text)
}

// HandleTopBalances обрабатывает команду !топ — топ по балансу.
func (h *Handler) HandleTopBalances(ctx context.Context, chatID int64) {
	rows, err := h.service.TopBalances(ctx)
	h.sendLeaderboard(chatID, "🏆 ТОП БОГАЧЕЙ", rows, err)
}

// HandleTopWagered обрабатывает команду !топставки — топ по сумме ставок.
func (h *Handler) HandleTopWagered(ctx context.Context, chatID int64) {
	rows, err := h.service.TopWagered(ctx)
	h.sendLeaderboard(chatID, "🎰 ТОП ИГРОКОВ", rows, err)
}

// HandleTopStolen обрабатывает команду !топворы — топ по украденному.
func (h *Handler) HandleTopStolen(ctx context.Context, chatID int64) {
	rows, err := h.service.TopStolen(ctx)
	h.sendLeaderboard(chatID, "🥷 ТОП ВОРОВ", rows, err)
}

func (h *Handler) sendLeaderboard(chatID int64, title string, rows []LeaderboardRow, err error) {
	if err != nil {
		log.WithError(err).Error("Ошибка запроса топа")
		h.sendMessage(chatID, "❌ Ошибка запроса топа")
		return
	}
	if len(rows) == 0 {
		h.sendMessage(chatID, "📋 Пока пусто — некого показывать")
		return
	}

	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	for i, row := range rows {
		sb.WriteString(fmt.Sprintf("%d. %s — %s\n",
			i+1, row.DisplayName, common.FormatCredits(row.Amount)))
	}
	h.sendMessage(chatID, sb.String())
}

// parseTarget разбирает пару аргументов (@username, сумма) и находит
// получателя в базе участников.
func (h *Handler) parseTarget(ctx context.Context, chatID int64, args []string) (*members.Member, int64, bool) {
	username := strings.TrimPrefix(args[0], "@")
	if username == "" {
		h.sendMessage(chatID, "❌ Укажите @username")
		return nil, 0, false
	}

	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		h.sendMessage(chatID, "❌ Сумма должна быть положительным числом")
		return nil, 0, false
	}

	target, err := h.memberService.GetByUsername(ctx, username)
	if err != nil {
		h.sendMessage(chatID, "❌ Пользователь не найден")
		return nil, 0, false
	}
	return target, amount, true
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
