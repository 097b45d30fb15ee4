// Package admin — handlers.go обрабатывает взаимодействие с админ-панелью.
// Панель работает через Reply Keyboard в личных сообщениях.
// Поток: аутентификация → клавиатура → выбор действия → ввод получателя и суммы.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fludilka.ru/credits-bot/internal/common"
	"fludilka.ru/credits-bot/internal/features/members"
)

// Кнопки клавиатуры админ-панели.
const (
	buttonGrant     = "Выдать кредиты"
	buttonRevoke    = "Забрать кредиты"
	buttonReconcile = "Сверка"
	buttonLogout    = "Выйти"
)

// Handler обрабатывает админ-команды.
type Handler struct {
	service       *Service
	memberService *members.Service
	bot           *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик админ-панели.
func NewHandler(service *Service, memberService *members.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{
		service:       service,
		memberService: memberService,
		bot:           bot,
	}
}

// HandleAdminMessage обрабатывает любое сообщение от администратора в DM.
// Определяет текущее состояние диалога и маршрутизирует сообщение.
// Возвращает false, если сообщение не относится к админ-панели.
func (h *Handler) HandleAdminMessage(ctx context.Context, chatID int64, userID int64, text string) bool {
	if !h.service.cfg.IsAdmin(userID) {
		return false
	}

	// Проверяем состояние диалога
	state := h.service.GetState(userID)

	// Обрабатываем состояние ожидания пароля
	if state != nil && state.State == StateAwaitingPassword {
		h.handlePasswordInput(ctx, chatID, userID, text)
		return true
	}

	// Проверяем активную сессию
	if !h.service.HasActiveSession(ctx, userID) {
		// Нет сессии — запрашиваем пароль
		h.sendMessage(chatID, "🔐 Введите пароль для доступа к админ-панели:")
		h.service.SetState(userID, StateAwaitingPassword)
		return true
	}

	// Обновляем активность сессии
	h.service.repo.UpdateActivity(ctx, userID)

	// Обрабатываем текущее состояние
	if state != nil {
		switch state.State {
		case StateGrantInput:
			h.handleAmountInput(ctx, chatID, userID, text, true)
			return true
		case StateRevokeInput:
			h.handleAmountInput(ctx, chatID, userID, text, false)
			return true
		}
	}

	// Обрабатываем кнопки клавиатуры
	switch text {
	case buttonGrant:
		h.sendMessage(chatID, "Кому и сколько выдать? Формат: @username сумма")
		h.service.SetState(userID, StateGrantInput)
		return true
	case buttonRevoke:
		h.sendMessage(chatID, "У кого и сколько забрать? Формат: @username сумма")
		h.service.SetState(userID, StateRevokeInput)
		return true
	case buttonReconcile:
		h.handleReconcile(ctx, chatID)
		return true
	case buttonLogout:
		h.service.Logout(ctx, userID)
		h.service.ClearState(userID)
		h.sendMessage(chatID, "👋 Сессия завершена")
		return true
	case "Админ", "Панель", "админ", "панель":
		h.showKeyboard(chatID)
		return true
	}

	return false
}

// handlePasswordInput обрабатывает ввод пароля.
func (h *Handler) handlePasswordInput(ctx context.Context, chatID int64, userID int64, password string) {
	err := h.service.VerifyPassword(ctx, userID, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrTooManyAttempts):
			h.sendMessage(chatID, "❌ Слишком много попыток, подождите час")
		case errors.Is(err, common.ErrWrongPassword):
			h.sendMessage(chatID, "❌ Неверный пароль")
		default:
			log.WithError(err).Error("Ошибка проверки пароля")
			h.sendMessage(chatID, "❌ Ошибка аутентификации")
		}
		h.service.ClearState(userID)
		return
	}

	h.service.ClearState(userID)
	h.sendMessage(chatID, "✅ Аутентификация успешна!")
	h.showKeyboard(chatID)
}

// showKeyboard отображает клавиатуру админ-панели.
func (h *Handler) showKeyboard(chatID int64) {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonGrant),
			tgbotapi.NewKeyboardButton(buttonRevoke),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonReconcile),
			tgbotapi.NewKeyboardButton(buttonLogout),
		),
	)

	msg := tgbotapi.NewMessage(chatID, "✅ Админ-панель открыта")
	msg.ReplyMarkup = keyboard
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки клавиатуры")
	}
}

// handleAmountInput разбирает "@username сумма" и выполняет выдачу или списание.
func (h *Handler) handleAmountInput(ctx context.Context, chatID int64, adminID int64, text string, grant bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) != 2 {
		h.sendMessage(chatID, "❌ Формат: @username сумма. Попробуйте ещё раз.")
		return
	}

	username := strings.TrimPrefix(fields[0], "@")
	amount, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || amount <= 0 {
		h.sendMessage(chatID, "❌ Сумма должна быть положительным числом")
		return
	}

	target, err := h.memberService.GetByUsername(ctx, username)
	if err != nil {
		h.sendMessage(chatID, "❌ Пользователь не найден")
		return
	}

	var newBalance int64
	if grant {
		newBalance, err = h.service.Grant(ctx, adminID, target.UserID, amount)
	} else {
		newBalance, err = h.service.Revoke(ctx, adminID, target.UserID, amount)
	}
	if err != nil {
		if errors.Is(err, common.ErrInsufficientBalance) {
			h.sendMessage(chatID, "❌ На счету меньше, чем вы хотите списать")
		} else {
			log.WithError(err).Error("Ошибка админ-операции")
			h.sendMessage(chatID, fmt.Sprintf("❌ Ошибка: %s", err.Error()))
		}
		h.service.ClearState(adminID)
		return
	}

	verb := "Выдано"
	if !grant {
		verb = "Списано"
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ %s %s → %s. Баланс: %s",
		verb, common.FormatCredits(amount), target.DisplayName(), common.FormatCredits(newBalance)))
	h.service.ClearState(adminID)
}

// handleReconcile сверяет счета с журналом операций.
func (h *Handler) handleReconcile(ctx context.Context, chatID int64) {
	drifts, err := h.service.Reconcile(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка сверки")
		h.sendMessage(chatID, "❌ Ошибка сверки")
		return
	}

	if len(drifts) == 0 {
		h.sendMessage(chatID, "✅ Сверка пройдена: все счета сходятся с журналом")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚠️ Найдено расхождений: %d\n\n", len(drifts)))
	for _, d := range drifts {
		sb.WriteString(fmt.Sprintf("user %d: счёт %d, по журналу %d\n", d.UserID, d.Stored, d.FromLedger))
	}
	h.sendMessage(chatID, sb.String())
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
