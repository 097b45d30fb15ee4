// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go подключает обработчики и запускает polling.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fludilka.ru/credits-bot/internal/bot/filters"
	"fludilka.ru/credits-bot/internal/bot/middleware"
	"fludilka.ru/credits-bot/internal/config"
	"fludilka.ru/credits-bot/internal/features/admin"
	"fludilka.ru/credits-bot/internal/features/credits"
	"fludilka.ru/credits-bot/internal/features/members"
	"fludilka.ru/credits-bot/internal/features/quiz"
	"fludilka.ru/credits-bot/internal/features/roulette"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	creditsHandler  *credits.Handler
	rouletteHandler *roulette.Handler
	quizHandler     *quiz.Handler
	adminHandler    *admin.Handler

	memberService  *members.Service
	creditsService *credits.Service

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	memberService *members.Service,
	creditsService *credits.Service,
	creditsHandler *credits.Handler,
	rouletteHandler *roulette.Handler,
	quizHandler *quiz.Handler,
	adminHandler *admin.Handler,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:             api,
		cfg:             cfg,
		chatFilter:      chatFilter,
		rateLimiter:     middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		creditsHandler:  creditsHandler,
		rouletteHandler: rouletteHandler,
		quizHandler:     quizHandler,
		adminHandler:    adminHandler,
		memberService:   memberService,
		creditsService:  creditsService,
		parser:          NewCommandParser(),
		inflight:        make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	// Нажатия кнопок викторины
	if update.CallbackQuery != nil {
		if b.cfg.FeatureQuizEnabled {
			b.quizHandler.HandleCallback(ctx, update.CallbackQuery)
		}
		return
	}

	// Обрабатываем новых участников (событие вступления)
	if update.Message != nil && update.Message.NewChatMembers != nil {
		if update.Message.Chat != nil && update.Message.Chat.ID == b.cfg.FloodChatID {
			b.handleNewMembers(ctx, update.Message.NewChatMembers)
		}
		return
	}

	// Обрабатываем обычные сообщения
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	message := update.Message

	// Логируем входящее
	middleware.LogMessage(message)

	// Проверяем доступ (FLOOD_CHAT_ID или DM участника)
	if !b.chatFilter.CheckAccess(ctx, message) {
		return
	}

	// Rate limiting
	if message.From != nil && !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	// EnsureMember — ошибки нельзя игнорировать, иначе потом будет "оно не работает"
	if err := b.memberService.EnsureMember(ctx, userID,
		message.From.UserName, message.From.FirstName, message.From.LastName,
	); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("EnsureMember failed")
	}

	// В DM проверяем админ-панель
	if message.Chat.IsPrivate() {
		handled := b.adminHandler.HandleAdminMessage(ctx, chatID, userID, message.Text)
		if handled {
			return
		}
	}

	// Парсим команду
	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	b.routeCommand(ctx, chatID, userID, cmd, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, cmd string, args []string) {
	switch cmd {
	case "start", "help", "помощь":
		b.sendMessage(chatID, helpText())

	case "кредиты", "баланс":
		b.creditsHandler.HandleBalance(ctx, chatID, userID)

	case "дейли", "ежедневные":
		b.creditsHandler.HandleDaily(ctx, chatID, userID)

	case "отсыпать":
		b.creditsHandler.HandleTransfer(ctx, chatID, userID, args)

	case "украсть":
		if b.cfg.FeatureStealEnabled {
			b.creditsHandler.HandleSteal(ctx, chatID, userID, args)
		} else {
			b.sendMessage(chatID, "🔪 Кражи временно отключены")
		}

	case "операции", "история":
		b.creditsHandler.HandleHistory(ctx, chatID, userID)

	case "топ":
		b.creditsHandler.HandleTopBalances(ctx, chatID)

	case "топставки":
		b.creditsHandler.HandleTopWagered(ctx, chatID)

	case "топворы":
		b.creditsHandler.HandleTopStolen(ctx, chatID)

	case "рулетка":
		if b.cfg.FeatureRouletteEnabled {
			b.rouletteHandler.HandlePlay(ctx, chatID, userID, args)
		} else {
			b.sendMessage(chatID, "🎡 Рулетка временно отключена")
		}

	case "викторина":
		if b.cfg.FeatureQuizEnabled {
			b.quizHandler.HandleQuiz(ctx, chatID, userID, args)
		} else {
			b.sendMessage(chatID, "❓ Викторина временно отключена")
		}
	}
}

func helpText() string {
	return strings.Join([]string{
		"Команды бота:",
		"!кредиты — баланс",
		"!дейли — ежедневные кредиты",
		"!отсыпать @username сумма — перевод",
		"!украсть @username сумма — попытка кражи",
		"!рулетка сумма ставка — рулетка (красное/чёрное/зеро/чёт/нечет/больше/меньше)",
		"!викторина [сложность] [тип] [категория] — вопрос за кредиты",
		"!операции — история операций",
		"!топ / !топставки / !топворы — таблицы лидеров",
		"Админ-панель — напиши боту в личку «панель»",
	}, "\n")
}

// handleNewMembers обрабатывает вступление новых участников.
func (b *Bot) handleNewMembers(ctx context.Context, newMembers []tgbotapi.User) {
	for _, user := range newMembers {
		if err := b.memberService.HandleNewMember(ctx, user.ID, user.UserName, user.FirstName, user.LastName); err != nil {
			log.WithError(err).WithField("user_id", user.ID).Warn("HandleNewMember failed")
		}
		if err := b.creditsService.CreateBalance(ctx, user.ID); err != nil {
			log.WithError(err).WithField("user_id", user.ID).Warn("CreateBalance failed")
		}

		log.WithField("user", user.UserName).Info("Новый участник обработан")
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// SendMessageToUser отправляет сообщение пользователю (для уведомлений).
func (b *Bot) SendMessageToUser(userID int64, text string) {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Не удалось отправить сообщение")
	}
}

// CommandParser парсит русские команды с префиксами !, . и /.
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	text = strings.TrimSpace(text)
	parts := strings.Fields(text)

	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}
