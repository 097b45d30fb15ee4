// handlers.go обрабатывает команду !викторина и нажатия на кнопки ответов.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fludilka.ru/credits-bot/internal/common"
)

// Префикс callback_data кнопок ответов: "quiz:<индекс варианта>".
const callbackPrefix = "quiz:"

// Handler обрабатывает викторину.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// Токены фильтров команды. Сложность и тип можно указывать в любом
// порядке: !викторина сложный кино, !викторина правда-ложь.
var difficultyTokens = map[string]Difficulty{
	"легкий":  DifficultyEasy,
	"лёгкий":  DifficultyEasy,
	"легко":   DifficultyEasy,
	"средний": DifficultyMedium,
	"средне":  DifficultyMedium,
	"сложный": DifficultyHard,
	"сложно":  DifficultyHard,
}

var typeTokens = map[string]QType{
	"правда-ложь": TypeBoolean,
	"правда/ложь": TypeBoolean,
	"да-нет":      TypeBoolean,
	"выбор":       TypeMultiple,
	"варианты":    TypeMultiple,
}

// HandleQuiz обрабатывает команду !викторина [сложность] [тип] [категория].
func (h *Handler) HandleQuiz(ctx context.Context, chatID, userID int64, args []string) {
	filter, ok := h.parseFilter(chatID, args)
	if !ok {
		return
	}

	session, err := h.service.Issue(ctx, chatID, userID, filter)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNoQuestionsMatch):
			h.sendMessage(chatID, fmt.Sprintf(
				"❌ Таких вопросов нет. Категории: %s", strings.Join(Categories(), ", ")))
		case errors.Is(err, common.ErrQuestionsExhausted):
			h.sendMessage(chatID, "🏁 Все подходящие вопросы уже отвечены. Попробуй другие фильтры")
		default:
			log.WithError(err).Error("Ошибка выдачи вопроса")
			h.sendMessage(chatID, "❌ Ошибка выдачи вопроса")
		}
		return
	}

	q := session.Question
	text := fmt.Sprintf("❓ [%s, %s] %s\n\n⏱ На ответ: %s",
		q.Category, q.Difficulty.Name(), q.Text,
		common.FormatSeconds(int(session.Budget.Seconds())))

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = answerKeyboard(q)

	sent, err := h.bot.Send(msg)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки вопроса")
		return
	}
	h.service.Attach(sent.MessageID, session)
}

// HandleCallback обрабатывает нажатие кнопки ответа. Чужие и повторные
// нажатия молча игнорируются (сессию разрешает только её автор, один раз).
func (h *Handler) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || !strings.HasPrefix(callback.Data, callbackPrefix) {
		return
	}
	optionIndex, err := strconv.Atoi(strings.TrimPrefix(callback.Data, callbackPrefix))
	if err != nil {
		return
	}

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	userID := callback.From.ID

	result, err := h.service.Answer(ctx, messageID, userID, optionIndex)

	// На любое нажатие отвечаем, чтобы у нажавшего пропали «часики»
	if _, aerr := h.bot.Request(tgbotapi.NewCallback(callback.ID, "")); aerr != nil {
		log.WithError(aerr).Debug("Ошибка ответа на callback")
	}

	if err != nil {
		if !errors.Is(err, common.ErrSessionNotFound) {
			log.WithError(err).Error("Ошибка разбора ответа викторины")
			h.sendMessage(chatID, "❌ Ошибка обработки ответа")
		}
		return
	}

	// Сессия разрешена — снимаем кнопки с вопроса
	removeMarkup := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := h.bot.Request(removeMarkup); err != nil {
		log.WithError(err).Debug("Ошибка снятия клавиатуры")
	}

	h.sendMessage(chatID, formatAnswer(result))
}

func formatAnswer(r *AnswerResult) string {
	var sb strings.Builder
	switch {
	case r.TimedOut:
		sb.WriteString(fmt.Sprintf("⏰ Слишком поздно! Прошло %s, а давалось %s — ответ не засчитан",
			common.FormatSeconds(int(r.Elapsed.Seconds())),
			common.FormatSeconds(int(r.Budget.Seconds()))))
	case r.Correct:
		sb.WriteString(fmt.Sprintf("✅ Верно! %s",
			common.FormatSignedCredits(r.Delta)))
	case r.TooPoor:
		sb.WriteString(fmt.Sprintf("❌ Неверно! Правильный ответ: %s\n🍀 Повезло — терять нечего, штраф не списан",
			r.Question.CorrectAnswer))
	default:
		sb.WriteString(fmt.Sprintf("❌ Неверно! Правильный ответ: %s\nШтраф: %s",
			r.Question.CorrectAnswer, common.FormatSignedCredits(r.Delta)))
	}
	if r.EventMessage != "" {
		sb.WriteString("\n" + r.EventMessage)
	}
	sb.WriteString(fmt.Sprintf("\n💰 Баланс: %s", common.FormatCredits(r.NewBalance)))
	return sb.String()
}

// answerKeyboard строит кнопки ответов: правда/ложь — в один ряд,
// варианты — каждый своим рядом.
func answerKeyboard(q *Question) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if q.Type == TypeBoolean {
		var row []tgbotapi.InlineKeyboardButton
		for i, opt := range q.Options {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(opt, callbackPrefix+strconv.Itoa(i)))
		}
		rows = append(rows, row)
	} else {
		for i, opt := range q.Options {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(opt, callbackPrefix+strconv.Itoa(i))))
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (h *Handler) parseFilter(chatID int64, args []string) (Filter, bool) {
	var filter Filter
	categories := make(map[string]bool)
	for _, c := range Categories() {
		categories[c] = true
	}

	for _, arg := range args {
		token := strings.ToLower(arg)
		if d, ok := difficultyTokens[token]; ok {
			filter.Difficulty = d
			continue
		}
		if t, ok := typeTokens[token]; ok {
			filter.Type = t
			continue
		}
		if categories[token] {
			filter.Category = token
			continue
		}
		h.sendMessage(chatID, fmt.Sprintf(
			"❌ Непонятный фильтр «%s». Можно: лёгкий/средний/сложный, правда-ложь/выбор, %s",
			arg, strings.Join(Categories(), "/")))
		return Filter{}, false
	}
	return filter, true
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
