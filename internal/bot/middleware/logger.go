// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паники и rate-limiting.
package middleware

import (
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// LogMessage логирует входящее сообщение.
// Записывает: user_id, chat_id, username, текст (первые 50 символов).
func LogMessage(message *tgbotapi.Message) {
	if message == nil {
		return
	}

	// Обрезаем по рунам: кириллица в байтовом срезе ломается посередине
	text := message.Text
	if runes := []rune(text); len(runes) > 50 {
		text = string(runes[:50]) + "..."
	}

	isCommand := false
	for _, prefix := range []string{"!", ".", "/"} {
		if strings.HasPrefix(message.Text, prefix) {
			isCommand = true
			break
		}
	}

	log.WithFields(log.Fields{
		"user_id":    message.From.ID,
		"chat_id":    message.Chat.ID,
		"username":   message.From.UserName,
		"text":       text,
		"is_command": isCommand,
		"private":    message.Chat.IsPrivate(),
		"time":       time.Now().Format("15:04:05"),
	}).Debug("Входящее сообщение")
}
