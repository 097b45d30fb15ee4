// Package roulette реализует европейскую рулетку: одно число 0–36,
// ставки на цвет, чётность и половину поля.
// models.go описывает типы ставок и правила стола; сами правила —
// чистые функции без состояния, их считает wheel.go.
package roulette

import (
	"strings"

	"fludilka.ru/credits-bot/internal/common"
)

// BetKind — тип ставки.
type BetKind string

const (
	BetRed   BetKind = "red"
	BetBlack BetKind = "black"
	BetGreen BetKind = "green"
	BetOdd   BetKind = "odd"
	BetEven  BetKind = "even"
	BetHigh  BetKind = "high" // 19–36
	BetLow   BetKind = "low"  // 1–18
)

// Русские подписи типов ставок.
var betNames = map[BetKind]string{
	BetRed:   "красное",
	BetBlack: "чёрное",
	BetGreen: "зеро",
	BetOdd:   "нечет",
	BetEven:  "чет",
	BetHigh:  "больше (19–36)",
	BetLow:   "меньше (1–18)",
}

// Name возвращает русскую подпись типа ставки.
func (k BetKind) Name() string { return betNames[k] }

// Распознаваемые формы команды. Приводим к нижнему регистру до поиска.
var betTokens = map[string]BetKind{
	"красное": BetRed, "красный": BetRed, "red": BetRed,
	"чёрное": BetBlack, "черное": BetBlack, "чёрный": BetBlack, "черный": BetBlack, "black": BetBlack,
	"зелёное": BetGreen, "зеленое": BetGreen, "зеро": BetGreen, "green": BetGreen, "zero": BetGreen,
	"нечет": BetOdd, "нечёт": BetOdd, "odd": BetOdd,
	"чет": BetEven, "чёт": BetEven, "even": BetEven,
	"больше": BetHigh, "high": BetHigh,
	"меньше": BetLow, "low": BetLow,
}

// ParseBetKind разбирает пользовательский токен типа ставки.
// Нераспознанный токен — ошибка валидации, никаких мутаций.
func ParseBetKind(text string) (BetKind, error) {
	kind, ok := betTokens[strings.ToLower(strings.TrimSpace(text))]
	if !ok {
		return "", common.ErrUnknownBetKind
	}
	return kind, nil
}

// Color — цвет выпавшего числа.
type Color string

const (
	ColorGreen Color = "green"
	ColorRed   Color = "red"
	ColorBlack Color = "black"
)

// Emoji возвращает эмодзи цвета для сообщений.
func (c Color) Emoji() string {
	switch c {
	case ColorGreen:
		return "🟢"
	case ColorRed:
		return "🔴"
	default:
		return "⚫"
	}
}

// SpinResult — результат одного спина против одной ставки.
type SpinResult struct {
	Number int
	Color  Color
	Win    bool
	Delta  int64 // знаковое изменение счёта: +выигрыш или −ставка
}
