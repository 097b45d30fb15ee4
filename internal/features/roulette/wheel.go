// Package roulette — wheel.go: правила стола.
// Чистые функции без состояния: раскладка цветов, условия выигрыша,
// множители выплат. Оценка одного спина не зависит ни от чего, кроме
// выпавшего числа и типа ставки.
package roulette

// redNumbers — красные числа настоящей европейской раскладки.
// Остальные 1–36 чёрные, 0 — зелёное.
var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ColorOf возвращает цвет числа 0–36.
func ColorOf(number int) Color {
	switch {
	case number == 0:
		return ColorGreen
	case redNumbers[number]:
		return ColorRed
	default:
		return ColorBlack
	}
}

// Wins отвечает, выигрывает ли ставка kind на числе number.
// Зеро не подходит ни под чет/нечет, ни под больше/меньше:
// для этих ставок 0 — всегда проигрыш.
func Wins(number int, kind BetKind) bool {
	color := ColorOf(number)
	switch kind {
	case BetRed:
		return color == ColorRed
	case BetBlack:
		return color == ColorBlack
	case BetGreen:
		return color == ColorGreen
	case BetOdd:
		return number != 0 && number%2 == 1
	case BetEven:
		return number != 0 && number%2 == 0
	case BetHigh:
		return number > 18
	case BetLow:
		return number >= 1 && number <= 18
	default:
		return false
	}
}

// PayoutMultiplier возвращает множитель выигрыша для типа ставки.
// Зеро платит как ставка на одно число (35:1), всё остальное — 1:1.
func PayoutMultiplier(kind BetKind) int64 {
	if kind == BetGreen {
		return 35
	}
	return 1
}

// Evaluate считает исход одного спина против одной ставки.
func Evaluate(number int, kind BetKind, betSize int64) SpinResult {
	result := SpinResult{
		Number: number,
		Color:  ColorOf(number),
		Win:    Wins(number, kind),
	}
	if result.Win {
		result.Delta = betSize * PayoutMultiplier(kind)
	} else {
		result.Delta = -betSize
	}
	return result
}
