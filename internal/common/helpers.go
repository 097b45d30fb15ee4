// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел, работа с временем.
package common

import (
	"fmt"
	"math"
	"time"
)

// PluralizeCredits возвращает правильную форму слова «кредит» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "кредит" (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "кредита" (2, 3, 4, 22, ...)
//   - Остальные случаи → "кредитов" (0, 5-20, 25-30, 100, ...)
//
// Примеры:
//
//	PluralizeCredits(1)  → "кредит"
//	PluralizeCredits(3)  → "кредита"
//	PluralizeCredits(11) → "кредитов"
//	PluralizeCredits(21) → "кредит"
func PluralizeCredits(n int64) string {
	// Берём абсолютное значение для отрицательных чисел
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	// Единственное число: 1, 21, 31, 101 (но НЕ 11, 111)
	if lastDigit == 1 && lastTwoDigits != 11 {
		return "кредит"
	}

	// Малое множественное: 2-4, 22-24, 32-34 (но НЕ 12-14)
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "кредита"
	}

	// Большое множественное: 0, 5-20, 25-30, 100, ...
	return "кредитов"
}

// FormatCredits форматирует сумму в читабельную строку.
// Пример: FormatCredits(150) → "150 кредитов"
func FormatCredits(amount int64) string {
	return fmt.Sprintf("%d %s", amount, PluralizeCredits(amount))
}

// FormatSignedCredits создаёт строку вида "+100 кредитов" или "-50 кредитов".
// Знак «+» или «-» добавляется автоматически.
func FormatSignedCredits(amount int64) string {
	if amount >= 0 {
		return fmt.Sprintf("+%d %s", amount, PluralizeCredits(amount))
	}
	return fmt.Sprintf("%d %s", amount, PluralizeCredits(amount))
}

// FormatSeconds форматирует длительность с правильной формой слова.
func FormatSeconds(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeSeconds(n))
}

// PluralizeSeconds возвращает правильную форму слова «секунда».
func PluralizeSeconds(n int) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "секунда"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "секунды"
	}
	return "секунд"
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	// Рекурсивно добавляем разделители
	rest := n / 1000
	last := n % 1000

	if rest > 0 {
		return fmt.Sprintf("%s %03d", FormatNumber(rest), last)
	}
	return fmt.Sprintf("%d", last)
}

// MoscowLocation возвращает часовой пояс Москвы (Europe/Moscow).
// Если база зон недоступна — фиксированный UTC+3.
func MoscowLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		loc = time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// GetMoscowTime возвращает текущее время в часовом поясе Москвы.
// Все «дневные» границы бота (лимиты, ежедневные кредиты) считаются по Москве.
func GetMoscowTime() time.Time {
	return time.Now().In(MoscowLocation())
}

// GetMoscowDate возвращает только дату (без времени) в часовом поясе Москвы.
func GetMoscowDate() time.Time {
	t := GetMoscowTime()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04".
// Используется для отображения дат в истории операций.
func FormatDateTime(t time.Time) string {
	return t.In(MoscowLocation()).Format("02.01.2006 15:04")
}
