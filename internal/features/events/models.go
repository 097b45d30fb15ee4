// Package events реализует «критические события» — редкую бонусную или
// штрафную надбавку поверх базового исхода игры (ставка, кража, викторина).
// models.go описывает каталог и эффекты.
//
// Эффект события — не функция, а размеченный вариант: каталог остаётся
// чистыми данными, его можно сериализовать и проверять тестами отдельно
// от интерпретатора.
package events

import "fmt"

// Category — семейство действий, к которому привязано событие.
type Category string

const (
	CategoryBet   Category = "bet"
	CategorySteal Category = "steal"
	CategoryQuiz  Category = "quiz"
)

// Outcome — сторона исхода: событие успеха или событие провала.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// EffectKind — вид эффекта.
type EffectKind int

const (
	// EffectFixed — фиксированная прибавка/штраф, сумма исхода не важна
	EffectFixed EffectKind = iota
	// EffectScaled — доля от суммы базового исхода (Num/Den)
	EffectScaled
)

// Effect — размеченный вариант эффекта.
type Effect struct {
	Kind   EffectKind
	Amount int64 // для EffectFixed: знаковое изменение счёта
	Num    int64 // для EffectScaled: числитель доли
	Den    int64 // для EffectScaled: знаменатель доли
}

// Apply интерпретирует эффект для суммы базового исхода.
// Возвращает знаковое изменение счёта.
func (e Effect) Apply(amount int64) int64 {
	switch e.Kind {
	case EffectFixed:
		return e.Amount
	case EffectScaled:
		if e.Den == 0 {
			return 0
		}
		return amount * e.Num / e.Den
	default:
		return 0
	}
}

// Fixed — конструктор фиксированного эффекта.
func Fixed(amount int64) Effect { return Effect{Kind: EffectFixed, Amount: amount} }

// Scaled — конструктор долевого эффекта (num/den от суммы исхода).
func Scaled(num, den int64) Effect { return Effect{Kind: EffectScaled, Num: num, Den: den} }

// RandomEvent — одно событие каталога. Неизменяемо, задаётся при старте
// процесса, не персистится.
type RandomEvent struct {
	Description string   // текст для пользователя (подставляется изменение счёта)
	Effect      Effect   // как считается изменение счёта
	Category    Category // к какому действию привязано
	Outcome     Outcome  // сторона исхода
}

// Message форматирует текст события с подставленным изменением счёта.
func (e *RandomEvent) Message(delta int64) string {
	return fmt.Sprintf(e.Description, delta)
}
