// Package credits — steal.go считает вероятность успешной кражи.
package credits

import "math"

// StealChance возвращает вероятность успешной кражи amount кредитов
// у жертвы с балансом victimBalance.
//
//	p = maxChance · √(1 − amount/victimBalance)
//
// Свойства кривой:
//   - строго убывает по amount при фиксированном балансе жертвы;
//   - строго растёт по балансу жертвы при фиксированной сумме;
//   - ограничена диапазоном [0, maxChance];
//   - скошена: украсть малую долю богатого счёта почти всегда удаётся,
//     вынести почти весь счёт — почти никогда (корень держит p высокой
//     на малых долях и роняет у единицы).
//
// Предусловия (их обеспечивает Service.Steal): victimBalance > 0,
// 0 < amount ≤ victimBalance.
func StealChance(amount, victimBalance int64, maxChance float64) float64 {
	if victimBalance <= 0 || amount <= 0 {
		return 0
	}
	if amount >= victimBalance {
		return 0
	}
	frac := float64(amount) / float64(victimBalance)
	return maxChance * math.Sqrt(1-frac)
}
