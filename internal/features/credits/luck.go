// Package credits — luck.go считает «уровень удачи» ежедневной раздачи.
// Тир детерминирован для пары (пользователь, календарный день): повторный
// вызов команды в тот же день даёт ровно тот же результат, поэтому ретраи
// идемпотентны и скрытой дополнительной случайности нет.
package credits

import (
	"encoding/binary"
	"hash/fnv"
	"time"
)

// LuckTier — один из пяти тиров ежедневной раздачи.
type LuckTier int

const (
	TierVeryUnlucky LuckTier = iota
	TierUnlucky
	TierNeutral
	TierLucky
	TierVeryLucky
)

// Выплаты по тирам (фиксированные).
var tierPayouts = map[LuckTier]int64{
	TierVeryUnlucky: 15,
	TierUnlucky:     25,
	TierNeutral:     50,
	TierLucky:       100,
	TierVeryLucky:   200,
}

// Русские названия тиров для сообщений.
var tierNames = map[LuckTier]string{
	TierVeryUnlucky: "совсем не повезло 😿",
	TierUnlucky:     "не повезло 😕",
	TierNeutral:     "обычный день 😐",
	TierLucky:       "повезло 🍀",
	TierVeryLucky:   "ДЖЕКПОТ 🎉",
}

// Payout возвращает фиксированную выплату тира.
func (t LuckTier) Payout() int64 { return tierPayouts[t] }

// Name возвращает русское название тира.
func (t LuckTier) Name() string { return tierNames[t] }

// DailyDraw отображает пару (user_id, день) в точку единичного интервала [0, 1).
// Используется FNV-1a от user_id и даты в формате 2006-01-02; старшие 53 бита
// хеша дают равномерное число с двойной точностью.
func DailyDraw(userID int64, day time.Time) float64 {
	h := fnv.New64a()

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(userID))
	h.Write(buf[:])
	h.Write([]byte(day.Format("2006-01-02")))

	return float64(h.Sum64()>>11) / float64(uint64(1)<<53)
}

// TierFor разбивает единичный интервал на пять тиров.
// Границы фиксированы и задокументированы — менять их нельзя, не сломав
// детерминизм повторных раздач:
//
//	[0.00, 0.05) → TierVeryUnlucky (15)
//	[0.05, 0.25) → TierUnlucky     (25)
//	[0.25, 0.75) → TierNeutral     (50)
//	[0.75, 0.95) → TierLucky       (100)
//	[0.95, 1.00) → TierVeryLucky   (200)
func TierFor(draw float64) LuckTier {
	switch {
	case draw < 0.05:
		return TierVeryUnlucky
	case draw < 0.25:
		return TierUnlucky
	case draw < 0.75:
		return TierNeutral
	case draw < 0.95:
		return TierLucky
	default:
		return TierVeryLucky
	}
}

// DailyTier возвращает тир пользователя на указанный день.
func DailyTier(userID int64, day time.Time) LuckTier {
	return TierFor(DailyDraw(userID, day))
}
