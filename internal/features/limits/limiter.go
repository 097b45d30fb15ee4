// Package limits реализует дневные лимиты действий: сколько раз в день
// пользователь может забрать ежедневные кредиты или пойти на кражу.
//
// Счётчики живут в памяти и обнуляются планировщиком в настроенный час
// по Москве — это глобальная граница суток для всех сразу, а не скользящее
// окно каждого пользователя. Перезапуск процесса тоже обнуляет счётчики;
// для дневных лимитов это приемлемая цена простоты.
package limits

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Category — вид лимитируемого действия.
type Category string

const (
	// CategoryDailyGrant — получение ежедневных кредитов
	CategoryDailyGrant Category = "daily_grant"
	// CategorySteal — попытки краж
	CategorySteal Category = "steal"
)

// Limiter хранит счётчики (категория, пользователь) → число использований.
type Limiter struct {
	mu     sync.Mutex
	counts map[Category]map[int64]int
	caps   map[Category]int
}

// NewLimiter создаёт лимитер с заданными дневными потолками по категориям.
func NewLimiter(caps map[Category]int) *Limiter {
	return &Limiter{
		counts: make(map[Category]map[int64]int),
		caps:   caps,
	}
}

// TryConsume пытается потратить одно использование.
// Если потолок категории уже достигнут — возвращает false, ничего не меняя.
// Неизвестная категория считается безлимитной.
func (l *Limiter) TryConsume(userID int64, category Category) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cap, limited := l.caps[category]
	if !limited {
		return true
	}

	users := l.counts[category]
	if users == nil {
		users = make(map[int64]int)
		l.counts[category] = users
	}

	if users[userID] >= cap {
		return false
	}
	users[userID]++
	return true
}

// Remaining возвращает, сколько использований осталось на сегодня.
func (l *Limiter) Remaining(userID int64, category Category) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cap, limited := l.caps[category]
	if !limited {
		return -1
	}
	left := cap - l.counts[category][userID]
	if left < 0 {
		left = 0
	}
	return left
}

// ResetAll обнуляет все счётчики всех категорий.
// Вызывается планировщиком на границе суток.
func (l *Limiter) ResetAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counts = make(map[Category]map[int64]int)
	log.Info("Дневные лимиты сброшены")
}
