// Package events — manager.go: реестр событий и политика срабатывания.
package events

import (
	"math/rand"
	"sync"
)

type bucketKey struct {
	category Category
	outcome  Outcome
}

// Manager хранит каталог, разложенный по корзинам (категория, исход),
// и решает, сработал ли «крит» после базового исхода.
// Потокобезопасен: корзины неизменяемы после конструктора, защищается
// только генератор случайных чисел.
type Manager struct {
	mu      sync.Mutex
	roll    func() float64 // подменяется в тестах
	buckets map[bucketKey][]*RandomEvent

	successChance float64 // вероятность крита после успешного исхода
	failureChance float64 // вероятность крита после провального исхода
}

// NewManager создаёт менеджер событий с указанными вероятностями срабатывания.
func NewManager(catalog []RandomEvent, successChance, failureChance float64) *Manager {
	m := &Manager{
		roll:          rand.Float64,
		buckets:       make(map[bucketKey][]*RandomEvent),
		successChance: successChance,
		failureChance: failureChance,
	}
	for i := range catalog {
		ev := &catalog[i]
		key := bucketKey{ev.Category, ev.Outcome}
		m.buckets[key] = append(m.buckets[key], ev)
	}
	return m
}

// GetRandomEvent возвращает равновероятно выбранное событие корзины
// или nil, если корзина пуста.
func (m *Manager) GetRandomEvent(category Category, outcome Outcome) *RandomEvent {
	bucket := m.buckets[bucketKey{category, outcome}]
	if len(bucket) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return bucket[rand.Intn(len(bucket))]
}

// Maybe бросает отдельный кубик крита и при срабатывании возвращает
// случайное событие нужной корзины; иначе nil.
//
// Вероятности для успеха и провала настраиваются независимо. Сработавшее
// событие — ДОБАВОЧНАЯ вторая мутация счёта, не замена базового исхода:
// вызывающая сторона сама применяет дельту через журнал.
func (m *Manager) Maybe(category Category, success bool) *RandomEvent {
	chance := m.failureChance
	outcome := OutcomeFailure
	if success {
		chance = m.successChance
		outcome = OutcomeSuccess
	}

	m.mu.Lock()
	r := m.roll()
	m.mu.Unlock()

	if r >= chance {
		return nil
	}
	return m.GetRandomEvent(category, outcome)
}

// ApplyEffect интерпретирует эффект события для суммы базового исхода.
// Возвращает знаковое изменение счёта и готовый текст для пользователя.
func ApplyEffect(ev *RandomEvent, amount int64) (int64, string) {
	delta := ev.Effect.Apply(amount)
	return delta, ev.Message(delta)
}
