package limits

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter() *Limiter {
	return NewLimiter(map[Category]int{
		CategoryDailyGrant: 1,
		CategorySteal:      3,
	})
}

func TestTryConsumeRespectsCap(t *testing.T) {
	l := newTestLimiter()

	// Дейли: одно использование
	assert.True(t, l.TryConsume(1, CategoryDailyGrant))
	assert.False(t, l.TryConsume(1, CategoryDailyGrant))

	// Кражи: три использования
	for i := 0; i < 3; i++ {
		assert.True(t, l.TryConsume(1, CategorySteal), "попытка %d", i+1)
	}
	assert.False(t, l.TryConsume(1, CategorySteal))

	// Лимиты раздельны по пользователям
	assert.True(t, l.TryConsume(2, CategoryDailyGrant))
}

func TestTryConsumeUnknownCategoryUnlimited(t *testing.T) {
	l := newTestLimiter()
	for i := 0; i < 100; i++ {
		assert.True(t, l.TryConsume(1, Category("quiz")))
	}
}

func TestRemaining(t *testing.T) {
	l := newTestLimiter()

	assert.Equal(t, 3, l.Remaining(1, CategorySteal))
	l.TryConsume(1, CategorySteal)
	assert.Equal(t, 2, l.Remaining(1, CategorySteal))

	assert.Equal(t, -1, l.Remaining(1, Category("quiz")))
}

func TestResetAll(t *testing.T) {
	l := newTestLimiter()

	l.TryConsume(1, CategoryDailyGrant)
	assert.False(t, l.TryConsume(1, CategoryDailyGrant))

	l.ResetAll()

	// После сброса лимит снова доступен
	assert.True(t, l.TryConsume(1, CategoryDailyGrant))
}

func TestTryConsumeConcurrent(t *testing.T) {
	l := NewLimiter(map[Category]int{CategorySteal: 50})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryConsume(1, CategorySteal) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Под гонкой потолок не пробивается
	assert.Equal(t, 50, allowed)
}
