package credits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStealChanceBounds(t *testing.T) {
	const maxChance = 0.90

	// Сумма равна счёту жертвы или больше — шанс ровно 0
	assert.Equal(t, 0.0, StealChance(100, 100, maxChance))
	assert.Equal(t, 0.0, StealChance(150, 100, maxChance))

	// Некорректные входы — 0
	assert.Equal(t, 0.0, StealChance(0, 100, maxChance))
	assert.Equal(t, 0.0, StealChance(-5, 100, maxChance))
	assert.Equal(t, 0.0, StealChance(10, 0, maxChance))

	// Любая валидная точка внутри (0, maxChance]
	for amount := int64(1); amount < 100; amount++ {
		p := StealChance(amount, 100, maxChance)
		assert.Greater(t, p, 0.0, "amount=%d", amount)
		assert.LessOrEqual(t, p, maxChance, "amount=%d", amount)
	}
}

func TestStealChanceMonotonicInAmount(t *testing.T) {
	// При фиксированном балансе жертвы шанс строго убывает по сумме
	prev := 1.0
	for amount := int64(1); amount < 1000; amount++ {
		p := StealChance(amount, 1000, 0.90)
		assert.Less(t, p, prev, "amount=%d", amount)
		prev = p
	}
}

func TestStealChanceMonotonicInVictimBalance(t *testing.T) {
	// При фиксированной сумме шанс растёт с богатством жертвы
	prev := 0.0
	for balance := int64(101); balance <= 10000; balance += 100 {
		p := StealChance(100, balance, 0.90)
		assert.Greater(t, p, prev, "balance=%d", balance)
		prev = p
	}
}

func TestStealChanceSkew(t *testing.T) {
	// Кривая скошена: украсть 1% счёта проще, чем полсчёта на ту же долю риска
	small := StealChance(10, 1000, 0.90)
	half := StealChance(500, 1000, 0.90)
	assert.Greater(t, small, 0.85)
	assert.InDelta(t, 0.90*0.7071, half, 0.001)
}
