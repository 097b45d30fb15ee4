package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectApply(t *testing.T) {
	assert.Equal(t, int64(50), Fixed(50).Apply(999))
	assert.Equal(t, int64(-30), Fixed(-30).Apply(0))

	assert.Equal(t, int64(50), Scaled(1, 2).Apply(100))
	assert.Equal(t, int64(-25), Scaled(-1, 4).Apply(100))
	assert.Equal(t, int64(0), Scaled(1, 2).Apply(0))

	// Нулевой знаменатель не роняет процесс
	assert.Equal(t, int64(0), Scaled(1, 0).Apply(100))
}

func TestNewManagerPartitionsCatalog(t *testing.T) {
	m := NewManager(Catalog, 1, 1)

	// Каждая пара (категория, исход) из каталога попала в свою корзину
	for _, category := range []Category{CategoryBet, CategorySteal, CategoryQuiz} {
		for _, outcome := range []Outcome{OutcomeSuccess, OutcomeFailure} {
			ev := m.GetRandomEvent(category, outcome)
			require.NotNil(t, ev, "%s/%s", category, outcome)
			assert.Equal(t, category, ev.Category)
			assert.Equal(t, outcome, ev.Outcome)
		}
	}
}

func TestGetRandomEventEmptyBucket(t *testing.T) {
	m := NewManager(nil, 1, 1)
	assert.Nil(t, m.GetRandomEvent(CategoryBet, OutcomeSuccess))
}

func TestMaybeRollsSeparateChances(t *testing.T) {
	m := NewManager(Catalog, 0.10, 0.08)

	// Кубик ниже порога — событие есть, сторона исхода совпадает
	m.roll = func() float64 { return 0.05 }
	ev := m.Maybe(CategoryBet, true)
	require.NotNil(t, ev)
	assert.Equal(t, OutcomeSuccess, ev.Outcome)

	ev = m.Maybe(CategorySteal, false)
	require.NotNil(t, ev)
	assert.Equal(t, OutcomeFailure, ev.Outcome)

	// 0.09 проходит порог успеха (0.10), но не порог провала (0.08)
	m.roll = func() float64 { return 0.09 }
	assert.NotNil(t, m.Maybe(CategoryQuiz, true))
	assert.Nil(t, m.Maybe(CategoryQuiz, false))

	// Выше обоих порогов — тишина
	m.roll = func() float64 { return 0.5 }
	assert.Nil(t, m.Maybe(CategoryBet, true))
	assert.Nil(t, m.Maybe(CategoryBet, false))
}

func TestApplyEffectFormatsMessage(t *testing.T) {
	ev := &RandomEvent{
		Description: "бонус: %+d",
		Effect:      Scaled(1, 2),
		Category:    CategoryBet,
		Outcome:     OutcomeSuccess,
	}

	delta, message := ApplyEffect(ev, 100)
	assert.Equal(t, int64(50), delta)
	assert.Equal(t, "бонус: +50", message)
}

func TestCatalogDescriptionsHavePlaceholder(t *testing.T) {
	// Message подставляет дельту через %+d — каталог обязан её содержать
	for _, ev := range Catalog {
		assert.Contains(t, ev.Description, "%+d", ev.Description)
	}
}
