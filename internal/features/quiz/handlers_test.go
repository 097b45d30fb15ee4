package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatAnswerTimeoutShowsElapsedAndAllowed(t *testing.T) {
	q := &Question{Text: "Вопрос", CorrectAnswer: "Правда"}
	out := formatAnswer(&AnswerResult{
		Question:   q,
		TimedOut:   true,
		Elapsed:    15 * time.Second,
		Budget:     10 * time.Second,
		NewBalance: 100,
	})

	assert.Contains(t, out, "Прошло 15 секунд")
	assert.Contains(t, out, "давалось 10 секунд")
	assert.Contains(t, out, "ответ не засчитан")
	assert.Contains(t, out, "Баланс: 100 кредитов")
}

func TestFormatAnswerOutcomes(t *testing.T) {
	q := &Question{Text: "Вопрос", CorrectAnswer: "Ложь"}

	correct := formatAnswer(&AnswerResult{Question: q, Correct: true, Delta: 50, NewBalance: 150})
	assert.Contains(t, correct, "✅ Верно! +50 кредитов")

	wrong := formatAnswer(&AnswerResult{Question: q, Delta: -20, NewBalance: 80})
	assert.Contains(t, wrong, "Правильный ответ: Ложь")
	assert.Contains(t, wrong, "Штраф: -20 кредитов")

	poor := formatAnswer(&AnswerResult{Question: q, TooPoor: true, NewBalance: 1})
	assert.Contains(t, poor, "штраф не списан")

	withEvent := formatAnswer(&AnswerResult{Question: q, Correct: true, Delta: 25,
		NewBalance: 75, EventMessage: "⭐ бонус: +50"})
	assert.Contains(t, withEvent, "⭐ бонус: +50")
}
