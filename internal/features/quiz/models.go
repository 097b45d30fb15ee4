// Package quiz реализует викторину: выдача вопроса с кнопками ответов,
// дедлайн по длине вопроса, выплата/штраф по сложности и типу.
// models.go описывает вопросы, сессии и таблицы выплат.
package quiz

import (
	"strings"
	"time"
)

// Difficulty — сложность вопроса.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Русские подписи сложности.
var difficultyNames = map[Difficulty]string{
	DifficultyEasy:   "лёгкий",
	DifficultyMedium: "средний",
	DifficultyHard:   "сложный",
}

// Name возвращает русскую подпись сложности.
func (d Difficulty) Name() string { return difficultyNames[d] }

// QType — тип вопроса.
type QType string

const (
	// TypeBoolean — правда/ложь
	TypeBoolean QType = "boolean"
	// TypeMultiple — выбор из четырёх вариантов
	TypeMultiple QType = "multiple"
)

// Question — один вопрос статического банка.
type Question struct {
	ID            int
	Category      string // "кино", "наука", ...
	Text          string
	Options       []string // варианты ответов (для boolean — Правда/Ложь)
	CorrectAnswer string   // совпадает с одним из Options
	Difficulty    Difficulty
	Type          QType
}

// Session — живая сессия викторины, привязанная к сообщению с кнопками.
// Разрешается не более одного раза; чужие ответы игнорируются.
type Session struct {
	MessageID int   // сообщение, к которому прикреплены кнопки
	ChatID    int64 // чат, в котором выдан вопрос
	UserID    int64 // кто запросил вопрос — только его ответ принимается
	Question  *Question
	IssuedAt  time.Time
	Budget    time.Duration // сколько времени даётся на ответ
}

// Filter — фильтры выдачи вопроса. Пустое поле — «любой».
type Filter struct {
	Category   string
	Difficulty Difficulty
	Type       QType
}

// Matches отвечает, подходит ли вопрос под фильтры.
func (f Filter) Matches(q *Question) bool {
	if f.Category != "" && q.Category != f.Category {
		return false
	}
	if f.Difficulty != "" && q.Difficulty != f.Difficulty {
		return false
	}
	if f.Type != "" && q.Type != f.Type {
		return false
	}
	return true
}

// Выплата за верный ответ — по сложности.
var rewardByDifficulty = map[Difficulty]int64{
	DifficultyEasy:   25,
	DifficultyMedium: 50,
	DifficultyHard:   100,
}

// Штраф за неверный ответ — по типу и сложности.
// Правда/ложь штрафуется вдвое жёстче: это монетка 50/50,
// и наугад тыкать должно быть невыгодно.
var penaltyByType = map[QType]map[Difficulty]int64{
	TypeBoolean: {
		DifficultyEasy:   20,
		DifficultyMedium: 40,
		DifficultyHard:   80,
	},
	TypeMultiple: {
		DifficultyEasy:   10,
		DifficultyMedium: 20,
		DifficultyHard:   40,
	},
}

// Reward возвращает выплату за верный ответ.
func Reward(d Difficulty) int64 { return rewardByDifficulty[d] }

// Penalty возвращает штраф за неверный ответ.
func Penalty(t QType, d Difficulty) int64 { return penaltyByType[t][d] }

// AnswerBudget считает время на ответ: базовый минимум плюс добавка
// за каждое слово вопроса — длинный вопрос надо успеть прочитать.
func AnswerBudget(text string, baseSeconds, secondsPerWord int) time.Duration {
	words := len(strings.Fields(text))
	return time.Duration(baseSeconds+words*secondsPerWord) * time.Second
}
