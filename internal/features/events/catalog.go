// Package events — catalog.go: статический каталог критических событий.
// Каталог разбит менеджером на корзины (категория, сторона исхода);
// в каждой корзине выбор равновероятный.
//
// В описании событий %+d — изменение счёта, которое подставит Message.
package events

// Catalog — все события, регистрируемые при старте процесса.
var Catalog = []RandomEvent{
	// --- Рулетка: успех ---
	{
		Description: "⚡ КРИТ! Крупье подмигнул и подкинул сверху: %+d",
		Effect:      Scaled(1, 2),
		Category:    CategoryBet,
		Outcome:     OutcomeSuccess,
	},
	{
		Description: "🍾 За столом открыли шампанское, тебе перепало: %+d",
		Effect:      Fixed(50),
		Category:    CategoryBet,
		Outcome:     OutcomeSuccess,
	},
	{
		Description: "🎩 Незнакомец в цилиндре удвоил бы твой выигрыш... но дал только %+d",
		Effect:      Scaled(1, 4),
		Category:    CategoryBet,
		Outcome:     OutcomeSuccess,
	},
	// --- Рулетка: провал ---
	{
		Description: "💀 КРИТ-ПРОВАЛ! По дороге из казино тебя обчистили ещё на %+d",
		Effect:      Fixed(-30),
		Category:    CategoryBet,
		Outcome:     OutcomeFailure,
	},
	{
		Description: "🥀 С горя заказал всем по рюмке, минус %+d",
		Effect:      Scaled(-1, 4),
		Category:    CategoryBet,
		Outcome:     OutcomeFailure,
	},
	// --- Кража: успех ---
	{
		Description: "🧤 КРИТ! В кармане жертвы нашлась заначка: %+d",
		Effect:      Scaled(1, 2),
		Category:    CategorySteal,
		Outcome:     OutcomeSuccess,
	},
	{
		Description: "🗝 Чистая работа — скупщик накинул премию %+d",
		Effect:      Fixed(25),
		Category:    CategorySteal,
		Outcome:     OutcomeSuccess,
	},
	// --- Кража: провал ---
	{
		Description: "🚨 КРИТ-ПРОВАЛ! Поймали за руку, штраф %+d",
		Effect:      Fixed(-40),
		Category:    CategorySteal,
		Outcome:     OutcomeFailure,
	},
	{
		Description: "🐕 Собака жертвы порвала куртку, ремонт обошёлся в %+d",
		Effect:      Scaled(-1, 2),
		Category:    CategorySteal,
		Outcome:     OutcomeFailure,
	},
	// --- Викторина: успех ---
	{
		Description: "🧠 КРИТ! Эрудиция впечатлила спонсора, бонус %+d",
		Effect:      Scaled(1, 2),
		Category:    CategoryQuiz,
		Outcome:     OutcomeSuccess,
	},
	{
		Description: "📚 Библиотекарь гордится тобой: %+d",
		Effect:      Fixed(20),
		Category:    CategoryQuiz,
		Outcome:     OutcomeSuccess,
	},
	// --- Викторина: провал ---
	{
		Description: "🤡 КРИТ-ПРОВАЛ! Над ответом смеялся весь чат, позорный сбор %+d",
		Effect:      Fixed(-15),
		Category:    CategoryQuiz,
		Outcome:     OutcomeFailure,
	},
	{
		Description: "📉 Репутация знатока пошатнулась: %+d",
		Effect:      Scaled(-1, 2),
		Category:    CategoryQuiz,
		Outcome:     OutcomeFailure,
	},
}
