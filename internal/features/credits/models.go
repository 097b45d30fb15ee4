// Package credits реализует экономику бота: счета участников и журнал
// всех операций. models.go описывает структуры данных.
//
// Журнал (таблица ledger) — единственный источник правды: баланс любого
// участника восстанавливается как сумма его записей (см. Reconcile).
package credits

import "time"

// ActionKind — тип операции в журнале.
type ActionKind string

const (
	ActionDaily    ActionKind = "daily"    // ежедневные кредиты
	ActionBet      ActionKind = "bet"      // ставка в рулетке
	ActionSteal    ActionKind = "steal"    // кража (успешная или нет)
	ActionQuiz     ActionKind = "quiz"     // викторина
	ActionTransfer ActionKind = "transfer" // перевод между участниками
	ActionEvent    ActionKind = "event"    // критическое событие поверх исхода
	ActionAdmin    ActionKind = "admin"    // ручная корректировка админом
)

// LedgerEntry — одна запись журнала операций. Записи только добавляются,
// никогда не изменяются и не удаляются.
//
// Правило восстановления баланса:
//
//	balance(u) = Σ Delta по записям, где UserID == u
//	           − Σ Delta по записям, где TargetUserID == u
//
// То есть Delta — изменение счёта инициатора; контрагент (если есть)
// получает зеркальное изменение −Delta.
type LedgerEntry struct {
	ID           int64      `db:"id"`
	UserID       int64      `db:"user_id"`        // инициатор операции
	TargetUserID *int64     `db:"target_user_id"` // контрагент (перевод, кража)
	Delta        int64      `db:"delta"`          // знаковое изменение счёта инициатора
	ActionKind   ActionKind `db:"action_kind"`
	BetKind      *string    `db:"bet_kind"` // тип ставки (только для рулетки)
	Success      bool       `db:"success"`
	CreatedAt    time.Time  `db:"created_at"`
}

// Balance — строка таблицы balances.
type Balance struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Balance     int64     `db:"balance"`
	TotalEarned int64     `db:"total_earned"`
	TotalSpent  int64     `db:"total_spent"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// LeaderboardRow — строка топа (имя подтягивается из members).
type LeaderboardRow struct {
	UserID      int64
	DisplayName string
	Amount      int64
}

// Drift — расхождение между сохранённым балансом и суммой журнала.
// В норме таких строк быть не должно.
type Drift struct {
	UserID     int64
	Stored     int64
	FromLedger int64
}
