// Package credits — repository.go выполняет все операции с таблицами balances и ledger.
// Каждая денежная операция — одна транзакция БД: обновление баланса и запись
// журнала фиксируются вместе либо не фиксируются вовсе. Проверка достаточности
// средств выполняется под блокировкой строки (SELECT ... FOR UPDATE), поэтому
// две конкурентные операции над одним счётом не могут обе пройти проверку,
// если средств хватает только на одну.
package credits

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fludilka.ru/credits-bot/internal/common"
)

// Repository предоставляет методы для работы со счетами и журналом.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий экономики.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureBalance гарантирует, что у пользователя есть запись баланса.
// Начальный баланс всегда 0 кредитов.
func (r *Repository) EnsureBalance(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO balances (user_id, balance, total_earned, total_spent)
		VALUES ($1, 0, 0, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("ошибка создания баланса: %w", err)
	}
	return nil
}

// GetBalance возвращает текущий баланс пользователя.
// Для неизвестного пользователя — 0 (счёт ещё не открыт).
func (r *Repository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT balance FROM balances WHERE user_id = $1`
	var balance int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

// ApplyDelta применяет знаковое изменение к счёту инициатора и пишет запись
// журнала — атомарно, в одной транзакции БД.
//
// Если итоговый баланс стал бы отрицательным — возвращает
// common.ErrInsufficientBalance, не меняя ничего.
// Возвращает новый баланс инициатора.
func (r *Repository) ApplyDelta(ctx context.Context, entry *LedgerEntry) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	newBalance, err := applyToAccount(ctx, tx, entry.UserID, entry.Delta)
	if err != nil {
		return 0, err
	}

	if err := insertLedgerEntry(ctx, tx, entry); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return newBalance, nil
}

// ApplyPair применяет изменение сразу к двум счетам: инициатор получает
// entry.Delta, контрагент (entry.TargetUserID) — зеркальное −entry.Delta.
// Либо меняются оба счёта, либо ни одного.
//
// Строки блокируются в порядке возрастания user_id, чтобы две встречные
// операции не взяли блокировки крест-накрест.
// Возвращает новые балансы (инициатора, контрагента).
func (r *Repository) ApplyPair(ctx context.Context, entry *LedgerEntry) (int64, int64, error) {
	if entry.TargetUserID == nil {
		return 0, 0, fmt.Errorf("ApplyPair: не указан контрагент")
	}
	target := *entry.TargetUserID

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Счета обрабатываем в порядке возрастания user_id, чтобы блокировки
	// всегда брались в одном порядке
	balances := map[int64]int64{}
	order := []struct {
		id    int64
		delta int64
	}{{entry.UserID, entry.Delta}, {target, -entry.Delta}}
	if order[0].id > order[1].id {
		order[0], order[1] = order[1], order[0]
	}
	for _, acc := range order {
		newBalance, err := applyToAccount(ctx, tx, acc.id, acc.delta)
		if err != nil {
			return 0, 0, err
		}
		balances[acc.id] = newBalance
	}

	if err := insertLedgerEntry(ctx, tx, entry); err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return balances[entry.UserID], balances[target], nil
}

// applyToAccount меняет один счёт внутри открытой транзакции.
// Проверка «не уйти в минус» выполняется под блокировкой строки.
func applyToAccount(ctx context.Context, tx pgx.Tx, userID, delta int64) (int64, error) {
	var current int64
	err := tx.QueryRow(ctx,
		`SELECT balance FROM balances WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&current)
	if err == pgx.ErrNoRows {
		// Счёт ещё не открыт — открываем с нулём и блокируем
		if _, err := tx.Exec(ctx, `
			INSERT INTO balances (user_id, balance, total_earned, total_spent)
			VALUES ($1, 0, 0, 0) ON CONFLICT (user_id) DO NOTHING
		`, userID); err != nil {
			return 0, fmt.Errorf("ошибка открытия счёта: %w", err)
		}
		err = tx.QueryRow(ctx,
			`SELECT balance FROM balances WHERE user_id = $1 FOR UPDATE`, userID,
		).Scan(&current)
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения баланса: %w", err)
	}

	newBalance := current + delta
	if newBalance < 0 {
		return 0, common.ErrInsufficientBalance
	}

	earned, spent := int64(0), int64(0)
	if delta >= 0 {
		earned = delta
	} else {
		spent = -delta
	}
	_, err = tx.Exec(ctx, `
		UPDATE balances
		SET balance = $2, total_earned = total_earned + $3,
		    total_spent = total_spent + $4, updated_at = NOW()
		WHERE user_id = $1
	`, userID, newBalance, earned, spent)
	if err != nil {
		return 0, fmt.Errorf("ошибка обновления баланса: %w", err)
	}
	return newBalance, nil
}

// insertLedgerEntry пишет запись журнала внутри открытой транзакции.
func insertLedgerEntry(ctx context.Context, tx pgx.Tx, entry *LedgerEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO ledger (user_id, target_user_id, delta, action_kind, bet_kind, success)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.UserID, entry.TargetUserID, entry.Delta, entry.ActionKind, entry.BetKind, entry.Success)
	if err != nil {
		return fmt.Errorf("ошибка записи в журнал: %w", err)
	}
	return nil
}

// RecentEntries возвращает последние N записей журнала, где пользователь
// был инициатором или контрагентом.
func (r *Repository) RecentEntries(ctx context.Context, userID int64, limit int) ([]*LedgerEntry, error) {
	query := `
		SELECT id, user_id, target_user_id, delta, action_kind, bet_kind, success, created_at
		FROM ledger
		WHERE user_id = $1 OR target_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала: %w", err)
	}
	defer rows.Close()

	var entries []*LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.TargetUserID, &e.Delta,
			&e.ActionKind, &e.BetKind, &e.Success, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи журнала: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// TopBalances возвращает топ участников по текущему балансу.
func (r *Repository) TopBalances(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	query := `
		SELECT b.user_id,
		       COALESCE(NULLIF(m.username, ''), m.first_name) AS name,
		       b.balance
		FROM balances b
		JOIN members m ON m.user_id = b.user_id
		ORDER BY b.balance DESC, b.user_id
		LIMIT $1
	`
	return r.queryLeaderboard(ctx, query, limit)
}

// TopWagered возвращает топ по сумме ставок (модуль каждой записи рулетки).
func (r *Repository) TopWagered(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	query := `
		SELECT l.user_id,
		       COALESCE(NULLIF(m.username, ''), m.first_name) AS name,
		       SUM(ABS(l.delta)) AS total
		FROM ledger l
		JOIN members m ON m.user_id = l.user_id
		WHERE l.action_kind = 'bet'
		GROUP BY l.user_id, name
		ORDER BY total DESC, l.user_id
		LIMIT $1
	`
	return r.queryLeaderboard(ctx, query, limit)
}

// TopStolen возвращает топ воров: сумма успешно украденного по каждому вору.
func (r *Repository) TopStolen(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	query := `
		SELECT l.user_id,
		       COALESCE(NULLIF(m.username, ''), m.first_name) AS name,
		       SUM(l.delta) AS total
		FROM ledger l
		JOIN members m ON m.user_id = l.user_id
		WHERE l.action_kind = 'steal' AND l.success = TRUE
		GROUP BY l.user_id, name
		ORDER BY total DESC, l.user_id
		LIMIT $1
	`
	return r.queryLeaderboard(ctx, query, limit)
}

func (r *Repository) queryLeaderboard(ctx context.Context, query string, limit int) ([]LeaderboardRow, error) {
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса топа: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.UserID, &row.DisplayName, &row.Amount); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки топа: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Reconcile сверяет сохранённые балансы с суммами журнала.
// Журнал — источник правды (§ восстановление в models.go); строки с
// расхождением возвращаются для разбирательства.
func (r *Repository) Reconcile(ctx context.Context) ([]Drift, error) {
	query := `
		WITH direct AS (
			SELECT user_id, SUM(delta) AS s FROM ledger GROUP BY user_id
		), mirrored AS (
			SELECT target_user_id AS user_id, SUM(-delta) AS s
			FROM ledger WHERE target_user_id IS NOT NULL
			GROUP BY target_user_id
		), expected AS (
			SELECT user_id, SUM(s) AS s
			FROM (SELECT * FROM direct UNION ALL SELECT * FROM mirrored) u
			GROUP BY user_id
		)
		SELECT b.user_id, b.balance, COALESCE(e.s, 0)
		FROM balances b
		LEFT JOIN expected e ON e.user_id = b.user_id
		WHERE b.balance <> COALESCE(e.s, 0)
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка сверки: %w", err)
	}
	defer rows.Close()

	var drifts []Drift
	for rows.Next() {
		var d Drift
		if err := rows.Scan(&d.UserID, &d.Stored, &d.FromLedger); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сверки: %w", err)
		}
		drifts = append(drifts, d)
	}
	return drifts, rows.Err()
}
