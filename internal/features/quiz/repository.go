package quiz

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository хранит отметки об отвеченных вопросах, чтобы один и тот же
// вопрос не выдавался пользователю повторно.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// MarkCompleted помечает вопрос отвеченным. Повторная пометка не ошибка.
func (r *Repository) MarkCompleted(ctx context.Context, userID int64, questionID int, correct bool) error {
	query := `
		INSERT INTO quiz_completed (user_id, question_id, correct)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, question_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, userID, questionID, correct)
	if err != nil {
		return fmt.Errorf("ошибка отметки вопроса %d для пользователя %d: %w", questionID, userID, err)
	}
	return nil
}

// CompletedIDs возвращает множество ID вопросов, на которые пользователь
// уже отвечал.
func (r *Repository) CompletedIDs(ctx context.Context, userID int64) (map[int]bool, error) {
	query := `SELECT question_id FROM quiz_completed WHERE user_id = $1`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения отвеченных вопросов пользователя %d: %w", userID, err)
	}
	defer rows.Close()

	done := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка чтения отвеченного вопроса: %w", err)
		}
		done[id] = true
	}
	return done, rows.Err()
}
