package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"edupath/internal/domain"
)

// PgAnswerRepository implementa AnswerRepository usando pgxpool.
type PgAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnswerRepository(pool *pgxpool.Pool) *PgAnswerRepository {
	return &PgAnswerRepository{pool: pool}
}

// Upsert sobrescribe la respuesta previa; un valor vacio la borra.
func (r *PgAnswerRepository) Upsert(ctx context.Context, userID, questionID string, value domain.AnswerValue) error {
	if value.IsEmpty() {
		_, err := r.pool.Exec(ctx, `DELETE FROM user_answers WHERE user_id = $1 AND question_id = $2`, userID, questionID)
		return err
	}
	const query = `
		INSERT INTO user_answers (user_id, question_id, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, question_id) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query, userID, questionID, value, time.Now().UTC())
	return err
}

func (r *PgAnswerRepository) List(ctx context.Context, userID string) (domain.AnswerSet, error) {
	rows, err := r.pool.Query(ctx, `SELECT question_id, value FROM user_answers WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make(domain.AnswerSet)
	for rows.Next() {
		var (
			questionID string
			value      domain.AnswerValue
		)
		if err := rows.Scan(&questionID, &value); err != nil {
			return nil, err
		}
		answers.Set(questionID, value)
	}
	return answers, rows.Err()
}

func (r *PgAnswerRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_answers WHERE user_id = $1`, userID)
	return err
}
