package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"edupath/internal/domain"
)

// PgQuestionRepository implementa QuestionRepository usando pgxpool.
type PgQuestionRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuestionRepository(pool *pgxpool.Pool) *PgQuestionRepository {
	return &PgQuestionRepository{pool: pool}
}

func (r *PgQuestionRepository) List(ctx context.Context) (domain.QuestionBank, error) {
	const query = `
		SELECT id, position, category, type, prompt, depends_on, options
		FROM questions
		ORDER BY position ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bank domain.QuestionBank
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Position, &q.Category, &q.Type, &q.Prompt, &q.DependsOn, &q.Options); err != nil {
			return nil, err
		}
		bank = append(bank, q)
	}
	return bank, rows.Err()
}

// ReplaceAll sustituye el banco completo en una transaccion.
func (r *PgQuestionRepository) ReplaceAll(ctx context.Context, bank domain.QuestionBank) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions`); err != nil {
		return err
	}
	const insert = `
		INSERT INTO questions (id, position, category, type, prompt, depends_on, options)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, q := range bank {
		if _, err := tx.Exec(ctx, insert, q.ID, i, q.Category, q.Type, q.Prompt, q.DependsOn, q.Options); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
