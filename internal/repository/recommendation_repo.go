package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"edupath/internal/domain"
)

// PgRecommendationRepository guarda resultados con el vector de streams en pgvector.
type PgRecommendationRepository struct {
	pool *pgxpool.Pool
}

func NewPgRecommendationRepository(pool *pgxpool.Pool) *PgRecommendationRepository {
	return &PgRecommendationRepository{pool: pool}
}

func (r *PgRecommendationRepository) Create(ctx context.Context, rec domain.StoredRecommendation) error {
	const query = `
		INSERT INTO recommendations (id, user_id, stream, stream_vector, result, model, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Stream,
		pgvector.NewVector(rec.StreamVector),
		rec.Result,
		rec.Model,
		rec.CreatedAt,
	)
	return err
}

func (r *PgRecommendationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.StoredRecommendation, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, user_id, stream, stream_vector, result, model, created_at
		FROM recommendations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	return scanRecommendations(rows)
}

func (r *PgRecommendationRepository) FindSimilar(ctx context.Context, userID string, vector []float32, limit int) ([]domain.StoredRecommendation, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `
		SELECT id, user_id, stream, stream_vector, result, model, created_at
		FROM (
			SELECT DISTINCT ON (user_id) *
			FROM recommendations
			WHERE user_id <> $1
			ORDER BY user_id, created_at DESC
		) latest
		ORDER BY stream_vector <-> $2
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, userID, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, err
	}
	return scanRecommendations(rows)
}

func scanRecommendations(rows pgx.Rows) ([]domain.StoredRecommendation, error) {
	defer rows.Close()
	out := []domain.StoredRecommendation{}
	for rows.Next() {
		var (
			rec domain.StoredRecommendation
			vec pgvector.Vector
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Stream, &vec, &rec.Result, &rec.Model, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.StreamVector = vec.Slice()
		out = append(out, rec)
	}
	return out, rows.Err()
}
