package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edupath/internal/domain"
)

// PgCourseRepository implementa CourseRepository usando pgxpool.
type PgCourseRepository struct {
	pool *pgxpool.Pool
}

func NewPgCourseRepository(pool *pgxpool.Pool) *PgCourseRepository {
	return &PgCourseRepository{pool: pool}
}

func (r *PgCourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	const query = `
		SELECT id, name, degree, duration_years, traits, average_fee, min_percentage, scholarship_available, careers
		FROM courses
		ORDER BY id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []domain.Course{}
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Degree, &c.DurationYears, &c.Traits, &c.AverageFee, &c.MinPercentage, &c.ScholarshipAvailable, &c.Careers); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *PgCourseRepository) Upsert(ctx context.Context, courses []domain.Course) error {
	const query = `
		INSERT INTO courses (id, name, degree, duration_years, traits, average_fee, min_percentage, scholarship_available, careers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			degree = EXCLUDED.degree,
			duration_years = EXCLUDED.duration_years,
			traits = EXCLUDED.traits,
			average_fee = EXCLUDED.average_fee,
			min_percentage = EXCLUDED.min_percentage,
			scholarship_available = EXCLUDED.scholarship_available,
			careers = EXCLUDED.careers
	`
	batch := &pgx.Batch{}
	for _, c := range courses {
		batch.Queue(query, c.ID, c.Name, c.Degree, c.DurationYears, nonNil(c.Traits), c.AverageFee, c.MinPercentage, c.ScholarshipAvailable, nonNil(c.Careers))
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

// PgScholarshipRepository implementa ScholarshipRepository usando pgxpool.
type PgScholarshipRepository struct {
	pool *pgxpool.Pool
}

func NewPgScholarshipRepository(pool *pgxpool.Pool) *PgScholarshipRepository {
	return &PgScholarshipRepository{pool: pool}
}

func (r *PgScholarshipRepository) List(ctx context.Context) ([]domain.Scholarship, error) {
	const query = `
		SELECT id, name, provider, type, state, streams, amount, min_percentage, deadline
		FROM scholarships
		ORDER BY id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Scholarship{}
	for rows.Next() {
		var s domain.Scholarship
		if err := rows.Scan(&s.ID, &s.Name, &s.Provider, &s.Type, &s.State, &s.Streams, &s.Amount, &s.MinPercentage, &s.Deadline); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PgScholarshipRepository) Upsert(ctx context.Context, scholarships []domain.Scholarship) error {
	const query = `
		INSERT INTO scholarships (id, name, provider, type, state, streams, amount, min_percentage, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			provider = EXCLUDED.provider,
			type = EXCLUDED.type,
			state = EXCLUDED.state,
			streams = EXCLUDED.streams,
			amount = EXCLUDED.amount,
			min_percentage = EXCLUDED.min_percentage,
			deadline = EXCLUDED.deadline
	`
	batch := &pgx.Batch{}
	for _, s := range scholarships {
		batch.Queue(query, s.ID, s.Name, s.Provider, s.Type, s.State, nonNil(s.Streams), s.Amount, s.MinPercentage, s.Deadline)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}
