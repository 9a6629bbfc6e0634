package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edupath/internal/domain"
)

// PgCareerPathRepository implementa CareerPathRepository usando pgxpool.
type PgCareerPathRepository struct {
	pool *pgxpool.Pool
}

func NewPgCareerPathRepository(pool *pgxpool.Pool) *PgCareerPathRepository {
	return &PgCareerPathRepository{pool: pool}
}

const careerColumns = `id, title, stream, degree, description, jobs, salary_range, skills, higher_studies`

func (r *PgCareerPathRepository) List(ctx context.Context, stream, degree string) ([]domain.CareerPath, error) {
	const query = `
		SELECT ` + careerColumns + `
		FROM career_paths
		WHERE ($1 = '' OR stream ILIKE $1)
		  AND ($2 = '' OR degree ILIKE $2)
		ORDER BY title ASC
	`
	rows, err := r.pool.Query(ctx, query, stream, degree)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := []domain.CareerPath{}
	for rows.Next() {
		p, err := scanCareerPath(rows)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func (r *PgCareerPathRepository) GetByID(ctx context.Context, id string) (domain.CareerPath, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+careerColumns+" FROM career_paths WHERE id = $1", id)
	p, err := scanCareerPath(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CareerPath{}, ErrNotFound
	}
	return p, err
}

func (r *PgCareerPathRepository) Upsert(ctx context.Context, paths []domain.CareerPath) error {
	const query = `
		INSERT INTO career_paths (` + careerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			stream = EXCLUDED.stream,
			degree = EXCLUDED.degree,
			description = EXCLUDED.description,
			jobs = EXCLUDED.jobs,
			salary_range = EXCLUDED.salary_range,
			skills = EXCLUDED.skills,
			higher_studies = EXCLUDED.higher_studies
	`
	batch := &pgx.Batch{}
	for _, p := range paths {
		batch.Queue(query, p.ID, p.Title, p.Stream, p.Degree, p.Description, nonNil(p.Jobs), p.SalaryRange, nonNil(p.Skills), nonNil(p.HigherStudies))
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func scanCareerPath(row pgx.Row) (domain.CareerPath, error) {
	var p domain.CareerPath
	err := row.Scan(&p.ID, &p.Title, &p.Stream, &p.Degree, &p.Description, &p.Jobs, &p.SalaryRange, &p.Skills, &p.HigherStudies)
	return p, err
}

// PgTimelineRepository implementa TimelineRepository usando pgxpool.
type PgTimelineRepository struct {
	pool *pgxpool.Pool
}

func NewPgTimelineRepository(pool *pgxpool.Pool) *PgTimelineRepository {
	return &PgTimelineRepository{pool: pool}
}

const timelineColumns = `id, title, category, description, starts_at, ends_at, link`

func (r *PgTimelineRepository) List(ctx context.Context, category string) ([]domain.TimelineEvent, error) {
	const query = `
		SELECT ` + timelineColumns + `
		FROM timeline_events
		WHERE ($1 = '' OR category = $1)
		ORDER BY starts_at ASC
	`
	return r.query(ctx, query, category)
}

// Upcoming devuelve eventos que aun no terminaron, los mas proximos primero.
func (r *PgTimelineRepository) Upcoming(ctx context.Context, now time.Time, limit int) ([]domain.TimelineEvent, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `
		SELECT ` + timelineColumns + `
		FROM timeline_events
		WHERE ends_at >= $1
		ORDER BY starts_at ASC
		LIMIT $2
	`
	return r.query(ctx, query, now, limit)
}

func (r *PgTimelineRepository) Upsert(ctx context.Context, events []domain.TimelineEvent) error {
	const query = `
		INSERT INTO timeline_events (` + timelineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at,
			link = EXCLUDED.link
	`
	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(query, e.ID, e.Title, e.Category, e.Description, e.StartsAt, e.EndsAt, e.Link)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *PgTimelineRepository) query(ctx context.Context, query string, args ...any) ([]domain.TimelineEvent, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.TimelineEvent{}
	for rows.Next() {
		var e domain.TimelineEvent
		if err := rows.Scan(&e.ID, &e.Title, &e.Category, &e.Description, &e.StartsAt, &e.EndsAt, &e.Link); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
