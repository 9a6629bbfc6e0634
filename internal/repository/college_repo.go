package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edupath/internal/domain"
)

// PgCollegeRepository implementa CollegeRepository usando pgxpool.
type PgCollegeRepository struct {
	pool *pgxpool.Pool
}

func NewPgCollegeRepository(pool *pgxpool.Pool) *PgCollegeRepository {
	return &PgCollegeRepository{pool: pool}
}

const collegeColumns = `id, name, state, district, type, courses, annual_fee, cutoff, scholarship_available, facilities, website`

func (r *PgCollegeRepository) List(ctx context.Context, filter CollegeFilter) ([]domain.College, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if filter.State != "" {
		add("state ILIKE $%d", filter.State)
	}
	if filter.City != "" {
		add("district ILIKE $%d", filter.City)
	}
	if filter.Type != "" {
		add("type ILIKE $%d", filter.Type)
	}
	if filter.Course != "" {
		add("EXISTS (SELECT 1 FROM unnest(courses) c WHERE c ILIKE '%%' || $%d || '%%')", filter.Course)
	}
	if filter.Query != "" {
		args = append(args, filter.Query)
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE '%%' || $%d || '%%' OR district ILIKE '%%' || $%d || '%%' OR state ILIKE '%%' || $%d || '%%')", n, n, n))
	}

	query := "SELECT " + collegeColumns + " FROM colleges"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name ASC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colleges := []domain.College{}
	for rows.Next() {
		c, err := scanCollege(rows)
		if err != nil {
			return nil, err
		}
		colleges = append(colleges, c)
	}
	return colleges, rows.Err()
}

func (r *PgCollegeRepository) GetByID(ctx context.Context, id string) (domain.College, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+collegeColumns+" FROM colleges WHERE id = $1", id)
	c, err := scanCollege(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.College{}, ErrNotFound
	}
	return c, err
}

func (r *PgCollegeRepository) Upsert(ctx context.Context, colleges []domain.College) error {
	const query = `
		INSERT INTO colleges (` + collegeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			state = EXCLUDED.state,
			district = EXCLUDED.district,
			type = EXCLUDED.type,
			courses = EXCLUDED.courses,
			annual_fee = EXCLUDED.annual_fee,
			cutoff = EXCLUDED.cutoff,
			scholarship_available = EXCLUDED.scholarship_available,
			facilities = EXCLUDED.facilities,
			website = EXCLUDED.website
	`
	batch := &pgx.Batch{}
	for _, c := range colleges {
		batch.Queue(query, c.ID, c.Name, c.State, c.District, c.Type, nonNil(c.Courses), c.AnnualFee, c.Cutoff, c.ScholarshipAvailable, nonNil(c.Facilities), c.Website)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func scanCollege(row pgx.Row) (domain.College, error) {
	var c domain.College
	err := row.Scan(&c.ID, &c.Name, &c.State, &c.District, &c.Type, &c.Courses, &c.AnnualFee, &c.Cutoff, &c.ScholarshipAvailable, &c.Facilities, &c.Website)
	return c, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
