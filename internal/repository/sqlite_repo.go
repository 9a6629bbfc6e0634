package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"edupath/internal/domain"
)

// Adaptadores sobre database/sql para el catalogo embebido en SQLite.

type SQLiteQuestionRepository struct {
	db *sql.DB
}

func NewSQLiteQuestionRepository(db *sql.DB) *SQLiteQuestionRepository {
	return &SQLiteQuestionRepository{db: db}
}

func (r *SQLiteQuestionRepository) List(ctx context.Context) (domain.QuestionBank, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM questions ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bank domain.QuestionBank
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var q domain.Question
		if err := json.Unmarshal([]byte(payload), &q); err != nil {
			return nil, err
		}
		bank = append(bank, q)
	}
	return bank, rows.Err()
}

func (r *SQLiteQuestionRepository) ReplaceAll(ctx context.Context, bank domain.QuestionBank) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return err
	}
	for i, q := range bank {
		q.Position = i
		payload, err := json.Marshal(q)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO questions (id, position, payload) VALUES (?, ?, ?)`, q.ID, i, string(payload)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type SQLiteCollegeRepository struct {
	db *sql.DB
}

func NewSQLiteCollegeRepository(db *sql.DB) *SQLiteCollegeRepository {
	return &SQLiteCollegeRepository{db: db}
}

const sqliteCollegeColumns = `id, name, state, district, type, courses, annual_fee, cutoff, scholarship_available, facilities, website`

func (r *SQLiteCollegeRepository) List(ctx context.Context, filter CollegeFilter) ([]domain.College, error) {
	var (
		where []string
		args  []any
	)
	if filter.State != "" {
		where = append(where, "state = ? COLLATE NOCASE")
		args = append(args, filter.State)
	}
	if filter.City != "" {
		where = append(where, "district = ? COLLATE NOCASE")
		args = append(args, filter.City)
	}
	if filter.Type != "" {
		where = append(where, "type = ? COLLATE NOCASE")
		args = append(args, filter.Type)
	}
	if filter.Course != "" {
		where = append(where, "courses LIKE ?")
		args = append(args, "%"+filter.Course+"%")
	}
	if filter.Query != "" {
		where = append(where, "(name LIKE ? OR district LIKE ? OR state LIKE ?)")
		q := "%" + filter.Query + "%"
		args = append(args, q, q, q)
	}

	query := "SELECT " + sqliteCollegeColumns + " FROM colleges"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name ASC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, max(filter.Offset, 0))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.College{}
	for rows.Next() {
		c, err := scanSQLiteCollege(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 && filter.Offset > 0 {
		out = Page(out, 0, filter.Offset)
	}
	return out, nil
}

func (r *SQLiteCollegeRepository) GetByID(ctx context.Context, id string) (domain.College, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+sqliteCollegeColumns+" FROM colleges WHERE id = ?", id)
	c, err := scanSQLiteCollege(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.College{}, ErrNotFound
	}
	return c, err
}

func (r *SQLiteCollegeRepository) Upsert(ctx context.Context, colleges []domain.College) error {
	const query = `
		INSERT INTO colleges (` + sqliteCollegeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			state = excluded.state,
			district = excluded.district,
			type = excluded.type,
			courses = excluded.courses,
			annual_fee = excluded.annual_fee,
			cutoff = excluded.cutoff,
			scholarship_available = excluded.scholarship_available,
			facilities = excluded.facilities,
			website = excluded.website
	`
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, c := range colleges {
		courses, _ := json.Marshal(nonNil(c.Courses))
		facilities, _ := json.Marshal(nonNil(c.Facilities))
		if _, err := tx.ExecContext(ctx, query,
			c.ID, c.Name, c.State, c.District, c.Type, string(courses),
			nullFloat(c.AnnualFee), nullFloat(c.Cutoff), c.ScholarshipAvailable, string(facilities), c.Website,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type sqlRow interface {
	Scan(dest ...any) error
}

func scanSQLiteCollege(row sqlRow) (domain.College, error) {
	var (
		c                   domain.College
		courses, facilities string
		fee, cutoff         sql.NullFloat64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.State, &c.District, &c.Type, &courses, &fee, &cutoff, &c.ScholarshipAvailable, &facilities, &c.Website); err != nil {
		return domain.College{}, err
	}
	if err := json.Unmarshal([]byte(courses), &c.Courses); err != nil {
		return domain.College{}, err
	}
	if err := json.Unmarshal([]byte(facilities), &c.Facilities); err != nil {
		return domain.College{}, err
	}
	c.AnnualFee = floatPtr(fee)
	c.Cutoff = floatPtr(cutoff)
	return c, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// sqlitePayloadTable guarda registros como JSON por id.
type sqlitePayloadTable[T any] struct {
	db    *sql.DB
	table string
	id    func(T) string
}

func (t sqlitePayloadTable[T]) list(ctx context.Context) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, "SELECT payload FROM "+t.table+" ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var item T
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (t sqlitePayloadTable[T]) upsert(ctx context.Context, items []T) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	query := "INSERT INTO " + t.table + " (id, payload) VALUES (?, ?) ON CONFLICT (id) DO UPDATE SET payload = excluded.payload"
	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, t.id(item), string(payload)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type SQLiteCourseRepository struct {
	table sqlitePayloadTable[domain.Course]
}

func NewSQLiteCourseRepository(db *sql.DB) *SQLiteCourseRepository {
	return &SQLiteCourseRepository{table: sqlitePayloadTable[domain.Course]{db: db, table: "courses", id: func(c domain.Course) string { return c.ID }}}
}

func (r *SQLiteCourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	return r.table.list(ctx)
}

func (r *SQLiteCourseRepository) Upsert(ctx context.Context, courses []domain.Course) error {
	return r.table.upsert(ctx, courses)
}

type SQLiteScholarshipRepository struct {
	table sqlitePayloadTable[domain.Scholarship]
}

func NewSQLiteScholarshipRepository(db *sql.DB) *SQLiteScholarshipRepository {
	return &SQLiteScholarshipRepository{table: sqlitePayloadTable[domain.Scholarship]{db: db, table: "scholarships", id: func(s domain.Scholarship) string { return s.ID }}}
}

func (r *SQLiteScholarshipRepository) List(ctx context.Context) ([]domain.Scholarship, error) {
	return r.table.list(ctx)
}

func (r *SQLiteScholarshipRepository) Upsert(ctx context.Context, scholarships []domain.Scholarship) error {
	return r.table.upsert(ctx, scholarships)
}
