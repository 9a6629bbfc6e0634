package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"edupath/internal/catalog"
)

// Stores agrupa los repositorios de un backend.
type Stores struct {
	Questions       QuestionRepository
	Colleges        CollegeRepository
	Courses         CourseRepository
	Scholarships    ScholarshipRepository
	CareerPaths     CareerPathRepository
	Timeline        TimelineRepository
	Users           UserRepository
	Answers         AnswerRepository
	Recommendations RecommendationRepository
}

// NewMemoryStores arma todos los repositorios en memoria. Con cat != nil quedan sembrados.
func NewMemoryStores(cat *catalog.Catalog) Stores {
	if cat == nil {
		cat = &catalog.Catalog{}
	}
	return Stores{
		Questions:       NewMemoryQuestionRepository(cat.Questions),
		Colleges:        NewMemoryCollegeRepository(cat.Inventory.Colleges),
		Courses:         NewMemoryCourseRepository(cat.Inventory.Courses),
		Scholarships:    NewMemoryScholarshipRepository(cat.Inventory.Scholarships),
		CareerPaths:     NewMemoryCareerPathRepository(cat.CareerPaths),
		Timeline:        NewMemoryTimelineRepository(cat.Timeline),
		Users:           NewMemoryUserRepository(),
		Answers:         NewMemoryAnswerRepository(),
		Recommendations: NewMemoryRecommendationRepository(),
	}
}

func NewPgStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Questions:       NewPgQuestionRepository(pool),
		Colleges:        NewPgCollegeRepository(pool),
		Courses:         NewPgCourseRepository(pool),
		Scholarships:    NewPgScholarshipRepository(pool),
		CareerPaths:     NewPgCareerPathRepository(pool),
		Timeline:        NewPgTimelineRepository(pool),
		Users:           NewPgUserRepository(pool),
		Answers:         NewPgAnswerRepository(pool),
		Recommendations: NewPgRecommendationRepository(pool),
	}
}

// NewSQLiteStores guarda banco e inventario en SQLite; el resto queda en memoria
// (career paths y timeline sembrados desde cat).
func NewSQLiteStores(db *sql.DB, cat *catalog.Catalog) Stores {
	s := NewMemoryStores(&catalog.Catalog{CareerPaths: cat.CareerPaths, Timeline: cat.Timeline})
	s.Questions = NewSQLiteQuestionRepository(db)
	s.Colleges = NewSQLiteCollegeRepository(db)
	s.Courses = NewSQLiteCourseRepository(db)
	s.Scholarships = NewSQLiteScholarshipRepository(db)
	return s
}

// WithCache envuelve banco e inventario con el cache read-through de Redis.
func (s Stores) WithCache(client *redis.Client, ttl time.Duration) Stores {
	if client == nil {
		return s
	}
	s.Questions = NewCachedQuestionRepository(s.Questions, client, ttl)
	s.Colleges = NewCachedCollegeRepository(s.Colleges, client, ttl)
	s.Courses = NewCachedCourseRepository(s.Courses, client, ttl)
	s.Scholarships = NewCachedScholarshipRepository(s.Scholarships, client, ttl)
	return s
}

// Seed carga el catalogo en los repositorios. Es idempotente: todo es upsert.
func (s Stores) Seed(ctx context.Context, cat *catalog.Catalog) error {
	if err := s.Questions.ReplaceAll(ctx, cat.Questions); err != nil {
		return fmt.Errorf("seed questions: %w", err)
	}
	if err := s.Colleges.Upsert(ctx, cat.Inventory.Colleges); err != nil {
		return fmt.Errorf("seed colleges: %w", err)
	}
	if err := s.Courses.Upsert(ctx, cat.Inventory.Courses); err != nil {
		return fmt.Errorf("seed courses: %w", err)
	}
	if err := s.Scholarships.Upsert(ctx, cat.Inventory.Scholarships); err != nil {
		return fmt.Errorf("seed scholarships: %w", err)
	}
	if err := s.CareerPaths.Upsert(ctx, cat.CareerPaths); err != nil {
		return fmt.Errorf("seed career paths: %w", err)
	}
	if err := s.Timeline.Upsert(ctx, cat.Timeline); err != nil {
		return fmt.Errorf("seed timeline: %w", err)
	}
	return nil
}

// SeedIfEmpty siembra solo cuando el banco de preguntas esta vacio.
func (s Stores) SeedIfEmpty(ctx context.Context, cat *catalog.Catalog) (bool, error) {
	bank, err := s.Questions.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list questions: %w", err)
	}
	if len(bank) > 0 {
		return false, nil
	}
	return true, s.Seed(ctx, cat)
}
