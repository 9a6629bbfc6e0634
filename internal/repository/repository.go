package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"edupath/internal/domain"
)

// ErrNotFound se devuelve cuando un registro no existe.
var ErrNotFound = errors.New("not found")

// QuestionRepository provee el banco de preguntas ordenado.
type QuestionRepository interface {
	List(ctx context.Context) (domain.QuestionBank, error)
	ReplaceAll(ctx context.Context, bank domain.QuestionBank) error
}

// CollegeFilter restringe el listado del directorio. Campos vacios no filtran.
type CollegeFilter struct {
	State  string
	City   string
	Type   string
	Course string
	Query  string
	Limit  int
	Offset int
}

// Matches aplica el filtro en memoria (case-insensitive).
func (f CollegeFilter) Matches(c domain.College) bool {
	if f.State != "" && !strings.EqualFold(c.State, f.State) {
		return false
	}
	if f.City != "" && !strings.EqualFold(c.District, f.City) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(c.Type, f.Type) {
		return false
	}
	if f.Course != "" {
		found := false
		for _, course := range c.Courses {
			if containsFold(course, f.Course) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Query != "" && !containsFold(c.Name, f.Query) && !containsFold(c.District, f.Query) && !containsFold(c.State, f.Query) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// Page aplica offset/limit; limit <= 0 devuelve todo.
func Page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// CollegeRepository es el directorio de instituciones.
type CollegeRepository interface {
	List(ctx context.Context, filter CollegeFilter) ([]domain.College, error)
	GetByID(ctx context.Context, id string) (domain.College, error)
	Upsert(ctx context.Context, colleges []domain.College) error
}

type CourseRepository interface {
	List(ctx context.Context) ([]domain.Course, error)
	Upsert(ctx context.Context, courses []domain.Course) error
}

type ScholarshipRepository interface {
	List(ctx context.Context) ([]domain.Scholarship, error)
	Upsert(ctx context.Context, scholarships []domain.Scholarship) error
}

type CareerPathRepository interface {
	List(ctx context.Context, stream, degree string) ([]domain.CareerPath, error)
	GetByID(ctx context.Context, id string) (domain.CareerPath, error)
	Upsert(ctx context.Context, paths []domain.CareerPath) error
}

type TimelineRepository interface {
	List(ctx context.Context, category string) ([]domain.TimelineEvent, error)
	Upcoming(ctx context.Context, now time.Time, limit int) ([]domain.TimelineEvent, error)
	Upsert(ctx context.Context, events []domain.TimelineEvent) error
}

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// AnswerRepository guarda el progreso del assessment por usuario.
type AnswerRepository interface {
	Upsert(ctx context.Context, userID, questionID string, value domain.AnswerValue) error
	List(ctx context.Context, userID string) (domain.AnswerSet, error)
	Clear(ctx context.Context, userID string) error
}

// RecommendationRepository persiste resultados y busca perfiles parecidos.
type RecommendationRepository interface {
	Create(ctx context.Context, rec domain.StoredRecommendation) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.StoredRecommendation, error)
	// FindSimilar devuelve la ultima recomendacion de otros usuarios, por cercania del vector de streams.
	FindSimilar(ctx context.Context, userID string, vector []float32, limit int) ([]domain.StoredRecommendation, error)
}
