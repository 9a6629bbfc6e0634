package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"edupath/internal/domain"
)

const (
	cacheKeyQuestions    = "catalog:questions"
	cacheKeyColleges     = "catalog:colleges"
	cacheKeyCourses      = "catalog:courses"
	cacheKeyScholarships = "catalog:scholarships"
)

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// listCache es un read-through sobre Redis. Errores de Redis caen al repositorio.
type listCache[T any] struct {
	client redisKV
	key    string
	ttl    time.Duration
}

func (c listCache[T]) load(ctx context.Context, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if items, ok := c.get(ctx); ok {
		return items, nil
	}
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, items)
	return items, nil
}

func (c listCache[T]) get(ctx context.Context) ([]T, bool) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		return nil, false
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c listCache[T]) set(ctx context.Context, items []T) {
	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = c.client.Set(ctx, c.key, payload, c.ttl).Err()
}

func (c listCache[T]) invalidate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	err := c.client.Del(ctx, c.key).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func newListCache[T any](client redisKV, key string, ttl time.Duration) listCache[T] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return listCache[T]{client: client, key: key, ttl: ttl}
}

// CachedQuestionRepository cachea el banco completo.
type CachedQuestionRepository struct {
	inner QuestionRepository
	cache listCache[domain.Question]
}

func NewCachedQuestionRepository(inner QuestionRepository, client *redis.Client, ttl time.Duration) QuestionRepository {
	if client == nil {
		return inner
	}
	return &CachedQuestionRepository{inner: inner, cache: newListCache[domain.Question](client, cacheKeyQuestions, ttl)}
}

func (r *CachedQuestionRepository) List(ctx context.Context) (domain.QuestionBank, error) {
	return r.cache.load(ctx, func(ctx context.Context) ([]domain.Question, error) {
		return r.inner.List(ctx)
	})
}

func (r *CachedQuestionRepository) ReplaceAll(ctx context.Context, bank domain.QuestionBank) error {
	if err := r.inner.ReplaceAll(ctx, bank); err != nil {
		return err
	}
	return r.cache.invalidate(ctx)
}

// CachedCollegeRepository solo cachea el listado sin filtros que usa el motor.
type CachedCollegeRepository struct {
	inner CollegeRepository
	cache listCache[domain.College]
}

func NewCachedCollegeRepository(inner CollegeRepository, client *redis.Client, ttl time.Duration) CollegeRepository {
	if client == nil {
		return inner
	}
	return &CachedCollegeRepository{inner: inner, cache: newListCache[domain.College](client, cacheKeyColleges, ttl)}
}

func (r *CachedCollegeRepository) List(ctx context.Context, filter CollegeFilter) ([]domain.College, error) {
	if filter != (CollegeFilter{}) {
		return r.inner.List(ctx, filter)
	}
	return r.cache.load(ctx, func(ctx context.Context) ([]domain.College, error) {
		return r.inner.List(ctx, filter)
	})
}

func (r *CachedCollegeRepository) GetByID(ctx context.Context, id string) (domain.College, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *CachedCollegeRepository) Upsert(ctx context.Context, colleges []domain.College) error {
	if err := r.inner.Upsert(ctx, colleges); err != nil {
		return err
	}
	return r.cache.invalidate(ctx)
}

type CachedCourseRepository struct {
	inner CourseRepository
	cache listCache[domain.Course]
}

func NewCachedCourseRepository(inner CourseRepository, client *redis.Client, ttl time.Duration) CourseRepository {
	if client == nil {
		return inner
	}
	return &CachedCourseRepository{inner: inner, cache: newListCache[domain.Course](client, cacheKeyCourses, ttl)}
}

func (r *CachedCourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	return r.cache.load(ctx, r.inner.List)
}

func (r *CachedCourseRepository) Upsert(ctx context.Context, courses []domain.Course) error {
	if err := r.inner.Upsert(ctx, courses); err != nil {
		return err
	}
	return r.cache.invalidate(ctx)
}

type CachedScholarshipRepository struct {
	inner ScholarshipRepository
	cache listCache[domain.Scholarship]
}

func NewCachedScholarshipRepository(inner ScholarshipRepository, client *redis.Client, ttl time.Duration) ScholarshipRepository {
	if client == nil {
		return inner
	}
	return &CachedScholarshipRepository{inner: inner, cache: newListCache[domain.Scholarship](client, cacheKeyScholarships, ttl)}
}

func (r *CachedScholarshipRepository) List(ctx context.Context) ([]domain.Scholarship, error) {
	return r.cache.load(ctx, r.inner.List)
}

func (r *CachedScholarshipRepository) Upsert(ctx context.Context, scholarships []domain.Scholarship) error {
	if err := r.inner.Upsert(ctx, scholarships); err != nil {
		return err
	}
	return r.cache.invalidate(ctx)
}
