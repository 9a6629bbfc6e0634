package repository

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"edupath/internal/domain"
)

// Adaptadores en memoria: modo desarrollo (STORAGE_DRIVER=memory) y tests.

type MemoryQuestionRepository struct {
	mu   sync.RWMutex
	bank domain.QuestionBank
}

func NewMemoryQuestionRepository(bank domain.QuestionBank) *MemoryQuestionRepository {
	return &MemoryQuestionRepository{bank: bank}
}

func (r *MemoryQuestionRepository) List(_ context.Context) (domain.QuestionBank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(domain.QuestionBank(nil), r.bank...), nil
}

func (r *MemoryQuestionRepository) ReplaceAll(_ context.Context, bank domain.QuestionBank) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bank = append(domain.QuestionBank(nil), bank...)
	return nil
}

// memoryTable guarda registros por id preservando el orden de insercion.
type memoryTable[T any] struct {
	mu    sync.RWMutex
	order []string
	items map[string]T
	id    func(T) string
}

func newMemoryTable[T any](id func(T) string, seed []T) *memoryTable[T] {
	t := &memoryTable[T]{items: make(map[string]T), id: id}
	t.upsert(seed)
	return t
}

func (t *memoryTable[T]) upsert(items []T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, item := range items {
		key := t.id(item)
		if _, ok := t.items[key]; !ok {
			t.order = append(t.order, key)
		}
		t.items[key] = item
	}
}

func (t *memoryTable[T]) all() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.items[key])
	}
	return out
}

func (t *memoryTable[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	item, ok := t.items[id]
	return item, ok
}

type MemoryCollegeRepository struct {
	table *memoryTable[domain.College]
}

func NewMemoryCollegeRepository(seed []domain.College) *MemoryCollegeRepository {
	return &MemoryCollegeRepository{table: newMemoryTable(func(c domain.College) string { return c.ID }, seed)}
}

func (r *MemoryCollegeRepository) List(_ context.Context, filter CollegeFilter) ([]domain.College, error) {
	out := []domain.College{}
	for _, c := range r.table.all() {
		if filter.Matches(c) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return Page(out, filter.Limit, filter.Offset), nil
}

func (r *MemoryCollegeRepository) GetByID(_ context.Context, id string) (domain.College, error) {
	c, ok := r.table.get(id)
	if !ok {
		return domain.College{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryCollegeRepository) Upsert(_ context.Context, colleges []domain.College) error {
	r.table.upsert(colleges)
	return nil
}

type MemoryCourseRepository struct {
	table *memoryTable[domain.Course]
}

func NewMemoryCourseRepository(seed []domain.Course) *MemoryCourseRepository {
	return &MemoryCourseRepository{table: newMemoryTable(func(c domain.Course) string { return c.ID }, seed)}
}

func (r *MemoryCourseRepository) List(_ context.Context) ([]domain.Course, error) {
	return r.table.all(), nil
}

func (r *MemoryCourseRepository) Upsert(_ context.Context, courses []domain.Course) error {
	r.table.upsert(courses)
	return nil
}

type MemoryScholarshipRepository struct {
	table *memoryTable[domain.Scholarship]
}

func NewMemoryScholarshipRepository(seed []domain.Scholarship) *MemoryScholarshipRepository {
	return &MemoryScholarshipRepository{table: newMemoryTable(func(s domain.Scholarship) string { return s.ID }, seed)}
}

func (r *MemoryScholarshipRepository) List(_ context.Context) ([]domain.Scholarship, error) {
	return r.table.all(), nil
}

func (r *MemoryScholarshipRepository) Upsert(_ context.Context, scholarships []domain.Scholarship) error {
	r.table.upsert(scholarships)
	return nil
}

type MemoryCareerPathRepository struct {
	table *memoryTable[domain.CareerPath]
}

func NewMemoryCareerPathRepository(seed []domain.CareerPath) *MemoryCareerPathRepository {
	return &MemoryCareerPathRepository{table: newMemoryTable(func(p domain.CareerPath) string { return p.ID }, seed)}
}

func (r *MemoryCareerPathRepository) List(_ context.Context, stream, degree string) ([]domain.CareerPath, error) {
	out := []domain.CareerPath{}
	for _, p := range r.table.all() {
		if stream != "" && !strings.EqualFold(p.Stream, stream) {
			continue
		}
		if degree != "" && !strings.EqualFold(p.Degree, degree) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *MemoryCareerPathRepository) GetByID(_ context.Context, id string) (domain.CareerPath, error) {
	p, ok := r.table.get(id)
	if !ok {
		return domain.CareerPath{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryCareerPathRepository) Upsert(_ context.Context, paths []domain.CareerPath) error {
	r.table.upsert(paths)
	return nil
}

type MemoryTimelineRepository struct {
	table *memoryTable[domain.TimelineEvent]
}

func NewMemoryTimelineRepository(seed []domain.TimelineEvent) *MemoryTimelineRepository {
	return &MemoryTimelineRepository{table: newMemoryTable(func(e domain.TimelineEvent) string { return e.ID }, seed)}
}

func (r *MemoryTimelineRepository) List(_ context.Context, category string) ([]domain.TimelineEvent, error) {
	out := []domain.TimelineEvent{}
	for _, e := range r.table.all() {
		if category == "" || e.Category == category {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *MemoryTimelineRepository) Upcoming(ctx context.Context, now time.Time, limit int) ([]domain.TimelineEvent, error) {
	if limit <= 0 {
		limit = 5
	}
	all, _ := r.List(ctx, "")
	out := []domain.TimelineEvent{}
	for _, e := range all {
		if !e.EndsAt.Before(now) {
			out = append(out, e)
		}
	}
	return Page(out, limit, 0), nil
}

func (r *MemoryTimelineRepository) Upsert(_ context.Context, events []domain.TimelineEvent) error {
	r.table.upsert(events)
	return nil
}

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

type MemoryAnswerRepository struct {
	mu      sync.Mutex
	answers map[string]domain.AnswerSet
}

func NewMemoryAnswerRepository() *MemoryAnswerRepository {
	return &MemoryAnswerRepository{answers: make(map[string]domain.AnswerSet)}
}

func (r *MemoryAnswerRepository) Upsert(_ context.Context, userID, questionID string, value domain.AnswerValue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.answers[userID]
	if !ok {
		set = make(domain.AnswerSet)
		r.answers[userID] = set
	}
	set.Set(questionID, value)
	return nil
}

func (r *MemoryAnswerRepository) List(_ context.Context, userID string) (domain.AnswerSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answers[userID].Clone(), nil
}

func (r *MemoryAnswerRepository) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.answers, userID)
	return nil
}

type MemoryRecommendationRepository struct {
	mu   sync.RWMutex
	recs []domain.StoredRecommendation
}

func NewMemoryRecommendationRepository() *MemoryRecommendationRepository {
	return &MemoryRecommendationRepository{}
}

func (r *MemoryRecommendationRepository) Create(_ context.Context, rec domain.StoredRecommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs = append(r.recs, rec)
	return nil
}

func (r *MemoryRecommendationRepository) ListByUser(_ context.Context, userID string, limit int) ([]domain.StoredRecommendation, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.StoredRecommendation{}
	for i := len(r.recs) - 1; i >= 0; i-- {
		if r.recs[i].UserID == userID {
			out = append(out, r.recs[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return Page(out, limit, 0), nil
}

// FindSimilar replica la distancia L2 de pgvector sobre la ultima recomendacion de cada usuario.
func (r *MemoryRecommendationRepository) FindSimilar(_ context.Context, userID string, vector []float32, limit int) ([]domain.StoredRecommendation, error) {
	if limit <= 0 {
		limit = 5
	}
	r.mu.RLock()
	latest := make(map[string]domain.StoredRecommendation)
	for _, rec := range r.recs {
		if rec.UserID == userID {
			continue
		}
		if prev, ok := latest[rec.UserID]; !ok || !rec.CreatedAt.Before(prev.CreatedAt) {
			latest[rec.UserID] = rec
		}
	}
	r.mu.RUnlock()

	out := make([]domain.StoredRecommendation, 0, len(latest))
	for _, rec := range latest {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := l2(out[i].StreamVector, vector), l2(out[j].StreamVector, vector)
		if di != dj {
			return di < dj
		}
		return out[i].UserID < out[j].UserID
	})
	return Page(out, limit, 0), nil
}

func l2(a, b []float32) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		var x, y float64
		if i < len(a) {
			x = float64(a[i])
		}
		if i < len(b) {
			y = float64(b[i])
		}
		sum += (x - y) * (x - y)
	}
	return math.Sqrt(sum)
}
