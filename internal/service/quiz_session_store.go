package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"edupath/internal/recommend"
)

var (
	ErrSessionNotFound  = errors.New("quiz session not found")
	ErrSessionForbidden = errors.New("quiz session belongs to another user")
)

// QuizSession es el estado serializable de un quiz en curso.
type QuizSession struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id,omitempty"`
	Snapshot  recommend.QuizSnapshot `json:"snapshot"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// QuizSessionStore guarda sesiones con expiracion.
type QuizSessionStore interface {
	Save(ctx context.Context, session QuizSession, ttl time.Duration) error
	Get(ctx context.Context, id string) (QuizSession, error)
	Delete(ctx context.Context, id string) error
}

type memorySessionEntry struct {
	session   QuizSession
	expiresAt time.Time
}

type memoryQuizSessionStore struct {
	mu    sync.Mutex
	items map[string]memorySessionEntry
}

func NewMemoryQuizSessionStore() QuizSessionStore {
	return &memoryQuizSessionStore{items: make(map[string]memorySessionEntry)}
}

func (s *memoryQuizSessionStore) Save(_ context.Context, session QuizSession, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[session.ID] = memorySessionEntry{session: session, expiresAt: time.Now().UTC().Add(ttl)}
	return nil
}

func (s *memoryQuizSessionStore) Get(_ context.Context, id string) (QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[id]
	if !ok {
		return QuizSession{}, ErrSessionNotFound
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(s.items, id)
		return QuizSession{}, ErrSessionNotFound
	}
	entry.session.Snapshot.Answers = entry.session.Snapshot.Answers.Clone()
	return entry.session, nil
}

func (s *memoryQuizSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type redisSessionClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisQuizSessionStore struct {
	client redisSessionClient
	prefix string
}

func NewRedisQuizSessionStore(client *redis.Client) QuizSessionStore {
	if client == nil {
		return nil
	}
	return &redisQuizSessionStore{client: client, prefix: "edupath:quiz:"}
}

func (s *redisQuizSessionStore) Save(ctx context.Context, session QuizSession, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+session.ID, payload, ttl).Err()
}

func (s *redisQuizSessionStore) Get(ctx context.Context, id string) (QuizSession, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return QuizSession{}, ErrSessionNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	raw, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return QuizSession{}, ErrSessionNotFound
	}
	if err != nil {
		return QuizSession{}, err
	}
	var session QuizSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return QuizSession{}, err
	}
	return session, nil
}

func (s *redisQuizSessionStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Del(ctx, s.prefix+id).Err()
}
