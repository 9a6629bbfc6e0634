package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"edupath/internal/domain"
	"edupath/internal/recommend"
)

// QuizView es lo que ve el cliente despues de cada paso.
type QuizView struct {
	ID        string                       `json:"id"`
	Index     int                          `json:"index"`
	Total     int                          `json:"total"`
	Current   *domain.Question             `json:"current,omitempty"`
	Answers   domain.AnswerSet             `json:"answers"`
	Completed bool                         `json:"completed"`
	Result    *domain.RecommendationResult `json:"result,omitempty"`
}

// QuizSessionService mantiene quizzes del lado servidor, un paso por request.
type QuizSessionService struct {
	logger     *zap.Logger
	assessment *AssessmentService
	store      QuizSessionStore
	ttl        time.Duration
}

func NewQuizSessionService(logger *zap.Logger, assessment *AssessmentService, store QuizSessionStore, ttl time.Duration) *QuizSessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryQuizSessionStore()
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &QuizSessionService{logger: logger, assessment: assessment, store: store, ttl: ttl}
}

func (s *QuizSessionService) Start(ctx context.Context, userID string) (QuizView, error) {
	bank, err := s.assessment.Questions(ctx, "")
	if err != nil {
		return QuizView{}, err
	}
	now := time.Now().UTC()
	session := QuizSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Snapshot:  recommend.NewQuiz(bank).Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return QuizView{}, fmt.Errorf("save quiz session: %w", err)
	}
	return s.view(ctx, session, recommend.NewQuiz(bank), nil)
}

// Los pasos reciben el usuario del token (vacio si es anonimo). Una sesion
// asociada a un usuario solo la maneja ese usuario.
func (s *QuizSessionService) Get(ctx context.Context, id, callerID string) (QuizView, error) {
	return s.step(ctx, id, callerID, func(*recommend.Quiz) error { return nil })
}

func (s *QuizSessionService) Answer(ctx context.Context, id, callerID, questionID string, value domain.AnswerValue) (QuizView, error) {
	return s.step(ctx, id, callerID, func(q *recommend.Quiz) error {
		return q.Answer(questionID, value)
	})
}

func (s *QuizSessionService) Next(ctx context.Context, id, callerID string) (QuizView, error) {
	return s.step(ctx, id, callerID, func(q *recommend.Quiz) error {
		_, err := q.Next()
		return err
	})
}

func (s *QuizSessionService) Previous(ctx context.Context, id, callerID string) (QuizView, error) {
	return s.step(ctx, id, callerID, func(q *recommend.Quiz) error {
		return q.Previous()
	})
}

func (s *QuizSessionService) Reset(ctx context.Context, id, callerID string) (QuizView, error) {
	return s.step(ctx, id, callerID, func(q *recommend.Quiz) error {
		q.Reset()
		return nil
	})
}

// step restaura el quiz, aplica op y guarda el snapshot. Al completarse evalua y,
// si la sesion tiene usuario, persiste la recomendacion antes de guardar el
// snapshot completo: si algo falla la sesion queda en la ultima pregunta y el
// cliente puede reintentar Next.
func (s *QuizSessionService) step(ctx context.Context, id, callerID string, op func(*recommend.Quiz) error) (QuizView, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return QuizView{}, err
	}
	if session.UserID != "" && session.UserID != callerID {
		return QuizView{}, ErrSessionForbidden
	}
	bank, err := s.assessment.Questions(ctx, "")
	if err != nil {
		return QuizView{}, err
	}
	quiz, err := recommend.RestoreQuiz(bank, session.Snapshot)
	if err != nil {
		return QuizView{}, err
	}

	var completed domain.AnswerSet
	quiz.OnComplete = func(answers domain.AnswerSet) { completed = answers }

	if err := op(quiz); err != nil {
		return QuizView{}, err
	}

	var result *domain.RecommendationResult
	if completed != nil {
		r, err := s.assessment.Evaluate(ctx, completed)
		if err != nil {
			return QuizView{}, err
		}
		if session.UserID != "" {
			if _, err := s.assessment.Persist(ctx, session.UserID, r); err != nil {
				return QuizView{}, err
			}
		}
		s.logger.Info("quiz session completed", zap.String("session_id", session.ID), zap.String("stream", r.Stream))
		result = &r
	}

	session.Snapshot = quiz.Snapshot()
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return QuizView{}, fmt.Errorf("save quiz session: %w", err)
	}
	return s.view(ctx, session, quiz, result)
}

func (s *QuizSessionService) view(ctx context.Context, session QuizSession, quiz *recommend.Quiz, result *domain.RecommendationResult) (QuizView, error) {
	v := QuizView{
		ID:        session.ID,
		Index:     quiz.Index(),
		Total:     len(quiz.Active()),
		Answers:   quiz.Answers(),
		Completed: quiz.Completed(),
	}
	if current, ok := quiz.Current(); ok && !v.Completed {
		v.Current = &current
	}
	if v.Completed && result == nil {
		r, err := s.assessment.Evaluate(ctx, v.Answers)
		if err != nil {
			return QuizView{}, err
		}
		result = &r
	}
	v.Result = result
	return v, nil
}
