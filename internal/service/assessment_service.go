package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"edupath/internal/domain"
	"edupath/internal/metrics"
	"edupath/internal/recommend"
	"edupath/internal/repository"
)

// EngineModel identifica al motor determinista en los resultados persistidos.
const EngineModel = "edupath-engine/v1"

var (
	ErrAssessmentNotConfigured = errors.New("assessment service not configured")
	ErrNoRecommendation        = errors.New("no recommendation yet")
)

// AssessmentRepos agrupa los repositorios que usa el assessment.
type AssessmentRepos struct {
	Questions       repository.QuestionRepository
	Colleges        repository.CollegeRepository
	Courses         repository.CourseRepository
	Scholarships    repository.ScholarshipRepository
	Answers         repository.AnswerRepository
	Recommendations repository.RecommendationRepository
}

// AssessmentService corre el motor de recomendacion sobre respuestas guardadas o recibidas.
type AssessmentService struct {
	logger  *zap.Logger
	engine  *recommend.Engine
	repos   AssessmentRepos
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewAssessmentService(logger *zap.Logger, engine *recommend.Engine, repos AssessmentRepos, m *metrics.Metrics) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		logger:  logger,
		engine:  engine,
		repos:   repos,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Questions devuelve el banco completo, opcionalmente filtrado por categoria.
func (s *AssessmentService) Questions(ctx context.Context, category string) (domain.QuestionBank, error) {
	bank, err := s.repos.Questions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return bank, nil
	}
	out := domain.QuestionBank{}
	for _, q := range bank {
		if strings.EqualFold(string(q.Category), category) {
			out = append(out, q)
		}
	}
	return out, nil
}

// SubmitAnswer valida y guarda (o sobrescribe) una respuesta del usuario.
func (s *AssessmentService) SubmitAnswer(ctx context.Context, userID, questionID string, value domain.AnswerValue) error {
	if s.repos.Answers == nil {
		return ErrAssessmentNotConfigured
	}
	bank, err := s.repos.Questions.List(ctx)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	if !value.IsEmpty() {
		if err := recommend.CheckAnswer(bank, questionID, value); err != nil {
			return err
		}
	} else if _, ok := bank.Find(questionID); !ok {
		return &recommend.DataConsistencyError{QuestionID: questionID}
	}
	return s.repos.Answers.Upsert(ctx, userID, questionID, value)
}

// Inventory carga colleges, cursos y becas en paralelo.
func (s *AssessmentService) Inventory(ctx context.Context) (domain.Inventory, error) {
	var inv domain.Inventory
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		colleges, err := s.repos.Colleges.List(gctx, repository.CollegeFilter{})
		if err != nil {
			return fmt.Errorf("list colleges: %w", err)
		}
		inv.Colleges = colleges
		return nil
	})
	g.Go(func() error {
		courses, err := s.repos.Courses.List(gctx)
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		inv.Courses = courses
		return nil
	})
	g.Go(func() error {
		scholarships, err := s.repos.Scholarships.List(gctx)
		if err != nil {
			return fmt.Errorf("list scholarships: %w", err)
		}
		inv.Scholarships = scholarships
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Inventory{}, err
	}
	return inv, nil
}

// Evaluate puntua un set completo de respuestas sin persistir nada.
func (s *AssessmentService) Evaluate(ctx context.Context, answers domain.AnswerSet) (domain.RecommendationResult, error) {
	bank, err := s.repos.Questions.List(ctx)
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("list questions: %w", err)
	}
	inv, err := s.Inventory(ctx)
	if err != nil {
		return domain.RecommendationResult{}, err
	}
	return s.run(recommend.Input{Bank: bank, Answers: answers, Inventory: inv, RequireComplete: true})
}

func (s *AssessmentService) run(in recommend.Input) (domain.RecommendationResult, error) {
	start := time.Now()
	out, err := s.engine.Recommend(in)
	if err != nil {
		return domain.RecommendationResult{}, err
	}
	for _, d := range out.Diagnostics {
		s.logger.Warn("malformed option entry skipped",
			zap.String("question_id", d.QuestionID),
			zap.String("option", d.OptionValue),
			zap.String("key", d.Key),
			zap.String("reason", d.Reason),
		)
	}
	r := out.Result
	s.metrics.ObserveEvaluation(r.Stream, time.Since(start), r.Totals.Colleges, r.Totals.Courses, r.Totals.Scholarships, len(out.Diagnostics))
	return r, nil
}

// ResultsForUser evalua las respuestas guardadas del usuario y persiste el resultado.
func (s *AssessmentService) ResultsForUser(ctx context.Context, userID string) (domain.StoredRecommendation, error) {
	if s.repos.Answers == nil {
		return domain.StoredRecommendation{}, ErrAssessmentNotConfigured
	}
	answers, err := s.repos.Answers.List(ctx, userID)
	if err != nil {
		return domain.StoredRecommendation{}, fmt.Errorf("list answers: %w", err)
	}
	result, err := s.Evaluate(ctx, answers)
	if err != nil {
		return domain.StoredRecommendation{}, err
	}
	return s.Persist(ctx, userID, result)
}

// Persist guarda un resultado con su vector de streams para busquedas por similitud.
func (s *AssessmentService) Persist(ctx context.Context, userID string, result domain.RecommendationResult) (domain.StoredRecommendation, error) {
	rec := domain.StoredRecommendation{
		ID:           uuid.NewString(),
		UserID:       userID,
		Stream:       result.Stream,
		StreamVector: s.engine.Streams().Vector(result.StreamScores),
		Result:       result,
		Model:        EngineModel,
		CreatedAt:    s.now(),
	}
	if s.repos.Recommendations == nil {
		return rec, nil
	}
	if err := s.repos.Recommendations.Create(ctx, rec); err != nil {
		return domain.StoredRecommendation{}, fmt.Errorf("store recommendation: %w", err)
	}
	s.logger.Info("recommendation stored",
		zap.String("user_id", userID),
		zap.String("recommendation_id", rec.ID),
		zap.String("stream", rec.Stream),
	)
	return rec, nil
}

func (s *AssessmentService) History(ctx context.Context, userID string, limit int) ([]domain.StoredRecommendation, error) {
	return s.repos.Recommendations.ListByUser(ctx, userID, limit)
}

// Latest devuelve la recomendacion mas reciente del usuario.
func (s *AssessmentService) Latest(ctx context.Context, userID string) (domain.StoredRecommendation, error) {
	recs, err := s.repos.Recommendations.ListByUser(ctx, userID, 1)
	if err != nil {
		return domain.StoredRecommendation{}, err
	}
	if len(recs) == 0 {
		return domain.StoredRecommendation{}, ErrNoRecommendation
	}
	return recs[0], nil
}

// Similar busca perfiles de otros estudiantes cercanos al ultimo resultado del usuario.
func (s *AssessmentService) Similar(ctx context.Context, userID string, limit int) ([]domain.StoredRecommendation, error) {
	latest, err := s.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repos.Recommendations.FindSimilar(ctx, userID, latest.StreamVector, limit)
}

// Reset borra el progreso guardado del usuario.
func (s *AssessmentService) Reset(ctx context.Context, userID string) error {
	if s.repos.Answers == nil {
		return ErrAssessmentNotConfigured
	}
	return s.repos.Answers.Clear(ctx, userID)
}
