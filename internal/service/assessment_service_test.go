package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"edupath/internal/catalog"
	"edupath/internal/domain"
	"edupath/internal/metrics"
	"edupath/internal/recommend"
	"edupath/internal/repository"
)

type testDeps struct {
	svc      *AssessmentService
	answers  *repository.MemoryAnswerRepository
	recs     *repository.MemoryRecommendationRepository
	timeline *repository.MemoryTimelineRepository
	careers  *repository.MemoryCareerPathRepository
}

func newTestAssessment(t *testing.T) testDeps {
	t.Helper()
	return newTestAssessmentWithRecs(t, nil)
}

// newTestAssessmentWithRecs permite reemplazar el repositorio de recomendaciones.
func newTestAssessmentWithRecs(t *testing.T, recs repository.RecommendationRepository) testDeps {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	engine, err := recommend.NewEngine(recommend.DefaultStreamTable())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	d := testDeps{
		answers:  repository.NewMemoryAnswerRepository(),
		recs:     repository.NewMemoryRecommendationRepository(),
		timeline: repository.NewMemoryTimelineRepository(cat.Timeline),
		careers:  repository.NewMemoryCareerPathRepository(cat.CareerPaths),
	}
	if recs == nil {
		recs = d.recs
	}
	d.svc = NewAssessmentService(zap.NewNop(), engine, AssessmentRepos{
		Questions:       repository.NewMemoryQuestionRepository(cat.Questions),
		Colleges:        repository.NewMemoryCollegeRepository(cat.Inventory.Colleges),
		Courses:         repository.NewMemoryCourseRepository(cat.Inventory.Courses),
		Scholarships:    repository.NewMemoryScholarshipRepository(cat.Inventory.Scholarships),
		Answers:         d.answers,
		Recommendations: recs,
	}, metrics.NewMetrics(prometheus.NewRegistry()))
	return d
}

// scienceAnswers responde todas las preguntas activas del banco por defecto.
func scienceAnswers() domain.AnswerSet {
	return domain.AnswerSet{
		"academic_1":    domain.Single("excellent"),
		"academic_2":    domain.Multiple("mathematics", "science"),
		"interest_1":    domain.Single("problem_solving"),
		"career_1":      domain.Multiple("engineer"),
		"future_1":      domain.Single("engineering"),
		"family_income": domain.Single("above_10l"),
		"preference_1":  domain.Single("no_preference"),
		"preference_2":  domain.Single("not_important"),
		"location_1":    domain.Single("anywhere"),
	}
}

func TestAssessmentServiceEvaluate(t *testing.T) {
	d := newTestAssessment(t)

	result, err := d.svc.Evaluate(context.Background(), scienceAnswers())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result.Stream != "science" {
		t.Fatalf("expected science, got %q (%v)", result.Stream, result.StreamScores)
	}
	if len(result.Colleges) == 0 || len(result.Colleges) > 5 {
		t.Fatalf("unexpected college count %d", len(result.Colleges))
	}
	if result.AcademicTier != "excellent" {
		t.Fatalf("unexpected tier %q", result.AcademicTier)
	}
}

func TestAssessmentServiceEvaluateRequiresCompleteAnswers(t *testing.T) {
	d := newTestAssessment(t)
	answers := scienceAnswers()
	delete(answers, "preference_2")

	_, err := d.svc.Evaluate(context.Background(), answers)
	var incomplete *recommend.IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteError, got %v", err)
	}
	if len(incomplete.Missing) != 1 || incomplete.Missing[0] != "preference_2" {
		t.Fatalf("unexpected missing list %v", incomplete.Missing)
	}

	// location_1=tamil_nadu activa location_2
	answers = scienceAnswers()
	answers.Set("location_1", domain.Single("tamil_nadu"))
	_, err = d.svc.Evaluate(context.Background(), answers)
	if !errors.As(err, &incomplete) || incomplete.Missing[0] != "location_2" {
		t.Fatalf("expected location_2 missing, got %v", err)
	}
}

func TestAssessmentServiceSubmitAnswer(t *testing.T) {
	d := newTestAssessment(t)
	ctx := context.Background()

	if err := d.svc.SubmitAnswer(ctx, "u1", "academic_1", domain.Single("good")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	var dce *recommend.DataConsistencyError
	if err := d.svc.SubmitAnswer(ctx, "u1", "academic_1", domain.Single("genius")); !errors.As(err, &dce) {
		t.Fatalf("expected DataConsistencyError for unknown option, got %v", err)
	}
	if err := d.svc.SubmitAnswer(ctx, "u1", "ghost", domain.Single("x")); !errors.As(err, &dce) {
		t.Fatalf("expected DataConsistencyError for unknown question, got %v", err)
	}

	stored, _ := d.answers.List(ctx, "u1")
	if stored.Get("academic_1").First() != "good" {
		t.Fatalf("expected stored answer, got %+v", stored)
	}

	if err := d.svc.SubmitAnswer(ctx, "u1", "academic_1", domain.AnswerValue{}); err != nil {
		t.Fatalf("clear answer: %v", err)
	}
	stored, _ = d.answers.List(ctx, "u1")
	if len(stored) != 0 {
		t.Fatalf("expected answer removed, got %+v", stored)
	}
}

func TestAssessmentServiceResultsForUserPersists(t *testing.T) {
	d := newTestAssessment(t)
	ctx := context.Background()

	for id, v := range scienceAnswers() {
		if err := d.svc.SubmitAnswer(ctx, "u1", id, v); err != nil {
			t.Fatalf("submit %s: %v", id, err)
		}
	}
	rec, err := d.svc.ResultsForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if rec.Stream != "science" || rec.Model != EngineModel {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(rec.StreamVector) != len(recommend.DefaultStreamTable()) {
		t.Fatalf("expected one vector entry per stream, got %v", rec.StreamVector)
	}

	history, err := d.svc.History(ctx, "u1", 10)
	if err != nil || len(history) != 1 || history[0].ID != rec.ID {
		t.Fatalf("unexpected history %+v, %v", history, err)
	}
}

func TestAssessmentServiceSimilar(t *testing.T) {
	d := newTestAssessment(t)
	ctx := context.Background()

	if _, err := d.svc.Similar(ctx, "u1", 5); !errors.Is(err, ErrNoRecommendation) {
		t.Fatalf("expected ErrNoRecommendation, got %v", err)
	}

	science, err := d.svc.Evaluate(ctx, scienceAnswers())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	for _, user := range []string{"u1", "u2"} {
		if _, err := d.svc.Persist(ctx, user, science); err != nil {
			t.Fatalf("persist: %v", err)
		}
	}

	similar, err := d.svc.Similar(ctx, "u1", 5)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(similar) != 1 || similar[0].UserID != "u2" {
		t.Fatalf("expected u2 as similar profile, got %+v", similar)
	}
}

func TestAssessmentServiceQuestionsByCategory(t *testing.T) {
	d := newTestAssessment(t)
	qs, err := d.svc.Questions(context.Background(), "location")
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("expected 3 location questions, got %d", len(qs))
	}
}
