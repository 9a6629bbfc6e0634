package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"edupath/internal/domain"
	"edupath/internal/llm"
	"edupath/internal/metrics"
	"edupath/internal/repository"
)

var (
	ErrAdvisoryDisabled = errors.New("advisory is not configured")
	ErrRateLimited      = errors.New("rate limited")
	ErrInvalidAdvice    = errors.New("advisory model returned an invalid answer")
	ErrAdvisoryDown     = errors.New("advisory model temporarily unavailable")
)

const (
	advisoryKindAnalyze   = "analyze"
	advisoryKindDashboard = "dashboard"
)

// Dashboard junta el consejo del modelo con el contexto que lo origino.
type Dashboard struct {
	Advice         domain.Advice                `json:"advice"`
	Recommendation *domain.StoredRecommendation `json:"recommendation,omitempty"`
	Upcoming       []domain.TimelineEvent       `json:"upcoming"`
}

// AdvisoryService arma prompts y parsea la salida JSON del LLM.
type AdvisoryService struct {
	logger     *zap.Logger
	llmClient  llm.LLMClient
	careers    repository.CareerPathRepository
	timeline   repository.TimelineRepository
	assessment *AssessmentService
	limiter    RateLimiter
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewAdvisoryService(
	logger *zap.Logger,
	llmClient llm.LLMClient,
	careers repository.CareerPathRepository,
	timeline repository.TimelineRepository,
	assessment *AssessmentService,
	limiter RateLimiter,
	m *metrics.Metrics,
) *AdvisoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisoryService{
		logger:     logger,
		llmClient:  llmClient,
		careers:    careers,
		timeline:   timeline,
		assessment: assessment,
		limiter:    limiter,
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *AdvisoryService) Enabled() bool {
	return s != nil && s.llmClient != nil
}

// AnalyzeCareerPath pide al modelo un panorama laboral para un grado.
func (s *AdvisoryService) AnalyzeCareerPath(ctx context.Context, degree, stream string) (domain.CareerAnalysis, error) {
	if !s.Enabled() {
		return domain.CareerAnalysis{}, ErrAdvisoryDisabled
	}
	degree = strings.TrimSpace(degree)
	stream = strings.TrimSpace(stream)

	known, err := s.careers.List(ctx, stream, degree)
	if err != nil {
		return domain.CareerAnalysis{}, fmt.Errorf("list career paths: %w", err)
	}

	var analysis domain.CareerAnalysis
	if err := s.generate(ctx, advisoryKindAnalyze, buildAnalyzePrompt(degree, stream, known), &analysis); err != nil {
		return domain.CareerAnalysis{}, err
	}
	return analysis, nil
}

// PersonalizedAdvice arma el dashboard del usuario: ultimo resultado, fechas proximas y consejo.
func (s *AdvisoryService) PersonalizedAdvice(ctx context.Context, userID string) (Dashboard, error) {
	if !s.Enabled() {
		return Dashboard{}, ErrAdvisoryDisabled
	}
	if s.limiter != nil && !s.limiter.Allow(userID) {
		s.metrics.ObserveAdvisory(advisoryKindDashboard, "rate_limited")
		return Dashboard{}, ErrRateLimited
	}

	var (
		dash   Dashboard
		latest domain.StoredRecommendation
		found  bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := s.assessment.Latest(gctx, userID)
		if errors.Is(err, ErrNoRecommendation) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("latest recommendation: %w", err)
		}
		latest, found = rec, true
		return nil
	})
	g.Go(func() error {
		events, err := s.timeline.Upcoming(gctx, s.now(), 5)
		if err != nil {
			return fmt.Errorf("upcoming events: %w", err)
		}
		dash.Upcoming = events
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	if found {
		dash.Recommendation = &latest
	}

	if err := s.generate(ctx, advisoryKindDashboard, buildAdvicePrompt(dash.Recommendation, dash.Upcoming), &dash.Advice); err != nil {
		return Dashboard{}, err
	}
	return dash, nil
}

func (s *AdvisoryService) generate(ctx context.Context, kind, prompt string, out any) error {
	raw, err := s.llmClient.Generate(ctx, prompt)
	if errors.Is(err, llm.ErrUnavailable) {
		s.metrics.ObserveAdvisory(kind, "unavailable")
		return ErrAdvisoryDown
	}
	if err != nil {
		s.metrics.ObserveAdvisory(kind, "error")
		s.logger.Warn("advisory generate failed", zap.String("kind", kind), zap.Error(err))
		return fmt.Errorf("advisory generate: %w", err)
	}
	if err := decodeLLMJSON(raw, out); err != nil {
		s.metrics.ObserveAdvisory(kind, "invalid")
		s.logger.Warn("advisory response not parseable", zap.String("kind", kind), zap.Error(err))
		return ErrInvalidAdvice
	}
	s.metrics.ObserveAdvisory(kind, "ok")
	return nil
}

func buildAnalyzePrompt(degree, stream string, known []domain.CareerPath) string {
	var b strings.Builder
	b.WriteString("You are a career counsellor for Indian students choosing higher education.\n")
	fmt.Fprintf(&b, "Degree: %s\nStream: %s\n", degree, stream)
	if len(known) > 0 {
		b.WriteString("Known career paths for this degree:\n")
		for _, p := range known {
			fmt.Fprintf(&b, "- %s: %s (jobs: %s; salary: %s)\n", p.Title, p.Description, strings.Join(p.Jobs, ", "), p.SalaryRange)
		}
	}
	b.WriteString(`Respond ONLY with a JSON object with this shape:
{
  "job_prospects": ["..."],
  "salary_range": "...",
  "growth_opportunities": ["..."],
  "required_skills": ["..."],
  "industry_trends": ["..."]
}`)
	return b.String()
}

func buildAdvicePrompt(rec *domain.StoredRecommendation, upcoming []domain.TimelineEvent) string {
	var b strings.Builder
	b.WriteString("You are a friendly education advisor writing a short dashboard note for a student.\n")
	if rec == nil {
		b.WriteString("The student has not completed the assessment yet. Encourage them to take it.\n")
	} else {
		r := rec.Result
		fmt.Fprintf(&b, "Recommended stream: %s\n", r.Stream)
		if r.AcademicTier != "" {
			fmt.Fprintf(&b, "Academic tier: %s\n", r.AcademicTier)
		}
		if len(r.Colleges) > 0 {
			names := make([]string, 0, len(r.Colleges))
			for _, c := range r.Colleges {
				names = append(names, c.Name)
			}
			fmt.Fprintf(&b, "Top colleges: %s\n", strings.Join(names, "; "))
		}
		if len(r.Courses) > 0 {
			names := make([]string, 0, len(r.Courses))
			for _, c := range r.Courses {
				names = append(names, fmt.Sprintf("%s (%.0f%% match)", c.Course.Name, c.MatchScore))
			}
			fmt.Fprintf(&b, "Top courses: %s\n", strings.Join(names, "; "))
		}
		if len(r.Scholarships) > 0 {
			names := make([]string, 0, len(r.Scholarships))
			for _, sc := range r.Scholarships {
				names = append(names, sc.Name)
			}
			fmt.Fprintf(&b, "Scholarships: %s\n", strings.Join(names, "; "))
		}
	}
	if len(upcoming) > 0 {
		b.WriteString("Upcoming dates:\n")
		for _, e := range upcoming {
			fmt.Fprintf(&b, "- %s (%s) from %s to %s\n", e.Title, e.Category, e.StartsAt.Format("2006-01-02"), e.EndsAt.Format("2006-01-02"))
		}
	}
	b.WriteString(`Respond ONLY with a JSON object with this shape:
{"summary": "...", "next_steps": ["..."], "tips": ["..."]}`)
	return b.String()
}
