package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"edupath/internal/llm"
)

func newTestAdvisory(t *testing.T, client llm.LLMClient, limiter RateLimiter) (*AdvisoryService, testDeps) {
	t.Helper()
	d := newTestAssessment(t)
	svc := NewAdvisoryService(zap.NewNop(), client, d.careers, d.timeline, d.svc, limiter, nil)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return svc, d
}

func TestAdvisoryServiceDisabledWithoutClient(t *testing.T) {
	svc, _ := newTestAdvisory(t, nil, nil)
	if _, err := svc.AnalyzeCareerPath(context.Background(), "B.Tech", "science"); !errors.Is(err, ErrAdvisoryDisabled) {
		t.Fatalf("expected ErrAdvisoryDisabled, got %v", err)
	}
	if _, err := svc.PersonalizedAdvice(context.Background(), "u1"); !errors.Is(err, ErrAdvisoryDisabled) {
		t.Fatalf("expected ErrAdvisoryDisabled, got %v", err)
	}
}

func TestAdvisoryServiceAnalyzeCareerPath(t *testing.T) {
	mock := &llm.MockClient{Response: "```json\n{\"job_prospects\":[\"Software Engineer\"],\"salary_range\":\"4-12 LPA\",\"growth_opportunities\":[\"M.Tech\"],\"required_skills\":[\"DSA\"],\"industry_trends\":[\"AI\"]}\n```"}
	svc, _ := newTestAdvisory(t, mock, nil)

	analysis, err := svc.AnalyzeCareerPath(context.Background(), "B.Tech", "science")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if analysis.SalaryRange != "4-12 LPA" || len(analysis.JobProspects) != 1 {
		t.Fatalf("unexpected analysis %+v", analysis)
	}
	if len(mock.Prompts) != 1 || !strings.Contains(mock.Prompts[0], "Degree: B.Tech") {
		t.Fatalf("unexpected prompt %+v", mock.Prompts)
	}
}

func TestAdvisoryServiceInvalidModelOutput(t *testing.T) {
	svc, _ := newTestAdvisory(t, &llm.MockClient{Response: "lo siento, no puedo"}, nil)
	if _, err := svc.AnalyzeCareerPath(context.Background(), "B.Com", "commerce"); !errors.Is(err, ErrInvalidAdvice) {
		t.Fatalf("expected ErrInvalidAdvice, got %v", err)
	}

	svc, _ = newTestAdvisory(t, &llm.MockClient{Err: errors.New("timeout")}, nil)
	if _, err := svc.AnalyzeCareerPath(context.Background(), "B.Com", "commerce"); err == nil || errors.Is(err, ErrInvalidAdvice) {
		t.Fatalf("expected wrapped generate error, got %v", err)
	}
}

func TestAdvisoryServicePersonalizedAdvice(t *testing.T) {
	mock := &llm.MockClient{Response: `Aqui tienes: {"summary":"Vas bien","next_steps":["Aplicar a JEE"],"tips":["Practica"]}`}
	svc, d := newTestAdvisory(t, mock, NewMemoryRateLimiter(time.Hour, 1))
	ctx := context.Background()

	result, err := d.svc.Evaluate(ctx, scienceAnswers())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if _, err := d.svc.Persist(ctx, "u1", result); err != nil {
		t.Fatalf("persist: %v", err)
	}

	dash, err := svc.PersonalizedAdvice(ctx, "u1")
	if err != nil {
		t.Fatalf("advice: %v", err)
	}
	if dash.Advice.Summary != "Vas bien" || dash.Recommendation == nil {
		t.Fatalf("unexpected dashboard %+v", dash)
	}
	if !strings.Contains(mock.Prompts[0], "Recommended stream: science") {
		t.Fatalf("expected stream in prompt, got %q", mock.Prompts[0])
	}

	if _, err := svc.PersonalizedAdvice(ctx, "u1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestAdvisoryServiceAdviceWithoutAssessment(t *testing.T) {
	mock := &llm.MockClient{Response: `{"summary":"Empieza el test","next_steps":[],"tips":[]}`}
	svc, _ := newTestAdvisory(t, mock, nil)

	dash, err := svc.PersonalizedAdvice(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("advice: %v", err)
	}
	if dash.Recommendation != nil {
		t.Fatalf("expected no recommendation")
	}
	if !strings.Contains(mock.Prompts[0], "has not completed the assessment") {
		t.Fatalf("unexpected prompt %q", mock.Prompts[0])
	}
}

func TestAdvisoryServiceProviderDown(t *testing.T) {
	mock := &llm.MockClient{Err: fmt.Errorf("%w: circuit open", llm.ErrUnavailable)}
	svc, _ := newTestAdvisory(t, mock, nil)
	if _, err := svc.AnalyzeCareerPath(context.Background(), "B.Com", "commerce"); !errors.Is(err, ErrAdvisoryDown) {
		t.Fatalf("expected ErrAdvisoryDown, got %v", err)
	}
}
