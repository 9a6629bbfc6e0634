package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"edupath/internal/domain"
	"edupath/internal/llm"
	"edupath/internal/service"
)

func TestAdvisoryHandler_DisabledWithoutModel(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodPost, "/api/career-paths/analyze", gin.H{"degree": "B.Tech", "stream": "science"}, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAdvisoryHandler_Analyze(t *testing.T) {
	mock := &llm.MockClient{Response: `Claro: {"job_prospects":["Data Analyst"],"salary_range":"3-8 LPA","growth_opportunities":[],"required_skills":["SQL"],"industry_trends":[]}`}
	env := newTestEnv(t, mock, nil)

	rec := env.do(t, http.MethodPost, "/api/career-paths/analyze", gin.H{"degree": "B.Sc Statistics", "stream": "science"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var analysis domain.CareerAnalysis
	decodeBody(t, rec, &analysis)
	if analysis.SalaryRange != "3-8 LPA" || len(analysis.RequiredSkills) != 1 {
		t.Fatalf("unexpected analysis %+v", analysis)
	}

	if rec := env.do(t, http.MethodPost, "/api/career-paths/analyze", gin.H{"stream": "science"}, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without degree, got %d", rec.Code)
	}

	mock.Response = "sin json"
	if rec := env.do(t, http.MethodPost, "/api/career-paths/analyze", gin.H{"degree": "B.A"}, ""); rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for unparseable model output, got %d", rec.Code)
	}
}

func TestAdvisoryHandler_DashboardRateLimited(t *testing.T) {
	mock := &llm.MockClient{Response: `{"summary":"Buen perfil","next_steps":["Prepara JEE"],"tips":[]}`}
	env := newTestEnv(t, mock, service.NewMemoryRateLimiter(time.Minute, 1))
	token := env.token(t, "dash@example.com")

	if rec := env.do(t, http.MethodGet, "/api/dashboard", nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/dashboard", nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dash service.Dashboard
	decodeBody(t, rec, &dash)
	if dash.Advice.Summary != "Buen perfil" || dash.Recommendation != nil {
		t.Fatalf("unexpected dashboard %+v", dash)
	}

	if rec := env.do(t, http.MethodGet, "/api/dashboard", nil, token); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}
