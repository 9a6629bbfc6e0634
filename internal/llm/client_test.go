package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestHTTPClientGenerate(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Fatalf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"summary\":\"ok\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "secret", "gpt-test", zap.NewNop())
	out, err := c.Generate(context.Background(), "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"summary":"ok"}` {
		t.Fatalf("unexpected content %q", out)
	}
	if got.Model != "gpt-test" || len(got.Messages) != 1 || got.Messages[0].Content != "hola" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestHTTPClientGenerateErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "status", status: http.StatusTooManyRequests, body: `{"error":{"message":"slow down"}}`, want: "status=429"},
		{name: "api error", status: http.StatusOK, body: `{"error":{"message":"bad model"}}`, want: "bad model"},
		{name: "empty", status: http.StatusOK, body: `{"choices":[]}`, want: "empty response"},
		{name: "garbage", status: http.StatusOK, body: `not json`, want: "unmarshal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, "k", "m", nil).Generate(context.Background(), "p")
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestMockClientRecordsPrompts(t *testing.T) {
	m := &MockClient{Response: "x"}
	_, _ = m.Generate(context.Background(), "a")
	_, _ = m.Generate(context.Background(), "b")
	if len(m.Prompts) != 2 || m.Prompts[1] != "b" {
		t.Fatalf("unexpected prompts %+v", m.Prompts)
	}
}
