package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joaopdss/news-article-agent/internal/agent"
	"github.com/joaopdss/news-article-agent/internal/article"
)

type fakeAnswerer struct {
	lastQuery string
	resp      agent.Response
}

func (f *fakeAnswerer) Answer(_ context.Context, query string) agent.Response {
	f.lastQuery = query
	return f.resp
}

func newTestServer(t *testing.T, answerer Answerer) *Server {
	t.Helper()
	s, err := NewServer(answerer, zap.NewNop(), nil)
	require.NoError(t, err)
	return s
}

func TestHandleAgent(t *testing.T) {
	answerer := &fakeAnswerer{resp: agent.Response{
		Answer: "Fires spread north.",
		Sources: []article.Source{{
			Title: "Wildfires", URL: "https://example.com/fires", Date: "2024-01-10",
		}},
	}}
	s := newTestServer(t, answerer)

	req := httptest.NewRequest(http.MethodPost, "/agent", strings.NewReader(`{"query":"what happened in the wildfires"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "what happened in the wildfires", answerer.lastQuery)

	var resp agent.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Fires spread north.", resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "https://example.com/fires", resp.Sources[0].URL)

	// Content never leaves the process.
	assert.NotContains(t, rec.Body.String(), `"content"`)
}

func TestHandleAgentTrimsQuery(t *testing.T) {
	answerer := &fakeAnswerer{}
	s := newTestServer(t, answerer)

	req := httptest.NewRequest(http.MethodPost, "/agent", strings.NewReader(`{"query":"  question  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "question", answerer.lastQuery)
}

func TestHandleAgentRejectsEmptyQuery(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing field", `{}`},
		{"empty query", `{"query":""}`},
		{"whitespace query", `{"query":"   "}`},
		{"malformed json", `{"query":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &fakeAnswerer{})

			req := httptest.NewRequest(http.MethodPost, "/agent", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			s.echo.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &fakeAnswerer{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeAnswerer{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
