package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/support-bot/internal/domain/support"
	"github.com/yanqian/support-bot/internal/infra/config"
	apperrors "github.com/yanqian/support-bot/pkg/errors"
)

type stubService struct {
	answerFn   func(ctx context.Context, req support.Request) (support.Response, error)
	trendingFn func(ctx context.Context) ([]support.TrendingQuery, error)
	sessionFn  func(ctx context.Context, id string) (support.Session, bool, error)
	resetFn    func(ctx context.Context, id string) error
}

func (s *stubService) Answer(ctx context.Context, req support.Request) (support.Response, error) {
	if s.answerFn == nil {
		return support.Response{}, nil
	}
	return s.answerFn(ctx, req)
}

func (s *stubService) Trending(ctx context.Context) ([]support.TrendingQuery, error) {
	if s.trendingFn == nil {
		return nil, nil
	}
	return s.trendingFn(ctx)
}

func (s *stubService) Session(ctx context.Context, id string) (support.Session, bool, error) {
	if s.sessionFn == nil {
		return support.Session{}, false, nil
	}
	return s.sessionFn(ctx, id)
}

func (s *stubService) ResetSession(ctx context.Context, id string) error {
	if s.resetFn == nil {
		return nil
	}
	return s.resetFn(ctx, id)
}

func newRouterUnderTest(t *testing.T, svc support.Service) http.Handler {
	t.Helper()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{Address: ":0"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewRouter(cfg, NewHandler(svc, logger))
	return server.Handler
}

func performRequest(method, path, body string, handler http.Handler) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeErrorBody(t *testing.T, payload []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(payload, &body))
	return body
}

func TestRouter_AskSuccess(t *testing.T) {
	resp := support.Response{
		Answer:        "Click 'Forgot password' on the login page.",
		Source:        support.SourceFAQ,
		Confidence:    1.0,
		ConfidencePct: 100,
		SessionID:     "abc",
	}
	svc := &stubService{
		answerFn: func(ctx context.Context, req support.Request) (support.Response, error) {
			require.Equal(t, "How do I reset my password?", req.Question)
			return resp, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/ask", `{"question":"How do I reset my password?"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got support.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, resp, got)
}

func TestRouter_AskInvalidJSON(t *testing.T) {
	svc := &stubService{}

	recorder := performRequest(http.MethodPost, "/api/v1/ask", `{"question":123}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_AskEmptyQuestion(t *testing.T) {
	svc := &stubService{
		answerFn: func(ctx context.Context, req support.Request) (support.Response, error) {
			return support.Response{}, apperrors.Wrap("invalid_input", "question cannot be empty", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/ask", `{"question":""}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "question cannot be empty")
}

func TestRouter_AskFallbackFailure(t *testing.T) {
	svc := &stubService{
		answerFn: func(ctx context.Context, req support.Request) (support.Response, error) {
			return support.Response{}, apperrors.Wrap("fallback_error", "fallback reply failed", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/ask", `{"question":"anything"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadGateway, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "fallback_error", errBody["error"]["code"])
}

func TestRouter_Trending(t *testing.T) {
	svc := &stubService{
		trendingFn: func(ctx context.Context) ([]support.TrendingQuery, error) {
			return []support.TrendingQuery{{Query: "How do I reset my password?", Count: 4}}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/trending", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Queries []support.TrendingQuery `json:"queries"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Queries, 1)
	require.Equal(t, int64(4), body.Queries[0].Count)
}

func TestRouter_GetSessionNotFound(t *testing.T) {
	svc := &stubService{
		sessionFn: func(ctx context.Context, id string) (support.Session, bool, error) {
			require.Equal(t, "missing", id)
			return support.Session{}, false, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/sessions/missing", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRouter_GetSessionSuccess(t *testing.T) {
	svc := &stubService{
		sessionFn: func(ctx context.Context, id string) (support.Session, bool, error) {
			return support.Session{ID: id, MessageCount: 3}, true, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/sessions/abc", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got support.Session
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "abc", got.ID)
	require.Equal(t, 3, got.MessageCount)
}

func TestRouter_ResetSession(t *testing.T) {
	reset := false
	svc := &stubService{
		resetFn: func(ctx context.Context, id string) error {
			reset = true
			require.Equal(t, "abc", id)
			return nil
		},
	}

	recorder := performRequest(http.MethodDelete, "/api/v1/sessions/abc", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.True(t, reset)
}

func TestRouter_Health(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/healthz", "", newRouterUnderTest(t, &stubService{}))
	require.Equal(t, http.StatusOK, recorder.Code)
}
