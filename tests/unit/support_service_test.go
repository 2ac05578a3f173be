package unit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/support-bot/internal/domain/matcher"
	"github.com/yanqian/support-bot/internal/domain/support"
	"github.com/yanqian/support-bot/internal/infra/catalog"
	"github.com/yanqian/support-bot/pkg/metrics"
)

type stubStore struct {
	sessions   map[string]support.Session
	increments map[string]int64
	displays   map[string]string
	top        []support.TrendingQuery
	topErr     error
	deleted    []string
}

func newStubStore() *stubStore {
	return &stubStore{
		sessions:   make(map[string]support.Session),
		increments: make(map[string]int64),
		displays:   make(map[string]string),
	}
}

func (s *stubStore) GetSession(_ context.Context, id string) (support.Session, bool, error) {
	session, ok := s.sessions[id]
	return session, ok, nil
}

func (s *stubStore) SaveSession(_ context.Context, session support.Session, _ time.Duration) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *stubStore) DeleteSession(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	delete(s.sessions, id)
	return nil
}

func (s *stubStore) IncrementQuery(_ context.Context, canonical, display string) error {
	s.increments[canonical]++
	s.displays[canonical] = display
	return nil
}

func (s *stubStore) TopQueries(_ context.Context, _ int) ([]support.TrendingQuery, error) {
	return s.top, s.topErr
}

type stubGenerator struct {
	lastQuestion string
	lastSession  support.Session
	reply        support.Reply
	err          error
	calls        int
}

func (g *stubGenerator) Generate(_ context.Context, question string, session support.Session) (support.Reply, error) {
	g.calls++
	g.lastQuestion = question
	g.lastSession = session
	return g.reply, g.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(store support.Store, gen support.Generator, cfg support.Config) support.Service {
	m := matcher.New(matcher.Config{}, catalog.Defaults())
	return support.NewService(cfg, m, store, gen, newTestLogger())
}

func TestAnswerMatchesCatalogEntry(t *testing.T) {
	store := newStubStore()
	gen := &stubGenerator{}
	svc := newTestService(store, gen, support.Config{})

	resp, err := svc.Answer(context.Background(), support.Request{Question: "How do I reset my password?"})
	require.NoError(t, err)

	require.Equal(t, support.SourceFAQ, resp.Source)
	require.Equal(t, "How do I reset my password?", resp.MatchedQuestion)
	require.Contains(t, resp.Answer, "Forgot Password")
	require.InDelta(t, 1.0, resp.Confidence, 1e-9)
	require.Equal(t, 100, resp.ConfidencePct)
	require.NotEmpty(t, resp.SessionID)
	require.Equal(t, 1, resp.MessageNumber)
	require.Zero(t, gen.calls)
	require.Len(t, store.increments, 1)
}

func TestAnswerFallsBackWhenUnmatched(t *testing.T) {
	store := newStubStore()
	usage := metrics.NewTokenUsage(12, 20)
	gen := &stubGenerator{reply: support.Reply{Text: "Let me help anyway.", Usage: &usage}}
	svc := newTestService(store, gen, support.Config{})

	resp, err := svc.Answer(context.Background(), support.Request{Question: "What's the weather today?"})
	require.NoError(t, err)

	require.Equal(t, support.SourceFallback, resp.Source)
	require.Equal(t, "Let me help anyway.", resp.Answer)
	require.Empty(t, resp.MatchedQuestion)
	require.Less(t, resp.Confidence, 0.7)
	require.Equal(t, 1, gen.calls)
	require.Equal(t, "What's the weather today?", gen.lastQuestion)
	require.NotNil(t, resp.TokenUsage)
	require.Equal(t, 32, resp.TokenUsage.TotalTokens)
}

func TestAnswerRejectsEmptyQuestion(t *testing.T) {
	svc := newTestService(newStubStore(), &stubGenerator{}, support.Config{})

	_, err := svc.Answer(context.Background(), support.Request{Question: "   "})
	require.Error(t, err)
}

func TestAnswerSurfacesFallbackFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model unavailable")}
	svc := newTestService(newStubStore(), gen, support.Config{})

	_, err := svc.Answer(context.Background(), support.Request{Question: "Something unanswerable entirely"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "fallback reply failed")
}

func TestAnswerAccumulatesSessionMemory(t *testing.T) {
	store := newStubStore()
	gen := &stubGenerator{reply: support.Reply{Text: "fallback"}}
	svc := newTestService(store, gen, support.Config{MaxRecentQuestions: 2})

	first, err := svc.Answer(context.Background(), support.Request{Question: "Do you offer refunds?"})
	require.NoError(t, err)
	require.Equal(t, 1, first.MessageNumber)

	sessionID := first.SessionID
	questions := []string{
		"Do you have a mobile app?",
		"Is my data secure?",
		"How do I cancel my subscription?",
	}
	var last support.Response
	for _, q := range questions {
		last, err = svc.Answer(context.Background(), support.Request{Question: q, SessionID: sessionID})
		require.NoError(t, err)
		require.Equal(t, sessionID, last.SessionID)
	}
	require.Equal(t, 4, last.MessageNumber)

	session, ok, err := svc.Session(context.Background(), sessionID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 4, session.MessageCount)
	require.Equal(t, []string{"Is my data secure?", "How do I cancel my subscription?"}, session.LastQuestions)
}

func TestAnswerPassesSessionContextToFallback(t *testing.T) {
	store := newStubStore()
	gen := &stubGenerator{reply: support.Reply{Text: "fallback"}}
	svc := newTestService(store, gen, support.Config{})

	first, err := svc.Answer(context.Background(), support.Request{Question: "Completely unrelated nonsense query"})
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), support.Request{
		Question:  "Another unrelated nonsense query",
		SessionID: first.SessionID,
	})
	require.NoError(t, err)

	require.Equal(t, 2, gen.lastSession.MessageCount)
	require.Contains(t, gen.lastSession.LastQuestions, "Completely unrelated nonsense query")
}

func TestAnswerIncludesRecommendations(t *testing.T) {
	store := newStubStore()
	store.top = []support.TrendingQuery{{Query: "How do I reset my password?", Count: 9}}
	svc := newTestService(store, &stubGenerator{}, support.Config{TopRecommendations: 3})

	resp, err := svc.Answer(context.Background(), support.Request{Question: "Do you offer refunds?"})
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 1)
	require.Equal(t, int64(9), resp.Recommendations[0].Count)
}

func TestTrendingWrapsStoreErrors(t *testing.T) {
	store := newStubStore()
	store.topErr = errors.New("connection refused")
	svc := newTestService(store, &stubGenerator{}, support.Config{})

	_, err := svc.Trending(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "trending lookup failed")
}

func TestResetSessionValidatesID(t *testing.T) {
	store := newStubStore()
	svc := newTestService(store, &stubGenerator{}, support.Config{})

	require.Error(t, svc.ResetSession(context.Background(), "  "))
	require.NoError(t, svc.ResetSession(context.Background(), "abc"))
	require.Equal(t, []string{"abc"}, store.deleted)
}
