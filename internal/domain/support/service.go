package support

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/support-bot/internal/domain/matcher"
	apperrors "github.com/yanqian/support-bot/pkg/errors"
	"github.com/yanqian/support-bot/pkg/util"
)

// Service answers support questions from the FAQ catalog, falling back to a
// generative reply when no entry clears the match threshold.
type Service interface {
	Answer(ctx context.Context, req Request) (Response, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
	Session(ctx context.Context, id string) (Session, bool, error)
	ResetSession(ctx context.Context, id string) error
}

type service struct {
	cfg      Config
	matcher  *matcher.Matcher
	store    Store
	fallback Generator
	logger   *slog.Logger
}

// NewService wires up the support domain.
func NewService(cfg Config, m *matcher.Matcher, store Store, fallback Generator, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		matcher:  m,
		store:    store,
		fallback: fallback,
		logger:   logger.With("component", "support.service"),
	}
}

func (s *service) Answer(ctx context.Context, req Request) (Response, error) {
	started := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Response{}, apperrors.Wrap("invalid_input", "question cannot be empty", nil)
	}

	session := s.loadSession(ctx, req.SessionID)
	session = s.recordTurn(ctx, session, question)

	if canonical := s.matcher.Canonical(question); canonical != "" {
		if err := s.store.IncrementQuery(ctx, canonical, question); err != nil {
			s.logger.Warn("trending increment failed", "error", err)
		}
	}

	result := s.matcher.Match(question)

	resp := Response{
		Confidence:    result.Confidence,
		ConfidencePct: int(math.Round(result.Confidence * 100)),
		SessionID:     session.ID,
		MessageNumber: session.MessageCount,
	}

	if result.Matched {
		resp.Answer = result.Entry.Answer
		resp.Source = SourceFAQ
		resp.MatchedQuestion = result.Entry.Question
	} else {
		reply, err := s.fallback.Generate(ctx, question, session)
		if err != nil {
			return Response{}, apperrors.Wrap("fallback_error", "fallback reply failed", err)
		}
		resp.Answer = reply.Text
		resp.Source = SourceFallback
		resp.TokenUsage = reply.Usage
	}

	if s.cfg.TopRecommendations > 0 {
		recommendations, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
		if err != nil {
			s.logger.Warn("trending lookup failed", "error", err)
		} else {
			resp.Recommendations = recommendations
		}
	}

	resp.DurationMs = time.Since(started).Milliseconds()
	s.logger.Info("question answered",
		"source", resp.Source,
		"confidence", resp.Confidence,
		"session", session.ID,
		"duration_ms", resp.DurationMs,
	)
	return resp, nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	limit := s.cfg.TopRecommendations
	if limit <= 0 {
		limit = 10
	}
	queries, err := s.store.TopQueries(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("store_error", "trending lookup failed", err)
	}
	return queries, nil
}

func (s *service) Session(ctx context.Context, id string) (Session, bool, error) {
	if strings.TrimSpace(id) == "" {
		return Session{}, false, apperrors.Wrap("invalid_input", "session id cannot be empty", nil)
	}
	session, ok, err := s.store.GetSession(ctx, id)
	if err != nil {
		return Session{}, false, apperrors.Wrap("store_error", "session lookup failed", err)
	}
	return session, ok, nil
}

func (s *service) ResetSession(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.Wrap("invalid_input", "session id cannot be empty", nil)
	}
	if err := s.store.DeleteSession(ctx, id); err != nil {
		return apperrors.Wrap("store_error", "session reset failed", err)
	}
	return nil
}

// loadSession fetches existing memory or starts a fresh session. Session
// memory is best effort: a broken store must not block answering.
func (s *service) loadSession(ctx context.Context, id string) Session {
	if strings.TrimSpace(id) == "" {
		return s.newSession()
	}
	session, ok, err := s.store.GetSession(ctx, id)
	if err != nil {
		s.logger.Warn("session lookup failed", "session", id, "error", err)
	}
	if !ok {
		session = s.newSession()
		session.ID = id
	}
	return session
}

func (s *service) newSession() Session {
	return Session{ID: uuid.NewString(), StartedAt: util.NowUTC()}
}

func (s *service) recordTurn(ctx context.Context, session Session, question string) Session {
	session.MessageCount++
	session.LastSeenAt = util.NowUTC()
	session.LastQuestions = append(session.LastQuestions, question)
	if keep := s.cfg.maxRecent(); len(session.LastQuestions) > keep {
		session.LastQuestions = session.LastQuestions[len(session.LastQuestions)-keep:]
	}
	if err := s.store.SaveSession(ctx, session, s.cfg.SessionTTL); err != nil {
		s.logger.Warn("session save failed", "session", session.ID, "error", err)
	}
	return session
}
