package support

import (
	"time"

	"github.com/yanqian/support-bot/pkg/metrics"
)

// Request is one question turn submitted by a chat client. SessionID is
// optional: a fresh session is minted when it is absent.
type Request struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId,omitempty"`
}

// Answer sources.
const (
	SourceFAQ      = "faq"
	SourceFallback = "fallback"
)

// Response is returned to the HTTP transport.
type Response struct {
	Answer          string              `json:"answer"`
	Source          string              `json:"source"`
	MatchedQuestion string              `json:"matchedQuestion,omitempty"`
	Confidence      float64             `json:"confidence"`
	ConfidencePct   int                 `json:"confidencePct"`
	SessionID       string              `json:"sessionId"`
	MessageNumber   int                 `json:"messageNumber"`
	Recommendations []TrendingQuery     `json:"recommendations,omitempty"`
	DurationMs      int64               `json:"durationMs,omitempty"`
	TokenUsage      *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Session carries the per-conversation memory that the hosting chat runtime
// used to keep in ambient state. It is loaded explicitly per turn and passed
// to collaborators instead of living in a global.
type Session struct {
	ID            string    `json:"id"`
	MessageCount  int       `json:"messageCount"`
	LastQuestions []string  `json:"lastQuestions,omitempty"`
	StartedAt     time.Time `json:"startedAt"`
	LastSeenAt    time.Time `json:"lastSeenAt"`
}
