package support

import "time"

// Config holds runtime knobs for the support service.
type Config struct {
	SessionTTL         time.Duration
	MaxRecentQuestions int
	TopRecommendations int
}

func (c Config) maxRecent() int {
	if c.MaxRecentQuestions <= 0 {
		return 5
	}
	return c.MaxRecentQuestions
}
