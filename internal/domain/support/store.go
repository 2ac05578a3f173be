package support

import (
	"context"
	"time"
)

// Store defines the persistence contract for session memory and trending
// question counters.
type Store interface {
	GetSession(ctx context.Context, id string) (Session, bool, error)
	SaveSession(ctx context.Context, session Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, id string) error
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}
