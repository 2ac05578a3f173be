package support

import (
	"context"

	"github.com/yanqian/support-bot/pkg/metrics"
)

// Reply is the output of the fallback collaborator.
type Reply struct {
	Text  string
	Usage *metrics.TokenUsage
}

// Generator produces a reply for questions the catalog could not answer with
// enough confidence. The session is passed in so implementations can ground
// the reply in recent conversation context.
type Generator interface {
	Generate(ctx context.Context, question string, session Session) (Reply, error)
}
