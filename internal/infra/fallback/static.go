// Package fallback provides implementations of support.Generator for
// questions the catalog cannot answer with enough confidence.
package fallback

import (
	"context"
	"fmt"

	"github.com/yanqian/support-bot/internal/domain/support"
)

// Static returns a canned help reply without calling any external service.
// It is the default when no LLM credentials are configured.
type Static struct{}

// NewStatic constructs the canned generator.
func NewStatic() *Static {
	return &Static{}
}

// Generate implements support.Generator.
func (s *Static) Generate(_ context.Context, question string, _ support.Session) (support.Reply, error) {
	text := fmt.Sprintf(`I understand you're asking about: %q

While I don't have a specific answer in my FAQ database, I'd be happy to help you with this question. For immediate assistance, please:

1. Check our help documentation at help.company.com
2. Contact our support team at support@company.com
3. Call us at 1-800-SUPPORT during business hours

Is there anything else I can help you with today?`, question)
	return support.Reply{Text: text}, nil
}

var _ support.Generator = (*Static)(nil)
