package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/support-bot/internal/domain/matcher"
)

// PostgresCatalog reads the FAQ table from Postgres.
type PostgresCatalog struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalog constructs the catalog source.
func NewPostgresCatalog(pool *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{pool: pool}
}

// Entries fetches the active catalog rows. sort_order then id keeps the
// tie-break order stable across restarts.
func (c *PostgresCatalog) Entries(ctx context.Context) ([]matcher.QA, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT question, answer
		FROM faq_entries
		WHERE is_active
		ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query faq entries: %w", err)
	}
	defer rows.Close()

	var entries []matcher.QA
	for rows.Next() {
		var qa matcher.QA
		if err := rows.Scan(&qa.Question, &qa.Answer); err != nil {
			return nil, fmt.Errorf("scan faq entry: %w", err)
		}
		entries = append(entries, qa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate faq entries: %w", err)
	}
	return entries, nil
}
