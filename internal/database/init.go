package database

import (
	"context"
	"fmt"

	"github.com/yourusername/backtest-dashboard/internal/config"
)

// Initialize creates a database connection pool and verifies the universe
// table carries the natural-key constraint the promotion upsert relies on.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	// ON CONFLICT (symbol, timeframe, strategy_id) needs this index; without
	// it every promotion would fail at apply time, so surface it at startup.
	var indexName string
	err = db.pool.QueryRow(ctx, `
		SELECT indexname FROM pg_indexes
		WHERE tablename = 'strategy_universe'
		  AND indexdef LIKE '%UNIQUE%'
		  AND indexdef LIKE '%symbol%timeframe%strategy_id%'
	`).Scan(&indexName)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf(
			"strategy_universe unique index on (symbol, timeframe, strategy_id) not found, run migrations first: %w", err,
		)
	}

	return db, nil
}
