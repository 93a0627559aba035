// Package helpers provides shared utilities for integration tests.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/backtest-dashboard/internal/database"
	"github.com/yourusername/backtest-dashboard/internal/models"
	"github.com/yourusername/backtest-dashboard/internal/repository"
)

// SeedUniverseEntry writes one promoted entry through the repository layer
// and returns it with its assigned id.
func SeedUniverseEntry(t *testing.T, db *database.DB, symbol, timeframe string, strategyID int64) *models.UniverseEntry {
	t.Helper()

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)

	entry := &models.UniverseEntry{
		Symbol:     symbol,
		Timeframe:  timeframe,
		StrategyID: strategyID,
		Sharpe:     2.0,
		MaxDD:      10.0,
		PF:         1.5,
		Trades:     40,
		CAGR:       12.0,
		Score:      0.5,
		Mode:       "backtest",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, repos.Universe.Upsert(ctx, entry))

	stored, err := repos.Universe.GetByKey(ctx, entry.Key())
	require.NoError(t, err)
	return stored
}

// CountUniverseRows returns the current strategy_universe row count.
func CountUniverseRows(t *testing.T, db *database.DB) int {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := db.Querier(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM strategy_universe").Scan(&count)
	require.NoError(t, err)
	return count
}
