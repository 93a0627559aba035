package integration

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/backtest-dashboard/internal/database"
	"github.com/yourusername/backtest-dashboard/internal/logger"
	"github.com/yourusername/backtest-dashboard/internal/repository"
	"github.com/yourusername/backtest-dashboard/internal/universe"
	"github.com/yourusername/backtest-dashboard/test/helpers"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// TestPromotionTransactionAtomicity verifies that a batch with a failing
// action leaves the table untouched. Requires TEST_DATABASE_URL and applied
// migrations.
func TestPromotionTransactionAtomicity(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)

	log := quietLogger()
	applier := universe.NewApplier(db, repos.Universe, logger.NewAuditLogger(log), log)

	before := helpers.CountUniverseRows(t, db)

	metrics := &universe.Metrics{
		Sharpe: 2.4, MaxDD: 12.0, PF: 1.6, Trades: 50, CAGR: 18.0, FinalScore: 0.51,
	}
	batch := []universe.ProposedAction{
		{
			Action:     universe.ActionInsert,
			Symbol:     "ATOM",
			Timeframe:  "1h",
			StrategyID: 7,
			Metrics:    metrics,
		},
		{
			// Second insert carries no metrics, which aborts the batch; the
			// first insert must roll back with it.
			Action:     universe.ActionInsert,
			Symbol:     "ATOM",
			Timeframe:  "4h",
			StrategyID: 7,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = applier.Apply(ctx, batch)
	require.Error(t, err)
	assert.Equal(t, before, helpers.CountUniverseRows(t, db), "failed batch must not change row count")
}

// TestPromotionInsertThenUpdate runs the full insert -> update_candidate
// cycle against a real database.
func TestPromotionInsertThenUpdate(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)

	log := quietLogger()
	applier := universe.NewApplier(db, repos.Universe, logger.NewAuditLogger(log), log)

	seeded := helpers.SeedUniverseEntry(t, db, "CYCL", "1h", 9)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := applier.Apply(ctx, []universe.ProposedAction{{
		Action:     universe.ActionUpdateCandidate,
		Symbol:     "CYCL",
		Timeframe:  "1h",
		StrategyID: 9,
		Existing:   &universe.ExistingSnapshot{ID: seeded.ID},
		New: &universe.NewMetrics{
			BacktestRunID: 77, Sharpe: 2.9, MaxDD: 8.0, PF: 1.8, Trades: 60, CAGR: 21.0, FinalScore: 0.62,
		},
	}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Updated)

	updated, err := repos.Universe.GetByKey(ctx, seeded.Key())
	require.NoError(t, err)
	assert.Equal(t, 2.9, updated.Sharpe)
	assert.Equal(t, 0.62, updated.Score)
	assert.True(t, updated.UpdatedAt.After(seeded.UpdatedAt))
}
