package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/yourusername/backtest-dashboard/internal/database"
	"github.com/yourusername/backtest-dashboard/internal/models"
)

const errScanBacktestRun = "failed to scan backtest run: %w"

// PostgresBacktestRunRepository implements BacktestRunRepository for PostgreSQL
type PostgresBacktestRunRepository struct {
	db *database.DB
}

// NewPostgresBacktestRunRepository creates a new backtest run repository
func NewPostgresBacktestRunRepository(db *database.DB) BacktestRunRepository {
	return &PostgresBacktestRunRepository{db: db}
}

// FindEligible returns the candidate pool: best trials with chart payloads
// present, passing the threshold filters and the optional created_at date
// range. Result order follows the store's scan order and is the tie-break
// order for grouping downstream.
func (r *PostgresBacktestRunRepository) FindEligible(ctx context.Context, filter RunFilter) ([]*models.BacktestRun, error) {
	query := `
		SELECT
			br.id, br.optimization_id, br.strategy_id, br.symbol_id,
			br.timeframe_table, br.window_start, br.window_end, br.params_json,
			br.cagr, br.sharpe, br.max_dd, br.profit_factor, br.trades_count,
			br.created_at
		FROM backtest_runs br
		WHERE br.is_best = true
		  AND br.trades_json IS NOT NULL
		  AND br.indicators_json IS NOT NULL
	`

	args := []any{}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	switch {
	case filter.DateFrom != nil && filter.DateTo != nil:
		query += " AND br.created_at::date BETWEEN " + next(*filter.DateFrom) + " AND " + next(*filter.DateTo)
	case filter.DateFrom != nil:
		query += " AND br.created_at::date >= " + next(*filter.DateFrom)
	case filter.DateTo != nil:
		query += " AND br.created_at::date <= " + next(*filter.DateTo)
	}

	query += `
		  AND br.sharpe        >= ` + next(filter.MinSharpe) + `
		  AND br.profit_factor >= ` + next(filter.MinProfitFactor) + `
		  AND (-br.max_dd)     <= ` + next(filter.MaxDrawdown) + `
		  AND br.trades_count  >= ` + next(filter.MinTrades) + `
		  AND br.cagr          >= ` + next(filter.MinCAGR)

	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible backtest runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.BacktestRun
	for rows.Next() {
		run := &models.BacktestRun{IsBest: true}
		if err := rows.Scan(
			&run.ID, &run.OptimizationID, &run.StrategyID, &run.SymbolID,
			&run.TimeframeTable, &run.WindowStart, &run.WindowEnd, &run.ParamsJSON,
			&run.CAGR, &run.Sharpe, &run.MaxDD, &run.ProfitFactor, &run.TradesCount,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf(errScanBacktestRun, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetTrialsBySession retrieves all trials of one optimization session,
// including the trade and indicator payloads the chart layer renders.
func (r *PostgresBacktestRunRepository) GetTrialsBySession(ctx context.Context, optimizationID int64) ([]*models.Trial, error) {
	query := `
		SELECT
			b.trial_number, b.is_best, b.params_json, b.cagr, b.sharpe,
			b.max_dd, b.profit_factor, b.trades_count, b.target_metric_value,
			b.trades_json, b.indicators_json
		FROM backtest_runs b
		WHERE b.optimization_id = $1
		ORDER BY b.trial_number
	`
	rows, err := r.db.Querier(ctx).Query(ctx, query, optimizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}
	defer rows.Close()

	var trials []*models.Trial
	for rows.Next() {
		trial := &models.Trial{}
		if err := rows.Scan(
			&trial.TrialNumber, &trial.IsBest, &trial.ParamsJSON, &trial.CAGR, &trial.Sharpe,
			&trial.MaxDD, &trial.ProfitFactor, &trial.TradesCount, &trial.TargetMetricValue,
			&trial.TradesJSON, &trial.IndicatorsJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}
		trials = append(trials, trial)
	}
	return trials, rows.Err()
}
