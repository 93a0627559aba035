package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/backtest-dashboard/internal/database"
	"github.com/yourusername/backtest-dashboard/internal/models"
)

// PostgresOptimizationRepository implements OptimizationRepository for PostgreSQL
type PostgresOptimizationRepository struct {
	db *database.DB
}

// NewPostgresOptimizationRepository creates a new optimization session repository
func NewPostgresOptimizationRepository(db *database.DB) OptimizationRepository {
	return &PostgresOptimizationRepository{db: db}
}

// SummaryBySymbol aggregates sessions per strategy and timeframe for one
// symbol: the strategy x timeframe performance matrix the dashboard renders.
func (r *PostgresOptimizationRepository) SummaryBySymbol(ctx context.Context, symbolID int64) ([]*models.StrategySummaryRow, error) {
	query := `
		SELECT
			s.id              AS strategy_id,
			s.code            AS strategy_code,
			s.name            AS strategy_name,
			o.timeframe_table,
			COUNT(o.id)       AS sessions_count,
			AVG(o.best_value) AS avg_best_value,
			MIN(o.best_value) AS min_best_value,
			MAX(o.best_value) AS max_best_value
		FROM optimization_sessions o
		JOIN strategy_catalog s ON s.id = o.strategy_id
		WHERE o.symbol_id = $1
		GROUP BY s.id, o.timeframe_table
		ORDER BY s.code, o.timeframe_table
	`
	rows, err := r.db.Querier(ctx).Query(ctx, query, symbolID)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategy summary: %w", err)
	}
	defer rows.Close()

	var summary []*models.StrategySummaryRow
	for rows.Next() {
		row := &models.StrategySummaryRow{}
		if err := rows.Scan(
			&row.StrategyID, &row.StrategyCode, &row.StrategyName, &row.TimeframeTable,
			&row.SessionsCount, &row.AvgBestValue, &row.MinBestValue, &row.MaxBestValue,
		); err != nil {
			return nil, fmt.Errorf("failed to scan strategy summary row: %w", err)
		}
		summary = append(summary, row)
	}
	return summary, rows.Err()
}

// SessionsByCell retrieves all sessions for one (symbol, strategy, timeframe)
// cell of the matrix, most recent window first.
func (r *PostgresOptimizationRepository) SessionsByCell(ctx context.Context, symbolID, strategyID int64, timeframeTable string) ([]*models.OptimizationSession, error) {
	query := `
		SELECT
			o.id, o.window_start, o.window_end, o.best_value, o.best_params,
			o.n_trials, o.status
		FROM optimization_sessions o
		WHERE o.symbol_id = $1
		  AND o.strategy_id = $2
		  AND o.timeframe_table = $3
		ORDER BY o.window_start DESC
	`
	rows, err := r.db.Querier(ctx).Query(ctx, query, symbolID, strategyID, timeframeTable)
	if err != nil {
		return nil, fmt.Errorf("failed to query optimization sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.OptimizationSession
	for rows.Next() {
		session := &models.OptimizationSession{
			SymbolID:       symbolID,
			StrategyID:     strategyID,
			TimeframeTable: timeframeTable,
		}
		if err := rows.Scan(
			&session.ID, &session.WindowStart, &session.WindowEnd, &session.BestValue,
			&session.BestParams, &session.NTrials, &session.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan optimization session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// GetSession retrieves one session header joined to the strategy catalog and
// symbols, or models.ErrNotFound.
func (r *PostgresOptimizationRepository) GetSession(ctx context.Context, id int64) (*models.OptimizationSession, error) {
	query := `
		SELECT
			o.id, o.strategy_id, s.code AS strategy_code, s.name AS strategy_name,
			o.symbol_id, sy.ticker AS symbol_ticker, o.timeframe_table,
			o.window_start, o.window_end, o.best_value, o.best_params,
			o.n_trials, o.status, o.target_metric, o.direction
		FROM optimization_sessions o
		JOIN strategy_catalog s ON s.id = o.strategy_id
		JOIN symbols sy ON sy.id = o.symbol_id
		WHERE o.id = $1
		LIMIT 1
	`
	session := &models.OptimizationSession{}
	err := r.db.Querier(ctx).QueryRow(ctx, query, id).Scan(
		&session.ID, &session.StrategyID, &session.StrategyCode, &session.StrategyName,
		&session.SymbolID, &session.SymbolTicker, &session.TimeframeTable,
		&session.WindowStart, &session.WindowEnd, &session.BestValue, &session.BestParams,
		&session.NTrials, &session.Status, &session.TargetMetric, &session.Direction,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query optimization session: %w", err)
	}
	return session, nil
}
