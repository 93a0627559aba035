package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/backtest-dashboard/internal/database"
	"github.com/yourusername/backtest-dashboard/internal/models"
)

const universeColumns = `
	id, symbol, figi, timeframe, strategy_id, params_json,
	sharpe, max_dd, pf, trades, cagr,
	backtest_run_id, backtest_started_at,
	score, grade, mode, priority, risk_per_trade,
	enabled, comment, created_at, updated_at
`

// PostgresUniverseRepository implements UniverseRepository for PostgreSQL
type PostgresUniverseRepository struct {
	db *database.DB
}

// NewPostgresUniverseRepository creates a new universe repository
func NewPostgresUniverseRepository(db *database.DB) UniverseRepository {
	return &PostgresUniverseRepository{db: db}
}

func scanUniverseEntry(row pgx.Row) (*models.UniverseEntry, error) {
	entry := &models.UniverseEntry{}
	err := row.Scan(
		&entry.ID, &entry.Symbol, &entry.FIGI, &entry.Timeframe, &entry.StrategyID, &entry.ParamsJSON,
		&entry.Sharpe, &entry.MaxDD, &entry.PF, &entry.Trades, &entry.CAGR,
		&entry.BacktestRunID, &entry.BacktestStartedAt,
		&entry.Score, &entry.Grade, &entry.Mode, &entry.Priority, &entry.RiskPerTrade,
		&entry.Enabled, &entry.Comment, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetByKey retrieves the promoted entry for a natural key, or
// models.ErrNotFound when the key has never been promoted.
func (r *PostgresUniverseRepository) GetByKey(ctx context.Context, key models.UniverseKey) (*models.UniverseEntry, error) {
	query := `
		SELECT ` + universeColumns + `
		FROM strategy_universe
		WHERE symbol = $1 AND timeframe = $2 AND strategy_id = $3
	`
	entry, err := scanUniverseEntry(r.db.Querier(ctx).QueryRow(ctx, query, key.Symbol, key.Timeframe, key.StrategyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query universe entry: %w", err)
	}
	return entry, nil
}

// List retrieves the whole universe ordered by symbol, timeframe, strategy
func (r *PostgresUniverseRepository) List(ctx context.Context) ([]*models.UniverseEntry, error) {
	query := `
		SELECT ` + universeColumns + `
		FROM strategy_universe
		ORDER BY symbol, timeframe, strategy_id
	`
	rows, err := r.db.Querier(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query universe: %w", err)
	}
	defer rows.Close()

	var entries []*models.UniverseEntry
	for rows.Next() {
		entry, err := scanUniverseEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan universe entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Upsert inserts the entry or overwrites the performance fields of the row
// holding its natural key. The conflict is resolved by the database so
// concurrent promotions of the same key cannot duplicate it; the last
// committed writer wins. Operator-managed fields of an existing row
// (enabled, comment) are left untouched.
func (r *PostgresUniverseRepository) Upsert(ctx context.Context, entry *models.UniverseEntry) error {
	query := `
		INSERT INTO strategy_universe (
			symbol, figi, timeframe, strategy_id, params_json,
			sharpe, max_dd, pf, trades, cagr,
			backtest_run_id, backtest_started_at,
			score, grade, mode, priority, risk_per_trade,
			created_at, updated_at, comment
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12,
			$13, $14, $15, $16, $17,
			NOW(), NOW(), $18
		)
		ON CONFLICT (symbol, timeframe, strategy_id)
		DO UPDATE SET
			params_json         = EXCLUDED.params_json,
			sharpe              = EXCLUDED.sharpe,
			max_dd              = EXCLUDED.max_dd,
			pf                  = EXCLUDED.pf,
			trades              = EXCLUDED.trades,
			cagr                = EXCLUDED.cagr,
			backtest_run_id     = EXCLUDED.backtest_run_id,
			backtest_started_at = EXCLUDED.backtest_started_at,
			score               = EXCLUDED.score,
			grade               = EXCLUDED.grade,
			mode                = EXCLUDED.mode,
			priority            = EXCLUDED.priority,
			risk_per_trade      = EXCLUDED.risk_per_trade,
			updated_at          = NOW()
	`
	_, err := r.db.Querier(ctx).Exec(ctx, query,
		entry.Symbol, entry.FIGI, entry.Timeframe, entry.StrategyID, entry.ParamsJSON,
		entry.Sharpe, entry.MaxDD, entry.PF, entry.Trades, entry.CAGR,
		entry.BacktestRunID, entry.BacktestStartedAt,
		entry.Score, entry.Grade, entry.Mode, entry.Priority, entry.RiskPerTrade,
		entry.Comment,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert universe entry: %w", err)
	}
	return nil
}

// UpdateByID overwrites the performance fields of one row. A missing id is
// not an error: the affected-row count is zero and the caller decides what
// that means.
func (r *PostgresUniverseRepository) UpdateByID(ctx context.Context, id int64, update models.UniverseUpdate) (int64, error) {
	query := `
		UPDATE strategy_universe
		SET
			params_json         = $2,
			sharpe              = $3,
			max_dd              = $4,
			pf                  = $5,
			trades              = $6,
			cagr                = $7,
			backtest_run_id     = $8,
			backtest_started_at = $9,
			score               = $10,
			grade               = $11,
			updated_at          = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Querier(ctx).Exec(ctx, query,
		id,
		update.ParamsJSON, update.Sharpe, update.MaxDD, update.PF, update.Trades, update.CAGR,
		update.BacktestRunID, update.BacktestStartedAt, update.Score, update.Grade,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update universe entry %d: %w", id, err)
	}
	return tag.RowsAffected(), nil
}
