package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/backtest-dashboard/internal/database"
	"github.com/yourusername/backtest-dashboard/internal/models"
)

// PostgresCandleRepository implements CandleRepository for PostgreSQL
type PostgresCandleRepository struct {
	db *database.DB
}

// NewPostgresCandleRepository creates a new candle repository
func NewPostgresCandleRepository(db *database.DB) CandleRepository {
	return &PostgresCandleRepository{db: db}
}

// GetRange retrieves OHLCV bars for a symbol from one of the fixed candle
// tables. The table name is interpolated, so it must come from the
// allowlist; anything else is rejected before touching SQL.
func (r *PostgresCandleRepository) GetRange(ctx context.Context, timeframeTable string, symbolID int64, start, end time.Time) ([]*models.Candle, error) {
	if !models.IsCandleTable(timeframeTable) {
		return nil, models.ErrInvalidTimeframe
	}

	query := fmt.Sprintf(`
		SELECT timestamp, open, high, low, close, volume
		FROM %s
		WHERE symbol_id = $1
		  AND timestamp BETWEEN $2 AND $3
		ORDER BY timestamp
	`, timeframeTable)

	rows, err := r.db.Querier(ctx).Query(ctx, query, symbolID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var candles []*models.Candle
	for rows.Next() {
		candle := &models.Candle{}
		if err := rows.Scan(&candle.Time, &candle.Open, &candle.High, &candle.Low, &candle.Close, &candle.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, candle)
	}
	return candles, rows.Err()
}
