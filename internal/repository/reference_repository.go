package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/backtest-dashboard/internal/database"
	"github.com/yourusername/backtest-dashboard/internal/models"
)

// PostgresReferenceRepository implements ReferenceRepository for PostgreSQL.
// Both tables are small and bounded, so list operations load them fully.
type PostgresReferenceRepository struct {
	db *database.DB
}

// NewPostgresReferenceRepository creates a new reference data repository
func NewPostgresReferenceRepository(db *database.DB) ReferenceRepository {
	return &PostgresReferenceRepository{db: db}
}

// ListSymbols retrieves all symbols ordered by ticker
func (r *PostgresReferenceRepository) ListSymbols(ctx context.Context) ([]*models.Symbol, error) {
	rows, err := r.db.Querier(ctx).Query(ctx, `SELECT id, ticker, name, figi FROM symbols ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []*models.Symbol
	for rows.Next() {
		symbol := &models.Symbol{}
		if err := rows.Scan(&symbol.ID, &symbol.Ticker, &symbol.Name, &symbol.FIGI); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

// ListTimeframeWeights retrieves all timeframe weights
func (r *PostgresReferenceRepository) ListTimeframeWeights(ctx context.Context) ([]*models.TimeframeWeight, error) {
	rows, err := r.db.Querier(ctx).Query(ctx, `SELECT timeframe, tf_weight FROM timeframe_weights`)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeframe weights: %w", err)
	}
	defer rows.Close()

	var weights []*models.TimeframeWeight
	for rows.Next() {
		weight := &models.TimeframeWeight{}
		if err := rows.Scan(&weight.Timeframe, &weight.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan timeframe weight: %w", err)
		}
		weights = append(weights, weight)
	}
	return weights, rows.Err()
}
