package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/backtest-dashboard/internal/database"
	"github.com/yourusername/backtest-dashboard/internal/models"
)

// PostgresLotRepository implements LotRepository for PostgreSQL
type PostgresLotRepository struct {
	db *database.DB
}

// NewPostgresLotRepository creates a new lot history repository
func NewPostgresLotRepository(db *database.DB) LotRepository {
	return &PostgresLotRepository{db: db}
}

// HistoryBySymbol retrieves the lot-size change history for one symbol in
// chronological order.
func (r *PostgresLotRepository) HistoryBySymbol(ctx context.Context, symbolID int64) ([]*models.LotChange, error) {
	query := `
		SELECT id, symbol_id, lot, change_date
		FROM lot_history
		WHERE symbol_id = $1
		ORDER BY change_date ASC
	`
	rows, err := r.db.Querier(ctx).Query(ctx, query, symbolID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lot history: %w", err)
	}
	defer rows.Close()

	var history []*models.LotChange
	for rows.Next() {
		change := &models.LotChange{}
		if err := rows.Scan(&change.ID, &change.SymbolID, &change.Lot, &change.ChangeDate); err != nil {
			return nil, fmt.Errorf("failed to scan lot change: %w", err)
		}
		history = append(history, change)
	}
	return history, rows.Err()
}
