package repository

import (
	"fmt"

	"github.com/yourusername/backtest-dashboard/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	BacktestRun  BacktestRunRepository
	Universe     UniverseRepository
	Reference    ReferenceRepository
	Optimization OptimizationRepository
	Candle       CandleRepository
	Lot          LotRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		BacktestRun:  NewPostgresBacktestRunRepository(db),
		Universe:     NewPostgresUniverseRepository(db),
		Reference:    NewPostgresReferenceRepository(db),
		Optimization: NewPostgresOptimizationRepository(db),
		Candle:       NewPostgresCandleRepository(db),
		Lot:          NewPostgresLotRepository(db),
	}, nil
}
