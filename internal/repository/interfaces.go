package repository

import (
	"context"
	"time"

	"github.com/yourusername/backtest-dashboard/internal/models"
)

// RunFilter narrows the eligible backtest pool for candidate selection.
// Thresholds are inclusive (>=, and <= for the drawdown magnitude). Nil date
// bounds mean no bound on that side; the bounds apply to the calendar date of
// created_at, inclusive.
type RunFilter struct {
	MinSharpe       float64
	MinProfitFactor float64
	MaxDrawdown     float64 // positive magnitude, compared against -max_dd
	MinTrades       int
	MinCAGR         float64
	DateFrom        *time.Time
	DateTo          *time.Time
}

// BacktestRunRepository defines read access to the optimizer-produced runs
type BacktestRunRepository interface {
	FindEligible(ctx context.Context, filter RunFilter) ([]*models.BacktestRun, error)
	GetTrialsBySession(ctx context.Context, optimizationID int64) ([]*models.Trial, error)
}

// UniverseRepository defines access to the curated strategy universe.
// Upsert and UpdateByID are the only write paths to the table.
type UniverseRepository interface {
	GetByKey(ctx context.Context, key models.UniverseKey) (*models.UniverseEntry, error)
	List(ctx context.Context) ([]*models.UniverseEntry, error)
	// Upsert inserts the entry or, on a natural-key conflict, overwrites its
	// performance fields in place. Conflict resolution happens in the
	// database, not read-then-write.
	Upsert(ctx context.Context, entry *models.UniverseEntry) error
	// UpdateByID overwrites performance fields of an existing row and
	// returns the number of rows affected (zero when id does not exist).
	UpdateByID(ctx context.Context, id int64, update models.UniverseUpdate) (int64, error)
}

// ReferenceRepository defines read access to the small reference tables
type ReferenceRepository interface {
	ListSymbols(ctx context.Context) ([]*models.Symbol, error)
	ListTimeframeWeights(ctx context.Context) ([]*models.TimeframeWeight, error)
}

// OptimizationRepository defines read access to optimization sessions
type OptimizationRepository interface {
	SummaryBySymbol(ctx context.Context, symbolID int64) ([]*models.StrategySummaryRow, error)
	SessionsByCell(ctx context.Context, symbolID, strategyID int64, timeframeTable string) ([]*models.OptimizationSession, error)
	GetSession(ctx context.Context, id int64) (*models.OptimizationSession, error)
}

// CandleRepository defines read access to the fixed candle tables
type CandleRepository interface {
	GetRange(ctx context.Context, timeframeTable string, symbolID int64, start, end time.Time) ([]*models.Candle, error)
}

// LotRepository defines read access to lot-size history
type LotRepository interface {
	HistoryBySymbol(ctx context.Context, symbolID int64) ([]*models.LotChange, error)
}
