package universe

import (
	"math"

	"github.com/yourusername/backtest-dashboard/internal/models"
)

// Normalization ceilings for the composite score. Each factor is clamped to
// [0, 1] against its ceiling before weighting.
const (
	sharpeCeiling   = 3.0
	pfFloor         = 1.0
	pfCeiling       = 2.0 // span above the floor
	cagrCeiling     = 40.0
	tradesCeiling   = 300.0
	drawdownCeiling = 30.0
)

// Factor weights. Drawdown enters inverted: a smaller drawdown scores higher.
const (
	weightSharpe   = 0.3
	weightPF       = 0.3
	weightCAGR     = 0.1
	weightTrades   = 0.1
	weightDrawdown = 0.2
)

// Scores is the output of the scoring engine for one backtest run.
type Scores struct {
	Base  float64
	Final float64
}

// clamp01 clamps v to [0, 1]. A non-finite value collapses to 0 so a NaN or
// infinite metric in the source row cannot poison the composite score.
func clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ComputeScores maps a backtest run and a timeframe weight to its composite
// score. Pure: no side effects, no error conditions. A zero weight means the
// timeframe carries no configured weight and falls back to 1.0.
func ComputeScores(run *models.BacktestRun, tfWeight float64) Scores {
	sharpeNorm := clamp01(run.Sharpe / sharpeCeiling)
	pfNorm := clamp01((run.ProfitFactor - pfFloor) / pfCeiling)
	cagrNorm := clamp01(run.CAGR / cagrCeiling)
	tradesNorm := clamp01(float64(run.TradesCount) / tradesCeiling)
	maxDDNorm := 1.0 - clamp01(run.DrawdownMagnitude()/drawdownCeiling)

	base := weightSharpe*sharpeNorm +
		weightPF*pfNorm +
		weightCAGR*cagrNorm +
		weightTrades*tradesNorm +
		weightDrawdown*maxDDNorm

	weight := tfWeight
	if weight == 0 {
		weight = 1.0
	}

	return Scores{Base: base, Final: base * weight}
}
