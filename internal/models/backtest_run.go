package models

import (
	"encoding/json"
	"time"
)

// BacktestRun represents one persisted trial of an optimization session.
// Rows are produced by the upstream optimizer and are read-only here.
type BacktestRun struct {
	ID                int64           `db:"id" json:"id"`
	OptimizationID    int64           `db:"optimization_id" json:"optimization_id"`
	StrategyID        int64           `db:"strategy_id" json:"strategy_id"`
	SymbolID          int64           `db:"symbol_id" json:"symbol_id"`
	TimeframeTable    string          `db:"timeframe_table" json:"timeframe_table"`
	TrialNumber       int             `db:"trial_number" json:"trial_number"`
	WindowStart       *time.Time      `db:"window_start" json:"window_start"`
	WindowEnd         *time.Time      `db:"window_end" json:"window_end"`
	ParamsJSON        json.RawMessage `db:"params_json" json:"params_json"`
	CAGR              float64         `db:"cagr" json:"cagr"`
	Sharpe            float64         `db:"sharpe" json:"sharpe"`
	MaxDD             float64         `db:"max_dd" json:"max_dd"` // stored negative, e.g. -25.0 means 25% drawdown
	ProfitFactor      float64         `db:"profit_factor" json:"profit_factor"`
	TradesCount       int             `db:"trades_count" json:"trades_count"`
	TargetMetricValue *float64        `db:"target_metric_value" json:"target_metric_value,omitempty"`
	IsBest            bool            `db:"is_best" json:"is_best"`
	TradesJSON        json.RawMessage `db:"trades_json" json:"trades_json,omitempty"`
	IndicatorsJSON    json.RawMessage `db:"indicators_json" json:"indicators_json,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}

// DrawdownMagnitude returns the drawdown as a positive percentage.
func (r *BacktestRun) DrawdownMagnitude() float64 {
	return -r.MaxDD
}
