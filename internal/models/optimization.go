package models

import (
	"encoding/json"
	"time"
)

// OptimizationSession is one optimizer study over a (symbol, strategy,
// timeframe, window) cell. Produced upstream, read-only here.
type OptimizationSession struct {
	ID             int64           `db:"id" json:"id"`
	StrategyID     int64           `db:"strategy_id" json:"strategy_id"`
	StrategyCode   string          `db:"strategy_code" json:"strategy_code,omitempty"`
	StrategyName   string          `db:"strategy_name" json:"strategy_name,omitempty"`
	SymbolID       int64           `db:"symbol_id" json:"symbol_id"`
	SymbolTicker   string          `db:"symbol_ticker" json:"symbol_ticker,omitempty"`
	TimeframeTable string          `db:"timeframe_table" json:"timeframe_table"`
	WindowStart    *time.Time      `db:"window_start" json:"window_start"`
	WindowEnd      *time.Time      `db:"window_end" json:"window_end"`
	BestValue      *float64        `db:"best_value" json:"best_value"`
	BestParams     json.RawMessage `db:"best_params" json:"best_params"`
	NTrials        int             `db:"n_trials" json:"n_trials"`
	Status         string          `db:"status" json:"status"`
	TargetMetric   string          `db:"target_metric" json:"target_metric,omitempty"`
	Direction      string          `db:"direction" json:"direction,omitempty"`
}

// StrategySummaryRow aggregates optimization sessions for one strategy and
// timeframe of a symbol's performance matrix.
type StrategySummaryRow struct {
	StrategyID     int64    `db:"strategy_id" json:"strategy_id"`
	StrategyCode   string   `db:"strategy_code" json:"strategy_code"`
	StrategyName   string   `db:"strategy_name" json:"strategy_name"`
	TimeframeTable string   `db:"timeframe_table" json:"timeframe_table"`
	SessionsCount  int      `db:"sessions_count" json:"sessions_count"`
	AvgBestValue   *float64 `db:"avg_best_value" json:"avg_best_value"`
	MinBestValue   *float64 `db:"min_best_value" json:"min_best_value"`
	MaxBestValue   *float64 `db:"max_best_value" json:"max_best_value"`
}

// Trial is the trial-level view of a backtest run inside one session,
// including the payloads the chart layer renders.
type Trial struct {
	TrialNumber       int             `db:"trial_number" json:"trial_number"`
	IsBest            bool            `db:"is_best" json:"is_best"`
	ParamsJSON        json.RawMessage `db:"params_json" json:"params_json"`
	CAGR              float64         `db:"cagr" json:"cagr"`
	Sharpe            float64         `db:"sharpe" json:"sharpe"`
	MaxDD             float64         `db:"max_dd" json:"max_dd"`
	ProfitFactor      float64         `db:"profit_factor" json:"profit_factor"`
	TradesCount       int             `db:"trades_count" json:"trades_count"`
	TargetMetricValue *float64        `db:"target_metric_value" json:"target_metric_value"`
	TradesJSON        json.RawMessage `db:"trades_json" json:"trades_json"`
	IndicatorsJSON    json.RawMessage `db:"indicators_json" json:"indicators_json"`
}
