package models

import (
	"encoding/json"
	"time"
)

// UniverseEntry is a promoted strategy in the curated universe table.
// Identity is the natural key (symbol, timeframe, strategy_id); ID is a
// surrogate. Operator-managed fields (enabled, grade, priority,
// risk_per_trade, comment) are never touched by re-promotion.
type UniverseEntry struct {
	ID                int64           `db:"id" json:"id"`
	Symbol            string          `db:"symbol" json:"symbol"`
	FIGI              *string         `db:"figi" json:"figi"`
	Timeframe         string          `db:"timeframe" json:"timeframe"`
	StrategyID        int64           `db:"strategy_id" json:"strategy_id"`
	ParamsJSON        json.RawMessage `db:"params_json" json:"params_json"`
	Sharpe            float64         `db:"sharpe" json:"sharpe"`
	MaxDD             float64         `db:"max_dd" json:"max_dd"` // positive magnitude, unlike backtest_runs
	PF                float64         `db:"pf" json:"pf"`
	Trades            int             `db:"trades" json:"trades"`
	CAGR              float64         `db:"cagr" json:"cagr"`
	BacktestRunID     *int64          `db:"backtest_run_id" json:"backtest_run_id"`
	BacktestStartedAt *time.Time      `db:"backtest_started_at" json:"backtest_started_at"`
	Score             float64         `db:"score" json:"score"`
	Grade             *string         `db:"grade" json:"grade"`
	Mode              string          `db:"mode" json:"mode"`
	Priority          int             `db:"priority" json:"priority"`
	RiskPerTrade      *float64        `db:"risk_per_trade" json:"risk_per_trade"`
	Enabled           bool            `db:"enabled" json:"enabled"`
	Comment           *string         `db:"comment" json:"comment"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// UniverseKey is the natural key of a universe entry.
type UniverseKey struct {
	Symbol     string
	Timeframe  string
	StrategyID int64
}

// Key returns the natural key of the entry.
func (e *UniverseEntry) Key() UniverseKey {
	return UniverseKey{Symbol: e.Symbol, Timeframe: e.Timeframe, StrategyID: e.StrategyID}
}

// UniverseUpdate carries the fields overwritten by a point update of an
// existing universe entry. Nil pointers are written as NULL, matching the
// promotion protocol where the client may omit params_json and
// backtest_started_at for update actions.
type UniverseUpdate struct {
	ParamsJSON        json.RawMessage
	Sharpe            float64
	MaxDD             float64
	PF                float64
	Trades            int
	CAGR              float64
	BacktestRunID     int64
	BacktestStartedAt *time.Time
	Score             float64
	Grade             *string
}
