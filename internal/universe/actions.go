// Package universe implements the candidate scoring and promotion workflow
// for the curated strategy universe.
package universe

import (
	"encoding/json"
	"time"
)

// Action types for promotion proposals.
const (
	ActionInsert          = "insert"
	ActionUpdateCandidate = "update_candidate"
)

// Metrics is the scored performance block of a candidate.
type Metrics struct {
	Sharpe     float64 `json:"sharpe"`
	MaxDD      float64 `json:"max_dd"` // positive magnitude in the protocol
	PF         float64 `json:"pf"`
	Trades     int     `json:"trades"`
	CAGR       float64 `json:"cagr"`
	BaseScore  float64 `json:"base_score"`
	FinalScore float64 `json:"final_score"`
}

// ExistingSnapshot is the currently promoted row's state, carried on
// update_candidate proposals so the reviewer can see the diff.
type ExistingSnapshot struct {
	ID            int64    `json:"id"`
	BacktestRunID *int64   `json:"backtest_run_id"`
	Sharpe        float64  `json:"sharpe"`
	MaxDD         *float64 `json:"max_dd"`
	PF            float64  `json:"pf"`
	Trades        int      `json:"trades"`
	CAGR          float64  `json:"cagr"`
	Score         float64  `json:"score"`
	Mode          string   `json:"mode"`
	Enabled       bool     `json:"enabled"`
}

// NewMetrics is the replacement performance block of an update_candidate
// proposal.
type NewMetrics struct {
	BacktestRunID  int64   `json:"backtest_run_id"`
	OptimizationID int64   `json:"optimization_id"`
	Sharpe         float64 `json:"sharpe"`
	MaxDD          float64 `json:"max_dd"`
	PF             float64 `json:"pf"`
	Trades         int     `json:"trades"`
	CAGR           float64 `json:"cagr"`
	FinalScore     float64 `json:"final_score"`
}

// ProposedAction is one element of the selection/promotion protocol. The
// selection endpoint emits it, the operator approves a subset, and the
// promotion endpoint receives the approved items back verbatim. The variant
// is tagged by Action: insert actions carry Metrics and the identifying
// fields, update_candidate actions carry Existing and New.
type ProposedAction struct {
	Action         string            `json:"action"`
	Symbol         string            `json:"symbol"`
	FIGI           *string           `json:"figi"`
	Timeframe      string            `json:"timeframe"`
	StrategyID     int64             `json:"strategy_id"`
	ParamsJSON     json.RawMessage   `json:"params_json,omitempty"`
	Metrics        *Metrics          `json:"metrics,omitempty"`
	BacktestRunID  int64             `json:"backtest_run_id,omitempty"`
	OptimizationID int64             `json:"optimization_id,omitempty"`
	WindowStart    *time.Time        `json:"window_start,omitempty"`
	WindowEnd      *time.Time        `json:"window_end,omitempty"`
	Existing       *ExistingSnapshot `json:"existing,omitempty"`
	New            *NewMetrics       `json:"new,omitempty"`
}

// ParseFilterDate parses a dd-mm-YYYY date string. A malformed or impossible
// date returns nil: the filter is dropped rather than the request failing,
// because the operator UI treats an unfiltered result as informative enough.
func ParseFilterDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		return nil
	}
	return &t
}
