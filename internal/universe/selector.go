package universe

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/backtest-dashboard/internal/models"
	"github.com/yourusername/backtest-dashboard/internal/repository"
)

// candleTablePrefix is stripped from timeframe_table to get the grouping
// timeframe label ("candles_1h" -> "1h").
const candleTablePrefix = "candles_"

// Selector builds promotion proposals from the eligible backtest pool.
// Read-only: it never mutates the universe.
type Selector struct {
	runs     repository.BacktestRunRepository
	universe repository.UniverseRepository
	refdata  repository.ReferenceRepository
	logger   *logrus.Logger
}

// NewSelector creates a candidate selector
func NewSelector(
	runs repository.BacktestRunRepository,
	universe repository.UniverseRepository,
	refdata repository.ReferenceRepository,
	logger *logrus.Logger,
) *Selector {
	return &Selector{
		runs:     runs,
		universe: universe,
		refdata:  refdata,
		logger:   logger,
	}
}

// candidate is the best-scoring run for one grouping key within a selection.
type candidate struct {
	run    *models.BacktestRun
	symbol string
	figi   *string
	tf     string
	scores Scores
}

// SelectCandidates queries the eligible pool, keeps the best-scoring run per
// (symbol, timeframe, strategy) key, and diffs each survivor against the
// promoted universe. Proposals come out in first-seen key order. An empty
// pool yields an empty, non-nil slice.
func (s *Selector) SelectCandidates(ctx context.Context, filter repository.RunFilter) ([]ProposedAction, error) {
	runs, err := s.runs.FindEligible(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	symbols, weights, err := s.loadReferenceData(ctx)
	if err != nil {
		return nil, err
	}

	// Group by symbol|timeframe|strategy, keeping the best final score.
	// Strictly greater replaces, so a tie keeps the first-seen run.
	best := make(map[string]*candidate)
	var order []string
	for _, run := range runs {
		tf := strings.TrimPrefix(run.TimeframeTable, candleTablePrefix)

		ticker := strconv.FormatInt(run.SymbolID, 10)
		var figi *string
		if sym, ok := symbols[run.SymbolID]; ok {
			ticker = sym.Ticker
			figi = sym.FIGI
		}

		scores := ComputeScores(run, weights[tf])

		key := ticker + "|" + tf + "|" + strconv.FormatInt(run.StrategyID, 10)
		current, seen := best[key]
		if !seen {
			order = append(order, key)
		}
		if !seen || scores.Final > current.scores.Final {
			best[key] = &candidate{run: run, symbol: ticker, figi: figi, tf: tf, scores: scores}
		}
	}

	s.logger.WithFields(logrus.Fields{
		"pool_size":  len(runs),
		"candidates": len(order),
	}).Debug("Candidate pool grouped")

	actions := make([]ProposedAction, 0, len(order))
	for _, key := range order {
		cand := best[key]
		action, err := s.propose(ctx, cand)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// loadReferenceData loads both reference tables fully; they are small and
// bounded.
func (s *Selector) loadReferenceData(ctx context.Context) (map[int64]*models.Symbol, map[string]float64, error) {
	symbolList, err := s.refdata.ListSymbols(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load symbols: %w", err)
	}
	symbols := make(map[int64]*models.Symbol, len(symbolList))
	for _, sym := range symbolList {
		symbols[sym.ID] = sym
	}

	weightList, err := s.refdata.ListTimeframeWeights(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load timeframe weights: %w", err)
	}
	weights := make(map[string]float64, len(weightList))
	for _, w := range weightList {
		weights[w.Timeframe] = w.Weight
	}

	return symbols, weights, nil
}

// propose diffs one candidate against the promoted universe and emits the
// matching action variant.
func (s *Selector) propose(ctx context.Context, cand *candidate) (ProposedAction, error) {
	metrics := &Metrics{
		Sharpe:     cand.run.Sharpe,
		MaxDD:      cand.run.DrawdownMagnitude(),
		PF:         cand.run.ProfitFactor,
		Trades:     cand.run.TradesCount,
		CAGR:       cand.run.CAGR,
		BaseScore:  cand.scores.Base,
		FinalScore: cand.scores.Final,
	}

	key := models.UniverseKey{Symbol: cand.symbol, Timeframe: cand.tf, StrategyID: cand.run.StrategyID}
	existing, err := s.universe.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ProposedAction{
				Action:         ActionInsert,
				Symbol:         cand.symbol,
				FIGI:           cand.figi,
				Timeframe:      cand.tf,
				StrategyID:     cand.run.StrategyID,
				ParamsJSON:     cand.run.ParamsJSON,
				Metrics:        metrics,
				BacktestRunID:  cand.run.ID,
				OptimizationID: cand.run.OptimizationID,
				WindowStart:    cand.run.WindowStart,
				WindowEnd:      cand.run.WindowEnd,
			}, nil
		}
		return ProposedAction{}, fmt.Errorf("failed to look up universe entry: %w", err)
	}

	existingMaxDD := existing.MaxDD
	return ProposedAction{
		Action:     ActionUpdateCandidate,
		Symbol:     cand.symbol,
		FIGI:       cand.figi,
		Timeframe:  cand.tf,
		StrategyID: cand.run.StrategyID,
		Existing: &ExistingSnapshot{
			ID:            existing.ID,
			BacktestRunID: existing.BacktestRunID,
			Sharpe:        existing.Sharpe,
			MaxDD:         &existingMaxDD,
			PF:            existing.PF,
			Trades:        existing.Trades,
			CAGR:          existing.CAGR,
			Score:         existing.Score,
			Mode:          existing.Mode,
			Enabled:       existing.Enabled,
		},
		New: &NewMetrics{
			BacktestRunID:  cand.run.ID,
			OptimizationID: cand.run.OptimizationID,
			Sharpe:         cand.run.Sharpe,
			MaxDD:          cand.run.DrawdownMagnitude(),
			PF:             cand.run.ProfitFactor,
			Trades:         cand.run.TradesCount,
			CAGR:           cand.run.CAGR,
			FinalScore:     cand.scores.Final,
		},
	}, nil
}
