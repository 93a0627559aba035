package universe

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/backtest-dashboard/internal/logger"
	"github.com/yourusername/backtest-dashboard/internal/models"
	"github.com/yourusername/backtest-dashboard/internal/repository"
)

// Transactor runs a function inside a single database transaction, rolling
// back when it returns an error.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}

// ApplyResult tallies the outcome of one promotion batch.
type ApplyResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"-"`
}

// Applier writes an operator-approved batch of proposals into the universe.
// The batch is all-or-nothing: any per-item failure rolls everything back.
type Applier struct {
	tx       Transactor
	universe repository.UniverseRepository
	audit    *logger.AuditLogger
	logger   *logrus.Logger
}

// NewApplier creates a promotion applier
func NewApplier(tx Transactor, universe repository.UniverseRepository, audit *logger.AuditLogger, log *logrus.Logger) *Applier {
	return &Applier{tx: tx, universe: universe, audit: audit, logger: log}
}

// Apply dispatches the approved actions in input order inside one
// transaction. Items without a recognized action, and update items without an
// existing id, are skipped without aborting the batch. A skipped update is
// counted as zero updates; so is an update whose id no longer exists.
func (a *Applier) Apply(ctx context.Context, actions []ProposedAction) (ApplyResult, error) {
	var result ApplyResult

	err := a.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for i, action := range actions {
			switch action.Action {
			case ActionInsert:
				if err := a.applyInsert(txCtx, action); err != nil {
					return fmt.Errorf("action %d: %w", i, err)
				}
				result.Inserted++

			case ActionUpdateCandidate:
				if action.Existing == nil || action.Existing.ID == 0 {
					result.Skipped++
					continue
				}
				affected, err := a.applyUpdate(txCtx, action)
				if err != nil {
					return fmt.Errorf("action %d: %w", i, err)
				}
				result.Updated += int(affected)

			default:
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return ApplyResult{}, err
	}

	a.logger.WithFields(logrus.Fields{
		"inserted": result.Inserted,
		"updated":  result.Updated,
		"skipped":  result.Skipped,
	}).Info("Promotion batch applied")

	return result, nil
}

// applyInsert promotes a new natural key via the conflict-resolving upsert,
// so replaying the same insert cannot duplicate the key.
func (a *Applier) applyInsert(ctx context.Context, action ProposedAction) error {
	if action.Metrics == nil {
		return fmt.Errorf("%w: insert action missing metrics", models.ErrInvalidAction)
	}

	runID := action.BacktestRunID
	entry := &models.UniverseEntry{
		Symbol:            action.Symbol,
		FIGI:              action.FIGI,
		Timeframe:         action.Timeframe,
		StrategyID:        action.StrategyID,
		ParamsJSON:        action.ParamsJSON,
		Sharpe:            action.Metrics.Sharpe,
		MaxDD:             action.Metrics.MaxDD,
		PF:                action.Metrics.PF,
		Trades:            action.Metrics.Trades,
		CAGR:              action.Metrics.CAGR,
		BacktestRunID:     &runID,
		BacktestStartedAt: action.WindowStart,
		Score:             action.Metrics.FinalScore,
		Mode:              "backtest",
		Priority:          0,
	}

	if err := a.universe.Upsert(ctx, entry); err != nil {
		return err
	}

	if a.audit != nil {
		a.audit.LogPromotionInsert(action.Symbol, action.Timeframe, action.StrategyID, action.BacktestRunID, action.Metrics.FinalScore)
	}
	return nil
}

// applyUpdate overwrites the performance fields of the existing row named by
// the proposal.
func (a *Applier) applyUpdate(ctx context.Context, action ProposedAction) (int64, error) {
	if action.New == nil {
		return 0, fmt.Errorf("%w: update_candidate action missing new metrics", models.ErrInvalidAction)
	}

	update := models.UniverseUpdate{
		ParamsJSON:        action.ParamsJSON,
		Sharpe:            action.New.Sharpe,
		MaxDD:             action.New.MaxDD,
		PF:                action.New.PF,
		Trades:            action.New.Trades,
		CAGR:              action.New.CAGR,
		BacktestRunID:     action.New.BacktestRunID,
		BacktestStartedAt: action.WindowStart,
		Score:             action.New.FinalScore,
	}

	affected, err := a.universe.UpdateByID(ctx, action.Existing.ID, update)
	if err != nil {
		return 0, err
	}

	if a.audit != nil && affected > 0 {
		a.audit.LogPromotionUpdate(action.Existing.ID, action.Symbol, action.Timeframe, action.StrategyID, action.Existing.Score, action.New.FinalScore)
	}
	return affected, nil
}
