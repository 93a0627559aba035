package universe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/backtest-dashboard/internal/models"
)

func insertAction(symbol string) ProposedAction {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return ProposedAction{
		Action:         ActionInsert,
		Symbol:         symbol,
		Timeframe:      "1h",
		StrategyID:     7,
		ParamsJSON:     []byte(`{"period": 14}`),
		BacktestRunID:  1001,
		OptimizationID: 501,
		WindowStart:    &start,
		Metrics: &Metrics{
			Sharpe:     2.4,
			MaxDD:      12.0,
			PF:         1.6,
			Trades:     50,
			CAGR:       18.0,
			BaseScore:  0.5116,
			FinalScore: 0.5116,
		},
	}
}

func updateAction(id int64) ProposedAction {
	return ProposedAction{
		Action:     ActionUpdateCandidate,
		Symbol:     "BBB",
		Timeframe:  "4h",
		StrategyID: 3,
		Existing:   &ExistingSnapshot{ID: id, Score: 0.40},
		New: &NewMetrics{
			BacktestRunID:  1002,
			OptimizationID: 502,
			Sharpe:         2.1,
			MaxDD:          10.0,
			PF:             1.5,
			Trades:         60,
			CAGR:           15.0,
			FinalScore:     0.52,
		},
	}
}

func newTestApplier(store *fakeUniverseRepo) (*Applier, *fakeTransactor) {
	tx := &fakeTransactor{store: store}
	return NewApplier(tx, store, nil, testLogger()), tx
}

func seedEntry(store *fakeUniverseRepo, id int64, symbol, tf string, strategyID int64) {
	store.entries[models.UniverseKey{Symbol: symbol, Timeframe: tf, StrategyID: strategyID}] = &models.UniverseEntry{
		ID: id, Symbol: symbol, Timeframe: tf, StrategyID: strategyID, Score: 0.40, Mode: "backtest",
	}
	if id >= store.nextID {
		store.nextID = id + 1
	}
}

func TestApplyCountsInsertsAndUpdates(t *testing.T) {
	store := newFakeUniverseRepo()
	seedEntry(store, 42, "BBB", "4h", 3)
	applier, _ := newTestApplier(store)

	result, err := applier.Apply(context.Background(), []ProposedAction{
		insertAction("AAA"),
		updateAction(42),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Updated)

	inserted, err := store.GetByKey(context.Background(), models.UniverseKey{Symbol: "AAA", Timeframe: "1h", StrategyID: 7})
	require.NoError(t, err)
	assert.Equal(t, "backtest", inserted.Mode)
	assert.InDelta(t, 0.5116, inserted.Score, 1e-12)
	require.NotNil(t, inserted.BacktestRunID)
	assert.Equal(t, int64(1001), *inserted.BacktestRunID)

	updated, err := store.GetByKey(context.Background(), models.UniverseKey{Symbol: "BBB", Timeframe: "4h", StrategyID: 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.52, updated.Score, 1e-12)
}

func TestApplySkipsUpdateWithoutExistingID(t *testing.T) {
	store := newFakeUniverseRepo()
	applier, _ := newTestApplier(store)

	action := updateAction(0)
	action.Existing = nil

	result, err := applier.Apply(context.Background(), []ProposedAction{action, insertAction("AAA")})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Skipped)
}

func TestApplySkipsUnknownAction(t *testing.T) {
	store := newFakeUniverseRepo()
	applier, _ := newTestApplier(store)

	result, err := applier.Apply(context.Background(), []ProposedAction{
		{Action: "delete"},
		{Action: ""},
		insertAction("AAA"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 2, result.Skipped)
}

func TestApplyUpdateOfMissingRowCountsZero(t *testing.T) {
	store := newFakeUniverseRepo()
	applier, _ := newTestApplier(store)

	result, err := applier.Apply(context.Background(), []ProposedAction{updateAction(999)})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Inserted)
}

func TestApplyRollsBackWholeBatchOnFailure(t *testing.T) {
	store := newFakeUniverseRepo()
	seedEntry(store, 42, "BBB", "4h", 3)
	applier, tx := newTestApplier(store)

	store.updateErr = errors.New("connection reset")

	_, err := applier.Apply(context.Background(), []ProposedAction{
		insertAction("AAA"),
		updateAction(42),
	})
	require.Error(t, err)
	assert.True(t, tx.rolledBack)

	// The insert that preceded the failure must be gone.
	_, err = store.GetByKey(context.Background(), models.UniverseKey{Symbol: "AAA", Timeframe: "1h", StrategyID: 7})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Len(t, store.entries, 1)
}

func TestApplyInsertMissingMetricsAborts(t *testing.T) {
	store := newFakeUniverseRepo()
	applier, tx := newTestApplier(store)

	action := insertAction("AAA")
	action.Metrics = nil

	_, err := applier.Apply(context.Background(), []ProposedAction{action})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidAction)
	assert.True(t, tx.rolledBack)
	assert.Empty(t, store.entries)
}

func TestApplyReplayedInsertDoesNotDuplicateKey(t *testing.T) {
	store := newFakeUniverseRepo()
	applier, _ := newTestApplier(store)

	action := insertAction("AAA")
	_, err := applier.Apply(context.Background(), []ProposedAction{action})
	require.NoError(t, err)
	_, err = applier.Apply(context.Background(), []ProposedAction{action})
	require.NoError(t, err)

	assert.Len(t, store.entries, 1)
}
