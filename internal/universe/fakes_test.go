package universe

import (
	"context"
	"errors"

	"github.com/yourusername/backtest-dashboard/internal/models"
	"github.com/yourusername/backtest-dashboard/internal/repository"
)

// In-memory fakes for the repository interfaces. The fake transactor
// snapshots the universe store before running the batch and restores it on
// error, mirroring a database rollback.

type fakeRunRepo struct {
	runs      []*models.BacktestRun
	lastQuery repository.RunFilter
	err       error
}

func (f *fakeRunRepo) FindEligible(_ context.Context, filter repository.RunFilter) ([]*models.BacktestRun, error) {
	f.lastQuery = filter
	return f.runs, f.err
}

func (f *fakeRunRepo) GetTrialsBySession(context.Context, int64) ([]*models.Trial, error) {
	return nil, errors.New("not implemented")
}

type fakeRefRepo struct {
	symbols []*models.Symbol
	weights []*models.TimeframeWeight
}

func (f *fakeRefRepo) ListSymbols(context.Context) ([]*models.Symbol, error) {
	return f.symbols, nil
}

func (f *fakeRefRepo) ListTimeframeWeights(context.Context) ([]*models.TimeframeWeight, error) {
	return f.weights, nil
}

type fakeUniverseRepo struct {
	entries map[models.UniverseKey]*models.UniverseEntry
	nextID  int64

	upsertErr error
	updateErr error
}

func newFakeUniverseRepo() *fakeUniverseRepo {
	return &fakeUniverseRepo{entries: make(map[models.UniverseKey]*models.UniverseEntry), nextID: 1}
}

func (f *fakeUniverseRepo) GetByKey(_ context.Context, key models.UniverseKey) (*models.UniverseEntry, error) {
	if entry, ok := f.entries[key]; ok {
		copied := *entry
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeUniverseRepo) List(context.Context) ([]*models.UniverseEntry, error) {
	var out []*models.UniverseEntry
	for _, entry := range f.entries {
		copied := *entry
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeUniverseRepo) Upsert(_ context.Context, entry *models.UniverseEntry) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	key := entry.Key()
	if existing, ok := f.entries[key]; ok {
		id := existing.ID
		copied := *entry
		copied.ID = id
		f.entries[key] = &copied
		return nil
	}
	copied := *entry
	copied.ID = f.nextID
	f.nextID++
	f.entries[key] = &copied
	return nil
}

func (f *fakeUniverseRepo) UpdateByID(_ context.Context, id int64, update models.UniverseUpdate) (int64, error) {
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	for _, entry := range f.entries {
		if entry.ID == id {
			entry.Sharpe = update.Sharpe
			entry.MaxDD = update.MaxDD
			entry.PF = update.PF
			entry.Trades = update.Trades
			entry.CAGR = update.CAGR
			entry.Score = update.Score
			entry.ParamsJSON = update.ParamsJSON
			runID := update.BacktestRunID
			entry.BacktestRunID = &runID
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeUniverseRepo) snapshot() map[models.UniverseKey]*models.UniverseEntry {
	snap := make(map[models.UniverseKey]*models.UniverseEntry, len(f.entries))
	for key, entry := range f.entries {
		copied := *entry
		snap[key] = &copied
	}
	return snap
}

type fakeTransactor struct {
	store      *fakeUniverseRepo
	rolledBack bool
}

func (f *fakeTransactor) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	snap := f.store.snapshot()
	if err := fn(ctx); err != nil {
		f.store.entries = snap
		f.rolledBack = true
		return err
	}
	return nil
}

func defaultFilter() repository.RunFilter {
	return repository.RunFilter{
		MinSharpe:       1.8,
		MinProfitFactor: 1.3,
		MaxDrawdown:     30.0,
		MinTrades:       10,
		MinCAGR:         5.0,
	}
}
