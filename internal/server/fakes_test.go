package server

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/backtest-dashboard/internal/config"
	"github.com/yourusername/backtest-dashboard/internal/models"
	"github.com/yourusername/backtest-dashboard/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "backtest-dashboard-test",
			Environment: "development",
			LogLevel:    "panic",
		},
		Server: config.ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  5,
			WriteTimeoutSeconds: 10,
			RateLimitPerSecond:  1000,
			RateLimitBurst:      1000,
		},
		Selection: config.SelectionConfig{
			MinSharpe:       1.8,
			MinProfitFactor: 1.3,
			MaxDrawdown:     30.0,
			MinTrades:       10,
			MinCAGR:         5.0,
		},
		RefData: config.RefDataConfig{TTLSeconds: 300, RefreshSchedule: "@every 5m"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type stubRunRepo struct {
	runs       []*models.BacktestRun
	trials     []*models.Trial
	lastFilter repository.RunFilter
	err        error
}

func (s *stubRunRepo) FindEligible(_ context.Context, filter repository.RunFilter) ([]*models.BacktestRun, error) {
	s.lastFilter = filter
	return s.runs, s.err
}

func (s *stubRunRepo) GetTrialsBySession(context.Context, int64) ([]*models.Trial, error) {
	return s.trials, s.err
}

type stubUniverseRepo struct {
	entries   map[models.UniverseKey]*models.UniverseEntry
	nextID    int64
	upsertErr error
}

func newStubUniverseRepo() *stubUniverseRepo {
	return &stubUniverseRepo{entries: make(map[models.UniverseKey]*models.UniverseEntry), nextID: 1}
}

func (s *stubUniverseRepo) GetByKey(_ context.Context, key models.UniverseKey) (*models.UniverseEntry, error) {
	if entry, ok := s.entries[key]; ok {
		return entry, nil
	}
	return nil, models.ErrNotFound
}

func (s *stubUniverseRepo) List(context.Context) ([]*models.UniverseEntry, error) {
	out := make([]*models.UniverseEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	return out, nil
}

func (s *stubUniverseRepo) Upsert(_ context.Context, entry *models.UniverseEntry) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	key := entry.Key()
	if existing, ok := s.entries[key]; ok {
		entry.ID = existing.ID
	} else {
		entry.ID = s.nextID
		s.nextID++
	}
	s.entries[key] = entry
	return nil
}

func (s *stubUniverseRepo) UpdateByID(_ context.Context, id int64, update models.UniverseUpdate) (int64, error) {
	for _, entry := range s.entries {
		if entry.ID == id {
			entry.Sharpe = update.Sharpe
			entry.Score = update.Score
			return 1, nil
		}
	}
	return 0, nil
}

type stubRefRepo struct {
	symbols []*models.Symbol
	weights []*models.TimeframeWeight
	err     error
}

func (s *stubRefRepo) ListSymbols(context.Context) ([]*models.Symbol, error) {
	return s.symbols, s.err
}

func (s *stubRefRepo) ListTimeframeWeights(context.Context) ([]*models.TimeframeWeight, error) {
	return s.weights, s.err
}

type stubOptimizationRepo struct {
	summary  []*models.StrategySummaryRow
	sessions []*models.OptimizationSession
	session  *models.OptimizationSession
	err      error
}

func (s *stubOptimizationRepo) SummaryBySymbol(context.Context, int64) ([]*models.StrategySummaryRow, error) {
	return s.summary, s.err
}

func (s *stubOptimizationRepo) SessionsByCell(context.Context, int64, int64, string) ([]*models.OptimizationSession, error) {
	return s.sessions, s.err
}

func (s *stubOptimizationRepo) GetSession(context.Context, int64) (*models.OptimizationSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.session == nil {
		return nil, models.ErrNotFound
	}
	return s.session, nil
}

type stubCandleRepo struct {
	candles []*models.Candle
	err     error
}

func (s *stubCandleRepo) GetRange(context.Context, string, int64, time.Time, time.Time) ([]*models.Candle, error) {
	return s.candles, s.err
}

type stubLotRepo struct {
	history []*models.LotChange
	err     error
}

func (s *stubLotRepo) HistoryBySymbol(context.Context, int64) ([]*models.LotChange, error) {
	return s.history, s.err
}

// passTransactor runs the function directly; the in-memory stubs have no
// transaction to join.
type passTransactor struct{}

func (passTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

var errBoom = errors.New("boom")
