package server

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/backtest-dashboard/internal/models"
)

func (e *testEnv) optimization() *stubOptimizationRepo {
	return e.server.repos.Optimization.(*stubOptimizationRepo)
}

func TestSymbolsEndpoint(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/api/symbols", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Symbols []*models.Symbol `json:"symbols"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Symbols, 1)
	assert.Equal(t, "AAA", resp.Symbols[0].Ticker)
}

func TestStrategySummaryRequiresSymbolID(t *testing.T) {
	env := newTestEnv()

	for _, target := range []string{
		"/api/strategy-summary",
		"/api/strategy-summary?symbol_id=0",
		"/api/strategy-summary?symbol_id=abc",
		"/api/strategy-summary?symbol_id=-3",
	} {
		rec := env.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestStrategySummaryReturnsRows(t *testing.T) {
	env := newTestEnv()
	env.optimization().summary = []*models.StrategySummaryRow{
		{StrategyID: 7, StrategyCode: "rsi_rev", TimeframeTable: "candles_1h", SessionsCount: 3},
	}

	rec := env.do(http.MethodGet, "/api/strategy-summary?symbol_id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SymbolID int64                      `json:"symbol_id"`
		Rows     []*models.StrategySummaryRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.SymbolID)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "rsi_rev", resp.Rows[0].StrategyCode)
}

func TestStrategySessionsValidatesTimeframe(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/api/strategy-sessions?symbol_id=1&strategy_id=7&timeframe_table=candles_2h", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/strategy-sessions?symbol_id=1&strategy_id=7", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/strategy-sessions?symbol_id=1&strategy_id=7&timeframe_table=candles_1h", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptimizationSessionNotFound(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/api/optimization-session?id=99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOptimizationSessionWithTrials(t *testing.T) {
	env := newTestEnv()
	env.optimization().session = &models.OptimizationSession{ID: 5, StrategyID: 7, SymbolID: 1, Status: "done"}
	env.runs.trials = []*models.Trial{{TrialNumber: 1, IsBest: true, Sharpe: 2.4}}

	rec := env.do(http.MethodGet, "/api/optimization-session?id=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Session *models.OptimizationSession `json:"session"`
		Trials  []*models.Trial             `json:"trials"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.Session.ID)
	require.Len(t, resp.Trials, 1)
	assert.True(t, resp.Trials[0].IsBest)
}

func TestOHLCVValidation(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing params", "/api/ohlcv?symbol_id=1", http.StatusBadRequest},
		{"bad table", "/api/ohlcv?symbol_id=1&timeframe_table=users&start=2024-01-01&end=2024-02-01", http.StatusBadRequest},
		{"bad start", "/api/ohlcv?symbol_id=1&timeframe_table=candles_1h&start=nope&end=2024-02-01", http.StatusBadRequest},
		{"ok", "/api/ohlcv?symbol_id=1&timeframe_table=candles_1h&start=2024-01-01&end=2024-02-01", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, tt.target, "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestOHLCVReturnsCandles(t *testing.T) {
	env := newTestEnv()
	env.server.repos.Candle.(*stubCandleRepo).candles = []*models.Candle{
		{Time: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
	}

	rec := env.do(http.MethodGet, "/api/ohlcv?symbol_id=1&timeframe_table=candles_1h&start=2024-01-01&end=2024-02-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Candles []*models.Candle `json:"candles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Candles, 1)
	assert.Equal(t, 1.5, resp.Candles[0].Close)
}

func TestLotHistoryRequiresSymbolID(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/api/lot-history", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/lot-history?symbol_id=1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv()
	env.server.SetReady(true)

	rec := env.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyReportsDatabaseFailure(t *testing.T) {
	env := newTestEnv()
	env.server.SetReady(true)
	env.server.db = pinger{err: errBoom}

	rec := env.do(http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Contains(t, resp.Checks["database"], "boom")
}

func TestRequestIDHeaderSet(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodGet, "/api/symbols", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv()

	rec := env.do(http.MethodOptions, "/api/universe/apply", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
