package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/yourusername/backtest-dashboard/internal/models"
)

// idParam reads a positive int64 query parameter, returning 0 when it is
// absent or invalid. Callers treat 0 as "missing".
func idParam(r *http.Request, name string) int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

// handleSymbols serves GET /api/symbols
func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := s.repos.Reference.ListSymbols(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list symbols")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbols": symbols})
}

// handleStrategySummary serves GET /api/strategy-summary?symbol_id=
func (s *Server) handleStrategySummary(w http.ResponseWriter, r *http.Request) {
	symbolID := idParam(r, "symbol_id")
	if symbolID == 0 {
		writeError(w, http.StatusBadRequest, "symbol_id is required")
		return
	}

	rows, err := s.repos.Optimization.SummaryBySymbol(r.Context(), symbolID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build strategy summary")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol_id": symbolID,
		"rows":      rows,
	})
}

// handleStrategySessions serves
// GET /api/strategy-sessions?symbol_id=&strategy_id=&timeframe_table=
func (s *Server) handleStrategySessions(w http.ResponseWriter, r *http.Request) {
	symbolID := idParam(r, "symbol_id")
	strategyID := idParam(r, "strategy_id")
	timeframeTable := r.URL.Query().Get("timeframe_table")

	if symbolID == 0 || strategyID == 0 || timeframeTable == "" {
		writeError(w, http.StatusBadRequest, "symbol_id, strategy_id, timeframe_table are required")
		return
	}
	if !models.IsCandleTable(timeframeTable) {
		writeError(w, http.StatusBadRequest, "Invalid timeframe_table")
		return
	}

	sessions, err := s.repos.Optimization.SessionsByCell(r.Context(), symbolID, strategyID, timeframeTable)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list optimization sessions")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol_id":       symbolID,
		"strategy_id":     strategyID,
		"timeframe_table": timeframeTable,
		"sessions":        sessions,
	})
}

// handleOptimizationSession serves GET /api/optimization-session?id= with the
// session header plus its trials in trial order.
func (s *Server) handleOptimizationSession(w http.ResponseWriter, r *http.Request) {
	sessionID := idParam(r, "id")
	if sessionID == 0 {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	session, err := s.repos.Optimization.GetSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		s.logger.WithError(err).Error("Failed to load optimization session")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	trials, err := s.repos.BacktestRun.GetTrialsBySession(r.Context(), sessionID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load session trials")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session": session,
		"trials":  trials,
	})
}

// handleOHLCV serves GET /api/ohlcv?symbol_id=&timeframe_table=&start=&end=
func (s *Server) handleOHLCV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbolID := idParam(r, "symbol_id")
	timeframeTable := q.Get("timeframe_table")
	startStr := q.Get("start")
	endStr := q.Get("end")

	if symbolID == 0 || timeframeTable == "" || startStr == "" || endStr == "" {
		writeError(w, http.StatusBadRequest, "symbol_id, timeframe_table, start, end are required")
		return
	}
	if !models.IsCandleTable(timeframeTable) {
		writeError(w, http.StatusBadRequest, "Invalid timeframe_table")
		return
	}

	start, err := parseTimeParam(startStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start time")
		return
	}
	end, err := parseTimeParam(endStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end time")
		return
	}

	candles, err := s.repos.Candle.GetRange(r.Context(), timeframeTable, symbolID, start, end)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load candles")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"candles": candles})
}

// parseTimeParam accepts RFC3339 or the "2006-01-02 15:04:05" form the chart
// layer sends, or a bare date.
func parseTimeParam(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized time format")
}

// handleLotHistory serves GET /api/lot-history?symbol_id=
func (s *Server) handleLotHistory(w http.ResponseWriter, r *http.Request) {
	symbolID := idParam(r, "symbol_id")
	if symbolID == 0 {
		writeError(w, http.StatusBadRequest, "Invalid symbol_id")
		return
	}

	history, err := s.repos.Lot.HistoryBySymbol(r.Context(), symbolID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load lot history")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"lotHistory": history})
}
