package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/yourusername/backtest-dashboard/internal/metrics"
	"github.com/yourusername/backtest-dashboard/internal/repository"
	"github.com/yourusername/backtest-dashboard/internal/universe"
)

// floatParam reads a float query parameter, falling back to def when the
// parameter is absent or unparsable.
func floatParam(r *http.Request, name string, def float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// filterFromRequest builds the eligibility filter from query parameters,
// substituting configured defaults for anything absent. Invalid date strings
// drop the date filter rather than failing the request.
func (s *Server) filterFromRequest(r *http.Request) repository.RunFilter {
	q := r.URL.Query()
	sel := s.cfg.Selection

	return repository.RunFilter{
		MinSharpe:       floatParam(r, "min_sharpe", sel.MinSharpe),
		MinProfitFactor: floatParam(r, "min_pf", sel.MinProfitFactor),
		MaxDrawdown:     floatParam(r, "max_dd", sel.MaxDrawdown),
		MinTrades:       intParam(r, "min_trades", sel.MinTrades),
		MinCAGR:         floatParam(r, "min_cagr", sel.MinCAGR),
		DateFrom:        universe.ParseFilterDate(q.Get("date_from")),
		DateTo:          universe.ParseFilterDate(q.Get("date_to")),
	}
}

// handleSelect serves GET /api/universe/select: score the eligible backtest
// runs and return the proposed universe actions as a JSON array.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	start := time.Now()
	actions, err := s.selector.SelectCandidates(r.Context(), s.filterFromRequest(r))
	if err != nil {
		s.logger.WithError(err).Error("Candidate selection failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.RecordSelection(time.Since(start).Seconds(), len(actions))
	for _, action := range actions {
		metrics.RecordCandidateProposed(action.Action)
	}

	writeJSON(w, http.StatusOK, actions)
}

// handleApply serves POST /api/universe/apply: apply an operator-approved
// batch of proposed actions in one transaction.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var actions []universe.ProposedAction
	if err := json.Unmarshal(body, &actions); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: expected an array of actions")
		return
	}

	requestID := RequestIDFromContext(r.Context())

	result, err := s.applier.Apply(r.Context(), actions)
	if err != nil {
		s.audit.LogPromotionRollback(requestID, err)
		metrics.RecordPromotionRollback()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.audit.LogPromotionBatch(requestID, result.Inserted, result.Updated, result.Skipped)
	for i := 0; i < result.Inserted; i++ {
		metrics.RecordPromotionApplied(universe.ActionInsert)
	}
	for i := 0; i < result.Updated; i++ {
		metrics.RecordPromotionApplied(universe.ActionUpdateCandidate)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"inserted": result.Inserted,
		"updated":  result.Updated,
	})
}
