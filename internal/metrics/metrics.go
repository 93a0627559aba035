// Package metrics provides the centralized Prometheus metrics registry for the dashboard.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SelectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "backtest_dashboard",
		Name:      "selections_total",
		Help:      "Total number of universe selection runs",
	})
	CandidatesProposedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backtest_dashboard",
		Name:      "candidates_proposed_total",
		Help:      "Total number of candidate actions proposed, by action",
	}, []string{"action"})
	PromotionsAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backtest_dashboard",
		Name:      "promotions_applied_total",
		Help:      "Total number of universe rows written, by action",
	}, []string{"action"})
	PromotionRollbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "backtest_dashboard",
		Name:      "promotion_rollbacks_total",
		Help:      "Total number of promotion batches rolled back",
	})
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backtest_dashboard",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by path and status code",
	}, []string{"path", "status"})
)

// Gauge metrics
var (
	ProposalsLastSelection = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "backtest_dashboard",
		Name:      "proposals_last_selection",
		Help:      "Number of candidate actions produced by the most recent selection",
	})
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "backtest_dashboard",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path"})
	SelectionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "backtest_dashboard",
		Name:      "selection_duration_seconds",
		Help:      "Duration of universe selection runs in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(SelectionsTotal)
		registry.MustRegister(CandidatesProposedTotal)
		registry.MustRegister(PromotionsAppliedTotal)
		registry.MustRegister(PromotionRollbacksTotal)
		registry.MustRegister(RequestsTotal)

		// Register gauge metrics
		registry.MustRegister(ProposalsLastSelection)

		// Register histogram metrics
		registry.MustRegister(RequestDuration)
		registry.MustRegister(SelectionDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSelection records a selection run, its duration, and how many
// proposals it produced.
func RecordSelection(durationSeconds float64, proposed int) {
	SelectionsTotal.Inc()
	SelectionDuration.Observe(durationSeconds)
	ProposalsLastSelection.Set(float64(proposed))
}

// RecordCandidateProposed records a proposed candidate action.
func RecordCandidateProposed(action string) {
	CandidatesProposedTotal.WithLabelValues(action).Inc()
}

// RecordPromotionApplied records a universe row written during apply.
func RecordPromotionApplied(action string) {
	PromotionsAppliedTotal.WithLabelValues(action).Inc()
}

// RecordPromotionRollback records a rolled back promotion batch.
func RecordPromotionRollback() {
	PromotionRollbacksTotal.Inc()
}

// RecordRequest records a completed HTTP request.
func RecordRequest(path, status string, durationSeconds float64) {
	RequestsTotal.WithLabelValues(path, status).Inc()
	RequestDuration.WithLabelValues(path).Observe(durationSeconds)
}
