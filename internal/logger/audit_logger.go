// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for universe mutations. Every
// write to strategy_universe goes through the promotion applier, so this is
// the complete change history of the curated table.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPromotionInsert records a first-time promotion of a natural key.
func (al *AuditLogger) LogPromotionInsert(symbol, timeframe string, strategyID, backtestRunID int64, score float64) {
	al.WithFields(logrus.Fields{
		"action":          "insert",
		"symbol":          symbol,
		"timeframe":       timeframe,
		"strategy_id":     strategyID,
		"backtest_run_id": backtestRunID,
		"score":           score,
	}).Info("Universe entry promoted")
}

// LogPromotionUpdate records a re-promotion of an existing universe entry.
func (al *AuditLogger) LogPromotionUpdate(id int64, symbol, timeframe string, strategyID int64, oldScore, newScore float64) {
	al.WithFields(logrus.Fields{
		"action":      "update_candidate",
		"universe_id": id,
		"symbol":      symbol,
		"timeframe":   timeframe,
		"strategy_id": strategyID,
		"old_score":   oldScore,
		"new_score":   newScore,
	}).Info("Universe entry updated")
}

// LogPromotionBatch records the outcome of one apply call.
func (al *AuditLogger) LogPromotionBatch(requestID string, inserted, updated, skipped int) {
	al.WithFields(logrus.Fields{
		"request_id": requestID,
		"inserted":   inserted,
		"updated":    updated,
		"skipped":    skipped,
	}).Info("Promotion batch applied")
}

// LogPromotionRollback records a failed apply call that was rolled back.
func (al *AuditLogger) LogPromotionRollback(requestID string, reason error) {
	al.WithFields(logrus.Fields{
		"request_id": requestID,
		"reason":     reason.Error(),
	}).Warn("Promotion batch rolled back")
}
