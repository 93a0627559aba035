package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("not-a-level")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestAuditLoggerPromotionInsert(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	audit.LogPromotionInsert("AAA", "1h", 7, 1001, 0.555)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "insert", logEntry["action"])
	assert.Equal(t, "AAA", logEntry["symbol"])
	assert.Equal(t, "1h", logEntry["timeframe"])
}

func TestAuditLoggerPromotionUpdate(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	audit.LogPromotionUpdate(42, "BBB", "4h", 3, 0.41, 0.52)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "update_candidate", logEntry["action"])
	assert.Equal(t, float64(42), logEntry["universe_id"])
}

func TestAuditLoggerRollback(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	audit.LogPromotionRollback("req-1", errors.New("constraint violation"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "constraint violation", logEntry["reason"])
}
