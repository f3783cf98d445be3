package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func observedGormLogger(level gormlogger.LogLevel) (gormlogger.Interface, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level), logs
}

func traceQuery(gl gormlogger.Interface, begin time.Time, sql string, err error) {
	gl.Trace(context.Background(), begin, func() (string, int64) {
		return sql, 1
	}, err)
}

func TestGormLogger_TraceLogsQuery(t *testing.T) {
	gl, logs := observedGormLogger(gormlogger.Info)

	traceQuery(gl, time.Now(), "SELECT * FROM warehouse_balances WHERE warehouse_code = $1", nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.DebugLevel, entry.Level)
	assert.Equal(t, "sql", entry.Message)
	assert.Contains(t, entry.ContextMap()["sql"], "warehouse_balances")
}

func TestGormLogger_TraceLogsError(t *testing.T) {
	gl, logs := observedGormLogger(gormlogger.Error)

	traceQuery(gl, time.Now(), "UPDATE documents SET status = $1", errors.New("deadlock detected"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "sql error", entry.Message)
	assert.Equal(t, "deadlock detected", entry.ContextMap()["error"])
}

func TestGormLogger_TraceSuppressesRecordNotFound(t *testing.T) {
	gl, logs := observedGormLogger(gormlogger.Error)

	traceQuery(gl, time.Now(), "SELECT * FROM sales WHERE reference = $1", gormlogger.ErrRecordNotFound)

	assert.Zero(t, logs.Len())
}

func TestGormLogger_TraceWarnsOnSlowQuery(t *testing.T) {
	gl, logs := observedGormLogger(gormlogger.Warn)

	traceQuery(gl, time.Now().Add(-time.Second), "SELECT SUM(delta) FROM inventory_ledger", nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "slow sql", entry.Message)
}

func TestGormLogger_TraceSilent(t *testing.T) {
	gl, logs := observedGormLogger(gormlogger.Silent)

	traceQuery(gl, time.Now().Add(-time.Second), "SELECT 1", errors.New("boom"))

	assert.Zero(t, logs.Len())
}

func TestGormLogger_TraceCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-42")
	gl.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-42", logs.All()[0].ContextMap()["request_id"])
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, logs := observedGormLogger(gormlogger.Silent)

	noisy := gl.LogMode(gormlogger.Info)
	traceQuery(noisy, time.Now(), "SELECT 1", nil)
	traceQuery(gl, time.Now(), "SELECT 1", nil)

	assert.Equal(t, 1, logs.Len())
}

func TestGormLogger_LevelGatesMessages(t *testing.T) {
	gl, logs := observedGormLogger(gormlogger.Warn)

	gl.Info(context.Background(), "migration %s applied", "batches")
	gl.Warn(context.Background(), "connection pool at %d", 90)
	gl.Error(context.Background(), "replica lag %v", time.Second)

	assert.Equal(t, 2, logs.Len())
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"", gormlogger.Warn},
		{"verbose", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, MapGormLogLevel(tt.level))
		})
	}
}
