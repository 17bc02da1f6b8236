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

func newObserved(level gormlogger.LogLevel, slow time.Duration) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, slow), logs
}

func TestGormLoggerLevels(t *testing.T) {
	adapter, logs := newObserved(gormlogger.Warn, 0)
	ctx := context.Background()

	adapter.Info(ctx, "hidden %d", 1)
	adapter.Warn(ctx, "warned %s", "here")
	adapter.Error(ctx, "failed")

	msgs := make([]string, 0)
	for _, e := range logs.All() {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"warned here", "failed"}, msgs)

	verbose := adapter.LogMode(gormlogger.Info)
	verbose.Info(ctx, "shown")
	assert.Equal(t, 1, logs.FilterMessage("shown").Len())
}

func TestGormLoggerTrace(t *testing.T) {
	query := func() (string, int64) { return "SELECT * FROM orders", 3 }

	t.Run("error carries sql and request id", func(t *testing.T) {
		adapter, logs := newObserved(gormlogger.Warn, 0)
		ctx := WithRequestID(context.Background(), "req-1")
		adapter.Trace(ctx, time.Now(), query, errors.New("boom"))

		entries := logs.FilterMessage("Database operation failed").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "SELECT * FROM orders", fields["sql"])
		assert.Equal(t, "req-1", fields["request_id"])
	})

	t.Run("record not found ignored", func(t *testing.T) {
		adapter, logs := newObserved(gormlogger.Warn, 0)
		adapter.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)
		assert.Zero(t, logs.Len())
	})

	t.Run("slow query", func(t *testing.T) {
		adapter, logs := newObserved(gormlogger.Warn, time.Millisecond)
		adapter.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)
		assert.Equal(t, 1, logs.FilterMessage("Slow SQL query").Len())
	})

	t.Run("silent", func(t *testing.T) {
		adapter, logs := newObserved(gormlogger.Silent, 0)
		adapter.Trace(context.Background(), time.Now(), query, errors.New("boom"))
		assert.Zero(t, logs.Len())
	})
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
}
