package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("json format logs expected fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, int(zerolog.InfoLevel), "json")

		logger.Info().Str("key", "value").Msg("json_test")

		require.Contains(t, buf.String(), `"message":"json_test"`)
		require.Contains(t, buf.String(), `"key":"value"`)
	})

	t.Run("console format logs human readable output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, int(zerolog.DebugLevel), "console")

		logger.Debug().Str("env", "test").Msg("console_log")

		require.Contains(t, buf.String(), "console_log")
		require.Contains(t, buf.String(), "env=test")
	})

	t.Run("level filters lower events", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, int(zerolog.WarnLevel), "json")

		logger.Info().Msg("hidden")
		logger.Warn().Msg("shown")

		require.NotContains(t, buf.String(), "hidden")
		require.Contains(t, buf.String(), "shown")
	})
}

func TestInitDisabled(t *testing.T) {
	previous := log.Logger
	defer func() { log.Logger = previous }()

	logger := Init(false, int(zerolog.DebugLevel), "json")
	require.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestGormLogger(t *testing.T) {
	var buf bytes.Buffer
	gl := NewGormLogger(New(&buf, int(zerolog.DebugLevel), "json"))
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	require.Empty(t, buf.String())

	gl.Trace(ctx, time.Now(), query, errors.New("disk I/O error"))
	require.Contains(t, buf.String(), "query failed")
	require.Contains(t, buf.String(), `"component":"gorm"`)

	buf.Reset()
	gl.Trace(ctx, time.Now().Add(-2*time.Second), query, nil)
	require.Empty(t, buf.String(), "slow queries are not logged at error level")

	verbose := gl.LogMode(gormlogger.Warn)
	verbose.Trace(ctx, time.Now().Add(-2*time.Second), query, nil)
	require.Contains(t, buf.String(), "slow query")
}
