package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"admitcast/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, lc config.LoggingConfig) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core), lc)
	t.Cleanup(func() { Use(nil, config.LoggingConfig{}) })
	return logs
}

func TestGet_NamesLoggerByCategory(t *testing.T) {
	logs := observe(t, config.LoggingConfig{})

	Get(CategoryCatalog).Infow("loaded", "count", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "catalog", entries[0].LoggerName)
	assert.Equal(t, int64(3), entries[0].ContextMap()["count"])
}

func TestGet_DisabledCategoryIsSilent(t *testing.T) {
	logs := observe(t, config.LoggingConfig{Categories: map[string]bool{"chat": false}})

	assert.False(t, IsCategoryEnabled(CategoryChat))
	assert.True(t, IsCategoryEnabled(CategoryServer))

	Get(CategoryChat).Info("hidden")
	Get(CategoryServer).Info("shown")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0].Message)
}

func TestGet_CachesLoggers(t *testing.T) {
	observe(t, config.LoggingConfig{})
	assert.Same(t, Get(CategoryWizard), Get(CategoryWizard))
}

func TestTimer_StopWithThreshold(t *testing.T) {
	logs := observe(t, config.LoggingConfig{})

	timer := StartTimer(CategoryEnrich, "lookup")
	time.Sleep(2 * time.Millisecond)
	timer.StopWithThreshold(time.Nanosecond)

	entries := logs.FilterMessage("lookup was slow").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestInitialize_WritesToFile(t *testing.T) {
	t.Cleanup(func() { Use(nil, config.LoggingConfig{}) })

	path := filepath.Join(t.TempDir(), "logs", "admit.log")
	logger, err := Initialize(config.LoggingConfig{Level: "info", Format: "json", File: path}, Options{ToFile: true})
	require.NoError(t, err)

	Get(CategoryBoot).Infow("hello", "k", "v")
	Get(CategoryBoot).Debug("below level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.False(t, strings.Contains(string(data), "below level"))
}

func TestInitialize_RejectsBadLevel(t *testing.T) {
	_, err := Initialize(config.LoggingConfig{Level: "loud"}, Options{})
	assert.Error(t, err)
}
