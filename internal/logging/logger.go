// Package logging provides config-driven categorized logging for admitcast.
// Every category shares one zap core; categories can be switched off
// individually from the logging section of admit.yaml.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"admitcast/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config resolution
	CategoryCatalog Category = "catalog" // Catalog loading
	CategoryEnrich  Category = "enrich"  // Gemini lookups and the patch cache
	CategoryPredict Category = "predict" // Scoring
	CategoryWizard  Category = "wizard"  // Step transitions
	CategoryServer  Category = "server"  // HTTP surface
	CategoryChat    Category = "chat"    // Scripted assistant
)

// Categories lists every known category.
var Categories = []Category{
	CategoryBoot, CategoryCatalog, CategoryEnrich, CategoryPredict,
	CategoryWizard, CategoryServer, CategoryChat,
}

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	cfg     config.LoggingConfig
	loggers = make(map[Category]*zap.SugaredLogger)
)

// Options selects where Initialize sends output.
type Options struct {
	// Verbose forces debug level.
	Verbose bool
	// ToFile writes to cfg.File instead of stderr. The interactive wizard
	// owns the terminal, so it logs to a file.
	ToFile bool
}

// Initialize builds the shared zap logger from the logging config.
// It returns the root logger so callers can defer Sync.
func Initialize(lc config.LoggingConfig, opts Options) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if strings.EqualFold(lc.Format, "console") {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Sampling = nil

	level, err := zapcore.ParseLevel(defaultString(lc.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if opts.ToFile && lc.File != "" {
		if err := os.MkdirAll(filepath.Dir(lc.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zc.OutputPaths = []string{lc.File}
		zc.ErrorOutputPaths = []string{lc.File}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	Use(logger, lc)
	Get(CategoryBoot).Debugw("logging initialized", "level", level.String(), "format", zc.Encoding)
	return logger, nil
}

// Use installs an existing zap logger. Tests pass zaptest or observer loggers.
func Use(logger *zap.Logger, lc config.LoggingConfig) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	base = logger
	cfg = lc
	loggers = make(map[Category]*zap.SugaredLogger)
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.IsCategoryEnabled(string(category))
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}

	var l *zap.SugaredLogger
	if cfg.IsCategoryEnabled(string(category)) {
		l = base.Named(string(category)).Sugar()
	} else {
		l = zap.NewNop().Sugar()
	}
	loggers[category] = l
	return l
}

// Sync flushes buffered entries. Call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debugw(t.op+" completed", "elapsed", elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warnw(t.op+" was slow", "elapsed", elapsed, "threshold", threshold)
	} else {
		Get(t.category).Debugw(t.op+" completed", "elapsed", elapsed)
	}
	return elapsed
}
