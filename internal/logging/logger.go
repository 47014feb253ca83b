// Package logging builds categorized zap loggers for aliasdemo.
// Logs go to stderr so stdout carries only program output.
// Each category is a named child logger that can be switched off in the
// logging section of the config file.
package logging

import (
	"fmt"
	"os"

	"aliasdemo/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup, config resolution
	CategoryDriver     Category = "driver"     // Sequence construction and output
	CategoryAccumulate Category = "accumulate" // Per-step accumulation trace
)

// Logger hands out per-category loggers sharing one core and run ID.
type Logger struct {
	base  *zap.Logger
	cfg   config.LoggingConfig
	runID string
}

// ParseLevel maps a config level name to a zap level. Unknown names map to info.
func ParseLevel(name string) zapcore.Level {
	switch name {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a Logger writing to sink. A nil sink means stderr.
// verbose forces debug level regardless of cfg.Level.
func New(cfg config.LoggingConfig, verbose bool, sink zapcore.WriteSyncer) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if sink == nil {
		sink = zapcore.Lock(os.Stderr)
	}

	level := ParseLevel(cfg.Level)
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	runID := uuid.NewString()
	base := zap.New(zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(level))).
		With(zap.String("run_id", runID))

	return &Logger{base: base, cfg: cfg, runID: runID}, nil
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{base: zap.NewNop()}
}

// RunID returns the identifier attached to every entry of this run.
func (l *Logger) RunID() string {
	return l.runID
}

// IsCategoryEnabled returns whether a specific category is enabled
func (l *Logger) IsCategoryEnabled(category Category) bool {
	return l.cfg.IsCategoryEnabled(string(category))
}

// Get returns the logger for the given category.
// Returns a no-op logger if the category is disabled.
func (l *Logger) Get(category Category) *zap.Logger {
	if !l.IsCategoryEnabled(category) {
		return zap.NewNop()
	}
	return l.base.Named(string(category))
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
