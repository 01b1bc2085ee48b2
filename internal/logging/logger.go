// Package logging builds the process logger and hands out named component
// loggers. Every component logs through a child of one shared zap.Logger so
// output format and level are decided once, at startup.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls the process logger. JSON output is for log collectors;
// the default console encoder is for humans running `deckhand serve` locally.
type Options struct {
	Debug bool
	JSON  bool
}

var (
	mu   sync.RWMutex
	root = zap.NewNop()
)

// Init builds the process logger. Call once at startup, before any component
// asks for a named logger.
func Init(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if !opts.JSON {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	if opts.Debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	SetRoot(logger)
	return logger, nil
}

// SetRoot replaces the process logger. Tests use this to capture output.
func SetRoot(logger *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	root = logger
}

// Named returns a child logger for one component ("store", "script", ...).
// Before Init it returns a nop logger, so packages may log unconditionally.
func Named(component string) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(component)
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
