//go:build !tinygo

package dbgserial

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Component identifies the part of the package a log record came from.
type Component string

const (
	ComponentLine   Component = "line"
	ComponentDevice Component = "device"
)

var (
	logger   *slog.Logger
	logLevel = new(slog.LevelVar)
	logMu    sync.RWMutex
)

func init() {
	logLevel.Set(slog.LevelWarn)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// SetLogLevel sets the minimum level of the package logger.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// SetLogger replaces the package logger. A nil logger discards everything.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logMu.Lock()
	defer logMu.Unlock()
	logger = l
}

func logFor(c Component) *slog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger.With("component", string(c))
}
