// Package logging configures the zap loggers used by the lifecycle
// components (polling streams, the simulator, storage and the CLI). Filters
// and controllers run on the hot path and do not log.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

var (
	globalMu     sync.RWMutex
	globalLogger = Nop()
)

// ReplaceGlobal replaces the logger returned by Global.
func ReplaceGlobal(logger *zap.SugaredLogger) {
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

// Global returns the process wide logger. It discards everything until
// ReplaceGlobal is called.
func Global() *zap.SugaredLogger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// NewConfig returns a console config with colored levels, ISO8601 times and
// no stacktraces.
func NewConfig(debug bool) zap.Config {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// New builds a named logger writing to stderr.
func New(name string, debug bool) *zap.SugaredLogger {
	logger, err := NewConfig(debug).Build()
	if err != nil {
		return Nop()
	}
	return logger.Named(name).Sugar()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// NewTest returns a debug logger that writes through the test's log.
func NewTest(t zaptest.TestingT) *zap.SugaredLogger {
	return zaptest.NewLogger(t, zaptest.Level(zapcore.DebugLevel)).Sugar()
}

// NewObserved returns a debug logger whose entries are kept in memory.
func NewObserved() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

// OrGlobal returns logger, or the global logger when it is nil.
func OrGlobal(logger *zap.SugaredLogger) *zap.SugaredLogger {
	if logger == nil {
		return Global()
	}
	return logger
}
