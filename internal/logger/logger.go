// Package logger provides the shared application logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.Mutex
	log *zap.SugaredLogger
)

// Initialize configures the global logger. Debug enables development
// encoding and debug-level output. Safe to call more than once; the
// last call wins.
func Initialize(debug bool) {
	mu.Lock()
	defer mu.Unlock()

	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Config above is static; Build only fails on invalid sink paths.
		panic(err)
	}
	log = l.Sugar()
}

func get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		l, _ := zap.NewProduction(zap.AddCallerSkip(1))
		log = l.Sugar()
	}
	return log
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) { get().Debugf(format, args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { get().Infof(format, args...) }

// Info logs a message at info level.
func Info(args ...any) { get().Info(args...) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) { get().Errorf(format, args...) }

// Fatalf logs a formatted message at fatal level and exits.
func Fatalf(format string, args ...any) { get().Fatalf(format, args...) }

// Sync flushes any buffered log entries.
func Sync() error { return get().Sync() }
