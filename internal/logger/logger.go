// Package logger holds the process-wide Zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

const serviceName = "finbridge"

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the global logger once. "production" logs JSON, "test"
// discards everything and any other value gets the development console
// encoder.
func Init(env string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		switch env {
		case "production":
			base, err = zap.NewProduction()
		case "test":
			base = zap.NewNop()
		default:
			base, err = zap.NewDevelopment()
		}
		if err != nil {
			base = zap.NewNop()
		}

		set(base.With(zap.String("service", serviceName)))
	})
}

// Get returns the global sugared logger, initializing a development logger
// on first use.
func Get() *zap.SugaredLogger {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if s != nil {
		return s
	}
	Init("development")
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Replace swaps the global logger, typically for an observer core in tests,
// and returns a func restoring the previous one.
func Replace(l *zap.Logger) (restore func()) {
	mu.Lock()
	prev := sugar
	sugar = l.Sugar()
	mu.Unlock()
	return func() {
		mu.Lock()
		sugar = prev
		mu.Unlock()
	}
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() {
	if s := Get(); s != nil {
		_ = s.Sync()
	}
}

func set(l *zap.Logger) {
	mu.Lock()
	sugar = l.Sugar()
	mu.Unlock()
}
