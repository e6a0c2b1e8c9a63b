package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// Timer is a simple performance timer for measuring pipeline stage duration
type Timer struct {
	start time.Time
	name  string
	log   zerolog.Logger
}

// NewTimer creates a new timer with the given name
func NewTimer(name string, log zerolog.Logger) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
		log:   log,
	}
}

// Stop stops the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)

	t.log.Debug().
		Str("stage", t.name).
		Dur("duration_ms", duration).
		Msg("Stage completed")

	if duration > 10*time.Second {
		t.log.Warn().
			Str("stage", t.name).
			Dur("duration", duration).
			Msg("Slow stage detected (>10s)")
	}

	return duration
}

// OperationTimer provides a defer-friendly way to measure operation duration
//
// Usage:
//
//	func MyFunction() {
//	    defer utils.OperationTimer("my_function", log)()
//	}
func OperationTimer(operation string, log zerolog.Logger) func() {
	start := time.Now()

	return func() {
		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", time.Since(start)).
			Msg("Operation completed")
	}
}
