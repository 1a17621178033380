// File: threadpool/options.go
// Package threadpool defines functional options for the Pool.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package threadpool

import (
	"log"
	"time"
)

// Logger is the subset of *log.Logger the pool writes to.
type Logger interface {
	Printf(format string, v ...any)
}

// Observer receives pool lifecycle events. Methods may be called
// concurrently from worker threads and must not block.
type Observer interface {
	WorkerStarted(worker int)
	JobSubmitted(worker int)
	JobCompleted(worker int, elapsed time.Duration)
	WorkerExited(worker int, abnormal bool)
}

type settings struct {
	logger      Logger
	cpuAffinity bool
	observer    Observer
	id          string
}

func defaultSettings() settings {
	return settings{logger: log.Default()}
}

// Option customizes pool initialization.
type Option func(*settings)

// WithLogger routes pool and worker logs to l. A nil l keeps the default.
func WithLogger(l Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCPUAffinity pins worker i to the i-th allowed CPU (wrapping around).
func WithCPUAffinity(enabled bool) Option {
	return func(s *settings) {
		s.cpuAffinity = enabled
	}
}

// WithObserver attaches lifecycle hooks, e.g. a metrics collector.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

// WithID overrides the generated pool identifier.
func WithID(id string) Option {
	return func(s *settings) {
		if id != "" {
			s.id = id
		}
	}
}
