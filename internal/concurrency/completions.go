// File: internal/concurrency/completions.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Completion signal link from a worker back to the pool.

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Completions carries completion signals from one worker to the pool.
// Signals are counted, not queued; Signal never blocks.
type Completions struct {
	_       cpu.CacheLinePad
	pending atomic.Int64
	_       cpu.CacheLinePad
}

// Signal records one completed job.
func (c *Completions) Signal() {
	c.pending.Add(1)
}

// Drain takes every signal sent so far without blocking.
func (c *Completions) Drain() int64 {
	return c.pending.Swap(0)
}
