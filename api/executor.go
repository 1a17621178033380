// Package api
// Author: momentics
//
// Executor contract for parallel task dispatch.

package api

// Executor abstracts fire-and-forget parallel task execution.
type Executor interface {
	// Submit schedules task for execution. It returns once the task is
	// queued; task results, if any, are the task's own business.
	Submit(task func()) error

	// NumWorkers returns the number of worker threads.
	NumWorkers() int
}
