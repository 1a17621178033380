// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown is implemented by components owning worker threads.
type GracefulShutdown interface {
	// ShutdownAndJoin stops all workers after their queued work and blocks
	// until every worker thread has exited. It is terminal.
	ShutdownAndJoin() error
}
