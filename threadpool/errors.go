// File: threadpool/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error taxonomy of the pool.

package threadpool

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfiguration indicates the pool cannot be built as requested.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDisconnected indicates a worker's inbox no longer accepts directives.
	ErrDisconnected = errors.New("worker disconnected")

	// ErrAbnormalTermination indicates a worker thread ended without an orderly stop.
	ErrAbnormalTermination = errors.New("abnormal worker termination")

	// ErrPoolClosed indicates ShutdownAndJoin has already been called.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrNilJob indicates Submit was handed a nil job.
	ErrNilJob = errors.New("nil job")
)

// Phase names the pool operation during which a worker failed.
type Phase string

const (
	// PhaseSubmit marks a failure while handing a job to a worker.
	PhaseSubmit Phase = "submit"
	// PhaseShutdown marks a failure while sending Stop during ShutdownAndJoin.
	PhaseShutdown Phase = "shutdown"
)

// DisconnectedError reports a failed send to a specific worker.
type DisconnectedError struct {
	Worker int
	Phase  Phase
	Err    error
}

// Error implements the error interface.
func (e *DisconnectedError) Error() string {
	return fmt.Sprintf("threadpool: worker %d disconnected during %s: %v", e.Worker, e.Phase, e.Err)
}

// Is reports ErrDisconnected.
func (e *DisconnectedError) Is(target error) bool { return target == ErrDisconnected }

// Unwrap returns the underlying send failure.
func (e *DisconnectedError) Unwrap() error { return e.Err }

// AbnormalTerminationError reports a worker thread that died mid-job.
// Value and Stack are the recovered panic payload.
type AbnormalTerminationError struct {
	Worker int
	Value  any
	Stack  string
}

// Error implements the error interface. The stack is omitted; see Stack.
func (e *AbnormalTerminationError) Error() string {
	return fmt.Sprintf("threadpool: worker %d terminated abnormally: %v", e.Worker, e.Value)
}

// Is reports ErrAbnormalTermination.
func (e *AbnormalTerminationError) Is(target error) bool { return target == ErrAbnormalTermination }

// ShutdownError aggregates every per-worker failure seen by ShutdownAndJoin,
// in worker order.
type ShutdownError struct {
	Errors []error
}

// Error implements the error interface.
func (e *ShutdownError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "threadpool: %d worker(s) failed to shut down cleanly", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap exposes every per-worker failure to errors.Is and errors.As.
func (e *ShutdownError) Unwrap() []error { return e.Errors }
