// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import (
	"errors"
	"fmt"
)

var (
	// ErrMailboxClosed indicates the worker's inbox no longer accepts directives
	ErrMailboxClosed = errors.New("mailbox is closed")
)

// PanicError is returned by Worker.Join when a job panicked and took the
// worker down with it.
type PanicError struct {
	Value any
	Stack string
}

// Error implements the error interface.
func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n%s", p.Value, p.Stack)
}
