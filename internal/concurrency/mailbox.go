// File: internal/concurrency/mailbox.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Unbounded single-consumer FIFO used as a worker's job inbox.

package concurrency

import (
	"sync"

	"github.com/eapache/queue"
)

// Job is a one-shot unit of work.
type Job func()

// Directive is a message delivered to a worker: either a job or a stop order.
type Directive struct {
	Job  Job
	Stop bool
}

// JobDirective wraps j for delivery.
func JobDirective(j Job) Directive { return Directive{Job: j} }

// StopDirective asks a worker to exit after everything queued before it.
func StopDirective() Directive { return Directive{Stop: true} }

// Mailbox is an unbounded FIFO of directives. Any number of goroutines may
// Send; exactly one goroutine is expected to Receive.
type Mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	q      *queue.Queue
	closed bool
}

// NewMailbox returns an open, empty mailbox.
func NewMailbox() *Mailbox {
	m := &Mailbox{q: queue.New()}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Send appends d. It never blocks and fails only when the mailbox is closed.
func (m *Mailbox) Send(d Directive) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrMailboxClosed
	}
	m.q.Add(d)
	m.cond.Signal()
	return nil
}

// Receive blocks until a directive is available. ok is false once the
// mailbox is closed and fully drained.
func (m *Mailbox) Receive() (d Directive, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.q.Length() == 0 {
		if m.closed {
			return d, false
		}
		m.cond.Wait()
	}
	return m.q.Remove().(Directive), true
}

// Close rejects further sends. Directives already queued remain receivable.
func (m *Mailbox) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cond.Broadcast()
}

// Discard closes the mailbox and drops whatever is still queued, returning
// the number of dropped directives.
func (m *Mailbox) Discard() int {
	m.mu.Lock()
	m.closed = true
	n := m.q.Length()
	for m.q.Length() > 0 {
		m.q.Remove()
	}
	m.mu.Unlock()
	m.cond.Broadcast()
	return n
}

// Len reports the number of queued directives.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.q.Length()
}
