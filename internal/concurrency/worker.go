// File: internal/concurrency/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Worker is a goroutine locked to its own OS thread. It pulls directives
// from its Mailbox in FIFO order, runs jobs serially and reports every
// completed job through Completions.

package concurrency

import (
	"runtime"
	"runtime/debug"
	"time"

	"github.com/momentics/hioload-pool/affinity"
)

// Logger is the subset of *log.Logger used by workers.
type Logger interface {
	Printf(format string, v ...any)
}

// WorkerConfig describes a single worker thread.
type WorkerConfig struct {
	ID     int    // position in the pool, used in logs and hooks
	CPU    int    // logical CPU to pin to; negative disables pinning
	Logger Logger // required

	// OnJobDone, if set, runs on the worker thread after each job returns.
	OnJobDone func(id int, elapsed time.Duration)
	// OnExit, if set, runs on the worker thread right before it terminates.
	OnExit func(id int, err error)
}

// Worker is the pool-side handle of a running worker thread.
type Worker struct {
	id          int
	inbox       *Mailbox
	completions *Completions
	done        chan struct{}
	err         error
}

// StartWorker spawns the worker thread and returns its handle.
func StartWorker(cfg WorkerConfig) *Worker {
	w := &Worker{
		id:          cfg.ID,
		inbox:       NewMailbox(),
		completions: &Completions{},
		done:        make(chan struct{}),
	}
	go w.run(cfg)
	return w
}

// ID returns the worker's position in the pool.
func (w *Worker) ID() int { return w.id }

// Send enqueues d on the worker's inbox.
func (w *Worker) Send(d Directive) error { return w.inbox.Send(d) }

// CloseInbox rejects further directives; queued ones are still run, after
// which the worker exits as if it had received a stop.
func (w *Worker) CloseInbox() { w.inbox.Close() }

// Pending returns the number of directives waiting in the inbox.
func (w *Worker) Pending() int { return w.inbox.Len() }

// DrainCompletions takes all completion signals sent so far. Never blocks.
func (w *Worker) DrainCompletions() int64 { return w.completions.Drain() }

// Done is closed once the worker thread has terminated.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Join blocks until the worker thread terminates. It returns a *PanicError
// if a job brought the thread down, nil after an orderly stop.
func (w *Worker) Join() error {
	<-w.done
	return w.err
}

func (w *Worker) run(cfg WorkerConfig) {
	runtime.LockOSThread()
	orderly := false
	defer func() {
		if !orderly {
			r := recover()
			if r == nil {
				r = "worker exited via runtime.Goexit"
			}
			// Leave the thread locked: the runtime terminates it with the goroutine.
			w.err = &PanicError{Value: r, Stack: string(debug.Stack())}
			if n := w.inbox.Discard(); n > 0 {
				cfg.Logger.Printf("[worker %d] dropped %d queued directives", w.id, n)
			}
		} else {
			w.inbox.Close()
			runtime.UnlockOSThread()
		}
		if cfg.OnExit != nil {
			cfg.OnExit(w.id, w.err)
		}
		close(w.done)
	}()

	if cfg.CPU >= 0 {
		if err := affinity.SetAffinity(cfg.CPU); err != nil {
			cfg.Logger.Printf("[worker %d] pin to CPU %d failed: %v", w.id, cfg.CPU, err)
		}
	}

	for {
		d, ok := w.inbox.Receive()
		if !ok || d.Stop {
			orderly = true
			return
		}
		start := time.Now()
		d.Job()
		if cfg.OnJobDone != nil {
			cfg.OnJobDone(w.id, time.Since(start))
		}
		w.completions.Signal()
	}
}
