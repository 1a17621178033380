// File: threadpool/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool distributes jobs over a fixed set of OS-thread-locked workers. Each
// job goes to the worker with the lowest load estimate; the estimate is
// reconciled from the workers' completion signals on every submission.

package threadpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/momentics/hioload-pool/affinity"
	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/internal/concurrency"
)

// Job is a one-shot unit of work. It must synchronize any state it shares.
type Job = func()

// workerLink is the pool-side record of one worker.
type workerLink struct {
	index  int
	load   int64 // assigned but not yet confirmed complete; never negative
	worker *concurrency.Worker
}

// Pool is a fixed-size, load-aware worker pool.
type Pool struct {
	id       string
	logger   Logger
	observer Observer

	mu        sync.Mutex // guards everything below
	links     []*workerLink
	closed    bool
	submitted uint64
	completed uint64
}

// Ensure compliance with api contracts.
var (
	_ api.Executor         = (*Pool)(nil)
	_ api.GracefulShutdown = (*Pool)(nil)
)

// New starts a pool with the given number of workers.
// It fails with ErrInvalidConfiguration if workers is not positive.
func New(workers int, opts ...Option) (*Pool, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("%w: worker count must be positive, got %d", ErrInvalidConfiguration, workers)
	}
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}

	var cpus []int
	if s.cpuAffinity {
		cpus = affinity.AllowedCPUs()
	}

	p := &Pool{
		id:       s.id,
		logger:   s.logger,
		observer: s.observer,
		links:    make([]*workerLink, workers),
	}
	for i := 0; i < workers; i++ {
		cfg := concurrency.WorkerConfig{ID: i, CPU: -1, Logger: s.logger}
		if len(cpus) > 0 {
			cfg.CPU = cpus[i%len(cpus)]
		}
		if obs := s.observer; obs != nil {
			cfg.OnJobDone = obs.JobCompleted
			cfg.OnExit = func(id int, err error) { obs.WorkerExited(id, err != nil) }
			obs.WorkerStarted(i)
		}
		p.links[i] = &workerLink{index: i, worker: concurrency.StartWorker(cfg)}
	}
	// Workers never reference p, so an abandoned pool is collectable.
	runtime.SetFinalizer(p, (*Pool).abandon)
	p.logger.Printf("[threadpool %s] started %d workers (cpu affinity: %v)", p.id, workers, len(cpus) > 0)
	return p, nil
}

// abandon closes every inbox of a pool dropped without ShutdownAndJoin.
// Each worker runs what is already queued, then exits.
func (p *Pool) abandon() {
	for _, link := range p.links {
		link.worker.CloseInbox()
	}
}

// NewDefault starts a pool sized to the CPUs available to the process.
func NewDefault(opts ...Option) (*Pool, error) {
	return New(affinity.RecommendedWorkers(), opts...)
}

// ID returns the pool identifier used in logs and metrics.
func (p *Pool) ID() string { return p.id }

// NumWorkers returns the fixed number of workers.
func (p *Pool) NumWorkers() int { return len(p.links) }

// Submit hands job to the least-loaded worker. It returns once the job is
// queued, not once it has run. A failed send is reported as a
// *DisconnectedError naming the worker; the job is not retried elsewhere.
func (p *Pool) Submit(job Job) error {
	if job == nil {
		return ErrNilJob
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}

	p.reconcile()
	link := p.leastLoaded()
	if err := link.worker.Send(concurrency.JobDirective(concurrency.Job(job))); err != nil {
		return &DisconnectedError{Worker: link.index, Phase: PhaseSubmit, Err: err}
	}
	link.load++
	p.submitted++
	if p.observer != nil {
		p.observer.JobSubmitted(link.index)
	}
	return nil
}

// ShutdownAndJoin stops every worker in order and waits for each thread to
// exit. Jobs queued before the call still run. Failures of individual
// workers do not stop the rest from being stopped and joined; they are
// returned together as a *ShutdownError. The pool is unusable afterwards.
func (p *Pool) ShutdownAndJoin() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.closed = true
	links := p.links
	p.mu.Unlock()
	runtime.SetFinalizer(p, nil)

	var errs []error
	for _, link := range links {
		if err := link.worker.Send(concurrency.StopDirective()); err != nil {
			errs = append(errs, &DisconnectedError{Worker: link.index, Phase: PhaseShutdown, Err: err})
		}
		if err := link.worker.Join(); err != nil {
			var pe *concurrency.PanicError
			if errors.As(err, &pe) {
				errs = append(errs, &AbnormalTerminationError{Worker: link.index, Value: pe.Value, Stack: pe.Stack})
				p.logger.Printf("[threadpool %s] worker %d terminated abnormally: panic: %v", p.id, link.index, pe.Value)
			} else {
				errs = append(errs, fmt.Errorf("threadpool: worker %d: %w", link.index, err))
				p.logger.Printf("[threadpool %s] worker %d terminated abnormally: %v", p.id, link.index, err)
			}
		}
	}

	p.mu.Lock()
	p.reconcile()
	p.mu.Unlock()

	if len(errs) > 0 {
		p.logger.Printf("[threadpool %s] shutdown finished with %d error(s)", p.id, len(errs))
		return &ShutdownError{Errors: errs}
	}
	p.logger.Printf("[threadpool %s] shutdown complete", p.id)
	return nil
}

// reconcile folds pending completion signals into the load estimates.
// Callers hold p.mu.
func (p *Pool) reconcile() {
	for _, link := range p.links {
		n := link.worker.DrainCompletions()
		p.completed += uint64(n)
		link.load -= n
		if link.load < 0 {
			link.load = 0
		}
	}
}

// leastLoaded returns the link with the minimum load; ties go to the lowest index.
func (p *Pool) leastLoaded() *workerLink {
	best := p.links[0]
	for _, link := range p.links[1:] {
		if link.load < best.load {
			best = link
		}
	}
	return best
}
