package threadpool

// Stats is a point-in-time view of the pool.
type Stats struct {
	Workers   int
	Loads     []int64 // per-worker load estimate after reconciliation
	Queued    []int   // per-worker directives waiting in the inbox
	Alive     []bool  // false once a worker thread has exited
	Submitted uint64
	Completed uint64 // completion signals received so far
	Closed    bool
}

// Stats reconciles pending completions and returns a snapshot.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reconcile()
	st := Stats{
		Workers:   len(p.links),
		Loads:     make([]int64, len(p.links)),
		Queued:    make([]int, len(p.links)),
		Alive:     make([]bool, len(p.links)),
		Submitted: p.submitted,
		Completed: p.completed,
		Closed:    p.closed,
	}
	for i, link := range p.links {
		st.Loads[i] = link.load
		st.Queued[i] = link.worker.Pending()
		select {
		case <-link.worker.Done():
		default:
			st.Alive[i] = true
		}
	}
	return st
}
