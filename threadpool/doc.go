// Package threadpool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-size worker pool with least-loaded job placement.
//
// Every worker is a goroutine locked to its own OS thread with a private,
// unbounded FIFO inbox. Submit picks the worker with the smallest load
// estimate (ties go to the lowest index) after folding in the completion
// signals workers have sent since the previous call. There is no shared
// queue and no background reconciler.
//
//	p, err := threadpool.New(4)
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 100; i++ {
//	    if err := p.Submit(func() { work(i) }); err != nil {
//	        log.Printf("submit: %v", err)
//	    }
//	}
//	if err := p.ShutdownAndJoin(); err != nil {
//	    log.Printf("shutdown: %v", err)
//	}
//
// ShutdownAndJoin is graceful: jobs already queued run before each worker
// stops. A job that panics terminates its worker thread; the panic is
// reported by ShutdownAndJoin as an *AbnormalTerminationError and later
// submissions routed to that worker fail with a *DisconnectedError.
package threadpool
