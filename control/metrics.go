// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors fed by pool lifecycle events.
// Metrics implements threadpool.Observer.

package control

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-pool/threadpool"
)

// Metrics holds Prometheus collectors for one pool.
type Metrics struct {
	JobsSubmitted  *prometheus.CounterVec
	JobsCompleted  *prometheus.CounterVec
	JobDuration    prometheus.Histogram
	WorkersRunning prometheus.Gauge
	AbnormalExits  prometheus.Counter
}

var _ threadpool.Observer = (*Metrics)(nil)

// NewMetrics creates the collectors, labels them with poolID and registers
// them on reg. A collector already registered under the same descriptor
// is reused.
func NewMetrics(reg prometheus.Registerer, namespace, poolID string) (*Metrics, error) {
	labels := prometheus.Labels{"pool": poolID}
	m := &Metrics{
		JobsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "jobs_submitted_total",
			Help:        "Jobs accepted into a worker inbox.",
			ConstLabels: labels,
		}, []string{"worker"}),
		JobsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "jobs_completed_total",
			Help:        "Jobs that returned normally.",
			ConstLabels: labels,
		}, []string{"worker"}),
		JobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "job_duration_seconds",
			Help:        "Wall time of completed jobs.",
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 10),
			ConstLabels: labels,
		}),
		WorkersRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "workers_running",
			Help:        "Worker threads currently alive.",
			ConstLabels: labels,
		}),
		AbnormalExits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "worker_abnormal_exits_total",
			Help:        "Worker threads terminated by a panicking job.",
			ConstLabels: labels,
		}),
	}

	var err error
	if m.JobsSubmitted, err = register(reg, m.JobsSubmitted); err != nil {
		return nil, err
	}
	if m.JobsCompleted, err = register(reg, m.JobsCompleted); err != nil {
		return nil, err
	}
	if m.JobDuration, err = register(reg, m.JobDuration); err != nil {
		return nil, err
	}
	if m.WorkersRunning, err = register(reg, m.WorkersRunning); err != nil {
		return nil, err
	}
	if m.AbnormalExits, err = register(reg, m.AbnormalExits); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// WorkerStarted counts a newly spawned worker thread.
func (m *Metrics) WorkerStarted(int) { m.WorkersRunning.Inc() }

// JobSubmitted counts a job accepted by worker.
func (m *Metrics) JobSubmitted(worker int) {
	m.JobsSubmitted.WithLabelValues(strconv.Itoa(worker)).Inc()
}

// JobCompleted counts a finished job and records its duration.
func (m *Metrics) JobCompleted(worker int, elapsed time.Duration) {
	m.JobsCompleted.WithLabelValues(strconv.Itoa(worker)).Inc()
	m.JobDuration.Observe(elapsed.Seconds())
}

// WorkerExited decrements running workers and counts abnormal exits.
func (m *Metrics) WorkerExited(_ int, abnormal bool) {
	m.WorkersRunning.Dec()
	if abnormal {
		m.AbnormalExits.Inc()
	}
}
