// File: cmd/hioload-pool/main.go
// Package main
// Demo driver: pushes two waves of sleep jobs through a load-aware pool,
// optionally exporting Prometheus metrics while it runs.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/control"
	"github.com/momentics/hioload-pool/threadpool"
)

func main() {
	configPath := flag.String("config", "", "path to a .yaml/.yml/.json config file")
	workers := flag.Int("workers", -1, "worker count override (0 = one per allowed CPU)")
	jobs := flag.Int("jobs", -1, "first wave size override")
	flag.Parse()

	cfg := control.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = control.LoadFile(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	if *workers >= 0 {
		cfg.Pool.Workers = *workers
	}
	if *jobs >= 0 {
		cfg.Demo.Jobs = *jobs
	}
	if cfg.Pool.ID == "" {
		cfg.Pool.ID = uuid.NewString()
	}

	opts := cfg.PoolOptions()
	var srv *http.Server
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		m, err := control.NewMetrics(reg, cfg.Metrics.Namespace, cfg.Pool.ID)
		if err != nil {
			log.Fatalf("metrics: %v", err)
		}
		opts = append(opts, threadpool.WithObserver(m))
		srv = serveMetrics(cfg.Metrics.ListenAddr, reg)
	}

	pool, err := threadpool.New(cfg.WorkerCount(), opts...)
	if err != nil {
		log.Fatalf("failed to create pool: %v", err)
	}
	probes := control.NewDebugProbes()
	probes.RegisterPool(pool)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := cfg.Demo.JobDurationValue()
	submitWave(pool, "first", cfg.Demo.Jobs, d)
	select {
	case <-time.After(cfg.Demo.PauseValue()):
		submitWave(pool, "second", cfg.Demo.SecondWave, d)
	case <-ctx.Done():
		log.Printf("interrupted, skipping second wave")
	}

	for name, v := range probes.DumpState() {
		log.Printf("probe %s: %+v", name, v)
	}
	shutErr := shutdown(pool)
	if srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(sctx)
		cancel()
	}
	if shutErr != nil {
		log.Printf("shutdown: %v", shutErr)
		stop()
		os.Exit(1)
	}
}

func submitWave(exec api.Executor, name string, n int, d time.Duration) {
	log.Printf("%s wave: %d jobs of %v on %d workers", name, n, d, exec.NumWorkers())
	for i := 0; i < n; i++ {
		i := i
		err := exec.Submit(func() {
			log.Printf("starting calculation %d...", i)
			time.Sleep(d)
			log.Printf("done with %d!", i)
		})
		if err != nil {
			log.Printf("submit %d: %v", i, err)
		}
	}
}

func shutdown(g api.GracefulShutdown) error {
	return g.ShutdownAndJoin()
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server: %v", err)
		}
	}()
	log.Printf("metrics on http://%s/metrics", addr)
	return srv
}
