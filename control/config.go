// control/config.go
// Author: momentics <momentics@gmail.com>
//
// File-based configuration for the pool and its demo driver (YAML or JSON).

package control

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-pool/affinity"
	"github.com/momentics/hioload-pool/threadpool"
)

// Config is the top-level configuration file layout.
type Config struct {
	Pool    PoolConfig    `yaml:"pool" json:"pool"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Demo    DemoConfig    `yaml:"demo" json:"demo"`
}

// PoolConfig sizes and tunes the pool.
type PoolConfig struct {
	Workers     int    `yaml:"workers" json:"workers"` // 0 = one per allowed CPU
	CPUAffinity bool   `yaml:"cpu_affinity" json:"cpu_affinity"`
	ID          string `yaml:"id" json:"id"` // empty = random
}

// MetricsConfig controls the Prometheus exporter.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Namespace  string `yaml:"namespace" json:"namespace"`
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
}

// DemoConfig drives the sample workload: a first wave of sleep jobs, a
// pause, then a second wave.
type DemoConfig struct {
	Jobs        int    `yaml:"jobs" json:"jobs"`
	JobDuration string `yaml:"job_duration" json:"job_duration"`
	Pause       string `yaml:"pause" json:"pause"`
	SecondWave  int    `yaml:"second_wave" json:"second_wave"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Pool: PoolConfig{Workers: 4},
		Metrics: MetricsConfig{
			Namespace:  "hioload_pool",
			ListenAddr: ":9100",
		},
		Demo: DemoConfig{
			Jobs:        15,
			JobDuration: "2s",
			Pause:       "3s",
			SecondWave:  5,
		},
	}
}

// LoadFile reads a .yaml/.yml/.json file on top of DefaultConfig.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		return Parse(data)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// Parse decodes YAML (or JSON, a subset of it) on top of DefaultConfig and
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and duration syntax.
func (c *Config) Validate() error {
	if c.Pool.Workers < 0 {
		return fmt.Errorf("pool.workers must be non-negative")
	}
	if c.Demo.Jobs < 0 || c.Demo.SecondWave < 0 {
		return fmt.Errorf("demo job counts must be non-negative")
	}
	if _, err := c.Demo.jobDuration(); err != nil {
		return err
	}
	if _, err := c.Demo.pause(); err != nil {
		return err
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return fmt.Errorf("metrics.listen_addr is required when metrics are enabled")
	}
	return nil
}

// WorkerCount resolves pool.workers, falling back to the CPUs the process may use.
func (c *Config) WorkerCount() int {
	if c.Pool.Workers > 0 {
		return c.Pool.Workers
	}
	return affinity.RecommendedWorkers()
}

// PoolOptions translates the pool section into threadpool options.
func (c *Config) PoolOptions() []threadpool.Option {
	return []threadpool.Option{
		threadpool.WithCPUAffinity(c.Pool.CPUAffinity),
		threadpool.WithID(c.Pool.ID),
	}
}

// JobDurationValue returns demo.job_duration; Validate guarantees it parses.
func (d DemoConfig) JobDurationValue() time.Duration {
	v, _ := d.jobDuration()
	return v
}

// PauseValue returns demo.pause; Validate guarantees it parses.
func (d DemoConfig) PauseValue() time.Duration {
	v, _ := d.pause()
	return v
}

func (d DemoConfig) jobDuration() (time.Duration, error) {
	return parseDuration("demo.job_duration", d.JobDuration)
}

func (d DemoConfig) pause() (time.Duration, error) {
	return parseDuration("demo.pause", d.Pause)
}

func parseDuration(key, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must be non-negative", key)
	}
	return v, nil
}
