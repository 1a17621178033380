// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, metrics and debug introspection around the worker pool.
//
// Provides:
//   - YAML/JSON configuration files with defaults and validation
//   - Prometheus collectors wired in as a threadpool.Observer
//   - Named debug probes exposing pool and platform state
package control
