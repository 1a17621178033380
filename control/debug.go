// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Runtime debug probes for pool and platform introspection.

package control

import (
	"sort"
	"sync"

	"github.com/momentics/hioload-pool/affinity"
	"github.com/momentics/hioload-pool/threadpool"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry with the platform probes installed.
func NewDebugProbes() *DebugProbes {
	dp := &DebugProbes{
		probes: make(map[string]func() any),
	}
	dp.RegisterProbe("platform.allowed_cpus", func() any { return affinity.AllowedCPUs() })
	dp.RegisterProbe("platform.recommended_workers", func() any { return affinity.RecommendedWorkers() })
	return dp
}

// RegisterProbe inserts a named debug hook, replacing any previous one.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// RegisterPool exposes p.Stats() under "pool.<id>".
func (dp *DebugProbes) RegisterPool(p *threadpool.Pool) {
	dp.RegisterProbe("pool."+p.ID(), func() any { return p.Stats() })
}

// Names returns the registered probe names, sorted.
func (dp *DebugProbes) Names() []string {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	names := make([]string, 0, len(dp.probes))
	for k := range dp.probes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DumpState returns output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any, len(dp.probes))
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}
