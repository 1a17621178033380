// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity and worker-count detection. Platform-specific
// implementations are located in separate files (affinity_linux.go, affinity_windows.go, etc.)
// guarded by build tags.

package affinity

import (
	"errors"
	"runtime"
)

// ErrNotSupported is returned where thread pinning is unavailable.
var ErrNotSupported = errors.New("affinity: not supported on this platform")

// SetAffinity pins current OS thread to a given logical CPU/core on supported platforms.
// The caller must hold runtime.LockOSThread, otherwise the pin applies to whichever
// goroutine the runtime schedules next on that thread.
func SetAffinity(cpuID int) error {
	if cpuID < 0 {
		return errors.New("affinity: negative CPU index")
	}
	return setAffinityPlatform(cpuID)
}

// AllowedCPUs lists the logical CPUs the process may run on, in ascending order.
func AllowedCPUs() []int {
	if cpus, err := allowedCPUsPlatform(); err == nil && len(cpus) > 0 {
		return cpus
	}
	cpus := make([]int, runtime.NumCPU())
	for i := range cpus {
		cpus[i] = i
	}
	return cpus
}

// RecommendedWorkers returns the default pool size: the number of CPUs the
// process is allowed to use. Always at least 1.
func RecommendedWorkers() int {
	if n := len(AllowedCPUs()); n > 0 {
		return n
	}
	return 1
}
