//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity.

package affinity

import (
	"fmt"
	"math/bits"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                   = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask  = kernel32.NewProc("SetThreadAffinityMask")
	procGetProcessAffinityMask = kernel32.NewProc("GetProcessAffinityMask")
)

// Pseudo-handle returned by GetCurrentThread().
const currentThread = ^uintptr(1)

// setAffinityPlatform sets thread affinity to a given CPU for Windows.
func setAffinityPlatform(cpuID int) error {
	if cpuID >= bits.UintSize {
		return fmt.Errorf("affinity: invalid CPU index %d (valid: 0..%d)", cpuID, bits.UintSize-1)
	}
	mask := uintptr(1) << uint(cpuID)
	ret, _, err := procSetThreadAffinityMask.Call(currentThread, mask)
	if ret == 0 {
		return fmt.Errorf("affinity: SetThreadAffinityMask(cpu=%d): %w", cpuID, err)
	}
	return nil
}

func allowedCPUsPlatform() ([]int, error) {
	var processMask, systemMask uintptr
	ret, _, err := procGetProcessAffinityMask.Call(
		uintptr(windows.CurrentProcess()),
		uintptr(unsafe.Pointer(&processMask)),
		uintptr(unsafe.Pointer(&systemMask)),
	)
	if ret == 0 {
		return nil, fmt.Errorf("affinity: GetProcessAffinityMask: %w", err)
	}
	cpus := make([]int, 0, bits.OnesCount(uint(processMask)))
	for i := 0; i < bits.UintSize; i++ {
		if processMask&(uintptr(1)<<uint(i)) != 0 {
			cpus = append(cpus, i)
		}
	}
	return cpus, nil
}
