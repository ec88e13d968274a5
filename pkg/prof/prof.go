//go:build profile

package prof

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"sync"
)

// Profiling errors.
var (
	// ErrCPUActive indicates a CPU profile is already being recorded.
	ErrCPUActive = errors.New("cpu profile already active")

	// ErrUnknownProfile indicates a name [runtime/pprof] has no
	// snapshot profile for. [ProfileCPU] is one such name; CPU profiles
	// stream through [StartCPU] instead.
	ErrUnknownProfile = errors.New("unknown profile")
)

// Profile names a pprof profile.
type Profile string

// Profiles the package can capture. [ProfileCPU] streams between
// [StartCPU] and [StopCPU]; the others are snapshots.
const (
	ProfileCPU       Profile = "cpu"
	ProfileHeap      Profile = "heap"
	ProfileAllocs    Profile = "allocs"
	ProfileGoroutine Profile = "goroutine"
)

// String returns the profile name.
func (p Profile) String() string {
	return string(p)
}

var (
	cpuMu     sync.Mutex
	cpuFile   *os.File
	cpuActive bool
)

// StartCPU begins recording a CPU profile into the file at path.
// Recording continues until [StopCPU]. Returns [ErrCPUActive] when a
// profile is already being recorded.
func StartCPU(path string) error {
	cpuMu.Lock()
	defer cpuMu.Unlock()

	if cpuActive {
		return ErrCPUActive
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}

	cpuFile = f
	cpuActive = true
	return nil
}

// StopCPU stops the CPU profile and closes its file. Calling it with no
// profile active is a no-op.
func StopCPU() {
	cpuMu.Lock()
	defer cpuMu.Unlock()

	if !cpuActive {
		return
	}

	pprof.StopCPUProfile()
	if cpuFile != nil {
		cpuFile.Close()
		cpuFile = nil
	}
	cpuActive = false
}

// CPUActive reports whether a CPU profile is being recorded.
func CPUActive() bool {
	cpuMu.Lock()
	defer cpuMu.Unlock()
	return cpuActive
}

// Write captures a snapshot profile into the file at path.
func Write(profile Profile, path string) error {
	p := pprof.Lookup(string(profile))
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownProfile, profile)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.WriteTo(f, 0)
}

// WriteTo captures a snapshot profile into w. Debug level 0 produces
// the binary form go tool pprof reads; level 1 produces readable text.
func WriteTo(profile Profile, w io.Writer, debug int) error {
	p := pprof.Lookup(string(profile))
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownProfile, profile)
	}
	return p.WriteTo(w, debug)
}
