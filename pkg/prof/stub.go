//go:build !profile

package prof

import "io"

// Profiling errors. The stubs never return them; the variables exist so
// callers compile under either build flavor.
var (
	ErrCPUActive      error
	ErrUnknownProfile error
)

// Profile names a pprof profile.
type Profile string

// Profiles the package can capture.
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

// StartCPU is a no-op without the "profile" build tag.
func StartCPU(_ string) error {
	return nil
}

// StopCPU is a no-op without the "profile" build tag.
func StopCPU() {}

// CPUActive always reports false without the "profile" build tag.
func CPUActive() bool {
	return false
}

// Write is a no-op without the "profile" build tag.
func Write(_ Profile, _ string) error {
	return nil
}

// WriteTo is a no-op without the "profile" build tag.
func WriteTo(_ Profile, _ io.Writer, _ int) error {
	return nil
}
