// Package prof exposes on-demand runtime profiling for the library's
// tools.
//
// The package compiles in two flavors selected by the "profile" build
// tag. With the tag, the functions drive [runtime/pprof]; without it,
// every function is a no-op, so tools can wire profiling flags once and
// ship without the overhead:
//
//	go build -tags profile ./examples/girlctl
//
// CPU profiles stream between [StartCPU] and [StopCPU]. The remaining
// profiles are point-in-time snapshots taken with [Write] or [WriteTo]:
//
//	prof.StartCPU("cpu.prof")
//	defer prof.StopCPU()
//
//	prof.Write(prof.ProfileHeap, "heap.prof")
package prof
