// Package pkg provides shared utilities for the girl gamepad library.
//
// This package contains common functionality used across the registry core
// and the platform backends, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error values for the gamepad error taxonomy
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with library-specific context.
// The default logger discards everything; the library produces no output
// unless the host application opts in:
//
//	pkg.SetLogFormat(pkg.LogFormatText)
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentGirl, "device connected", "slot", 0)
//
// # Errors
//
// Common gamepad errors are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrUnsupportedCapability) {
//	    // Device has no rumble motors, LED, or the requested sensor.
//	}
package pkg
