// Package linux implements the backend contract on top of the kernel
// evdev interface. It scans /dev/input for event nodes that advertise
// the gamepad key group, keeps one non-blocking file descriptor per pad,
// and folds raw input events into full-state reports.
//
// Hotplug is detected with an inotify watch on the device directory; the
// watch is drained inside ListDevices, so no background goroutine is
// needed and the backend stays single-threaded like the rest of the
// library.
//
// Rumble uses the kernel force-feedback API (one FF_RUMBLE effect per
// device, replayed in place). Lights, trigger motors, motion sensors,
// and touchpads are not reachable through evdev, so the capability set
// advertises none of them; the hid backend covers those surfaces.
package linux
