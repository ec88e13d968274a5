// Package backend defines the platform contract for the girl gamepad
// library, along with the input and output vocabulary shared by the
// registry core and every backend implementation.
//
// A backend hides one way of talking to gamepad hardware behind three
// polling calls and one output call:
//
//   - ListDevices reports what is currently attached (removal = absence)
//   - PollReports drains whatever input arrived since the last call
//   - SendOutput delivers a fire-and-forget command to one device
//
// All calls are bounded and non-blocking. A backend may buffer internally
// but must never require the caller to spawn goroutines or wait.
//
// # Implementations
//
// The repository ships three:
//
//   - [github.com/zohnannor/girl/backend/sim]: scripted in-memory backend
//     for tests and demos
//   - [github.com/zohnannor/girl/backend/linux]: evdev devices with
//     force-feedback rumble (GOOS=linux)
//   - [github.com/zohnannor/girl/backend/hid]: raw HID access to
//     DualSense-class controllers
package backend
