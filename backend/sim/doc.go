// Package sim provides a scripted in-memory backend for the girl gamepad
// library.
//
// This package implements the [backend.Backend] interface without touching
// any hardware. Tests and demos drive it from the outside: connect and
// disconnect devices, queue input reports, then inspect the output
// commands the registry sent back. Everything is deterministic; the
// backend runs no goroutines and buffers no more than what was scripted.
//
// # Usage
//
//	b := sim.New()
//	id := b.Connect(backend.DeviceInfo{
//	    Name: "Test Pad",
//	    Caps: backend.Capabilities{Rumble: true},
//	})
//
//	g, err := girl.New(b)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer g.Close()
//
//	b.QueueReport(backend.Report{Device: id, Buttons: backend.ButtonSouth})
//	g.Update()
//
//	pad, _ := g.Gamepad(0)
//	pad.ButtonsPressed(girl.ButtonSouth) // true
//
// # Failure Injection
//
// One-shot failures can be armed for each contract call to exercise error
// paths:
//
//	b.FailNextPoll(errors.New("usb fell off"))
//	g.Update() // returns an error wrapping pkg.ErrBackendFailure
package sim
