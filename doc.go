// Package girl implements a polling gamepad input registry.
//
// It is platform-agnostic and talks to hardware via the
// [backend.Backend] interface defined in the
// github.com/zohnannor/girl/backend package. The backend exposes device
// enumeration, input report polling, and fire-and-forget output,
// allowing platform code to be swapped without changing the registry.
//
// # Architecture
//
// The library is organized into a few pieces:
//
//   - Girl owns the slot table and is the single mutation point
//   - Gamepad is a cheap revalidating handle to one slot
//   - State is the per-device input snapshot with value semantics
//   - CapabilityTable freezes what a device can do at connect time
//
// # Update Model
//
// One [Girl.Update] call per frame drives everything, in order:
//
//   - Reconcile the slot table against the backend's device list
//   - Fold queued input reports into per-slot snapshots
//   - Tick rumble countdowns and stop expired effects exactly once
//
// Between updates nothing moves: reads are O(1) lookups into the last
// snapshot. A device with no fresh report holds its values (or decays
// them, when configured) while edge queries quiesce.
//
// # Identity
//
// Slots are reused, so every connection gets a [DeviceID] that packs the
// slot index with a generation counter. Handles bind to one identity
// and go permanently dead on disconnect; a later device in the same
// slot never revives them.
//
// # Concurrency
//
// The registry is single-threaded: no internal goroutines, no locks.
// Confine a Girl and its handles to one goroutine and call Update from
// your frame loop.
//
// # Example
//
//	g, err := girl.New(linux.New())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer g.Close()
//
//	for {
//	    g.Update()
//	    if pad, ok := g.Gamepad(0); ok {
//	        if pad.ButtonsJustPressed(girl.ButtonSouth) {
//	            pad.SetRumble(0xFFFF, 0xFFFF, 200*time.Millisecond)
//	        }
//	        move := pad.Stick(girl.SideLeft)
//	        _ = move
//	    }
//	    time.Sleep(16 * time.Millisecond)
//	}
//
// A scripted backend for testing is available in
// [github.com/zohnannor/girl/backend/sim].
package girl
