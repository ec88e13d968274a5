package girl

import (
	"errors"
	"testing"
	"time"

	"github.com/zohnannor/girl/backend"
	"github.com/zohnannor/girl/backend/sim"
	"github.com/zohnannor/girl/pkg"
)

// =============================================================================
// Test Fixtures
// =============================================================================

// testPadInfo describes a fully capable pad for the sim backend.
func testPadInfo(name string) backend.DeviceInfo {
	return backend.DeviceInfo{
		Name:    name,
		Vendor:  0x054C,
		Product: 0x0CE6,
		Caps: backend.Capabilities{
			LED:           true,
			Rumble:        true,
			TriggerRumble: true,
			Sensors: []backend.SensorKind{
				backend.SensorGyroscope,
				backend.SensorAccelerometer,
			},
			Touchpads: 1,
			Fingers:   2,
		},
	}
}

// newTestGirl builds a registry over a sim backend with one connected
// pad and runs the first update.
func newTestGirl(t *testing.T, opts ...Option) (*Girl, *sim.Backend, backend.DeviceID) {
	t.Helper()

	b := sim.New()
	id := b.Connect(testPadInfo("Test Pad"))

	g, err := New(b, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { g.Close() })

	if err := g.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	return g, b, id
}

// mustUpdate fails the test on an update error.
func mustUpdate(t *testing.T, g *Girl) {
	t.Helper()
	if err := g.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
}

// mustPad fails the test when no handle exists at the index.
func mustPad(t *testing.T, g *Girl, index int) *Gamepad {
	t.Helper()
	pad, ok := g.Gamepad(index)
	if !ok {
		t.Fatalf("Gamepad(%d) returned no handle", index)
	}
	return pad
}

// =============================================================================
// Registry Tests
// =============================================================================

func TestNew_InitializationFailure(t *testing.T) {
	b := sim.New()
	b.FailOpen(errors.New("no bus"))

	g, err := New(b)
	if g != nil {
		t.Error("New returned a registry despite open failure")
	}
	if !errors.Is(err, pkg.ErrInitializationFailure) {
		t.Errorf("New error = %v, want ErrInitializationFailure", err)
	}
}

func TestGamepad_NoneThenHandle(t *testing.T) {
	b := sim.New()
	g, err := New(b)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer g.Close()
	mustUpdate(t, g)

	if pad, ok := g.Gamepad(0); ok || pad != nil {
		t.Errorf("Gamepad(0) = %v, %v with nothing connected, want nil, false", pad, ok)
	}

	b.Connect(testPadInfo("Late Pad"))
	mustUpdate(t, g)

	pad, ok := g.Gamepad(0)
	if !ok || pad == nil {
		t.Fatal("Gamepad(0) returned no handle after connect and update")
	}
	if !pad.Connected() {
		t.Error("Connected() = false for a live handle")
	}
	if got := pad.Name(); got != "Late Pad" {
		t.Errorf("Name() = %q, want %q", got, "Late Pad")
	}
}

func TestGamepad_IndexOutOfRange(t *testing.T) {
	g, _, _ := newTestGirl(t)

	if _, ok := g.Gamepad(-1); ok {
		t.Error("Gamepad(-1) returned a handle")
	}
	if _, ok := g.Gamepad(1); ok {
		t.Error("Gamepad(1) returned a handle with one device connected")
	}
}

func TestGamepadsConnected_Ordering(t *testing.T) {
	b := sim.New()
	b.Connect(testPadInfo("one"))
	b.Connect(testPadInfo("two"))
	b.Connect(testPadInfo("three"))

	g, err := New(b)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer g.Close()
	mustUpdate(t, g)

	pads := g.GamepadsConnected()
	if len(pads) != 3 {
		t.Fatalf("GamepadsConnected() returned %d handles, want 3", len(pads))
	}
	for i := 1; i < len(pads); i++ {
		if pads[i-1].ID() >= pads[i].ID() {
			t.Errorf("handles not in ascending DeviceID order: %v >= %v",
				pads[i-1].ID(), pads[i].ID())
		}
	}

	// Stable across calls absent connect/disconnect.
	again := g.GamepadsConnected()
	for i := range pads {
		if pads[i] != again[i] {
			t.Errorf("handle %d changed between calls", i)
		}
	}

	// And stable across updates, too.
	mustUpdate(t, g)
	after := g.GamepadsConnected()
	for i := range pads {
		if pads[i] != after[i] {
			t.Errorf("handle %d changed across an update without topology changes", i)
		}
	}
}

func TestUpdate_Disconnect(t *testing.T) {
	g, b, id := newTestGirl(t)
	pad := mustPad(t, g, 0)

	b.QueueReport(backend.Report{
		Device:  id,
		Buttons: backend.ButtonSouth,
		Sticks:  [2]backend.Vec2{{X: 0.5}},
	})
	mustUpdate(t, g)

	b.Disconnect(id)
	mustUpdate(t, g)

	if pad.Connected() {
		t.Error("Connected() = true after disconnect and update")
	}
	if got := pad.Buttons(); got != 0 {
		t.Errorf("Buttons() = %v after disconnect, want none", got)
	}
	if got := pad.Stick(SideLeft); got != (Vec2{}) {
		t.Errorf("Stick() = %v after disconnect, want zero", got)
	}
	if got := pad.State(); got != (State{}) {
		t.Errorf("State() = %+v after disconnect, want zero", got)
	}
	if err := pad.SetRumble(1, 1, time.Second); !errors.Is(err, pkg.ErrDeviceNotFound) {
		t.Errorf("SetRumble() error = %v, want ErrDeviceNotFound", err)
	}
	if err := pad.SetLED(LEDColor{R: 255}); !errors.Is(err, pkg.ErrDeviceNotFound) {
		t.Errorf("SetLED() error = %v, want ErrDeviceNotFound", err)
	}
	if got := g.Count(); got != 0 {
		t.Errorf("Count() = %d after disconnect, want 0", got)
	}
	if pads := g.GamepadsConnected(); len(pads) != 0 {
		t.Errorf("GamepadsConnected() returned %d handles, want 0", len(pads))
	}
}

func TestUpdate_SlotReuseBumpsGeneration(t *testing.T) {
	g, b, id := newTestGirl(t)
	oldPad := mustPad(t, g, 0)
	oldID := oldPad.ID()

	b.Disconnect(id)
	mustUpdate(t, g)

	b.Connect(testPadInfo("Newcomer"))
	mustUpdate(t, g)

	newPad := mustPad(t, g, 0)
	if newPad == oldPad {
		t.Fatal("slot reuse returned the old handle")
	}
	if newPad.ID() == oldID {
		t.Errorf("reused slot kept DeviceID %v", oldID)
	}
	if newPad.ID().Slot() != oldID.Slot() {
		t.Errorf("newcomer slot = %d, want reuse of slot %d",
			newPad.ID().Slot(), oldID.Slot())
	}
	if newPad.ID().Generation() != oldID.Generation()+1 {
		t.Errorf("generation = %d, want %d",
			newPad.ID().Generation(), oldID.Generation()+1)
	}

	if oldPad.Connected() {
		t.Error("old handle revalidated against the newcomer")
	}
	if !newPad.Connected() {
		t.Error("new handle not connected")
	}
}

func TestUpdate_StaleHandleAfterSameDeviceReconnect(t *testing.T) {
	g, b, id := newTestGirl(t)
	oldPad := mustPad(t, g, 0)

	b.Disconnect(id)
	mustUpdate(t, g)

	// The same physical device returns; the backend keeps its ID.
	info := testPadInfo("Test Pad")
	info.ID = id
	b.Connect(info)
	mustUpdate(t, g)

	if oldPad.Connected() {
		t.Error("stale handle came back to life on reconnect")
	}
	newPad := mustPad(t, g, 0)
	if !newPad.Connected() {
		t.Error("reconnected device has no live handle")
	}
	if newPad.ID() == oldPad.ID() {
		t.Error("reconnect reused the old registry identity")
	}
}

func TestUpdate_ListFailure(t *testing.T) {
	g, b, _ := newTestGirl(t)
	pad := mustPad(t, g, 0)

	b.FailNextList(errors.New("hub error"))
	if err := g.Update(); !errors.Is(err, pkg.ErrBackendFailure) {
		t.Errorf("Update() error = %v, want ErrBackendFailure", err)
	}

	// The failure must not leak into device state.
	if !pad.Connected() {
		t.Error("device dropped by a failed list call")
	}
	mustUpdate(t, g)
	if !pad.Connected() {
		t.Error("device not connected after recovery")
	}
}

func TestUpdate_PollFailure(t *testing.T) {
	g, b, _ := newTestGirl(t)
	pad := mustPad(t, g, 0)

	b.FailNextPoll(errors.New("read error"))
	if err := g.Update(); !errors.Is(err, pkg.ErrBackendFailure) {
		t.Errorf("Update() error = %v, want ErrBackendFailure", err)
	}
	if !pad.Connected() {
		t.Error("device dropped by a failed poll call")
	}
	mustUpdate(t, g)
}

func TestUpdate_SkipsReportForUnknownDevice(t *testing.T) {
	g, b, id := newTestGirl(t)
	pad := mustPad(t, g, 0)

	b.QueueReport(backend.Report{Device: 999, Buttons: backend.ButtonNorth})
	b.QueueReport(backend.Report{Device: id, Buttons: backend.ButtonSouth})
	mustUpdate(t, g)

	if got := pad.Buttons(); got != ButtonSouth {
		t.Errorf("Buttons() = %v, want South only", got)
	}
}

func TestUpdate_LatestReportWins(t *testing.T) {
	g, b, id := newTestGirl(t)
	pad := mustPad(t, g, 0)

	b.QueueReport(backend.Report{Device: id, Buttons: backend.ButtonSouth})
	b.QueueReport(backend.Report{Device: id, Buttons: backend.ButtonEast})
	mustUpdate(t, g)

	if got := pad.Buttons(); got != ButtonEast {
		t.Errorf("Buttons() = %v, want East from the newest report", got)
	}
}

func TestUpdate_HoldSteadyWithoutReport(t *testing.T) {
	g, b, id := newTestGirl(t)
	pad := mustPad(t, g, 0)

	b.QueueReport(backend.Report{
		Device:   id,
		Buttons:  backend.ButtonSouth,
		Sticks:   [2]backend.Vec2{{X: 0.5, Y: -0.25}},
		Triggers: [2]float64{0.75, 0},
	})
	mustUpdate(t, g)

	if !pad.ButtonsJustPressed(ButtonSouth) {
		t.Fatal("ButtonsJustPressed() = false on the press update")
	}

	// Two quiet updates: analog holds, buttons hold, edges quiesce.
	mustUpdate(t, g)
	mustUpdate(t, g)

	if got := pad.Stick(SideLeft); got != (Vec2{X: 0.5, Y: -0.25}) {
		t.Errorf("Stick() = %v after quiet updates, want held value", got)
	}
	if got := pad.Trigger(SideLeft); got != 0.75 {
		t.Errorf("Trigger() = %v after quiet updates, want 0.75", got)
	}
	if !pad.ButtonsPressed(ButtonSouth) {
		t.Error("ButtonsPressed() = false, button must hold")
	}
	if pad.ButtonsJustPressed(ButtonSouth) {
		t.Error("ButtonsJustPressed() = true on a quiet update")
	}
}

func TestUpdate_DecayWithoutReport(t *testing.T) {
	g, b, id := newTestGirl(t, WithMissedReportDecay(0.5))
	pad := mustPad(t, g, 0)

	b.QueueReport(backend.Report{
		Device:   id,
		Buttons:  backend.ButtonSouth,
		Sticks:   [2]backend.Vec2{{X: 0.8}},
		Triggers: [2]float64{1, 0},
	})
	mustUpdate(t, g)

	mustUpdate(t, g)
	if got := pad.Stick(SideLeft).X; got != 0.4 {
		t.Errorf("Stick().X = %v after one missed update, want 0.4", got)
	}
	if got := pad.Trigger(SideLeft); got != 0.5 {
		t.Errorf("Trigger() = %v after one missed update, want 0.5", got)
	}

	mustUpdate(t, g)
	if got := pad.Stick(SideLeft).X; got != 0.2 {
		t.Errorf("Stick().X = %v after two missed updates, want 0.2", got)
	}

	// Buttons never decay.
	if !pad.ButtonsPressed(ButtonSouth) {
		t.Error("ButtonsPressed() = false, buttons must not decay")
	}
}

func TestUpdate_DecayFullRate(t *testing.T) {
	g, b, id := newTestGirl(t, WithMissedReportDecay(1))
	pad := mustPad(t, g, 0)

	b.QueueReport(backend.Report{
		Device: id,
		Sticks: [2]backend.Vec2{{X: 0.8, Y: 0.6}},
	})
	mustUpdate(t, g)
	mustUpdate(t, g)

	if got := pad.Stick(SideLeft); got != (Vec2{}) {
		t.Errorf("Stick() = %v after full-rate decay, want zero", got)
	}
}

func TestUpdate_AfterClose(t *testing.T) {
	g, _, _ := newTestGirl(t)

	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := g.Update(); !errors.Is(err, pkg.ErrClosed) {
		t.Errorf("Update() after Close error = %v, want ErrClosed", err)
	}
}

func TestClose_StopsActiveRumble(t *testing.T) {
	g, b, id := newTestGirl(t)
	pad := mustPad(t, g, 0)

	if err := pad.SetRumble(0x8000, 0x8000, time.Minute); err != nil {
		t.Fatalf("SetRumble failed: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	stops := 0
	for _, cmd := range b.Output(id) {
		if cmd.Op == backend.OpStopRumble {
			stops++
		}
	}
	if stops != 1 {
		t.Errorf("Close sent %d stop commands, want 1", stops)
	}

	if err := g.Close(); err != nil {
		t.Errorf("second Close error = %v, want nil", err)
	}
}

func TestSlotTableFull(t *testing.T) {
	b := sim.New()
	for i := 0; i < MaxGamepads+1; i++ {
		b.Connect(testPadInfo("pad"))
	}

	g, err := New(b)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer g.Close()
	mustUpdate(t, g)

	if got := g.Count(); got != MaxGamepads {
		t.Fatalf("Count() = %d with an overfull bus, want %d", got, MaxGamepads)
	}

	// Freeing a slot lets the waiting device in on the next update.
	infos, err := b.ListDevices()
	if err != nil {
		t.Fatalf("ListDevices failed: %v", err)
	}
	b.Disconnect(infos[0].ID)
	mustUpdate(t, g)

	if got := g.Count(); got != MaxGamepads {
		t.Errorf("Count() = %d after slot handoff, want %d", got, MaxGamepads)
	}
}

func TestApply_ChangesDeadzoneAtRuntime(t *testing.T) {
	g, b, id := newTestGirl(t)
	pad := mustPad(t, g, 0)

	b.QueueReport(backend.Report{Device: id, Sticks: [2]backend.Vec2{{X: 0.05}}})
	mustUpdate(t, g)
	if got := pad.Stick(SideLeft).X; got != 0 {
		t.Fatalf("Stick().X = %v inside default dead zone, want 0", got)
	}

	g.Apply(WithStickDeadzone(0.01))
	b.QueueReport(backend.Report{Device: id, Sticks: [2]backend.Vec2{{X: 0.05}}})
	mustUpdate(t, g)
	if got := pad.Stick(SideLeft).X; got != 0.05 {
		t.Errorf("Stick().X = %v after shrinking the dead zone, want 0.05", got)
	}
}

func TestDeviceID_Packing(t *testing.T) {
	tests := []struct {
		slot int
		gen  uint32
		want string
	}{
		{0, 1, "0:1"},
		{3, 7, "3:7"},
		{15, 42, "15:42"},
	}

	for _, tt := range tests {
		id := makeDeviceID(tt.slot, tt.gen)
		if id.Slot() != tt.slot {
			t.Errorf("Slot() = %d, want %d", id.Slot(), tt.slot)
		}
		if id.Generation() != tt.gen {
			t.Errorf("Generation() = %d, want %d", id.Generation(), tt.gen)
		}
		if got := id.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	// Higher slots always order above lower ones, whatever the generations.
	if makeDeviceID(0, 500) >= makeDeviceID(1, 1) {
		t.Error("DeviceID ordering does not follow slot order")
	}
}
