package girl

import (
	"math"

	"github.com/zohnannor/girl/backend"
)

// Slot table and snapshot bounds.
const (
	// MaxGamepads is the number of registry slots.
	MaxGamepads = 16

	// MaxTouchpads is the number of touch surfaces tracked per device.
	MaxTouchpads = 2

	// MaxTouchFingers is the number of finger slots tracked per surface.
	MaxTouchFingers = 4
)

// sensorNoiseGate is the magnitude below which a sensor axis reads as
// zero, trimming idle jitter.
const sensorNoiseGate = 0.01

// CapabilityTable describes what a connected device can do. It is built
// once when the device connects and never changes for the lifetime of
// the connection.
type CapabilityTable struct {
	LED           bool // Device has a controllable light
	Rumble        bool // Device has body rumble motors
	TriggerRumble bool // Device has independent trigger motors
	Touchpads     int  // Touch surfaces, capped at MaxTouchpads
	Fingers       int  // Finger slots per surface, capped at MaxTouchFingers

	sensors [NumSensorKinds]bool
}

// newCapabilityTable freezes backend capabilities into a table.
func newCapabilityTable(c backend.Capabilities) CapabilityTable {
	t := CapabilityTable{
		LED:           c.LED,
		Rumble:        c.Rumble,
		TriggerRumble: c.TriggerRumble,
		Touchpads:     min(c.Touchpads, MaxTouchpads),
		Fingers:       min(c.Fingers, MaxTouchFingers),
	}
	for _, k := range c.Sensors {
		if int(k) < NumSensorKinds {
			t.sensors[k] = true
		}
	}
	return t
}

// HasSensor reports whether the device exposes the given sensor kind.
func (t CapabilityTable) HasSensor(kind SensorKind) bool {
	return int(kind) < NumSensorKinds && t.sensors[kind]
}

// Touch is the tracked state of one finger on one touch surface.
type Touch struct {
	Active   bool    // Finger is currently down
	X        float64 // Position in [0,1], left to right
	Y        float64 // Position in [0,1], top to bottom
	Pressure float64 // Contact pressure in [0,1]
}

// State is one device's input snapshot. It has plain value semantics;
// copying a State copies everything.
//
// Buttons and PrevButtons hold the current and previous update's button
// sets; comparing them yields edge information. All analog fields are
// normalized and clamped before they land here.
type State struct {
	Buttons     Button
	PrevButtons Button
	Sticks      [2]Vec2    // Indexed by Side, each axis in [-1,1]
	Triggers    [2]float64 // Indexed by Side, in [0,1]
	Sensors     [NumSensorKinds]Vec3
	Touches     [MaxTouchpads][MaxTouchFingers]Touch
	Power       PowerLevel
	Connected   bool
}

// sanitize maps non-finite input to zero.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// clampAxis sanitizes and clamps a stick axis to [-1,1], zeroing values
// inside the dead zone.
func clampAxis(v, deadzone float64) float64 {
	v = sanitize(v)
	if v < deadzone && v > -deadzone {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

// clampUnit sanitizes and clamps a trigger or pressure value to [0,1].
func clampUnit(v float64) float64 {
	v = sanitize(v)
	return math.Max(0, math.Min(1, v))
}

// gateSensor sanitizes a sensor axis and zeroes idle jitter. Sensor
// samples are physical quantities, so they are gated, not clamped.
func gateSensor(v float64) float64 {
	v = sanitize(v)
	if v < sensorNoiseGate && v > -sensorNoiseGate {
		return 0
	}
	return v
}

// applyReport folds one backend report into the slot's snapshot and
// appends any touch transition events. Buttons, sticks, and triggers
// replace; sensors and touches merge. Malformed pieces are dropped
// without aborting the rest of the report.
func (g *Girl) applyReport(s *slot, r *backend.Report) {
	st := &s.state

	st.Buttons = r.Buttons

	for side := 0; side < 2; side++ {
		st.Sticks[side] = Vec2{
			X: clampAxis(r.Sticks[side].X, g.deadzone),
			Y: clampAxis(r.Sticks[side].Y, g.deadzone),
		}
		st.Triggers[side] = clampUnit(r.Triggers[side])
	}

	for _, sample := range r.Sensors {
		k := sample.Kind
		if int(k) >= NumSensorKinds || !s.caps.HasSensor(k) || !s.sensorOn[k] {
			continue
		}
		st.Sensors[k] = Vec3{
			X: gateSensor(sample.Data.X),
			Y: gateSensor(sample.Data.Y),
			Z: gateSensor(sample.Data.Z),
		}
	}

	for i := range r.Touches {
		g.applyTouch(s, &r.Touches[i])
	}

	if r.Power <= PowerWired {
		st.Power = r.Power
	}
}
