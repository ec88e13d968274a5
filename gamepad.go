package girl

import (
	"fmt"

	"github.com/zohnannor/girl/backend"
	"github.com/zohnannor/girl/pkg"
)

// Gamepad is a handle to one registry slot. Handles stay cheap and
// copyable; they carry no state of their own and revalidate against the
// slot table on every call.
//
// After the device disconnects, the handle goes dead from the next
// Update on: queries return zero values, Connected reports false, and
// output operations fail with pkg.ErrDeviceNotFound. A different device
// placed into the same slot does not revive old handles; the generation
// counter tells them apart.
type Gamepad struct {
	girl  *Girl
	index int
	gen   uint32
	id    DeviceID
}

// slot returns the live slot this handle is bound to, or nil when the
// device has disconnected or the slot now holds a different device.
func (p *Gamepad) slot() *slot {
	if p == nil || p.girl == nil {
		return nil
	}
	s := &p.girl.slots[p.index]
	if !s.occupied || s.gen != p.gen {
		return nil
	}
	return s
}

// ID returns the registry identity the handle was bound to. It stays
// meaningful after a disconnect.
func (p *Gamepad) ID() DeviceID {
	return p.id
}

// Connected reports whether the device is still attached.
func (p *Gamepad) Connected() bool {
	s := p.slot()
	return s != nil && s.state.Connected
}

// Name returns the device's product name, or "" after a disconnect.
func (p *Gamepad) Name() string {
	s := p.slot()
	if s == nil {
		return ""
	}
	return s.info.Name
}

// Capabilities returns the device's capability table. The zero table
// comes back after a disconnect.
func (p *Gamepad) Capabilities() CapabilityTable {
	s := p.slot()
	if s == nil {
		return CapabilityTable{}
	}
	return s.caps
}

// State returns a copy of the device's current snapshot. The zero
// snapshot comes back after a disconnect.
func (p *Gamepad) State() State {
	s := p.slot()
	if s == nil {
		return State{}
	}
	return s.state
}

// Buttons returns the set of buttons currently held.
func (p *Gamepad) Buttons() Button {
	s := p.slot()
	if s == nil {
		return 0
	}
	return s.state.Buttons
}

// ButtonsPressed reports whether every button in mask is currently
// held. The check is level-triggered: it stays true for as long as the
// buttons stay down, and a multi-bit mask requires the whole chord.
func (p *Gamepad) ButtonsPressed(mask Button) bool {
	s := p.slot()
	if s == nil {
		return false
	}
	return s.state.Buttons&mask == mask
}

// ButtonsJustPressed reports whether the mask became fully held on the
// most recent update, having not been fully held on the one before.
func (p *Gamepad) ButtonsJustPressed(mask Button) bool {
	s := p.slot()
	if s == nil {
		return false
	}
	return s.state.Buttons&mask == mask && s.state.PrevButtons&mask != mask
}

// ButtonsJustReleased reports whether the mask stopped being fully held
// on the most recent update.
func (p *Gamepad) ButtonsJustReleased(mask Button) bool {
	s := p.slot()
	if s == nil {
		return false
	}
	return s.state.PrevButtons&mask == mask && s.state.Buttons&mask != mask
}

// Stick returns the position of the given stick, each axis in [-1,1].
func (p *Gamepad) Stick(side Side) Vec2 {
	s := p.slot()
	if s == nil || side > SideRight {
		return Vec2{}
	}
	return s.state.Sticks[side]
}

// StickDeadzone returns the stick position with an additional dead zone
// applied on top of the configured one: axes whose magnitude falls
// below dz read as zero.
func (p *Gamepad) StickDeadzone(side Side, dz float64) Vec2 {
	v := p.Stick(side)
	if dz <= 0 {
		return v
	}
	if v.X < dz && v.X > -dz {
		v.X = 0
	}
	if v.Y < dz && v.Y > -dz {
		v.Y = 0
	}
	return v
}

// Trigger returns the given trigger's position in [0,1].
func (p *Gamepad) Trigger(side Side) float64 {
	s := p.slot()
	if s == nil || side > SideRight {
		return 0
	}
	return s.state.Triggers[side]
}

// Power returns the device's battery state as of the last report.
func (p *Gamepad) Power() PowerLevel {
	s := p.slot()
	if s == nil {
		return PowerUnknown
	}
	return s.state.Power
}

// Touch returns the tracked state of one finger on one touch surface.
// It returns false when the device has no such surface or finger slot,
// or after a disconnect.
func (p *Gamepad) Touch(pad, finger int) (Touch, bool) {
	s := p.slot()
	if s == nil {
		return Touch{}, false
	}
	if pad < 0 || pad >= s.caps.Touchpads || finger < 0 || finger >= s.caps.Fingers {
		return Touch{}, false
	}
	return s.state.Touches[pad][finger], true
}

// Sensor returns the latest sample from the given sensor. The sensor
// must be present in the capability table and enabled through
// [Gamepad.EnableSensor] first.
func (p *Gamepad) Sensor(kind SensorKind) (Vec3, error) {
	s := p.slot()
	if s == nil {
		return Vec3{}, pkg.ErrDeviceNotFound
	}
	if !s.caps.HasSensor(kind) {
		return Vec3{}, fmt.Errorf("%w: sensor %s", pkg.ErrUnsupportedCapability, kind)
	}
	if !s.sensorOn[kind] {
		return Vec3{}, fmt.Errorf("%w: sensor %s", pkg.ErrSensorDisabled, kind)
	}
	return s.state.Sensors[kind], nil
}

// SensorEnabled reports whether the sensor is currently streaming.
func (p *Gamepad) SensorEnabled(kind SensorKind) bool {
	s := p.slot()
	return s != nil && int(kind) < NumSensorKinds && s.sensorOn[kind]
}

// EnableSensor starts streaming the given sensor. Enabling a sensor
// that is already enabled is a no-op; the backend sees one command per
// off-to-on transition.
func (p *Gamepad) EnableSensor(kind SensorKind) error {
	s := p.slot()
	if s == nil {
		return pkg.ErrDeviceNotFound
	}
	if !s.caps.HasSensor(kind) {
		return fmt.Errorf("%w: sensor %s", pkg.ErrUnsupportedCapability, kind)
	}
	if s.sensorOn[kind] {
		return nil
	}
	if err := p.girl.backend.SendOutput(s.devID, backend.EnableSensor(kind)); err != nil {
		return fmt.Errorf("%w: %v", pkg.ErrBackendFailure, err)
	}
	s.sensorOn[kind] = true
	return nil
}

// DisableSensor stops streaming the given sensor and zeroes its stored
// sample. Disabling an idle sensor is a no-op.
func (p *Gamepad) DisableSensor(kind SensorKind) error {
	s := p.slot()
	if s == nil {
		return pkg.ErrDeviceNotFound
	}
	if !s.caps.HasSensor(kind) {
		return fmt.Errorf("%w: sensor %s", pkg.ErrUnsupportedCapability, kind)
	}
	if !s.sensorOn[kind] {
		return nil
	}
	if err := p.girl.backend.SendOutput(s.devID, backend.DisableSensor(kind)); err != nil {
		return fmt.Errorf("%w: %v", pkg.ErrBackendFailure, err)
	}
	s.sensorOn[kind] = false
	s.state.Sensors[kind] = Vec3{}
	return nil
}

// SetLED sets the device light to the given color. The command is fire
// and forget; the registry keeps no LED state and nothing is read back.
func (p *Gamepad) SetLED(c LEDColor) error {
	s := p.slot()
	if s == nil {
		return pkg.ErrDeviceNotFound
	}
	if !s.caps.LED {
		return fmt.Errorf("%w: led", pkg.ErrUnsupportedCapability)
	}
	if err := p.girl.backend.SendOutput(s.devID, backend.SetLED(c)); err != nil {
		return fmt.Errorf("%w: %v", pkg.ErrBackendFailure, err)
	}
	return nil
}

// String describes the gamepad like "DualSense (Power: Full), connected
// as #0:1". Disconnected handles render as "disconnected (#0:1)".
func (p *Gamepad) String() string {
	s := p.slot()
	if s == nil {
		return fmt.Sprintf("disconnected (#%s)", p.id)
	}
	return fmt.Sprintf("%s (Power: %s), connected as #%s",
		s.info.Name, s.state.Power, p.id)
}
