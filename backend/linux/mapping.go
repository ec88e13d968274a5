//go:build linux

package linux

import "github.com/zohnannor/girl/backend"

// Input event type codes from the kernel input protocol.
const (
	evSyn uint16 = 0x00
	evKey uint16 = 0x01
	evAbs uint16 = 0x03
	evFF  uint16 = 0x15
)

// Gamepad key codes (BTN_*). The kernel names do not all match physical
// positions: shipping drivers put the west face button on BTN_NORTH
// (alias BTN_X) and the north one on BTN_WEST (alias BTN_Y). keyButtons
// below maps by physical position.
const (
	btnSouth  uint16 = 0x130
	btnEast   uint16 = 0x131
	btnNorth  uint16 = 0x133 // west position in practice
	btnWest   uint16 = 0x134 // north position in practice
	btnTL     uint16 = 0x136
	btnTR     uint16 = 0x137
	btnTL2    uint16 = 0x138
	btnTR2    uint16 = 0x139
	btnSelect uint16 = 0x13a
	btnStart  uint16 = 0x13b
	btnMode   uint16 = 0x13c
	btnThumbL uint16 = 0x13d
	btnThumbR uint16 = 0x13e

	btnDpadUp    uint16 = 0x220
	btnDpadDown  uint16 = 0x221
	btnDpadLeft  uint16 = 0x222
	btnDpadRight uint16 = 0x223
)

// Absolute axis codes (ABS_*).
const (
	absX     uint16 = 0x00
	absY     uint16 = 0x01
	absZ     uint16 = 0x02
	absRX    uint16 = 0x03
	absRY    uint16 = 0x04
	absRZ    uint16 = 0x05
	absGas   uint16 = 0x09
	absBrake uint16 = 0x0a
	absHat0X uint16 = 0x10
	absHat0Y uint16 = 0x11

	absMax = 0x3f
)

// absNone marks an unassigned slot in an axisMap.
const absNone = ^uint16(0)

// keyButtons maps gamepad key codes to button bits by physical position.
var keyButtons = map[uint16]backend.Button{
	btnSouth:     backend.ButtonSouth,
	btnEast:      backend.ButtonEast,
	btnNorth:     backend.ButtonWest,
	btnWest:      backend.ButtonNorth,
	btnTL:        backend.ButtonLeftShoulder,
	btnTR:        backend.ButtonRightShoulder,
	btnSelect:    backend.ButtonBack,
	btnStart:     backend.ButtonStart,
	btnMode:      backend.ButtonGuide,
	btnThumbL:    backend.ButtonLeftStick,
	btnThumbR:    backend.ButtonRightStick,
	btnDpadUp:    backend.ButtonDPadUp,
	btnDpadDown:  backend.ButtonDPadDown,
	btnDpadLeft:  backend.ButtonDPadLeft,
	btnDpadRight: backend.ButtonDPadRight,
}

// axisRange is one axis' calibration from the kernel absinfo query.
type axisRange struct {
	min float64
	max float64
}

// centered normalizes a sample on an axis whose resting point is the
// middle of its range, yielding a nominal [-1, 1].
func (r axisRange) centered(value int32) float64 {
	half := (r.max - r.min) / 2
	if half == 0 {
		return 0
	}
	return backend.Normalize(float64(value)-(r.min+half), 0, half)
}

// positive normalizes a sample on an axis that rests at its minimum,
// yielding a nominal [0, 1].
func (r axisRange) positive(value int32) float64 {
	span := r.max - r.min
	if span == 0 {
		return 0
	}
	return backend.Normalize(float64(value)-r.min, 0, span)
}

// axisMap records which absolute axis feeds which control on one device.
// The assignment is resolved once at open time from the advertised axes,
// following the layouts shipped by the common kernel pad drivers.
type axisMap struct {
	stickX  [2]uint16
	stickY  [2]uint16
	trigger [2]uint16
	ranges  map[uint16]axisRange

	// digitalTriggers routes BTN_TL2/BTN_TR2 into the trigger axes on
	// devices that have no analog trigger axis at all.
	digitalTriggers bool
}

// resolveAxes decides the stick and trigger assignment for a device that
// advertises the given absolute axes. triggerKeys says whether the
// device also has the TL2/TR2 key pair.
func resolveAxes(have map[uint16]axisRange, triggerKeys bool) axisMap {
	m := axisMap{
		stickX:  [2]uint16{absNone, absNone},
		stickY:  [2]uint16{absNone, absNone},
		trigger: [2]uint16{absNone, absNone},
		ranges:  have,
	}
	has := func(code uint16) bool {
		_, ok := have[code]
		return ok
	}

	if has(absX) {
		m.stickX[backend.SideLeft] = absX
	}
	if has(absY) {
		m.stickY[backend.SideLeft] = absY
	}

	switch {
	case has(absBrake) && has(absGas):
		// Bluetooth Xbox layout: brake/gas carry the triggers and the
		// right stick sits on Z/RZ.
		m.trigger = [2]uint16{absBrake, absGas}
		if has(absZ) && has(absRZ) {
			m.stickX[backend.SideRight] = absZ
			m.stickY[backend.SideRight] = absRZ
		} else if has(absRX) && has(absRY) {
			m.stickX[backend.SideRight] = absRX
			m.stickY[backend.SideRight] = absRY
		}
	case has(absRX) && has(absRY):
		// USB Xbox and modern PlayStation layout: right stick on
		// RX/RY, analog triggers on Z/RZ when present.
		m.stickX[backend.SideRight] = absRX
		m.stickY[backend.SideRight] = absRY
		if has(absZ) && has(absRZ) {
			m.trigger = [2]uint16{absZ, absRZ}
		}
	case has(absZ) && has(absRZ):
		// Older Sony layout: right stick on Z/RZ, triggers digital.
		m.stickX[backend.SideRight] = absZ
		m.stickY[backend.SideRight] = absRZ
	}

	m.digitalTriggers = triggerKeys && m.trigger[backend.SideLeft] == absNone
	return m
}

// padState is the running full-state image of one device. Reports are
// snapshots of it, so consumers always see complete state no matter how
// the kernel batches the underlying events.
type padState struct {
	buttons  backend.Button
	sticks   [2]backend.Vec2
	triggers [2]float64
	dirty    bool
}

// apply folds one raw input event into the state.
func (m *axisMap) apply(st *padState, typ, code uint16, value int32) {
	switch typ {
	case evKey:
		m.applyKey(st, code, value)
	case evAbs:
		m.applyAbs(st, code, value)
	}
}

func (m *axisMap) applyKey(st *padState, code uint16, value int32) {
	if m.digitalTriggers && (code == btnTL2 || code == btnTR2) {
		side := backend.SideLeft
		if code == btnTR2 {
			side = backend.SideRight
		}
		if value != 0 {
			st.triggers[side] = 1
		} else {
			st.triggers[side] = 0
		}
		st.dirty = true
		return
	}
	bit, ok := keyButtons[code]
	if !ok {
		return
	}
	// Value 2 is key auto-repeat, still held.
	if value != 0 {
		st.buttons |= bit
	} else {
		st.buttons &^= bit
	}
	st.dirty = true
}

func (m *axisMap) applyAbs(st *padState, code uint16, value int32) {
	switch code {
	case absHat0X:
		st.buttons = hatButtons(st.buttons, backend.ButtonDPadLeft, backend.ButtonDPadRight, value)
		st.dirty = true
		return
	case absHat0Y:
		st.buttons = hatButtons(st.buttons, backend.ButtonDPadUp, backend.ButtonDPadDown, value)
		st.dirty = true
		return
	}
	r, ok := m.ranges[code]
	if !ok {
		return
	}
	switch {
	case code == m.stickX[backend.SideLeft]:
		st.sticks[backend.SideLeft].X = r.centered(value)
	case code == m.stickY[backend.SideLeft]:
		st.sticks[backend.SideLeft].Y = r.centered(value)
	case code == m.stickX[backend.SideRight]:
		st.sticks[backend.SideRight].X = r.centered(value)
	case code == m.stickY[backend.SideRight]:
		st.sticks[backend.SideRight].Y = r.centered(value)
	case code == m.trigger[backend.SideLeft]:
		st.triggers[backend.SideLeft] = r.positive(value)
	case code == m.trigger[backend.SideRight]:
		st.triggers[backend.SideRight] = r.positive(value)
	default:
		return
	}
	st.dirty = true
}

// hatButtons converts one hat axis sample into the matching d-pad pair.
func hatButtons(b, neg, pos backend.Button, value int32) backend.Button {
	b &^= neg | pos
	switch {
	case value < 0:
		b |= neg
	case value > 0:
		b |= pos
	}
	return b
}
