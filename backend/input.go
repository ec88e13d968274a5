package backend

import "strings"

// Button is a bitset of gamepad buttons. Multiple buttons combine with
// bitwise OR; a zero value means no buttons.
type Button uint32

// Button bits. Face buttons are named by position (South is the lower
// face button regardless of the glyph printed on it).
const (
	ButtonSouth Button = 1 << iota
	ButtonEast
	ButtonWest
	ButtonNorth
	ButtonBack
	ButtonGuide
	ButtonStart
	ButtonLeftStick
	ButtonRightStick
	ButtonLeftShoulder
	ButtonRightShoulder
	ButtonDPadUp
	ButtonDPadDown
	ButtonDPadLeft
	ButtonDPadRight
	ButtonMisc1
	ButtonPaddle1
	ButtonPaddle2
	ButtonPaddle3
	ButtonPaddle4
	ButtonTouchpad
)

// Xbox-layout aliases for the face buttons.
const (
	ButtonA = ButtonSouth
	ButtonB = ButtonEast
	ButtonX = ButtonWest
	ButtonY = ButtonNorth
)

// buttonNames maps each bit to its display name, in bit order.
var buttonNames = []struct {
	bit  Button
	name string
}{
	{ButtonSouth, "South"},
	{ButtonEast, "East"},
	{ButtonWest, "West"},
	{ButtonNorth, "North"},
	{ButtonBack, "Back"},
	{ButtonGuide, "Guide"},
	{ButtonStart, "Start"},
	{ButtonLeftStick, "LeftStick"},
	{ButtonRightStick, "RightStick"},
	{ButtonLeftShoulder, "LeftShoulder"},
	{ButtonRightShoulder, "RightShoulder"},
	{ButtonDPadUp, "DPadUp"},
	{ButtonDPadDown, "DPadDown"},
	{ButtonDPadLeft, "DPadLeft"},
	{ButtonDPadRight, "DPadRight"},
	{ButtonMisc1, "Misc1"},
	{ButtonPaddle1, "Paddle1"},
	{ButtonPaddle2, "Paddle2"},
	{ButtonPaddle3, "Paddle3"},
	{ButtonPaddle4, "Paddle4"},
	{ButtonTouchpad, "Touchpad"},
}

// String returns the set bits joined with "|", or "none" for the zero set.
func (b Button) String() string {
	if b == 0 {
		return "none"
	}
	var sb strings.Builder
	for _, bn := range buttonNames {
		if b&bn.bit == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(bn.name)
	}
	if r := b &^ buttonAll; r != 0 {
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString("unknown")
	}
	return sb.String()
}

// buttonAll is the union of all defined button bits.
const buttonAll = ButtonTouchpad<<1 - 1

// Side selects the left or right member of a paired control
// (stick, trigger, shoulder motor).
type Side uint8

// Side values.
const (
	SideLeft Side = iota
	SideRight
)

// String returns a human-readable side name.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "Left"
	case SideRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// SensorKind identifies a motion sensor on a device. Controllers with
// motion hardware in both grips report the Left/Right variants.
type SensorKind uint8

// Sensor kinds.
const (
	SensorUnknown SensorKind = iota
	SensorGyroscope
	SensorLeftGyroscope
	SensorRightGyroscope
	SensorAccelerometer
	SensorLeftAccelerometer
	SensorRightAccelerometer
)

// NumSensorKinds is the number of defined sensor kinds, including
// SensorUnknown.
const NumSensorKinds = 7

// String returns a human-readable sensor name.
func (k SensorKind) String() string {
	switch k {
	case SensorGyroscope:
		return "Gyroscope"
	case SensorLeftGyroscope:
		return "LeftGyroscope"
	case SensorRightGyroscope:
		return "RightGyroscope"
	case SensorAccelerometer:
		return "Accelerometer"
	case SensorLeftAccelerometer:
		return "LeftAccelerometer"
	case SensorRightAccelerometer:
		return "RightAccelerometer"
	default:
		return "Unknown"
	}
}

// PowerLevel represents the reported battery state of a device.
type PowerLevel uint8

// Power levels.
const (
	PowerUnknown PowerLevel = iota // Battery state not reported
	PowerEmpty                     // Effectively drained
	PowerLow
	PowerMedium
	PowerFull
	PowerWired // Wired connection, no battery in play
)

// String returns a human-readable power level name.
func (p PowerLevel) String() string {
	switch p {
	case PowerEmpty:
		return "Empty"
	case PowerLow:
		return "Low"
	case PowerMedium:
		return "Medium"
	case PowerFull:
		return "Full"
	case PowerWired:
		return "Wired"
	default:
		return "Unknown"
	}
}

// Vec2 is a two-component sample, used for stick positions.
type Vec2 struct {
	X float64
	Y float64
}

// Vec3 is a three-component sample, used for sensor readings.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Normalize scales a raw axis sample into a normalized range and applies
// a dead-zone threshold: the result is value/max, or zero when its
// magnitude falls below threshold. max must be nonzero.
func Normalize(value, threshold, max float64) float64 {
	v := value / max
	if v < threshold && v > -threshold {
		return 0
	}
	return v
}
