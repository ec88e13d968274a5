package backend

import "fmt"

// OutputOp identifies the kind of an output command.
type OutputOp uint8

// Output operations. The set is closed; backends must reject ops they do
// not recognize rather than ignore them.
const (
	OpSetLED OutputOp = iota
	OpSetRumble
	OpStopRumble
	OpSetRumbleTriggers
	OpStopRumbleTriggers
	OpEnableSensor
	OpDisableSensor
)

// String returns a human-readable operation name.
func (o OutputOp) String() string {
	switch o {
	case OpSetLED:
		return "SetLED"
	case OpSetRumble:
		return "SetRumble"
	case OpStopRumble:
		return "StopRumble"
	case OpSetRumbleTriggers:
		return "SetRumbleTriggers"
	case OpStopRumbleTriggers:
		return "StopRumbleTriggers"
	case OpEnableSensor:
		return "EnableSensor"
	case OpDisableSensor:
		return "DisableSensor"
	default:
		return "Unknown"
	}
}

// LEDColor is an RGB color for devices with a controllable light.
type LEDColor struct {
	R uint8
	G uint8
	B uint8
}

// OutputCommand carries one fire-and-forget output operation. Fields
// beyond Op are meaningful only for the operations that use them.
type OutputCommand struct {
	Op   OutputOp
	LED  LEDColor   // OpSetLED
	Low  uint16     // OpSetRumble low-frequency motor; OpSetRumbleTriggers left
	High uint16     // OpSetRumble high-frequency motor; OpSetRumbleTriggers right
	Kind SensorKind // OpEnableSensor, OpDisableSensor
}

// SetLED builds a command that sets the device light to the given color.
func SetLED(c LEDColor) OutputCommand {
	return OutputCommand{Op: OpSetLED, LED: c}
}

// SetRumble builds a command that starts the body rumble motors.
func SetRumble(low, high uint16) OutputCommand {
	return OutputCommand{Op: OpSetRumble, Low: low, High: high}
}

// StopRumble builds a command that stops the body rumble motors.
func StopRumble() OutputCommand {
	return OutputCommand{Op: OpStopRumble}
}

// SetRumbleTriggers builds a command that starts the trigger motors.
func SetRumbleTriggers(left, right uint16) OutputCommand {
	return OutputCommand{Op: OpSetRumbleTriggers, Low: left, High: right}
}

// StopRumbleTriggers builds a command that stops the trigger motors.
func StopRumbleTriggers() OutputCommand {
	return OutputCommand{Op: OpStopRumbleTriggers}
}

// EnableSensor builds a command that starts streaming the given sensor.
func EnableSensor(kind SensorKind) OutputCommand {
	return OutputCommand{Op: OpEnableSensor, Kind: kind}
}

// DisableSensor builds a command that stops streaming the given sensor.
func DisableSensor(kind SensorKind) OutputCommand {
	return OutputCommand{Op: OpDisableSensor, Kind: kind}
}

// String returns a compact description of the command for logs.
func (c OutputCommand) String() string {
	switch c.Op {
	case OpSetLED:
		return fmt.Sprintf("SetLED(%d,%d,%d)", c.LED.R, c.LED.G, c.LED.B)
	case OpSetRumble, OpSetRumbleTriggers:
		return fmt.Sprintf("%s(%d,%d)", c.Op, c.Low, c.High)
	case OpEnableSensor, OpDisableSensor:
		return fmt.Sprintf("%s(%s)", c.Op, c.Kind)
	default:
		return c.Op.String()
	}
}
