package hid

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/zohnannor/girl/backend"
	"github.com/zohnannor/girl/pkg"
)

// Report ids and feature reports from the DualSense protocol.
const (
	dsReportUSB          = 0x01 // full input report over USB
	dsReportBT           = 0x31 // full input report over Bluetooth
	dsOutputUSB          = 0x02
	dsOutputBT           = 0x31
	dsFeatureCalibration = 0x05
)

// dsPayloadLen is the minimum payload we decode, through the battery
// byte. The payload starts after the report id (USB) or after the id
// and sequence byte (Bluetooth).
const dsPayloadLen = 53

// Sensor scale factors: the IMU reports 1024 LSB per deg/s and 8192 LSB
// per g. Samples are exposed as rad/s and m/s^2.
const (
	gyroScale  = (math.Pi / 180) / 1024
	accelScale = 9.80665 / 8192
)

// Touchpad resolution in device units.
const (
	touchMaxX = 1919
	touchMaxY = 1079
)

// hatBits decodes the d-pad hat nibble. Values 8 and up mean released.
var hatBits = [8]backend.Button{
	backend.ButtonDPadUp,
	backend.ButtonDPadUp | backend.ButtonDPadRight,
	backend.ButtonDPadRight,
	backend.ButtonDPadRight | backend.ButtonDPadDown,
	backend.ButtonDPadDown,
	backend.ButtonDPadDown | backend.ButtonDPadLeft,
	backend.ButtonDPadLeft,
	backend.ButtonDPadLeft | backend.ButtonDPadUp,
}

// touchPoint is one decoded touchpad contact.
type touchPoint struct {
	active bool
	id     uint8
	x, y   float64
}

// inputFrame is one decoded input report.
type inputFrame struct {
	buttons  backend.Button
	sticks   [2]backend.Vec2
	triggers [2]float64
	gyro     backend.Vec3
	accel    backend.Vec3
	touches  [2]touchPoint
	power    backend.PowerLevel
}

// slicePayload strips the report framing. Bluetooth frames carry a
// sequence byte between the id and the payload. Compact Bluetooth
// reports (sent before the calibration probe flips the controller into
// full mode) and foreign report ids are rejected.
func slicePayload(buf []byte, bt bool) ([]byte, bool) {
	if len(buf) == 0 {
		return nil, false
	}
	switch buf[0] {
	case dsReportUSB:
		if bt || len(buf) < 1+dsPayloadLen {
			return nil, false
		}
		return buf[1:], true
	case dsReportBT:
		if !bt || len(buf) < 2+dsPayloadLen {
			return nil, false
		}
		return buf[2:], true
	default:
		return nil, false
	}
}

// parseFrame decodes one full-state payload.
func parseFrame(payload []byte) (inputFrame, error) {
	if len(payload) < dsPayloadLen {
		return inputFrame{}, fmt.Errorf("%w: %d byte payload", pkg.ErrMalformedReport, len(payload))
	}

	var fr inputFrame
	fr.sticks[backend.SideLeft] = backend.Vec2{
		X: backend.Normalize(float64(payload[0])-128, 0, 128),
		Y: backend.Normalize(float64(payload[1])-128, 0, 128),
	}
	fr.sticks[backend.SideRight] = backend.Vec2{
		X: backend.Normalize(float64(payload[2])-128, 0, 128),
		Y: backend.Normalize(float64(payload[3])-128, 0, 128),
	}
	fr.triggers[backend.SideLeft] = float64(payload[4]) / 255
	fr.triggers[backend.SideRight] = float64(payload[5]) / 255

	b0, b1, b2 := payload[7], payload[8], payload[9]
	if hat := b0 & 0x0f; hat < 8 {
		fr.buttons |= hatBits[hat]
	}
	if b0&0x10 != 0 {
		fr.buttons |= backend.ButtonWest // square
	}
	if b0&0x20 != 0 {
		fr.buttons |= backend.ButtonSouth // cross
	}
	if b0&0x40 != 0 {
		fr.buttons |= backend.ButtonEast // circle
	}
	if b0&0x80 != 0 {
		fr.buttons |= backend.ButtonNorth // triangle
	}
	if b1&0x01 != 0 {
		fr.buttons |= backend.ButtonLeftShoulder
	}
	if b1&0x02 != 0 {
		fr.buttons |= backend.ButtonRightShoulder
	}
	if b1&0x10 != 0 {
		fr.buttons |= backend.ButtonBack // create
	}
	if b1&0x20 != 0 {
		fr.buttons |= backend.ButtonStart // options
	}
	if b1&0x40 != 0 {
		fr.buttons |= backend.ButtonLeftStick
	}
	if b1&0x80 != 0 {
		fr.buttons |= backend.ButtonRightStick
	}
	if b2&0x01 != 0 {
		fr.buttons |= backend.ButtonGuide
	}
	if b2&0x02 != 0 {
		fr.buttons |= backend.ButtonTouchpad
	}
	if b2&0x04 != 0 {
		fr.buttons |= backend.ButtonMisc1 // mic mute
	}

	fr.gyro = backend.Vec3{
		X: float64(int16(binary.LittleEndian.Uint16(payload[15:]))) * gyroScale,
		Y: float64(int16(binary.LittleEndian.Uint16(payload[17:]))) * gyroScale,
		Z: float64(int16(binary.LittleEndian.Uint16(payload[19:]))) * gyroScale,
	}
	fr.accel = backend.Vec3{
		X: float64(int16(binary.LittleEndian.Uint16(payload[21:]))) * accelScale,
		Y: float64(int16(binary.LittleEndian.Uint16(payload[23:]))) * accelScale,
		Z: float64(int16(binary.LittleEndian.Uint16(payload[25:]))) * accelScale,
	}

	fr.touches[0] = parseTouch(payload[32:36])
	fr.touches[1] = parseTouch(payload[36:40])
	fr.power = parsePower(payload[52])
	return fr, nil
}

// parseTouch unpacks one 4-byte touch point: a contact byte (bit 7 set
// means lifted) and 12-bit x/y packed across three bytes.
func parseTouch(b []byte) touchPoint {
	x := int(b[1]) | int(b[2]&0x0f)<<8
	y := int(b[2]>>4) | int(b[3])<<4
	return touchPoint{
		active: b[0]&0x80 == 0,
		id:     b[0] & 0x7f,
		x:      float64(x) / touchMaxX,
		y:      float64(y) / touchMaxY,
	}
}

// parsePower decodes the battery byte: a 0-10 capacity in the low
// nibble and a charging status in bits 4-5 (1 charging, 2 full).
func parsePower(b byte) backend.PowerLevel {
	switch (b >> 4) & 0x03 {
	case 1, 2:
		return backend.PowerWired
	}
	capacity := int(b&0x0f) * 10
	switch {
	case capacity <= 5:
		return backend.PowerEmpty
	case capacity <= 20:
		return backend.PowerLow
	case capacity <= 70:
		return backend.PowerMedium
	default:
		return backend.PowerFull
	}
}

// Output report valid flags.
const (
	flag0Vibration     = 0x01
	flag0HapticsSelect = 0x02
	flag1Lightbar      = 0x04
	flag2Vibration2    = 0x04
)

// outCommonLen is the size of the output block shared by the USB and
// Bluetooth framings.
const outCommonLen = 47

// buildCommon serializes the shared output block. Valid flags gate what
// the controller applies, so rumble and lightbar writes do not clobber
// each other.
func buildCommon(rumble bool, low, high uint8, setLED bool, led backend.LEDColor) []byte {
	c := make([]byte, outCommonLen)
	if rumble {
		c[0] = flag0Vibration | flag0HapticsSelect
		c[2] = high // right, high-frequency motor
		c[3] = low  // left, low-frequency motor
		c[38] = flag2Vibration2
	}
	if setLED {
		c[1] = flag1Lightbar
		c[44] = led.R
		c[45] = led.G
		c[46] = led.B
	}
	return c
}

// wrapUSB frames an output block for a USB link.
func wrapUSB(common []byte) []byte {
	out := make([]byte, 0, 1+outCommonLen)
	out = append(out, dsOutputUSB)
	return append(out, common...)
}

// btOutputLen is the full Bluetooth output report size: id, sequence
// tag, tag byte, the common block, reserved padding, and a CRC.
const btOutputLen = 78

// wrapBT frames an output block for a Bluetooth link. The controller
// discards frames whose trailing CRC32 (seeded with an 0xA2 prefix
// byte) does not match.
func wrapBT(common []byte, seq uint8) []byte {
	out := make([]byte, btOutputLen)
	out[0] = dsOutputBT
	out[1] = seq << 4
	out[2] = 0x10
	copy(out[3:], common)

	crc := crc32.NewIEEE()
	crc.Write([]byte{0xA2})
	crc.Write(out[:btOutputLen-4])
	binary.LittleEndian.PutUint32(out[btOutputLen-4:], crc.Sum32())
	return out
}
