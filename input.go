package girl

import "github.com/zohnannor/girl/backend"

// Re-exported input vocabulary. The shared types live in [backend] so
// that backend implementations can use them without importing the
// registry; applications normally touch only these names.
type (
	// Button is a bitset of gamepad buttons.
	Button = backend.Button

	// Side selects the left or right member of a paired control.
	Side = backend.Side

	// SensorKind identifies a motion sensor on a device.
	SensorKind = backend.SensorKind

	// PowerLevel represents the reported battery state of a device.
	PowerLevel = backend.PowerLevel

	// Vec2 is a two-component sample, used for stick positions.
	Vec2 = backend.Vec2

	// Vec3 is a three-component sample, used for sensor readings.
	Vec3 = backend.Vec3

	// LEDColor is an RGB color for devices with a controllable light.
	LEDColor = backend.LEDColor
)

// Button bits.
const (
	ButtonSouth         = backend.ButtonSouth
	ButtonEast          = backend.ButtonEast
	ButtonWest          = backend.ButtonWest
	ButtonNorth         = backend.ButtonNorth
	ButtonBack          = backend.ButtonBack
	ButtonGuide         = backend.ButtonGuide
	ButtonStart         = backend.ButtonStart
	ButtonLeftStick     = backend.ButtonLeftStick
	ButtonRightStick    = backend.ButtonRightStick
	ButtonLeftShoulder  = backend.ButtonLeftShoulder
	ButtonRightShoulder = backend.ButtonRightShoulder
	ButtonDPadUp        = backend.ButtonDPadUp
	ButtonDPadDown      = backend.ButtonDPadDown
	ButtonDPadLeft      = backend.ButtonDPadLeft
	ButtonDPadRight     = backend.ButtonDPadRight
	ButtonMisc1         = backend.ButtonMisc1
	ButtonPaddle1       = backend.ButtonPaddle1
	ButtonPaddle2       = backend.ButtonPaddle2
	ButtonPaddle3       = backend.ButtonPaddle3
	ButtonPaddle4       = backend.ButtonPaddle4
	ButtonTouchpad      = backend.ButtonTouchpad
)

// Xbox-layout aliases for the face buttons.
const (
	ButtonA = backend.ButtonA
	ButtonB = backend.ButtonB
	ButtonX = backend.ButtonX
	ButtonY = backend.ButtonY
)

// Side values.
const (
	SideLeft  = backend.SideLeft
	SideRight = backend.SideRight
)

// Sensor kinds.
const (
	SensorUnknown            = backend.SensorUnknown
	SensorGyroscope          = backend.SensorGyroscope
	SensorLeftGyroscope      = backend.SensorLeftGyroscope
	SensorRightGyroscope     = backend.SensorRightGyroscope
	SensorAccelerometer      = backend.SensorAccelerometer
	SensorLeftAccelerometer  = backend.SensorLeftAccelerometer
	SensorRightAccelerometer = backend.SensorRightAccelerometer
)

// NumSensorKinds is the number of defined sensor kinds.
const NumSensorKinds = backend.NumSensorKinds

// Power levels.
const (
	PowerUnknown = backend.PowerUnknown
	PowerEmpty   = backend.PowerEmpty
	PowerLow     = backend.PowerLow
	PowerMedium  = backend.PowerMedium
	PowerFull    = backend.PowerFull
	PowerWired   = backend.PowerWired
)

// DefaultStickDeadzone is the stick dead zone applied when no option
// overrides it. Axis samples with a magnitude below the dead zone read
// as zero.
const DefaultStickDeadzone = 0.1
