package backend

// SensorSample is one motion sensor reading inside a report.
type SensorSample struct {
	Kind SensorKind // Which sensor produced the sample
	Data Vec3       // Angular velocity (gyro) or acceleration (accel)
}

// TouchReport describes the state of one finger on one touch surface.
// A finger lifting must be reported once with Active false.
type TouchReport struct {
	Pad      int     // Touch surface index, 0-based
	Finger   int     // Finger slot on the surface, 0-based
	Active   bool    // Finger is currently down
	X        float64 // Position in [0,1], left to right
	Y        float64 // Position in [0,1], top to bottom
	Pressure float64 // Contact pressure in [0,1]
}

// Report is one input snapshot for one device.
//
// Buttons, Sticks, and Triggers carry the complete current state; the
// consumer replaces, never merges. Sensors and Touches carry only what
// changed since the previous report. Axis values are scaled by the
// backend (see [Normalize]) but not clamped; the consumer clamps.
type Report struct {
	Device   DeviceID       // Which device this snapshot belongs to
	Buttons  Button         // All buttons currently held
	Sticks   [2]Vec2        // Indexed by Side, nominally [-1,1]
	Triggers [2]float64     // Indexed by Side, nominally [0,1]
	Sensors  []SensorSample // Fresh sensor samples, may be nil
	Touches  []TouchReport  // Touch transitions, may be nil
	Power    PowerLevel     // Battery state as of this report
}
