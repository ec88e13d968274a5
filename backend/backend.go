package backend

// DeviceID identifies a physical device within a single backend run.
//
// An ID is assigned when the device first appears in ListDevices, stays
// stable while the device remains connected, and is never reassigned to a
// different physical device for the lifetime of the backend.
type DeviceID uint32

// DeviceInfo describes one connected device at enumeration time.
type DeviceInfo struct {
	ID      DeviceID     // Backend-assigned stable identifier
	Name    string       // Human-readable product name
	Vendor  uint16       // USB vendor ID, zero if unknown
	Product uint16       // USB product ID, zero if unknown
	Caps    Capabilities // Capability set, fixed for the connection
}

// Capabilities describes what a device can do. Determined once at connect
// time and never changed for the lifetime of the connection.
type Capabilities struct {
	LED           bool         // Device has a controllable light
	Rumble        bool         // Device has body rumble motors
	TriggerRumble bool         // Device has independent trigger motors
	Sensors       []SensorKind // Motion sensor kinds the device exposes
	Touchpads     int          // Number of touch surfaces
	Fingers       int          // Maximum concurrent touches per surface
}

// HasSensor reports whether the capability set includes the given sensor.
func (c Capabilities) HasSensor(kind SensorKind) bool {
	for _, k := range c.Sensors {
		if k == kind {
			return true
		}
	}
	return false
}

// Backend is the platform contract the registry polls against.
//
// Implementations translate one hardware access method (evdev, raw HID,
// a test script) into the device list / report / output model. The
// registry calls every method from a single goroutine; implementations
// that watch the OS from background goroutines must hand results over
// through internal buffers so the contract calls stay non-blocking.
type Backend interface {
	// Open prepares the backend for polling. It is called once before
	// any other method.
	Open() error

	// Close releases all resources. After Close returns, the backend
	// must not be used.
	Close() error

	// ListDevices returns the currently attached devices. A device
	// missing from the slice has been removed; there is no separate
	// removal signal.
	ListDevices() ([]DeviceInfo, error)

	// PollReports returns the input reports that arrived since the last
	// call, oldest first. It never blocks; an empty slice means nothing
	// new happened.
	PollReports() ([]Report, error)

	// SendOutput delivers a fire-and-forget command to one device.
	// Sending to a just-removed device returns an error wrapping
	// [pkg.ErrDeviceNotFound]; it must never block or panic.
	SendOutput(id DeviceID, cmd OutputCommand) error
}
