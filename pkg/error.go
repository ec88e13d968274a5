package pkg

import "errors"

// Gamepad registry errors.
var (
	// ErrUnsupportedCapability indicates an output operation against a capability the device lacks.
	ErrUnsupportedCapability = errors.New("capability not supported")

	// ErrDeviceNotFound indicates the device is not present.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrBackendFailure indicates a backend I/O failure.
	ErrBackendFailure = errors.New("backend failure")

	// ErrInitializationFailure indicates the backend could not be initialized.
	ErrInitializationFailure = errors.New("initialization failed")

	// ErrSensorDisabled indicates the sensor is supported but has not been enabled.
	ErrSensorDisabled = errors.New("sensor not enabled")

	// ErrInvalidArgument indicates an invalid parameter was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrClosed indicates the registry or backend has already been closed.
	ErrClosed = errors.New("already closed")

	// ErrMalformedReport indicates an input report that could not be decoded.
	ErrMalformedReport = errors.New("malformed report")

	// ErrUnknownCommand indicates an output command the backend does not recognize.
	ErrUnknownCommand = errors.New("unknown output command")
)
