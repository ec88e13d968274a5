package pkg

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	// Verify all sentinel errors are distinct
	errs := []error{
		ErrUnsupportedCapability,
		ErrDeviceNotFound,
		ErrBackendFailure,
		ErrInitializationFailure,
		ErrSensorDisabled,
		ErrInvalidArgument,
		ErrClosed,
		ErrMalformedReport,
		ErrUnknownCommand,
	}

	for i, err1 := range errs {
		if err1 == nil {
			t.Errorf("error %d is nil", i)
			continue
		}
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("error %d and %d are equal", i, j)
			}
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err     error
		wantMsg string
	}{
		{ErrUnsupportedCapability, "capability not supported"},
		{ErrDeviceNotFound, "device not found"},
		{ErrBackendFailure, "backend failure"},
		{ErrInitializationFailure, "initialization failed"},
		{ErrSensorDisabled, "sensor not enabled"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("error.Error() = %v, want %v", got, tt.wantMsg)
			}
		})
	}
}

func TestSentinelWrapping(t *testing.T) {
	wrapped := fmt.Errorf("poll reports: %w", ErrBackendFailure)
	if !errors.Is(wrapped, ErrBackendFailure) {
		t.Errorf("errors.Is(%v, ErrBackendFailure) = false, want true", wrapped)
	}
	if errors.Is(wrapped, ErrDeviceNotFound) {
		t.Errorf("errors.Is(%v, ErrDeviceNotFound) = true, want false", wrapped)
	}
}
