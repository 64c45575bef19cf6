package device

import "errors"

// Domain errors for the device package.
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // 404
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrInvalidControlMode is returned for modes other than AUTOMATICO and MANUAL.
	ErrInvalidControlMode = errors.New("device: invalid control mode")

	// ErrNoThreshold is returned when the device has no crop or the crop
	// has no critical_temp_min.
	ErrNoThreshold = errors.New("device: no critical threshold")
)
