package device

import "context"

// Repository defines device persistence operations.
type Repository interface {
	// ListByCrop returns the devices attached to cropID ordered by name.
	ListByCrop(ctx context.Context, cropID string) ([]Summary, error)

	// GetState returns the relay state and control mode of a device.
	// Returns ErrDeviceNotFound if the device does not exist.
	GetState(ctx context.Context, deviceID string) (*State, error)

	// SetControlMode updates a device's control mode.
	// Returns ErrDeviceNotFound when no row was updated.
	SetControlMode(ctx context.Context, deviceID string, mode ControlMode) error

	// CriticalTempMin returns the critical minimum temperature of the
	// device's crop. Returns ErrNoThreshold when none is defined.
	CriticalTempMin(ctx context.Context, deviceID string) (float64, error)
}
