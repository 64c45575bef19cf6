package farm

import "errors"

// Domain errors for the farm package.
var (
	// ErrInvalidFarm is returned when a create request fails validation.
	ErrInvalidFarm = errors.New("farm: invalid")

	// ErrInvalidName is returned when farm_name is missing, not a string, or blank.
	ErrInvalidName = errors.New("farm: invalid name")

	// ErrMissingOwner is returned when no user uid is supplied.
	ErrMissingOwner = errors.New("farm: missing user uid")
)
