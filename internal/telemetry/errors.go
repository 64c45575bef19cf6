package telemetry

import "errors"

// Domain errors for the telemetry package.
var (
	// ErrNoReadings is returned when a query that expects a reading finds none.
	ErrNoReadings = errors.New("telemetry: no readings")

	// ErrInvalidDate is returned when a chart date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("telemetry: invalid date")

	// ErrMissingValues is returned when a webhook payload has no values array.
	ErrMissingValues = errors.New("telemetry: payload has no values array")
)
