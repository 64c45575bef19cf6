package telemetry

import (
	"context"
	"time"
)

// Repository defines sensor reading persistence.
type Repository interface {
	// InsertReadings writes a batch of sensor_readings rows.
	InsertReadings(ctx context.Context, readings []Reading) error

	// LatestTemperature returns the most recent temperature row across all
	// devices. Returns ErrNoReadings when the table has none.
	LatestTemperature(ctx context.Context) (*Reading, error)

	// LatestTimestamp returns the time of the device's most recent
	// temperature or humidity reading. Returns ErrNoReadings when none.
	LatestTimestamp(ctx context.Context, deviceID string) (time.Time, error)

	// ReadingsBetween returns the device's temperature and humidity rows with
	// from <= timestamp <= to, oldest first. Metric names are lower-cased.
	ReadingsBetween(ctx context.Context, deviceID string, from, to time.Time) ([]Reading, error)

	// InsertLegacy writes one phase-1 row.
	InsertLegacy(ctx context.Context, r *LegacyReading) error

	// ListLegacy returns up to limit phase-1 rows, newest first.
	ListLegacy(ctx context.Context, limit int) ([]LegacyReading, error)
}
