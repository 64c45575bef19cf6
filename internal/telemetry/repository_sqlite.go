package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// sqliteTimeLayout is fixed-width UTC so text comparison orders correctly.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z"

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// InsertReadings writes the batch in one transaction.
func (r *SQLiteRepository) InsertReadings(ctx context.Context, readings []Reading) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sensor_readings (sensor_reading_id, device_id, timestamp, metric_type, value)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rd := range readings {
		if _, err := stmt.ExecContext(ctx, rd.ID, rd.DeviceID, formatSQLiteTime(rd.Timestamp), rd.Metric, rd.Value); err != nil {
			return fmt.Errorf("inserting reading %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing readings: %w", err)
	}
	return nil
}

// LatestTemperature returns the most recent temperature row.
func (r *SQLiteRepository) LatestTemperature(ctx context.Context) (*Reading, error) {
	var (
		rd Reading
		ts string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT sensor_reading_id, device_id, timestamp, metric_type, value
		FROM sensor_readings
		WHERE metric_type = ?
		ORDER BY timestamp DESC
		LIMIT 1`, MetricTemperature,
	).Scan(&rd.ID, &rd.DeviceID, &ts, &rd.Metric, &rd.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoReadings
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest temperature: %w", err)
	}

	if rd.Timestamp, err = parseSQLiteTime(ts); err != nil {
		return nil, err
	}
	return &rd, nil
}

// LatestTimestamp returns the time of the device's most recent chartable reading.
func (r *SQLiteRepository) LatestTimestamp(ctx context.Context, deviceID string) (time.Time, error) {
	var ts sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(timestamp)
		FROM sensor_readings
		WHERE device_id = ? AND LOWER(metric_type) IN (?, ?)`,
		deviceID, MetricTemperature, MetricHumidity,
	).Scan(&ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("querying latest timestamp: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, ErrNoReadings
	}
	return parseSQLiteTime(ts.String)
}

// ReadingsBetween returns the device's chartable rows in [from, to], oldest first.
func (r *SQLiteRepository) ReadingsBetween(ctx context.Context, deviceID string, from, to time.Time) ([]Reading, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sensor_reading_id, device_id, timestamp, LOWER(metric_type), value
		FROM sensor_readings
		WHERE device_id = ?
			AND timestamp BETWEEN ? AND ?
			AND LOWER(metric_type) IN (?, ?)
		ORDER BY timestamp ASC`,
		deviceID, formatSQLiteTime(from), formatSQLiteTime(to), MetricTemperature, MetricHumidity,
	)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	readings := []Reading{}
	for rows.Next() {
		var (
			rd Reading
			ts string
		)
		if err := rows.Scan(&rd.ID, &rd.DeviceID, &ts, &rd.Metric, &rd.Value); err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}
		if rd.Timestamp, err = parseSQLiteTime(ts); err != nil {
			return nil, err
		}
		readings = append(readings, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating readings: %w", err)
	}
	return readings, nil
}

// InsertLegacy writes one phase-1 row.
func (r *SQLiteRepository) InsertLegacy(ctx context.Context, lr *LegacyReading) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO legacy_readings (timestamp, temperature, humidity, relay_state)
		VALUES (?, ?, ?, ?)`,
		formatSQLiteTime(lr.Timestamp), lr.Temperature, lr.Humidity, lr.RelayState,
	)
	if err != nil {
		return fmt.Errorf("inserting legacy reading: %w", err)
	}
	return nil
}

// ListLegacy returns up to limit phase-1 rows, newest first.
func (r *SQLiteRepository) ListLegacy(ctx context.Context, limit int) ([]LegacyReading, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT timestamp, temperature, humidity, relay_state
		FROM legacy_readings
		ORDER BY timestamp DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying legacy readings: %w", err)
	}
	defer rows.Close()

	readings := []LegacyReading{}
	for rows.Next() {
		var (
			lr    LegacyReading
			ts    string
			relay sql.NullBool
		)
		if err := rows.Scan(&ts, &lr.Temperature, &lr.Humidity, &relay); err != nil {
			return nil, fmt.Errorf("scanning legacy reading: %w", err)
		}
		if lr.Timestamp, err = parseSQLiteTime(ts); err != nil {
			return nil, err
		}
		if relay.Valid {
			lr.RelayState = &relay.Bool
		}
		readings = append(readings, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating legacy readings: %w", err)
	}
	return readings, nil
}
