package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ListByCrop returns the devices attached to cropID ordered by name.
func (r *SQLiteRepository) ListByCrop(ctx context.Context, cropID string) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT device_id, crop_id, device_name, state
		FROM devices
		WHERE crop_id = ?
		ORDER BY device_name`, cropID)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	devices := []Summary{}
	for rows.Next() {
		var (
			d     Summary
			name  sql.NullString
			state sql.NullBool
		)
		if err := rows.Scan(&d.ID, &d.CropID, &name, &state); err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		d.Name = DefaultName
		if name.Valid {
			d.Name = name.String
		}
		if state.Valid {
			d.State = &state.Bool
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// GetState returns the relay state and control mode of a device.
func (r *SQLiteRepository) GetState(ctx context.Context, deviceID string) (*State, error) {
	var (
		state sql.NullBool
		mode  sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT state, control_mode FROM devices WHERE device_id = ? LIMIT 1`, deviceID,
	).Scan(&state, &mode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying device state: %w", err)
	}

	var relay *bool
	if state.Valid {
		relay = &state.Bool
	}
	var m *string
	if mode.Valid {
		m = &mode.String
	}
	return stateWithDefaults(relay, m), nil
}

// SetControlMode updates a device's control mode.
func (r *SQLiteRepository) SetControlMode(ctx context.Context, deviceID string, mode ControlMode) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE devices SET control_mode = ? WHERE device_id = ?`, string(mode), deviceID)
	if err != nil {
		return fmt.Errorf("updating control mode: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// CriticalTempMin returns the critical minimum temperature of the device's crop.
func (r *SQLiteRepository) CriticalTempMin(ctx context.Context, deviceID string) (float64, error) {
	var threshold sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT c.critical_temp_min
		FROM devices d
		JOIN crops c ON d.crop_id = c.crop_id
		WHERE d.device_id = ?`, deviceID,
	).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoThreshold
	}
	if err != nil {
		return 0, fmt.Errorf("querying critical threshold: %w", err)
	}
	if !threshold.Valid {
		return 0, ErrNoThreshold
	}
	return threshold.Float64, nil
}
