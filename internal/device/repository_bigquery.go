package device

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/config"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/warehouse"
)

// BigQueryRepository implements Repository against the warehouse dataset.
type BigQueryRepository struct {
	wh      *warehouse.Client
	devices warehouse.TableRef
	crops   warehouse.TableRef
}

// NewBigQueryRepository creates a repository over the configured tables.
func NewBigQueryRepository(wh *warehouse.Client, tables config.TablesConfig) *BigQueryRepository {
	return &BigQueryRepository{
		wh:      wh,
		devices: wh.Table(tables.Devices),
		crops:   wh.Table(tables.Crops),
	}
}

type summaryRow struct {
	DeviceID   bigquery.NullString `bigquery:"device_id"`
	CropID     bigquery.NullString `bigquery:"crop_id"`
	DeviceName bigquery.NullString `bigquery:"device_name"`
	State      bigquery.NullBool   `bigquery:"state"`
}

func (row summaryRow) toSummary() Summary {
	s := Summary{
		ID:     row.DeviceID.StringVal,
		CropID: row.CropID.StringVal,
		Name:   DefaultName,
	}
	if row.DeviceName.Valid {
		s.Name = row.DeviceName.StringVal
	}
	if row.State.Valid {
		state := row.State.Bool
		s.State = &state
	}
	return s
}

type stateRow struct {
	State       bigquery.NullBool   `bigquery:"state"`
	ControlMode bigquery.NullString `bigquery:"control_mode"`
}

type thresholdRow struct {
	CriticalTempMin bigquery.NullFloat64 `bigquery:"critical_temp_min"`
}

func listByCropQuery(devices warehouse.TableRef) string {
	return fmt.Sprintf(`
		SELECT device_id, crop_id, device_name, state
		FROM %s
		WHERE crop_id = @crop_id
		ORDER BY device_name`, devices.Quoted())
}

func stateQuery(devices warehouse.TableRef) string {
	return fmt.Sprintf(`
		SELECT state, control_mode
		FROM %s
		WHERE device_id = @device_id
		LIMIT 1`, devices.Quoted())
}

func setControlModeStatement(devices warehouse.TableRef) string {
	return fmt.Sprintf(`
		UPDATE %s
		SET control_mode = @mode
		WHERE device_id = @device_id`, devices.Quoted())
}

func thresholdQuery(devices, crops warehouse.TableRef) string {
	return fmt.Sprintf(`
		SELECT c.critical_temp_min
		FROM %s AS d
		JOIN %s AS c ON d.crop_id = c.crop_id
		WHERE d.device_id = @device_id`, devices.Quoted(), crops.Quoted())
}

// ListByCrop returns the devices attached to cropID ordered by name.
func (r *BigQueryRepository) ListByCrop(ctx context.Context, cropID string) ([]Summary, error) {
	it, err := r.wh.Query(ctx, listByCropQuery(r.devices), []bigquery.QueryParameter{
		{Name: "crop_id", Value: cropID},
	})
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}

	devices := []Summary{}
	for {
		var row summaryRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading device row: %w", err)
		}
		devices = append(devices, row.toSummary())
	}
	return devices, nil
}

// GetState returns the relay state and control mode of a device.
func (r *BigQueryRepository) GetState(ctx context.Context, deviceID string) (*State, error) {
	it, err := r.wh.Query(ctx, stateQuery(r.devices), []bigquery.QueryParameter{
		{Name: "device_id", Value: deviceID},
	})
	if err != nil {
		return nil, fmt.Errorf("querying device state: %w", err)
	}

	var row stateRow
	err = it.Next(&row)
	if errors.Is(err, iterator.Done) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading device state: %w", err)
	}

	var relay *bool
	if row.State.Valid {
		relay = &row.State.Bool
	}
	var mode *string
	if row.ControlMode.Valid {
		mode = &row.ControlMode.StringVal
	}
	return stateWithDefaults(relay, mode), nil
}

// SetControlMode updates a device's control mode with a DML statement.
func (r *BigQueryRepository) SetControlMode(ctx context.Context, deviceID string, mode ControlMode) error {
	n, err := r.wh.Exec(ctx, setControlModeStatement(r.devices), []bigquery.QueryParameter{
		{Name: "mode", Value: string(mode)},
		{Name: "device_id", Value: deviceID},
	})
	if err != nil {
		return fmt.Errorf("updating control mode: %w", err)
	}
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// CriticalTempMin returns the critical minimum temperature of the device's crop.
func (r *BigQueryRepository) CriticalTempMin(ctx context.Context, deviceID string) (float64, error) {
	it, err := r.wh.Query(ctx, thresholdQuery(r.devices, r.crops), []bigquery.QueryParameter{
		{Name: "device_id", Value: deviceID},
	})
	if err != nil {
		return 0, fmt.Errorf("querying critical threshold: %w", err)
	}

	var row thresholdRow
	err = it.Next(&row)
	if errors.Is(err, iterator.Done) {
		return 0, ErrNoThreshold
	}
	if err != nil {
		return 0, fmt.Errorf("reading critical threshold: %w", err)
	}
	if !row.CriticalTempMin.Valid {
		return 0, ErrNoThreshold
	}
	return row.CriticalTempMin.Float64, nil
}
