package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/config"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/warehouse"
)

// BigQueryRepository implements Repository against the warehouse dataset.
type BigQueryRepository struct {
	wh       *warehouse.Client
	readings warehouse.TableRef
	legacy   warehouse.TableRef
}

// NewBigQueryRepository creates a repository over the configured tables.
// The legacy table lives in the legacy dataset.
func NewBigQueryRepository(wh *warehouse.Client, tables config.TablesConfig) *BigQueryRepository {
	return &BigQueryRepository{
		wh:       wh,
		readings: wh.Table(tables.SensorReadings),
		legacy:   wh.LegacyTable(tables.LegacyReadings),
	}
}

type readingRow struct {
	SensorReadingID string    `bigquery:"sensor_reading_id"`
	DeviceID        string    `bigquery:"device_id"`
	Timestamp       time.Time `bigquery:"timestamp"`
	MetricType      string    `bigquery:"metric_type"`
	Value           float64   `bigquery:"value"`
}

type latestRow struct {
	MaxTS bigquery.NullTimestamp `bigquery:"max_ts"`
}

type legacyRow struct {
	Timestamp   time.Time         `bigquery:"timestamp"`
	Temperature float64           `bigquery:"temperature"`
	Humidity    float64           `bigquery:"humidity"`
	RelayState  bigquery.NullBool `bigquery:"relay_state"`
}

func latestTemperatureQuery(t warehouse.TableRef) string {
	return fmt.Sprintf(`
		SELECT device_id, timestamp, metric_type, value
		FROM %s
		WHERE metric_type = '%s'
		ORDER BY timestamp DESC
		LIMIT 1`, t.Quoted(), MetricTemperature)
}

func latestTimestampQuery(t warehouse.TableRef) string {
	return fmt.Sprintf(`
		SELECT MAX(timestamp) AS max_ts
		FROM %s
		WHERE device_id = @device_id AND LOWER(metric_type) IN ('%s', '%s')`,
		t.Quoted(), MetricTemperature, MetricHumidity)
}

func readingsBetweenQuery(t warehouse.TableRef) string {
	return fmt.Sprintf(`
		SELECT device_id, timestamp, LOWER(metric_type) AS metric_type, value
		FROM %s
		WHERE device_id = @device_id
			AND timestamp BETWEEN @start_timestamp AND @end_timestamp
			AND LOWER(metric_type) IN ('%s', '%s')
		ORDER BY timestamp ASC`, t.Quoted(), MetricTemperature, MetricHumidity)
}

func listLegacyQuery(t warehouse.TableRef) string {
	return fmt.Sprintf(`
		SELECT timestamp, temperature, humidity, relay_state
		FROM %s
		ORDER BY timestamp DESC
		LIMIT @limit`, t.Quoted())
}

// InsertReadings streams the batch into sensor_readings.
// Per-row failures surface as bigquery.PutMultiError.
func (r *BigQueryRepository) InsertReadings(ctx context.Context, readings []Reading) error {
	rows := make([]*readingRow, 0, len(readings))
	for _, rd := range readings {
		rows = append(rows, &readingRow{
			SensorReadingID: rd.ID,
			DeviceID:        rd.DeviceID,
			Timestamp:       rd.Timestamp,
			MetricType:      rd.Metric,
			Value:           rd.Value,
		})
	}
	return r.wh.Insert(ctx, r.readings, rows)
}

// LatestTemperature returns the most recent temperature row.
func (r *BigQueryRepository) LatestTemperature(ctx context.Context) (*Reading, error) {
	it, err := r.wh.Query(ctx, latestTemperatureQuery(r.readings), nil)
	if err != nil {
		return nil, fmt.Errorf("querying latest temperature: %w", err)
	}

	var row readingRow
	err = it.Next(&row)
	if errors.Is(err, iterator.Done) {
		return nil, ErrNoReadings
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest temperature: %w", err)
	}
	return row.toReading(), nil
}

// LatestTimestamp returns the time of the device's most recent chartable reading.
func (r *BigQueryRepository) LatestTimestamp(ctx context.Context, deviceID string) (time.Time, error) {
	it, err := r.wh.Query(ctx, latestTimestampQuery(r.readings), []bigquery.QueryParameter{
		{Name: "device_id", Value: deviceID},
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("querying latest timestamp: %w", err)
	}

	var row latestRow
	err = it.Next(&row)
	if errors.Is(err, iterator.Done) || (err == nil && !row.MaxTS.Valid) {
		return time.Time{}, ErrNoReadings
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading latest timestamp: %w", err)
	}
	return row.MaxTS.Timestamp, nil
}

// ReadingsBetween returns the device's chartable rows in [from, to], oldest first.
func (r *BigQueryRepository) ReadingsBetween(ctx context.Context, deviceID string, from, to time.Time) ([]Reading, error) {
	it, err := r.wh.Query(ctx, readingsBetweenQuery(r.readings), []bigquery.QueryParameter{
		{Name: "device_id", Value: deviceID},
		{Name: "start_timestamp", Value: from},
		{Name: "end_timestamp", Value: to},
	})
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}

	readings := []Reading{}
	for {
		var row readingRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		readings = append(readings, *row.toReading())
	}
	return readings, nil
}

// InsertLegacy streams one phase-1 row.
func (r *BigQueryRepository) InsertLegacy(ctx context.Context, lr *LegacyReading) error {
	row := &legacyRow{
		Timestamp:   lr.Timestamp,
		Temperature: lr.Temperature,
		Humidity:    lr.Humidity,
	}
	if lr.RelayState != nil {
		row.RelayState = bigquery.NullBool{Bool: *lr.RelayState, Valid: true}
	}
	return r.wh.Insert(ctx, r.legacy, []*legacyRow{row})
}

// ListLegacy returns up to limit phase-1 rows, newest first.
func (r *BigQueryRepository) ListLegacy(ctx context.Context, limit int) ([]LegacyReading, error) {
	it, err := r.wh.Query(ctx, listLegacyQuery(r.legacy), []bigquery.QueryParameter{
		{Name: "limit", Value: limit},
	})
	if err != nil {
		return nil, fmt.Errorf("querying legacy readings: %w", err)
	}

	readings := []LegacyReading{}
	for {
		var row legacyRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading legacy row: %w", err)
		}
		readings = append(readings, row.toLegacy())
	}
	return readings, nil
}

func (row readingRow) toReading() *Reading {
	return &Reading{
		ID:        row.SensorReadingID,
		DeviceID:  row.DeviceID,
		Timestamp: row.Timestamp,
		Metric:    row.MetricType,
		Value:     row.Value,
	}
}

func (row legacyRow) toLegacy() LegacyReading {
	lr := LegacyReading{
		Timestamp:   row.Timestamp,
		Temperature: row.Temperature,
		Humidity:    row.Humidity,
	}
	if row.RelayState.Valid {
		relay := row.RelayState.Bool
		lr.RelayState = &relay
	}
	return lr
}
