package api

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/config"
	"github.com/DiegoFarias19/GrowingAPP/internal/telemetry"
)

func TestInsertSensorReadings_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/insert-sensor-readings",
		`{"temperature":24.5,"humidity":61,"relay_state":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeMap(t, rec)
	assert.Equal(t, "success", body["status"])
	results := body["device_cloud_results"].(map[string]any)
	assert.Len(t, results, 3)

	got := map[string]any{}
	for _, c := range env.cloud.published() {
		got[c.property] = c.value
	}
	assert.Equal(t, map[string]any{
		"dht22_temperatura": 24.5,
		"dht22_humedad":     61.0,
		"relay_Control":     true,
	}, got)

	var (
		ts        string
		temp, hum float64
		relay     sql.NullBool
	)
	require.NoError(t, env.db.QueryRowContext(context.Background(),
		`SELECT timestamp, temperature, humidity, relay_state FROM legacy_readings`).Scan(&ts, &temp, &hum, &relay))
	assert.Equal(t, "2026-03-15T15:30:00.000000Z", ts)
	assert.Equal(t, 24.5, temp)
	assert.Equal(t, 61.0, hum)
	assert.True(t, relay.Valid && relay.Bool)
	assert.Equal(t, 1, env.mirror.legacy)
}

func TestInsertSensorReadings_NonBoolRelayIgnored(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/insert-sensor-readings",
		`{"temperature":20,"humidity":50,"relay_state":"on"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, env.cloud.published(), 2)

	var relay sql.NullBool
	require.NoError(t, env.db.QueryRowContext(context.Background(),
		`SELECT relay_state FROM legacy_readings`).Scan(&relay))
	assert.False(t, relay.Valid)
}

func TestInsertSensorReadings_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"invalid json", `{"temperature":`},
		{"missing humidity", `{"temperature":20}`},
		{"null temperature", `{"temperature":null,"humidity":50}`},
		{"string temperature", `{"temperature":"20","humidity":50}`},
		{"bool humidity", `{"temperature":20,"humidity":true}`},
		{"bool temperature", `{"temperature":true,"humidity":50}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/v1/insert-sensor-readings", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, env.cloud.published())
}

func TestInsertSensorReadings_PartialFailure(t *testing.T) {
	t.Run("publish rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.cloud.fail["dht22_humedad"] = http.StatusBadGateway

		rec := env.do(http.MethodPost, "/api/v1/insert-sensor-readings", `{"temperature":20,"humidity":50}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code, rec.Body.String())

		body := decodeMap(t, rec)
		results := body["device_cloud_results"].(map[string]any)
		assert.Equal(t, "success", results["dht22_temperatura"].(map[string]any)["status"])
		assert.Equal(t, "error", results["dht22_humedad"].(map[string]any)["status"])
		assert.Nil(t, body["warehouse_errors"])

		// The row is still stored.
		var n int
		require.NoError(t, env.db.QueryRowContext(context.Background(),
			`SELECT COUNT(*) FROM legacy_readings`).Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("insert failed", func(t *testing.T) {
		env := newTestEnv(t)
		env.exec(t, `DROP TABLE legacy_readings`)

		rec := env.do(http.MethodPost, "/api/v1/insert-sensor-readings", `{"temperature":20,"humidity":50}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code, rec.Body.String())

		body := decodeMap(t, rec)
		errs := body["warehouse_errors"].([]any)
		assert.Len(t, errs, 1)
		assert.Len(t, env.cloud.published(), 2)
		assert.Zero(t, env.mirror.legacy)
	})
}

func TestInsertSensorReadings_NotConfigured(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) {
		c.DeviceCloud.ThingID = ""
	})

	rec := env.do(http.MethodPost, "/api/v1/insert-sensor-readings", `{"temperature":20,"humidity":50}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "server configuration incomplete", decodeMap(t, rec)["error"])
}

func TestListLegacyReadings(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/list-legacy-sensor-readings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, "Retrieved 0 records.", body["message"])
	assert.Equal(t, []any{}, body["data"])

	env.exec(t, `INSERT INTO legacy_readings (timestamp, temperature, humidity, relay_state) VALUES
		('2026-03-01T10:00:00.000000Z', 20.0, 55.0, NULL),
		('2026-03-02T10:00:00.000000Z', 22.5, 50.0, 1)`)

	rec = env.do(http.MethodGet, "/api/v1/list-legacy-sensor-readings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeMap(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Retrieved 2 records.", body["message"])

	data := body["data"].([]any)
	require.Len(t, data, 2)
	newest := data[0].(map[string]any)
	assert.Equal(t, "2026-03-02T10:00:00Z", newest["timestamp"])
	assert.Equal(t, 22.5, newest["temperature"])
	assert.Equal(t, true, newest["relay_state"])
	assert.Nil(t, data[1].(map[string]any)["relay_state"])
}

func TestGetArduinoData(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/get-arduino-data", `{
		"thing_id": "thing-9",
		"values": [
			{"name": "dht22_temperatura", "value": 23.46, "updated_at": "2026-03-15T12:00:00Z"},
			{"name": "dht22_humedad", "value": 58.04},
			{"name": "relay_Control", "value": true},
			{"value": 1.0}
		]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeMap(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, 2.0, body["inserted"])
	assert.Equal(t, 2.0, body["skipped"])

	rows, err := env.db.QueryContext(context.Background(),
		`SELECT device_id, timestamp, metric_type, value FROM sensor_readings ORDER BY metric_type`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		device, ts, metric string
		value              float64
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.device, &r.ts, &r.metric, &r.value))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []row{
		{"thing-9", "2026-03-15T15:30:00.000000Z", telemetry.MetricHumidity, 58.0},
		{"thing-9", "2026-03-15T12:00:00.000000Z", telemetry.MetricTemperature, 23.5},
	}, got)
	assert.Len(t, env.mirror.readings, 2)
}

func TestGetArduinoData_DeviceFallback(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/get-arduino-data",
		`{"values":[{"name":"dht22_temperatura","value":20}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var deviceID string
	require.NoError(t, env.db.QueryRowContext(context.Background(),
		`SELECT device_id FROM sensor_readings`).Scan(&deviceID))
	assert.Equal(t, "thing-1", deviceID)
}

func TestGetArduinoData_Rejections(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantState  string
	}{
		{"empty body", ``, http.StatusBadRequest, "error"},
		{"no values key", `{"device_id":"d1"}`, http.StatusBadRequest, "error"},
		{"values not an array", `{"values":"x"}`, http.StatusBadRequest, "error"},
		{"only invalid items", `{"values":[{"name":"x","value":"hot"},{"value":3}]}`, http.StatusOK, "warning"},
		{"empty values", `{"values":[]}`, http.StatusOK, "warning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/v1/get-arduino-data", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantState, decodeMap(t, rec)["status"])
		})
	}

	var n int
	require.NoError(t, env.db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM sensor_readings`).Scan(&n))
	assert.Zero(t, n)
	assert.Empty(t, env.mirror.readings)
}

func TestGetArduinoData_WarehouseFailure(t *testing.T) {
	env := newTestEnv(t)
	env.exec(t, `DROP TABLE sensor_readings`)

	rec := env.do(http.MethodPost, "/api/v1/get-arduino-data",
		`{"values":[{"name":"dht22_temperatura","value":20}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeMap(t, rec)
	assert.NotEmpty(t, body["warehouse_errors"])
	assert.Empty(t, env.mirror.readings)
}

func TestListSensorReadings(t *testing.T) {
	env := newTestEnv(t)
	env.exec(t, `INSERT INTO sensor_readings (sensor_reading_id, device_id, timestamp, metric_type, value) VALUES
		('r1', 'd1', '2026-03-14T02:30:00.000000Z', 'temperature', 18.0),
		('r2', 'd1', '2026-03-14T12:00:00.000000Z', 'Humidity', 60.0),
		('r3', 'd1', '2026-03-14T12:00:00.000000Z', 'pressure', 1000.0),
		('r4', 'd1', '2026-03-15T02:59:59.000000Z', 'temperature', 21.0),
		('r5', 'd1', '2026-03-15T03:00:00.000000Z', 'temperature', 22.0)`)

	t.Run("calendar day in Santiago", func(t *testing.T) {
		// 2026-03-14 in America/Santiago (UTC-3) is 03:00Z on the 14th to 02:59:59Z on the 15th.
		rec := env.do(http.MethodGet, "/api/v1/list-sensor-readings?id=d1&date=2026-03-14", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeMap(t, rec)
		assert.Equal(t, "2026-03-14", body["displayDate"])
		readings := body["readings"].([]any)
		require.Len(t, readings, 2)
		assert.Equal(t, map[string]any{"sensor": "humidity", "value": 60.0, "timestamp": "2026-03-14T12:00:00Z"}, readings[0])
		assert.Equal(t, map[string]any{"sensor": "temperature", "value": 21.0, "timestamp": "2026-03-15T02:59:59Z"}, readings[1])
	})

	t.Run("latest 24 hours", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/list-sensor-readings?id=d1", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeMap(t, rec)
		assert.Equal(t, "2026-03-15", body["displayDate"])
		readings := body["readings"].([]any)
		require.Len(t, readings, 3)
		assert.Equal(t, "2026-03-15T03:00:00Z", readings[2].(map[string]any)["timestamp"])
	})

	t.Run("no data", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/list-sensor-readings?id=unknown", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"displayDate":"No hay datos","readings":[]}`, rec.Body.String())
	})

	t.Run("invalid date", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/list-sensor-readings?id=d1&date=14-03-2026", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing id", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/v1/list-sensor-readings", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
