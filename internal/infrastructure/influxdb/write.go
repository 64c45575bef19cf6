package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	measurementSensorReadings = "sensor_readings"
	measurementLegacyReadings = "legacy_readings"
)

// WriteReading mirrors one normalised sensor reading.
//
// Example:
//
//	client.WriteReading("thing-01", "temperature", 21.5, ts)
func (c *Client) WriteReading(deviceID, metric string, value float64, ts time.Time) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(
		measurementSensorReadings,
		map[string]string{
			"device_id": deviceID,
			"metric":    metric,
		},
		map[string]any{
			"value": value,
		},
		ts,
	))
}

// WriteLegacyReading mirrors one phase-1 row. relayState is omitted when nil.
func (c *Client) WriteLegacyReading(temperature, humidity float64, relayState *bool, ts time.Time) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]any{
		"temperature": temperature,
		"humidity":    humidity,
	}
	if relayState != nil {
		fields["relay_state"] = *relayState
	}

	c.writeAPI.WritePoint(write.NewPoint(measurementLegacyReadings, nil, fields, ts))
}
