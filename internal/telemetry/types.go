package telemetry

import "time"

// Normalised metric names.
const (
	MetricTemperature = "temperature"
	MetricHumidity    = "humidity"
)

// Device-cloud property names renamed on ingestion.
var metricAliases = map[string]string{
	"dht22_temperatura": MetricTemperature,
	"dht22_humedad":     MetricHumidity,
}

// NoDataDisplayDate is the displayDate shown by the app when a device has
// never reported.
const NoDataDisplayDate = "No hay datos"

// ChartTimeLayout formats reading timestamps for the app's charts.
const ChartTimeLayout = "2006-01-02T15:04:05Z"

// Reading is one row of the sensor_readings table.
type Reading struct {
	ID        string
	DeviceID  string
	Timestamp time.Time
	Metric    string
	Value     float64
}

// LegacyReading is one row of the phase-1 readings table.
type LegacyReading struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	RelayState  *bool     `json:"relay_state"`
}

// Point is one chart sample.
type Point struct {
	Sensor    string  `json:"sensor"`
	Value     float64 `json:"value"`
	Timestamp string  `json:"timestamp"`
}

// Series is the list_sensor_readings payload.
type Series struct {
	DisplayDate string  `json:"displayDate"`
	Readings    []Point `json:"readings"`
}

// WebhookPayload is the body the device cloud posts to get_arduino_data.
type WebhookPayload struct {
	DeviceID       string         `json:"device_id"`
	ThingID        string         `json:"thing_id"`
	Timestamp      string         `json:"timestamp"`
	EventTimestamp string         `json:"event_timestamp"`
	Values         []WebhookValue `json:"values"`
}

// WebhookValue is one property sample in a webhook payload.
// Value is untyped: non-numeric values are skipped rather than rejected.
type WebhookValue struct {
	Name      string `json:"name"`
	Value     any    `json:"value"`
	UpdatedAt string `json:"updated_at"`
}

// Mirror receives a copy of every accepted reading.
type Mirror interface {
	WriteReading(deviceID, metric string, value float64, ts time.Time)
	WriteLegacyReading(temperature, humidity float64, relayState *bool, ts time.Time)
}
