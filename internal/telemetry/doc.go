// Package telemetry stores and queries sensor readings.
//
// Two tables are involved:
//   - sensor_readings: one row per metric sample (temperature, humidity, ...)
//     written by the device-cloud webhook and read by the app's charts and
//     by the temperature controller
//   - the phase-1 legacy table: one wide row per sample
//     (temperature, humidity, relay_state) written by insert_sensor_readings
//
// The package also owns the webhook normalisation rules (metric renaming,
// one-decimal rounding, timestamp fallback) and the chart window rules
// used by list_sensor_readings.
package telemetry
