package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/warehouse"
	"github.com/DiegoFarias19/GrowingAPP/internal/telemetry"
)

// legacyListLimit caps list_legacy_sensor_readings.
const legacyListLimit = 1000

// insertReadingsRequest is the insert_sensor_readings body. Fields are
// untyped so wrong types can be reported instead of failing the decode.
type insertReadingsRequest struct {
	Temperature any `json:"temperature"`
	Humidity    any `json:"humidity"`
	RelayState  any `json:"relay_state"`
}

// publishResult reports one device-cloud publish.
type publishResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// handleInsertSensorReadings publishes a manual reading to the device cloud
// and stores it in the phase-1 table. Success requires every step to succeed.
func (s *Server) handleInsertSensorReadings(w http.ResponseWriter, r *http.Request) {
	if err := s.cloud.Configured(); err != nil {
		s.logger.Error("insert_sensor_readings called without device-cloud configuration", "error", err)
		writeInternalError(w, "server configuration incomplete", err)
		return
	}

	var req insertReadingsRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "request body is empty or not valid JSON")
		return
	}
	if req.Temperature == nil || req.Humidity == nil {
		writeBadRequest(w, "temperature and humidity are required")
		return
	}
	temperature, tOK := req.Temperature.(float64)
	humidity, hOK := req.Humidity.(float64)
	if !tOK || !hOK {
		writeBadRequest(w, "temperature and humidity must be numbers")
		return
	}

	// A non-boolean relay_state is ignored rather than rejected.
	var relay *bool
	if b, ok := req.RelayState.(bool); ok {
		relay = &b
	}

	props := s.cloud.Properties()
	updates := []struct {
		property string
		value    any
	}{
		{props.Temperature, temperature},
		{props.Humidity, humidity},
	}
	if relay != nil {
		updates = append(updates, struct {
			property string
			value    any
		}{props.Relay, *relay})
	}

	results := make(map[string]publishResult, len(updates))
	cloudOK := true
	for _, u := range updates {
		if err := s.cloud.PublishProperty(r.Context(), u.property, u.value); err != nil {
			cloudOK = false
			s.logger.Error("publishing property", "property", u.property, "error", err)
			results[u.property] = publishResult{Status: "error", Message: truncateDetail(err.Error())}
			continue
		}
		results[u.property] = publishResult{Status: "success"}
	}

	row := &telemetry.LegacyReading{
		Timestamp:   s.now().UTC(),
		Temperature: temperature,
		Humidity:    humidity,
		RelayState:  relay,
	}
	var warehouseErrors []string
	if err := s.readings.InsertLegacy(r.Context(), row); err != nil {
		s.logger.Error("inserting legacy reading", "error", err)
		warehouseErrors = warehouse.RowErrors(err)
	} else if s.mirror != nil {
		s.mirror.WriteLegacyReading(row.Temperature, row.Humidity, row.RelayState, row.Timestamp)
	}

	if !cloudOK || len(warehouseErrors) > 0 {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":               "error",
			"error":                "one or more downstream calls failed",
			"device_cloud_results": results,
			"warehouse_errors":     warehouseErrors,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":               "success",
		"message":              "Reading published to the device cloud and stored.",
		"device_cloud_results": results,
	})
}

// handleListLegacyReadings returns the latest phase-1 rows, newest first.
func (s *Server) handleListLegacyReadings(w http.ResponseWriter, r *http.Request) {
	rows, err := s.readings.ListLegacy(r.Context(), legacyListLimit)
	if err != nil {
		s.logger.Error("listing legacy readings", "error", err)
		writeInternalError(w, "failed to list readings", err)
		return
	}
	if rows == nil {
		rows = []telemetry.LegacyReading{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("Retrieved %d records.", len(rows)),
		"data":    rows,
	})
}

// handleGetArduinoData ingests a device-cloud webhook into sensor_readings.
func (s *Server) handleGetArduinoData(w http.ResponseWriter, r *http.Request) {
	var payload telemetry.WebhookPayload
	if err := decodeBody(r, &payload); err != nil {
		writeBadRequest(w, "request body is empty or not valid JSON")
		return
	}

	rows, skipped, err := telemetry.NormalizeWebhook(payload, s.cloud.ThingID(), s.loc, s.now())
	if errors.Is(err, telemetry.ErrMissingValues) {
		writeBadRequest(w, `payload must contain a "values" array`)
		return
	}
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if len(rows) == 0 {
		s.logger.Warn("webhook carried no valid readings", "skipped", skipped)
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "warning",
			"message": "No valid readings in payload.",
			"skipped": skipped,
		})
		return
	}

	if err := s.readings.InsertReadings(r.Context(), rows); err != nil {
		s.logger.Error("inserting sensor readings", "error", err, "rows", len(rows))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":           "error",
			"error":            "failed to store readings",
			"warehouse_errors": warehouse.RowErrors(err),
		})
		return
	}

	if s.mirror != nil {
		for _, row := range rows {
			s.mirror.WriteReading(row.DeviceID, row.Metric, row.Value, row.Timestamp)
		}
	}

	s.logger.Info("sensor readings stored", "device_id", rows[0].DeviceID, "inserted", len(rows), "skipped", skipped)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"message":  fmt.Sprintf("Inserted %d readings.", len(rows)),
		"inserted": len(rows),
		"skipped":  skipped,
	})
}

// handleListSensorReadings returns a device's chart series.
func (s *Server) handleListSensorReadings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	deviceID := strings.TrimSpace(q.Get("id"))
	if deviceID == "" {
		writeBadRequest(w, "id query parameter is required")
		return
	}
	date := strings.TrimSpace(q.Get("date"))

	series, err := telemetry.BuildSeries(r.Context(), s.readings, deviceID, date, s.loc)
	if errors.Is(err, telemetry.ErrInvalidDate) {
		writeBadRequest(w, "date must be formatted as YYYY-MM-DD")
		return
	}
	if err != nil {
		s.logger.Error("building chart series", "error", err, "device_id", deviceID)
		writeInternalError(w, "failed to list readings", err)
		return
	}

	writeJSON(w, http.StatusOK, series)
}
