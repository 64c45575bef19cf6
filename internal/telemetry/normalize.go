package telemetry

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NormalizeWebhook turns a webhook payload into sensor_readings rows.
//
// The device id is payload.device_id, else payload.thing_id, else
// fallbackDevice. Items without a name or with a non-numeric value are
// skipped and counted. Known property names are renamed, values are rounded
// to one decimal, and timestamps are taken from the item, then the payload,
// then now, and expressed in loc.
//
// Returns ErrMissingValues when the payload has no values array at all.
func NormalizeWebhook(p WebhookPayload, fallbackDevice string, loc *time.Location, now time.Time) (rows []Reading, skipped int, err error) {
	if p.Values == nil {
		return nil, 0, ErrMissingValues
	}

	deviceID := firstNonEmpty(p.DeviceID, p.ThingID, fallbackDevice)
	eventTS := firstNonEmpty(p.Timestamp, p.EventTimestamp)

	rows = make([]Reading, 0, len(p.Values))
	for _, item := range p.Values {
		value, ok := item.Value.(float64)
		if item.Name == "" || !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			skipped++
			continue
		}

		rows = append(rows, Reading{
			ID:        uuid.NewString(),
			DeviceID:  deviceID,
			Timestamp: ParseTimestamp(firstNonEmpty(item.UpdatedAt, eventTS), loc, now),
			Metric:    NormalizeMetric(item.Name),
			Value:     RoundValue(value),
		})
	}
	return rows, skipped, nil
}

// NormalizeMetric maps device-cloud property names onto metric names.
func NormalizeMetric(name string) string {
	if m, ok := metricAliases[name]; ok {
		return m
	}
	return name
}

// RoundValue rounds to one decimal place using the exact decimal value of v.
// Exact ties go to the even digit, so 22.25 becomes 22.2.
func RoundValue(v float64) float64 {
	v, _ = strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return v
}

// timestampLayouts are tried in order. Zone-less timestamps are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses an ISO 8601 timestamp into loc. Empty or
// unparsable input yields now in loc.
func ParseTimestamp(s string, loc *time.Location, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s != "" {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.In(loc)
			}
		}
	}
	return now.In(loc)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
