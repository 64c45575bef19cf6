package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// chartWindow is the span covered when no date is requested.
const chartWindow = 24 * time.Hour

// DayWindow returns the first and last second of date (YYYY-MM-DD) in loc.
func DayWindow(date string, loc *time.Location) (from, to time.Time, err error) {
	day, err := time.ParseInLocation(time.DateOnly, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	from = day
	to = time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, loc)
	return from, to, nil
}

// BuildSeries assembles the chart payload for a device.
//
// With a date, the window is that calendar day in loc and displayDate is
// the date itself. Without one, the window is the 24 hours ending at the
// device's latest temperature or humidity reading and displayDate is that
// reading's UTC date. A device with no readings yields NoDataDisplayDate
// and an empty series.
func BuildSeries(ctx context.Context, repo Repository, deviceID, date string, loc *time.Location) (*Series, error) {
	var (
		from, to time.Time
		display  string
	)

	if date != "" {
		var err error
		from, to, err = DayWindow(date, loc)
		if err != nil {
			return nil, err
		}
		display = date
	} else {
		latest, err := repo.LatestTimestamp(ctx, deviceID)
		if errors.Is(err, ErrNoReadings) {
			return &Series{DisplayDate: NoDataDisplayDate, Readings: []Point{}}, nil
		}
		if err != nil {
			return nil, err
		}
		from, to = latest.Add(-chartWindow), latest
		display = latest.UTC().Format(time.DateOnly)
	}

	readings, err := repo.ReadingsBetween(ctx, deviceID, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(readings))
	for _, r := range readings {
		points = append(points, Point{
			Sensor:    r.Metric,
			Value:     r.Value,
			Timestamp: r.Timestamp.UTC().Format(ChartTimeLayout),
		})
	}
	return &Series{DisplayDate: display, Readings: points}, nil
}
