package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// windowRepo records the window BuildSeries asks for.
type windowRepo struct {
	Repository

	latest    time.Time
	latestErr error
	readings  []Reading

	gotFrom, gotTo time.Time
}

func (r *windowRepo) LatestTimestamp(context.Context, string) (time.Time, error) {
	return r.latest, r.latestErr
}

func (r *windowRepo) ReadingsBetween(_ context.Context, _ string, from, to time.Time) ([]Reading, error) {
	r.gotFrom, r.gotTo = from, to
	return r.readings, nil
}

func TestDayWindow(t *testing.T) {
	loc := santiago(t)

	from, to, err := DayWindow("2026-03-01", loc)
	require.NoError(t, err)

	// Santiago is UTC-3 in March (summer time).
	assert.True(t, from.Equal(time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)), from.String())
	assert.True(t, to.Equal(time.Date(2026, 3, 2, 2, 59, 59, 0, time.UTC)), to.String())

	for _, bad := range []string{"2026-13-01", "01-03-2026", "2026-03-01T00:00:00Z", "today"} {
		_, _, err := DayWindow(bad, loc)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestBuildSeries_WithDate(t *testing.T) {
	loc := santiago(t)
	repo := &windowRepo{readings: []Reading{
		{Metric: MetricTemperature, Value: 21.5, Timestamp: time.Date(2026, 3, 1, 15, 4, 5, 123, time.UTC)},
	}}

	series, err := BuildSeries(context.Background(), repo, "dev-1", "2026-03-01", loc)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", series.DisplayDate)
	require.Len(t, series.Readings, 1)
	assert.Equal(t, Point{Sensor: "temperature", Value: 21.5, Timestamp: "2026-03-01T15:04:05Z"}, series.Readings[0])
	assert.Equal(t, 23*time.Hour+59*time.Minute+59*time.Second, repo.gotTo.Sub(repo.gotFrom))
}

func TestBuildSeries_LatestWindow(t *testing.T) {
	latest := time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC)
	repo := &windowRepo{latest: latest}

	series, err := BuildSeries(context.Background(), repo, "dev-1", "", santiago(t))
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", series.DisplayDate, "display date is the UTC date of the latest reading")
	assert.NotNil(t, series.Readings)
	assert.Empty(t, series.Readings)
	assert.True(t, repo.gotTo.Equal(latest))
	assert.True(t, repo.gotFrom.Equal(latest.Add(-24*time.Hour)))
}

func TestBuildSeries_NoData(t *testing.T) {
	repo := &windowRepo{latestErr: ErrNoReadings}

	series, err := BuildSeries(context.Background(), repo, "dev-1", "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, &Series{DisplayDate: NoDataDisplayDate, Readings: []Point{}}, series)
}

func TestBuildSeries_Errors(t *testing.T) {
	_, err := BuildSeries(context.Background(), &windowRepo{}, "dev-1", "not-a-date", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)

	boom := errors.New("warehouse down")
	_, err = BuildSeries(context.Background(), &windowRepo{latestErr: boom}, "dev-1", "", time.UTC)
	assert.ErrorIs(t, err, boom)
}
