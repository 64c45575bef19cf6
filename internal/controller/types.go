package controller

import (
	"context"

	"github.com/DiegoFarias19/GrowingAPP/internal/device"
	"github.com/DiegoFarias19/GrowingAPP/internal/telemetry"
)

// Outcome names the branch an evaluation took.
type Outcome string

// Evaluation outcomes.
const (
	OutcomeNoData       Outcome = "no_data"
	OutcomeNoThreshold  Outcome = "no_threshold"
	OutcomeActivated    Outcome = "activated"
	OutcomeWithinLimits Outcome = "within_limits"
	OutcomeManualMode   Outcome = "manual_mode"
)

// Result describes one evaluation.
type Result struct {
	Outcome     Outcome  `json:"outcome"`
	DeviceID    string   `json:"device_id,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Threshold   *float64 `json:"threshold,omitempty"`
	Actuated    bool     `json:"actuated"`
}

// Actuator switches the relay.
type Actuator interface {
	Actuate(ctx context.Context, state bool) error
}

// ReadingSource yields the latest temperature reading.
type ReadingSource interface {
	LatestTemperature(ctx context.Context) (*telemetry.Reading, error)
}

// DeviceSource resolves thresholds and control modes.
type DeviceSource interface {
	CriticalTempMin(ctx context.Context, deviceID string) (float64, error)
	GetState(ctx context.Context, deviceID string) (*device.State, error)
}
