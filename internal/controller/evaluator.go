package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/DiegoFarias19/GrowingAPP/internal/device"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/logging"
	"github.com/DiegoFarias19/GrowingAPP/internal/telemetry"
)

// Evaluator runs the threshold control step.
type Evaluator struct {
	readings ReadingSource
	devices  DeviceSource
	actuator Actuator
	logger   *logging.Logger

	// respectControlMode skips actuation for devices in MANUAL mode.
	respectControlMode bool
}

// NewEvaluator creates an evaluator.
func NewEvaluator(readings ReadingSource, devices DeviceSource, actuator Actuator, respectControlMode bool, logger *logging.Logger) *Evaluator {
	return &Evaluator{
		readings:           readings,
		devices:            devices,
		actuator:           actuator,
		logger:             logger.With("component", "controller"),
		respectControlMode: respectControlMode,
	}
}

// Evaluate performs one poll-evaluate-act cycle.
//
// Returns:
//   - *Result: The outcome; Actuated is true only after a successful actuation
//   - error: Read, join or actuation failure
func (e *Evaluator) Evaluate(ctx context.Context) (*Result, error) {
	reading, err := e.readings.LatestTemperature(ctx)
	if errors.Is(err, telemetry.ErrNoReadings) {
		e.logger.Info("no temperature readings yet")
		return &Result{Outcome: OutcomeNoData}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest temperature: %w", err)
	}

	temp := reading.Value
	res := &Result{DeviceID: reading.DeviceID, Temperature: &temp}

	threshold, err := e.devices.CriticalTempMin(ctx, reading.DeviceID)
	if errors.Is(err, device.ErrNoThreshold) {
		e.logger.Warn("no critical threshold for device", "device_id", reading.DeviceID)
		res.Outcome = OutcomeNoThreshold
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving threshold for %s: %w", reading.DeviceID, err)
	}
	res.Threshold = &threshold

	if !(temp > threshold) {
		e.logger.Info("temperature within limits, relay left unchanged",
			"device_id", reading.DeviceID, "temperature", temp, "threshold", threshold)
		res.Outcome = OutcomeWithinLimits
		return res, nil
	}

	if e.respectControlMode {
		state, err := e.devices.GetState(ctx, reading.DeviceID)
		if err != nil {
			return nil, fmt.Errorf("reading control mode for %s: %w", reading.DeviceID, err)
		}
		if state.ControlMode == device.ControlModeManual {
			e.logger.Info("threshold exceeded but device is in manual mode",
				"device_id", reading.DeviceID, "temperature", temp, "threshold", threshold)
			res.Outcome = OutcomeManualMode
			return res, nil
		}
	}

	e.logger.Warn("threshold exceeded, activating relay",
		"device_id", reading.DeviceID, "temperature", temp, "threshold", threshold)

	if err := e.actuator.Actuate(ctx, true); err != nil {
		return nil, fmt.Errorf("activating relay for %s: %w", reading.DeviceID, err)
	}

	res.Outcome = OutcomeActivated
	res.Actuated = true
	return res, nil
}
