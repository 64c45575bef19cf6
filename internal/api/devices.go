package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DiegoFarias19/GrowingAPP/internal/device"
	"github.com/DiegoFarias19/GrowingAPP/internal/devicecloud"
)

// handleGetDeviceCrops returns the devices attached to a crop.
func (s *Server) handleGetDeviceCrops(w http.ResponseWriter, r *http.Request) {
	cropID := strings.TrimSpace(r.URL.Query().Get("crop_id"))
	if cropID == "" {
		writeBadRequest(w, "crop_id query parameter is required")
		return
	}

	devices, err := s.devices.ListByCrop(r.Context(), cropID)
	if err != nil {
		s.logger.Error("listing devices", "error", err, "crop_id", cropID)
		writeInternalError(w, "failed to list devices", err)
		return
	}
	if devices == nil {
		devices = []device.Summary{}
	}

	writeJSON(w, http.StatusOK, devices)
}

// handleGetDeviceState returns the relay state and control mode of a device.
func (s *Server) handleGetDeviceState(w http.ResponseWriter, r *http.Request) {
	deviceID := strings.TrimSpace(r.URL.Query().Get("device_id"))
	if deviceID == "" {
		writeBadRequest(w, "device_id query parameter is required")
		return
	}

	state, err := s.devices.GetState(r.Context(), deviceID)
	if errors.Is(err, device.ErrDeviceNotFound) {
		writeNotFound(w, "device not found")
		return
	}
	if err != nil {
		s.logger.Error("reading device state", "error", err, "device_id", deviceID)
		writeInternalError(w, "failed to read device state", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"relay_state":  state.RelayState,
		"control_mode": state.ControlMode,
	})
}

// handleSetControlMode switches a device between AUTOMATICO and MANUAL.
func (s *Server) handleSetControlMode(w http.ResponseWriter, r *http.Request) {
	var req device.SetControlModeRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "request body must be a JSON object with device_id and control_mode")
		return
	}

	mode, err := req.Validate()
	if err != nil {
		if errors.Is(err, device.ErrInvalidControlMode) {
			writeBadRequest(w, fmt.Sprintf("control_mode must be %q or %q",
				device.ControlModeAutomatic, device.ControlModeManual))
			return
		}
		writeBadRequest(w, err.Error())
		return
	}

	err = s.devices.SetControlMode(r.Context(), req.DeviceID, mode)
	if errors.Is(err, device.ErrDeviceNotFound) {
		s.logger.Warn("control mode update matched no device", "device_id", req.DeviceID)
		writeNotFound(w, "device not found")
		return
	}
	if err != nil {
		s.logger.Error("updating control mode", "error", err, "device_id", req.DeviceID)
		writeInternalError(w, "failed to update control mode", err)
		return
	}

	s.logger.Info("control mode updated", "device_id", req.DeviceID, "control_mode", mode)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("Control mode set to %s", mode),
	})
}

// sendBoolRequest is the send_bool_acloud body. State is untyped so a
// non-boolean can be told apart from a missing key.
type sendBoolRequest struct {
	State any `json:"state"`
}

// handleSendBoolACloud publishes a relay state to the device cloud.
func (s *Server) handleSendBoolACloud(w http.ResponseWriter, r *http.Request) {
	var req sendBoolRequest
	if err := decodeBody(r, &req); err != nil || req.State == nil {
		writeBadRequest(w, `request body must be a JSON object with a "state" key`)
		return
	}
	state, ok := req.State.(bool)
	if !ok {
		writeBadRequest(w, `"state" must be a boolean`)
		return
	}

	if err := s.cloud.SetRelay(r.Context(), state); err != nil {
		s.writeDeviceCloudError(w, r, "publishing relay state", err)
		return
	}

	s.logger.Info("relay state published", "state", state)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"message":         "Relay state updated.",
		"new_relay_state": state,
	})
}

// writeDeviceCloudError maps a device-cloud failure onto a 500 response.
func (s *Server) writeDeviceCloudError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error(op, "error", err, "request_id", requestID(r.Context()))

	if errors.Is(err, devicecloud.ErrNotConfigured) {
		writeInternalError(w, "server configuration incomplete", err)
		return
	}

	var apiErr *devicecloud.APIError
	if errors.As(err, &apiErr) {
		writeError(w, http.StatusInternalServerError,
			fmt.Sprintf("device cloud %s failed (%d)", apiErr.Op, apiErr.StatusCode), apiErr.Body)
		return
	}

	writeInternalError(w, "device cloud request failed", err)
}
