package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Function names as deployed.
const (
	FnInsertSensorReadings = "insert_sensor_readings"
	FnListLegacyReadings   = "list_legacy_sensor_readings"
	FnCreateFarm           = "create_farm"
	FnGetArduinoData       = "get_arduino_data"
	FnGetDeviceCrops       = "get_device_crops"
	FnGetDeviceState       = "get_device_state"
	FnGetFarmCrops         = "get_farm_crops"
	FnListSensorReadings   = "list_sensor_readings"
	FnListUserFarms        = "list_user_farms"
	FnSendBoolACloud       = "send_bool_acloud"
	FnSetControlMode       = "set_control_mode"
	FnTemperatureControl   = "temperature_controller"
)

// healthCheckTimeout bounds each component check on GET /health.
const healthCheckTimeout = 5 * time.Second

// function is one routable function.
type function struct {
	name    string
	path    string
	method  string
	cors    bool
	handler http.HandlerFunc
}

// functions lists every function in the order they are mounted.
func (s *Server) functions() []function {
	return []function{
		{FnInsertSensorReadings, "/insert-sensor-readings", http.MethodPost, false, s.handleInsertSensorReadings},
		{FnListLegacyReadings, "/list-legacy-sensor-readings", http.MethodGet, false, s.handleListLegacyReadings},
		{FnCreateFarm, "/create-farm", http.MethodPost, true, s.handleCreateFarm},
		{FnGetArduinoData, "/get-arduino-data", http.MethodPost, false, s.handleGetArduinoData},
		{FnGetDeviceCrops, "/get-device-crops", http.MethodGet, true, s.handleGetDeviceCrops},
		{FnGetDeviceState, "/get-device-state", http.MethodGet, true, s.handleGetDeviceState},
		{FnGetFarmCrops, "/get-farm-crops", http.MethodGet, true, s.handleGetFarmCrops},
		{FnListSensorReadings, "/list-sensor-readings", http.MethodGet, true, s.handleListSensorReadings},
		{FnListUserFarms, "/list-user-farms", http.MethodGet, true, s.handleListUserFarms},
		{FnSendBoolACloud, "/send-bool-acloud", http.MethodPost, true, s.handleSendBoolACloud},
		{FnSetControlMode, "/set-control-mode", http.MethodPost, true, s.handleSetControlMode},
		{FnTemperatureControl, "/temperature-controller", http.MethodPost, false, s.handleTemperatureController},
	}
}

// lookupFunction finds a function by name.
func (s *Server) lookupFunction(name string) (function, bool) {
	for _, fn := range s.functions() {
		if fn.name == name {
			return fn, true
		}
	}
	return function{}, false
}

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.HandleFunc("/health", s.handleHealth)

		for _, fn := range s.functions() {
			r.HandleFunc(fn.path, s.serveFunction(fn))
		}
	})

	if fn, ok := s.lookupFunction(s.cfg.Function); ok {
		r.HandleFunc("/", s.serveFunction(fn))
	}

	return r
}

// serveFunction applies CORS preflight and method checks before fn.
// Functions without CORS answer OPTIONS like any other wrong method.
func (s *Server) serveFunction(fn function) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fn.cors {
			s.setCORSHeaders(w, fn.method)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		if r.Method != fn.method {
			writeMethodNotAllowed(w, fn.method)
			return
		}

		fn.handler(w, r)
	}
}

// handleHealth reports the version, the mounted function and the state of
// each registered component.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	status := "ok"
	code := http.StatusOK
	checks := make(map[string]string, len(s.health))

	for name, hc := range s.health {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := hc.HealthCheck(ctx)
		cancel()

		if err != nil {
			s.logger.Warn("health check failed", "component", name, "error", err)
			checks[name] = truncateDetail(err.Error())
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":   status,
		"version":  s.version,
		"function": s.cfg.Function,
		"checks":   checks,
	})
}
