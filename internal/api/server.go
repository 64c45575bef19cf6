package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DiegoFarias19/GrowingAPP/internal/controller"
	"github.com/DiegoFarias19/GrowingAPP/internal/device"
	"github.com/DiegoFarias19/GrowingAPP/internal/devicecloud"
	"github.com/DiegoFarias19/GrowingAPP/internal/farm"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/config"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/logging"
	"github.com/DiegoFarias19/GrowingAPP/internal/telemetry"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker is implemented by the warehouse backends and the mirror.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Location *time.Location
	Logger   *logging.Logger

	Farms    farm.Repository
	Devices  device.Repository
	Readings telemetry.Repository

	DeviceCloud *devicecloud.Client
	Controller  *controller.Evaluator

	// Mirror is optional; accepted readings are copied to it.
	Mirror telemetry.Mirror

	// Health lists the components reported by GET /api/v1/health.
	Health map[string]HealthChecker

	Version string

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Server is the HTTP API server for Growing App Core.
type Server struct {
	cfg      config.APIConfig
	loc      *time.Location
	logger   *logging.Logger
	farms    farm.Repository
	devices  device.Repository
	readings telemetry.Repository
	cloud    *devicecloud.Client
	ctrl     *controller.Evaluator
	mirror   telemetry.Mirror
	health   map[string]HealthChecker
	version  string
	now      func() time.Time
	server   *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Repositories, device-cloud client, evaluator and configuration
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If a required dependency is missing or api.function is unknown
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Farms == nil || deps.Devices == nil || deps.Readings == nil {
		return nil, fmt.Errorf("farm, device and telemetry repositories are required")
	}
	if deps.DeviceCloud == nil {
		return nil, fmt.Errorf("device-cloud client is required")
	}
	if deps.Controller == nil {
		return nil, fmt.Errorf("controller is required")
	}

	s := &Server{
		cfg:      deps.Config,
		loc:      deps.Location,
		logger:   deps.Logger,
		farms:    deps.Farms,
		devices:  deps.Devices,
		readings: deps.Readings,
		cloud:    deps.DeviceCloud,
		ctrl:     deps.Controller,
		mirror:   deps.Mirror,
		health:   deps.Health,
		version:  deps.Version,
		now:      deps.Now,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}

	if s.cfg.Function != "" {
		if _, ok := s.lookupFunction(s.cfg.Function); !ok {
			return nil, fmt.Errorf("unknown function %q", s.cfg.Function)
		}
	}

	return s, nil
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
//
// Returns:
//   - error: Always nil; listener failures are logged
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.ReadTimeout(),
		WriteTimeout:      s.cfg.WriteTimeout(),
		IdleTimeout:       s.cfg.IdleTimeout(),
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr, "function", s.cfg.Function)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
