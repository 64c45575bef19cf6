// Growing App Core - crop monitoring backend
//
// This is the single binary behind every Growing App function. It serves
// all of them under /api/v1 or, with api.function set, one of them at "/"
// for one-function-per-service deployments.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // Cloud Run images ship without a zoneinfo database

	"github.com/joho/godotenv"

	_ "github.com/DiegoFarias19/GrowingAPP/migrations"

	"github.com/DiegoFarias19/GrowingAPP/internal/api"
	"github.com/DiegoFarias19/GrowingAPP/internal/controller"
	"github.com/DiegoFarias19/GrowingAPP/internal/device"
	"github.com/DiegoFarias19/GrowingAPP/internal/devicecloud"
	"github.com/DiegoFarias19/GrowingAPP/internal/farm"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/config"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/database"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/influxdb"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/logging"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/warehouse"
	"github.com/DiegoFarias19/GrowingAPP/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Local runs keep credentials in .env; deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: loading .env: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// backend bundles the repositories of one warehouse driver.
type backend struct {
	farms    farm.Repository
	devices  device.Repository
	readings telemetry.Repository
	health   api.HealthChecker
	close    func() error
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Growing App Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"driver", cfg.Warehouse.Driver,
		"function", cfg.API.Function,
	)

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing warehouse")
		if closeErr := be.close(); closeErr != nil {
			log.Error("error closing warehouse", "error", closeErr)
		}
	}()

	health := map[string]api.HealthChecker{"warehouse": be.health}

	// Connect to InfluxDB (optional)
	var mirror telemetry.Mirror
	if cfg.InfluxDB.Enabled {
		influxClient, connErr := influxdb.Connect(ctx, cfg.InfluxDB)
		if connErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", connErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)

		mirror = influxClient
		health["influxdb"] = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	cloud := devicecloud.New(cfg.DeviceCloud)
	if cfgErr := cloud.Configured(); cfgErr != nil {
		log.Warn("device cloud not configured, publishing functions will fail", "error", cfgErr)
	}

	evaluator := controller.NewEvaluator(
		be.readings,
		be.devices,
		newActuator(cfg, cloud),
		cfg.Controller.RespectControlMode,
		log,
	)

	server, err := api.New(api.Deps{
		Config:      cfg.API,
		Location:    cfg.Service.Location(),
		Logger:      log,
		Farms:       be.farms,
		Devices:     be.devices,
		Readings:    be.readings,
		DeviceCloud: cloud,
		Controller:  evaluator,
		Mirror:      mirror,
		Health:      health,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}

	<-ctx.Done()
	log.Info("shutdown signal received")

	if err := server.Close(); err != nil {
		log.Error("error closing API server", "error", err)
	}
	log.Info("Growing App Core stopped")
	return nil
}

// openBackend connects the configured warehouse driver and builds its
// repositories.
func openBackend(ctx context.Context, cfg *config.Config, log *logging.Logger) (*backend, error) {
	switch cfg.Warehouse.Driver {
	case config.DriverSQLite:
		db, err := database.Open(ctx, cfg.Warehouse.SQLite)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close() //nolint:errcheck // already failing
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("SQLite warehouse ready", "path", db.Path())

		return &backend{
			farms:    farm.NewSQLiteRepository(db.DB),
			devices:  device.NewSQLiteRepository(db.DB),
			readings: telemetry.NewSQLiteRepository(db.DB),
			health:   db,
			close:    db.Close,
		}, nil

	case config.DriverBigQuery:
		wh := warehouse.New(cfg.Warehouse)
		log.Info("BigQuery warehouse configured",
			"project", cfg.Warehouse.Project,
			"dataset", cfg.Warehouse.Dataset,
		)

		return &backend{
			farms:    farm.NewBigQueryRepository(wh, cfg.Warehouse.Tables),
			devices:  device.NewBigQueryRepository(wh, cfg.Warehouse.Tables),
			readings: telemetry.NewBigQueryRepository(wh, cfg.Warehouse.Tables),
			health:   wh,
			close:    wh.Close,
		}, nil
	}

	return nil, fmt.Errorf("unsupported warehouse driver %q", cfg.Warehouse.Driver)
}

// newActuator selects how the controller switches the relay.
func newActuator(cfg *config.Config, cloud *devicecloud.Client) controller.Actuator {
	if cfg.Controller.Actuator == config.ActuatorHTTP {
		return controller.NewHTTPActuator(cfg.Controller.RelayURL, cfg.Controller.ActuationTimeout())
	}
	return controller.NewDeviceCloudActuator(cloud)
}

// getConfigPath returns the configuration file path.
// Uses GROWING_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GROWING_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
