package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Warehouse drivers.
const (
	// DriverBigQuery stores everything in Google BigQuery (production).
	DriverBigQuery = "bigquery"

	// DriverSQLite stores everything in a local SQLite file (development, tests).
	DriverSQLite = "sqlite"
)

// Controller actuators.
const (
	// ActuatorDeviceCloud toggles the relay through the device-cloud client.
	ActuatorDeviceCloud = "devicecloud"

	// ActuatorHTTP toggles the relay by calling the send_bool_acloud function URL.
	ActuatorHTTP = "http"
)

// Config is the root configuration structure for Growing App Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service     ServiceConfig     `yaml:"service"`
	API         APIConfig         `yaml:"api"`
	Warehouse   WarehouseConfig   `yaml:"warehouse"`
	DeviceCloud DeviceCloudConfig `yaml:"devicecloud"`
	Controller  ControllerConfig  `yaml:"controller"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServiceConfig contains deployment-wide settings.
type ServiceConfig struct {
	Name string `yaml:"name"`

	// Timezone is the IANA zone used for local calendar days and webhook timestamps.
	Timezone string `yaml:"timezone"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`

	// Function, when set, additionally mounts that single function at "/".
	// Used when each function is deployed as its own Cloud Run service.
	Function string `yaml:"function"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigin  string   `yaml:"allowed_origin"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age"`
}

// WarehouseConfig selects and configures the analytical store.
type WarehouseConfig struct {
	Driver  string `yaml:"driver"`
	Project string `yaml:"project"`
	Dataset string `yaml:"dataset"`

	// LegacyDataset holds the phase-1 readings table. Defaults to Dataset.
	LegacyDataset string `yaml:"legacy_dataset"`

	Tables TablesConfig `yaml:"tables"`
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// TablesConfig names the warehouse tables.
type TablesConfig struct {
	Farms          string `yaml:"farms"`
	Crops          string `yaml:"crops"`
	Devices        string `yaml:"devices"`
	SensorReadings string `yaml:"sensor_readings"`
	LegacyReadings string `yaml:"legacy_readings"`
}

// SQLiteConfig contains SQLite database settings for the local warehouse.
type SQLiteConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// DeviceCloudConfig contains Arduino IoT Cloud settings.
type DeviceCloudConfig struct {
	BaseURL  string `yaml:"base_url"`
	TokenURL string `yaml:"token_url"`
	Audience string `yaml:"audience"`

	// ClientID and ClientSecret enable the OAuth2 client-credentials flow.
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`

	// DeviceKey is a static bearer token used when no client credentials are set.
	DeviceKey string `yaml:"device_key"`

	ThingID    string           `yaml:"thing_id"`
	Properties PropertiesConfig `yaml:"properties"`

	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout"`
}

// PropertiesConfig names the thing properties the backend writes to.
type PropertiesConfig struct {
	Relay       string `yaml:"relay"`
	Temperature string `yaml:"temperature"`
	Humidity    string `yaml:"humidity"`
}

// ControllerConfig contains temperature controller settings.
type ControllerConfig struct {
	Actuator string `yaml:"actuator"`

	// RelayURL is the send_bool_acloud endpoint used by the http actuator.
	RelayURL string `yaml:"relay_url"`

	// Timeout is the actuation timeout in seconds.
	Timeout int `yaml:"timeout"`

	// RespectControlMode skips actuation for devices in MANUAL mode.
	RespectControlMode bool `yaml:"respect_control_mode"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults), skipped when path is empty
//     or the file does not exist
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern GROWING_SECTION_KEY, plus the
// variable names the deployed functions have always used (BIGQUERY_PROJECT_ID,
// ARDUINO_CLIENT_ID, PORT, ...).
//
// Parameters:
//   - path: Path to the YAML configuration file (may be empty)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be parsed or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Cloud Run deployments are configured from the environment only.
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:     "growing-core",
			Timezone: "America/Santiago",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
			CORS: CORSConfig{
				AllowedOrigin:  "*",
				AllowedHeaders: []string{"Content-Type", "Authorization"},
				MaxAge:         3600,
			},
		},
		Warehouse: WarehouseConfig{
			Driver:  DriverBigQuery,
			Project: "iot-growing-app",
			Dataset: "growing_app_bd",
			Tables: TablesConfig{
				Farms:          "farms",
				Crops:          "crops",
				Devices:        "devices",
				SensorReadings: "sensor_readings",
				LegacyReadings: "sensor_readings_v1",
			},
			SQLite: SQLiteConfig{
				Path:        "./data/growing.db",
				WALMode:     true,
				BusyTimeout: 5,
			},
		},
		DeviceCloud: DeviceCloudConfig{
			BaseURL:  "https://api2.arduino.cc/iot/v2",
			TokenURL: "https://api2.arduino.cc/iot/v1/clients/token",
			Audience: "https://api2.arduino.cc/iot",
			Properties: PropertiesConfig{
				Relay:       "relay_Control",
				Temperature: "dht22_temperatura",
				Humidity:    "dht22_humedad",
			},
			Timeout: 10,
		},
		Controller: ControllerConfig{
			Actuator: ActuatorDeviceCloud,
			Timeout:  10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// API
	if v := os.Getenv("GROWING_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := firstEnv("GROWING_API_PORT", "PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}
	if v := os.Getenv("GROWING_API_FUNCTION"); v != "" {
		cfg.API.Function = v
	}

	// Service
	if v := os.Getenv("GROWING_SERVICE_TIMEZONE"); v != "" {
		cfg.Service.Timezone = v
	}

	// Warehouse
	if v := os.Getenv("GROWING_WAREHOUSE_DRIVER"); v != "" {
		cfg.Warehouse.Driver = v
	}
	if v := firstEnv("GROWING_WAREHOUSE_PROJECT", "BIGQUERY_PROJECT_ID", "GCP_PROJECT"); v != "" {
		cfg.Warehouse.Project = v
	}
	if v := firstEnv("GROWING_WAREHOUSE_DATASET", "GCP_DATASET"); v != "" {
		cfg.Warehouse.Dataset = v
	}
	// BIGQUERY_DATASET_ID/BIGQUERY_TABLE_ID address the phase-1 readings table.
	if v := os.Getenv("BIGQUERY_DATASET_ID"); v != "" {
		cfg.Warehouse.LegacyDataset = v
	}
	if v := os.Getenv("BIGQUERY_TABLE_ID"); v != "" {
		cfg.Warehouse.Tables.LegacyReadings = v
	}
	if v := os.Getenv("GROWING_WAREHOUSE_SQLITE_PATH"); v != "" {
		cfg.Warehouse.SQLite.Path = v
	}

	// Device cloud
	if v := firstEnv("GROWING_DEVICECLOUD_CLIENT_ID", "ARDUINO_CLIENT_ID"); v != "" {
		cfg.DeviceCloud.ClientID = v
	}
	if v := firstEnv("GROWING_DEVICECLOUD_CLIENT_SECRET", "ARDUINO_CLIENT_SECRET"); v != "" {
		cfg.DeviceCloud.ClientSecret = v
	}
	if v := firstEnv("GROWING_DEVICECLOUD_DEVICE_KEY", "DEVICE_KEY"); v != "" {
		cfg.DeviceCloud.DeviceKey = v
	}
	if v := firstEnv("GROWING_DEVICECLOUD_THING_ID", "ARDUINO_THING_ID", "DEVICE_LOGIN_NAME"); v != "" {
		cfg.DeviceCloud.ThingID = v
	}
	if v := firstEnv("GROWING_DEVICECLOUD_RELAY_PROPERTY", "ARDUINO_PROPERTY_ID"); v != "" {
		cfg.DeviceCloud.Properties.Relay = v
	}

	// Controller
	if v := firstEnv("GROWING_CONTROLLER_RELAY_URL", "RELAY_CONTROL_URL"); v != "" {
		cfg.Controller.RelayURL = v
	}
	if v := os.Getenv("GROWING_CONTROLLER_ACTUATOR"); v != "" {
		cfg.Controller.Actuator = v
	}
	if v := os.Getenv("GROWING_CONTROLLER_RESPECT_CONTROL_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Controller.RespectControlMode = b
		}
	}

	// InfluxDB
	if v := os.Getenv("GROWING_INFLUXDB_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.InfluxDB.Enabled = b
		}
	}
	if v := os.Getenv("GROWING_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("GROWING_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("GROWING_INFLUXDB_ORG"); v != "" {
		cfg.InfluxDB.Org = v
	}
	if v := os.Getenv("GROWING_INFLUXDB_BUCKET"); v != "" {
		cfg.InfluxDB.Bucket = v
	}

	// Logging
	if v := os.Getenv("GROWING_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// firstEnv returns the value of the first non-empty environment variable.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks the configuration for errors.
//
// Device-cloud credentials are deliberately not required here: functions
// that need them report a configuration error per request instead, so the
// read-only functions keep working in deployments without credentials.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if _, err := time.LoadLocation(c.Service.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("service.timezone %q is not a valid IANA zone", c.Service.Timezone))
	}

	switch c.Warehouse.Driver {
	case DriverBigQuery:
		if c.Warehouse.Project == "" {
			errs = append(errs, "warehouse.project is required for the bigquery driver")
		}
		if c.Warehouse.Dataset == "" {
			errs = append(errs, "warehouse.dataset is required for the bigquery driver")
		}
	case DriverSQLite:
		if c.Warehouse.SQLite.Path == "" {
			errs = append(errs, "warehouse.sqlite.path is required for the sqlite driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("warehouse.driver must be %q or %q", DriverBigQuery, DriverSQLite))
	}

	switch c.Controller.Actuator {
	case ActuatorDeviceCloud:
	case ActuatorHTTP:
		if c.Controller.RelayURL == "" {
			errs = append(errs, "controller.relay_url is required for the http actuator")
		}
	default:
		errs = append(errs, fmt.Sprintf("controller.actuator must be %q or %q", ActuatorDeviceCloud, ActuatorHTTP))
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// LegacyDatasetOrDefault returns the dataset holding the phase-1 readings table.
func (w WarehouseConfig) LegacyDatasetOrDefault() string {
	if w.LegacyDataset != "" {
		return w.LegacyDataset
	}
	return w.Dataset
}

// Location returns the configured service timezone.
// Validate guarantees the zone loads; UTC is returned otherwise.
func (s ServiceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ReadTimeout returns the API read timeout as a Duration.
func (a APIConfig) ReadTimeout() time.Duration {
	return time.Duration(a.Timeouts.Read) * time.Second
}

// WriteTimeout returns the API write timeout as a Duration.
func (a APIConfig) WriteTimeout() time.Duration {
	return time.Duration(a.Timeouts.Write) * time.Second
}

// IdleTimeout returns the API idle timeout as a Duration.
func (a APIConfig) IdleTimeout() time.Duration {
	return time.Duration(a.Timeouts.Idle) * time.Second
}

// RequestTimeout returns the device-cloud request timeout as a Duration.
func (d DeviceCloudConfig) RequestTimeout() time.Duration {
	return time.Duration(d.Timeout) * time.Second
}

// ActuationTimeout returns the controller actuation timeout as a Duration.
func (c ControllerConfig) ActuationTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
