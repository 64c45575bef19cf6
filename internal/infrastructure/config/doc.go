// Package config handles loading and validating Growing App Core configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Overriding with environment variables, including the legacy names
//     the deployed functions read (BIGQUERY_PROJECT_ID, ARDUINO_CLIENT_ID, ...)
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Device-cloud secrets should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Warehouse.Dataset)
package config
