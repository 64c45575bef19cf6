// Package logging provides structured logging for Growing App Core.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across every function handler.
//
// # Features
//
//   - JSON output shaped for Cloud Logging (severity, message)
//   - Text output for local development
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting service", "port", 8080)
//	logger.Error("insert failed", "error", err)
//
// Never log device keys or client secrets.
package logging
