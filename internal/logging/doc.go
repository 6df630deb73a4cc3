// Package logging provides structured logging for huescout.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the tool. It provides both general logging functions
// and specialized functions for discovery-specific logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (probe internals, raw responses)
//   - Info: Normal operations (probe start/finish, discovery outcome)
//   - Warn: Non-fatal issues (probe errors, rate limits, retries)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Bridge found",
//	    zap.String("bridge_id", "ECB5FAFFFE123456"),
//	    zap.String("ip", "192.168.1.100"),
//	    zap.String("probe", "multicast"),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
//	logging.LogProbeStart("multicast", 0)
//	logging.LogProbeDone("multicast", 1, elapsed)
//	logging.LogDiscoveryFinished("probe succeeded", 1, elapsed)
//
// # Configuration
//
// Logging is silent by default so CLI output stays clean. Set the
// HUESCOUT_LOG_LEVEL environment variable (debug, info, warn, error) to
// enable output, or initialize explicitly:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
