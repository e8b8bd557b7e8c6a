// Package logging provides logging utilities for nuri.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("resolved control socket", "socket", path)
//	logging.Warn("restore index out of range", "index", i, "length", n)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("No changes, nothing to apply")
//	logging.UserSuccess("Reconfiguration done")
//	logging.UserWarning("Restored step at end of route (original index %d)", i)
//	logging.UserError("Configuration rejected: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError, UserDetail: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
