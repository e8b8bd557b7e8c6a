// Package errors provides typed errors with exit codes for nuri.
//
// # Error Types
//
// NuriError is the base error type that wraps an error with an exit code:
//
//	type NuriError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
// Defined exit codes for different error categories:
//
//	ExitSuccess         = 0  // Success
//	ExitGeneralError    = 1  // General/unknown errors
//	ExitScopeError      = 2  // Path outside the editable config tree
//	ExitTransportError  = 3  // Control socket communication failed
//	ExitNotFound        = 4  // Application or config path does not exist
//	ExitValidationError = 5  // Server rejected the submitted configuration
//	ExitAlreadyDisabled = 6  // Application is already disabled
//	ExitNotDisabled     = 7  // Application has no disabled backup
//	ExitAborted         = 8  // User abandoned an interactive operation
//	ExitConfigError     = 9  // Tool configuration error
//
// # Error Constructors
//
// Use the provided constructors for consistent error creation:
//
//	errors.Scope("certificates/bundle")
//	errors.AppNotFound("blogs")
//	errors.AlreadyDisabled("blogs")
//	errors.Transport("control request failed", err)
//
// # Extracting Exit Codes
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
