package errors

import (
	"errors"
	"fmt"
)

// Exit codes for nuri
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitScopeError      = 2
	ExitTransportError  = 3
	ExitNotFound        = 4
	ExitValidationError = 5
	ExitAlreadyDisabled = 6
	ExitNotDisabled     = 7
	ExitAborted         = 8
	ExitConfigError     = 9
)

// NuriError is the base error type for nuri
type NuriError struct {
	Code    int
	Message string
	Cause   error
}

func (e *NuriError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *NuriError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *NuriError) ExitCode() int {
	return e.Code
}

// New creates a new NuriError
func New(code int, message string) *NuriError {
	return &NuriError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a NuriError
func Wrap(code int, message string, cause error) *NuriError {
	return &NuriError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// Scope returns an error for a path outside the editable config tree
func Scope(path string) *NuriError {
	return New(ExitScopeError, fmt.Sprintf("path %q is outside the config tree", path))
}

// Transport returns an error for control socket communication failures
func Transport(message string, cause error) *NuriError {
	return Wrap(ExitTransportError, message, cause)
}

// AppNotFound returns an error for a missing application
func AppNotFound(name string) *NuriError {
	return New(ExitNotFound, fmt.Sprintf("application not found: %s", name))
}

// PathNotFound returns an error for a missing configuration path
func PathNotFound(path string) *NuriError {
	return New(ExitNotFound, fmt.Sprintf("no such configuration path: %s", path))
}

// Validation returns an error for a configuration rejected by the server
func Validation(message, detail string) *NuriError {
	if detail != "" {
		message = fmt.Sprintf("%s: %s", message, detail)
	}
	return New(ExitValidationError, message)
}

// AlreadyDisabled returns an error when an application is already disabled
func AlreadyDisabled(app string) *NuriError {
	return New(ExitAlreadyDisabled, fmt.Sprintf("application %s is already disabled", app))
}

// NotDisabled returns an error when an application has no disabled backup
func NotDisabled(app string) *NuriError {
	return New(ExitNotDisabled, fmt.Sprintf("application %s is not disabled", app))
}

// Aborted returns an error for an operation the user abandoned
func Aborted(op string) *NuriError {
	return New(ExitAborted, fmt.Sprintf("%s aborted, no changes applied", op))
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *NuriError {
	return Wrap(ExitConfigError, message, cause)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var nuriErr *NuriError
	if errors.As(err, &nuriErr) {
		return nuriErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
