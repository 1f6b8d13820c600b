// Package errors provides structured error types and exit codes for nwtest.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error (build failed, tests failed, etc.)
	ExitConfigError      = 2 // Configuration error (invalid nwtest.json, bad flags, etc.)
	ExitEnvironmentError = 3 // Environment error (missing executable, missing project, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindValidation // nwtest.json parsed but holds invalid values
	KindEnvironment
)

// NWTestError is the base error type for nwtest.
type NWTestError struct {
	Kind    ErrorKind
	Message string
	Step    string // Command step name if applicable (build, prepare, test)
	Cause   error  // Underlying error
}

func (e *NWTestError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s: %s", e.Step, e.Message)
	}
	return e.Message
}

func (e *NWTestError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *NWTestError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// Config creates a new configuration error.
func Config(message string) *NWTestError {
	return &NWTestError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *NWTestError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *NWTestError {
	return &NWTestError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *NWTestError {
	return Environment(fmt.Sprintf(format, args...))
}

// StepError creates an error attributed to a command step.
func StepError(step, message string, cause error) *NWTestError {
	return &NWTestError{
		Kind:    KindRuntime,
		Step:    step,
		Message: message,
		Cause:   cause,
	}
}

// GetExitCode returns the exit code for an error.
// Wrapped errors are inspected, so an environment error returned through
// fmt.Errorf("...: %w") still maps to ExitEnvironmentError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ne *NWTestError
	if errors.As(err, &ne) {
		return ne.ExitCode()
	}
	return ExitRuntimeError
}
