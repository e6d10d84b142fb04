// Package errors provides centralized error handling for dsf.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
var (
	// ErrMissingArtifact indicates that an expected bundle directory or file
	// was not found. Scanners treat this as non-fatal and record the section
	// as omitted or empty.
	ErrMissingArtifact = errors.New("bundle artifact not found")

	// ErrMalformedArtifact indicates that a bundle file exists but could not be
	// parsed (for example an invalid customizations.xml). This aborts the scan.
	ErrMalformedArtifact = errors.New("bundle artifact is malformed")

	// ErrRemoteUnavailable indicates that the remote environment could not be
	// reached, the session was not ready, or a query failed.
	ErrRemoteUnavailable = errors.New("remote environment unavailable")

	// ErrInvalidOwnerEmail indicates that a workflow owner email does not match
	// the local@domain pattern.
	ErrInvalidOwnerEmail = errors.New("invalid owner email")

	// ErrBundleNotFound indicates that the bundle root does not exist or is not a directory.
	ErrBundleNotFound = errors.New("bundle directory not found")

	// ErrSettingsNotFound indicates the settings document does not exist on disk.
	ErrSettingsNotFound = errors.New("settings file not found")

	// ErrSettingsCorrupted indicates the settings document could not be decoded
	// or does not satisfy the settings schema.
	ErrSettingsCorrupted = errors.New("settings file is corrupted")

	// ErrLockTimeout indicates that acquiring a file lock timed out.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidDataverse indicates invalid Dataverse connection configuration.
	ErrConfigInvalidDataverse = errors.New("invalid dataverse configuration")

	// ErrConfigInvalidReconcile indicates invalid reconciliation policy configuration.
	ErrConfigInvalidReconcile = errors.New("invalid reconcile configuration")

	// ErrConfigInvalidOutput indicates invalid output configuration.
	ErrConfigInvalidOutput = errors.New("invalid output configuration")

	// ErrMissingCredentials indicates the client secret environment variable is empty.
	ErrMissingCredentials = errors.New("missing client credentials")

	// ErrInvalidOutputFormat indicates an invalid --output flag value.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrMenuCanceled indicates the user canceled an interactive prompt.
	ErrMenuCanceled = errors.New("prompt canceled")

	// ErrInteractiveRequired indicates that interactive prompts are required but not available.
	ErrInteractiveRequired = errors.New("interactive prompt required")

	// ErrEmptyValue indicates a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
