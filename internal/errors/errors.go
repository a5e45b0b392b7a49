// Package errors provides the error taxonomy shared by every command.
//
// Each kind carries a human-readable message and an optional wrapped cause.
// ExitCode maps any error onto the process exit status.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// Exit codes returned by the CLI
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitFilesystem = 2
)

// Sentinel errors for common cases
var (
	ErrMissingAPIKey = errors.New("API key not set. Use 'nimbuscode config --api-key YOUR_API_KEY' or set OPENROUTER_API_KEY")
	ErrNoChoices     = errors.New("response contained no choices")
)

// ConfigError reports missing or unusable configuration
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string { return format("configuration error", e.Message, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError
func NewConfigError(message string, err error) *ConfigError {
	return &ConfigError{Message: message, Err: err}
}

// InputError reports bad arguments or an unreadable input file
type InputError struct {
	Message string
	Err     error
}

func (e *InputError) Error() string { return format("invalid input", e.Message, e.Err) }
func (e *InputError) Unwrap() error { return e.Err }

// NewInputError creates a new InputError
func NewInputError(message string, err error) *InputError {
	return &InputError{Message: message, Err: err}
}

// AuthError reports an absent or rejected API key
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: API key missing or rejected"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// NewAuthError creates a new AuthError
func NewAuthError(statusCode int, message string) *AuthError {
	return &AuthError{StatusCode: statusCode, Message: message}
}

// NetworkError reports connection failures, timeouts and cancellation
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error at %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NewNetworkError creates a new NetworkError
func NewNetworkError(endpoint string, err error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Err: err}
}

// APIError represents a request the provider rejected
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// FilesystemError reports a path that could not be written
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem error at %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// NewFilesystemError creates a new FilesystemError
func NewFilesystemError(path string, err error) *FilesystemError {
	return &FilesystemError{Path: path, Err: err}
}

// ExitCode maps an error to the process exit status.
// Filesystem failures, including unreadable input files, exit with 2.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var fsErr *FilesystemError
	if errors.As(err, &fsErr) {
		return ExitFilesystem
	}
	var pathErr *fs.PathError
	if IsInput(err) && errors.As(err, &pathErr) {
		return ExitFilesystem
	}
	return ExitFailure
}

// IsInput reports whether err is an InputError
func IsInput(err error) bool {
	var e *InputError
	return errors.As(err, &e)
}

func format(kind, message string, err error) string {
	switch {
	case message != "" && err != nil:
		return fmt.Sprintf("%s: %s: %v", kind, message, err)
	case message != "":
		return fmt.Sprintf("%s: %s", kind, message)
	case err != nil:
		return fmt.Sprintf("%s: %v", kind, err)
	default:
		return kind
	}
}
