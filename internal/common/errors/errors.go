// Package errors provides standardized error handling for SMS dispatch.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeConfiguration covers missing credentials or identifiers at
	// configure time. Never retryable; the environment must be fixed first.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	// ErrCodeDispatchFailed covers sends rejected or failed by the backend
	// (bad recipient, quota exceeded, unauthenticated, bad project id).
	ErrCodeDispatchFailed ErrorCode = "DISPATCH_FAILED"

	// ErrCodeTransport covers connectivity failures and timeouts below the
	// backend API. Surfaced the same way as a dispatch failure.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"

	ErrCodeManifestInvalid ErrorCode = "MANIFEST_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// NewConfigurationError creates a non-retryable configuration error.
func NewConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfiguration,
		Message:   "Required configuration missing",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDispatchError wraps a backend-reported send failure. The backend's own
// diagnostic text is preserved in Details, nothing is swallowed.
func NewDispatchError(backend string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDispatchFailed,
		Message:   fmt.Sprintf("Backend '%s' rejected the send", backend),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDispatchStatusError wraps a per-recipient failure the backend reported
// inside an otherwise successful call.
func NewDispatchStatusError(backend string, statusCode int, statusMessage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDispatchFailed,
		Message:   fmt.Sprintf("Backend '%s' reported delivery failure", backend),
		Details:   fmt.Sprintf("statusCode: %d, statusMessage: %s", statusCode, statusMessage),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Metadata: map[string]interface{}{
			"statusCode":    statusCode,
			"statusMessage": statusMessage,
		},
	}
}

// NewTransportError wraps a network-level failure (connectivity, timeout).
func NewTransportError(backend string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransport,
		Message:   fmt.Sprintf("Transport failure reaching backend '%s'", backend),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewManifestInvalidError creates a non-retryable manifest validation error.
func NewManifestInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeManifestInvalid,
		Message:   "Batch manifest failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsCode reports whether err (or anything it wraps) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// IsConfigurationError reports whether err is a configuration error.
func IsConfigurationError(err error) bool {
	return IsCode(err, ErrCodeConfiguration)
}

// GetCode extracts the error code, or empty when err is not a StandardError.
func GetCode(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}
