package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// ErrorCode represents different types of application errors
type ErrorCode string

const (
	// Client-side errors that never reach the backend
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrQuotaExceeded    ErrorCode = "QUOTA_EXCEEDED"

	// Backend responded but declined the operation
	ErrRemoteRejected ErrorCode = "REMOTE_REJECTED"

	// Transport-level errors
	ErrNetworkError      ErrorCode = "NETWORK_ERROR"
	ErrConnectionTimeout ErrorCode = "CONNECTION_TIMEOUT"
	ErrMalformedResponse ErrorCode = "MALFORMED_RESPONSE"

	// Local application state errors
	ErrUploadInProgress  ErrorCode = "UPLOAD_IN_PROGRESS"
	ErrInvalidState      ErrorCode = "INVALID_STATE"
	ErrRecordNotFound    ErrorCode = "RECORD_NOT_FOUND"
	ErrOperationCanceled ErrorCode = "OPERATION_CANCELED"

	// Local persistence errors
	ErrDatabaseError ErrorCode = "DATABASE_ERROR"

	// Configuration errors
	ErrConfigurationError ErrorCode = "CONFIGURATION_ERROR"

	// Generic errors
	ErrUnknownError ErrorCode = "UNKNOWN_ERROR"
)

// AppError represents an application-specific error with user-friendly messaging
type AppError struct {
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	UserMessage string                 `json:"user_message"`
	Cause       error                  `json:"-"` // Don't serialize the underlying error
	Context     map[string]interface{} `json:"context,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// GetUserMessage returns a user-friendly error message
func (e *AppError) GetUserMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	return e.Message
}

// WithContext attaches a key/value pair to the error context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ToJSON serializes the error for structured logging
func (e *AppError) ToJSON() string {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf(`{"code":%q,"message":%q}`, e.Code, e.Message)
	}
	return string(data)
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		UserMessage: getUserFriendlyMessage(code, message),
		Cause:       cause,
		Context:     make(map[string]interface{}),
		Timestamp:   time.Now(),
	}
}

// NewValidationError creates a validation error for a specific form field
func NewValidationError(field, message string) *AppError {
	err := NewAppError(ErrValidationFailed, message, nil)
	err.UserMessage = message
	return err.WithContext("field", field)
}

// NewRemoteRejected creates an error for an operation the backend declined.
// The server message is surfaced to the user verbatim.
func NewRemoteRejected(serverMessage string) *AppError {
	if serverMessage == "" {
		serverMessage = "The server rejected the request"
	}
	err := NewAppError(ErrRemoteRejected, serverMessage, nil)
	err.UserMessage = serverMessage
	return err
}

// WrapError wraps an existing error with application error context
func WrapError(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	// If it's already an AppError, preserve the original code if not specified
	if appErr, ok := err.(*AppError); ok && code == "" {
		return appErr
	}

	return NewAppError(code, message, err)
}

// ClassifyError attempts to classify a generic error into an AppError
func ClassifyError(err error) *AppError {
	if err == nil {
		return nil
	}

	// If it's already an AppError, return as-is
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	// Context errors, including ones wrapped by the HTTP transport
	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewAppError(ErrConnectionTimeout, "Request timed out", err)
	}
	if stderrors.Is(err, context.Canceled) {
		return NewAppError(ErrOperationCanceled, "Operation was canceled", err)
	}

	// Network errors
	if netErr, ok := err.(net.Error); ok {
		if netErr.Timeout() {
			return NewAppError(ErrConnectionTimeout, "Network operation timed out", err)
		}
		return NewAppError(ErrNetworkError, "Network error occurred", err)
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "context deadline exceeded") {
		return NewAppError(ErrConnectionTimeout, "Request timed out", err)
	}

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network") {
		return NewAppError(ErrNetworkError, "Network error occurred", err)
	}

	// JSON decode failures on a response body count as a transport failure
	if strings.Contains(errStr, "unexpected end of json") ||
		strings.Contains(errStr, "invalid character") ||
		strings.Contains(errStr, "cannot unmarshal") {
		return NewAppError(ErrMalformedResponse, "The server returned a malformed response", err)
	}

	if strings.Contains(errStr, "database") || strings.Contains(errStr, "sql") {
		if strings.Contains(errStr, "no rows") {
			return NewAppError(ErrRecordNotFound, "Record not found", err)
		}
		return NewAppError(ErrDatabaseError, "Database error", err)
	}

	// Default to unknown error
	return NewAppError(ErrUnknownError, "An unexpected error occurred", err)
}

// getUserFriendlyMessage returns a user-friendly message for the error code
func getUserFriendlyMessage(code ErrorCode, originalMessage string) string {
	switch code {
	case ErrQuotaExceeded:
		return "This file is too large for your remaining storage space. Upgrade your plan to upload it."
	case ErrNetworkError:
		return "A network error occurred. Please check your connection and try again."
	case ErrConnectionTimeout:
		return "The connection timed out. Please check your connection and try again."
	case ErrMalformedResponse:
		return "The server returned an unexpected response. Please try again."
	case ErrUploadInProgress:
		return "Another upload is already in progress. Please wait for it to finish."
	case ErrRecordNotFound:
		return "The requested file was not found."
	case ErrDatabaseError:
		return "A local storage error occurred. Please try again."
	case ErrConfigurationError:
		return "There's a configuration error. Please check your settings."
	case ErrInvalidState:
		return "The operation cannot be performed right now."
	case ErrOperationCanceled:
		return "The operation was canceled."
	default:
		if originalMessage != "" {
			return originalMessage
		}
		return "An unexpected error occurred. Please try again."
	}
}

// CodeOf returns the ErrorCode of an error, classifying it if necessary
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return ClassifyError(err).Code
}

// IsValidation reports whether the error is a client-side validation failure
func IsValidation(err error) bool {
	return CodeOf(err) == ErrValidationFailed
}

// IsQuotaExceeded reports whether the error is a local quota admission rejection
func IsQuotaExceeded(err error) bool {
	return CodeOf(err) == ErrQuotaExceeded
}

// IsRemoteRejected reports whether the backend declined the operation
func IsRemoteRejected(err error) bool {
	return CodeOf(err) == ErrRemoteRejected
}

// IsNetwork reports whether the error is a transport-level failure
func IsNetwork(err error) bool {
	code := CodeOf(err)
	return code == ErrNetworkError || code == ErrConnectionTimeout || code == ErrMalformedResponse
}

// FieldOf returns the form field attached to a validation error, if any
func FieldOf(err error) string {
	appErr, ok := err.(*AppError)
	if !ok || appErr.Context == nil {
		return ""
	}
	field, _ := appErr.Context["field"].(string)
	return field
}
