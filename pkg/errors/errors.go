package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors. These are fatal for the process.
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Path and entry precondition errors
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrNotAnEntry    ErrorCode = "NOT_AN_ENTRY"
	ErrInvalidSource ErrorCode = "INVALID_SOURCE"

	// Transfer errors
	ErrFileTransfer ErrorCode = "FILE_TRANSFER"
	ErrDirTransfer  ErrorCode = "DIR_TRANSFER"

	// Storage errors
	ErrStorage        ErrorCode = "STORAGE_OPERATION"
	ErrRollbackFailed ErrorCode = "ROLLBACK_FAILED"

	// Signals
	ErrInterrupted ErrorCode = "INTERRUPTED"
)

// AnnexError represents a structured error with code and details
type AnnexError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AnnexError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AnnexError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *AnnexError) Is(target error) bool {
	var targetErr *AnnexError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AnnexError with the given code and message
func New(code ErrorCode, message string) *AnnexError {
	return &AnnexError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AnnexError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AnnexError {
	return &AnnexError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AnnexError
func Wrap(err error, code ErrorCode, message string) *AnnexError {
	if err == nil {
		return nil
	}
	return &AnnexError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AnnexError {
	if err == nil {
		return nil
	}
	return &AnnexError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AnnexError) WithDetail(key string, value interface{}) *AnnexError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code anywhere in its chain
func IsErrorCode(err error, code ErrorCode) bool {
	return errors.Is(err, &AnnexError{Code: code})
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an AnnexError.
// When a chain carries several codes the outermost one wins, except that an
// interruption always takes precedence.
func GetErrorCode(err error) ErrorCode {
	if IsErrorCode(err, ErrInterrupted) {
		return ErrInterrupted
	}
	var annexErr *AnnexError
	if errors.As(err, &annexErr) {
		return annexErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an AnnexError
func GetErrorDetails(err error) map[string]interface{} {
	var annexErr *AnnexError
	if errors.As(err, &annexErr) {
		return annexErr.Details
	}
	return nil
}

// GetErrorMessage returns the message of the outermost AnnexError, without
// its code or cause. Other errors return their Error text.
func GetErrorMessage(err error) string {
	var annexErr *AnnexError
	if errors.As(err, &annexErr) {
		return annexErr.Message
	}
	return err.Error()
}

// GetCause returns the error wrapped by the outermost AnnexError, or nil.
func GetCause(err error) error {
	var annexErr *AnnexError
	if errors.As(err, &annexErr) {
		return annexErr.Wrapped
	}
	return nil
}

// IsTransferFailed reports whether err is a file or directory transfer failure.
func IsTransferFailed(err error) bool {
	return IsErrorCode(err, ErrFileTransfer) || IsErrorCode(err, ErrDirTransfer)
}

// IsFatal reports whether err should terminate the process rather than be
// reported as a failed operation.
func IsFatal(err error) bool {
	return IsErrorCode(err, ErrConfigLoad) || IsErrorCode(err, ErrConfigInvalid)
}

// Join is errors.Join, re-exported so callers importing this package under
// the name errors keep access to it.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
