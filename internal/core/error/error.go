package errx

import (
	"errors"
	"fmt"
)

// Code classifies an AppError for callers that need to react to it.
type Code string

const (
	CodeInternal Code = "internal"
	CodeStorage  Code = "storage"
	CodeNotFound Code = "not_found"
	CodeInvalid  Code = "invalid_input"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage is used when a Redis key is missing.
	RedisNotFoundMessage = "redis key not found"
	// CodecErrorMessage describes JSON encode/decode failures of stored data.
	CodecErrorMessage = "stored data could not be decoded"
)

// AppError wraps an underlying error with a code and safe message.
type AppError struct {
	Err     error
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, code Code, message string) *AppError {
	return &AppError{
		Err:     err,
		Code:    code,
		Message: message,
	}
}

// Invalid reports bad user input, e.g. a malformed shell command.
func Invalid(format string, args ...any) *AppError {
	return &AppError{Code: CodeInvalid, Message: fmt.Sprintf(format, args...)}
}

// WrapCodec wraps a JSON failure on persisted data.
func WrapCodec(err error) error {
	if err == nil {
		return nil
	}
	return New(err, CodeInternal, CodecErrorMessage)
}

// CodeOf returns the code of the first AppError in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == CodeNotFound
}
