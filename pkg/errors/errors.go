package errors

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Reason classifies why a decode attempt failed.
type Reason string

const (
	// ReasonMissingField means a mandatory wire field was absent.
	ReasonMissingField Reason = "missing_field"
	// ReasonTypeMismatch means a field held a value of the wrong JSON kind.
	ReasonTypeMismatch Reason = "type_mismatch"
	// ReasonInvalidTimestamp means a timestamp string could not be parsed
	// as a timestamp with an explicit UTC offset.
	ReasonInvalidTimestamp Reason = "invalid_timestamp"
	// ReasonUnknownField means strict decoding saw a key outside the field table.
	ReasonUnknownField Reason = "unknown_field"
	// ReasonMalformedInput means the payload was not valid JSON.
	ReasonMalformedInput Reason = "malformed_input"
)

// DecodeError reports a failed decode. Field is empty when the failure
// concerns the payload as a whole.
type DecodeError struct {
	Reason   Reason
	Field    string
	Expected string // type_mismatch only
	Actual   string // type_mismatch only
	Raw      string // offending raw value, when there is one
	Err      error
}

// NewMissingFieldError creates a decode error for an absent field
func NewMissingFieldError(field string) *DecodeError {
	return &DecodeError{Reason: ReasonMissingField, Field: field}
}

// NewTypeMismatchError creates a decode error for a field of the wrong kind
func NewTypeMismatchError(field, expected, actual string) *DecodeError {
	return &DecodeError{
		Reason:   ReasonTypeMismatch,
		Field:    field,
		Expected: expected,
		Actual:   actual,
	}
}

// NewInvalidTimestampError creates a decode error for an unparseable timestamp
func NewInvalidTimestampError(field, raw string, err error) *DecodeError {
	return &DecodeError{
		Reason: ReasonInvalidTimestamp,
		Field:  field,
		Raw:    raw,
		Err:    err,
	}
}

// NewUnknownFieldError creates a decode error for a key not in the field table
func NewUnknownFieldError(field string) *DecodeError {
	return &DecodeError{Reason: ReasonUnknownField, Field: field}
}

// NewMalformedInputError creates a decode error for input that is not JSON
func NewMalformedInputError(err error) *DecodeError {
	return &DecodeError{Reason: ReasonMalformedInput, Err: err}
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	field := e.Field
	if field == "" {
		field = "(root)"
	}

	switch e.Reason {
	case ReasonMissingField:
		return fmt.Sprintf("decode %s: missing field", field)
	case ReasonTypeMismatch:
		return fmt.Sprintf("decode %s: expected %s, got %s", field, e.Expected, e.Actual)
	case ReasonInvalidTimestamp:
		return fmt.Sprintf("decode %s: invalid timestamp %q", field, e.Raw)
	case ReasonUnknownField:
		return fmt.Sprintf("decode %s: unknown field", field)
	case ReasonMalformedInput:
		if e.Err != nil {
			return fmt.Sprintf("decode: malformed input: %v", e.Err)
		}
		return "decode: malformed input"
	default:
		return fmt.Sprintf("decode %s: %s", field, e.Reason)
	}
}

// Unwrap returns the wrapped error
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches another *DecodeError with the same reason and field, so
// callers can write errors.Is(err, NewMissingFieldError("karma")).
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return e.Reason == t.Reason && e.Field == t.Field
}

// GRPCStatus returns the gRPC status for this error
func (e *DecodeError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// GRPCStatus returns the gRPC status for this error
func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// GRPCStatus returns the gRPC status for this error
func (e *InternalError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Message)
}

// GRPCStatuser interface for errors that can provide gRPC status
type GRPCStatuser interface {
	GRPCStatus() *status.Status
}

// Code returns the gRPC code carried by err, codes.OK for nil and
// codes.Unknown for errors without a status.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Unknown
}
