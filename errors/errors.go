package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// --- Common Error Constructors ---

// UnknownOperation creates a new AppError for an operation name missing from the registry.
func UnknownOperation(name string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownOperation, Message: fmt.Sprintf("Unknown operation %q.", name),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"operation": name},
	}
}

// MalformedDescriptor creates a new AppError for a descriptor with the wrong shape.
func MalformedDescriptor(reason string) *AppError {
	return &AppError{
		Code: ErrCodeMalformedDescriptor, Message: fmt.Sprintf("Malformed descriptor: %s", reason),
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidParameter creates a new AppError for a bad stage parameter.
func InvalidParameter(operation, reason string) *AppError {
	details := map[string]any{"operation": operation}
	return &AppError{
		Code: ErrCodeInvalidParameter, Message: fmt.Sprintf("Invalid parameters for %s: %s", operation, reason),
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// DecodeFailed creates a new AppError for a pipeline description that cannot be parsed.
func DecodeFailed(format string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("Unable to decode %s pipeline description.", format),
		HTTPStatus: http.StatusBadRequest, Cause: cause,
		Details: map[string]any{"format": format},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Canceled creates a new AppError for a run stopped by its context.
func Canceled(cause error) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: "The run was canceled before the pipeline stopped itself.",
		HTTPStatus: http.StatusRequestTimeout, Cause: cause,
	}
}

// Unavailable creates a new AppError for a run refused for lack of capacity.
func Unavailable(reason string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeUnavailable, Message: fmt.Sprintf("Service unavailable: %s", reason),
		HTTPStatus: http.StatusServiceUnavailable, Cause: cause,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// Wrap converts err into an *AppError. AppErrors anywhere in the chain are
// returned unchanged; anything else becomes an internal error.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
