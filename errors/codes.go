package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Build errors. Any of these aborts the whole pipeline build.
const (
	// ErrCodeUnknownOperation indicates a descriptor names an operation that is not registered.
	ErrCodeUnknownOperation ErrorCode = "UNKNOWN_OPERATION"
	// ErrCodeMalformedDescriptor indicates a descriptor has the wrong shape or position.
	ErrCodeMalformedDescriptor ErrorCode = "MALFORMED_DESCRIPTOR"
	// ErrCodeInvalidParameter indicates a stage parameter is missing, unknown, or out of range.
	ErrCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"
)

// Input errors
const (
	// ErrCodeDecodeFailed indicates a pipeline description could not be parsed.
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Run errors
const (
	// ErrCodeCanceled indicates a run was cut short by its context.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeUnavailable indicates no capacity was free to start a run.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// IsBuildCode reports whether code is raised while assembling a pipeline.
func IsBuildCode(code ErrorCode) bool {
	switch code {
	case ErrCodeUnknownOperation, ErrCodeMalformedDescriptor, ErrCodeInvalidParameter:
		return true
	}
	return false
}
