package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON body for a failed request, and the payload of
// the error event on a streamed run.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries what a client may see of an AppError. Cause stays
// server side.
type ErrorBody struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToResponse strips e down to its client-facing body.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: e.Code, Message: e.Message, Details: e.Details}}
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// IsAppError reports whether err's chain holds an AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// HasCode reports whether err's chain holds an AppError with code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsInputError reports whether err blames what the caller sent: a
// description that does not decode or build, or other invalid input.
func IsInputError(err error) bool {
	appErr, ok := AsAppError(err)
	if !ok {
		return false
	}
	return IsBuildCode(appErr.Code) ||
		appErr.Code == ErrCodeDecodeFailed ||
		appErr.Code == ErrCodeInvalidInput
}
