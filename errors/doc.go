// Package errors provides the structured error type used across streamkit.
// Every failure to decode, resolve, or construct a pipeline is an *AppError
// carrying a machine-readable code and an HTTP status for the run endpoint.
package errors
