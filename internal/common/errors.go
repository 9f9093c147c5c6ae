package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// ErrNotFound builds a non-disclosing 404 for the named resource.
func ErrNotFound(resource string) *AppError {
	return NewAppError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

// ErrForbidden builds a 403 for an authenticated but disallowed actor.
func ErrForbidden(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return NewAppError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// ErrUnauthorized builds a 401 for missing or invalid credentials.
func ErrUnauthorized(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return NewAppError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// ErrValidation builds a 400 for a rejected input value.
func ErrValidation(message string) *AppError {
	return NewAppError("VALIDATION_ERROR", message, http.StatusBadRequest, nil)
}

// ErrInvalidState builds a 400 for an operation that cannot proceed in the
// resource's current state, such as placing an order from an empty cart.
func ErrInvalidState(message string) *AppError {
	return NewAppError("INVALID_STATE", message, http.StatusBadRequest, nil)
}

// ErrConflict builds a 409 for a uniqueness or state conflict.
func ErrConflict(code, message string, err error) *AppError {
	if code == "" {
		code = "CONFLICT"
	}
	return NewAppError(code, message, http.StatusConflict, err)
}
