package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is the error type returned by the service layer. Controllers map
// it onto the standard JSON error envelope using Code and HTTPCode.
type AppError struct {
	Code     string
	Message  string
	HTTPCode int
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation reports malformed or missing input. No mutation has occurred.
func Validation(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: http.StatusBadRequest}
}

// Authorization reports that the actor lacks the required role or ownership.
func Authorization(message string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: message, HTTPCode: http.StatusForbidden}
}

// NotFound reports that the referenced entity does not exist.
func NotFound(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: http.StatusNotFound}
}

// Conflict reports that the operation is illegal given current entity state.
func Conflict(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: http.StatusConflict}
}

// Transient wraps a store or network failure that is safe to retry.
func Transient(message string, err error) *AppError {
	return &AppError{Code: "DATABASE_ERROR", Message: message, HTTPCode: http.StatusInternalServerError, Err: err}
}

// As unwraps err into an *AppError, or wraps it as a Transient store failure
// so controllers always have a code and status to respond with.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Transient("An unexpected error occurred", err)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
// Matches on the driver message so it works with both PostgreSQL and SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
