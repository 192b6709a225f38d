package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error is the application error carried from repositories, services and
// handlers up to the fiber error handler, which renders it as the JSON
// envelope {success:false, error, details?}.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Validation reports a missing or malformed request field (400).
func Validation(message string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: message}
}

// NotFound reports a missing referenced record (404).
func NotFound(message string) *Error {
	return &Error{Status: fiber.StatusNotFound, Message: message}
}

// Auth reports a missing, invalid or expired token, or a deactivated
// account (401).
func Auth(message string) *Error {
	return &Error{Status: fiber.StatusUnauthorized, Message: message}
}

// Authorization reports a role or ownership mismatch (403).
func Authorization(message string) *Error {
	return &Error{Status: fiber.StatusForbidden, Message: message}
}

// Upstream reports an ML service failure (500), with upstream status and
// message attached as details where available.
func Upstream(message string, cause error) *Error {
	e := &Error{Status: fiber.StatusInternalServerError, Message: message, cause: cause}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// Persistence reports a database failure (500).
func Persistence(message string, cause error) *Error {
	e := &Error{Status: fiber.StatusInternalServerError, Message: message, cause: cause}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// From normalizes any error into an *Error. Unknown errors become opaque
// 500s so stack traces never reach the client.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &Error{Status: fiberErr.Code, Message: fiberErr.Message}
	}

	return &Error{
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
		cause:   err,
	}
}
