package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure that callers can react to.
type Code string

const (
	CodeValidation         Code = "ValidationError"
	CodeInvalidRequest     Code = "InvalidRequest"
	CodeMissingField       Code = "MissingRequiredField"
	CodeDuplicateEmail     Code = "DuplicateEmail"
	CodeDuplicateLicense   Code = "DuplicateLicense"
	CodeAlreadyAssigned    Code = "AlreadyAssigned"
	CodeInvalidCredentials Code = "InvalidCredentials"
	CodeInvalidToken       Code = "InvalidToken"
	CodeExpiredToken       Code = "ExpiredToken"
	CodeForbidden          Code = "Forbidden"
	CodeNotFound           Code = "NotFound"
	CodeUnavailable        Code = "Unavailable"
	CodeInternal           Code = "Internal"
)

// Error is the error type returned by services and repositories.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code, so the sentinels below work
// with errors.Is regardless of message or wrapped cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Status maps the code to the HTTP status used at the boundary.
func (e *Error) Status() int {
	return StatusOf(e.Code)
}

func StatusOf(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidRequest, CodeMissingField,
		CodeDuplicateEmail, CodeDuplicateLicense, CodeAlreadyAssigned:
		return http.StatusBadRequest
	case CodeInvalidCredentials, CodeInvalidToken, CodeExpiredToken:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var (
	ErrValidation         = New(CodeValidation, "validation failed")
	ErrInvalidRequest     = New(CodeInvalidRequest, "invalid request")
	ErrMissingField       = New(CodeMissingField, "missing required field")
	ErrDuplicateEmail     = New(CodeDuplicateEmail, "email already in use")
	ErrDuplicateLicense   = New(CodeDuplicateLicense, "license number already in use")
	ErrAlreadyAssigned    = New(CodeAlreadyAssigned, "doctor is already assigned to this patient")
	ErrInvalidCredentials = New(CodeInvalidCredentials, "invalid credentials")
	ErrInvalidToken       = New(CodeInvalidToken, "invalid token")
	ErrExpiredToken       = New(CodeExpiredToken, "token has expired")
	ErrForbidden          = New(CodeForbidden, "not authorized to access this resource")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrUnavailable        = New(CodeUnavailable, "service unavailable")
	ErrInternal           = New(CodeInternal, "internal server error")
)

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a cause to a coded error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NotFound builds a NotFound error naming the missing resource.
func NotFound(resource string) *Error {
	return New(CodeNotFound, resource+" not found")
}

// MissingField names the fields that were required but absent.
func MissingField(message string) *Error {
	return New(CodeMissingField, message)
}

// Internal wraps an unexpected fault.
func Internal(err error) *Error {
	return Wrap(CodeInternal, "internal server error", err)
}

// From returns err as an *Error, classifying anything unknown as Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
