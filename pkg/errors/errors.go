package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels classify storefront failures. Wrap them with %w or carry them
// in an AppError; HTTPStatus and Classify unwrap to find them.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrServiceUnavail = errors.New("service unavailable")
	ErrPrecondition   = errors.New("precondition failed")
)

// kind describes how a sentinel surfaces on the wire.
type kind struct {
	sentinel error
	code     string
	status   int
	// message is the public text; empty means the error text itself is shown.
	message string
}

var kinds = []kind{
	{ErrNotFound, "NOT_FOUND", http.StatusNotFound, "resource not found"},
	{ErrConflict, "CONFLICT", http.StatusConflict, "resource state conflict"},
	{ErrInvalidInput, "INVALID_INPUT", http.StatusBadRequest, ""},
	{ErrPrecondition, "PRECONDITION_FAILED", http.StatusUnprocessableEntity, ""},
	{ErrForbidden, "FORBIDDEN", http.StatusForbidden, "forbidden"},
	{ErrServiceUnavail, "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, "service unavailable"},
}

const (
	internalCode    = "INTERNAL_ERROR"
	internalMessage = "an internal error occurred"
)

// AppError is an error with a stable code, a user-facing message and the
// status it maps to.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithCode returns a copy of the error carrying a more specific code.
func (e *AppError) WithCode(code string) *AppError {
	cp := *e
	cp.Code = code
	return &cp
}

func newAppError(sentinel error, message string) *AppError {
	for _, k := range kinds {
		if k.sentinel == sentinel {
			return &AppError{Code: k.code, Message: message, Status: k.status, Err: sentinel}
		}
	}
	return &AppError{Code: internalCode, Message: message, Status: http.StatusInternalServerError, Err: sentinel}
}

// NotFound reports a missing resource, e.g. NotFound("session", id).
func NotFound(resource, id string) *AppError {
	return newAppError(ErrNotFound, fmt.Sprintf("%s with id %s not found", resource, id))
}

func InvalidInput(message string) *AppError {
	return newAppError(ErrInvalidInput, message)
}

func Forbidden(message string) *AppError {
	return newAppError(ErrForbidden, message)
}

// PreconditionFailed reports an operation whose guard did not hold, such as
// checking out an empty cart.
func PreconditionFailed(message string) *AppError {
	return newAppError(ErrPrecondition, message)
}

// Classify returns the status, code and public message for err. AppErrors
// speak for themselves; wrapped sentinels use their table entry; anything
// else is an opaque internal error.
func Classify(err error) (status int, code, message string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Code, appErr.Message
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			msg := k.message
			if msg == "" {
				msg = err.Error()
			}
			return k.status, k.code, msg
		}
	}
	return http.StatusInternalServerError, internalCode, internalMessage
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	status, _, _ := Classify(err)
	return status
}
