// Package failure carries an HTTP status with an error so handlers can answer without inspecting causes.
package failure

import (
	"errors"
	"net/http"

	pkgErrors "github.com/pkg/errors"
)

// Failure is an error with the status code and client message it maps to.
// Errors holds per-field validation messages.
type Failure struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`

	cause error
}

var (
	InvalidPageParam        = New(http.StatusBadRequest, "invalid page parameter")
	InvalidLimitParam       = New(http.StatusBadRequest, "invalid limit parameter")
	ForbiddenError          = New(http.StatusForbidden, "You don't have the required permissions")
	ResourceRestrictedError = New(http.StatusForbidden, "You don't have permission to access this resource")
)

func New(code int, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

func (e *Failure) Error() string {
	return e.Message
}

// Unwrap exposes the error a Failure was built from, if any.
func (e *Failure) Unwrap() error {
	return e.cause
}

func wrap(code int, err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: code, Message: err.Error(), cause: err}
}

func BadRequest(err error) error {
	return wrap(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

// Validation is a 400 carrying field level messages.
func Validation(msg string, fields map[string][]string) error {
	return &Failure{Code: http.StatusBadRequest, Message: msg, Errors: fields}
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

func NotFound(entityName string) error {
	return New(http.StatusNotFound, entityName)
}

func Conflict(message string) error {
	return New(http.StatusConflict, message)
}

// InvalidState is a 422 for a lifecycle transition the current status does not allow.
func InvalidState(message string) error {
	return New(http.StatusUnprocessableEntity, message)
}

// InternalError records where it was raised so the logged cause carries a stack.
func InternalError(err error) error {
	if err == nil {
		return nil
	}

	return wrap(http.StatusInternalServerError, pkgErrors.WithStack(err))
}

func Unimplemented(methodName string) error {
	return New(http.StatusNotImplemented, methodName)
}

// GetCode returns the status of the outermost Failure in err's chain, or 500.
func GetCode(err error) int {
	if fail, ok := as(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

func GetErrors(err error) map[string][]string {
	if fail, ok := as(err); ok {
		return fail.Errors
	}

	return nil
}

// Is reports whether err is a Failure with the given code.
func Is(err error, code int) bool {
	fail, ok := as(err)

	return ok && fail.Code == code
}

func as(err error) (*Failure, bool) {
	var fail *Failure
	ok := errors.As(err, &fail)

	return fail, ok
}
