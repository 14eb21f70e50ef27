package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code is the closed failure taxonomy. Everything a caller can observe from
// the gateway, cache or mutation pipeline resolves to one of these.
type Code string

const (
	CodeValidation   Code = "validation"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeUnavailable  Code = "unavailable"
)

// FieldError attributes a validation failure to a specific input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Code   Code
	Field  string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, fe := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
		}
		return fmt.Sprintf("%s: %s", e.Code, strings.Join(parts, "; "))
	}
	if e.Err != nil {
		if e.Field != "" {
			return fmt.Sprintf("%s (%s): %s", e.Code, e.Field, e.Err.Error())
		}
		return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on the taxonomy code so callers can branch with errors.Is
// against the sentinel helpers below.
func (e *Error) Is(target error) bool {
	var ae *Error
	if errors.As(target, &ae) {
		return ae.Code == e.Code
	}
	return false
}

func New(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

func Validation(fields []FieldError) *Error {
	return &Error{Code: CodeValidation, Fields: fields}
}

func Validationf(field, format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Fields: []FieldError{{Field: field, Message: fmt.Sprintf(format, args...)}}}
}

func Unauthorized(err error) *Error {
	return &Error{Code: CodeUnauthorized, Err: err}
}

func NotFound(err error) *Error {
	return &Error{Code: CodeNotFound, Err: err}
}

// Conflict carries the offending field when the storage layer can name it.
func Conflict(field string, err error) *Error {
	return &Error{Code: CodeConflict, Field: field, Err: err}
}

func Unavailable(err error) *Error {
	return &Error{Code: CodeUnavailable, Err: err}
}

// CodeOf extracts the taxonomy code, defaulting to unavailable for errors
// that escaped classification (transport failures mostly).
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnavailable
}

func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}
