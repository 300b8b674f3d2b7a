// Package errors carries machine-readable codes on kgraph errors so the CLI
// can print them and the HTTP API can map them to status codes.
//
//	err := errors.New(errors.ErrCodeFocusNotFound, "focus %q is not a node", id)
//	errors.Is(err, errors.ErrCodeFocusNotFound) // true
//	errors.HTTPStatus(err)                      // 404
//
// Wrapped causes stay reachable through the standard library's errors.Is and
// errors.As.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code. It is part of the HTTP API's error
// body and must stay stable.
type Code string

// Input.
const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
)

// Lookup.
const (
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeGraphNotFound Code = "GRAPH_NOT_FOUND"
	ErrCodeFocusNotFound Code = "FOCUS_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
)

// Upstream services (model server, Redis, MongoDB).
const (
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"
	ErrCodeLLMResponse Code = "LLM_RESPONSE"
)

const (
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidGraph:  http.StatusBadRequest,
	ErrCodeInvalidFormat: http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeGraphNotFound: http.StatusNotFound,
	ErrCodeFocusNotFound: http.StatusNotFound,
	ErrCodeFileNotFound:  http.StatusNotFound,
	ErrCodeRateLimited:   http.StatusTooManyRequests,
	ErrCodeTimeout:       http.StatusGatewayTimeout,
	ErrCodeNetwork:       http.StatusBadGateway,
	ErrCodeLLMResponse:   http.StatusBadGateway,
	ErrCodeUnsupported:   http.StatusNotImplemented,
}

// Status returns the HTTP status for c. Unknown codes map to 500.
func (c Code) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is an error with a code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any coded error in err's chain carries code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	if e := outermost(err); e != nil {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost coded error without its
// code prefix, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e := outermost(err); e != nil {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps the code carried by err to an HTTP status. Errors without
// a code map to 500.
func HTTPStatus(err error) int {
	return GetCode(err).Status()
}

func outermost(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
