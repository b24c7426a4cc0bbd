package common

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a service failure so the transport layer can map
// it to a status without string matching.
type ErrorCode string

const (
	CodeInvalidArgument ErrorCode = "invalid_argument"
	CodeInvalidState    ErrorCode = "invalid_state"
	CodeConflict        ErrorCode = "conflict"
	CodeForbidden       ErrorCode = "forbidden"
	CodeNotFound        ErrorCode = "not_found"
	CodeInternal        ErrorCode = "internal"
)

// Error is the failure type returned by every service operation.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgumentf(format string, args ...interface{}) *Error {
	return newError(CodeInvalidArgument, format, args...)
}

func InvalidStatef(format string, args ...interface{}) *Error {
	return newError(CodeInvalidState, format, args...)
}

func Conflictf(format string, args ...interface{}) *Error {
	return newError(CodeConflict, format, args...)
}

func Forbiddenf(format string, args ...interface{}) *Error {
	return newError(CodeForbidden, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return newError(CodeNotFound, format, args...)
}

func Internalf(format string, args ...interface{}) *Error {
	return newError(CodeInternal, format, args...)
}

// CodeOf extracts the code from err, unwrapping as needed. Untyped
// errors report CodeInternal.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
