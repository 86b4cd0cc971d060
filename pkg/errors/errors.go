package custom_error

import (
	"errors"
	"fmt"
)

type CustomError interface {
	Error() string
}

// NotFoundError covers missing or soft-deleted rows referenced by an
// operation. It never follows a partial mutation.
type NotFoundError struct {
	message string
}

func (e *NotFoundError) Error() string {
	return e.message
}

func NotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ConflictError means the resource is not in the status the operation
// requires: device already assigned, license out of seats, duplicate
// active license assignment.
type ConflictError struct {
	message string
}

func (e *ConflictError) Error() string {
	return e.message
}

func Conflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{message: fmt.Sprintf(format, args...)}
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// InvalidStateError means the target assignment exists but is no longer
// active, so a return or revoke cannot be applied.
type InvalidStateError struct {
	message string
}

func (e *InvalidStateError) Error() string {
	return e.message
}

func InvalidState(format string, args ...interface{}) *InvalidStateError {
	return &InvalidStateError{message: fmt.Sprintf(format, args...)}
}

func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}

type UniqueViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23505")
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23503")
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

func WrapDBError(message, code string) CustomError {
	switch code {
	case "23505":
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: "Value is already used by other resources " + message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}
