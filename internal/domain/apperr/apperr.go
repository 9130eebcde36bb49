// Package apperr is the error taxonomy shared by every layer. Domain code
// returns *Error values; the HTTP boundary maps Kind to a status code.
package apperr

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Kind string

const (
	Validation       Kind = "VALIDATION"
	Unauthorized     Kind = "UNAUTHORIZED"
	Forbidden        Kind = "FORBIDDEN"
	NotFound         Kind = "NOT_FOUND"
	CapacityExceeded Kind = "CAPACITY_EXCEEDED"
	Conflict         Kind = "CONFLICT"
	Upstream         Kind = "UPSTREAM_FAILURE"
	Internal         Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validationf(format string, args ...any) *Error { return New(Validation, format, args...) }
func NotFoundf(format string, args ...any) *Error   { return New(NotFound, format, args...) }
func Conflictf(format string, args ...any) *Error   { return New(Conflict, format, args...) }
func Forbiddenf(format string, args ...any) *Error  { return New(Forbidden, format, args...) }

// KindOf returns Internal for errors that carry no taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FromDB classifies a store error. Already-classified errors pass through,
// so it is safe to call on whatever a transaction callback returned.
func FromDB(err error, what string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFoundf("%s not found", what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Wrap(Conflict, err, what+" is still referenced by other records")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(Conflict, err, what+" already exists")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return Wrap(Upstream, err, "the store did not answer in time, retry the request")
	default:
		return Wrap(Upstream, err, "store operation failed")
	}
}
