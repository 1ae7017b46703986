package models

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindMissingFields     ErrorKind = "missing_fields"
	KindInvalidID         ErrorKind = "invalid_id"
	KindInvalidCapacity   ErrorKind = "invalid_capacity"
	KindDuplicateID       ErrorKind = "duplicate_id"
	KindDuplicateFlight   ErrorKind = "duplicate_flight"
	KindDuplicateDate     ErrorKind = "duplicate_date"
	KindNotFound          ErrorKind = "not_found"
	KindDownstreamFailure ErrorKind = "downstream_failure"
)

// Error is a classified failure of a record operation. Two *Error values match
// under errors.Is when their kinds are equal.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  []string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrMissingFields     = &Error{Kind: KindMissingFields, Message: "Missing required fields"}
	ErrInvalidID         = &Error{Kind: KindInvalidID, Message: "Invalid ID"}
	ErrInvalidCapacity   = &Error{Kind: KindInvalidCapacity, Message: "Invalid capacity"}
	ErrDuplicateID       = &Error{Kind: KindDuplicateID, Message: "ID already exists"}
	ErrDuplicateFlight   = &Error{Kind: KindDuplicateFlight, Message: "Flight already exists"}
	ErrDuplicateDate     = &Error{Kind: KindDuplicateDate, Message: "Date already exists"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "Not found"}
	ErrDownstreamFailure = &Error{Kind: KindDownstreamFailure, Message: "Downstream failure"}
)

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NewMissingFields(fields []string) *Error {
	return &Error{
		Kind:    KindMissingFields,
		Message: "Missing required fields: " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

func NewInvalidID(value any) *Error {
	return &Error{Kind: KindInvalidID, Message: fmt.Sprintf("Invalid ID %v", value)}
}

func NewNotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewDownstream(message string, cause error) *Error {
	return &Error{Kind: KindDownstreamFailure, Message: message, Cause: cause}
}

// KindOf reports the kind of err, or "" when err is not a classified *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
