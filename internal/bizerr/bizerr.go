// Package bizerr defines the closed set of business error kinds shared by all
// API endpoints. Every predictable domain failure is expressed as an *Error
// carrying a stable numeric code and a human-readable message, independent of
// any transport protocol.
//
// Conventions:
//   - The code space is partitioned per domain: 101xx user, 102xx auth,
//     103xx item, 104xx file. Codes are never reused across kinds.
//   - Each Kind has exactly one default (code, message) pair, registered in
//     the kinds table below. New kinds must claim the next free code inside
//     their domain's hundred-block.
//   - Errors are immutable values created at the point of failure and
//     translated into a response envelope exactly once, at the HTTP boundary
//     (see handlers.failBiz).
//
// Example:
//
//	if user == nil {
//	    return bizerr.New(bizerr.UserNotFound)
//	}
package bizerr

import (
	"errors"
	"fmt"
)

// Kind identifies a business error category. The set is closed: the HTTP
// translator relies on every raised error being one of these kinds.
type Kind int

const (
	// KindUnknown is the zero value and is never raised by domain code.
	// The translator reports it (and any non-bizerr error) as an internal
	// defect, keeping it distinguishable from every business code.
	KindUnknown Kind = iota

	// User domain (101xx)
	UserNotFound
	UserNotActive
	UserCreateFail
	UserExists
	PasswordSame
	IncorrectPassword

	// Auth domain (102xx)
	AuthFail
	PermissionDenied
	UserEmailOrPasswordFail
	SuperCanNotDeleteSelf

	// Item domain (103xx)
	ItemNotFound

	// File domain (104xx)
	FileNotFound
	FileTypeError
)

// defaults maps each Kind to its stable code and default message. The table
// is read-only after package init and safe for concurrent use.
var defaults = map[Kind]struct {
	code    int
	message string
}{
	UserNotFound:      {10101, "User not found"},
	UserNotActive:     {10102, "Inactive user"},
	UserCreateFail:    {10103, "An error occurred while creating the user."},
	UserExists:        {10104, "User with this email already exists"},
	PasswordSame:      {10105, "New password cannot be the same as the current one"},
	IncorrectPassword: {10106, "Incorrect password"},

	AuthFail:                {10201, "Could not validate credentials"},
	PermissionDenied:        {10202, "The user doesn't have enough privileges"},
	UserEmailOrPasswordFail: {10203, "Incorrect email or password"},
	SuperCanNotDeleteSelf:   {10204, "Super users are not allowed to delete themselves"},

	ItemNotFound: {10301, "Item not found"},

	FileNotFound:  {10401, "File not found"},
	FileTypeError: {10402, "File type error"},
}

// Error is a typed business failure: a Kind plus the (code, message) pair
// presented to clients. It carries no HTTP status; mapping to the wire is the
// translator's job.
type Error struct {
	Kind    Kind
	Code    int
	Message string
}

// New returns the error value for kind with its default code and message.
// Passing a kind outside the taxonomy panics: that is a programming defect,
// not a runtime condition.
func New(kind Kind) *Error {
	d, ok := defaults[kind]
	if !ok {
		panic(fmt.Sprintf("bizerr: unregistered kind %d", kind))
	}
	return &Error{Kind: kind, Code: d.code, Message: d.message}
}

// Newf returns the error value for kind with a custom message, keeping the
// kind's stable code.
func Newf(kind Kind, format string, args ...any) *Error {
	e := New(kind)
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// Is lets errors.Is match two business errors by kind, so callers can write
// errors.Is(err, bizerr.New(bizerr.ItemNotFound)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// IsKind reports whether err is a business error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

// AsError unwraps err into a *Error when it is (or wraps) a business error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
