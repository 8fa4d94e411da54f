package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure of a core operation. The HTTP adapter maps kinds to status codes.
type Kind string

const (
	KindNotFound                    Kind = "not_found"
	KindDuplicateKey                Kind = "duplicate_key"
	KindOutOfRange                  Kind = "out_of_range"
	KindEmptySubmission             Kind = "empty_submission"
	KindEnrollmentMissing           Kind = "enrollment_missing"
	KindConflictingActiveEnrollment Kind = "conflicting_active_enrollment"
	KindDuplicateEnrollment         Kind = "duplicate_enrollment"
	KindNoActiveEnrollment          Kind = "no_active_enrollment"
	KindHasDependents               Kind = "has_dependents"
	KindTransactionFailure          Kind = "transaction_failure"
	KindInvalid                     Kind = "invalid"
	KindForbidden                   Kind = "forbidden"
)

// Error is a typed core error with a message meant for the end user.
type Error struct {
	Kind    Kind
	Message string
	// Count is the number of dependent rows for KindHasDependents.
	Count int64
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound                    = &Error{Kind: KindNotFound}
	ErrDuplicateKey                = &Error{Kind: KindDuplicateKey}
	ErrOutOfRange                  = &Error{Kind: KindOutOfRange}
	ErrEmptySubmission             = &Error{Kind: KindEmptySubmission}
	ErrEnrollmentMissing           = &Error{Kind: KindEnrollmentMissing}
	ErrConflictingActiveEnrollment = &Error{Kind: KindConflictingActiveEnrollment}
	ErrDuplicateEnrollment         = &Error{Kind: KindDuplicateEnrollment}
	ErrNoActiveEnrollment          = &Error{Kind: KindNoActiveEnrollment}
	ErrHasDependents               = &Error{Kind: KindHasDependents}
	ErrTransactionFailure          = &Error{Kind: KindTransactionFailure}
	ErrInvalid                     = &Error{Kind: KindInvalid}
	ErrForbidden                   = &Error{Kind: KindForbidden}
)

// New builds an error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func DuplicateKey(format string, args ...interface{}) *Error {
	return New(KindDuplicateKey, format, args...)
}

func Invalid(format string, args ...interface{}) *Error {
	return New(KindInvalid, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(KindForbidden, format, args...)
}

// HasDependents reports a blocked delete or deactivation.
func HasDependents(count int64, format string, args ...interface{}) *Error {
	e := New(KindHasDependents, format, args...)
	e.Count = count
	return e
}

// TransactionFailure wraps the cause of a rolled-back write.
func TransactionFailure(cause error, format string, args ...interface{}) *Error {
	e := New(KindTransactionFailure, format, args...)
	e.Err = cause
	return e
}

// KindOf returns the kind of err, or "" when err is not a core error.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
