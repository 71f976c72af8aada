// Package result provides an explicit success/failure return value for
// expected business outcomes. Unexpected faults stay on the ordinary error
// channel; a Result failure is always one of a module's cataloged errors.
package result

import "fmt"

// Error is a stable business failure: a machine-readable code of the form
// <Entity>.<Reason> plus a human-readable description. Two Errors are the
// same failure when their codes match.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// None is the zero Error carried by successful results.
var None = Error{}

// NewError creates a cataloged business error.
func NewError(code, description string) Error {
	return Error{Code: code, Description: description}
}

// Error implements the error interface so repositories can surface catalog
// entries as sentinels and callers can use errors.Is.
func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches by code, so wrapped catalog errors compare equal regardless of
// description.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Code == e.Code
}

// Result carries either a value of T or a business Error. Construct it with
// Success or Failure; the zero value is a success with T's zero value.
type Result[T any] struct {
	value  T
	err    Error
	failed bool
}

// Success wraps a value in a successful result.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure wraps a business error in a failed result.
// Passing None is a programmer error.
func Failure[T any](err Error) Result[T] {
	if err == None {
		panic("result: Failure called with no error")
	}
	return Result[T]{err: err, failed: true}
}

// IsSuccess reports whether the result carries a value.
func (r Result[T]) IsSuccess() bool { return !r.failed }

// IsFailure reports whether the result carries an error.
func (r Result[T]) IsFailure() bool { return r.failed }

// Value returns the carried value. Calling it on a failure is a programmer
// error and panics: callers must check IsSuccess first.
func (r Result[T]) Value() T {
	if r.failed {
		panic(fmt.Sprintf("result: Value called on failure %s", r.err.Code))
	}
	return r.value
}

// Err returns the carried error, or None for a success.
func (r Result[T]) Err() Error { return r.err }

// Empty is the value type for results of operations with nothing to return.
type Empty struct{}

// Void is the non-generic variant used by delete-style operations.
type Void = Result[Empty]

// Done returns a successful Void result.
func Done() Void { return Success(Empty{}) }

// Fail returns a failed Void result.
func Fail(err Error) Void { return Failure[Empty](err) }
