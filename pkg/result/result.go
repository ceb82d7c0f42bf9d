// Package result provides the success/failure containers returned by every
// fallible domain and use-case operation.
package result

import "fmt"

// Result holds either a value or an error, never both.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Ok returns a successful Result carrying v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Fail returns a failed Result. A nil error is a programming error.
func Fail[T any](err error) Result[T] {
	if err == nil {
		panic("result: Fail called with a nil error")
	}
	return Result[T]{err: err}
}

// FailMsg is Fail with a plain message.
func FailMsg[T any](msg string) Result[T] {
	return Fail[T](Message(msg))
}

func (r Result[T]) IsSuccess() bool { return r.ok }
func (r Result[T]) IsFailure() bool { return !r.ok }

// Value returns the carried value. It panics when called on a failure,
// which always indicates a caller bug.
func (r Result[T]) Value() T {
	if !r.ok {
		panic(fmt.Sprintf("result: Value called on a failed result: %v", r.err))
	}
	return r.value
}

// Err returns the failure, or nil for a successful Result.
func (r Result[T]) Err() error { return r.err }

// Error returns the failure message, or "" for a successful Result.
func (r Result[T]) Error() string {
	if r.err == nil {
		return ""
	}
	return r.err.Error()
}

// Outcome is the type-erased view of a Result used by Combine.
type Outcome interface {
	IsFailure() bool
	Err() error
}

// Combine returns the first failed outcome as a Result[struct{}], or a
// plain success when none failed.
func Combine(outcomes ...Outcome) Result[struct{}] {
	for _, o := range outcomes {
		if o.IsFailure() {
			return Fail[struct{}](o.Err())
		}
	}
	return Ok(struct{}{})
}

// Message is an error consisting only of text.
type Message string

func (m Message) Error() string { return string(m) }
