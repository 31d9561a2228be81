package helper

import "fmt"

// Error wraps an underlying error with a short trace of the operation that
// failed.
type Error struct {
	Trace string
	Err   error
}

// NewError creates a new Error with the given trace and underlying error.
func NewError(trace string, err error) *Error {
	return &Error{Trace: trace, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("error in %s: %v", e.Trace, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
