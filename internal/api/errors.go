package api

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the token is missing, invalid, or expired. The
// session layer treats it as session teardown, never as a per-operation
// error.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError is a 4xx rejection or a malformed response payload. It is
// surfaced to the caller as a message; the cache is left untouched.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransportError is any other transport-level failure (5xx, connection
// refused, bad JSON framing). The cache retains its last-known-good state.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsCanceled reports whether err is a request cancellation. Cancellations
// are benign: they come from workspace switches or teardown and must never
// reach the user or the cache.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
