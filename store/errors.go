package store

import (
	"errors"
	"fmt"
)

var (
	// ErrPayloadTooLarge is wrapped by RemoteWriteError when a value exceeds the document limit.
	ErrPayloadTooLarge = errors.New("payload exceeds store limit")
	// ErrUnexpectedShape is returned by CoerceArray for scalars.
	ErrUnexpectedShape = errors.New("collection value is neither array nor object")
	ErrGatewayClosed   = errors.New("gateway closed")
)

// RemoteReadError reports a failed read or subscription. Callers see it as "no data".
type RemoteReadError struct {
	Collection string
	Err        error
}

func (e *RemoteReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Collection, e.Err)
}

func (e *RemoteReadError) Unwrap() error {
	return e.Err
}

// RemoteWriteError reports a failed whole-collection replace. The caller's local mirror keeps
// its optimistic value.
type RemoteWriteError struct {
	Collection string
	Err        error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("replace %s: %v", e.Collection, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}
