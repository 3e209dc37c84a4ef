package tmc

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches every *TransportError
	ErrTransport = errors.New("transport error")
	// ErrInvalidAddress is returned for raw register addresses above 0x7F
	ErrInvalidAddress = errors.New("invalid register address")
	// ErrNoResponse is returned when the line delivers no bytes at all
	ErrNoResponse = errors.New("no response")
	// ErrClosed is returned by lines after Close
	ErrClosed = errors.New("line closed")
)

// TransportError wraps a failure of the underlying byte transport.
// Op names the transaction phase that failed: "send", "echo" or "receive".
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
