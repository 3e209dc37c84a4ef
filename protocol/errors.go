package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSync      = errors.New("invalid sync byte")
	ErrInvalidMaster    = errors.New("invalid master address")
	ErrAddressMismatch  = errors.New("register address mismatch")
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// DecodeError reports which check rejected a read response and the offending byte
type DecodeError struct {
	Err      error
	Expected byte
	Actual   byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: expected 0x%02X, got 0x%02X", e.Err, e.Expected, e.Actual)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
