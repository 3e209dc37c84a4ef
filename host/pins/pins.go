// Package pins drives the TMC2209 EN input and watches its DIAG output
package pins

import (
	"errors"
	"time"
)

// ErrNotWired is returned when a pin operation targets a line that is not configured
var ErrNotWired = errors.New("pin not wired")

// Stall is reported on every rising edge of DIAG
type Stall struct {
	// Timestamp is the kernel event time, relative to boot
	Timestamp time.Duration
}

// Config selects the GPIO chip and line offsets, -1 for unwired lines
type Config struct {
	Chip   string
	Enable int
	Diag   int
}
