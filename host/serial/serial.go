package serial

import (
	"io"
)

// Port represents the host end of the single-wire TMC UART.
// Implementations:
// - Native serial (using github.com/tarm/serial)
// - Simulated chip (tmc/tmctest) for dry runs
type Port interface {
	io.ReadWriteCloser

	// Flush discards bytes received but not yet read
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate. The TMC2209 detects it automatically from the sync nibble.
	Baud int

	// Read timeout in milliseconds. Must be non-zero: a silent chip would
	// otherwise block a read forever.
	ReadTimeout int
}

// DefaultConfig returns a default configuration for a TMC2209 UART
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}

// NopFlush adapts a port without input buffering, such as a simulator
func NopFlush(rwc io.ReadWriteCloser) Port {
	return nopFlusher{rwc}
}

type nopFlusher struct {
	io.ReadWriteCloser
}

func (nopFlusher) Flush() error { return nil }
