package tmc

import (
	"fmt"
	"sync"

	"tmc2209/protocol"
)

// Bus shares one line between up to four drivers. Transactions from
// different goroutines are serialized so their bytes never interleave.
type Bus struct {
	mu      sync.Mutex
	line    Line
	drivers [protocol.MaxSlave + 1]*Driver
}

// NewBus creates a bus on line
func NewBus(line Line) *Bus {
	return &Bus{line: line}
}

// Do runs fn with exclusive use of the line and the driver for slave
func (b *Bus) Do(slave uint8, fn func(d *Driver) error) error {
	if slave > protocol.MaxSlave {
		return fmt.Errorf("slave address %d out of range 0-%d", slave, protocol.MaxSlave)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.drivers[slave] == nil {
		b.drivers[slave] = New(b.line, slave)
	}
	return fn(b.drivers[slave])
}
