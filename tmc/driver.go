// Package tmc talks to TMC2209 stepper drivers over the single-wire UART.
//
// A Driver owns one slave address on a Line. Each call is one complete
// transaction: stale input is drained, the request is sent, its echo
// discarded and, for reads, the response validated. Nothing is retried and
// nothing is resynchronized; any failure is returned to the caller. Calls on drivers that share a line
// must be serialized, see Bus.
package tmc

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"tmc2209/protocol"
	"tmc2209/registers"
)

// Driver addresses one TMC2209 on a shared line
type Driver struct {
	line  Line
	slave uint8
}

// New creates a driver for slave (0-3) on line. It panics on an out of
// range slave address, which is a wiring-time programming error.
func New(line Line, slave uint8) *Driver {
	if slave > protocol.MaxSlave {
		panic(fmt.Sprintf("tmc: slave address %d out of range 0-%d", slave, protocol.MaxSlave))
	}
	return &Driver{line: line, slave: slave}
}

// Slave returns the node address set by the MS1/MS2 pins
func (d *Driver) Slave() uint8 {
	return d.slave
}

// Line returns the transport the driver sends on
func (d *Driver) Line() Line {
	return d.line
}

// ReadRegister reads r's address from the chip and stores the value in r
func (d *Driver) ReadRegister(ctx context.Context, r registers.Readable) error {
	v, err := d.read(ctx, uint8(r.Address()))
	if err != nil {
		return err
	}
	r.SetRaw(v)
	return nil
}

// WriteRegister writes r's raw value to the chip. The chip does not
// acknowledge writes; compare IFCNT before and after to confirm one.
func (d *Driver) WriteRegister(ctx context.Context, r registers.Writable) error {
	return d.write(ctx, uint8(r.Address()), r.Raw())
}

// ReadRaw reads an arbitrary register address
func (d *Driver) ReadRaw(ctx context.Context, addr uint8) (uint32, error) {
	if addr > protocol.AddressMask {
		return 0, fmt.Errorf("%w: 0x%02X", ErrInvalidAddress, addr)
	}
	return d.read(ctx, addr)
}

// WriteRaw writes value to an arbitrary register address
func (d *Driver) WriteRaw(ctx context.Context, addr uint8, value uint32) error {
	if addr > protocol.AddressMask {
		return fmt.Errorf("%w: 0x%02X", ErrInvalidAddress, addr)
	}
	return d.write(ctx, addr, value)
}

// Read is the typed form of ReadRegister:
//
//	drv, err := tmc.Read[registers.DrvStatus](ctx, d)
func Read[R any, P interface {
	*R
	registers.Readable
}](ctx context.Context, d *Driver) (R, error) {
	var r R
	err := d.ReadRegister(ctx, P(&r))
	return r, err
}

// drain drops input left over from an abandoned transaction, so a late
// reply is never taken as the answer to this one
func (d *Driver) drain() {
	dr, ok := d.line.(Drainer)
	if !ok {
		return
	}
	if n := dr.Drain(); n > 0 {
		glog.V(1).Infof("tmc[%d]: discarded %d stale bytes", d.slave, n)
	}
}

func (d *Driver) read(ctx context.Context, addr uint8) (uint32, error) {
	d.drain()
	req := protocol.EncodeReadRequest(d.slave, addr)
	if err := d.line.Send(ctx, req[:]); err != nil {
		return 0, &TransportError{Op: "send", Err: err}
	}

	// Half duplex: our own request comes back first
	var echo protocol.ReadRequest
	if err := d.line.Receive(ctx, echo[:]); err != nil {
		return 0, &TransportError{Op: "echo", Err: err}
	}

	var resp protocol.ReadResponse
	if err := d.line.Receive(ctx, resp[:]); err != nil {
		return 0, &TransportError{Op: "receive", Err: err}
	}

	if glog.V(3) {
		glog.Infof("tmc[%d]: read %s tx=% X rx=% X", d.slave, registers.Address(addr), req, resp)
	}

	v, err := protocol.DecodeReadResponse(resp, addr)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", registers.Address(addr), err)
	}
	return v, nil
}

func (d *Driver) write(ctx context.Context, addr uint8, value uint32) error {
	d.drain()
	req := protocol.EncodeWriteRequest(d.slave, addr, value)
	if err := d.line.Send(ctx, req[:]); err != nil {
		return &TransportError{Op: "send", Err: err}
	}

	var echo protocol.WriteRequest
	if err := d.line.Receive(ctx, echo[:]); err != nil {
		return &TransportError{Op: "echo", Err: err}
	}

	if glog.V(3) {
		glog.Infof("tmc[%d]: write %s tx=% X", d.slave, registers.Address(addr), req)
	}
	return nil
}
