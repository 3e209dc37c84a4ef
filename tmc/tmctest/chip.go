// Package tmctest provides a simulated TMC2209 on a half-duplex line
package tmctest

import (
	"io"
	"sync"

	"tmc2209/protocol"
	"tmc2209/registers"
)

// Fault corrupts the chip's handling of the next datagram it receives
type Fault int

const (
	NoFault       Fault = iota
	FaultSync           // wrong sync byte
	FaultMaster         // wrong master address
	FaultAddress        // reports the register three addresses up
	FaultChecksum       // flipped checksum bit
	FaultSilent         // echo only, no response
	FaultShortEcho      // echo missing its last byte, no response
)

// Chip simulates one TMC2209 and the echoing single-wire bus it sits on.
// It implements io.ReadWriteCloser: bytes written are the host's
// transmissions, bytes read are the echo followed by any response.
// Read returns io.EOF when nothing is pending, like a serial port whose
// read timeout expired.
type Chip struct {
	mu sync.Mutex

	slave   uint8
	regs    map[registers.Address]uint32
	ifcnt   uint8
	pending []byte
	out     []byte
	traffic []byte
	fault   Fault
	closed  bool
}

// NewChip returns a chip at slave address slave holding power-up values
func NewChip(slave uint8) *Chip {
	c := &Chip{
		slave: slave,
		regs:  make(map[registers.Address]uint32),
	}
	for _, r := range registers.All() {
		c.regs[r.Address()] = r.Default()
	}
	c.regs[registers.AddrGSTAT] = 0x01      // reset flag
	c.regs[registers.AddrIOIN] = 0x21000040 // version, PDN_UART high
	c.regs[registers.AddrTSTEP] = registers.TstepStandstill
	c.regs[registers.AddrDRV_STATUS] = 0xC0000000 // standstill, StealthChop
	return c
}

// InjectFault applies f to the next datagram. Response faults have no
// effect when that datagram is a write.
func (c *Chip) InjectFault(f Fault) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fault = f
}

// Register returns the simulated register value
func (c *Chip) Register(addr registers.Address) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if addr == registers.AddrIFCNT {
		return uint32(c.ifcnt)
	}
	return c.regs[addr]
}

// SetRegister changes a register behind the host's back, e.g. to raise a fault flag
func (c *Chip) SetRegister(addr registers.Address, v uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[addr] = v
}

// Traffic returns every byte the host has written so far
func (c *Chip) Traffic() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.traffic...)
}

func (c *Chip) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, io.ErrClosedPipe
	}

	c.traffic = append(c.traffic, p...)
	c.pending = append(c.pending, p...)
	c.process()
	return len(p), nil
}

func (c *Chip) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.out) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.out)
	c.out = c.out[n:]
	return n, nil
}

// Close makes further writes fail
func (c *Chip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// process consumes complete datagrams from pending
func (c *Chip) process() {
	for len(c.pending) > 0 {
		if c.pending[0] != protocol.Sync {
			c.out = append(c.out, c.pending[0])
			c.pending = c.pending[1:]
			continue
		}
		if len(c.pending) < protocol.ReadRequestLen {
			return
		}

		size := protocol.ReadRequestLen
		if c.pending[protocol.PositionAddress]&protocol.WriteBit != 0 {
			size = protocol.WriteRequestLen
		}
		if len(c.pending) < size {
			return
		}

		frame := c.pending[:size]
		c.pending = c.pending[size:]
		c.handle(frame)
	}
}

func (c *Chip) handle(frame []byte) {
	fault := c.fault
	c.fault = NoFault

	echo := frame
	if fault == FaultShortEcho {
		echo = frame[:len(frame)-1]
	}
	c.out = append(c.out, echo...)

	if !protocol.VerifyCRC8(frame) || frame[protocol.PositionSlave] != c.slave {
		return
	}

	if len(frame) == protocol.WriteRequestLen {
		var req protocol.WriteRequest
		copy(req[:], frame)
		c.write(registers.Address(req.Address()), req.Value())
		return
	}

	addr := frame[protocol.PositionAddress]
	switch fault {
	case FaultSilent, FaultShortEcho:
		return
	case FaultAddress:
		addr = (addr + 3) & protocol.AddressMask
	}

	requested := registers.Address(frame[protocol.PositionAddress])
	value := c.regs[requested]
	if requested == registers.AddrIFCNT {
		value = uint32(c.ifcnt)
	}
	resp := protocol.EncodeReadResponse(addr, value)

	switch fault {
	case FaultSync:
		resp[protocol.PositionSync] = 0x0A
	case FaultMaster:
		resp[protocol.PositionSlave] = 0x00
	case FaultChecksum:
		resp[protocol.PositionCRC] ^= 0x01
	}
	c.out = append(c.out, resp[:]...)
}

func (c *Chip) write(addr registers.Address, v uint32) {
	c.ifcnt++
	switch {
	case addr == registers.AddrGSTAT:
		c.regs[addr] &^= v
	case addr.Known() && !addr.Writable():
	default:
		c.regs[addr] = v
	}
}

// Buffered returns the number of bytes ready to be read, so a Chip can
// stand in for a microcontroller UART
func (c *Chip) Buffered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.out)
}
