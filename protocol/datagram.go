package protocol

import "encoding/binary"

// ReadRequest is the 4-byte datagram asking a slave for a register value
type ReadRequest [ReadRequestLen]byte

// WriteRequest is the 8-byte datagram storing a value into a slave register
type WriteRequest [WriteRequestLen]byte

// ReadResponse is the 8-byte datagram a slave sends back after a read request
type ReadResponse [ReadResponseLen]byte

// EncodeReadRequest builds a read request. Only the low 7 bits of addr are used.
func EncodeReadRequest(slave, addr uint8) ReadRequest {
	req := ReadRequest{Sync, slave, addr & AddressMask}
	req[PositionReadCRC] = CRC8(req[:PositionReadCRC])
	return req
}

// EncodeWriteRequest builds a write request with the write bit set on the address.
func EncodeWriteRequest(slave, addr uint8, value uint32) WriteRequest {
	req := WriteRequest{Sync, slave, addr&AddressMask | WriteBit}
	binary.BigEndian.PutUint32(req[PositionData:PositionCRC], value)
	req[PositionCRC] = CRC8(req[:PositionCRC])
	return req
}

// EncodeReadResponse builds the reply a slave sends for addr.
// Used by simulated chips and bus sniffers.
func EncodeReadResponse(addr uint8, value uint32) ReadResponse {
	resp := ReadResponse{Sync, MasterAddress, addr & AddressMask}
	binary.BigEndian.PutUint32(resp[PositionData:PositionCRC], value)
	resp[PositionCRC] = CRC8(resp[:PositionCRC])
	return resp
}

// DecodeReadResponse validates a response to a read of expected and returns its value.
// Checks run in order: sync, master address, register address, checksum.
func DecodeReadResponse(resp ReadResponse, expected uint8) (uint32, error) {
	if err := resp.validate(expected&AddressMask, true); err != nil {
		return 0, err
	}
	return resp.Value(), nil
}

// Validate checks framing and checksum without constraining the register address
func (r ReadResponse) Validate() error {
	return r.validate(0, false)
}

func (r ReadResponse) validate(expected uint8, matchAddress bool) error {
	if r[PositionSync] != Sync {
		return &DecodeError{Err: ErrInvalidSync, Expected: Sync, Actual: r[PositionSync]}
	}
	if r[PositionSlave] != MasterAddress {
		return &DecodeError{Err: ErrInvalidMaster, Expected: MasterAddress, Actual: r[PositionSlave]}
	}
	if matchAddress && r[PositionAddress] != expected {
		return &DecodeError{Err: ErrAddressMismatch, Expected: expected, Actual: r[PositionAddress]}
	}
	if crc := CRC8(r[:PositionCRC]); crc != r[PositionCRC] {
		return &DecodeError{Err: ErrChecksumMismatch, Expected: crc, Actual: r[PositionCRC]}
	}
	return nil
}

// Address returns the register address echoed by the slave
func (r ReadResponse) Address() uint8 { return r[PositionAddress] }

// Value returns the big-endian payload
func (r ReadResponse) Value() uint32 {
	return binary.BigEndian.Uint32(r[PositionData:PositionCRC])
}

func (r ReadRequest) Slave() uint8   { return r[PositionSlave] }
func (r ReadRequest) Address() uint8 { return r[PositionAddress] }

func (w WriteRequest) Slave() uint8   { return w[PositionSlave] }
func (w WriteRequest) Address() uint8 { return w[PositionAddress] & AddressMask }
func (w WriteRequest) Value() uint32 {
	return binary.BigEndian.Uint32(w[PositionData:PositionCRC])
}
