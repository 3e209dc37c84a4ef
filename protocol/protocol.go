// Package protocol implements the TMC2209 single-wire UART datagram format
package protocol

// Version represents the tmc2209 module version
const Version = "0.1.0"

// Datagram constants
const (
	Sync          = 0x05 // first byte of every datagram
	MasterAddress = 0xFF // slave field of every response
	WriteBit      = 0x80 // set on the address byte of write requests
	AddressMask   = 0x7F // valid register address bits
	MaxSlave      = 3    // MS1/MS2 select one of four node addresses

	ReadRequestLen  = 4
	WriteRequestLen = 8
	ReadResponseLen = 8

	PositionSync    = 0
	PositionSlave   = 1 // master address in responses
	PositionAddress = 2
	PositionData    = 3 // big-endian 32-bit payload
	PositionReadCRC = ReadRequestLen - 1
	PositionCRC     = WriteRequestLen - 1 // write requests and read responses
)
