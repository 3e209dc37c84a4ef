package registers

import "fmt"

// Address is a 7-bit TMC2209 register address
type Address uint8

// TMC2209 register addresses
const (
	// General configuration (0x00-0x0F)
	AddrGCONF        Address = 0x00 // Global configuration flags
	AddrGSTAT        Address = 0x01 // Global status flags, write 1 to clear
	AddrIFCNT        Address = 0x02 // Interface write transmission counter
	AddrSLAVECONF    Address = 0x03 // Send delay for read responses
	AddrOTP_PROG     Address = 0x04 // OTP programming
	AddrOTP_READ     Address = 0x05 // OTP memory contents
	AddrIOIN         Address = 0x06 // Input pin states and silicon version
	AddrFACTORY_CONF Address = 0x07 // Clock and overtemperature trim

	// Velocity dependent control (0x10-0x1F)
	AddrIHOLD_IRUN Address = 0x10 // Driver current control
	AddrTPOWERDOWN Address = 0x11 // Delay before standstill current reduction
	AddrTSTEP      Address = 0x12 // Measured time between microsteps
	AddrTPWMTHRS   Address = 0x13 // Upper velocity for StealthChop
	AddrTCOOLTHRS  Address = 0x14 // Lower velocity for CoolStep and StallGuard output
	AddrVACTUAL    Address = 0x22 // Internal step generator velocity

	// StallGuard and CoolStep (0x40-0x4F)
	AddrSGTHRS    Address = 0x40 // StallGuard threshold
	AddrSG_RESULT Address = 0x41 // StallGuard measurement
	AddrCOOLCONF  Address = 0x42 // CoolStep configuration

	// Sequencer and chopper (0x6A-0x7F)
	AddrMSCNT      Address = 0x6A // Microstep counter
	AddrMSCURACT   Address = 0x6B // Actual microstep currents
	AddrCHOPCONF   Address = 0x6C // Chopper configuration
	AddrDRV_STATUS Address = 0x6F // Driver status flags and current level
	AddrPWMCONF    Address = 0x70 // StealthChop PWM configuration
	AddrPWM_SCALE  Address = 0x71 // StealthChop PWM amplitude
	AddrPWM_AUTO   Address = 0x72 // Automatically tuned PWM values
)

type access uint8

const (
	accessRead access = 1 << iota
	accessWrite
)

type addressInfo struct {
	name   string
	access access
}

var addressTable = map[Address]addressInfo{
	AddrGCONF:        {"GCONF", accessRead | accessWrite},
	AddrGSTAT:        {"GSTAT", accessRead | accessWrite},
	AddrIFCNT:        {"IFCNT", accessRead},
	AddrSLAVECONF:    {"SLAVECONF", accessWrite},
	AddrOTP_PROG:     {"OTP_PROG", accessWrite},
	AddrOTP_READ:     {"OTP_READ", accessRead},
	AddrIOIN:         {"IOIN", accessRead},
	AddrFACTORY_CONF: {"FACTORY_CONF", accessRead | accessWrite},
	AddrIHOLD_IRUN:   {"IHOLD_IRUN", accessWrite},
	AddrTPOWERDOWN:   {"TPOWERDOWN", accessWrite},
	AddrTSTEP:        {"TSTEP", accessRead},
	AddrTPWMTHRS:     {"TPWMTHRS", accessWrite},
	AddrTCOOLTHRS:    {"TCOOLTHRS", accessWrite},
	AddrVACTUAL:      {"VACTUAL", accessWrite},
	AddrSGTHRS:       {"SGTHRS", accessWrite},
	AddrSG_RESULT:    {"SG_RESULT", accessRead},
	AddrCOOLCONF:     {"COOLCONF", accessWrite},
	AddrMSCNT:        {"MSCNT", accessRead},
	AddrMSCURACT:     {"MSCURACT", accessRead},
	AddrCHOPCONF:     {"CHOPCONF", accessRead | accessWrite},
	AddrDRV_STATUS:   {"DRV_STATUS", accessRead},
	AddrPWMCONF:      {"PWMCONF", accessRead | accessWrite},
	AddrPWM_SCALE:    {"PWM_SCALE", accessRead},
	AddrPWM_AUTO:     {"PWM_AUTO", accessRead},
}

// String returns the datasheet name, or the hex address for unknown registers
func (a Address) String() string {
	if info, ok := addressTable[a]; ok {
		return info.name
	}
	return fmt.Sprintf("0x%02X", uint8(a))
}

// Known reports whether a names one of the TMC2209 registers
func (a Address) Known() bool {
	_, ok := addressTable[a]
	return ok
}

// Readable reports whether the chip answers reads of a
func (a Address) Readable() bool {
	return addressTable[a].access&accessRead != 0
}

// Writable reports whether the chip accepts writes to a
func (a Address) Writable() bool {
	return addressTable[a].access&accessWrite != 0
}
