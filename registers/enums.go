package registers

import "fmt"

// MicrostepResolution is the MRES encoding of microsteps per full step
type MicrostepResolution uint8

const (
	M256 MicrostepResolution = iota
	M128
	M64
	M32
	M16
	M8
	M4
	M2
	M1
)

// Microsteps returns the number of microsteps per full step.
// Reserved encodings behave as 256.
func (m MicrostepResolution) Microsteps() uint16 {
	if m > M1 {
		return 256
	}
	return 256 >> m
}

func (m MicrostepResolution) String() string {
	return fmt.Sprintf("1/%d", m.Microsteps())
}

// ParseMicrosteps maps a microstep count (1, 2, 4 ... 256) to its encoding
func ParseMicrosteps(n uint16) (MicrostepResolution, error) {
	for m := M256; m <= M1; m++ {
		if m.Microsteps() == n {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid microstep count %d", n)
}

// StandstillMode selects what the driver does at standstill when IHOLD is zero
type StandstillMode uint8

const (
	Normal StandstillMode = iota
	Freewheeling
	StrongBraking // both low side switches on
	Braking       // coils shorted through the low side
)

func (s StandstillMode) String() string {
	switch s {
	case Normal:
		return "normal"
	case Freewheeling:
		return "freewheeling"
	case StrongBraking:
		return "strong-braking"
	case Braking:
		return "braking"
	}
	return fmt.Sprintf("StandstillMode(%d)", uint8(s))
}
