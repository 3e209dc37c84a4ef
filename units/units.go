// Package units converts between physical quantities and TMC2209 register values
package units

import "math"

const (
	// DefaultRsense is the sense resistor fitted on most TMC2209 modules, in ohms
	DefaultRsense = 0.11
	// DefaultFclk is the internal clock frequency in Hz
	DefaultFclk = 12_000_000

	// Full scale sense voltages for VSENSE=0 and VSENSE=1
	VfsLow  = 0.325
	VfsHigh = 0.180

	maxCS      = 31
	maxTstep   = 0xFFFFF
	vactualMax = 1<<23 - 1
)

func fullScale(vsense bool) float64 {
	if vsense {
		return VfsHigh
	}
	return VfsLow
}

// CurrentToCS returns the current scale (0-31) for an RMS current in mA.
// Currents below the lowest step give 0. It returns false when the current
// cannot be reached with this sense range.
func CurrentToCS(rmsMilliamps uint16, rsense float64, vsense bool) (uint8, bool) {
	irms := float64(rmsMilliamps) / 1000
	cs := irms*math.Sqrt2*rsense*32/fullScale(vsense) - 1
	switch {
	case cs < 0:
		return 0, true
	case cs > maxCS:
		return 0, false
	}
	return uint8(math.Round(cs)), true
}

// CSToCurrent returns the RMS current in mA produced by a current scale
func CSToCurrent(cs uint8, rsense float64, vsense bool) uint16 {
	if cs > maxCS {
		cs = maxCS
	}
	irms := float64(cs+1) / 32 * fullScale(vsense) / (math.Sqrt2 * rsense)
	return uint16(math.Round(irms * 1000))
}

// OptimalVsense reports whether the high sensitivity range can reach the current
func OptimalVsense(rmsMilliamps uint16, rsense float64) bool {
	return rmsMilliamps <= CSToCurrent(maxCS, rsense, true)
}

// CurrentSettings picks VSENSE and the current scale for an RMS current
func CurrentSettings(rmsMilliamps uint16, rsense float64) (cs uint8, vsense bool, ok bool) {
	vsense = OptimalVsense(rmsMilliamps, rsense)
	cs, ok = CurrentToCS(rmsMilliamps, rsense, vsense)
	return cs, vsense, ok
}

// VelocityToVactual converts full steps per second into a VACTUAL value,
// saturating at the 24-bit signed range
func VelocityToVactual(stepsPerSec float64, microsteps uint16, fclk uint32) int32 {
	v := math.Round(stepsPerSec * float64(microsteps) * (1 << 23) / float64(fclk))
	switch {
	case v > vactualMax:
		return vactualMax
	case v < -vactualMax-1:
		return -vactualMax - 1
	}
	return int32(v)
}

// TstepToVelocity converts a TSTEP reading into full steps per second.
// It returns false for a zero TSTEP.
func TstepToVelocity(tstep uint32, microsteps uint16, fclk uint32) (float64, bool) {
	if tstep == 0 || microsteps == 0 {
		return 0, false
	}
	return float64(fclk) / float64(tstep) / float64(microsteps), true
}

// VelocityToTpwmthrs returns the TSTEP threshold matching a velocity in
// full steps per second. Non-positive velocities give the maximum.
func VelocityToTpwmthrs(stepsPerSec float64, microsteps uint16, fclk uint32) uint32 {
	if stepsPerSec <= 0 {
		return maxTstep
	}
	tstep := float64(fclk) / (stepsPerSec * float64(microsteps))
	if tstep >= maxTstep {
		return maxTstep
	}
	return uint32(tstep)
}
