package tmc

import (
	"context"
	"fmt"

	"tmc2209/registers"
	"tmc2209/units"
)

// DefaultToff is the off time restored by SetEnabled when the driver was off
const DefaultToff = 3

// IsConnected reports whether the chip answers a read of IFCNT
func (d *Driver) IsConnected(ctx context.Context) bool {
	_, err := d.Ifcnt(ctx)
	return err == nil
}

// Ifcnt returns the count of accepted write datagrams
func (d *Driver) Ifcnt(ctx context.Context) (uint8, error) {
	r, err := Read[registers.Ifcnt](ctx, d)
	return r.Count(), err
}

func (d *Driver) Gstat(ctx context.Context) (registers.Gstat, error) {
	return Read[registers.Gstat](ctx, d)
}

// ClearGstat clears all latched status flags
func (d *Driver) ClearGstat(ctx context.Context) error {
	g := registers.GstatClearAll()
	return d.WriteRegister(ctx, &g)
}

func (d *Driver) Ioin(ctx context.Context) (registers.Ioin, error) {
	return Read[registers.Ioin](ctx, d)
}

func (d *Driver) DrvStatus(ctx context.Context) (registers.DrvStatus, error) {
	return Read[registers.DrvStatus](ctx, d)
}

func (d *Driver) Tstep(ctx context.Context) (uint32, error) {
	r, err := Read[registers.Tstep](ctx, d)
	return r.Tstep(), err
}

// SgResult returns the StallGuard load value, 0 meaning highest load
func (d *Driver) SgResult(ctx context.Context) (uint16, error) {
	r, err := Read[registers.SgResult](ctx, d)
	return r.SgResult(), err
}

func (d *Driver) Mscnt(ctx context.Context) (uint16, error) {
	r, err := Read[registers.Mscnt](ctx, d)
	return r.Mscnt(), err
}

// SetCurrent writes the run and hold current scales (0-31) and the hold delay (0-15)
func (d *Driver) SetCurrent(ctx context.Context, run, hold, holdDelay uint8) error {
	r := registers.NewIholdIrun()
	r.SetIrun(run).SetIhold(hold).SetIholddelay(holdDelay)
	return d.WriteRegister(ctx, &r)
}

// SetRMSCurrent sets the run current in mA and the hold current as a
// fraction of it, choosing VSENSE for the best resolution. CHOPCONF is
// read back so its other fields are preserved.
func (d *Driver) SetRMSCurrent(ctx context.Context, runMilliamps uint16, holdFraction, rsense float64) error {
	cs, vsense, ok := units.CurrentSettings(runMilliamps, rsense)
	if !ok {
		return fmt.Errorf("run current %d mA out of range for rsense %.3f", runMilliamps, rsense)
	}

	chop, err := Read[registers.Chopconf](ctx, d)
	if err != nil {
		return err
	}
	if chop.Vsense() != vsense {
		chop.SetVsense(vsense)
		if err := d.WriteRegister(ctx, &chop); err != nil {
			return err
		}
	}

	hold := uint8(float64(cs+1)*holdFraction + 0.5)
	if hold > 0 {
		hold--
	}
	return d.SetCurrent(ctx, cs, hold, registers.NewIholdIrun().Iholddelay())
}

// SetMicrosteps changes MRES, keeping the other CHOPCONF fields.
// GCONF.mstep_reg_select must be set for MRES to take effect.
func (d *Driver) SetMicrosteps(ctx context.Context, m registers.MicrostepResolution) error {
	return d.updateChopconf(ctx, func(c *registers.Chopconf) { c.SetMres(m) })
}

// SetEnabled switches the power stage through TOFF. Enabling restores
// DefaultToff only if TOFF is currently zero.
func (d *Driver) SetEnabled(ctx context.Context, enabled bool) error {
	return d.updateChopconf(ctx, func(c *registers.Chopconf) {
		switch {
		case !enabled:
			c.SetToff(0)
		case c.Toff() == 0:
			c.SetToff(DefaultToff)
		}
	})
}

// SetVsense selects the sense voltage range
func (d *Driver) SetVsense(ctx context.Context, high bool) error {
	return d.updateChopconf(ctx, func(c *registers.Chopconf) { c.SetVsense(high) })
}

func (d *Driver) SetInterpolation(ctx context.Context, enabled bool) error {
	return d.updateChopconf(ctx, func(c *registers.Chopconf) { c.SetIntpol(enabled) })
}

// ConfigureChopper sets the chopper timing fields, clamped to their ranges
func (d *Driver) ConfigureChopper(ctx context.Context, toff, hstrt, hend, tbl uint8) error {
	return d.updateChopconf(ctx, func(c *registers.Chopconf) {
		c.SetToff(min(toff, 15)).SetHstrt(min(hstrt, 7)).SetHend(min(hend, 15)).SetTbl(min(tbl, 3))
	})
}

func (d *Driver) updateChopconf(ctx context.Context, fn func(c *registers.Chopconf)) error {
	chop, err := Read[registers.Chopconf](ctx, d)
	if err != nil {
		return err
	}
	fn(&chop)
	return d.WriteRegister(ctx, &chop)
}

// SetVelocity drives the motor from the internal step generator.
// Zero stops it and returns control to the STEP input.
func (d *Driver) SetVelocity(ctx context.Context, vactual int32) error {
	var r registers.Vactual
	r.SetVactual(vactual)
	return d.WriteRegister(ctx, &r)
}

// Stop sets VACTUAL to zero
func (d *Driver) Stop(ctx context.Context) error {
	return d.SetVelocity(ctx, 0)
}

func (d *Driver) EnableStealthChop(ctx context.Context) error {
	return d.updateGconf(ctx, func(g *registers.Gconf) { g.SetEnSpreadcycle(false) })
}

func (d *Driver) EnableSpreadCycle(ctx context.Context) error {
	return d.updateGconf(ctx, func(g *registers.Gconf) { g.SetEnSpreadcycle(true) })
}

func (d *Driver) updateGconf(ctx context.Context, fn func(g *registers.Gconf)) error {
	gconf, err := Read[registers.Gconf](ctx, d)
	if err != nil {
		return err
	}
	fn(&gconf)
	return d.WriteRegister(ctx, &gconf)
}

// ConfigureStealthChop updates the PWM offset, gradient and automatic tuning
func (d *Driver) ConfigureStealthChop(ctx context.Context, ofs, grad uint8, autoscale, autograd bool) error {
	pwm, err := Read[registers.Pwmconf](ctx, d)
	if err != nil {
		return err
	}
	pwm.SetPwmOfs(ofs).SetPwmGrad(grad).SetPwmAutoscale(autoscale).SetPwmAutograd(autograd)
	return d.WriteRegister(ctx, &pwm)
}

// SetStealthChopThreshold writes TPWMTHRS
func (d *Driver) SetStealthChopThreshold(ctx context.Context, tstep uint32) error {
	var r registers.Tpwmthrs
	r.SetTpwmthrs(tstep)
	return d.WriteRegister(ctx, &r)
}

// SetCoolStepThreshold writes TCOOLTHRS
func (d *Driver) SetCoolStepThreshold(ctx context.Context, tstep uint32) error {
	var r registers.Tcoolthrs
	r.SetTcoolthrs(tstep)
	return d.WriteRegister(ctx, &r)
}

// EnableCoolStep enables load adaptive current with the given StallGuard
// window, using the smallest increment and decrement steps
func (d *Driver) EnableCoolStep(ctx context.Context, semin, semax uint8) error {
	var r registers.Coolconf
	r.SetSemin(min(semin, 15)).SetSemax(min(semax, 15)).SetSeup(0).SetSedn(0)
	return d.WriteRegister(ctx, &r)
}

func (d *Driver) DisableCoolStep(ctx context.Context) error {
	var r registers.Coolconf
	return d.WriteRegister(ctx, &r)
}

// SetStallThreshold writes SGTHRS
func (d *Driver) SetStallThreshold(ctx context.Context, threshold uint8) error {
	var r registers.Sgthrs
	r.SetSgthrs(threshold)
	return d.WriteRegister(ctx, &r)
}

// ConfigureStallDetection sets the StallGuard threshold and the TSTEP
// value below which the DIAG output reports stalls
func (d *Driver) ConfigureStallDetection(ctx context.Context, threshold uint8, tcoolthrs uint32) error {
	if err := d.SetStallThreshold(ctx, threshold); err != nil {
		return err
	}
	return d.SetCoolStepThreshold(ctx, tcoolthrs)
}

// IsStalled reports a zero StallGuard result
func (d *Driver) IsStalled(ctx context.Context) (bool, error) {
	sg, err := d.SgResult(ctx)
	return err == nil && sg == 0, err
}

// Status summarizes DRV_STATUS
type Status struct {
	Errors   bool // short or overtemperature shutdown
	Warnings bool // overtemperature pre-warning or open load
	Running  bool
}

func (d *Driver) StatusSummary(ctx context.Context) (Status, error) {
	drv, err := d.DrvStatus(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Errors:   drv.HasError(),
		Warnings: drv.Otpw() || drv.OpenLoadDetected(),
		Running:  !drv.Stst(),
	}, nil
}

// Setup is an initial configuration applied once after connecting
type Setup struct {
	RunCurrent   uint16  // mA RMS, zero leaves IHOLD_IRUN untouched
	HoldFraction float64 // hold current relative to run current
	Rsense       float64
	Microsteps   uint16 // zero leaves MRES untouched
	Interpolate  *bool  // nil leaves INTPOL untouched
	SpreadCycle  bool
	// StealthChop below this velocity in full steps per second, zero disables the switch-over
	StealthChopThreshold float64
	StallThreshold       uint8  // SGTHRS
	CoolStepThreshold    uint32 // TCOOLTHRS
}

// Apply configures the chip for UART control: PDN_UART is released for
// UART, MRES is taken from the register, then the optional settings are
// written and GSTAT is cleared.
func (d *Driver) Apply(ctx context.Context, s Setup) error {
	rsense := s.Rsense
	if rsense == 0 {
		rsense = units.DefaultRsense
	}

	if err := d.updateGconf(ctx, func(g *registers.Gconf) {
		g.SetPdnDisable(true).SetMstepRegSelect(true).SetEnSpreadcycle(s.SpreadCycle)
	}); err != nil {
		return fmt.Errorf("failed to configure GCONF: %w", err)
	}

	if s.Microsteps != 0 || s.Interpolate != nil {
		var m registers.MicrostepResolution
		if s.Microsteps != 0 {
			var err error
			if m, err = registers.ParseMicrosteps(s.Microsteps); err != nil {
				return err
			}
		}
		if err := d.updateChopconf(ctx, func(c *registers.Chopconf) {
			if s.Microsteps != 0 {
				c.SetMres(m)
			}
			if s.Interpolate != nil {
				c.SetIntpol(*s.Interpolate)
			}
		}); err != nil {
			return fmt.Errorf("failed to configure CHOPCONF: %w", err)
		}
	}

	if s.RunCurrent != 0 {
		if err := d.SetRMSCurrent(ctx, s.RunCurrent, s.HoldFraction, rsense); err != nil {
			return fmt.Errorf("failed to set current: %w", err)
		}
	}

	if s.StealthChopThreshold > 0 {
		chop, err := Read[registers.Chopconf](ctx, d)
		if err != nil {
			return err
		}
		thrs := units.VelocityToTpwmthrs(s.StealthChopThreshold, chop.Microsteps(), units.DefaultFclk)
		if err := d.SetStealthChopThreshold(ctx, thrs); err != nil {
			return fmt.Errorf("failed to set TPWMTHRS: %w", err)
		}
	}

	if s.StallThreshold != 0 || s.CoolStepThreshold != 0 {
		if err := d.ConfigureStallDetection(ctx, s.StallThreshold, s.CoolStepThreshold); err != nil {
			return fmt.Errorf("failed to configure stall detection: %w", err)
		}
	}

	return d.ClearGstat(ctx)
}
