package tmc

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmc2209/registers"
	"tmc2209/tmc/tmctest"
)

func newSimDriver(t *testing.T) (*Driver, *tmctest.Chip, context.Context) {
	chip := tmctest.NewChip(0)
	return New(NewStreamLine(chip), 0), chip, testContext(t)
}

func TestSetEnabled(t *testing.T) {
	d, chip, ctx := newSimDriver(t)

	require.NoError(t, d.SetEnabled(ctx, false))
	chop := registers.FromRaw[registers.Chopconf](chip.Register(registers.AddrCHOPCONF))
	assert.Equal(t, uint8(0), chop.Toff())
	assert.Equal(t, uint8(5), chop.Hstrt(), "other fields preserved")

	require.NoError(t, d.SetEnabled(ctx, true))
	chop = registers.FromRaw[registers.Chopconf](chip.Register(registers.AddrCHOPCONF))
	assert.Equal(t, uint8(DefaultToff), chop.Toff())

	// An existing non-zero TOFF is kept
	require.NoError(t, d.ConfigureChopper(ctx, 5, 4, 1, 2))
	require.NoError(t, d.SetEnabled(ctx, true))
	chop = registers.FromRaw[registers.Chopconf](chip.Register(registers.AddrCHOPCONF))
	assert.Equal(t, uint8(5), chop.Toff())
	assert.Equal(t, uint8(2), chop.Tbl())
}

func TestIfcntCountsWrites(t *testing.T) {
	d, _, ctx := newSimDriver(t)

	before, err := d.Ifcnt(ctx)
	require.NoError(t, err)
	require.NoError(t, d.SetVelocity(ctx, -1000))
	require.NoError(t, d.Stop(ctx))
	after, err := d.Ifcnt(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+2, after)
	assert.True(t, d.IsConnected(ctx))
}

func TestClearGstat(t *testing.T) {
	d, _, ctx := newSimDriver(t)

	g, err := d.Gstat(ctx)
	require.NoError(t, err)
	assert.True(t, g.Reset())

	require.NoError(t, d.ClearGstat(ctx))
	g, err = d.Gstat(ctx)
	require.NoError(t, err)
	assert.False(t, g.Any())
}

func TestChopperModes(t *testing.T) {
	d, chip, ctx := newSimDriver(t)

	require.NoError(t, d.EnableSpreadCycle(ctx))
	gconf := registers.FromRaw[registers.Gconf](chip.Register(registers.AddrGCONF))
	assert.True(t, gconf.EnSpreadcycle())
	assert.True(t, gconf.PdnDisable())

	require.NoError(t, d.EnableStealthChop(ctx))
	gconf = registers.FromRaw[registers.Gconf](chip.Register(registers.AddrGCONF))
	assert.False(t, gconf.EnSpreadcycle())

	require.NoError(t, d.ConfigureStealthChop(ctx, 36, 14, true, false))
	pwm := registers.FromRaw[registers.Pwmconf](chip.Register(registers.AddrPWMCONF))
	assert.Equal(t, uint8(36), pwm.PwmOfs())
	assert.Equal(t, uint8(14), pwm.PwmGrad())
	assert.False(t, pwm.PwmAutograd())
	assert.Equal(t, uint8(12), pwm.PwmLim())
}

func TestCoolStepAndStallGuard(t *testing.T) {
	d, chip, ctx := newSimDriver(t)

	require.NoError(t, d.EnableCoolStep(ctx, 20, 2))
	cool := registers.FromRaw[registers.Coolconf](chip.Register(registers.AddrCOOLCONF))
	assert.Equal(t, uint8(15), cool.Semin())
	assert.Equal(t, uint8(2), cool.Semax())
	assert.True(t, cool.Enabled())

	require.NoError(t, d.DisableCoolStep(ctx))
	assert.Zero(t, chip.Register(registers.AddrCOOLCONF))

	require.NoError(t, d.ConfigureStallDetection(ctx, 50, 0xFFFFF))
	assert.Equal(t, uint32(50), chip.Register(registers.AddrSGTHRS))
	assert.Equal(t, uint32(0xFFFFF), chip.Register(registers.AddrTCOOLTHRS))

	stalled, err := d.IsStalled(ctx)
	require.NoError(t, err)
	assert.True(t, stalled)

	chip.SetRegister(registers.AddrSG_RESULT, 300)
	stalled, err = d.IsStalled(ctx)
	require.NoError(t, err)
	assert.False(t, stalled)
}

func TestSetRMSCurrent(t *testing.T) {
	d, chip, ctx := newSimDriver(t)

	require.NoError(t, d.SetRMSCurrent(ctx, 1000, 0.5, 0.11))
	ih := registers.FromRaw[registers.IholdIrun](chip.Register(registers.AddrIHOLD_IRUN))
	assert.Equal(t, uint8(27), ih.Irun())
	assert.Equal(t, uint8(13), ih.Ihold())
	chop := registers.FromRaw[registers.Chopconf](chip.Register(registers.AddrCHOPCONF))
	assert.True(t, chop.Vsense())

	assert.Error(t, d.SetRMSCurrent(ctx, 5000, 0.5, 0.11))
}

func TestStatusSummary(t *testing.T) {
	d, chip, ctx := newSimDriver(t)

	st, err := d.StatusSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, Status{}, st)

	chip.SetRegister(registers.AddrDRV_STATUS, 1<<2|1<<6)
	st, err = d.StatusSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, Status{Errors: true, Warnings: true, Running: true}, st)
}

func TestApply(t *testing.T) {
	d, chip, ctx := newSimDriver(t)
	intpol := true

	err := d.Apply(ctx, Setup{
		RunCurrent:           800,
		HoldFraction:         0.5,
		Microsteps:           16,
		Interpolate:          &intpol,
		StealthChopThreshold: 100,
	})
	require.NoError(t, err)

	gconf := registers.FromRaw[registers.Gconf](chip.Register(registers.AddrGCONF))
	assert.True(t, gconf.PdnDisable())
	assert.True(t, gconf.MstepRegSelect())
	assert.False(t, gconf.EnSpreadcycle())

	chop := registers.FromRaw[registers.Chopconf](chip.Register(registers.AddrCHOPCONF))
	assert.Equal(t, registers.M16, chop.Mres())
	assert.True(t, chop.Intpol())

	assert.Equal(t, uint32(7500), chip.Register(registers.AddrTPWMTHRS))
	assert.Zero(t, chip.Register(registers.AddrGSTAT))

	assert.Error(t, d.Apply(ctx, Setup{Microsteps: 3}))
}

func TestApplyInterpolationWithoutMicrosteps(t *testing.T) {
	d, chip, ctx := newSimDriver(t)
	off := false

	require.NoError(t, d.Apply(ctx, Setup{Interpolate: &off}))
	chop := registers.FromRaw[registers.Chopconf](chip.Register(registers.AddrCHOPCONF))
	assert.False(t, chop.Intpol())
	assert.Equal(t, registers.M256, chop.Mres())

	// Left unset, INTPOL keeps its current value
	chip.SetRegister(registers.AddrCHOPCONF, 0x10000053)
	require.NoError(t, d.Apply(ctx, Setup{Microsteps: 8}))
	chop = registers.FromRaw[registers.Chopconf](chip.Register(registers.AddrCHOPCONF))
	assert.True(t, chop.Intpol())
	assert.Equal(t, registers.M8, chop.Mres())
}

func TestBusSerializesDrivers(t *testing.T) {
	chip := tmctest.NewChip(0)
	bus := NewBus(NewStreamLine(chip))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				errs <- bus.Do(0, func(d *Driver) error {
					_, err := Read[registers.Chopconf](ctx, d)
					return err
				})
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Error(t, bus.Do(4, func(*Driver) error { return nil }))
}
