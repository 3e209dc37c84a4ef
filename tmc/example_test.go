package tmc_test

import (
	"context"
	"fmt"

	"tmc2209/registers"
	"tmc2209/tmc"
	"tmc2209/tmc/tmctest"
	"tmc2209/units"
)

func Example() {
	ctx := context.Background()
	chip := tmctest.NewChip(0) // a serial port in real use
	d := tmc.New(tmc.NewStreamLine(chip), 0)

	if !d.IsConnected(ctx) {
		fmt.Println("no driver")
		return
	}

	intpol := true
	err := d.Apply(ctx, tmc.Setup{
		RunCurrent:   800,
		HoldFraction: 0.5,
		Microsteps:   16,
		Interpolate:  &intpol,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	chop, err := tmc.Read[registers.Chopconf](ctx, d)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("microsteps:", chop.Microsteps())
	fmt.Println("interpolation:", chop.Intpol())
	// Output:
	// microsteps: 16
	// interpolation: true
}

func Example_stealthChop() {
	ctx := context.Background()
	d := tmc.New(tmc.NewStreamLine(tmctest.NewChip(0)), 0)

	// StealthChop below 200 full steps per second, SpreadCycle above
	thrs := units.VelocityToTpwmthrs(200, 16, units.DefaultFclk)
	if err := d.EnableStealthChop(ctx); err != nil {
		fmt.Println(err)
		return
	}
	if err := d.ConfigureStealthChop(ctx, 36, 14, true, true); err != nil {
		fmt.Println(err)
		return
	}
	if err := d.SetStealthChopThreshold(ctx, thrs); err != nil {
		fmt.Println(err)
		return
	}

	pwm, err := tmc.Read[registers.Pwmconf](ctx, d)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("TPWMTHRS:", thrs)
	fmt.Println("autoscale:", pwm.PwmAutoscale())
	// Output:
	// TPWMTHRS: 3750
	// autoscale: true
}

func Example_sensorlessHoming() {
	ctx := context.Background()
	chip := tmctest.NewChip(0)
	d := tmc.New(tmc.NewStreamLine(chip), 0)

	if err := d.EnableStealthChop(ctx); err != nil {
		fmt.Println(err)
		return
	}
	if err := d.ConfigureStallDetection(ctx, 50, 0xFFFFF); err != nil {
		fmt.Println(err)
		return
	}
	if err := d.SetVelocity(ctx, units.VelocityToVactual(100, 16, units.DefaultFclk)); err != nil {
		fmt.Println(err)
		return
	}

	chip.SetRegister(registers.AddrSG_RESULT, 0) // the carriage hits the end stop
	stalled, err := d.IsStalled(ctx)
	if err != nil {
		fmt.Println(err)
		return
	}
	if stalled {
		if err := d.Stop(ctx); err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println("home found")
	}
	// Output:
	// home found
}
