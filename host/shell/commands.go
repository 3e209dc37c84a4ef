package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"tmc2209/host/monitor"
	"tmc2209/host/pins"
	"tmc2209/protocol"
	"tmc2209/registers"
	"tmc2209/units"
)

var commands = []*command{
	{name: "read", aliases: []string{"r"}, args: "<register>", help: "Read and decode a register",
		minArgs: 1, maxArgs: 1, run: cmdRead},
	{name: "write", aliases: []string{"w"}, args: "<register> <value>", help: "Write a raw register value",
		minArgs: 2, maxArgs: 2, run: cmdWrite},
	{name: "get", args: "<register> <field>", help: "Read a single field",
		minArgs: 2, maxArgs: 2, run: cmdGet},
	{name: "set", args: "<register> <field> <value>", help: "Read-modify-write a single field",
		minArgs: 3, maxArgs: 3, run: cmdSet},
	{name: "dump", help: "Read every readable register",
		maxArgs: 0, run: cmdDump},
	{name: "status", help: "Show connection, GSTAT and DRV_STATUS summary",
		maxArgs: 0, run: cmdStatus},
	{name: "current", args: "<run_mA> [hold_fraction]", help: "Set RMS run and hold current",
		minArgs: 1, maxArgs: 2, run: cmdCurrent},
	{name: "microsteps", args: "<1|2|4|...|256>", help: "Set microstep resolution",
		minArgs: 1, maxArgs: 1, run: cmdMicrosteps},
	{name: "stealthchop", help: "Switch to StealthChop", maxArgs: 0,
		run: func(ctx context.Context, s *Shell, _ []string) error {
			return s.ok(s.Driver.EnableStealthChop(ctx))
		}},
	{name: "spreadcycle", help: "Switch to SpreadCycle", maxArgs: 0,
		run: func(ctx context.Context, s *Shell, _ []string) error {
			return s.ok(s.Driver.EnableSpreadCycle(ctx))
		}},
	{name: "velocity", aliases: []string{"v"}, args: "<vactual>", help: "Move using the internal step generator",
		minArgs: 1, maxArgs: 1, run: cmdVelocity},
	{name: "stop", help: "Stop internal motion", maxArgs: 0,
		run: func(ctx context.Context, s *Shell, _ []string) error {
			return s.ok(s.Driver.Stop(ctx))
		}},
	{name: "enable", help: "Enable the power stage", maxArgs: 0,
		run: func(ctx context.Context, s *Shell, _ []string) error {
			return s.ok(s.setEnabled(ctx, true))
		}},
	{name: "disable", help: "Disable the power stage", maxArgs: 0,
		run: func(ctx context.Context, s *Shell, _ []string) error {
			return s.ok(s.setEnabled(ctx, false))
		}},
	{name: "monitor", args: "[seconds]", help: "Publish status snapshots",
		maxArgs: 1, run: cmdMonitor},
	{name: "sniff", args: "[seconds]", help: "Decode read responses seen on the bus",
		maxArgs: 1, run: cmdSniff},
	{name: "stalls", args: "[seconds]", help: "Report DIAG stall events",
		maxArgs: 1, run: cmdStalls},
}

func (s *Shell) ok(err error) error {
	if err != nil {
		return err
	}
	s.printf("OK\n")
	return nil
}

func (s *Shell) setEnabled(ctx context.Context, on bool) error {
	if err := s.Driver.SetEnabled(ctx, on); err != nil {
		return err
	}
	if s.Pins == nil {
		return nil
	}
	if err := s.Pins.Enable(on); err != nil && !errors.Is(err, pins.ErrNotWired) {
		return err
	}
	return nil
}

func cmdRead(ctx context.Context, s *Shell, args []string) error {
	addr, err := registers.Lookup(args[0])
	if err != nil {
		return err
	}
	if addr.Known() && !addr.Readable() {
		return fmt.Errorf("%s is write-only", addr)
	}
	raw, err := s.Driver.ReadRaw(ctx, uint8(addr))
	if err != nil {
		return err
	}
	s.printf("%s\n", describe(addr, raw))
	return nil
}

func describe(addr registers.Address, raw uint32) string {
	r, err := registers.New(addr)
	if err != nil {
		return fmt.Sprintf("%s 0x%08X", addr, raw)
	}
	r.SetRaw(raw)
	return registers.Format(r)
}

func cmdWrite(ctx context.Context, s *Shell, args []string) error {
	addr, err := registers.Lookup(args[0])
	if err != nil {
		return err
	}
	if addr.Known() && !addr.Writable() {
		return fmt.Errorf("%s is read-only", addr)
	}
	v, err := strconv.ParseUint(args[1], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[1], err)
	}
	return s.ok(s.Driver.WriteRaw(ctx, uint8(addr), uint32(v)))
}

func lookupField(regName, fieldName string) (registers.Register, registers.Field, error) {
	addr, err := registers.Lookup(regName)
	if err != nil {
		return nil, registers.Field{}, err
	}
	r, err := registers.New(addr)
	if err != nil {
		return nil, registers.Field{}, err
	}
	f, ok := registers.FieldByName(r, fieldName)
	if !ok {
		return nil, registers.Field{}, fmt.Errorf("%s has no field %q", addr, fieldName)
	}
	return r, f, nil
}

func cmdGet(ctx context.Context, s *Shell, args []string) error {
	r, f, err := lookupField(args[0], args[1])
	if err != nil {
		return err
	}
	if !r.Address().Readable() {
		return fmt.Errorf("%s is write-only", r.Address())
	}
	raw, err := s.Driver.ReadRaw(ctx, uint8(r.Address()))
	if err != nil {
		return err
	}
	switch f.Kind {
	case registers.Signed:
		s.printf("%s = %d\n", f.Name, f.GetSigned(raw))
	case registers.Bool:
		s.printf("%s = %t\n", f.Name, f.GetBool(raw))
	default:
		s.printf("%s = %d\n", f.Name, f.Get(raw))
	}
	return nil
}

// cmdSet starts from the chip's current value when the register can be read
// back and from its reset default otherwise.
func cmdSet(ctx context.Context, s *Shell, args []string) error {
	r, f, err := lookupField(args[0], args[1])
	if err != nil {
		return err
	}
	addr := r.Address()
	if !addr.Writable() {
		return fmt.Errorf("%s is read-only", addr)
	}
	if addr.Readable() {
		raw, err := s.Driver.ReadRaw(ctx, uint8(addr))
		if err != nil {
			return err
		}
		r.SetRaw(raw)
	}

	raw := r.Raw()
	switch f.Kind {
	case registers.Bool:
		v, err := strconv.ParseBool(args[2])
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", args[2], f.Name, err)
		}
		raw = f.SetBool(raw, v)
	case registers.Signed:
		v, err := strconv.ParseInt(args[2], 0, 32)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", args[2], f.Name, err)
		}
		half := int64(f.Max()/2) + 1
		if v < -half || v >= half {
			return fmt.Errorf("%s must be in [%d, %d]", f.Name, -half, half-1)
		}
		raw = f.SetSigned(raw, int32(v))
	default:
		v, err := strconv.ParseUint(args[2], 0, 32)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", args[2], f.Name, err)
		}
		if v > uint64(f.Max()) {
			return fmt.Errorf("%s must be at most %d", f.Name, f.Max())
		}
		raw = f.Set(raw, uint32(v))
	}

	if err := s.Driver.WriteRaw(ctx, uint8(addr), raw); err != nil {
		return err
	}
	r.SetRaw(raw)
	s.printf("%s\n", registers.Format(r))
	return nil
}

func cmdDump(ctx context.Context, s *Shell, _ []string) error {
	var failed int
	for _, addr := range registers.Addresses() {
		if !addr.Readable() {
			continue
		}
		raw, err := s.Driver.ReadRaw(ctx, uint8(addr))
		if err != nil {
			s.printf("%-12s error: %v\n", addr, err)
			failed++
			continue
		}
		s.printf("%s\n", describe(addr, raw))
	}
	if failed > 0 {
		return fmt.Errorf("%d registers could not be read", failed)
	}
	return nil
}

func cmdStatus(ctx context.Context, s *Shell, _ []string) error {
	d := s.Driver
	if !d.IsConnected(ctx) {
		return fmt.Errorf("slave %d is not responding", d.Slave())
	}
	ioin, err := d.Ioin(ctx)
	if err != nil {
		return err
	}
	ifcnt, err := d.Ifcnt(ctx)
	if err != nil {
		return err
	}
	gstat, err := d.Gstat(ctx)
	if err != nil {
		return err
	}
	st, err := d.StatusSummary(ctx)
	if err != nil {
		return err
	}

	s.printf("slave:    %d\n", d.Slave())
	s.printf("version:  0x%02X\n", ioin.Version())
	s.printf("ifcnt:    %d\n", ifcnt)
	s.printf("gstat:    reset=%t drv_err=%t uv_cp=%t\n", gstat.Reset(), gstat.DrvErr(), gstat.UvCp())
	s.printf("errors:   %t\n", st.Errors)
	s.printf("warnings: %t\n", st.Warnings)
	s.printf("running:  %t\n", st.Running)
	return nil
}

func cmdCurrent(ctx context.Context, s *Shell, args []string) error {
	ma, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid current %q: %w", args[0], err)
	}
	hold := 0.5
	if len(args) > 1 {
		if hold, err = strconv.ParseFloat(args[1], 64); err != nil {
			return fmt.Errorf("invalid hold fraction %q: %w", args[1], err)
		}
		if hold < 0 || hold > 1 {
			return fmt.Errorf("hold fraction must be between 0 and 1")
		}
	}
	if err := s.Driver.SetRMSCurrent(ctx, uint16(ma), hold, s.Rsense); err != nil {
		return err
	}
	cs, vsense, _ := units.CurrentSettings(uint16(ma), s.Rsense)
	s.printf("irun=%d vsense=%t (%d mA)\n", cs, vsense, units.CSToCurrent(cs, s.Rsense, vsense))
	return nil
}

func cmdMicrosteps(ctx context.Context, s *Shell, args []string) error {
	n, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid microsteps %q: %w", args[0], err)
	}
	m, err := registers.ParseMicrosteps(uint16(n))
	if err != nil {
		return err
	}
	return s.ok(s.Driver.SetMicrosteps(ctx, m))
}

func cmdVelocity(ctx context.Context, s *Shell, args []string) error {
	v, err := strconv.ParseInt(args[0], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid velocity %q: %w", args[0], err)
	}
	return s.ok(s.Driver.SetVelocity(ctx, int32(v)))
}

func seconds(args []string, def time.Duration) (time.Duration, error) {
	if len(args) == 0 {
		return def, nil
	}
	f, err := strconv.ParseFloat(args[0], 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid duration %q", args[0])
	}
	return time.Duration(f * float64(time.Second)), nil
}

// writerSink prints snapshots when no broker is configured
type writerSink struct {
	w io.Writer
}

func (ws writerSink) Publish(topic string, payload []byte) error {
	_, err := fmt.Fprintf(ws.w, "%s %s\n", topic, payload)
	return err
}

func cmdMonitor(ctx context.Context, s *Shell, args []string) error {
	d, err := seconds(args, 10*time.Second)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	sink := s.Sink
	if sink == nil {
		sink = writerSink{s.Out}
	}
	m := &monitor.Monitor{
		Sink:     sink,
		Topic:    s.Topic,
		Interval: s.Interval,
		Sample: func(ctx context.Context) (monitor.Snapshot, error) {
			return monitor.Sample(ctx, s.Driver)
		},
	}
	return m.Run(ctx)
}

func cmdSniff(ctx context.Context, s *Shell, args []string) error {
	if s.Sniffer == nil {
		return errors.New("no bus tap configured")
	}
	d, err := seconds(args, 10*time.Second)
	if err != nil {
		return err
	}
	deadline := time.Now().Add(d)

	var rr protocol.ResponseReader
	buf := make([]byte, 64)
	seen := 0
	for time.Now().Before(deadline) && ctx.Err() == nil {
		n, err := s.Sniffer.Read(buf)
		p := buf[:n]
		for len(p) > 0 {
			used, done := rr.Feed(p)
			p = p[used:]
			if !done {
				continue
			}
			seen++
			resp := rr.Response()
			if verr := resp.Validate(); verr != nil {
				s.printf("bad response % X: %v\n", resp[:], verr)
				continue
			}
			s.printf("%s\n", describe(registers.Address(resp.Address()), resp.Value()))
		}
		if err == io.EOF || n == 0 {
			time.Sleep(time.Millisecond)
			continue
		}
		if err != nil {
			return err
		}
	}
	s.printf("%d responses\n", seen)
	return nil
}

func cmdStalls(ctx context.Context, s *Shell, args []string) error {
	if s.Pins == nil || s.Pins.Stalls() == nil {
		return errors.New("DIAG pin not wired")
	}
	d, err := seconds(args, 10*time.Second)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	count := 0
	for {
		select {
		case <-ctx.Done():
			s.printf("%d stalls\n", count)
			return nil
		case st := <-s.Pins.Stalls():
			count++
			sg, err := s.Driver.SgResult(ctx)
			if err != nil {
				s.printf("stall at %v\n", st.Timestamp)
				continue
			}
			s.printf("stall at %v sg_result=%d\n", st.Timestamp, sg)
		}
	}
}

