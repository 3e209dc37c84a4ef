package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmc2209/host/pins"
	"tmc2209/protocol"
	"tmc2209/registers"
	"tmc2209/tmc"
	"tmc2209/tmc/tmctest"
)

func newTestShell(t *testing.T) (*Shell, *tmctest.Chip, *bytes.Buffer) {
	t.Helper()
	chip := tmctest.NewChip(0)
	s := New(tmc.New(tmc.NewStreamLine(chip), 0))
	out := &bytes.Buffer{}
	s.Out = out
	return s, chip, out
}

func eval(t *testing.T, s *Shell, line string) {
	t.Helper()
	require.NoError(t, s.Eval(context.Background(), line))
}

func TestReadDecodesFields(t *testing.T) {
	s, _, out := newTestShell(t)
	eval(t, s, "read CHOPCONF")
	assert.Contains(t, out.String(), "CHOPCONF 0x10000053")
	assert.Contains(t, out.String(), "toff=3")
	assert.Contains(t, out.String(), "intpol=true")
}

func TestReadByAddressAndAlias(t *testing.T) {
	s, _, out := newTestShell(t)
	eval(t, s, "r 0x6c")
	assert.Contains(t, out.String(), "CHOPCONF")
}

func TestReadWriteOnlyRejected(t *testing.T) {
	s, chip, _ := newTestShell(t)
	err := s.Eval(context.Background(), "read IHOLD_IRUN")
	assert.ErrorContains(t, err, "write-only")
	assert.Empty(t, chip.Traffic())
}

func TestWrite(t *testing.T) {
	s, chip, out := newTestShell(t)
	eval(t, s, "write TPWMTHRS 0x1D4C")
	assert.Equal(t, uint32(7500), chip.Register(registers.AddrTPWMTHRS))
	assert.Equal(t, "OK\n", out.String())

	assert.ErrorContains(t, s.Eval(context.Background(), "write IOIN 1"), "read-only")
	assert.Error(t, s.Eval(context.Background(), "write GCONF nope"))
}

func TestGetSet(t *testing.T) {
	s, chip, out := newTestShell(t)

	eval(t, s, "set chopconf mres 4")
	assert.Equal(t, uint32(0x14000053), chip.Register(registers.AddrCHOPCONF))

	out.Reset()
	eval(t, s, "get CHOPCONF mres")
	assert.Equal(t, "mres = 4\n", out.String())

	eval(t, s, "set GCONF en_spreadcycle true")
	assert.Equal(t, uint32(1<<2), chip.Register(registers.AddrGCONF)&(1<<2))

	out.Reset()
	eval(t, s, "set VACTUAL vactual -1000")
	assert.Equal(t, uint32(0xFFFC18), chip.Register(registers.AddrVACTUAL))

	assert.ErrorContains(t, s.Eval(context.Background(), "set CHOPCONF toff 16"), "at most 15")
	assert.ErrorContains(t, s.Eval(context.Background(), "set CHOPCONF bogus 1"), "no field")
	assert.ErrorContains(t, s.Eval(context.Background(), "get IHOLD_IRUN irun"), "write-only")
}

func TestSetWriteOnlyStartsFromDefault(t *testing.T) {
	s, chip, _ := newTestShell(t)
	eval(t, s, "set IHOLD_IRUN irun 20")
	assert.Equal(t, uint32(0x00071403), chip.Register(registers.AddrIHOLD_IRUN))
}

func TestDump(t *testing.T) {
	s, _, out := newTestShell(t)
	eval(t, s, "dump")
	text := out.String()
	assert.Contains(t, text, "GCONF")
	assert.Contains(t, text, "DRV_STATUS")
	assert.NotContains(t, text, "IHOLD_IRUN")
}

func TestStatus(t *testing.T) {
	s, _, out := newTestShell(t)
	eval(t, s, "status")
	assert.Contains(t, out.String(), "version:  0x21")
	assert.Contains(t, out.String(), "reset=true")
	assert.Contains(t, out.String(), "running:  false")
}

func TestStatusNotConnected(t *testing.T) {
	s, chip, _ := newTestShell(t)
	chip.InjectFault(tmctest.FaultSilent)
	assert.ErrorContains(t, s.Eval(context.Background(), "status"), "not responding")
}

func TestMotionCommands(t *testing.T) {
	s, chip, _ := newTestShell(t)

	eval(t, s, "microsteps 16")
	assert.Equal(t, uint32(4), chip.Register(registers.AddrCHOPCONF)>>24&0xF)

	eval(t, s, "velocity 1000")
	assert.Equal(t, uint32(1000), chip.Register(registers.AddrVACTUAL))
	eval(t, s, "stop")
	assert.Zero(t, chip.Register(registers.AddrVACTUAL))

	eval(t, s, "spreadcycle")
	assert.NotZero(t, chip.Register(registers.AddrGCONF)&(1<<2))
	eval(t, s, "stealthchop")
	assert.Zero(t, chip.Register(registers.AddrGCONF)&(1<<2))

	assert.Error(t, s.Eval(context.Background(), "microsteps 3"))
}

func TestCurrent(t *testing.T) {
	s, chip, out := newTestShell(t)
	eval(t, s, "current 1000 0.5")
	assert.Contains(t, out.String(), "irun=27 vsense=true")
	assert.Equal(t, uint32(27), chip.Register(registers.AddrIHOLD_IRUN)>>8&0x1F)

	assert.Error(t, s.Eval(context.Background(), "current 1000 2"))
}

type fakePins struct {
	enabled []bool
	stalls  chan pins.Stall
}

func (p *fakePins) Enable(on bool) error {
	p.enabled = append(p.enabled, on)
	return nil
}

func (p *fakePins) Stalls() <-chan pins.Stall { return p.stalls }

func TestEnableDrivesPin(t *testing.T) {
	s, chip, _ := newTestShell(t)
	p := &fakePins{}
	s.Pins = p

	eval(t, s, "disable")
	assert.Zero(t, chip.Register(registers.AddrCHOPCONF)&0xF)
	eval(t, s, "enable")
	assert.Equal(t, uint32(3), chip.Register(registers.AddrCHOPCONF)&0xF)
	assert.Equal(t, []bool{false, true}, p.enabled)
}

func TestStalls(t *testing.T) {
	s, _, out := newTestShell(t)
	p := &fakePins{stalls: make(chan pins.Stall, 2)}
	p.stalls <- pins.Stall{Timestamp: time.Second}
	s.Pins = p

	eval(t, s, "stalls 0.05")
	assert.Contains(t, out.String(), "stall at 1s sg_result=0")
	assert.Contains(t, out.String(), "1 stalls")
}

func TestMonitorWithoutBroker(t *testing.T) {
	s, _, out := newTestShell(t)
	s.Interval = 10 * time.Millisecond
	eval(t, s, "monitor 0.05")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "tmc2209/0 {"))
	assert.Contains(t, lines[0], `"version":33`)
}

func TestSniff(t *testing.T) {
	s, _, out := newTestShell(t)
	good := protocol.EncodeReadResponse(uint8(registers.AddrCHOPCONF), 0x10000053)
	bad := protocol.EncodeReadResponse(uint8(registers.AddrGCONF), 0)
	bad[protocol.PositionCRC] ^= 1

	var stream []byte
	stream = append(stream, 0x00, 0x05, 0x00, 0x6C, 0xCA) // a read request is skipped
	stream = append(stream, good[:]...)
	stream = append(stream, bad[:]...)
	s.Sniffer = bytes.NewReader(stream)

	eval(t, s, "sniff 0.05")
	text := out.String()
	assert.Contains(t, text, "CHOPCONF 0x10000053")
	assert.Contains(t, text, "bad response")
	assert.Contains(t, text, "2 responses")
}

func TestSniffWithoutTap(t *testing.T) {
	s, _, _ := newTestShell(t)
	assert.ErrorContains(t, s.Eval(context.Background(), "sniff"), "no bus tap")
}

func TestEvalErrors(t *testing.T) {
	s, _, out := newTestShell(t)
	assert.ErrorContains(t, s.Eval(context.Background(), "frobnicate"), "unknown command")
	assert.ErrorContains(t, s.Eval(context.Background(), "read"), "usage: read <register>")
	assert.Error(t, s.Eval(context.Background(), `read "CHOPCONF`))
	assert.NoError(t, s.Eval(context.Background(), "   "))

	eval(t, s, "help")
	assert.Contains(t, out.String(), "microsteps")
}

func TestStallsWithoutDiag(t *testing.T) {
	s, _, _ := newTestShell(t)
	s.Pins = &fakePins{}
	assert.ErrorContains(t, s.Eval(context.Background(), "stalls 5"), "DIAG pin not wired")
}
