package registers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	chop := NewChopconf()
	assert.Equal(t, uint32(0x10000053), chop.Raw())
	assert.Equal(t, uint8(3), chop.Toff())
	assert.Equal(t, uint8(5), chop.Hstrt())
	assert.Equal(t, uint8(0), chop.Hend())
	assert.Equal(t, M256, chop.Mres())
	assert.True(t, chop.Intpol())
	assert.True(t, chop.Enabled())

	gconf := NewGconf()
	assert.Equal(t, uint32(0x40), gconf.Raw())
	assert.True(t, gconf.PdnDisable())
	assert.False(t, gconf.EnSpreadcycle())

	ih := NewIholdIrun()
	assert.Equal(t, uint8(3), ih.Ihold())
	assert.Equal(t, uint8(23), ih.Irun())
	assert.Equal(t, uint8(7), ih.Iholddelay())

	pwm := NewPwmconf()
	assert.Equal(t, uint8(0x24), pwm.PwmOfs())
	assert.Equal(t, uint8(0), pwm.PwmGrad())
	assert.Equal(t, uint8(1), pwm.PwmFreq())
	assert.True(t, pwm.PwmAutoscale())
	assert.True(t, pwm.PwmAutograd())
	assert.Equal(t, Normal, pwm.Freewheel())
	assert.Equal(t, uint8(1), pwm.PwmReg())
	assert.Equal(t, uint8(12), pwm.PwmLim())

	assert.Equal(t, uint8(0x14), NewTpowerdown().Tpowerdown())
}

func TestResetMatchesDefault(t *testing.T) {
	for _, r := range All() {
		assert.Equal(t, r.Default(), r.Raw(), "register %s", r.Address())
	}
	assert.Equal(t, NewChopconf(), Reset[Chopconf]())
	assert.Equal(t, Gstat{}, Reset[Gstat]())
}

func TestFromRaw(t *testing.T) {
	drv := FromRaw[DrvStatus](0xC0000000)
	assert.True(t, drv.Stst())
	assert.True(t, drv.Stealth())
	assert.False(t, drv.HasError())

	ifcnt := FromRaw[Ifcnt](7)
	assert.Equal(t, uint8(7), ifcnt.Count())
}

func TestFieldRoundTripAndIsolation(t *testing.T) {
	patterns := []uint32{0x00000000, 0xFFFFFFFF, 0xA5A5A5A5, 0x5A5A5A5A}

	for _, r := range All() {
		for _, f := range r.Fields() {
			for _, base := range patterns {
				for _, v := range []uint32{0, 1, f.Max() / 2, f.Max()} {
					r.SetRaw(base)
					r.SetRaw(f.Set(r.Raw(), v))

					require.Equal(t, v, f.Get(r.Raw()),
						"%s.%s value 0x%X on base 0x%08X", r.Address(), f.Name, v, base)
					require.Equal(t, base&^f.Mask(), r.Raw()&^f.Mask(),
						"%s.%s disturbed other bits", r.Address(), f.Name)
				}
			}
		}
	}
}

func TestFieldsDoNotOverlap(t *testing.T) {
	for _, r := range All() {
		var seen uint32
		for _, f := range r.Fields() {
			require.Zero(t, seen&f.Mask(), "%s.%s overlaps another field", r.Address(), f.Name)
			seen |= f.Mask()
		}
	}
}

func TestSetterChaining(t *testing.T) {
	chop := NewChopconf()
	chop.SetToff(4).SetMres(M16).SetIntpol(false).SetVsense(true)

	assert.Equal(t, uint8(4), chop.Toff())
	assert.Equal(t, M16, chop.Mres())
	assert.Equal(t, uint16(16), chop.Microsteps())
	assert.False(t, chop.Intpol())
	assert.True(t, chop.Vsense())
	// hstrt untouched
	assert.Equal(t, uint8(5), chop.Hstrt())
	assert.Equal(t, uint32(0x04020054), chop.Raw())
}

func TestSetterTruncatesToFieldWidth(t *testing.T) {
	ih := IholdIrun{}
	ih.SetIrun(0xFF).SetIhold(0)
	assert.Equal(t, uint8(31), ih.Irun())
	assert.Equal(t, uint32(0x1F00), ih.Raw())
}

func TestSignedFields(t *testing.T) {
	var v Vactual
	v.SetVactual(-1000)
	assert.Equal(t, int32(-1000), v.Vactual())
	assert.Equal(t, uint32(0x00FFFC18), v.Raw())

	v.SetVactual(8388607)
	assert.Equal(t, int32(8388607), v.Vactual())

	cur := FromRaw[Mscuract](0x00F701FF)
	assert.Equal(t, int16(-1), cur.CurA())
	assert.Equal(t, int16(247), cur.CurB())

	scale := FromRaw[PwmScale](0x01000010)
	assert.Equal(t, int16(-256), scale.PwmScaleAuto())
	assert.Equal(t, uint8(0x10), scale.PwmScaleSum())
}

func TestDrvStatusHelpers(t *testing.T) {
	tests := []struct {
		name                             string
		raw                              uint32
		short, openLoad, overtemp, fault bool
	}{
		{"clean", 0x00000000, false, false, false, false},
		{"short to ground A", 1 << 2, true, false, false, true},
		{"short to supply B", 1 << 5, true, false, false, true},
		{"open load", 1 << 7, false, true, false, false},
		{"prewarning", 1 << 0, false, false, true, false},
		{"overtemperature", 1 << 1, false, false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := FromRaw[DrvStatus](tt.raw)
			assert.Equal(t, tt.short, d.ShortDetected())
			assert.Equal(t, tt.openLoad, d.OpenLoadDetected())
			assert.Equal(t, tt.overtemp, d.Overtemperature())
			assert.Equal(t, tt.fault, d.HasError())
		})
	}

	d := FromRaw[DrvStatus](0x001F0000)
	assert.Equal(t, uint8(31), d.CsActual())
}

func TestAddressTable(t *testing.T) {
	assert.Len(t, Addresses(), 24)
	assert.Equal(t, "CHOPCONF", AddrCHOPCONF.String())
	assert.Equal(t, "0x7E", Address(0x7E).String())

	assert.True(t, AddrCHOPCONF.Readable())
	assert.True(t, AddrCHOPCONF.Writable())
	assert.True(t, AddrDRV_STATUS.Readable())
	assert.False(t, AddrDRV_STATUS.Writable())
	assert.False(t, AddrIHOLD_IRUN.Readable())
	assert.True(t, AddrIHOLD_IRUN.Writable())

	for _, r := range All() {
		_, readable := r.(Readable)
		_, writable := r.(Writable)
		assert.Equal(t, r.Address().Readable(), readable, "%s readable marker", r.Address())
		assert.Equal(t, r.Address().Writable(), writable, "%s writable marker", r.Address())
	}
}

func TestLookup(t *testing.T) {
	a, err := Lookup("chopconf")
	require.NoError(t, err)
	assert.Equal(t, AddrCHOPCONF, a)

	a, err = Lookup("0x6f")
	require.NoError(t, err)
	assert.Equal(t, AddrDRV_STATUS, a)

	_, err = Lookup("NOPE")
	assert.Error(t, err)
	_, err = Lookup("0x80")
	assert.Error(t, err)

	_, err = New(0x7E)
	assert.Error(t, err)
	r, err := New(AddrPWMCONF)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xC10D0024), r.Raw())
}

func TestFieldByNameAndFormat(t *testing.T) {
	chop := NewChopconf()
	f, ok := FieldByName(&chop, "TOFF")
	require.True(t, ok)
	assert.Equal(t, uint32(3), f.Get(chop.Raw()))

	_, ok = FieldByName(&chop, "missing")
	assert.False(t, ok)

	s := Format(&chop)
	assert.Contains(t, s, "CHOPCONF 0x10000053")
	assert.Contains(t, s, "toff=3")
	assert.Contains(t, s, "intpol=true")
}

func TestMicrostepResolution(t *testing.T) {
	assert.Equal(t, uint16(256), M256.Microsteps())
	assert.Equal(t, uint16(1), M1.Microsteps())
	assert.Equal(t, uint16(256), MicrostepResolution(12).Microsteps())
	assert.Equal(t, "1/16", M16.String())

	m, err := ParseMicrosteps(32)
	require.NoError(t, err)
	assert.Equal(t, M32, m)
	_, err = ParseMicrosteps(3)
	assert.Error(t, err)
}

func TestGstat(t *testing.T) {
	assert.Equal(t, uint32(0x07), GstatClearAll().Raw())
	g := FromRaw[Gstat](0x01)
	assert.True(t, g.Reset())
	assert.True(t, g.Any())
	assert.False(t, FromRaw[Gstat](0).Any())
}
