// Package registers describes the TMC2209 register map.
//
// Every register is a distinct type wrapping its raw 32-bit value. Field
// accessors read and modify single bit ranges, and setters return the
// receiver so calls can be chained:
//
//	chop := registers.NewChopconf()
//	chop.SetToff(3).SetMres(registers.M16).SetIntpol(true)
package registers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Register is implemented by pointers to every register type
type Register interface {
	// Address returns the register's fixed address
	Address() Address
	// Default returns the value the chip holds after reset
	Default() uint32
	// Fields lists the named bit ranges of the register
	Fields() []Field
	Raw() uint32
	SetRaw(v uint32)
}

// Readable marks registers the chip answers reads for
type Readable interface {
	Register
	readable()
}

// Writable marks registers the chip accepts writes for
type Writable interface {
	Register
	writable()
}

// value is embedded by every register type
type value struct {
	raw uint32
}

// Raw returns the register's 32-bit value
func (v value) Raw() uint32 { return v.raw }

// SetRaw replaces the whole 32-bit value
func (v *value) SetRaw(raw uint32) { v.raw = raw }

func (v value) get(f Field) uint32 { return f.Get(v.raw) }
func (v value) getSigned(f Field) int32 { return f.GetSigned(v.raw) }
func (v value) getBool(f Field) bool { return f.GetBool(v.raw) }
func (v *value) set(f Field, x uint32) { v.raw = f.Set(v.raw, x) }
func (v *value) setSigned(f Field, x int32) { v.raw = f.SetSigned(v.raw, x) }
func (v *value) setBool(f Field, x bool) { v.raw = f.SetBool(v.raw, x) }

type readOnly struct{}

func (readOnly) readable() {}

type writeOnly struct{}

func (writeOnly) writable() {}

type readWrite struct{}

func (readWrite) readable() {}
func (readWrite) writable() {}

// FromRaw returns a register of type R holding raw
func FromRaw[R any, P interface {
	*R
	Register
}](raw uint32) R {
	var r R
	P(&r).SetRaw(raw)
	return r
}

// Reset returns a register of type R holding its reset default
func Reset[R any, P interface {
	*R
	Register
}]() R {
	var r R
	p := P(&r)
	p.SetRaw(p.Default())
	return r
}

var constructors = map[Address]func() Register{
	AddrGCONF:        func() Register { r := NewGconf(); return &r },
	AddrGSTAT:        func() Register { return &Gstat{} },
	AddrIFCNT:        func() Register { return &Ifcnt{} },
	AddrSLAVECONF:    func() Register { return &Slaveconf{} },
	AddrOTP_PROG:     func() Register { return &OtpProg{} },
	AddrOTP_READ:     func() Register { return &OtpRead{} },
	AddrIOIN:         func() Register { return &Ioin{} },
	AddrFACTORY_CONF: func() Register { return &FactoryConf{} },
	AddrIHOLD_IRUN:   func() Register { r := NewIholdIrun(); return &r },
	AddrTPOWERDOWN:   func() Register { r := NewTpowerdown(); return &r },
	AddrTSTEP:        func() Register { return &Tstep{} },
	AddrTPWMTHRS:     func() Register { return &Tpwmthrs{} },
	AddrTCOOLTHRS:    func() Register { return &Tcoolthrs{} },
	AddrVACTUAL:      func() Register { return &Vactual{} },
	AddrSGTHRS:       func() Register { return &Sgthrs{} },
	AddrSG_RESULT:    func() Register { return &SgResult{} },
	AddrCOOLCONF:     func() Register { return &Coolconf{} },
	AddrMSCNT:        func() Register { return &Mscnt{} },
	AddrMSCURACT:     func() Register { return &Mscuract{} },
	AddrCHOPCONF:     func() Register { r := NewChopconf(); return &r },
	AddrDRV_STATUS:   func() Register { return &DrvStatus{} },
	AddrPWMCONF:      func() Register { r := NewPwmconf(); return &r },
	AddrPWM_SCALE:    func() Register { return &PwmScale{} },
	AddrPWM_AUTO:     func() Register { return &PwmAuto{} },
}

// New returns a register for addr holding its reset default
func New(addr Address) (Register, error) {
	ctor, ok := constructors[addr]
	if !ok {
		return nil, fmt.Errorf("unknown register address 0x%02X", uint8(addr))
	}
	return ctor(), nil
}

// All returns one register of every type, ordered by address
func All() []Register {
	addrs := Addresses()
	regs := make([]Register, 0, len(addrs))
	for _, a := range addrs {
		regs = append(regs, constructors[a]())
	}
	return regs
}

// Addresses returns all known register addresses in ascending order
func Addresses() []Address {
	addrs := make([]Address, 0, len(constructors))
	for a := range constructors {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// Lookup resolves a register by datasheet name (case-insensitive) or by
// numeric address such as "0x6c"
func Lookup(name string) (Address, error) {
	for a, info := range addressTable {
		if strings.EqualFold(info.name, name) {
			return a, nil
		}
	}
	n, err := strconv.ParseUint(name, 0, 8)
	if err != nil || n > 0x7F {
		return 0, fmt.Errorf("unknown register %q", name)
	}
	return Address(n), nil
}

// FieldByName finds a field of r by case-insensitive name
func FieldByName(r Register, name string) (Field, bool) {
	for _, f := range r.Fields() {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

// Format renders r as "NAME 0xXXXXXXXX field=value ..."
func Format(r Register) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s 0x%08X", r.Address(), r.Raw())
	for _, f := range r.Fields() {
		switch f.Kind {
		case Signed:
			fmt.Fprintf(&sb, " %s=%d", f.Name, f.GetSigned(r.Raw()))
		case Bool:
			fmt.Fprintf(&sb, " %s=%t", f.Name, f.GetBool(r.Raw()))
		default:
			fmt.Fprintf(&sb, " %s=%d", f.Name, f.Get(r.Raw()))
		}
	}
	return sb.String()
}
