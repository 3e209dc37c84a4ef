package registers

// IholdIrun sets the run and standstill motor currents.
type IholdIrun struct {
	value
	writeOnly
}

var (
	iholdIrunIhold      = unsignedField("ihold", 0, 5)
	iholdIrunIrun       = unsignedField("irun", 8, 5)
	iholdIrunIholddelay = unsignedField("iholddelay", 16, 4)

	iholdIrunFields = []Field{iholdIrunIhold, iholdIrunIrun, iholdIrunIholddelay}
)

// NewIholdIrun returns IHOLD_IRUN at its reset default
func NewIholdIrun() IholdIrun {
	return IholdIrun{value: value{raw: 0x00071703}}
}

func (IholdIrun) Address() Address { return AddrIHOLD_IRUN }
func (IholdIrun) Default() uint32 { return 0x00071703 }
func (IholdIrun) Fields() []Field { return iholdIrunFields }

// Ihold is the standstill current scale (0-31)
func (r IholdIrun) Ihold() uint8 { return uint8(r.get(iholdIrunIhold)) }

// Irun is the run current scale (0-31)
func (r IholdIrun) Irun() uint8 { return uint8(r.get(iholdIrunIrun)) }

// Iholddelay sets the number of clock cycles for the power down ramp
func (r IholdIrun) Iholddelay() uint8 { return uint8(r.get(iholdIrunIholddelay)) }

func (r *IholdIrun) SetIhold(v uint8) *IholdIrun {
	r.set(iholdIrunIhold, uint32(v))
	return r
}

func (r *IholdIrun) SetIrun(v uint8) *IholdIrun {
	r.set(iholdIrunIrun, uint32(v))
	return r
}

func (r *IholdIrun) SetIholddelay(v uint8) *IholdIrun {
	r.set(iholdIrunIholddelay, uint32(v))
	return r
}

// Tpowerdown sets the delay from standstill to the start of current reduction.
type Tpowerdown struct {
	value
	writeOnly
}

var (
	tpowerdownTpowerdown = unsignedField("tpowerdown", 0, 8)

	tpowerdownFields = []Field{tpowerdownTpowerdown}
)

// NewTpowerdown returns TPOWERDOWN at its reset default
func NewTpowerdown() Tpowerdown {
	return Tpowerdown{value: value{raw: 0x00000014}}
}

func (Tpowerdown) Address() Address { return AddrTPOWERDOWN }
func (Tpowerdown) Default() uint32 { return 0x00000014 }
func (Tpowerdown) Fields() []Field { return tpowerdownFields }

func (r Tpowerdown) Tpowerdown() uint8 { return uint8(r.get(tpowerdownTpowerdown)) }

func (r *Tpowerdown) SetTpowerdown(v uint8) *Tpowerdown {
	r.set(tpowerdownTpowerdown, uint32(v))
	return r
}

// Tstep is the measured time between two microsteps in clock cycles.
type Tstep struct {
	value
	readOnly
}

var (
	tstepTstep = unsignedField("tstep", 0, 20)

	tstepFields = []Field{tstepTstep}
)

func (Tstep) Address() Address { return AddrTSTEP }
func (Tstep) Default() uint32 { return 0x00000000 }
func (Tstep) Fields() []Field { return tstepFields }

func (r Tstep) Tstep() uint32 { return uint32(r.get(tstepTstep)) }

// Tpwmthrs is the TSTEP value below which the chip leaves StealthChop.
type Tpwmthrs struct {
	value
	writeOnly
}

var (
	tpwmthrsTpwmthrs = unsignedField("tpwmthrs", 0, 20)

	tpwmthrsFields = []Field{tpwmthrsTpwmthrs}
)

func (Tpwmthrs) Address() Address { return AddrTPWMTHRS }
func (Tpwmthrs) Default() uint32 { return 0x00000000 }
func (Tpwmthrs) Fields() []Field { return tpwmthrsFields }

func (r Tpwmthrs) Tpwmthrs() uint32 { return uint32(r.get(tpwmthrsTpwmthrs)) }

func (r *Tpwmthrs) SetTpwmthrs(v uint32) *Tpwmthrs {
	r.set(tpwmthrsTpwmthrs, uint32(v))
	return r
}

// Tcoolthrs is the TSTEP value below which CoolStep and the StallGuard output are enabled.
type Tcoolthrs struct {
	value
	writeOnly
}

var (
	tcoolthrsTcoolthrs = unsignedField("tcoolthrs", 0, 20)

	tcoolthrsFields = []Field{tcoolthrsTcoolthrs}
)

func (Tcoolthrs) Address() Address { return AddrTCOOLTHRS }
func (Tcoolthrs) Default() uint32 { return 0x00000000 }
func (Tcoolthrs) Fields() []Field { return tcoolthrsFields }

func (r Tcoolthrs) Tcoolthrs() uint32 { return uint32(r.get(tcoolthrsTcoolthrs)) }

func (r *Tcoolthrs) SetTcoolthrs(v uint32) *Tcoolthrs {
	r.set(tcoolthrsTcoolthrs, uint32(v))
	return r
}

// Vactual drives the motor from the internal step generator. Zero returns control to STEP/DIR.
type Vactual struct {
	value
	writeOnly
}

var (
	vactualVactual = signedField("vactual", 0, 24)

	vactualFields = []Field{vactualVactual}
)

func (Vactual) Address() Address { return AddrVACTUAL }
func (Vactual) Default() uint32 { return 0x00000000 }
func (Vactual) Fields() []Field { return vactualFields }

func (r Vactual) Vactual() int32 { return int32(r.getSigned(vactualVactual)) }

func (r *Vactual) SetVactual(v int32) *Vactual {
	r.setSigned(vactualVactual, int32(v))
	return r
}

// TstepStandstill is reported by TSTEP when no steps arrive
const TstepStandstill = 0xFFFFF

// Standstill reports whether the measured step interval overflowed
func (r Tstep) Standstill() bool {
	return r.Tstep() == TstepStandstill
}
