package registers

// Sgthrs is the StallGuard detection threshold. DIAG is raised when SG_RESULT falls below twice this value.
type Sgthrs struct {
	value
	writeOnly
}

var (
	sgthrsSgthrs = unsignedField("sgthrs", 0, 8)

	sgthrsFields = []Field{sgthrsSgthrs}
)

func (Sgthrs) Address() Address { return AddrSGTHRS }
func (Sgthrs) Default() uint32 { return 0x00000000 }
func (Sgthrs) Fields() []Field { return sgthrsFields }

func (r Sgthrs) Sgthrs() uint8 { return uint8(r.get(sgthrsSgthrs)) }

func (r *Sgthrs) SetSgthrs(v uint8) *Sgthrs {
	r.set(sgthrsSgthrs, uint32(v))
	return r
}

// SgResult is the StallGuard load measurement. Lower values mean higher load.
type SgResult struct {
	value
	readOnly
}

var (
	sgResultSgResult = unsignedField("sg_result", 0, 10)

	sgResultFields = []Field{sgResultSgResult}
)

func (SgResult) Address() Address { return AddrSG_RESULT }
func (SgResult) Default() uint32 { return 0x00000000 }
func (SgResult) Fields() []Field { return sgResultFields }

func (r SgResult) SgResult() uint16 { return uint16(r.get(sgResultSgResult)) }

// Coolconf configures CoolStep load-adaptive current control.
type Coolconf struct {
	value
	writeOnly
}

var (
	coolconfSemin  = unsignedField("semin", 0, 4)
	coolconfSeup   = unsignedField("seup", 5, 2)
	coolconfSemax  = unsignedField("semax", 8, 4)
	coolconfSedn   = unsignedField("sedn", 13, 2)
	coolconfSeimin = boolField("seimin", 15)

	coolconfFields = []Field{
		coolconfSemin,
		coolconfSeup,
		coolconfSemax,
		coolconfSedn,
		coolconfSeimin,
	}
)

func (Coolconf) Address() Address { return AddrCOOLCONF }
func (Coolconf) Default() uint32 { return 0x00000000 }
func (Coolconf) Fields() []Field { return coolconfFields }

// Semin is the lower StallGuard threshold, zero disables CoolStep
func (r Coolconf) Semin() uint8 { return uint8(r.get(coolconfSemin)) }
func (r Coolconf) Seup() uint8 { return uint8(r.get(coolconfSeup)) }
func (r Coolconf) Semax() uint8 { return uint8(r.get(coolconfSemax)) }
func (r Coolconf) Sedn() uint8 { return uint8(r.get(coolconfSedn)) }
func (r Coolconf) Seimin() bool { return r.getBool(coolconfSeimin) }

func (r *Coolconf) SetSemin(v uint8) *Coolconf {
	r.set(coolconfSemin, uint32(v))
	return r
}

func (r *Coolconf) SetSeup(v uint8) *Coolconf {
	r.set(coolconfSeup, uint32(v))
	return r
}

func (r *Coolconf) SetSemax(v uint8) *Coolconf {
	r.set(coolconfSemax, uint32(v))
	return r
}

func (r *Coolconf) SetSedn(v uint8) *Coolconf {
	r.set(coolconfSedn, uint32(v))
	return r
}

func (r *Coolconf) SetSeimin(v bool) *Coolconf {
	r.setBool(coolconfSeimin, v)
	return r
}

// Enabled reports whether CoolStep is active
func (r Coolconf) Enabled() bool {
	return r.Semin() != 0
}
