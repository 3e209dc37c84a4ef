package registers

// Mscnt is the position in the microstep table.
type Mscnt struct {
	value
	readOnly
}

var (
	mscntMscnt = unsignedField("mscnt", 0, 10)

	mscntFields = []Field{mscntMscnt}
)

func (Mscnt) Address() Address { return AddrMSCNT }
func (Mscnt) Default() uint32 { return 0x00000000 }
func (Mscnt) Fields() []Field { return mscntFields }

func (r Mscnt) Mscnt() uint16 { return uint16(r.get(mscntMscnt)) }

// Mscuract holds the actual microstep currents of both coils.
type Mscuract struct {
	value
	readOnly
}

var (
	mscuractCurA = signedField("cur_a", 0, 9)
	mscuractCurB = signedField("cur_b", 16, 9)

	mscuractFields = []Field{mscuractCurA, mscuractCurB}
)

func (Mscuract) Address() Address { return AddrMSCURACT }
func (Mscuract) Default() uint32 { return 0x00000000 }
func (Mscuract) Fields() []Field { return mscuractFields }

func (r Mscuract) CurA() int16 { return int16(r.getSigned(mscuractCurA)) }
func (r Mscuract) CurB() int16 { return int16(r.getSigned(mscuractCurB)) }

// Chopconf configures the chopper and microstep resolution.
type Chopconf struct {
	value
	readWrite
}

var (
	chopconfToff    = unsignedField("toff", 0, 4)
	chopconfHstrt   = unsignedField("hstrt", 4, 3)
	chopconfHend    = unsignedField("hend", 7, 4)
	chopconfTbl     = unsignedField("tbl", 15, 2)
	chopconfVsense  = boolField("vsense", 17)
	chopconfMres    = unsignedField("mres", 24, 4)
	chopconfIntpol  = boolField("intpol", 28)
	chopconfDedge   = boolField("dedge", 29)
	chopconfDiss2g  = boolField("diss2g", 30)
	chopconfDiss2vs = boolField("diss2vs", 31)

	chopconfFields = []Field{
		chopconfToff,
		chopconfHstrt,
		chopconfHend,
		chopconfTbl,
		chopconfVsense,
		chopconfMres,
		chopconfIntpol,
		chopconfDedge,
		chopconfDiss2g,
		chopconfDiss2vs,
	}
)

// NewChopconf returns CHOPCONF at its reset default
func NewChopconf() Chopconf {
	return Chopconf{value: value{raw: 0x10000053}}
}

func (Chopconf) Address() Address { return AddrCHOPCONF }
func (Chopconf) Default() uint32 { return 0x10000053 }
func (Chopconf) Fields() []Field { return chopconfFields }

// Toff sets the off time, zero disables the driver
func (r Chopconf) Toff() uint8 { return uint8(r.get(chopconfToff)) }
func (r Chopconf) Hstrt() uint8 { return uint8(r.get(chopconfHstrt)) }
func (r Chopconf) Hend() uint8 { return uint8(r.get(chopconfHend)) }
func (r Chopconf) Tbl() uint8 { return uint8(r.get(chopconfTbl)) }

// Vsense selects the high sensitivity, low sense resistor voltage range
func (r Chopconf) Vsense() bool { return r.getBool(chopconfVsense) }
func (r Chopconf) Mres() MicrostepResolution { return MicrostepResolution(r.get(chopconfMres)) }

// Intpol interpolates to 256 microsteps
func (r Chopconf) Intpol() bool { return r.getBool(chopconfIntpol) }
func (r Chopconf) Dedge() bool { return r.getBool(chopconfDedge) }
func (r Chopconf) Diss2g() bool { return r.getBool(chopconfDiss2g) }
func (r Chopconf) Diss2vs() bool { return r.getBool(chopconfDiss2vs) }

func (r *Chopconf) SetToff(v uint8) *Chopconf {
	r.set(chopconfToff, uint32(v))
	return r
}

func (r *Chopconf) SetHstrt(v uint8) *Chopconf {
	r.set(chopconfHstrt, uint32(v))
	return r
}

func (r *Chopconf) SetHend(v uint8) *Chopconf {
	r.set(chopconfHend, uint32(v))
	return r
}

func (r *Chopconf) SetTbl(v uint8) *Chopconf {
	r.set(chopconfTbl, uint32(v))
	return r
}

func (r *Chopconf) SetVsense(v bool) *Chopconf {
	r.setBool(chopconfVsense, v)
	return r
}

func (r *Chopconf) SetMres(v MicrostepResolution) *Chopconf {
	r.set(chopconfMres, uint32(v))
	return r
}

func (r *Chopconf) SetIntpol(v bool) *Chopconf {
	r.setBool(chopconfIntpol, v)
	return r
}

func (r *Chopconf) SetDedge(v bool) *Chopconf {
	r.setBool(chopconfDedge, v)
	return r
}

func (r *Chopconf) SetDiss2g(v bool) *Chopconf {
	r.setBool(chopconfDiss2g, v)
	return r
}

func (r *Chopconf) SetDiss2vs(v bool) *Chopconf {
	r.setBool(chopconfDiss2vs, v)
	return r
}

// DrvStatus reports driver error flags, temperature thresholds and the actual current scale.
type DrvStatus struct {
	value
	readOnly
}

var (
	drvStatusOtpw     = boolField("otpw", 0)
	drvStatusOt       = boolField("ot", 1)
	drvStatusS2ga     = boolField("s2ga", 2)
	drvStatusS2gb     = boolField("s2gb", 3)
	drvStatusS2vsa    = boolField("s2vsa", 4)
	drvStatusS2vsb    = boolField("s2vsb", 5)
	drvStatusOla      = boolField("ola", 6)
	drvStatusOlb      = boolField("olb", 7)
	drvStatusT120     = boolField("t120", 8)
	drvStatusT143     = boolField("t143", 9)
	drvStatusT150     = boolField("t150", 10)
	drvStatusT157     = boolField("t157", 11)
	drvStatusCsActual = unsignedField("cs_actual", 16, 5)
	drvStatusStealth  = boolField("stealth", 30)
	drvStatusStst     = boolField("stst", 31)

	drvStatusFields = []Field{
		drvStatusOtpw,
		drvStatusOt,
		drvStatusS2ga,
		drvStatusS2gb,
		drvStatusS2vsa,
		drvStatusS2vsb,
		drvStatusOla,
		drvStatusOlb,
		drvStatusT120,
		drvStatusT143,
		drvStatusT150,
		drvStatusT157,
		drvStatusCsActual,
		drvStatusStealth,
		drvStatusStst,
	}
)

func (DrvStatus) Address() Address { return AddrDRV_STATUS }
func (DrvStatus) Default() uint32 { return 0x00000000 }
func (DrvStatus) Fields() []Field { return drvStatusFields }

// Otpw reports the overtemperature pre-warning
func (r DrvStatus) Otpw() bool { return r.getBool(drvStatusOtpw) }

// Ot reports overtemperature shutdown
func (r DrvStatus) Ot() bool { return r.getBool(drvStatusOt) }
func (r DrvStatus) S2ga() bool { return r.getBool(drvStatusS2ga) }
func (r DrvStatus) S2gb() bool { return r.getBool(drvStatusS2gb) }
func (r DrvStatus) S2vsa() bool { return r.getBool(drvStatusS2vsa) }
func (r DrvStatus) S2vsb() bool { return r.getBool(drvStatusS2vsb) }
func (r DrvStatus) Ola() bool { return r.getBool(drvStatusOla) }
func (r DrvStatus) Olb() bool { return r.getBool(drvStatusOlb) }
func (r DrvStatus) T120() bool { return r.getBool(drvStatusT120) }
func (r DrvStatus) T143() bool { return r.getBool(drvStatusT143) }
func (r DrvStatus) T150() bool { return r.getBool(drvStatusT150) }
func (r DrvStatus) T157() bool { return r.getBool(drvStatusT157) }
func (r DrvStatus) CsActual() uint8 { return uint8(r.get(drvStatusCsActual)) }

// Stealth reports StealthChop mode
func (r DrvStatus) Stealth() bool { return r.getBool(drvStatusStealth) }

// Stst reports standstill
func (r DrvStatus) Stst() bool { return r.getBool(drvStatusStst) }

// Pwmconf configures StealthChop voltage PWM mode.
type Pwmconf struct {
	value
	readWrite
}

var (
	pwmconfPwmOfs       = unsignedField("pwm_ofs", 0, 8)
	pwmconfPwmGrad      = unsignedField("pwm_grad", 8, 8)
	pwmconfPwmFreq      = unsignedField("pwm_freq", 16, 2)
	pwmconfPwmAutoscale = boolField("pwm_autoscale", 18)
	pwmconfPwmAutograd  = boolField("pwm_autograd", 19)
	pwmconfFreewheel    = unsignedField("freewheel", 20, 2)
	pwmconfPwmReg       = unsignedField("pwm_reg", 24, 4)
	pwmconfPwmLim       = unsignedField("pwm_lim", 28, 4)

	pwmconfFields = []Field{
		pwmconfPwmOfs,
		pwmconfPwmGrad,
		pwmconfPwmFreq,
		pwmconfPwmAutoscale,
		pwmconfPwmAutograd,
		pwmconfFreewheel,
		pwmconfPwmReg,
		pwmconfPwmLim,
	}
)

// NewPwmconf returns PWMCONF at its reset default
func NewPwmconf() Pwmconf {
	return Pwmconf{value: value{raw: 0xC10D0024}}
}

func (Pwmconf) Address() Address { return AddrPWMCONF }
func (Pwmconf) Default() uint32 { return 0xC10D0024 }
func (Pwmconf) Fields() []Field { return pwmconfFields }

func (r Pwmconf) PwmOfs() uint8 { return uint8(r.get(pwmconfPwmOfs)) }
func (r Pwmconf) PwmGrad() uint8 { return uint8(r.get(pwmconfPwmGrad)) }
func (r Pwmconf) PwmFreq() uint8 { return uint8(r.get(pwmconfPwmFreq)) }
func (r Pwmconf) PwmAutoscale() bool { return r.getBool(pwmconfPwmAutoscale) }
func (r Pwmconf) PwmAutograd() bool { return r.getBool(pwmconfPwmAutograd) }

// Freewheel selects the standstill option used when IHOLD is zero
func (r Pwmconf) Freewheel() StandstillMode { return StandstillMode(r.get(pwmconfFreewheel)) }
func (r Pwmconf) PwmReg() uint8 { return uint8(r.get(pwmconfPwmReg)) }
func (r Pwmconf) PwmLim() uint8 { return uint8(r.get(pwmconfPwmLim)) }

func (r *Pwmconf) SetPwmOfs(v uint8) *Pwmconf {
	r.set(pwmconfPwmOfs, uint32(v))
	return r
}

func (r *Pwmconf) SetPwmGrad(v uint8) *Pwmconf {
	r.set(pwmconfPwmGrad, uint32(v))
	return r
}

func (r *Pwmconf) SetPwmFreq(v uint8) *Pwmconf {
	r.set(pwmconfPwmFreq, uint32(v))
	return r
}

func (r *Pwmconf) SetPwmAutoscale(v bool) *Pwmconf {
	r.setBool(pwmconfPwmAutoscale, v)
	return r
}

func (r *Pwmconf) SetPwmAutograd(v bool) *Pwmconf {
	r.setBool(pwmconfPwmAutograd, v)
	return r
}

func (r *Pwmconf) SetFreewheel(v StandstillMode) *Pwmconf {
	r.set(pwmconfFreewheel, uint32(v))
	return r
}

func (r *Pwmconf) SetPwmReg(v uint8) *Pwmconf {
	r.set(pwmconfPwmReg, uint32(v))
	return r
}

func (r *Pwmconf) SetPwmLim(v uint8) *Pwmconf {
	r.set(pwmconfPwmLim, uint32(v))
	return r
}

// PwmScale reports the StealthChop PWM amplitude.
type PwmScale struct {
	value
	readOnly
}

var (
	pwmScalePwmScaleSum  = unsignedField("pwm_scale_sum", 0, 8)
	pwmScalePwmScaleAuto = signedField("pwm_scale_auto", 16, 9)

	pwmScaleFields = []Field{pwmScalePwmScaleSum, pwmScalePwmScaleAuto}
)

func (PwmScale) Address() Address { return AddrPWM_SCALE }
func (PwmScale) Default() uint32 { return 0x00000000 }
func (PwmScale) Fields() []Field { return pwmScaleFields }

func (r PwmScale) PwmScaleSum() uint8 { return uint8(r.get(pwmScalePwmScaleSum)) }
func (r PwmScale) PwmScaleAuto() int16 { return int16(r.getSigned(pwmScalePwmScaleAuto)) }

// PwmAuto holds the automatically determined PWM offset and gradient.
type PwmAuto struct {
	value
	readOnly
}

var (
	pwmAutoPwmOfsAuto  = unsignedField("pwm_ofs_auto", 0, 8)
	pwmAutoPwmGradAuto = unsignedField("pwm_grad_auto", 16, 8)

	pwmAutoFields = []Field{pwmAutoPwmOfsAuto, pwmAutoPwmGradAuto}
)

func (PwmAuto) Address() Address { return AddrPWM_AUTO }
func (PwmAuto) Default() uint32 { return 0x00000000 }
func (PwmAuto) Fields() []Field { return pwmAutoFields }

func (r PwmAuto) PwmOfsAuto() uint8 { return uint8(r.get(pwmAutoPwmOfsAuto)) }
func (r PwmAuto) PwmGradAuto() uint8 { return uint8(r.get(pwmAutoPwmGradAuto)) }

// Enabled reports whether the power stage is on (TOFF non-zero)
func (r Chopconf) Enabled() bool {
	return r.Toff() != 0
}

// Microsteps returns the configured microsteps per full step
func (r Chopconf) Microsteps() uint16 {
	return r.Mres().Microsteps()
}

// ShortDetected reports a short to ground or supply on either coil
func (r DrvStatus) ShortDetected() bool {
	return r.S2ga() || r.S2gb() || r.S2vsa() || r.S2vsb()
}

// OpenLoadDetected reports an open load on either coil
func (r DrvStatus) OpenLoadDetected() bool {
	return r.Ola() || r.Olb()
}

// Overtemperature reports the pre-warning or the shutdown threshold
func (r DrvStatus) Overtemperature() bool {
	return r.Otpw() || r.Ot()
}

// HasError reports conditions that shut the driver down
func (r DrvStatus) HasError() bool {
	return r.ShortDetected() || r.Ot()
}
