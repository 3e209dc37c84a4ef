package registers

// Gconf holds the global configuration flags.
type Gconf struct {
	value
	readWrite
}

var (
	gconfIScaleAnalog   = boolField("i_scale_analog", 0)
	gconfInternalRsense = boolField("internal_rsense", 1)
	gconfEnSpreadcycle  = boolField("en_spreadcycle", 2)
	gconfShaft          = boolField("shaft", 3)
	gconfIndexOtpw      = boolField("index_otpw", 4)
	gconfIndexStep      = boolField("index_step", 5)
	gconfPdnDisable     = boolField("pdn_disable", 6)
	gconfMstepRegSelect = boolField("mstep_reg_select", 7)
	gconfMultistepFilt  = boolField("multistep_filt", 8)
	gconfTestMode       = boolField("test_mode", 9)

	gconfFields = []Field{
		gconfIScaleAnalog,
		gconfInternalRsense,
		gconfEnSpreadcycle,
		gconfShaft,
		gconfIndexOtpw,
		gconfIndexStep,
		gconfPdnDisable,
		gconfMstepRegSelect,
		gconfMultistepFilt,
		gconfTestMode,
	}
)

// NewGconf returns GCONF at its reset default
func NewGconf() Gconf {
	return Gconf{value: value{raw: 0x00000040}}
}

func (Gconf) Address() Address { return AddrGCONF }
func (Gconf) Default() uint32 { return 0x00000040 }
func (Gconf) Fields() []Field { return gconfFields }

// IScaleAnalog uses VREF as current reference
func (r Gconf) IScaleAnalog() bool { return r.getBool(gconfIScaleAnalog) }

// InternalRsense uses the internal sense resistors
func (r Gconf) InternalRsense() bool { return r.getBool(gconfInternalRsense) }

// EnSpreadcycle selects SpreadCycle instead of StealthChop
func (r Gconf) EnSpreadcycle() bool { return r.getBool(gconfEnSpreadcycle) }

// Shaft inverts motor direction
func (r Gconf) Shaft() bool { return r.getBool(gconfShaft) }
func (r Gconf) IndexOtpw() bool { return r.getBool(gconfIndexOtpw) }
func (r Gconf) IndexStep() bool { return r.getBool(gconfIndexStep) }

// PdnDisable must be set while using UART on the PDN_UART pin
func (r Gconf) PdnDisable() bool { return r.getBool(gconfPdnDisable) }

// MstepRegSelect takes microstep resolution from MRES instead of MS1/MS2
func (r Gconf) MstepRegSelect() bool { return r.getBool(gconfMstepRegSelect) }
func (r Gconf) MultistepFilt() bool { return r.getBool(gconfMultistepFilt) }
func (r Gconf) TestMode() bool { return r.getBool(gconfTestMode) }

func (r *Gconf) SetIScaleAnalog(v bool) *Gconf {
	r.setBool(gconfIScaleAnalog, v)
	return r
}

func (r *Gconf) SetInternalRsense(v bool) *Gconf {
	r.setBool(gconfInternalRsense, v)
	return r
}

func (r *Gconf) SetEnSpreadcycle(v bool) *Gconf {
	r.setBool(gconfEnSpreadcycle, v)
	return r
}

func (r *Gconf) SetShaft(v bool) *Gconf {
	r.setBool(gconfShaft, v)
	return r
}

func (r *Gconf) SetIndexOtpw(v bool) *Gconf {
	r.setBool(gconfIndexOtpw, v)
	return r
}

func (r *Gconf) SetIndexStep(v bool) *Gconf {
	r.setBool(gconfIndexStep, v)
	return r
}

func (r *Gconf) SetPdnDisable(v bool) *Gconf {
	r.setBool(gconfPdnDisable, v)
	return r
}

func (r *Gconf) SetMstepRegSelect(v bool) *Gconf {
	r.setBool(gconfMstepRegSelect, v)
	return r
}

func (r *Gconf) SetMultistepFilt(v bool) *Gconf {
	r.setBool(gconfMultistepFilt, v)
	return r
}

func (r *Gconf) SetTestMode(v bool) *Gconf {
	r.setBool(gconfTestMode, v)
	return r
}

// Gstat holds the global status flags. Writing 1 to a flag clears it.
type Gstat struct {
	value
	readWrite
}

var (
	gstatReset  = boolField("reset", 0)
	gstatDrvErr = boolField("drv_err", 1)
	gstatUvCp   = boolField("uv_cp", 2)

	gstatFields = []Field{gstatReset, gstatDrvErr, gstatUvCp}
)

func (Gstat) Address() Address { return AddrGSTAT }
func (Gstat) Default() uint32 { return 0x00000000 }
func (Gstat) Fields() []Field { return gstatFields }

// Reset is set after the chip was reset
func (r Gstat) Reset() bool { return r.getBool(gstatReset) }

// DrvErr is set after a shutdown due to overtemperature or short
func (r Gstat) DrvErr() bool { return r.getBool(gstatDrvErr) }

// UvCp reports charge pump undervoltage
func (r Gstat) UvCp() bool { return r.getBool(gstatUvCp) }

func (r *Gstat) SetReset(v bool) *Gstat {
	r.setBool(gstatReset, v)
	return r
}

func (r *Gstat) SetDrvErr(v bool) *Gstat {
	r.setBool(gstatDrvErr, v)
	return r
}

func (r *Gstat) SetUvCp(v bool) *Gstat {
	r.setBool(gstatUvCp, v)
	return r
}

// Ifcnt counts successful UART write accesses, wrapping at 255.
type Ifcnt struct {
	value
	readOnly
}

var (
	ifcntCount = unsignedField("ifcnt", 0, 8)

	ifcntFields = []Field{ifcntCount}
)

func (Ifcnt) Address() Address { return AddrIFCNT }
func (Ifcnt) Default() uint32 { return 0x00000000 }
func (Ifcnt) Fields() []Field { return ifcntFields }

func (r Ifcnt) Count() uint8 { return uint8(r.get(ifcntCount)) }

// Slaveconf sets the delay before the chip answers a read request.
type Slaveconf struct {
	value
	writeOnly
}

var (
	slaveconfSenddelay = unsignedField("senddelay", 8, 4)

	slaveconfFields = []Field{slaveconfSenddelay}
)

func (Slaveconf) Address() Address { return AddrSLAVECONF }
func (Slaveconf) Default() uint32 { return 0x00000000 }
func (Slaveconf) Fields() []Field { return slaveconfFields }

// Senddelay selects the response delay in multiples of eight bit times
func (r Slaveconf) Senddelay() uint8 { return uint8(r.get(slaveconfSenddelay)) }

func (r *Slaveconf) SetSenddelay(v uint8) *Slaveconf {
	r.set(slaveconfSenddelay, uint32(v))
	return r
}

// OtpProg programs one bit of the one-time-programmable memory.
type OtpProg struct {
	value
	writeOnly
}

var (
	otpProgOtpbit   = unsignedField("otpbit", 0, 3)
	otpProgOtpbyte  = unsignedField("otpbyte", 4, 2)
	otpProgOtpmagic = unsignedField("otpmagic", 8, 8)

	otpProgFields = []Field{otpProgOtpbit, otpProgOtpbyte, otpProgOtpmagic}
)

func (OtpProg) Address() Address { return AddrOTP_PROG }
func (OtpProg) Default() uint32 { return 0x00000000 }
func (OtpProg) Fields() []Field { return otpProgFields }

func (r OtpProg) Otpbit() uint8 { return uint8(r.get(otpProgOtpbit)) }
func (r OtpProg) Otpbyte() uint8 { return uint8(r.get(otpProgOtpbyte)) }
func (r OtpProg) Otpmagic() uint8 { return uint8(r.get(otpProgOtpmagic)) }

func (r *OtpProg) SetOtpbit(v uint8) *OtpProg {
	r.set(otpProgOtpbit, uint32(v))
	return r
}

func (r *OtpProg) SetOtpbyte(v uint8) *OtpProg {
	r.set(otpProgOtpbyte, uint32(v))
	return r
}

func (r *OtpProg) SetOtpmagic(v uint8) *OtpProg {
	r.set(otpProgOtpmagic, uint32(v))
	return r
}

// OtpRead reflects the OTP memory and the power-up defaults it selects.
type OtpRead struct {
	value
	readOnly
}

var (
	otpReadFclktrim       = unsignedField("otp_fclktrim", 0, 5)
	otpReadOttrim         = boolField("otp_ottrim", 5)
	otpReadInternalRsense = boolField("otp_internal_rsense", 6)
	otpReadTbl            = boolField("otp_tbl", 7)
	otpReadPwmGrad        = unsignedField("otp_pwm_grad", 8, 4)
	otpReadPwmAutograd    = boolField("otp_pwm_autograd", 12)
	otpReadTpwmthrs       = unsignedField("otp_tpwmthrs", 13, 3)
	otpReadPwmOfs         = boolField("otp_pwm_ofs", 16)
	otpReadPwmReg         = boolField("otp_pwm_reg", 17)
	otpReadPwmFreq        = boolField("otp_pwm_freq", 18)
	otpReadIholddelay     = unsignedField("otp_iholddelay", 19, 2)
	otpReadIhold          = unsignedField("otp_ihold", 21, 2)
	otpReadEnSpreadcycle  = boolField("otp_en_spreadcycle", 23)

	otpReadFields = []Field{
		otpReadFclktrim,
		otpReadOttrim,
		otpReadInternalRsense,
		otpReadTbl,
		otpReadPwmGrad,
		otpReadPwmAutograd,
		otpReadTpwmthrs,
		otpReadPwmOfs,
		otpReadPwmReg,
		otpReadPwmFreq,
		otpReadIholddelay,
		otpReadIhold,
		otpReadEnSpreadcycle,
	}
)

func (OtpRead) Address() Address { return AddrOTP_READ }
func (OtpRead) Default() uint32 { return 0x00000000 }
func (OtpRead) Fields() []Field { return otpReadFields }

func (r OtpRead) Fclktrim() uint8 { return uint8(r.get(otpReadFclktrim)) }
func (r OtpRead) Ottrim() bool { return r.getBool(otpReadOttrim) }
func (r OtpRead) InternalRsense() bool { return r.getBool(otpReadInternalRsense) }
func (r OtpRead) Tbl() bool { return r.getBool(otpReadTbl) }
func (r OtpRead) PwmGrad() uint8 { return uint8(r.get(otpReadPwmGrad)) }
func (r OtpRead) PwmAutograd() bool { return r.getBool(otpReadPwmAutograd) }
func (r OtpRead) Tpwmthrs() uint8 { return uint8(r.get(otpReadTpwmthrs)) }
func (r OtpRead) PwmOfs() bool { return r.getBool(otpReadPwmOfs) }
func (r OtpRead) PwmReg() bool { return r.getBool(otpReadPwmReg) }
func (r OtpRead) PwmFreq() bool { return r.getBool(otpReadPwmFreq) }
func (r OtpRead) Iholddelay() uint8 { return uint8(r.get(otpReadIholddelay)) }
func (r OtpRead) Ihold() uint8 { return uint8(r.get(otpReadIhold)) }
func (r OtpRead) EnSpreadcycle() bool { return r.getBool(otpReadEnSpreadcycle) }

// Ioin reports the input pin states and the silicon version.
type Ioin struct {
	value
	readOnly
}

var (
	ioinEnn      = boolField("enn", 0)
	ioinMs1      = boolField("ms1", 2)
	ioinMs2      = boolField("ms2", 3)
	ioinDiag     = boolField("diag", 4)
	ioinPdnUart  = boolField("pdn_uart", 6)
	ioinStep     = boolField("step", 7)
	ioinSpreadEn = boolField("spread_en", 8)
	ioinDir      = boolField("dir", 9)
	ioinVersion  = unsignedField("version", 24, 8)

	ioinFields = []Field{
		ioinEnn,
		ioinMs1,
		ioinMs2,
		ioinDiag,
		ioinPdnUart,
		ioinStep,
		ioinSpreadEn,
		ioinDir,
		ioinVersion,
	}
)

func (Ioin) Address() Address { return AddrIOIN }
func (Ioin) Default() uint32 { return 0x00000000 }
func (Ioin) Fields() []Field { return ioinFields }

func (r Ioin) Enn() bool { return r.getBool(ioinEnn) }
func (r Ioin) Ms1() bool { return r.getBool(ioinMs1) }
func (r Ioin) Ms2() bool { return r.getBool(ioinMs2) }
func (r Ioin) Diag() bool { return r.getBool(ioinDiag) }
func (r Ioin) PdnUart() bool { return r.getBool(ioinPdnUart) }
func (r Ioin) Step() bool { return r.getBool(ioinStep) }
func (r Ioin) SpreadEn() bool { return r.getBool(ioinSpreadEn) }
func (r Ioin) Dir() bool { return r.getBool(ioinDir) }

// Version is 0x21 for the TMC2209
func (r Ioin) Version() uint8 { return uint8(r.get(ioinVersion)) }

// FactoryConf trims the clock and overtemperature thresholds.
type FactoryConf struct {
	value
	readWrite
}

var (
	factoryConfFclktrim = unsignedField("fclktrim", 0, 5)
	factoryConfOttrim   = unsignedField("ottrim", 8, 2)

	factoryConfFields = []Field{factoryConfFclktrim, factoryConfOttrim}
)

func (FactoryConf) Address() Address { return AddrFACTORY_CONF }
func (FactoryConf) Default() uint32 { return 0x00000000 }
func (FactoryConf) Fields() []Field { return factoryConfFields }

func (r FactoryConf) Fclktrim() uint8 { return uint8(r.get(factoryConfFclktrim)) }
func (r FactoryConf) Ottrim() uint8 { return uint8(r.get(factoryConfOttrim)) }

func (r *FactoryConf) SetFclktrim(v uint8) *FactoryConf {
	r.set(factoryConfFclktrim, uint32(v))
	return r
}

func (r *FactoryConf) SetOttrim(v uint8) *FactoryConf {
	r.set(factoryConfOttrim, uint32(v))
	return r
}

// GstatClearAll returns a GSTAT value that clears every flag when written
func GstatClearAll() Gstat {
	return Gstat{value: value{raw: 0x07}}
}

// Any reports whether any status flag is set
func (r Gstat) Any() bool {
	return r.raw&0x07 != 0
}

const (
	// Version reported by IOIN on a TMC2209
	ChipVersion = 0x21
	// OtpMagic must be written to OTP_PROG to program a bit
	OtpMagic = 0xBD
)
