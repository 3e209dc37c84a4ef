package monitor

import (
	"context"
	"time"

	"tmc2209/registers"
	"tmc2209/tmc"
)

// Snapshot is one sample of a driver's health
type Snapshot struct {
	Time    time.Time `json:"time"`
	Slave   uint8     `json:"slave"`
	Version uint8     `json:"version"`
	Ifcnt   uint8     `json:"ifcnt"`

	Reset  bool `json:"reset"`
	DrvErr bool `json:"drv_err"`
	UvCp   bool `json:"uv_cp"`

	Standstill  bool   `json:"standstill"`
	StealthChop bool   `json:"stealthchop"`
	CsActual    uint8  `json:"cs_actual"`
	Tstep       uint32 `json:"tstep"`
	SgResult    uint16 `json:"sg_result"`

	Short           bool   `json:"short"`
	OpenLoad        bool   `json:"open_load"`
	Overtemperature bool   `json:"overtemperature"`
	Temperature     string `json:"temperature"` // highest threshold exceeded

	Stalls int `json:"stalls,omitempty"`
}

// Sample reads IOIN, IFCNT, GSTAT, DRV_STATUS, TSTEP and SG_RESULT
func Sample(ctx context.Context, d *tmc.Driver) (Snapshot, error) {
	s := Snapshot{Time: time.Now(), Slave: d.Slave()}

	ioin, err := d.Ioin(ctx)
	if err != nil {
		return s, err
	}
	s.Version = ioin.Version()

	if s.Ifcnt, err = d.Ifcnt(ctx); err != nil {
		return s, err
	}

	gstat, err := d.Gstat(ctx)
	if err != nil {
		return s, err
	}
	s.Reset, s.DrvErr, s.UvCp = gstat.Reset(), gstat.DrvErr(), gstat.UvCp()

	drv, err := d.DrvStatus(ctx)
	if err != nil {
		return s, err
	}
	s.Standstill = drv.Stst()
	s.StealthChop = drv.Stealth()
	s.CsActual = drv.CsActual()
	s.Short = drv.ShortDetected()
	s.OpenLoad = drv.OpenLoadDetected()
	s.Overtemperature = drv.Overtemperature()
	s.Temperature = temperature(drv)

	if s.Tstep, err = d.Tstep(ctx); err != nil {
		return s, err
	}
	if s.SgResult, err = d.SgResult(ctx); err != nil {
		return s, err
	}
	return s, nil
}

func temperature(drv registers.DrvStatus) string {
	switch {
	case drv.Ot():
		return "shutdown"
	case drv.T157():
		return ">157C"
	case drv.T150():
		return ">150C"
	case drv.T143():
		return ">143C"
	case drv.T120():
		return ">120C"
	}
	return "normal"
}
