//go:build !linux

package pins

import "errors"

// Pins is only available on linux
type Pins struct{}

func Open(cfg Config) (*Pins, error) {
	return nil, errors.New("GPIO access requires linux")
}

func (p *Pins) Enable(on bool) error { return ErrNotWired }
func (p *Pins) Diag() (bool, error) { return false, ErrNotWired }
func (p *Pins) Stalls() <-chan Stall { return nil }
func (p *Pins) Close() error { return nil }
