//go:build linux

package pins

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/warthog618/gpiod"
)

// Pins owns the GPIO lines wired to one driver board
type Pins struct {
	chip   *gpiod.Chip
	enable *gpiod.Line
	diag   *gpiod.Line

	mu     sync.Mutex
	stalls chan Stall
}

// Open requests the configured lines. EN starts high, keeping the power
// stage off until Enable(true) is called.
func Open(cfg Config) (*Pins, error) {
	c, err := gpiod.NewChip(cfg.Chip, gpiod.WithConsumer("tmc2209"))
	if err != nil {
		return nil, fmt.Errorf("failed to open GPIO chip %s: %w", cfg.Chip, err)
	}

	p := &Pins{
		chip:   c,
		stalls: make(chan Stall, 16),
	}

	if cfg.Enable >= 0 {
		p.enable, err = c.RequestLine(cfg.Enable, gpiod.AsOutput(1))
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to request EN line %d: %w", cfg.Enable, err)
		}
	}

	if cfg.Diag >= 0 {
		p.diag, err = c.RequestLine(cfg.Diag, gpiod.WithEventHandler(p.onDiagRise), gpiod.WithRisingEdge)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to request DIAG line %d: %w", cfg.Diag, err)
		}
	}

	return p, nil
}

// Enable drives the active low EN input
func (p *Pins) Enable(on bool) error {
	if p.enable == nil {
		return ErrNotWired
	}
	v := 1
	if on {
		v = 0
	}
	return p.enable.SetValue(v)
}

// Diag returns the current DIAG level
func (p *Pins) Diag() (bool, error) {
	if p.diag == nil {
		return false, ErrNotWired
	}
	v, err := p.diag.Value()
	return v != 0, err
}

// Stalls delivers DIAG rising edges. Events are dropped while the channel is full.
// It returns nil when DIAG is not wired.
func (p *Pins) Stalls() <-chan Stall {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.diag == nil {
		return nil
	}
	return p.stalls
}

func (p *Pins) onDiagRise(evt gpiod.LineEvent) {
	select {
	case p.stalls <- Stall{Timestamp: evt.Timestamp}:
	default:
		glog.Warning("pins: stall event dropped")
	}
}

// Close releases the lines and the chip
func (p *Pins) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.enable != nil {
		if err := p.enable.Close(); err != nil {
			return fmt.Errorf("failed to close EN line: %w", err)
		}
		p.enable = nil
	}
	if p.diag != nil {
		if err := p.diag.Close(); err != nil {
			return fmt.Errorf("failed to close DIAG line: %w", err)
		}
		p.diag = nil
	}
	if p.chip != nil {
		err := p.chip.Close()
		p.chip = nil
		return err
	}
	return nil
}
