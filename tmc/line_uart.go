package tmc

import (
	"context"
	"fmt"
	"runtime"

	"tinygo.org/x/drivers"
)

// UARTLine binds the driver to a microcontroller UART such as machine.UART.
// While waiting for bytes it yields to the scheduler instead of blocking,
// so other goroutines keep running on single-core targets.
type UARTLine struct {
	uart drivers.UART
}

// NewUARTLine creates a line on uart
func NewUARTLine(uart drivers.UART) *UARTLine {
	return &UARTLine{uart: uart}
}

func (l *UARTLine) Send(ctx context.Context, p []byte) error {
	for sent := 0; sent < len(p); {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := l.uart.Write(p[sent:])
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("incomplete write: %d/%d bytes", sent, len(p))
		}
		sent += n
	}
	return nil
}

func (l *UARTLine) Receive(ctx context.Context, p []byte) error {
	for got := 0; got < len(p); {
		if l.uart.Buffered() == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			runtime.Gosched()
			continue
		}
		n, err := l.uart.Read(p[got:])
		if err != nil {
			return err
		}
		got += n
	}
	return nil
}
