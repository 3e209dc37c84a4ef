package tmc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// Line is the byte-level half-duplex UART shared by the host and the chips.
// Every byte sent is echoed back on the receive side.
type Line interface {
	// Send transmits all of p
	Send(ctx context.Context, p []byte) error
	// Receive fills p completely or fails
	Receive(ctx context.Context, p []byte) error
}

// StreamLine is the blocking binding over any io.ReadWriter, typically a
// serial port opened with a read timeout. The context is not consulted;
// timeouts come from the underlying reader.
type StreamLine struct {
	rw io.ReadWriter
}

// NewStreamLine creates a blocking line on rw
func NewStreamLine(rw io.ReadWriter) *StreamLine {
	return &StreamLine{rw: rw}
}

// Send writes p in a single call
func (l *StreamLine) Send(_ context.Context, p []byte) error {
	n, err := l.rw.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return fmt.Errorf("incomplete write: %d/%d bytes", n, len(p))
	}
	return nil
}

// Receive reads until p is full. A read returning no data and no error is
// treated as a timeout.
func (l *StreamLine) Receive(_ context.Context, p []byte) error {
	for got := 0; got < len(p); {
		n, err := l.rw.Read(p[got:])
		got += n
		switch {
		case got == len(p):
			return nil
		case err != nil && err != io.EOF:
			return err
		case n == 0 || err == io.EOF:
			if got == 0 {
				return ErrNoResponse
			}
			return io.ErrUnexpectedEOF
		}
	}
	return nil
}

// Drainer is implemented by lines that can discard input left over from an
// earlier transaction, such as a response that arrived after its deadline.
// The driver drains before every transaction.
type Drainer interface {
	// Drain discards pending input and returns how many bytes it dropped,
	// or zero when the count is unknown
	Drain() int
}

// Drain flushes the underlying port when it supports flushing
func (l *StreamLine) Drain() int {
	if f, ok := l.rw.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			glog.Warningf("tmc: flush failed: %v", err)
		}
	}
	return 0
}

// maxSettleRounds bounds Drain on a line that keeps chattering
const maxSettleRounds = 8

// TimeoutLine bounds every Send and Receive of an inner line. A receive
// that runs out of time reports ErrNoResponse unless the caller's own
// context ended first.
//
// A call that gives up leaves the line dirty: the chip may still answer.
// The next Drain then waits in steps of Timeout until a whole step passes
// without input, so a reply up to roughly twice the timeout late is
// discarded instead of being taken for the next answer.
type TimeoutLine struct {
	Line
	Timeout time.Duration

	dirty atomic.Bool
}

// WithTimeout wraps line so no single call waits longer than d
func WithTimeout(line Line, d time.Duration) *TimeoutLine {
	return &TimeoutLine{Line: line, Timeout: d}
}

func (l *TimeoutLine) Send(ctx context.Context, p []byte) error {
	tctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()
	return l.expired(ctx, l.Line.Send(tctx, p))
}

func (l *TimeoutLine) Receive(ctx context.Context, p []byte) error {
	tctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()
	return l.expired(ctx, l.Line.Receive(tctx, p))
}

// Drain discards pending input of the inner line, first letting a late
// reply arrive if the previous call gave up
func (l *TimeoutLine) Drain() int {
	inner, ok := l.Line.(Drainer)
	if !ok {
		return 0
	}
	n := inner.Drain()
	if !l.dirty.Swap(false) {
		return n
	}
	for i := 0; i < maxSettleRounds; i++ {
		time.Sleep(l.Timeout)
		got := inner.Drain()
		n += got
		if got == 0 {
			break
		}
	}
	return n
}

func (l *TimeoutLine) expired(parent context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		l.dirty.Store(true)
	}
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return ErrNoResponse
	}
	return err
}
