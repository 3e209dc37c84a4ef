package tmc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
)

const (
	asyncRxDepth = 256
	// Pause between reads that return nothing (port read timeout or empty fake)
	asyncIdleBackoff = time.Millisecond
	asyncErrBackoff  = 10 * time.Millisecond
)

// AsyncLine is the cooperatively suspending binding. A background goroutine
// pumps the port into a channel; Send and Receive park on channels and give
// up when the context is done.
type AsyncLine struct {
	port io.ReadWriteCloser

	rx chan byte
	tx chan txRequest

	stopChan chan struct{}
	doneChan chan struct{}
	wg       sync.WaitGroup

	closeOnce sync.Once
}

type txRequest struct {
	data []byte
	done chan error
}

// NewAsyncLine starts the reader and writer goroutines on port
func NewAsyncLine(port io.ReadWriteCloser) *AsyncLine {
	l := &AsyncLine{
		port:     port,
		rx:       make(chan byte, asyncRxDepth),
		tx:       make(chan txRequest),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}

	l.wg.Add(2)
	go l.readLoop()
	go l.writeLoop()
	go func() {
		l.wg.Wait()
		close(l.doneChan)
	}()

	return l
}

// Send hands p to the writer goroutine and waits for the write to finish
func (l *AsyncLine) Send(ctx context.Context, p []byte) error {
	req := txRequest{
		data: append([]byte(nil), p...),
		done: make(chan error, 1),
	}

	select {
	case l.tx <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopChan:
		return ErrClosed
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive waits until len(p) bytes have arrived
func (l *AsyncLine) Receive(ctx context.Context, p []byte) error {
	for i := range p {
		select {
		case b := <-l.rx:
			p[i] = b
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopChan:
			return ErrClosed
		}
	}
	return nil
}

// Drain discards bytes received so far
func (l *AsyncLine) Drain() int {
	n := 0
	for {
		select {
		case <-l.rx:
			n++
		default:
			return n
		}
	}
}

// Close stops both goroutines and closes the port
func (l *AsyncLine) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.stopChan)
		err = l.port.Close()
		<-l.doneChan
	})
	return err
}

// writeLoop serializes writes so Send can be abandoned without tearing a frame
func (l *AsyncLine) writeLoop() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			return
		case req := <-l.tx:
			n, err := l.port.Write(req.data)
			if err == nil && n != len(req.data) {
				err = fmt.Errorf("incomplete write: %d/%d bytes", n, len(req.data))
			}
			req.done <- err
		}
	}
}

// readLoop continuously reads from the port and queues the bytes
func (l *AsyncLine) readLoop() {
	defer l.wg.Done()

	buffer := make([]byte, 64)

	for {
		select {
		case <-l.stopChan:
			return
		default:
		}

		n, err := l.port.Read(buffer)
		for _, b := range buffer[:n] {
			select {
			case l.rx <- b:
			case <-l.stopChan:
				return
			}
		}

		switch {
		case err == nil && n > 0:
		case err == nil || errors.Is(err, io.EOF):
			// Serial ports report read timeouts as EOF
			time.Sleep(asyncIdleBackoff)
		default:
			select {
			case <-l.stopChan:
				return
			default:
			}
			glog.Warningf("tmc: async line read failed: %v", err)
			time.Sleep(asyncErrBackoff)
		}
	}
}
