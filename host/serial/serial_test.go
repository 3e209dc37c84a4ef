package serial

import (
	"testing"

	"tmc2209/tmc/tmctest"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB0")
	if cfg.Device != "/dev/ttyUSB0" {
		t.Errorf("Device = %q", cfg.Device)
	}
	if cfg.Baud != 115200 {
		t.Errorf("Baud = %d, want 115200", cfg.Baud)
	}
	if cfg.ReadTimeout <= 0 {
		t.Errorf("ReadTimeout = %d, want positive", cfg.ReadTimeout)
	}
}

func TestOpenRejectsBadConfig(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Error("Open(nil) succeeded")
	}
	cfg := DefaultConfig("/dev/does-not-exist")
	cfg.ReadTimeout = 0
	if _, err := Open(cfg); err == nil {
		t.Error("Open with zero read timeout succeeded")
	}
}

func TestNopFlush(t *testing.T) {
	p := NopFlush(tmctest.NewChip(0))
	if err := p.Flush(); err != nil {
		t.Errorf("Flush = %v", err)
	}
	if _, err := p.Write([]byte{0x05, 0x00, 0x00, 0x48}); err != nil {
		t.Fatalf("Write = %v", err)
	}
	buf := make([]byte, 12)
	n, err := p.Read(buf)
	if err != nil || n != 12 {
		t.Errorf("Read = %d, %v; want echo and response", n, err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
}
