package protocol

import "testing"

func TestResponseReaderWholeFrame(t *testing.T) {
	var r ResponseReader
	frame := EncodeReadResponse(0x6C, 0x10000053)

	n, ok := r.Feed(frame[:])
	if !ok || n != ReadResponseLen {
		t.Fatalf("Feed = %d, %v", n, ok)
	}
	if r.Response() != frame {
		t.Errorf("Response = % X, want % X", r.Response(), frame)
	}
	if r.Buffered() != 0 {
		t.Errorf("Buffered = %d after completion", r.Buffered())
	}
}

func TestResponseReaderSkipsGarbage(t *testing.T) {
	var r ResponseReader
	frame := EncodeReadResponse(0x02, 7)
	// Echo of a read request, a sync without master, then the real reply
	stream := []byte{0x05, 0x00, 0x02, 0x8F, 0x05}
	stream = append(stream, frame[:]...)
	stream = append(stream, 0xAA)

	n, ok := r.Feed(stream)
	if !ok {
		t.Fatal("no response assembled")
	}
	if n != len(stream)-1 {
		t.Errorf("consumed %d, want %d", n, len(stream)-1)
	}
	if err := r.Response().Validate(); err != nil {
		t.Errorf("assembled response invalid: %v", err)
	}
	if r.Response().Value() != 7 {
		t.Errorf("value = %d", r.Response().Value())
	}
}

func TestResponseReaderByteAtATime(t *testing.T) {
	var r ResponseReader
	frame := EncodeReadResponse(0x6F, 0xC0000000)
	for i, b := range frame {
		n, ok := r.Feed([]byte{b})
		if n != 1 {
			t.Fatalf("byte %d: consumed %d", i, n)
		}
		if ok != (i == len(frame)-1) {
			t.Fatalf("byte %d: ok = %v", i, ok)
		}
	}
	if r.Response().Address() != 0x6F {
		t.Errorf("address = 0x%02X", r.Response().Address())
	}
}

func TestResponseReaderReset(t *testing.T) {
	var r ResponseReader
	frame := EncodeReadResponse(0x00, 0x40)
	r.Feed(frame[:5])
	if r.Buffered() != 5 {
		t.Fatalf("Buffered = %d, want 5", r.Buffered())
	}
	r.Reset()
	if _, ok := r.Feed(frame[5:]); ok {
		t.Error("tail of a reset frame completed a response")
	}
}
