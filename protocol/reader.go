package protocol

// ResponseReader assembles read responses from an arbitrary byte stream.
// It hunts for the sync byte followed by the master address and drops
// anything in between. It is meant for passive bus monitoring; the driver
// never resynchronizes a transaction.
type ResponseReader struct {
	buf [ReadResponseLen]byte
	n   int
}

// Reset discards any partially assembled response
func (r *ResponseReader) Reset() {
	r.n = 0
}

// Buffered returns the number of bytes of the pending response
func (r *ResponseReader) Buffered() int {
	return r.n
}

// Feed consumes bytes from p until a response is complete or p is exhausted.
// It returns how many bytes were consumed and whether a full response is
// available from Response. The response is not validated.
func (r *ResponseReader) Feed(p []byte) (int, bool) {
	consumed := 0
	for consumed < len(p) {
		b := p[consumed]
		switch r.n {
		case PositionSync:
			consumed++
			if b == Sync {
				r.buf[0] = b
				r.n = 1
			}
		case PositionSlave:
			if b != MasterAddress {
				// Re-examine this byte as a potential sync
				r.n = 0
				continue
			}
			consumed++
			r.buf[1] = b
			r.n = 2
		default:
			c := copy(r.buf[r.n:], p[consumed:])
			consumed += c
			r.n += c
		}
		if r.n == ReadResponseLen {
			r.n = 0
			return consumed, true
		}
	}
	return consumed, false
}

// Response returns the most recently completed response
func (r *ResponseReader) Response() ReadResponse {
	return ReadResponse(r.buf)
}
