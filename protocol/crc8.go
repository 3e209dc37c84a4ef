package protocol

// CRC8 calculates the checksum carried in the last byte of a TMC UART datagram.
// Each byte is shifted in LSB first against the generator x^8+x^2+x+1 with a zero
// initial value and no final XOR.
func CRC8(data []byte) uint8 {
	var crc uint8
	for _, b := range data {
		for i := 0; i < 8; i++ {
			if (crc>>7)^(b&0x01) != 0 {
				crc = (crc << 1) ^ 0x07
			} else {
				crc <<= 1
			}
			b >>= 1
		}
	}
	return crc
}

// VerifyCRC8 reports whether the last byte of frame is the checksum of the rest
func VerifyCRC8(frame []byte) bool {
	if len(frame) == 0 {
		return false
	}
	return CRC8(frame[:len(frame)-1]) == frame[len(frame)-1]
}
