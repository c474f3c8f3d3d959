package decoder

// Pulse-width bands in microseconds, per
// http://jeelabs.org/2010/04/16/cresta-sensor/index.html.
const (
	lowTime  = 183
	midTime  = 726
	highTime = 1464
)

// dataBufferLength is the capacity of a working frame buffer: sync byte,
// up to 12 length-counted bytes (sensor ID, length byte, payload), CRC1,
// CRC2.
const dataBufferLength = 15

// maxLength is the largest declared payload length a frame may carry.
const maxLength = 12

// syncByte is the Hideki sync byte, post bit-reversal.
const syncByte = 0x9F

// decodeState is the per-Decoder mutable state of the biphase-mark state
// machine: bit accumulator, working frame buffer, and the RSSI
// accumulator for the frame in progress. Every Decoder owns one; nothing
// here is shared across instances.
type decodeState struct {
	count   int    // bits accumulated toward the current byte (0..9)
	halfBit int    // 1 if a half-bit is pending from a short pulse
	value   uint32 // accumulated bit value, including the trailing parity bit
	byteIdx int    // index of the next byte to fill in buf

	buf [dataBufferLength]byte

	rssiSum   float64
	rssiCount uint32
}

func decodedLength(lengthByte byte) int {
	return int((lengthByte >> 1) & 0x1F)
}

// step classifies one pulse duration and advances the state machine,
// publishing a completed frame to mb when both checksums verify.
//
// This mirrors the original decode loop byte for byte: reset starts true
// for every pulse and is cleared only by a recognized long or short pulse;
// from there the same byte/CRC1/CRC2 gates run in the same order, down to
// the quirk that a parity mismatch alone resets only the bit accumulator
// (count/value/halfBit), not the working buffer or byte index — the frame
// keeps trying to resynchronize at the same byte position until something
// else (bad sync, CRC1, CRC2, or an unclassified pulse) forces a full
// reset.
func (s *decodeState) step(duration uint16, rssi func() float64, mb *mailbox) {
	reset := true
	switch {
	case duration >= midTime && duration < highTime:
		s.value = (s.value + 1) << 1
		s.count++
		s.halfBit = 0
		reset = false
	case duration >= lowTime && duration < midTime:
		if s.halfBit == 1 {
			s.value = s.value << 1
			s.count++
		}
		s.halfBit = (s.halfBit + 1) % 2
		reset = false
	}

	length := maxLength + 1 // sentinel: no byte index exceeds this before byte 2
	if s.byteIdx > 2 && !reset {
		length = decodedLength(s.buf[2])
		if length > maxLength {
			reset = true
		}
	}

	if s.byteIdx == length+2 && !reset && s.count == 8 {
		s.count = 9
		s.value = parity(s.value) + (s.value << 1)
	}

	if s.count == 9 && !reset {
		s.value >>= 1
		if parity(s.value>>1) == s.value&1 {
			b := reverseBits(byte((s.value >> 1) & 0xFF))
			s.buf[s.byteIdx] = b

			if s.byteIdx == 0 && s.buf[0] != syncByte {
				reset = true
			} else {
				s.byteIdx++
				s.rssiCount++
				s.rssiSum += rssi()
			}

			if s.byteIdx > 2 && !reset {
				length = decodedLength(s.buf[2])
				if length > maxLength {
					reset = true
				}
			}

			if s.byteIdx > length+1 && !reset {
				if crc1(s.buf[1:length+1]) != s.buf[length+1] {
					reset = true
				}
			}

			if s.byteIdx > length+2 && !reset {
				if crc2(s.buf[1:length+2]) == s.buf[length+2] {
					mb.publish(s.buf, s.rssiSum, s.rssiCount)
					s.rssiSum = 0
					s.rssiCount = 0
				}
				reset = true
			}
		}
		s.count = 0
		s.value = 0
		s.halfBit = 0
	}

	if reset {
		s.byteIdx = 0
		s.count = 0
		s.value = 0
		s.halfBit = 0
		s.buf = [dataBufferLength]byte{}
		// rssiSum/rssiCount deliberately survive a partial-frame reset,
		// matching the original accumulator's lifetime (see DESIGN.md): the
		// bytes of an aborted frame are averaged into the next published
		// frame's RSSI. They are zeroed only after a publication.
	}
}
