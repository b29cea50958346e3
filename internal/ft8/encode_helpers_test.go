package ft8

import "strings"

// Test-only helpers that build a synthetic, self-consistent 91-bit payload
// (77 message bits + 14-bit CRC) and turn it into the 79-symbol tone
// sequence DecodeMessage expects, using the same deterministic parity
// matrix LDPCDecode uses. These exist purely to exercise the CRC/LDPC/message
// pipeline without synthesizing an actual IQ waveform.

func packCallBits(call string) uint32 {
	for len(call) < 6 {
		call += " "
	}
	x1 := strings.IndexByte(base36, call[0])
	x2 := strings.IndexByte(base36, call[1])
	d := int(call[2] - '0')
	y1 := strings.IndexByte(base27, call[3])
	y2 := strings.IndexByte(base27, call[4])
	y3 := strings.IndexByte(base27, call[5])
	n := uint32(x1)
	n = n*36 + uint32(x2)
	n = n*10 + uint32(d)
	n = n*27 + uint32(y1)
	n = n*27 + uint32(y2)
	n = n*27 + uint32(y3)
	return n
}

func packGridBits(grid string) uint32 {
	l1 := int(grid[0] - 'A')
	l2 := int(grid[1] - 'A')
	d3 := int(grid[2] - '0')
	d4 := int(grid[3] - '0')
	n := uint32(l1)
	n = n*18 + uint32(l2)
	n = n*10 + uint32(d3)
	n = n*10 + uint32(d4)
	return n
}

func setBits(dst []uint8, pos, n int, v uint32) {
	for i := n - 1; i >= 0; i-- {
		dst[pos+i] = uint8(v & 1)
		v >>= 1
	}
}

// buildStandardPayloadBits lays out a standard (type 0) 77-bit message as a
// 0/1-per-byte bit array: n1(28) n2(28) n3(15) type(6).
func buildStandardPayloadBits(call1, call2, grid string) []uint8 {
	bits := make([]uint8, 77)
	setBits(bits, 0, 28, packCallBits(call1))
	setBits(bits, 28, 28, packCallBits(call2))
	setBits(bits, 56, 15, packGridBits(grid))
	setBits(bits, 71, 6, 0)
	return bits
}

// buildJS8PayloadBits lays out an 11-char 7-bit ASCII message as a 77-bit
// array: text, then one NUL terminator, then fillChar for every remaining
// character so the trailing bits do not collide with a valid
// standard-message type 0.
func buildJS8PayloadBits(text string, fillChar byte) []uint8 {
	bits := make([]uint8, 77)
	for i := 0; i < 11; i++ {
		var c byte
		switch {
		case i < len(text):
			c = text[i]
		case i == len(text):
			c = 0
		default:
			c = fillChar
		}
		setBits(bits, i*7, 7, uint32(c))
	}
	return bits
}

// withCRC appends the 14-bit CRC of a 77-bit payload, computed over the
// payload plus five zero bits (82 bits) as VerifyCRC does, returning a
// 91-bit 0/1 array ready for EncodeLDPC.
func withCRC(payload77 []uint8) []uint8 {
	packed := PackBits(payload77, 77)
	buf := make([]uint8, 12)
	copy(buf, packed)
	crc := ComputeCRC14(buf, 96-CRCWidth)

	bits91 := make([]uint8, 91)
	copy(bits91, payload77)
	setBits(bits91, 77, 14, uint32(crc))
	return bits91
}

// codewordToTones maps a 174-bit LDPC codeword onto the 79-symbol frame,
// filling Costas sync positions with the real Costas pattern and data
// positions with the Gray-encoded 3-bit groups of the codeword, in order.
func codewordToTones(codeword []uint8) []uint8 {
	tones := make([]uint8, NumSymbols)
	idx := 0
	for sym := 0; sym < NumSymbols; sym++ {
		if isCostasSymbol(sym) {
			tones[sym] = CostasPattern[costasIndex(sym)]
			continue
		}
		bits3 := codeword[idx]<<2 | codeword[idx+1]<<1 | codeword[idx+2]
		tones[sym] = BitsToGray(bits3)
		idx += 3
	}
	return tones
}
