// Package ft8 implements the symbol geometry, LDPC decoder, and message
// unpacking for the FT8 digital mode and its JS8 text-payload variant.
package ft8

// Frame symbol structure: S D1 S D2 S
// S  - sync block (7 symbols of Costas pattern)
// D1 - first data block (29 symbols each encoding 3 bits)
// D2 - second data block (29 symbols each encoding 3 bits)
const (
	NumDataSymbols = 58 // data symbols across both blocks
	NumSymbols     = 79 // total channel symbols per transmission
	SyncLength     = 7  // length of each Costas sync group
	NumSyncGroups  = 3  // number of sync groups per transmission
	SyncOffset     = 36 // symbol offset between sync groups
)

// LDPC(174,91) parameters.
const (
	LDPCN      = 174               // encoded bits
	LDPCK      = 91                // payload bits, including the 14-bit CRC
	LDPCM      = 83                // parity check bits
	LDPCNBytes = (LDPCN + 7) / 8   // bytes needed to pack 174 bits
	LDPCKBytes = (LDPCK + 7) / 8   // bytes needed to pack 91 bits
	MaxBPIters = 50                // belief-propagation iteration cap
)

// CRC-14 parameters.
const (
	CRCPolynomial = 0x2757 // CRC-14 polynomial, leading 1 implicit
	CRCWidth      = 14
)

// CostasPattern is the 7-tone Costas sync sequence repeated at symbol
// positions 0-6, 36-42, and 72-78 of every transmission.
var CostasPattern = [SyncLength]uint8{0, 1, 3, 2, 4, 6, 5}

// GrayDecode maps an 8-tone symbol value to its 3-bit payload value.
var GrayDecode = [8]uint8{0, 1, 3, 2, 6, 4, 5, 7}

// SampleRate is the fixed baseband sample rate the decoder operates on,
// after RF-capture decimation.
const SampleRate = 12000

// SymbolPeriod is the duration of one FT8 tone, in seconds.
const SymbolPeriod = 0.16

// ToneSpacing is the frequency spacing between adjacent tones, in Hz.
const ToneSpacing = 6.25

// NoiseBandwidthHz is the reference bandwidth SNR is normalized against.
const NoiseBandwidthHz = 2500.0
