package capture

// Decimation is the fixed box-car decimation factor from the RF driver's
// native sample rate (240 kHz) down to the 12 kHz baseband rate the
// decoder operates on. No anti-alias filter precedes the box-car average;
// the 6.25 Hz tone spacing and 2.5 kHz channel bandwidth of FT8/JS8 leave
// enough margin that the resulting aliasing does not corrupt decodes in
// practice, and adding a filter is left for a future pass.
const Decimation = 20

// Decimate box-car averages interleaved 8-bit unsigned I/Q samples down by
// Decimation, mapping each 8-bit sample to [-1, 1] via (x-127.5)/127.5 and
// returning one complex baseband sample per decimated I/Q pair: the I and Q
// channels are averaged independently over the Decimation-wide window, then
// combined, so the negative-frequency half of the spectrum survives instead
// of being folded onto the positive half.
func Decimate(iq []byte) []complex128 {
	pairs := len(iq) / 2
	outLen := pairs / Decimation
	out := make([]complex128, 0, outLen)

	for i := 0; i+Decimation*2 <= len(iq); i += Decimation * 2 {
		sumI, sumQ := 0.0, 0.0
		for k := 0; k < Decimation; k++ {
			rawI := iq[i+k*2]
			rawQ := iq[i+k*2+1]
			sumI += (float64(rawI) - 127.5) / 127.5
			sumQ += (float64(rawQ) - 127.5) / 127.5
		}
		out = append(out, complex(sumI/float64(Decimation), sumQ/float64(Decimation)))
	}
	return out
}
