package ft8

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// DemodulatedSignal carries the per-symbol tone decisions for one
// transmission, plus the frequency/time refinement and estimated SNR. Tones
// is empty when the refined candidate's first symbol window falls outside
// the frame, and shorter than NumSymbols when only a prefix of the
// transmission's symbols fit within the frame.
type DemodulatedSignal struct {
	Tones   []uint8
	FreqHz  float64
	TimeSec float64
	SNRdB   float64
}

// FSK8Demod extracts one tone per symbol from a candidate sync position,
// using a two-pass refinement: first the strongest nearby frequency bin,
// then the strongest nearby time offset at that refined frequency, before
// reading out tones.
type FSK8Demod struct {
	sampleRate int
	winLen     int
	fft        *fourier.CmplxFFT
}

// NewFSK8Demod builds a demodulator for the given baseband sample rate.
func NewFSK8Demod(sampleRate int) *FSK8Demod {
	winLen := int(float64(sampleRate) / ToneSpacing)
	return &FSK8Demod{sampleRate: sampleRate, winLen: winLen, fft: fourier.NewCmplxFFT(winLen)}
}

// Demodulate reads out the symbol tones for a candidate and estimates its
// SNR relative to NoiseBandwidthHz. A candidate whose refined window falls
// outside the frame entirely yields an empty Tones list; one that only
// partially fits yields a truncated prefix.
func (d *FSK8Demod) Demodulate(frame []complex128, cand Candidate) DemodulatedSignal {
	timeOffset, freqBin := d.refine(frame, cand.TimeSample, cand.FreqBin)

	var out DemodulatedSignal
	out.FreqHz = float64(freqBin) * ToneSpacing
	out.TimeSec = float64(timeOffset) / float64(d.sampleRate)

	if timeOffset < 0 || freqBin < 0 || timeOffset+d.winLen > len(frame) {
		return out
	}

	window := hannWindow(d.winLen)
	numBins := d.winLen

	var signalPower, noisePower float64
	var signalCount, noiseCount int
	tones := make([]uint8, 0, NumSymbols)

	for sym := 0; sym < NumSymbols; sym++ {
		start := timeOffset + sym*d.winLen
		if start+d.winLen > len(frame) {
			break
		}
		buf := make([]complex128, d.winLen)
		for i := 0; i < d.winLen; i++ {
			buf[i] = frame[start+i] * complex(window[i], 0)
		}
		spec := d.fft.Coefficients(nil, buf)
		best, bestMag := 0, -1.0
		for tone := 0; tone < 8; tone++ {
			bin := freqBin + tone
			if bin < 0 || bin >= numBins {
				continue
			}
			m := cmplxAbs(spec[bin])
			if m > bestMag {
				bestMag, best = m, tone
			}
			if isCostasSymbol(sym) && tone == int(CostasPattern[costasIndex(sym)]) {
				signalPower += m * m
				signalCount++
			} else if !isCostasSymbol(sym) {
				noisePower += m * m
				noiseCount++
			}
		}
		tones = append(tones, uint8(best))
	}

	out.Tones = tones
	out.SNRdB = estimateSNR(signalPower, signalCount, noisePower, noiseCount, d.sampleRate, d.winLen)
	return out
}

// refine searches a small window of frequency offsets around the sync
// candidate, then a wider window of time offsets at that refined frequency,
// each time keeping the combination with the strongest Costas correlation.
func (d *FSK8Demod) refine(frame []complex128, timeSample, freqBin int) (int, int) {
	bestFreq, bestScore := freqBin, -1.0
	for df := -2; df <= 2; df++ {
		f := freqBin + df
		if f < 0 {
			continue
		}
		score := d.scoreAt(frame, timeSample, f)
		if score > bestScore {
			bestScore, bestFreq = score, f
		}
	}

	step := d.winLen / 8
	if step < 1 {
		step = 1
	}
	bestTime, bestScore := timeSample, -1.0
	for dt := -d.winLen / 2; dt <= d.winLen/2; dt += step {
		t := timeSample + dt
		if t < 0 {
			continue
		}
		score := d.scoreAt(frame, t, bestFreq)
		if score > bestScore {
			bestScore, bestTime = score, t
		}
	}
	return bestTime, bestFreq
}

func (d *FSK8Demod) scoreAt(frame []complex128, timeSample, freqBin int) float64 {
	window := hannWindow(d.winLen)
	numBins := d.winLen
	score := 0.0
	for sym := 0; sym < NumSymbols; sym++ {
		if !isCostasSymbol(sym) {
			continue
		}
		start := timeSample + sym*d.winLen
		if start < 0 || start+d.winLen > len(frame) {
			continue
		}
		buf := make([]complex128, d.winLen)
		for i := 0; i < d.winLen; i++ {
			buf[i] = frame[start+i] * complex(window[i], 0)
		}
		spec := d.fft.Coefficients(nil, buf)
		bin := freqBin + int(CostasPattern[costasIndex(sym)])
		if bin >= 0 && bin < numBins {
			score += cmplxAbs(spec[bin])
		}
	}
	return score
}

func isCostasSymbol(sym int) bool {
	return sym < SyncLength || (sym >= SyncOffset && sym < SyncOffset+SyncLength) ||
		(sym >= 2*SyncOffset && sym < 2*SyncOffset+SyncLength)
}

func costasIndex(sym int) int {
	switch {
	case sym < SyncLength:
		return sym
	case sym >= SyncOffset && sym < SyncOffset+SyncLength:
		return sym - SyncOffset
	default:
		return sym - 2*SyncOffset
	}
}

// estimateSNR normalizes the signal/noise power ratio measured in
// per-symbol FFT bins to the reference noise bandwidth.
func estimateSNR(signalPower float64, signalCount int, noisePower float64, noiseCount int, sampleRate, winLen int) float64 {
	if signalCount == 0 || noiseCount == 0 || noisePower == 0 {
		return 0
	}
	binWidth := float64(sampleRate) / float64(winLen)
	sigAvg := signalPower / float64(signalCount)
	noiseAvg := noisePower / float64(noiseCount)
	ratio := (sigAvg / noiseAvg) * (NoiseBandwidthHz / binWidth)
	if ratio <= 0 {
		return -99
	}
	return 10 * math.Log10(ratio)
}
