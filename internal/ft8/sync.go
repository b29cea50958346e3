package ft8

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Candidate is a detected Costas sync position: a starting sample offset
// into the frame and a base tone frequency bin.
type Candidate struct {
	TimeSample int     // sample offset of symbol 0 within the frame
	FreqBin    int     // FFT bin (width ToneSpacing Hz) of tone 0
	FreqHz     float64
	Score      float64
}

// SyncDetector locates Costas sync patterns within a captured frame using a
// sliding FFT over half-symbol hops, correlating each candidate position
// against a single 7-symbol Costas group.
type SyncDetector struct {
	sampleRate int
	winLen     int // L: samples per FFT window, one symbol period
	hop        int // L/2
	fft        *fourier.CmplxFFT
}

// NewSyncDetector builds a detector for the given baseband sample rate.
func NewSyncDetector(sampleRate int) *SyncDetector {
	winLen := int(float64(sampleRate) / ToneSpacing)
	return &SyncDetector{
		sampleRate: sampleRate,
		winLen:     winLen,
		hop:        winLen / 2,
		fft:        fourier.NewCmplxFFT(winLen),
	}
}

// symbolsPerHop is how many hops separate consecutive FT8 symbols, since
// the analysis window advances in half-symbol steps.
const symbolsPerHop = 2

// Detect returns Costas sync candidates whose correlation score exceeds ten
// times the mean score over the whole search grid. The search only needs
// room for a single 7-symbol Costas group, so the candidate start position
// ranges over every hop that leaves that one group inside the frame, not
// just hops where the full 79-symbol transmission would also fit.
func (d *SyncDetector) Detect(frame []complex128, maxCandidates int) []Candidate {
	if len(frame) < d.winLen {
		return nil
	}

	numHops := (len(frame)-d.winLen)/d.hop + 1
	numBins := d.winLen
	mags := make([][]float64, numHops)
	window := hannWindow(d.winLen)

	for h := 0; h < numHops; h++ {
		start := h * d.hop
		buf := make([]complex128, d.winLen)
		for i := 0; i < d.winLen; i++ {
			buf[i] = frame[start+i] * complex(window[i], 0)
		}
		spec := d.fft.Coefficients(nil, buf)
		mag := make([]float64, numBins)
		for b := 0; b < numBins; b++ {
			mag[b] = cmplxAbs(spec[b])
		}
		mags[h] = mag
	}

	// Hops needed to cover a single 7-symbol Costas group at offset
	// symbolsPerHop per symbol.
	hopsNeeded := (SyncLength-1)*symbolsPerHop + 1
	if hopsNeeded > numHops {
		return nil
	}
	maxStartHop := numHops - hopsNeeded
	maxFreqBin := numBins - 8 // need room for tones 0..7 above the base bin

	if maxStartHop < 0 || maxFreqBin < 0 {
		return nil
	}

	scores := make([]float64, 0, (maxStartHop+1)*(maxFreqBin+1))
	type pos struct {
		hop, bin int
	}
	positions := make([]pos, 0, cap(scores))

	for h := 0; h <= maxStartHop; h++ {
		for f := 0; f <= maxFreqBin; f++ {
			score := d.costasScore(mags, h, f)
			scores = append(scores, score)
			positions = append(positions, pos{h, f})
		}
	}

	if len(scores) == 0 {
		return nil
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	threshold := 10 * (sum / float64(len(scores)))

	var out []Candidate
	for i, s := range scores {
		if s > threshold {
			p := positions[i]
			out = append(out, Candidate{
				TimeSample: p.hop * d.hop,
				FreqBin:    p.bin,
				FreqHz:     float64(p.bin) * ToneSpacing,
				Score:      s,
			})
		}
	}

	insertionSortByScoreDesc(out)
	if maxCandidates > 0 && len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}

// costasScore sums the squared magnitude found at the expected Costas tone
// for each symbol of a single sync group, at the candidate start hop and
// base bin: metric[k] = sum_i mag[i][k+costas[i]]^2.
func (d *SyncDetector) costasScore(mags [][]float64, startHop, baseBin int) float64 {
	score := 0.0
	for k, tone := range CostasPattern {
		hop := startHop + k*symbolsPerHop
		if hop >= len(mags) {
			continue
		}
		bin := baseBin + int(tone)
		if bin >= len(mags[hop]) {
			continue
		}
		m := mags[hop][bin]
		score += m * m
	}
	return score
}

func insertionSortByScoreDesc(c []Candidate) {
	for i := 1; i < len(c); i++ {
		v := c[i]
		j := i - 1
		for j >= 0 && c[j].Score < v.Score {
			c[j+1] = c[j]
			j--
		}
		c[j+1] = v
	}
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
