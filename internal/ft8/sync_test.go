package ft8

import (
	"math"
	"testing"
)

// synthesizeFrame builds a complex baseband frame containing a tone burst
// whose symbol tones follow costasTone(sym) starting at startSample, at
// base frequency baseBin*ToneSpacing, with no added noise. Each
// tone is emitted as a complex exponential (not just its real part), as the
// decoder operates on genuinely complex baseband samples.
func synthesizeFrame(sampleRate, totalSamples, startSample, baseBin int, costasTone func(sym int) int) []complex128 {
	frame := make([]complex128, totalSamples)
	winLen := int(float64(sampleRate) / ToneSpacing)

	for sym := 0; sym < NumSymbols; sym++ {
		tone := costasTone(sym)
		if tone < 0 {
			continue
		}
		freq := (float64(baseBin) + float64(tone)) * ToneSpacing
		start := startSample + sym*winLen
		for i := 0; i < winLen; i++ {
			idx := start + i
			if idx < 0 || idx >= totalSamples {
				continue
			}
			t := float64(idx) / float64(sampleRate)
			phase := 2 * math.Pi * freq * t
			frame[idx] += complex(math.Cos(phase), math.Sin(phase))
		}
	}
	return frame
}

func costasOnlyTone(sym int) int {
	if isCostasSymbol(sym) {
		return int(CostasPattern[costasIndex(sym)])
	}
	return -1
}

func TestSyncDetectorFindsEmbeddedCostas(t *testing.T) {
	const sampleRate = 12000
	const totalSamples = sampleRate * 15
	const startSample = sampleRate * 2 // 2 seconds in
	const baseBin = 100                // 625 Hz

	frame := synthesizeFrame(sampleRate, totalSamples, startSample, baseBin, costasOnlyTone)

	d := NewSyncDetector(sampleRate)
	cands := d.Detect(frame, 10)
	if len(cands) == 0 {
		t.Fatalf("expected at least one sync candidate, found none")
	}

	best := cands[0]
	winLen := int(float64(sampleRate) / ToneSpacing)
	if diff := absInt(best.TimeSample - startSample); diff > winLen {
		t.Errorf("best candidate time %d too far from expected %d (winLen=%d)", best.TimeSample, startSample, winLen)
	}
	if diff := absInt(best.FreqBin - baseBin); diff > 2 {
		t.Errorf("best candidate freq bin %d too far from expected %d", best.FreqBin, baseBin)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
