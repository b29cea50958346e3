// Package engine fans a captured frame out to one goroutine per sync
// candidate and collects their decoded messages back in candidate order.
package engine

import (
	"sync"
	"sync/atomic"

	"github.com/sbuilta/hf-decoder/internal/ft8"
)

// Decoded is one fully processed candidate: its demodulation result plus
// the outcome of LDPC/CRC decoding and payload unpacking.
type Decoded struct {
	FreqHz     float64
	TimeSec    float64
	SNRdB      float64
	Mode       string
	CRCOk      bool
	LDPCErrors int
	Text       string
}

// Engine runs sync detection and, per candidate, demodulation and message
// decoding, each candidate processed independently so no candidate's
// failure or timing affects another's.
type Engine struct {
	sampleRate int
	sync       *ft8.SyncDetector
	demod      *ft8.FSK8Demod
	js8Enabled atomic.Bool
	maxCand    int
}

// New builds an Engine operating at the given baseband sample rate.
func New(sampleRate int, enableJS8 bool, maxCandidates int) *Engine {
	e := &Engine{
		sampleRate: sampleRate,
		sync:       ft8.NewSyncDetector(sampleRate),
		demod:      ft8.NewFSK8Demod(sampleRate),
		maxCand:    maxCandidates,
	}
	e.js8Enabled.Store(enableJS8)
	return e
}

// SetJS8Enabled toggles whether JS8 fallback decoding runs; it is read once
// at the start of each Process call and shared by all of that call's
// candidates, so a toggle mid-flight only takes effect for the next frame.
func (e *Engine) SetJS8Enabled(v bool) { e.js8Enabled.Store(v) }

// JS8Enabled reports the current JS8 fallback setting.
func (e *Engine) JS8Enabled() bool { return e.js8Enabled.Load() }

// Process locates sync candidates in frame and decodes each independently,
// returning results in the same order the sync detector ranked candidates.
func (e *Engine) Process(frame []complex128) []Decoded {
	cands := e.sync.Detect(frame, e.maxCand)
	if len(cands) == 0 {
		return nil
	}

	allowJS8 := e.js8Enabled.Load()
	results := make([]Decoded, len(cands))

	var wg sync.WaitGroup
	wg.Add(len(cands))
	for i, cand := range cands {
		go func(i int, cand ft8.Candidate) {
			defer wg.Done()
			sig := e.demod.Demodulate(frame, cand)
			msg := ft8.DecodeMessage(sig.Tones, allowJS8)
			results[i] = Decoded{
				FreqHz:     sig.FreqHz,
				TimeSec:    sig.TimeSec,
				SNRdB:      sig.SNRdB,
				Mode:       msg.Mode,
				CRCOk:      msg.CRCOk,
				LDPCErrors: msg.LDPCErrors,
				Text:       msg.Text,
			}
		}(i, cand)
	}
	wg.Wait()

	out := make([]Decoded, 0, len(results))
	for _, r := range results {
		if r.CRCOk {
			out = append(out, r)
		}
	}
	return out
}
