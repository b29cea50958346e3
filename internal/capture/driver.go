// Package capture owns the RF driver seam and the rolling 15-second ring
// buffer the decode pipeline reads frames from.
package capture

import "context"

// Driver is the seam between a vendor RF source and the ring buffer: any
// backend that can tune, start, and deliver 8-bit unsigned interleaved IQ
// samples implements it.
type Driver interface {
	Open(deviceIndex int) error
	Close() error
	SetCenterFreq(hz uint32) error
	SetSampleRate(hz uint32) error
	// StartAsync begins delivering sample blocks to onSamples until ctx is
	// canceled or CancelAsync is called; each call receives interleaved
	// 8-bit unsigned I/Q pairs as the vendor driver emits them.
	StartAsync(ctx context.Context, onSamples func(iq []byte)) error
	CancelAsync() error
}

// BandPreset names one of the five fixed HF band/mode presets this
// receiver supports.
type BandPreset struct {
	Name        string `json:"name"`
	CenterHz    uint32 `json:"freq"`
	BandwidthHz uint32 `json:"bandwidth"`
}

// Presets is the compiled-in, immutable list of band presets.
var Presets = []BandPreset{
	{Name: "80m JS8", CenterHz: 3578000, BandwidthHz: 2500},
	{Name: "40m FT8", CenterHz: 7074000, BandwidthHz: 2500},
	{Name: "40m JS8", CenterHz: 7078000, BandwidthHz: 2500},
	{Name: "20m FT8", CenterHz: 14074000, BandwidthHz: 2500},
	{Name: "20m JS8", CenterHz: 14078000, BandwidthHz: 2500},
}
