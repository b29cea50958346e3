package capture

import (
	"context"
	"time"
)

// FakeDriver generates deterministic synthetic 8-bit unsigned I/Q samples
// for tests; cmd/hfdecoder also selects it when run with -driver fake.
type FakeDriver struct {
	CenterFreq uint32
	SampleRate uint32
	BlockSize  int
	Blocks     int // number of blocks to emit before StartAsync returns; 0 means until ctx is canceled

	opened bool
}

// NewFakeDriver builds a fake driver with a default block size matching the
// real drivers' typical read granularity.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{BlockSize: 1 << 12}
}

func (f *FakeDriver) Open(deviceIndex int) error {
	f.opened = true
	return nil
}

func (f *FakeDriver) Close() error {
	f.opened = false
	return nil
}

func (f *FakeDriver) SetCenterFreq(hz uint32) error {
	f.CenterFreq = hz
	return nil
}

func (f *FakeDriver) SetSampleRate(hz uint32) error {
	f.SampleRate = hz
	return nil
}

func (f *FakeDriver) StartAsync(ctx context.Context, onSamples func(iq []byte)) error {
	emitted := 0
	for {
		if f.Blocks > 0 && emitted >= f.Blocks {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		block := make([]byte, f.BlockSize*2)
		for i := range block {
			block[i] = 127 // silence: the byte value nearest the (x-127.5)/127.5 zero point
		}
		onSamples(block)
		emitted++
		if f.Blocks == 0 {
			time.Sleep(time.Millisecond)
		}
	}
}

func (f *FakeDriver) CancelAsync() error { return nil }
