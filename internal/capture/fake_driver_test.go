package capture

import (
	"context"
	"testing"
)

func TestFakeDriverEmitsConfiguredBlockCount(t *testing.T) {
	d := NewFakeDriver()
	d.Blocks = 5
	if err := d.Open(0); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	count := 0
	err := d.StartAsync(context.Background(), func(iq []byte) {
		count++
		if len(iq) != d.BlockSize*2 {
			t.Fatalf("block size = %d, want %d", len(iq), d.BlockSize*2)
		}
	})
	if err != nil {
		t.Fatalf("StartAsync: %v", err)
	}
	if count != 5 {
		t.Fatalf("count = %d, want 5", count)
	}
}

func TestFakeDriverStopsOnCancel(t *testing.T) {
	d := NewFakeDriver()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.StartAsync(ctx, func(iq []byte) {
		t.Fatalf("should not emit after context cancellation")
	})
	if err != nil {
		t.Fatalf("StartAsync: %v", err)
	}
}
