package capture

import "testing"

func TestRingBufferWriteBeforeFillPreservesOrder(t *testing.T) {
	r := NewRingBuffer()
	r.Write([]complex128{1, 2, 3})
	got := r.Snapshot()
	want := []complex128{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRingBufferWrapsChronologically(t *testing.T) {
	r := NewRingBuffer()
	full := make([]complex128, FrameSamples)
	for i := range full {
		full[i] = complex(float64(i), 0)
	}
	r.Write(full)
	r.Write([]complex128{-1, -2, -3}) // overwrites the oldest 3 samples

	snap := r.Snapshot()
	if len(snap) != FrameSamples {
		t.Fatalf("snapshot len = %d, want %d", len(snap), FrameSamples)
	}
	// the three newest samples should now be the last three entries
	last3 := snap[FrameSamples-3:]
	want := []complex128{-1, -2, -3}
	for i := range want {
		if last3[i] != want[i] {
			t.Fatalf("last3[%d] = %v, want %v", i, last3[i], want[i])
		}
	}
	// the oldest surviving sample should be the original index 3
	if snap[0] != complex(3.0, 0) {
		t.Fatalf("snap[0] = %v, want 3", snap[0])
	}
}

func TestRingBufferWriteAtPlacesSamplesAtExplicitPosition(t *testing.T) {
	r := NewRingBuffer()
	r.WriteAt(FrameSamples-2, []complex128{10, 20, 30})

	snap := r.Snapshot()
	if len(snap) != FrameSamples {
		t.Fatalf("snapshot len = %d, want %d", len(snap), FrameSamples)
	}
	// the write wrapped through ring positions FrameSamples-2, FrameSamples-1
	// and 0, filling the ring and leaving the cursor at 1, so the snapshot
	// (oldest first, starting at the cursor) ends with 10, 20, 30.
	if snap[FrameSamples-3] != 10 || snap[FrameSamples-2] != 20 {
		t.Fatalf("wrapped tail = %v, %v, want 10, 20", snap[FrameSamples-3], snap[FrameSamples-2])
	}
	if snap[FrameSamples-1] != 30 {
		t.Fatalf("snap[FrameSamples-1] = %v, want 30", snap[FrameSamples-1])
	}
}

func TestRingBufferWriteAtNegativePositionWraps(t *testing.T) {
	r := NewRingBuffer()
	r.WriteAt(-1, []complex128{42})
	snap := r.Snapshot()
	if len(snap) == 0 || snap[len(snap)-1] != 42 {
		t.Fatalf("WriteAt(-1, ...) did not wrap into the last slot")
	}
}
