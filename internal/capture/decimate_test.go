package capture

import "testing"

func TestDecimateMapsZeroCenteredAndAveragesBothChannels(t *testing.T) {
	iq := make([]byte, Decimation*2*2) // two decimated output samples
	for i := 0; i < Decimation; i++ {
		iq[i*2] = 127   // I, half a step below the (x-127.5)/127.5 zero point
		iq[i*2+1] = 255 // Q, saturated high
	}
	for i := Decimation; i < 2*Decimation; i++ {
		iq[i*2] = 255
		iq[i*2+1] = 0
	}

	out := Decimate(iq)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}

	wantI0 := (127.0 - 127.5) / 127.5
	wantQ0 := (255.0 - 127.5) / 127.5
	if diff := real(out[0]) - wantI0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("real(out[0]) = %v, want %v", real(out[0]), wantI0)
	}
	if diff := imag(out[0]) - wantQ0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("imag(out[0]) = %v, want %v", imag(out[0]), wantQ0)
	}

	wantI1 := (255.0 - 127.5) / 127.5
	wantQ1 := (0.0 - 127.5) / 127.5
	if diff := real(out[1]) - wantI1; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("real(out[1]) = %v, want %v", real(out[1]), wantI1)
	}
	if diff := imag(out[1]) - wantQ1; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("imag(out[1]) = %v, want %v", imag(out[1]), wantQ1)
	}
}

func TestDecimateTruncatesPartialGroup(t *testing.T) {
	iq := make([]byte, (Decimation+3)*2)
	out := Decimate(iq)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1 (partial trailing group dropped)", len(out))
	}
}
