package mqtt

import "testing"

func TestGenerateClientIDIsUniqueAndPrefixed(t *testing.T) {
	a := generateClientID()
	b := generateClientID()
	if a == b {
		t.Fatalf("generateClientID produced the same id twice: %q", a)
	}
	const prefix = "hf-decoder_"
	if len(a) <= len(prefix) || a[:len(prefix)] != prefix {
		t.Fatalf("id %q does not start with %q", a, prefix)
	}
}
