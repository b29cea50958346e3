package ft8

import "testing"

func TestDecodeMessageStandardCallsignGrid(t *testing.T) {
	payload77 := buildStandardPayloadBits("KA1ABC", "WA9XYZ", "EM00")
	bits91 := withCRC(payload77)
	codeword := EncodeLDPC(bits91)
	tones := codewordToTones(codeword)

	msg := DecodeMessage(tones, false)
	if !msg.CRCOk {
		t.Fatalf("CRC did not verify")
	}
	if msg.LDPCErrors != 0 {
		t.Fatalf("LDPCErrors = %d, want 0", msg.LDPCErrors)
	}
	if msg.Mode != "FT8" {
		t.Fatalf("Mode = %q, want FT8", msg.Mode)
	}
	want := "KA1ABC WA9XYZ EM00"
	if msg.Text != want {
		t.Fatalf("Text = %q, want %q", msg.Text, want)
	}
}

func TestDecodeMessageJS8Fallback(t *testing.T) {
	payload77 := buildJS8PayloadBits("HELLO", 'X')
	bits91 := withCRC(payload77)
	codeword := EncodeLDPC(bits91)
	tones := codewordToTones(codeword)

	msg := DecodeMessage(tones, true)
	if !msg.CRCOk {
		t.Fatalf("CRC did not verify")
	}
	if msg.Mode != "JS8" {
		t.Fatalf("Mode = %q, want JS8", msg.Mode)
	}
	if msg.Text != "HELLO" {
		t.Fatalf("Text = %q, want HELLO", msg.Text)
	}
}

func TestDecodeMessageJS8DisabledYieldsNoText(t *testing.T) {
	payload77 := buildJS8PayloadBits("HELLO", 'X')
	bits91 := withCRC(payload77)
	codeword := EncodeLDPC(bits91)
	tones := codewordToTones(codeword)

	msg := DecodeMessage(tones, false)
	if msg.Text != "" {
		t.Fatalf("Text = %q, want empty when JS8 is disabled", msg.Text)
	}
}

func TestUnpackGridRejectsOutOfRange(t *testing.T) {
	if got := unpackGrid(32400); got != "" {
		t.Fatalf("unpackGrid(32400) = %q, want empty", got)
	}
}

func TestUnpackJS8RejectsNonPrintable(t *testing.T) {
	bits := make([]uint8, 77)
	setBits(bits, 0, 7, 1) // control character, not printable
	packed := PackBits(bits, 77)
	a91 := make([]uint8, 12)
	copy(a91, packed)
	if _, ok := unpackJS8(a91[:10]); ok {
		t.Fatalf("unpackJS8 accepted a non-printable leading character")
	}
}
