package engine

import "testing"

func TestProcessEmptyFrameYieldsNoResults(t *testing.T) {
	e := New(12000, true, 10)
	results := e.Process(make([]complex128, 12000*15))
	if len(results) != 0 {
		t.Fatalf("expected no results for silence, got %d", len(results))
	}
}

func TestProcessShortFrameYieldsNoResults(t *testing.T) {
	e := New(12000, true, 10)
	results := e.Process(make([]complex128, 10))
	if len(results) != 0 {
		t.Fatalf("expected no results for a too-short frame, got %d", len(results))
	}
}

func TestJS8EnabledToggle(t *testing.T) {
	e := New(12000, false, 10)
	if e.JS8Enabled() {
		t.Fatalf("expected JS8 disabled initially")
	}
	e.SetJS8Enabled(true)
	if !e.JS8Enabled() {
		t.Fatalf("expected JS8 enabled after SetJS8Enabled(true)")
	}
}
