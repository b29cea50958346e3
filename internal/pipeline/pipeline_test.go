package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/sbuilta/hf-decoder/internal/capture"
	"github.com/sbuilta/hf-decoder/internal/engine"
	"github.com/sbuilta/hf-decoder/internal/store"
)

func TestPipelineStartStopGraceful(t *testing.T) {
	driver := capture.NewFakeDriver()
	driver.BlockSize = 1 << 12
	eng := engine.New(12000, true, 10)

	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()
	if err := st.Init(); err != nil {
		t.Fatalf("store.Init: %v", err)
	}

	var published []store.Record
	p := New(driver, eng, st, nil, func(r store.Record) {
		published = append(published, r)
	})
	p.SetBand("40m", 7074000)

	p.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	// Stop must be idempotent.
	p.Stop()
}

func TestPipelineRunIDIsStable(t *testing.T) {
	driver := capture.NewFakeDriver()
	eng := engine.New(12000, false, 10)
	st, _ := store.Open(":memory:")
	defer st.Close()
	st.Init()

	p := New(driver, eng, st, nil, nil)
	id1 := p.RunID()
	id2 := p.RunID()
	if id1 != id2 || id1 == "" {
		t.Fatalf("RunID not stable: %q vs %q", id1, id2)
	}
}
