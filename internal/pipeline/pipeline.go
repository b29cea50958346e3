// Package pipeline wires capture, decode, and persistence into three
// concurrent stages connected by unbounded queues, with an ordered
// graceful shutdown.
package pipeline

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/sbuilta/hf-decoder/internal/capture"
	"github.com/sbuilta/hf-decoder/internal/engine"
	"github.com/sbuilta/hf-decoder/internal/store"
)

// decodeBatch is one frame snapshot handed from the capture stage to the
// decoder stage.
type decodeBatch struct {
	frame     []complex128
	band      string
	dialHz    float64
	timestamp int64
}

// Metrics are the Prometheus gauges the pipeline exports, mirroring the
// teacher's promauto.NewGaugeVec pattern.
type Metrics struct {
	LastCapture prometheus.Gauge
	LastDecode  prometheus.Gauge
	LastCount   prometheus.Gauge
}

// NewMetrics registers the pipeline's gauges against the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		LastCapture: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hf_decoder_last_capture_unixtime",
			Help: "Unix time of the most recently captured frame.",
		}),
		LastDecode: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hf_decoder_last_decode_unixtime",
			Help: "Unix time the decoder stage last finished processing a frame.",
		}),
		LastCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hf_decoder_last_decode_count",
			Help: "Number of messages decoded from the most recently processed frame.",
		}),
	}
}

// Pipeline owns the capture/decode/persist goroutines and their
// connecting queues.
type Pipeline struct {
	driver  capture.Driver
	ring    *capture.RingBuffer
	eng     *engine.Engine
	st      *store.Store
	publish func(store.Record)
	metrics *Metrics

	band   atomic.Value // string
	dialHz atomic.Value // float64

	decodeQueue *Queue[decodeBatch]
	logQueue    *Queue[[]store.Record]

	running atomic.Bool
	runID   string

	cancelCapture context.CancelFunc
	captureWG     sync.WaitGroup
	decoderWG     sync.WaitGroup
	persisterWG   sync.WaitGroup
}

// New builds a Pipeline. publish, if non-nil, is called for every
// persisted record (wired to an MQTT publisher in production).
func New(driver capture.Driver, eng *engine.Engine, st *store.Store, metrics *Metrics, publish func(store.Record)) *Pipeline {
	p := &Pipeline{
		driver:      driver,
		ring:        capture.NewRingBuffer(),
		eng:         eng,
		st:          st,
		publish:     publish,
		metrics:     metrics,
		decodeQueue: NewQueue[decodeBatch](),
		logQueue:    NewQueue[[]store.Record](),
		runID:       uuid.NewString(),
	}
	p.band.Store("unknown")
	p.dialHz.Store(0.0)
	return p
}

// SetBand updates the currently configured band label and dial frequency,
// used to tag persisted records.
func (p *Pipeline) SetBand(name string, dialHz float64) {
	p.band.Store(name)
	p.dialHz.Store(dialHz)
}

// Start launches the capture, decoder, and persister goroutines.
func (p *Pipeline) Start(ctx context.Context) {
	p.running.Store(true)
	captureCtx, cancel := context.WithCancel(ctx)
	p.cancelCapture = cancel

	log.Printf("[pipeline] starting run %s", p.runID)

	p.captureWG.Add(1)
	p.decoderWG.Add(1)
	p.persisterWG.Add(1)
	go p.captureLoop(captureCtx)
	go p.decoderLoop()
	go p.persisterLoop()
}

// captureLoop feeds the RF driver's sample stream into the ring buffer and,
// once every 15 seconds, snapshots a frame onto the decode queue. The sleep
// is a flat 15 seconds rather than gated to slot boundaries: each incoming
// batch is instead positioned in the ring buffer by SlotOffset, which keeps
// the buffer consistent with the NTP-synchronized wall clock regardless of
// exactly when within a slot a batch happens to arrive.
func (p *Pipeline) captureLoop(ctx context.Context) {
	defer p.captureWG.Done()

	go func() {
		err := p.driver.StartAsync(ctx, func(iq []byte) {
			samples := capture.Decimate(iq)
			pos := capture.SlotOffset(time.Now().UnixMilli(), len(samples))
			p.ring.WriteAt(pos, samples)
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("[capture] driver stopped with error: %v", err)
		}
	}()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			frame := p.ring.Snapshot()
			if p.metrics != nil {
				p.metrics.LastCapture.Set(float64(now.Unix()))
			}
			band, _ := p.band.Load().(string)
			dialHz, _ := p.dialHz.Load().(float64)
			p.decodeQueue.Push(decodeBatch{
				frame:     frame,
				band:      band,
				dialHz:    dialHz,
				timestamp: now.Unix(),
			})
		}
	}
}

// decoderLoop pulls frame snapshots and runs the decode engine over each,
// forwarding the resulting records to the persister stage.
func (p *Pipeline) decoderLoop() {
	defer p.decoderWG.Done()
	for {
		batch, ok := p.decodeQueue.Pop()
		if !ok {
			return
		}
		results := p.eng.Process(batch.frame)
		if p.metrics != nil {
			p.metrics.LastDecode.Set(float64(time.Now().Unix()))
			p.metrics.LastCount.Set(float64(len(results)))
		}
		if len(results) == 0 {
			continue
		}
		records := make([]store.Record, 0, len(results))
		for _, r := range results {
			records = append(records, store.Record{
				Timestamp: batch.timestamp,
				Band:      batch.band,
				Frequency: batch.dialHz + r.FreqHz,
				Mode:      r.Mode,
				SNR:       r.SNRdB,
				Text:      r.Text,
			})
		}
		p.logQueue.Push(records)
	}
}

// persisterLoop pulls record batches and writes them to the store,
// publishing each record afterward if a publisher is configured.
func (p *Pipeline) persisterLoop() {
	defer p.persisterWG.Done()
	for {
		records, ok := p.logQueue.Pop()
		if !ok {
			return
		}
		if err := p.st.Insert(records); err != nil {
			log.Printf("[persister] insert failed: %v", err)
			continue
		}
		if p.publish != nil {
			for _, r := range records {
				p.publish(r)
			}
		}
	}
}

// Stop performs an ordered graceful shutdown: stop accepting new capture
// samples, drain the decode queue, drain the log queue, then return once
// every stage has exited.
func (p *Pipeline) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	log.Printf("[pipeline] stopping run %s", p.runID)

	// 1. stop the RF driver so no new samples arrive.
	if err := p.driver.CancelAsync(); err != nil {
		log.Printf("[pipeline] driver cancel: %v", err)
	}
	// 2. cancel the capture loop's context, stopping its ticker, and wait
	// for it to exit before closing the decode queue.
	if p.cancelCapture != nil {
		p.cancelCapture()
	}
	p.captureWG.Wait()
	// 3. close the decode queue: already-queued frames still get decoded.
	p.decodeQueue.Stop()
	// 4. wait for the decoder stage to drain before closing the log queue,
	// so its final pushes are never dropped onto an already-closed queue.
	p.decoderWG.Wait()
	// 5. close the log queue: already-queued records still get persisted,
	// then wait for the persister stage to finish.
	p.logQueue.Stop()
	p.persisterWG.Wait()
	// 6. run is fully stopped.
	log.Printf("[pipeline] stopped run %s", p.runID)
}

// RunID returns this pipeline instance's correlation id.
func (p *Pipeline) RunID() string { return p.runID }

// Snapshot returns a chronologically ordered copy of the current ring
// buffer contents, used to serve /api/audio.
func (p *Pipeline) Snapshot() []complex128 { return p.ring.Snapshot() }

// Band returns the currently configured band label and dial frequency.
func (p *Pipeline) Band() (string, float64) {
	band, _ := p.band.Load().(string)
	dialHz, _ := p.dialHz.Load().(float64)
	return band, dialHz
}

// gaugeValue reads back the current value of a registered gauge, used to
// answer /api/status straight from the gauges.
func gaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

// Status reports the three fields /api/status exposes.
func (p *Pipeline) Status() (lastCapture, lastDecode int64, lastCount int) {
	if p.metrics == nil {
		return 0, 0, 0
	}
	return int64(gaugeValue(p.metrics.LastCapture)), int64(gaugeValue(p.metrics.LastDecode)), int(gaugeValue(p.metrics.LastCount))
}
