// Package httpapi exposes the six read/control endpoints the receiver's
// external collaborators use: recent messages, band and mode control, a
// status summary, a raw audio snapshot, and a server-sent event tick.
package httpapi

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/sbuilta/hf-decoder/internal/capture"
	"github.com/sbuilta/hf-decoder/internal/engine"
	"github.com/sbuilta/hf-decoder/internal/pipeline"
	"github.com/sbuilta/hf-decoder/internal/store"
)

// Server answers the receiver's HTTP surface over a plain net/http mux,
// matching the teacher's own use of http.HandleFunc rather than a router
// dependency.
type Server struct {
	st   *store.Store
	pipe *pipeline.Pipeline
	eng  *engine.Engine
	srv  *http.Server
}

// NewServer builds a Server listening on addr (e.g. ":8080").
func NewServer(addr string, st *store.Store, pipe *pipeline.Pipeline, eng *engine.Engine) *Server {
	s := &Server{st: st, pipe: pipe, eng: eng}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages", withGzip(s.handleMessages))
	mux.HandleFunc("/api/band", withGzip(s.handleBand))
	mux.HandleFunc("/api/mode", withGzip(s.handleMode))
	mux.HandleFunc("/api/status", withGzip(s.handleStatus))
	mux.HandleFunc("/api/audio", s.handleAudio)
	mux.HandleFunc("/events", s.handleEvents)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      withAccessLog(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving the API until the server is shut down.
func (s *Server) ListenAndServe() error {
	log.Printf("[http] listening on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server immediately via http.Server.Close, closing
// active connections (including open /events streams) without waiting for
// in-flight requests to finish.
func (s *Server) Shutdown() error {
	return s.srv.Close()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleMessages answers GET /api/messages with the 10 most recent
// decoded records, newest first.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	records, err := s.st.Recent(10)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type bandResponse struct {
	Current string               `json:"current"`
	Presets []capture.BandPreset `json:"presets"`
}

// handleBand answers GET /api/band with the current band and the
// immutable preset list, and POST /api/band?index=N to select one.
func (s *Server) handleBand(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		current, _ := s.pipe.Band()
		writeJSON(w, http.StatusOK, bandResponse{Current: current, Presets: capture.Presets})
	case http.MethodPost:
		idxStr := r.URL.Query().Get("index")
		if idxStr == "" {
			writeError(w, http.StatusBadRequest, "missing index")
			return
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 || idx >= len(capture.Presets) {
			writeError(w, http.StatusBadRequest, "index out of range")
			return
		}
		preset := capture.Presets[idx]
		s.pipe.SetBand(preset.Name, float64(preset.CenterHz))
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "current": preset.Name})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleMode answers GET /api/mode with the current JS8 toggle and
// POST /api/mode?js8=0|1 to set it.
func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]bool{"js8": s.eng.JS8Enabled()})
	case http.MethodPost:
		js8Str := r.URL.Query().Get("js8")
		if js8Str == "" {
			writeError(w, http.StatusBadRequest, "missing js8 param")
			return
		}
		v, err := strconv.Atoi(js8Str)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid js8 param")
			return
		}
		s.eng.SetJS8Enabled(v != 0)
		writeJSON(w, http.StatusOK, map[string]bool{"js8": v != 0})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type statusResponse struct {
	LastCapture int64   `json:"last_capture"`
	LastDecode  int64   `json:"last_decode"`
	LastCount   int     `json:"last_count"`
	HostCPU     float64 `json:"host_cpu_percent,omitempty"`
	HostMemUsed float64 `json:"host_mem_percent,omitempty"`
}

// handleStatus answers GET /api/status with the last capture/decode
// timestamps and count, folding in host telemetry as an ambient extra.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	lastCapture, lastDecode, lastCount := s.pipe.Status()
	resp := statusResponse{LastCapture: lastCapture, LastDecode: lastDecode, LastCount: lastCount}

	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		resp.HostCPU = pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp.HostMemUsed = vm.UsedPercent
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAudio answers GET /api/audio with a 16-bit PCM mono WAV snapshot
// of the real part of the current ring buffer frame at 12 kHz.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	frame := s.pipe.Snapshot()
	const sampleRate = 12000

	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	writeWAV(w, frame, sampleRate)
}

// writeWAV encodes the real part of samples (nominally in [-1, 1]) as a
// 16-bit PCM mono WAV file and writes it to w.
func writeWAV(w http.ResponseWriter, samples []complex128, sampleRate int) {
	const bitsPerSample = 16
	const numChannels = 1
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := len(samples) * blockAlign

	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+dataSize))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(numChannels))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], bitsPerSample)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(dataSize))
	w.Write(hdr[:])

	buf := make([]byte, 2)
	for _, c := range samples {
		s := real(c)
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(buf, uint16(int16(s*32767)))
		w.Write(buf)
	}
}

// handleEvents answers GET /events with a server-sent event tick every
// 15 seconds until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprintf(w, "data: tick\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
