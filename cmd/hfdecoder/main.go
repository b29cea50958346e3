// Command hfdecoder runs the HF FT8/JS8 receiver: it tunes an RF driver,
// decodes digital-mode transmissions, persists recovered messages, and
// serves the result over HTTP and MCP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sbuilta/hf-decoder/internal/capture"
	"github.com/sbuilta/hf-decoder/internal/config"
	"github.com/sbuilta/hf-decoder/internal/engine"
	"github.com/sbuilta/hf-decoder/internal/httpapi"
	"github.com/sbuilta/hf-decoder/internal/mcpapi"
	"github.com/sbuilta/hf-decoder/internal/mqtt"
	"github.com/sbuilta/hf-decoder/internal/pipeline"
	"github.com/sbuilta/hf-decoder/internal/store"
)

func main() {
	configPath := flag.String("config", "hf-decoder.conf", "Path to configuration file")
	driverFlag := flag.String("driver", "rtltcp", "RF driver backend: rtltcp, rtp, or fake")
	rtlTCPAddr := flag.String("rtltcp-addr", "127.0.0.1:1234", "rtl_tcp server address")
	rtpAddr := flag.String("rtp-addr", "239.1.2.3:5004", "multicast RTP group address")
	rtpIface := flag.String("rtp-iface", "", "network interface to join the RTP multicast group on")
	mcpPort := flag.Int("mcp-port", 8081, "MCP tool server listen port")
	mqttBroker := flag.String("mqtt-broker", "", "optional MQTT broker URL to publish spots to (e.g. tcp://localhost:1883)")
	mqttTopic := flag.String("mqtt-topic", "hf-decoder/spots", "MQTT topic to publish spots to")
	js8 := flag.Bool("js8", false, "enable JS8 fallback decoding")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("[main] no config at %s, using defaults: %v", *configPath, err)
		cfg = config.Defaults()
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("[main] open store: %v", err)
	}
	if err := st.Init(); err != nil {
		log.Fatalf("[main] init store: %v", err)
	}
	defer st.Close()

	driver, err := newDriver(*driverFlag, *rtlTCPAddr, *rtpAddr, *rtpIface)
	if err != nil {
		log.Fatalf("[main] driver setup: %v", err)
	}
	if err := driver.Open(0); err != nil {
		log.Printf("[main] warning: open driver: %v (capture will deliver no samples)", err)
	}
	defer driver.Close()

	preset := capture.Presets[0]
	if err := driver.SetCenterFreq(preset.CenterHz); err != nil {
		log.Printf("[main] set center freq: %v", err)
	}
	if err := driver.SetSampleRate(240000); err != nil {
		log.Printf("[main] set sample rate: %v", err)
	}

	eng := engine.New(12000, *js8, 10)
	metrics := pipeline.NewMetrics()

	var publish func(store.Record)
	if *mqttBroker != "" {
		pub, err := mqtt.New(*mqttBroker, *mqttTopic)
		if err != nil {
			log.Printf("[main] mqtt setup: %v (spots will not be published)", err)
		} else {
			defer pub.Close()
			publish = func(r store.Record) {
				pub.Publish(mqtt.Spot{
					Timestamp: r.Timestamp,
					Band:      r.Band,
					Frequency: r.Frequency,
					Mode:      r.Mode,
					SNR:       r.SNR,
					Text:      r.Text,
				})
			}
		}
	}

	pipe := pipeline.New(driver, eng, st, metrics, publish)
	pipe.SetBand(preset.Name, float64(preset.CenterHz))

	ctx, cancel := context.WithCancel(context.Background())
	pipe.Start(ctx)

	httpSrv := httpapi.NewServer(fmt.Sprintf(":%d", cfg.WebPort), st, pipe, eng)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil {
			log.Printf("[main] http server error: %v", err)
		}
	}()

	mcpSrv := mcpapi.NewServer(st, pipe, eng)
	mcpHTTP := &http.Server{Addr: fmt.Sprintf(":%d", *mcpPort), Handler: http.HandlerFunc(mcpSrv.ServeHTTP)}
	go func() {
		log.Printf("[main] mcp server listening on %s", mcpHTTP.Addr)
		if err := mcpHTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[main] mcp server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("[main] shutting down")
	cancel()
	pipe.Stop()
	if err := httpSrv.Shutdown(); err != nil {
		log.Printf("[main] http shutdown: %v", err)
	}
	if err := mcpHTTP.Close(); err != nil {
		log.Printf("[main] mcp shutdown: %v", err)
	}
	log.Println("[main] stopped")
}

// newDriver builds the requested capture.Driver backend.
func newDriver(kind, rtlTCPAddr, rtpAddr, rtpIface string) (capture.Driver, error) {
	switch kind {
	case "rtltcp":
		return capture.NewRTLTCPDriver(rtlTCPAddr), nil
	case "rtp":
		return capture.NewRTPDriver(rtpAddr, rtpIface), nil
	case "fake":
		return capture.NewFakeDriver(), nil
	default:
		return nil, fmt.Errorf("unknown driver %q (want rtltcp, rtp, or fake)", kind)
	}
}
