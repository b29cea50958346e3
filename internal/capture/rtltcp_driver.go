package capture

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/bemasher/rtltcp"
)

// rtlTCPBlockSize is the number of bytes (interleaved I/Q, two bytes per
// sample pair) read per StartAsync iteration.
const rtlTCPBlockSize = 1 << 16

// RTLTCPDriver talks to an rtl_tcp server over its wire protocol, the
// default RF driver backend for this receiver.
type RTLTCPDriver struct {
	addr string
	sdr  rtltcp.SDR
}

// NewRTLTCPDriver builds a driver that will connect to an rtl_tcp server
// listening at addr (host:port).
func NewRTLTCPDriver(addr string) *RTLTCPDriver {
	return &RTLTCPDriver{addr: addr}
}

// Open connects to the configured rtl_tcp server; deviceIndex is unused.
func (d *RTLTCPDriver) Open(deviceIndex int) error {
	tcpAddr, err := net.ResolveTCPAddr("tcp", d.addr)
	if err != nil {
		return fmt.Errorf("resolve rtl_tcp address: %w", err)
	}
	if err := d.sdr.Connect(tcpAddr); err != nil {
		return fmt.Errorf("connect rtl_tcp: %w", err)
	}
	d.sdr.SetGainMode(true)
	d.sdr.SetOffsetTuning(true)
	return nil
}

// Close tears down the rtl_tcp connection.
func (d *RTLTCPDriver) Close() error {
	return d.sdr.Close()
}

// SetCenterFreq tunes the dongle.
func (d *RTLTCPDriver) SetCenterFreq(hz uint32) error {
	d.sdr.SetCenterFreq(hz)
	return nil
}

// SetSampleRate configures the dongle's native sample rate.
func (d *RTLTCPDriver) SetSampleRate(hz uint32) error {
	d.sdr.SetSampleRate(hz)
	return nil
}

// StartAsync reads interleaved I/Q blocks from the rtl_tcp connection until
// ctx is canceled, handing each block to onSamples.
func (d *RTLTCPDriver) StartAsync(ctx context.Context, onSamples func(iq []byte)) error {
	block := make([]byte, rtlTCPBlockSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if _, err := io.ReadFull(&d.sdr, block); err != nil {
			return fmt.Errorf("read rtl_tcp samples: %w", err)
		}
		cp := make([]byte, len(block))
		copy(cp, block)
		onSamples(cp)
	}
}

// CancelAsync closes the underlying connection, unblocking any in-flight
// StartAsync read.
func (d *RTLTCPDriver) CancelAsync() error {
	return d.sdr.Close()
}
