package capture

import (
	"context"
	"fmt"
	"net"

	"github.com/pion/rtp"
)

// rtpReadBufSize is sized generously above typical ka9q-radio RTP payload
// sizes for a single multicast datagram.
const rtpReadBufSize = 4096

// RTPDriver joins a ka9q-radio-style multicast RTP stream and depacketizes
// it into raw interleaved I/Q bytes, selected in place of RTLTCPDriver when
// the receiver is fed from a radiod instance rather than an rtl_tcp server.
type RTPDriver struct {
	addr    string
	iface   string
	conn    *net.UDPConn
	cancel  context.CancelFunc
}

// NewRTPDriver builds a driver that will join the multicast group at addr
// (host:port) on the named network interface (empty selects the default).
func NewRTPDriver(addr, iface string) *RTPDriver {
	return &RTPDriver{addr: addr, iface: iface}
}

// Open joins the configured multicast group. deviceIndex is unused; RTP
// sources have no device-index concept.
func (d *RTPDriver) Open(deviceIndex int) error {
	udpAddr, err := net.ResolveUDPAddr("udp", d.addr)
	if err != nil {
		return fmt.Errorf("resolve multicast address: %w", err)
	}

	var ifi *net.Interface
	if d.iface != "" {
		ifi, err = net.InterfaceByName(d.iface)
		if err != nil {
			return fmt.Errorf("lookup interface %s: %w", d.iface, err)
		}
	}

	conn, err := net.ListenMulticastUDP("udp", ifi, udpAddr)
	if err != nil {
		return fmt.Errorf("join multicast group: %w", err)
	}
	d.conn = conn
	return nil
}

// Close leaves the multicast group.
func (d *RTPDriver) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

// SetCenterFreq is a no-op for RTP sources: radiod is tuned independently
// out of band (via its own status/control protocol, out of this receiver's
// scope).
func (d *RTPDriver) SetCenterFreq(hz uint32) error { return nil }

// SetSampleRate is a no-op for RTP sources: the sample rate is fixed by the
// upstream radiod channel configuration.
func (d *RTPDriver) SetSampleRate(hz uint32) error { return nil }

// StartAsync reads RTP packets from the multicast socket until ctx is
// canceled, handing each packet's payload to onSamples.
func (d *RTPDriver) StartAsync(ctx context.Context, onSamples func(iq []byte)) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	defer cancel()

	buf := make([]byte, rtpReadBufSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, _, err := d.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("read rtp datagram: %w", err)
			}
		}

		var pkt rtp.Packet
		if err := pkt.Unmarshal(buf[:n]); err != nil {
			continue // drop malformed datagrams rather than aborting capture
		}
		payload := make([]byte, len(pkt.Payload))
		copy(payload, pkt.Payload)
		onSamples(payload)
	}
}

// CancelAsync stops any in-flight StartAsync read loop and closes the
// socket.
func (d *RTPDriver) CancelAsync() error {
	if d.cancel != nil {
		d.cancel()
	}
	return d.Close()
}
