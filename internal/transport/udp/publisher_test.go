// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"
)

func listen(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPublisherSendsFramedEvents(t *testing.T) {
	listener := listen(t)

	sender, err := NewUDPSender(listener.LocalAddr().String())
	if err != nil {
		t.Fatalf("NewUDPSender: %v", err)
	}
	pub, err := NewPublisher(sender)
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	defer pub.Close()

	fixed := time.Unix(1700000000, 0)
	pub.now = func() time.Time { return fixed }

	for i := range 2 {
		if err := pub.Send(map[string]int{"n": i}); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	buf := make([]byte, 2048)
	for i := range 2 {
		_ = listener.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _, err := listener.ReadFromUDP(buf)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		pkt, err := DecodePacket(buf[:n])
		if err != nil {
			t.Fatalf("DecodePacket: %v", err)
		}
		if pkt.Sequence != uint32(i+1) {
			t.Errorf("sequence = %d, want %d", pkt.Sequence, i+1)
		}
		if pkt.Timestamp != fixed.UnixNano() {
			t.Errorf("timestamp = %d, want %d", pkt.Timestamp, fixed.UnixNano())
		}
		var got map[string]int
		if err := json.Unmarshal(pkt.Payload, &got); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if got["n"] != i {
			t.Errorf("payload n = %d, want %d", got["n"], i)
		}
	}
}

func TestSenderClosed(t *testing.T) {
	listener := listen(t)
	sender, err := NewUDPSender(listener.LocalAddr().String())
	if err != nil {
		t.Fatalf("NewUDPSender: %v", err)
	}
	if err := sender.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := sender.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := sender.Send([]byte("x")); err == nil || !strings.Contains(err.Error(), "closed") {
		t.Errorf("Send after Close = %v, want closed error", err)
	}
}

func TestNewPublisherNilSender(t *testing.T) {
	if _, err := NewPublisher(nil); err == nil {
		t.Error("expected error for nil sender")
	}
}

func TestNewUDPSenderBadAddress(t *testing.T) {
	if _, err := NewUDPSender("not an address"); err == nil {
		t.Error("expected resolve error")
	}
}

func TestDecodePacketErrors(t *testing.T) {
	if _, err := DecodePacket([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for short packet")
	}

	var buf bytes.Buffer
	_ = encodePacket(&buf, 1, 2, []byte(`{}`))
	if _, err := DecodePacket(append(buf.Bytes(), 'x')); err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestEncodePacketTooLarge(t *testing.T) {
	var buf bytes.Buffer
	if err := encodePacket(&buf, 1, 0, make([]byte, 1<<16)); err == nil {
		t.Error("expected error for oversized payload")
	}
}
