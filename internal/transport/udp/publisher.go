// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	applog "audiotrim/internal/log"
	"audiotrim/internal/transport"
)

// HeaderSize is the fixed prefix of every event packet.
const HeaderSize = 4 + 8 + 2

/*
Event Packet Structure (BigEndian)

+-----------------------------------------------------------------------------+
| Field             | Data Type      | Size (Bytes) | Description             |
|-------------------|----------------|--------------|-------------------------|
| Sequence Number   | uint32         | 4            | Monotonically increasing|
| Timestamp         | int64          | 8            | Nanoseconds since epoch |
| Payload Length    | uint16         | 2            | Length of JSON (N)      |
| Payload           | []byte         | N            | JSON-encoded event      |
+-----------------------------------------------------------------------------+
*/

// Publisher frames events as packets and sends them with a UDPSender. It
// implements transport.Transport so trim events can go to a UDP listener
// alongside WebSocket clients.
type Publisher struct {
	sender *UDPSender
	now    func() time.Time

	mu          sync.Mutex // Serializes sequence numbers and the packet buffer.
	sequenceNum uint32
	packet      bytes.Buffer
}

// NewPublisher wraps sender.
func NewPublisher(sender *UDPSender) (*Publisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("UDPPublisher: UDP sender cannot be nil")
	}
	return &Publisher{sender: sender, now: time.Now}, nil
}

// Send encodes data as JSON and transmits one packet.
func (p *Publisher) Send(data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("UDPPublisher: marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.sequenceNum++
	if err := encodePacket(&p.packet, p.sequenceNum, p.now().UnixNano(), payload); err != nil {
		return err
	}
	if err := p.sender.Send(p.packet.Bytes()); err != nil {
		return err
	}
	applog.Debugf("UDPPublisher: sent packet %d (%d bytes)", p.sequenceNum, p.packet.Len())
	return nil
}

// Close closes the underlying sender.
func (p *Publisher) Close() error {
	return p.sender.Close()
}

// Packet is a decoded event packet.
type Packet struct {
	Sequence  uint32
	Timestamp int64
	Payload   []byte
}

// DecodePacket parses a datagram produced by Publisher.
func DecodePacket(b []byte) (Packet, error) {
	if len(b) < HeaderSize {
		return Packet{}, fmt.Errorf("packet too short: %d bytes", len(b))
	}
	p := Packet{
		Sequence:  binary.BigEndian.Uint32(b[0:4]),
		Timestamp: int64(binary.BigEndian.Uint64(b[4:12])),
	}
	n := int(binary.BigEndian.Uint16(b[12:14]))
	if len(b)-HeaderSize != n {
		return Packet{}, fmt.Errorf("payload length %d does not match packet body %d", n, len(b)-HeaderSize)
	}
	p.Payload = b[HeaderSize:]
	return p, nil
}

func encodePacket(buf *bytes.Buffer, seq uint32, timestamp int64, payload []byte) error {
	if len(payload) > math.MaxUint16 {
		return fmt.Errorf("UDPPublisher: event too large: %d bytes", len(payload))
	}
	buf.Reset()
	_ = binary.Write(buf, binary.BigEndian, seq)
	_ = binary.Write(buf, binary.BigEndian, timestamp)
	_ = binary.Write(buf, binary.BigEndian, uint16(len(payload)))
	buf.Write(payload)
	return nil
}

var _ transport.Transport = (*Publisher)(nil)
