// This file is part of Nethercore.
//
// Nethercore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Nethercore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Nethercore.  If not, see <https://www.gnu.org/licenses/>.

package rollback

import (
	"encoding/binary"
	"net"
	"time"

	"github.com/rs/zerolog/log"
)

// transport is the reference P2P wire: UDP with per-message framing, as
// spec.md §6 names as "the reference choice" for the loss-tolerant,
// ordered, per-peer channel the session requires. Each packet is
// [tick:uint64 LE][slot:byte][len:uint16 LE][payload].
//
// Grounded on the other_examples UDP rollback-manager/replay-writer
// sketches in the retrieval pack (frame-indexed, per-peer datagrams).
type transport struct {
	conn *net.UDPConn
	peer *net.UDPAddr
}

func newTransport(bindPort, peerPort int) (*transport, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: bindPort})
	if err != nil {
		return nil, err
	}
	peer := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: peerPort}
	return &transport{conn: conn, peer: peer}, nil
}

func (t *transport) send(tick uint64, slot int, payload []byte) error {
	buf := make([]byte, 8+1+2+len(payload))
	binary.LittleEndian.PutUint64(buf[0:], tick)
	buf[8] = byte(slot)
	binary.LittleEndian.PutUint16(buf[9:], uint16(len(payload)))
	copy(buf[11:], payload)
	_, err := t.conn.WriteToUDP(buf, t.peer)
	return err
}

// remoteInput is one decoded, unconfirmed-until-filed input packet.
type remoteInput struct {
	tick    uint64
	slot    int
	payload []byte
}

// drain reads every pending datagram without blocking, returning the
// decoded packets. Malformed packets are logged and skipped rather than
// treated as a fatal transport error (spec.md §7 error taxonomy:
// transport noise is recoverable).
func (t *transport) drain() []remoteInput {
	if t.conn == nil {
		return nil
	}
	_ = t.conn.SetReadDeadline(time.Now())

	var out []remoteInput
	buf := make([]byte, 2048)
	for {
		n, err := t.conn.Read(buf)
		if err != nil {
			break
		}
		if n < 11 {
			log.Warn().Int("bytes", n).Msg("rollback: short packet dropped")
			continue
		}
		tick := binary.LittleEndian.Uint64(buf[0:])
		slot := int(buf[8])
		length := int(binary.LittleEndian.Uint16(buf[9:]))
		if 11+length > n {
			log.Warn().Msg("rollback: packet length field exceeds datagram")
			continue
		}
		payload := make([]byte, length)
		copy(payload, buf[11:11+length])
		out = append(out, remoteInput{tick: tick, slot: slot, payload: payload})
	}
	return out
}

func (t *transport) close() error {
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}
