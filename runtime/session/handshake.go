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

package session

import (
	"crypto/rand"
	"encoding/binary"
	"net"
	"time"

	"github.com/nethercore/nethercore/curated"
	"github.com/nethercore/nethercore/runtime/rollback"
)

// handshakeTimeout bounds how long Host waits for a joiner and Join waits
// for the host's ack, matching spec.md §7's "handshake timeout" session
// fault.
const handshakeTimeout = 10 * time.Second

const helloMagic = "NCHL"
const ackMagic = "NCHA"

// errHandshakeTimeout is returned when no peer responds within
// handshakeTimeout; the caller reports this as a session fault (spec.md §7).
var errHandshakeTimeout = curated.Errorf("session: handshake timed out waiting for peer")

// resolveHost binds Port, waits for a single joiner's hello, then replies
// with an ack assigning the joiner slot 1 and sharing a freshly generated
// random seed. The host is always slot 0. Grounded on original_source's
// NchsSocket.bind/poll pattern, collapsed to the one request/ack pair this
// module needs rather than the full NCHS message set.
func resolveHost(m Host) (Plan, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: m.Port})
	if err != nil {
		return Plan{}, curated.Errorf("session: host bind: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	buf := make([]byte, 16)
	n, from, err := conn.ReadFromUDP(buf)
	if err != nil {
		return Plan{}, errHandshakeTimeout
	}
	if n < 4 || string(buf[:4]) != helloMagic {
		return Plan{}, curated.Errorf("session: malformed hello from joiner")
	}

	seed := randomSeed()
	ack := make([]byte, 12)
	copy(ack[0:4], ackMagic)
	binary.LittleEndian.PutUint64(ack[4:12], seed)
	if _, err := conn.WriteToUDP(ack, from); err != nil {
		return Plan{}, curated.Errorf("session: sending handshake ack: %v", err)
	}

	return Plan{
		RollbackMode:   rollback.ModeP2P,
		Config:         rollback.DefaultConfig(),
		LocalSlots:     []int{0},
		RemoteSlots:    []int{1},
		NeedsTransport: true,
		BindPort:       m.Port,
		PeerPort:       from.Port,
		RandomSeed:     seed,
	}, nil
}

// resolveJoin sends a hello to Address and waits for the host's ack,
// which carries the shared random seed. The joiner is always slot 1.
func resolveJoin(m Join) (Plan, error) {
	peerAddr, err := net.ResolveUDPAddr("udp", m.Address)
	if err != nil {
		return Plan{}, curated.Errorf("session: resolving host address %q: %v", m.Address, err)
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	if err != nil {
		return Plan{}, curated.Errorf("session: join bind: %v", err)
	}
	defer conn.Close()

	hello := []byte(helloMagic)
	if _, err := conn.WriteToUDP(hello, peerAddr); err != nil {
		return Plan{}, curated.Errorf("session: sending hello: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	buf := make([]byte, 16)
	n, _, err := conn.ReadFromUDP(buf)
	if err != nil {
		return Plan{}, errHandshakeTimeout
	}
	if n < 12 || string(buf[:4]) != ackMagic {
		return Plan{}, curated.Errorf("session: malformed ack from host")
	}
	seed := binary.LittleEndian.Uint64(buf[4:12])

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return Plan{
		RollbackMode:   rollback.ModeP2P,
		Config:         rollback.DefaultConfig(),
		LocalSlots:     []int{1},
		RemoteSlots:    []int{0},
		NeedsTransport: true,
		BindPort:       localAddr.Port,
		PeerPort:       peerAddr.Port,
		RandomSeed:     seed,
	}, nil
}

func randomSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}
