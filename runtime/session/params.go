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
	"encoding/binary"
	"os"

	"github.com/nethercore/nethercore/curated"
)

// SocketParams is the transport half of a matchmaking-produced session
// (spec.md §13.6): where this peer binds, and where its one remote peer
// listens.
type SocketParams struct {
	BindPort int
	PeerPort int
}

// SessionParams is what a matchmaking collaborator hands the core out of
// process (spec.md §6 "Session { file }", §13.6). The core only consumes
// these fields; it has no opinion on how a lobby produced them.
type SessionParams struct {
	Socket      SocketParams
	PlayerCount int
	LocalPlayer int
	LocalMask   uint8
	RandomSeed  uint64
	InputDelay  int
}

const paramsMagic = "NCSP"
const paramsVersion = uint32(1)

// encodedParamsSize is fixed: magic + version + two ports + three scalars
// (player count, local player, local mask) + the random seed + the input
// delay, all little-endian.
const encodedParamsSize = 4 + 4 + 4 + 4 + 4 + 4 + 1 + 8 + 4

var errShortParams = curated.Errorf("session: params file shorter than the fixed record size")
var errBadMagic = curated.Errorf("session: params file has the wrong magic or version")

// EncodeParams serialises p using the same fixed-width little-endian wire
// idiom as the rest of this module's snapshot/save codecs (this module has
// no general-purpose serialisation dependency; see DESIGN.md).
func EncodeParams(p SessionParams) []byte {
	buf := make([]byte, encodedParamsSize)
	copy(buf[0:4], paramsMagic)
	binary.LittleEndian.PutUint32(buf[4:8], paramsVersion)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(p.Socket.BindPort))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(p.Socket.PeerPort))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(p.PlayerCount))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(p.LocalPlayer))
	buf[24] = p.LocalMask
	binary.LittleEndian.PutUint64(buf[25:33], p.RandomSeed)
	binary.LittleEndian.PutUint32(buf[33:37], uint32(p.InputDelay))
	return buf
}

// DecodeParams is the inverse of EncodeParams.
func DecodeParams(buf []byte) (SessionParams, error) {
	if len(buf) < encodedParamsSize {
		return SessionParams{}, errShortParams
	}
	if string(buf[0:4]) != paramsMagic || binary.LittleEndian.Uint32(buf[4:8]) != paramsVersion {
		return SessionParams{}, errBadMagic
	}
	return SessionParams{
		Socket: SocketParams{
			BindPort: int(binary.LittleEndian.Uint32(buf[8:12])),
			PeerPort: int(binary.LittleEndian.Uint32(buf[12:16])),
		},
		PlayerCount: int(binary.LittleEndian.Uint32(buf[16:20])),
		LocalPlayer: int(binary.LittleEndian.Uint32(buf[20:24])),
		LocalMask:   buf[24],
		RandomSeed:  binary.LittleEndian.Uint64(buf[25:33]),
		InputDelay:  int(binary.LittleEndian.Uint32(buf[33:37])),
	}, nil
}

// LoadParamsFile reads and parses path, then deletes it (spec.md §6 "file
// is consumed... so a stale file cannot rejoin stale lobbies"). The
// delete only happens after a successful parse: a file that fails to
// parse is left in place for inspection rather than silently destroyed.
func LoadParamsFile(path string) (SessionParams, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SessionParams{}, curated.Errorf("session: reading params file: %v", err)
	}
	params, err := DecodeParams(raw)
	if err != nil {
		return SessionParams{}, curated.Errorf("session: parsing params file %s: %v", path, err)
	}
	if err := os.Remove(path); err != nil {
		return SessionParams{}, curated.Errorf("session: removing consumed params file %s: %v", path, err)
	}
	return params, nil
}
