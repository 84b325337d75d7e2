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

package guest

import (
	"encoding/binary"

	"github.com/nethercore/nethercore/curated"
	"github.com/nethercore/nethercore/runtime/audio"
	"github.com/nethercore/nethercore/runtime/input"
)

// Encode composes the byte vector a rollback Session retains and
// checksums: the guest's save_state() bytes, followed by GameState and
// the audio engine's RollbackState (spec.md §4.4 "snapshot composition").
// The memory length is recorded so Decode can tell the two fixed-size
// trailers apart from the variable-length memory region without a
// console-specific schema.
func (snap Snapshot[I]) Encode() []byte {
	curr := snap.State.InputCurr.MarshalInput()
	prev := snap.State.InputPrev.MarshalInput()
	audioBuf := audio.EncodeRollbackState(snap.Audio)

	out := make([]byte, 4+len(snap.Memory)+8+8+len(curr)+len(prev)+len(audioBuf))
	off := 0
	binary.LittleEndian.PutUint32(out[off:], uint32(len(snap.Memory)))
	off += 4
	copy(out[off:], snap.Memory)
	off += len(snap.Memory)
	binary.LittleEndian.PutUint64(out[off:], snap.State.Tick)
	off += 8
	binary.LittleEndian.PutUint64(out[off:], snap.State.RandomSeed)
	off += 8
	copy(out[off:], curr)
	off += len(curr)
	copy(out[off:], prev)
	off += len(prev)
	copy(out[off:], audioBuf)
	return out
}

// DecodeSnapshot parses buf (as produced by Snapshot.Encode) back into a
// typed Snapshot. zero supplies I's Size()/UnmarshalInput method set; its
// value is otherwise discarded.
func DecodeSnapshot[I input.ConsoleInput](buf []byte, zero I) (Snapshot[I], error) {
	var snap Snapshot[I]
	if len(buf) < 4 {
		return snap, curated.Errorf("guest: encoded snapshot too short to hold a length prefix")
	}
	memLen := int(binary.LittleEndian.Uint32(buf))
	off := 4

	fieldSize := zero.Size()
	want := off + memLen + 8 + 8 + fieldSize*2 + audio.EncodedRollbackStateSize
	if len(buf) != want {
		return snap, curated.Errorf("guest: encoded snapshot length %d does not match expected %d", len(buf), want)
	}

	snap.Memory = make([]byte, memLen)
	copy(snap.Memory, buf[off:off+memLen])
	off += memLen

	snap.State.Tick = binary.LittleEndian.Uint64(buf[off:])
	off += 8
	snap.State.RandomSeed = binary.LittleEndian.Uint64(buf[off:])
	off += 8

	curr, err := input.Decode[I](buf[off:off+fieldSize], zero)
	if err != nil {
		return snap, curated.Errorf("guest: decoding input_curr: %v", err)
	}
	off += fieldSize
	snap.State.InputCurr = curr

	prev, err := input.Decode[I](buf[off:off+fieldSize], zero)
	if err != nil {
		return snap, curated.Errorf("guest: decoding input_prev: %v", err)
	}
	off += fieldSize
	snap.State.InputPrev = prev

	audioState, err := audio.DecodeRollbackState(buf[off:])
	if err != nil {
		return snap, curated.Errorf("guest: decoding audio rollback state: %v", err)
	}
	snap.Audio = audioState

	return snap, nil
}
