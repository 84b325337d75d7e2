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

package audio

import (
	"encoding/binary"
	"math"

	"github.com/nethercore/nethercore/curated"
)

var errShortRollbackState = curated.Errorf("audio: encoded rollback state shorter than expected")

// EncodedRollbackStateSize is the fixed byte length EncodeRollbackState
// always produces, so a caller composing a larger snapshot buffer can lay
// it out without a length prefix (spec.md §4.4 "snapshot composition").
const EncodedRollbackStateSize = MaxChannels*channelStateSize + MaxVirtualVoices*voiceStateSize + trackerStateSize + 4

const (
	channelStateSize = 4 + 1 + 1 + 8 + 8 + 4 + 4
	voiceStateSize   = 1 + 4 + 8 + 8 + 4 + 4 + 1 + 4
	// Handle(4) + Playing(1) + Looping(1) + 7 ints(4 each: OrderIndex,
	// PatternIndex, Row, Tick, TickSamplePos, Speed, BPM) + Volume(2) +
	// 3 per-channel arrays (Slide, Vibe, VolSlide).
	trackerStateSize = 4 + 1 + 1 + 4*7 + 2 + 4*MaxChannels*3
)

// EncodeRollbackState writes a fixed-layout binary form of s, used to
// compose the byte vector a rollback Session retains and SHA-1 checksums
// for SyncTest comparison (spec.md §4.4, §8 determinism checks).
func EncodeRollbackState(s RollbackState) []byte {
	buf := make([]byte, EncodedRollbackStateSize)
	off := 0
	for _, c := range s.Channels {
		off = putChannel(buf, off, c)
	}
	for _, v := range s.Voices {
		off = putVoice(buf, off, v)
	}
	off = putTracker(buf, off, s.Tracker)
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(s.MasterVolume))
	return buf
}

// DecodeRollbackState parses buf (as produced by EncodeRollbackState) back
// into a RollbackState.
func DecodeRollbackState(buf []byte) (RollbackState, error) {
	if len(buf) < EncodedRollbackStateSize {
		return RollbackState{}, errShortRollbackState
	}
	var s RollbackState
	off := 0
	for i := range s.Channels {
		s.Channels[i], off = getChannel(buf, off)
	}
	for i := range s.Voices {
		s.Voices[i], off = getVoice(buf, off)
	}
	s.Tracker, off = getTracker(buf, off)
	s.MasterVolume = math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	return s, nil
}

func putChannel(buf []byte, off int, c ChannelState) int {
	binary.LittleEndian.PutUint32(buf[off:], c.SoundHandle)
	off += 4
	buf[off] = boolByte(c.Playing)
	off++
	buf[off] = boolByte(c.Looping)
	off++
	binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(c.Position))
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(c.Pitch))
	off += 8
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(c.Volume))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(c.Pan))
	off += 4
	return off
}

func getChannel(buf []byte, off int) (ChannelState, int) {
	var c ChannelState
	c.SoundHandle = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	c.Playing = buf[off] != 0
	off++
	c.Looping = buf[off] != 0
	off++
	c.Position = math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
	off += 8
	c.Pitch = math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
	off += 8
	c.Volume = math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	off += 4
	c.Pan = math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	off += 4
	return c, off
}

func putVoice(buf []byte, off int, v VirtualVoice) int {
	buf[off] = boolByte(v.Active)
	off++
	binary.LittleEndian.PutUint32(buf[off:], v.SoundHandle)
	off += 4
	binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v.Position))
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v.Pitch))
	off += 8
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v.Volume))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v.Pan))
	off += 4
	buf[off] = boolByte(v.Fading)
	off++
	binary.LittleEndian.PutUint32(buf[off:], uint32(v.FadeSamples))
	off += 4
	return off
}

func getVoice(buf []byte, off int) (VirtualVoice, int) {
	var v VirtualVoice
	v.Active = buf[off] != 0
	off++
	v.SoundHandle = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	v.Position = math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
	off += 8
	v.Pitch = math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
	off += 8
	v.Volume = math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	off += 4
	v.Pan = math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	off += 4
	v.Fading = buf[off] != 0
	off++
	v.FadeSamples = int(binary.LittleEndian.Uint32(buf[off:]))
	off += 4
	return v, off
}

func putTracker(buf []byte, off int, tr TrackerState) int {
	binary.LittleEndian.PutUint32(buf[off:], tr.Handle)
	off += 4
	buf[off] = boolByte(tr.Playing)
	off++
	buf[off] = boolByte(tr.Looping)
	off++
	for _, n := range []int{tr.OrderIndex, tr.PatternIndex, tr.Row, tr.Tick, tr.TickSamplePos, tr.Speed, tr.BPM} {
		binary.LittleEndian.PutUint32(buf[off:], uint32(int32(n)))
		off += 4
	}
	binary.LittleEndian.PutUint16(buf[off:], tr.Volume)
	off += 2
	for _, arr := range [][MaxChannels]float32{tr.Slide, tr.Vibe, tr.VolSlide} {
		for _, f := range arr {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
	return off
}

func getTracker(buf []byte, off int) (TrackerState, int) {
	var tr TrackerState
	tr.Handle = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	tr.Playing = buf[off] != 0
	off++
	tr.Looping = buf[off] != 0
	off++
	ints := [7]*int{&tr.OrderIndex, &tr.PatternIndex, &tr.Row, &tr.Tick, &tr.TickSamplePos, &tr.Speed, &tr.BPM}
	for _, p := range ints {
		*p = int(int32(binary.LittleEndian.Uint32(buf[off:])))
		off += 4
	}
	tr.Volume = binary.LittleEndian.Uint16(buf[off:])
	off += 2
	arrays := [3]*[MaxChannels]float32{&tr.Slide, &tr.Vibe, &tr.VolSlide}
	for _, arr := range arrays {
		for i := range arr {
			arr[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
			off += 4
		}
	}
	return tr, off
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
