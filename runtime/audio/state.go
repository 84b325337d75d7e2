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

// Package audio implements the fixed-point deterministic tracker/synth
// engine (spec.md §4.3). Its RollbackState is POD-shaped so a rollback
// Session can snapshot and restore it by value alongside guest memory,
// exactly like the teacher's TIA/RIOT register banks were POD structs a
// rewind.State copied wholesale.
//
// Grounded on gui/sdlaudio/audio.go (the teacher's pull-model mixer) and
// original_source tracker/channel files for the opcode state machine.
package audio

// MaxChannels is the number of real mixer channels a console can drive
// directly (spec.md §13.7 "virtual voices beyond this pool steal or are
// dropped"). It is a fixed compile-time bound so RollbackState stays a
// flat, copyable value.
const MaxChannels = 16

// MaxVirtualVoices bounds the NNA voice-stealing pool (spec.md §13.7).
const MaxVirtualVoices = 32

// NNAFadeSamples is the length of the linear fade-out applied to a voice
// that loses its channel under NNAFade (spec.md §13.7, ~3ms at 48kHz).
const NNAFadeSamples = 144

// ChannelState is one real mixer channel's rollback-relevant playback
// position. Everything here must be recomputable from nothing but the
// fields themselves plus the resource it references, so restoring it
// never needs to touch guest memory.
type ChannelState struct {
	SoundHandle uint32
	Playing     bool
	Looping     bool
	Position    float64 // fractional sample index, survives pitch changes
	Pitch       float64 // playback rate multiplier
	Volume      float32
	Pan         float32
}

// VirtualVoice is one NNA-stolen voice kept alive past its channel's
// reassignment, either still sounding (NNAContinue) or fading out
// (NNAFade). Voices with Active == false are free slots.
type VirtualVoice struct {
	Active      bool
	SoundHandle uint32
	Position    float64
	Pitch       float64
	Volume      float32
	Pan         float32
	Fading      bool
	FadeSamples int // samples remaining in the fade-out; 0 means not fading
}

// TrackerVolumeMax is the fixed-point scale TrackerState.Volume is stored
// at (spec.md §8 S4 "volume=0.7*256"), matching
// original_source/nethercore-zx/src/ffi/audio.rs's `volume * 256.0`.
const TrackerVolumeMax = 256

// TrackerState is one tracker module's play-head: order/pattern/row
// position plus the per-tick speed/BPM state the effect opcodes mutate.
// TickSamplePos is the sample-accurate counter spec.md §4.3 calls
// tick_sample_pos: it accumulates output frames and fires a row/tick
// advance only on crossing samples_per_tick(bpm, sample_rate), which is
// what makes BPM actually govern tempo instead of the tick rate.
type TrackerState struct {
	Handle        uint32
	Playing       bool
	Looping       bool
	OrderIndex    int
	PatternIndex  int
	Row           int
	Tick          int
	TickSamplePos int
	Speed         int
	BPM           int
	Volume        uint16 // tracker-local volume, fixed-point 0..TrackerVolumeMax
	// per-channel portamento/vibrato/volume-slide scratch, indexed by
	// tracker channel; unrelated to the scalar Volume above.
	Slide    [MaxChannels]float32
	Vibe     [MaxChannels]float32
	VolSlide [MaxChannels]float32
}

// RollbackState is the full host-side audio state a rollback Session
// snapshots verbatim every frame (spec.md Data Model "Rollback State").
// It is deliberately a flat value type: copying it is the entire
// snapshot/restore operation, no deep clone required because every slice
// field has a fixed array backing.
type RollbackState struct {
	Channels     [MaxChannels]ChannelState
	Voices       [MaxVirtualVoices]VirtualVoice
	Tracker      TrackerState
	MasterVolume float32
}

// NewRollbackState returns a RollbackState with the mixer at unity
// volume and every channel/voice silent.
func NewRollbackState() RollbackState {
	return RollbackState{MasterVolume: 1.0}
}
