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

import "github.com/nethercore/nethercore/runtime/resources"

// PlayTracker starts module playing from its restart position with the
// given tracker-local volume and loop flag. Any previously playing module
// on this engine is replaced; nethercore supports one tracker module at a
// time per console (spec.md §4.3, §8 S4).
func (e *Engine) PlayTracker(s *RollbackState, handle uint32, volume float32, looping bool) {
	mod, ok := e.tables.Trackers.Get(handle)
	if !ok {
		return
	}
	s.Tracker = TrackerState{
		Handle:     handle,
		Playing:    true,
		Looping:    looping,
		OrderIndex: mod.RestartPos,
		Speed:      mod.DefaultSpeed,
		BPM:        mod.DefaultBPM,
		Volume:     uint16(clamp01(volume) * TrackerVolumeMax),
	}
	if len(mod.Order) > 0 {
		s.Tracker.PatternIndex = mod.Order[mod.RestartPos]
	}
}

// StopTracker halts playback, leaving the play-head where it stands so
// a later PlayTracker call restarts cleanly rather than resuming.
func (e *Engine) StopTracker(s *RollbackState) {
	s.Tracker.Playing = false
}

// ticksPerRowFrames converts the tracker's BPM into samples_per_tick
// (spec.md §4.3): the number of audio frames one tracker tick lasts,
// using the classic tracker formula: one tick takes (2.5 / BPM) seconds.
func (e *Engine) ticksPerRowFrames(bpm int) int {
	if bpm <= 0 {
		bpm = 125
	}
	seconds := 2.5 / float64(bpm)
	return int(seconds * float64(e.sampleRate))
}

// tickTracker advances the tracker's sample-accurate play-head by frames
// audio frames, firing a tracker tick (and a row advance every Speed
// ticks) each time TickSamplePos crosses samples_per_tick(BPM), so BPM
// governs tempo directly instead of the tracker ticking once per
// simulation tick regardless of BPM (spec.md §4.3 steps 1-4).
func (e *Engine) tickTracker(s *RollbackState, frames int) {
	t := &s.Tracker
	if !t.Playing {
		return
	}
	mod, ok := e.tables.Trackers.Get(t.Handle)
	if !ok {
		t.Playing = false
		return
	}

	t.TickSamplePos += frames
	samplesPerTick := e.ticksPerRowFrames(t.BPM)
	for samplesPerTick > 0 && t.TickSamplePos >= samplesPerTick {
		t.TickSamplePos -= samplesPerTick
		e.advanceTick(s, mod)
		if !t.Playing {
			return
		}
	}
}

func (e *Engine) advanceTick(s *RollbackState, mod *resources.TrackerModule) {
	t := &s.Tracker
	t.Tick++
	if t.Tick < t.Speed {
		e.applyPerTickEffects(s, mod)
		return
	}
	t.Tick = 0
	e.advanceRow(s, mod)
}

func (e *Engine) advanceRow(s *RollbackState, mod *resources.TrackerModule) {
	t := &s.Tracker
	if t.PatternIndex < 0 || t.PatternIndex >= len(mod.Patterns) {
		t.Playing = false
		return
	}
	pattern := mod.Patterns[t.PatternIndex]

	for ch := 0; ch < pattern.Channels && ch < MaxChannels; ch++ {
		note := pattern.Notes[t.Row][ch]
		e.triggerNote(s, mod, ch, note)
		e.applyRowEffect(s, mod, note.Effect)
	}

	t.Row++
	if t.Row >= pattern.Rows {
		t.Row = 0
		t.OrderIndex++
		if t.OrderIndex >= len(mod.Order) {
			if !t.Looping {
				t.Playing = false
				return
			}
			t.OrderIndex = mod.RestartPos
		}
		if t.OrderIndex < len(mod.Order) {
			t.PatternIndex = mod.Order[t.OrderIndex]
		}
	}
}

func (e *Engine) triggerNote(s *RollbackState, mod *resources.TrackerModule, channel int, note resources.TrackerNote) {
	if note.Note < 0 || note.Instrument < 0 || note.Instrument >= len(mod.Instruments) {
		return
	}
	e.TriggerNNA(s, channel, note.NNA)

	inst := mod.Instruments[note.Instrument]
	vol := float32(1.0)
	if note.Volume >= 0 {
		vol = float32(note.Volume) / 64.0
	}
	vol *= float32(s.Tracker.Volume) / TrackerVolumeMax
	s.Channels[channel] = ChannelState{
		SoundHandle: inst.SoundHandle,
		Playing:     true,
		Looping:     inst.LoopEnd > inst.LoopStart,
		Pitch:       noteToPitch(note.Note, inst.BaseFreq),
		Volume:      vol,
		Pan:         0,
	}
}

// noteToPitch converts a tracker note number (semitones from C-0) plus
// an instrument's base frequency into a playback-rate multiplier,
// assuming samples were authored at baseFreq's pitch.
func noteToPitch(note int8, baseFreq float32) float64 {
	if baseFreq <= 0 {
		baseFreq = 1
	}
	const a4 = 440.0
	semitoneFromA4 := float64(note) - 57 // C-0 is 57 semitones below A4 in this tuning
	freq := a4 * pow2(semitoneFromA4/12.0)
	return freq / float64(baseFreq)
}

func pow2(x float64) float64 {
	// small integer+fraction power-of-two helper kept dependency-free;
	// deterministic across platforms unlike math.Pow's libm variance.
	i := int(x)
	frac := x - float64(i)
	result := 1.0
	if i >= 0 {
		for n := 0; n < i; n++ {
			result *= 2
		}
	} else {
		for n := 0; n < -i; n++ {
			result /= 2
		}
	}
	// linear approximation of 2^frac over [0,1); adequate for tracker
	// pitch where exact cents accuracy is not a correctness property.
	return result * (1 + 0.6931471805599453*frac)
}

func (e *Engine) applyRowEffect(s *RollbackState, mod *resources.TrackerModule, eff resources.TrackerEffect) {
	t := &s.Tracker
	switch eff.Opcode {
	case resources.OpSetSpeed:
		t.Speed = int(eff.Param)
	case resources.OpSetBPM:
		t.BPM = int(eff.Param)
	case resources.OpPositionJump:
		t.OrderIndex = int(eff.Param)
		if t.OrderIndex < len(mod.Order) {
			t.PatternIndex = mod.Order[t.OrderIndex]
		}
		t.Row = 0
	case resources.OpPatternBreak:
		t.Row = int(eff.Param)
		t.OrderIndex++
		if t.OrderIndex >= len(mod.Order) {
			t.OrderIndex = mod.RestartPos
		}
		if t.OrderIndex < len(mod.Order) {
			t.PatternIndex = mod.Order[t.OrderIndex]
		}
	}
}

func (e *Engine) applyPerTickEffects(s *RollbackState, mod *resources.TrackerModule) {
	t := &s.Tracker
	if t.Row < 0 || t.PatternIndex < 0 || t.PatternIndex >= len(mod.Patterns) {
		return
	}
	pattern := mod.Patterns[t.PatternIndex]
	if t.Row >= pattern.Rows {
		return
	}
	for ch := 0; ch < pattern.Channels && ch < MaxChannels; ch++ {
		eff := pattern.Notes[t.Row][ch].Effect
		switch eff.Opcode {
		case resources.OpPortamentoUp:
			t.Slide[ch] += float32(eff.Param)
			s.Channels[ch].Pitch += float64(eff.Param) * 0.001
		case resources.OpPortamentoDown:
			t.Slide[ch] -= float32(eff.Param)
			s.Channels[ch].Pitch -= float64(eff.Param) * 0.001
		case resources.OpVolumeSlide:
			delta := float32(int8(eff.Param)) / 64.0
			t.VolSlide[ch] += delta
			s.Channels[ch].Volume = clamp01(s.Channels[ch].Volume + delta)
		case resources.OpNoteCut:
			if int(eff.Param) == t.Tick {
				s.Channels[ch].Playing = false
			}
		case resources.OpSetVolume:
			s.Channels[ch].Volume = float32(eff.Param) / 64.0
		}
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
