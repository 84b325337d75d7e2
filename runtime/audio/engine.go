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

// Engine mixes the channel/voice/tracker state held in a RollbackState
// against the resource tables. It holds no state of its own beyond the
// resource tables it was built with: every call takes the RollbackState
// it should read and mutate explicitly, so a rollback Session can point
// the same Engine at whichever snapshot is currently live.
type Engine struct {
	tables *resources.Tables
	sampleRate int
}

// NewEngine builds an Engine bound to tables. sampleRate is the host
// output rate (spec.md §4.3 resampling happens against this rate).
func NewEngine(tables *resources.Tables, sampleRate int) *Engine {
	return &Engine{tables: tables, sampleRate: sampleRate}
}

// Advance moves every channel, voice and tracker forward by one
// simulation tick worth of audio time without producing samples. This
// is the rollback-safe path: during resimulation the engine must reach
// bit-identical RollbackState without re-rendering audio the speaker
// already played (spec.md §4.3 "advance-without-render path").
func (e *Engine) Advance(s *RollbackState, frames int) {
	e.advanceChannels(s, frames)
	e.advanceVoices(s, frames)
	e.tickTracker(s, frames)
}

// Render produces frames stereo samples into out (len(out) ==
// frames*2) and advances s by the same amount. Used only on the
// authoritative, non-resimulated frame.
func (e *Engine) Render(s *RollbackState, out []float32, frames int) {
	for i := range out {
		out[i] = 0
	}
	e.mixChannels(s, out, frames)
	e.mixVoices(s, out, frames)
	e.advanceChannels(s, frames)
	e.advanceVoices(s, frames)
	e.tickTracker(s, frames)
	for i := range out {
		out[i] *= s.MasterVolume
	}
}

func (e *Engine) advanceChannels(s *RollbackState, frames int) {
	for i := range s.Channels {
		ch := &s.Channels[i]
		if !ch.Playing {
			continue
		}
		snd, ok := e.tables.Sounds.Get(ch.SoundHandle)
		if !ok {
			ch.Playing = false
			continue
		}
		ch.Position += float64(frames) * ch.Pitch
		e.wrapOrStop(ch, snd)
	}
}

func (e *Engine) wrapOrStop(ch *ChannelState, snd *resources.Sound) {
	length := float64(len(snd.Samples) / maxInt(snd.Channels, 1))
	if ch.Position < length {
		return
	}
	if ch.Looping {
		for ch.Position >= length && length > 0 {
			ch.Position -= length
		}
		return
	}
	ch.Playing = false
	ch.Position = 0
}

func (e *Engine) mixChannels(s *RollbackState, out []float32, frames int) {
	for i := range s.Channels {
		ch := &s.Channels[i]
		if !ch.Playing {
			continue
		}
		snd, ok := e.tables.Sounds.Get(ch.SoundHandle)
		if !ok {
			continue
		}
		e.mixSound(snd, ch.Position, ch.Pitch, ch.Volume, ch.Pan, out, frames)
	}
}

func (e *Engine) advanceVoices(s *RollbackState, frames int) {
	for i := range s.Voices {
		v := &s.Voices[i]
		if !v.Active {
			continue
		}
		snd, ok := e.tables.Sounds.Get(v.SoundHandle)
		if !ok {
			v.Active = false
			continue
		}
		v.Position += float64(frames) * v.Pitch
		length := float64(len(snd.Samples) / maxInt(snd.Channels, 1))
		if v.Position >= length {
			v.Active = false
			continue
		}
		if v.Fading {
			v.FadeSamples -= frames
			if v.FadeSamples <= 0 {
				v.Active = false
			}
		}
	}
}

func (e *Engine) mixVoices(s *RollbackState, out []float32, frames int) {
	for i := range s.Voices {
		v := &s.Voices[i]
		if !v.Active {
			continue
		}
		snd, ok := e.tables.Sounds.Get(v.SoundHandle)
		if !ok {
			continue
		}
		vol := v.Volume
		if v.Fading && v.FadeSamples > 0 {
			vol *= float32(v.FadeSamples) / float32(NNAFadeSamples)
		}
		e.mixSound(snd, v.Position, v.Pitch, vol, v.Pan, out, frames)
	}
}

// mixSound accumulates frames of snd, starting at pos and stepping by
// pitch, into the interleaved stereo buffer out.
func (e *Engine) mixSound(snd *resources.Sound, pos, pitch float64, vol, pan float32, out []float32, frames int) {
	left, right := panGains(pan)
	channels := maxInt(snd.Channels, 1)
	length := len(snd.Samples) / channels
	for f := 0; f < frames; f++ {
		idx := int(pos) + f*int(pitch+0.5)
		if idx < 0 || idx >= length {
			continue
		}
		var sample float32
		if channels == 1 {
			sample = snd.Samples[idx]
		} else {
			sample = (snd.Samples[idx*2] + snd.Samples[idx*2+1]) * 0.5
		}
		out[f*2] += sample * vol * left
		out[f*2+1] += sample * vol * right
	}
}

func panGains(pan float32) (left, right float32) {
	p := (pan + 1) / 2
	return 1 - p, p
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// TriggerNNA applies mode to whatever is currently sounding on channel
// before it is reassigned to a new note, per spec.md §4.3/§13.7.
func (e *Engine) TriggerNNA(s *RollbackState, channel int, mode resources.NNAMode) {
	if channel < 0 || channel >= MaxChannels {
		return
	}
	ch := &s.Channels[channel]
	if !ch.Playing {
		return
	}
	switch mode {
	case resources.NNACut:
		ch.Playing = false
	case resources.NNAOff:
		// channel simply gets overwritten by the caller; nothing to steal
	case resources.NNAContinue, resources.NNAFade:
		e.stealVoice(s, ch, mode == resources.NNAFade)
		ch.Playing = false
	}
}

func (e *Engine) stealVoice(s *RollbackState, ch *ChannelState, fade bool) {
	slot := -1
	for i := range s.Voices {
		if !s.Voices[i].Active {
			slot = i
			break
		}
	}
	if slot == -1 {
		// pool exhausted: steal the voice nearest to finishing its fade
		slot = 0
		best := s.Voices[0].FadeSamples
		for i := 1; i < len(s.Voices); i++ {
			if s.Voices[i].FadeSamples < best {
				best = s.Voices[i].FadeSamples
				slot = i
			}
		}
	}
	s.Voices[slot] = VirtualVoice{
		Active:      true,
		SoundHandle: ch.SoundHandle,
		Position:    ch.Position,
		Pitch:       ch.Pitch,
		Volume:      ch.Volume,
		Pan:         ch.Pan,
		Fading:      fade,
		FadeSamples: NNAFadeSamples,
	}
	if !fade {
		s.Voices[slot].FadeSamples = 0
	}
}
