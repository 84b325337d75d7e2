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

package ffi

import (
	"github.com/nethercore/nethercore/runtime/audio"
	"github.com/nethercore/nethercore/runtime/resources"
)

// musicChannel is the dedicated channel music_play uses for looped PCM
// music, distinct from the general-purpose sound-effect channels.
const musicChannel = 0

// PlaySound picks the first free channel and starts handle playing on
// it, returning the channel index or -1 if every channel is busy
// (spec.md §4.3 "play_sound picks the first free channel").
func (r *Registry[I]) PlaySound(handle uint32, volume, pan float32, looping bool) int {
	if resources.IsTracker(handle) {
		r.deny("play_sound", "handle %d is a tracker handle, not a sound", handle)
		return -1
	}
	if _, ok := r.Tables.Sounds.Get(handle); !ok {
		r.deny("play_sound", "unknown sound handle %d", handle)
		return -1
	}
	for i := range r.Instance.Audio.Channels {
		if i == musicChannel {
			continue
		}
		ch := &r.Instance.Audio.Channels[i]
		if !ch.Playing {
			*ch = audio.ChannelState{
				SoundHandle: handle,
				Playing:     true,
				Looping:     looping,
				Pitch:       1,
				Volume:      clampVolume(volume),
				Pan:         pan,
			}
			return i
		}
	}
	r.deny("play_sound", "no free channel for handle %d", handle)
	return -1
}

// ChannelPlay targets a specific channel. If the same (sound, looping)
// pair is already playing on it, only volume/pan are updated, avoiding
// a restart that would pop under rollback resimulation (spec.md §4.3).
func (r *Registry[I]) ChannelPlay(channel int, handle uint32, volume, pan float32, looping bool) {
	if channel < 0 || channel >= audio.MaxChannels {
		r.deny("channel_play", "invalid channel %d", channel)
		return
	}
	if resources.IsTracker(handle) {
		r.deny("channel_play", "handle %d is a tracker handle, not a sound", handle)
		return
	}
	if _, ok := r.Tables.Sounds.Get(handle); !ok {
		r.deny("channel_play", "unknown sound handle %d", handle)
		return
	}
	ch := &r.Instance.Audio.Channels[channel]
	if ch.Playing && ch.SoundHandle == handle && ch.Looping == looping {
		ch.Volume = clampVolume(volume)
		ch.Pan = pan
		return
	}
	*ch = audio.ChannelState{
		SoundHandle: handle,
		Playing:     true,
		Looping:     looping,
		Pitch:       1,
		Volume:      clampVolume(volume),
		Pan:         pan,
	}
}

// StopChannel silences channel immediately.
func (r *Registry[I]) StopChannel(channel int) {
	if channel < 0 || channel >= audio.MaxChannels {
		r.deny("stop_channel", "invalid channel %d", channel)
		return
	}
	r.Instance.Audio.Channels[channel] = audio.ChannelState{}
}

// MusicPlay dispatches on handle's high bit: a PCM handle stops the
// tracker and plays the sample on the music channel; a tracker handle
// stops PCM music and (re)initialises the tracker engine (spec.md §4.2
// "Unified audio handles", §8 S4). volume and loop apply to whichever of
// the two engines handle selects; they never touch the other engine's
// state or the mixer-wide MasterVolume.
func (r *Registry[I]) MusicPlay(handle uint32, volume float32, loop bool) {
	if resources.IsTracker(handle) {
		r.Instance.Audio.Channels[musicChannel] = audio.ChannelState{}
		if r.Engine != nil {
			r.Engine.PlayTracker(&r.Instance.Audio, handle, volume, loop)
		}
		return
	}
	if _, ok := r.Tables.Sounds.Get(handle); !ok {
		r.deny("music_play", "unknown sound handle %d", handle)
		return
	}
	if r.Engine != nil {
		r.Engine.StopTracker(&r.Instance.Audio)
	}
	ch := &r.Instance.Audio.Channels[musicChannel]
	if ch.Playing && ch.SoundHandle == handle && ch.Looping == loop {
		ch.Volume = clampVolume(volume)
		return
	}
	*ch = audio.ChannelState{
		SoundHandle: handle,
		Playing:     true,
		Looping:     loop,
		Pitch:       1,
		Volume:      clampVolume(volume),
	}
}

// SetMasterVolume sets the mixer's overall output gain.
func (r *Registry[I]) SetMasterVolume(volume float32) {
	r.Instance.Audio.MasterVolume = clampVolume(volume)
}
