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

// Package sdlhost provides the SDL2-backed console.Audio implementation and
// window/input polling used by the desktop platform front-end. Grounded on
// gui/sdlaudio/audio.go's queued-audio idiom.
package sdlhost

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/veandco/go-sdl2/sdl"
)

// Audio outputs mixed samples through an SDL queued audio device. Unlike
// the teacher's sdlaudio.Audio, there is no stereo-separation/discrete
// preference handling or spec switching at runtime: the simulation's tick
// rate and channel count are fixed for the lifetime of the console, so the
// device spec is opened once and never reopened.
type Audio struct {
	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	masterVolume float32
	queuedBytes  atomic.Int32
}

// maxQueuedBytes bounds how far audio can drift ahead of playback before
// PushSamples clears the queue; mirrors sdlaudio.Audio.SetAudio's queue-length
// guard against unbounded latency growth.
const maxQueuedBytes = 1024 * 8

// NewAudio opens an SDL audio output device at sampleRate with a single
// interleaved float32 stream, channels wide.
func NewAudio(sampleRate, channels int) (*Audio, error) {
	request := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_F32SYS,
		Channels: uint8(channels),
		Samples:  1024,
	}
	var actual sdl.AudioSpec

	id, err := sdl.OpenAudioDevice("", false, request, &actual, 0)
	if err != nil {
		return nil, fmt.Errorf("sdlhost: open audio device: %w", err)
	}

	aud := &Audio{
		id:           id,
		spec:         actual,
		masterVolume: 1.0,
	}
	sdl.PauseAudioDevice(aud.id, false)
	return aud, nil
}

// SampleRate implements console.Audio.
func (aud *Audio) SampleRate() int {
	return int(aud.spec.Freq)
}

// PushSamples implements console.Audio. Samples are interleaved float32,
// scaled by the master volume before being queued.
func (aud *Audio) PushSamples(samples []float32) error {
	if aud.masterVolume != 1.0 {
		scaled := make([]float32, len(samples))
		for i, s := range samples {
			scaled[i] = s * aud.masterVolume
		}
		samples = scaled
	}

	buf := float32SliceToBytes(samples)
	if err := sdl.QueueAudio(aud.id, buf); err != nil {
		return fmt.Errorf("sdlhost: queue audio: %w", err)
	}

	queued := int32(sdl.GetQueuedAudioSize(aud.id))
	aud.queuedBytes.Store(queued)
	if queued > maxQueuedBytes {
		sdl.ClearQueuedAudio(aud.id)
	}
	return nil
}

// Play and Stop are collaborator-owned hardware-mixer hooks (spec.md §4.6
// notes these never carry gameplay-relevant state); this platform has no
// secondary mixer bus beneath the rollback-owned sample stream, so both
// are no-ops.
func (aud *Audio) Play(handle uint32, volume float32, looping bool) {}
func (aud *Audio) Stop(handle uint32)                               {}

// SetMasterVolume implements console.Audio.
func (aud *Audio) SetMasterVolume(volume float32) {
	aud.masterVolume = volume
}

// Close releases the SDL audio device.
func (aud *Audio) Close() {
	sdl.ClearQueuedAudio(aud.id)
	sdl.CloseAudioDevice(aud.id)
}

func float32SliceToBytes(samples []float32) []byte {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		bits := math.Float32bits(s)
		buf[i*4+0] = byte(bits)
		buf[i*4+1] = byte(bits >> 8)
		buf[i*4+2] = byte(bits >> 16)
		buf[i*4+3] = byte(bits >> 24)
	}
	return buf
}
