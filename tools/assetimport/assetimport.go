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

// Package assetimport is offline, host-side tooling that turns a WAV or
// MP3 source file into the raw interleaved-float32 PCM blob
// runtime/ffi.Registry.CreateSound expects a guest's create_sound call to
// point at (spec.md §4.2, §13.3). It has no runtime FFI surface of its
// own: a guest only ever embeds the already-converted blob in its
// cartridge image, exactly as it embeds mesh/texture data, so the
// container-format decode that a creative tool needs (here, at asset-bake
// time) never belongs in the live FFI validation path.
package assetimport

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// PCM is a decoded, interleaved-float32 sound ready for
// Registry.CreateSound's wire format (encoding/binary little-endian
// float32, one sample per channel per frame).
type PCM struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Encode returns the little-endian float32 byte blob a guest's cartridge
// build would embed for this sound, matching decodeFloat32LE's
// expectations in runtime/ffi.
func (p PCM) Encode() []byte {
	buf := make([]byte, len(p.Samples)*4)
	for i, s := range p.Samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	return buf
}

// DecodeWAV reads a complete WAV file from r and returns its PCM content
// as interleaved float32 samples.
func DecodeWAV(r io.Reader) (PCM, error) {
	ra, ok := r.(readSeeker)
	if !ok {
		return PCM{}, fmt.Errorf("assetimport: wav decoding requires a seekable reader")
	}
	dec := wav.NewDecoder(ra)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return PCM{}, fmt.Errorf("assetimport: decode wav: %w", err)
	}
	floats := buf.AsFloatBuffer()
	samples := make([]float32, len(floats.Data))
	for i, v := range floats.Data {
		samples[i] = float32(v)
	}
	return PCM{
		Samples:    samples,
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
	}, nil
}

// readSeeker is the subset of *os.File that wav.NewDecoder needs; named
// here so DecodeWAV's signature stays io.Reader while still requiring
// seekability at the call site.
type readSeeker interface {
	io.Reader
	io.Seeker
}

// DecodeMP3 reads a complete MP3 stream from r and returns its PCM
// content as interleaved float32 samples. go-mp3 always decodes to
// signed 16-bit stereo PCM, which this function normalises to [-1, 1]
// float32.
func DecodeMP3(r io.Reader) (PCM, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return PCM{}, fmt.Errorf("assetimport: decode mp3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return PCM{}, fmt.Errorf("assetimport: read mp3 stream: %w", err)
	}
	const channels = 2
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float32(v) / 32768.0
	}
	return PCM{
		Samples:    samples,
		SampleRate: dec.SampleRate(),
		Channels:   channels,
	}, nil
}
