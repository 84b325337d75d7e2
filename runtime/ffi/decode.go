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
	"encoding/binary"
	"math"

	"github.com/nethercore/nethercore/curated"
	"github.com/nethercore/nethercore/runtime/resources"
)

func newTexture(width, height int, format uint32, pixels []byte) *resources.Texture {
	return &resources.Texture{
		Width:  width,
		Height: height,
		Format: resources.TextureFormat(format),
		Pixels: pixels,
	}
}

func newMesh(vertexCount, indexCount int, vertices []byte, indices []uint32) *resources.Mesh {
	return &resources.Mesh{
		VertexCount: vertexCount,
		IndexCount:  indexCount,
		Vertices:    vertices,
		Indices:     indices,
	}
}

func newSound(samples []float32, sampleRate, channels int) *resources.Sound {
	return &resources.Sound{Samples: samples, SampleRate: sampleRate, Channels: channels}
}

func decodeUint32LE(raw []byte) []uint32 {
	out := make([]uint32, len(raw)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return out
}

func decodeFloat32LE(raw []byte) []float32 {
	out := make([]float32, len(raw)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out
}

// trackerHeaderSize is the fixed prefix before pattern/instrument data in
// the wire format create_tracker decodes (order count, pattern count,
// instrument count, default speed, default bpm, restart position, each a
// little-endian uint32).
const trackerHeaderSize = 6 * 4

// decodeTrackerModule parses the minimal tracker wire format this engine
// understands. It is deliberately tolerant of trailing bytes (forward
// compatibility) but rejects a header that does not fit raw.
func decodeTrackerModule(raw []byte) (*resources.TrackerModule, error) {
	if len(raw) < trackerHeaderSize {
		return nil, curated.Errorf("tracker module too short: %d bytes", len(raw))
	}
	u32 := func(off int) int { return int(binary.LittleEndian.Uint32(raw[off:])) }

	orderCount := u32(0)
	patternCount := u32(4)
	instrumentCount := u32(8)
	defaultSpeed := u32(12)
	defaultBPM := u32(16)
	restartPos := u32(20)

	off := trackerHeaderSize
	order := make([]int, orderCount)
	for i := range order {
		if off+4 > len(raw) {
			return nil, curated.Errorf("tracker order table truncated")
		}
		order[i] = u32(off)
		off += 4
	}

	instruments := make([]resources.Instrument, instrumentCount)
	for i := range instruments {
		if off+20 > len(raw) {
			return nil, curated.Errorf("tracker instrument table truncated")
		}
		instruments[i] = resources.Instrument{
			SoundHandle:  uint32(u32(off)),
			BaseFreq:     math.Float32frombits(uint32(u32(off + 4))),
			LoopStart:    u32(off + 8),
			LoopEnd:      u32(off + 12),
			PingPongLoop: u32(off+16) != 0,
		}
		off += 20
	}

	patterns := make([]resources.Pattern, patternCount)
	for p := range patterns {
		if off+8 > len(raw) {
			return nil, curated.Errorf("tracker pattern header truncated")
		}
		rows := u32(off)
		channels := u32(off + 4)
		off += 8
		notes := make([][]resources.TrackerNote, rows)
		for row := 0; row < rows; row++ {
			notes[row] = make([]resources.TrackerNote, channels)
			for ch := 0; ch < channels; ch++ {
				if off+5 > len(raw) {
					return nil, curated.Errorf("tracker note data truncated")
				}
				notes[row][ch] = resources.TrackerNote{
					Note:       int8(raw[off]),
					Instrument: int(raw[off+1]),
					Volume:     int8(raw[off+2]),
					Effect: resources.TrackerEffect{
						Opcode: resources.TrackerOpcode(raw[off+3]),
						Param:  raw[off+4],
					},
				}
				off += 5
			}
		}
		patterns[p] = resources.Pattern{Rows: rows, Channels: channels, Notes: notes}
	}

	return &resources.TrackerModule{
		Order:        order,
		Patterns:     patterns,
		Instruments:  instruments,
		DefaultSpeed: defaultSpeed,
		DefaultBPM:   defaultBPM,
		RestartPos:   restartPos,
	}, nil
}
