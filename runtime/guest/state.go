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

// Package guest owns the per-game guest instance: its linear memory, the
// game-state record exposed to FFI callbacks, and the per-frame FFI
// staging scratch (draw commands, pending uploads, debug variables).
//
// Grounded on the teacher's hardware/memory bus (bounds-checked access
// over a flat byte array) and coprocessor.CoProcessor's yield/fault
// taxonomy, generalised from "a 6502 reading a cartridge-mapped bus" to
// "a sandboxed guest module reading its linear memory".
package guest

import "github.com/nethercore/nethercore/runtime/input"

// GameState is the record of per-frame, snapshot-relevant guest facts
// FFI callbacks may read: current and previous raw input, the frame
// tick counter, and the deterministic RNG seed (spec.md §4.1, §4.4).
type GameState[I input.ConsoleInput] struct {
	Tick       uint64
	RandomSeed uint64
	InputCurr  I
	InputPrev  I
}

// UploadKind identifies which resource table a PendingUpload targets.
type UploadKind int

const (
	UploadTexture UploadKind = iota
	UploadMesh
	UploadSound
	UploadFont
	UploadTracker
)

// PendingUpload is a resource creation request recorded during init (or,
// for streaming consoles, at controlled points after init) and flushed
// to the Graphics/Audio collaborators once per load, never per frame
// (spec.md §13.3, §4.2 "two-phase: record now, upload once").
type PendingUpload struct {
	Kind   UploadKind
	Handle uint32
	Raw    []byte // decoded/validated payload, ready for GPU/mixer upload

	// decode parameters, only the ones relevant to Kind are meaningful
	Width, Height int
	Format        uint32
	SampleRate    int
	Channels      int
}

// ShadingState is the render-state bundle a draw command is issued
// against: texture + blend mode + depth test, deduplicated so repeated
// draws under identical state share one cache slot (spec.md §13.4).
type ShadingState struct {
	TextureHandle uint32
	BlendMode     uint8
	DepthTest     bool
	DepthWrite    bool
}

// DrawCommand is one recorded draw call: the mesh to draw, the shading
// state it was issued under (by cache index, not by value, to keep the
// per-frame command buffer compact) and its world transform.
type DrawCommand struct {
	MeshHandle     uint32
	ShadingIndex   int
	Transform      [16]float32
	BoneFirst      int
	BoneCount      int
}

// DebugVariable is a named, host-inspectable scalar a guest registers
// once during init for the reference debug overlay to display and
// (optionally) let the user edit (spec.md §12 debug variable/inspector
// presets, supplemented from original_source).
type DebugVariable struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

// FFIStaging is the per-console scratch state rebuilt every frame: the
// draw command buffer, its deduplicated shading-state cache, any
// uploads recorded this frame, and persistent debug variables. Unlike
// GameState and the audio RollbackState, this is never snapshotted —
// Instance.Restore calls ResetFrame and lets the guest rebuild it
// deterministically from GameState on resimulation (spec.md Data Model
// "FFI Staging State").
type FFIStaging struct {
	Commands      []DrawCommand
	ShadingCache  []ShadingState
	shadingIndex  map[ShadingState]int
	Uploads       []PendingUpload
	BoneMatrices  [][16]float32
	DebugVars     map[string]*DebugVariable
}

// NewFFIStaging returns an empty staging area.
func NewFFIStaging() FFIStaging {
	return FFIStaging{
		shadingIndex: make(map[ShadingState]int),
		DebugVars:    make(map[string]*DebugVariable),
	}
}

// InternShading returns the cache index for state, adding it if this is
// the first draw command issued under it this frame.
func (s *FFIStaging) InternShading(state ShadingState) int {
	if idx, ok := s.shadingIndex[state]; ok {
		return idx
	}
	idx := len(s.ShadingCache)
	s.ShadingCache = append(s.ShadingCache, state)
	s.shadingIndex[state] = idx
	return idx
}

// ResetFrame clears everything rebuilt per-frame but keeps DebugVars,
// which are registered once during init and persist for the game's
// lifetime.
func (s *FFIStaging) ResetFrame() {
	s.Commands = s.Commands[:0]
	s.ShadingCache = s.ShadingCache[:0]
	for k := range s.shadingIndex {
		delete(s.shadingIndex, k)
	}
	s.Uploads = s.Uploads[:0]
	s.BoneMatrices = s.BoneMatrices[:0]
}
