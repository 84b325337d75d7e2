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

package ffi_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/runtime/audio"
	"github.com/nethercore/nethercore/runtime/ffi"
	"github.com/nethercore/nethercore/runtime/guest"
	"github.com/nethercore/nethercore/runtime/input"
	"github.com/nethercore/nethercore/runtime/resources"
)

type testInput struct{ Buttons uint8 }

func (t testInput) Size() int            { return 1 }
func (t testInput) MarshalInput() []byte { return []byte{t.Buttons} }
func (t testInput) UnmarshalInput(buf []byte) (input.ConsoleInput, error) {
	return testInput{Buttons: buf[0]}, nil
}

func newRegistry(memLen int) (*ffi.Registry[testInput], *guest.Instance[testInput]) {
	inst := guest.NewInstance[testInput](memLen, nil)
	tabs := resources.NewTables()
	engine := audio.NewEngine(tabs, 48000)
	return ffi.NewRegistry[testInput](inst, tabs, engine, nil), inst
}

func TestCreateTextureRejectsOutsideInit(t *testing.T) {
	r, inst := newRegistry(64)
	inst.MarkInitDone()
	h := r.CreateTexture(2, 2, uint32(resources.FormatRGBA8), 0)
	nettest.ExpectEquality(t, h, uint32(0))
}

func TestCreateTextureSucceedsDuringInit(t *testing.T) {
	r, _ := newRegistry(64)
	h := r.CreateTexture(2, 2, uint32(resources.FormatRGBA8), 0)
	nettest.ExpectInequality(t, h, uint32(0))
}

func TestCreateTextureRejectsBadFormat(t *testing.T) {
	r, _ := newRegistry(64)
	h := r.CreateTexture(2, 2, 0xff, 0)
	nettest.ExpectEquality(t, h, uint32(0))
}

func TestCreateTextureRejectsOutOfRangeData(t *testing.T) {
	r, _ := newRegistry(8)
	h := r.CreateTexture(4, 4, uint32(resources.FormatRGBA8), 0)
	nettest.ExpectEquality(t, h, uint32(0))
}

func TestCreateMeshRejectsNonTripleIndexCount(t *testing.T) {
	r, _ := newRegistry(256)
	h := r.CreateMesh(0, 3, 12, 36, 4)
	nettest.ExpectEquality(t, h, uint32(0))
}

func TestCreateMeshSucceeds(t *testing.T) {
	r, inst := newRegistry(256)
	_ = inst.WriteAt(0, make([]byte, 3*12))
	idx := make([]byte, 3*4)
	binary.LittleEndian.PutUint32(idx[0:], 0)
	binary.LittleEndian.PutUint32(idx[4:], 1)
	binary.LittleEndian.PutUint32(idx[8:], 2)
	_ = inst.WriteAt(36, idx)

	h := r.CreateMesh(0, 3, 12, 36, 3)
	nettest.ExpectInequality(t, h, uint32(0))
}

func TestPlaySoundThenMusicPlayDispatchesOnTrackerBit(t *testing.T) {
	r, inst := newRegistry(256)

	raw := make([]byte, 4)
	binary.LittleEndian.PutUint32(raw[0:], math.Float32bits(1.0))
	_ = inst.WriteAt(0, raw)
	soundHandle := r.CreateSound(0, 1, 48000, 1)
	nettest.ExpectInequality(t, soundHandle, uint32(0))

	ch := r.PlaySound(soundHandle, 2.0, 0, false)
	nettest.ExpectInequality(t, ch, -1)
	nettest.ExpectEquality(t, inst.Audio.Channels[ch].Volume, float32(1.0)) // clamped from 2.0

	// tracker module with zero order/pattern/instrument counts is a
	// degenerate but structurally valid module for this test.
	header := make([]byte, 24)
	_ = inst.WriteAt(64, header)
	modHandle := r.CreateTracker(64, len(header))
	nettest.ExpectInequality(t, modHandle, uint32(0))
	nettest.ExpectEquality(t, resources.IsTracker(modHandle), true)

	r.MusicPlay(modHandle, 0.5, true)
	nettest.ExpectEquality(t, inst.Audio.Channels[0].Playing, false)
	nettest.ExpectEquality(t, inst.Audio.Tracker.Playing, true)
	nettest.ExpectEquality(t, inst.Audio.Tracker.Looping, true)
	nettest.ExpectEquality(t, inst.Audio.Tracker.Volume, uint16(0.5*audio.TrackerVolumeMax))
	nettest.ExpectEquality(t, inst.Audio.MasterVolume, float32(1.0)) // unaffected by tracker volume
}

func TestDebugVariableClampsToBounds(t *testing.T) {
	r, _ := newRegistry(64)
	r.RegisterDebugVariable("speed", 1.0, 0.0, 2.0)
	ok := r.SetDebugVariable("speed", 5.0)
	nettest.ExpectEquality(t, ok, true)
	v, _ := r.DebugVariable("speed")
	nettest.ExpectEquality(t, v, 2.0)
}

func TestDrawMeshDeduplicatesShadingState(t *testing.T) {
	r, inst := newRegistry(256)
	_ = inst.WriteAt(0, make([]byte, 3*12))
	idx := make([]byte, 3*4)
	_ = inst.WriteAt(36, idx)
	mesh := r.CreateMesh(0, 3, 12, 36, 3)

	state := guest.ShadingState{TextureHandle: 7}
	r.DrawMesh(mesh, state, [16]float32{})
	r.DrawMesh(mesh, state, [16]float32{})

	nettest.ExpectEquality(t, len(inst.Staging.Commands), 2)
	nettest.ExpectEquality(t, inst.Staging.Commands[0].ShadingIndex, inst.Staging.Commands[1].ShadingIndex)
	nettest.ExpectEquality(t, len(inst.Staging.ShadingCache), 1)
}
