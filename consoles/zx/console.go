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

package zx

import (
	"github.com/nethercore/nethercore/runtime/console"
	"github.com/nethercore/nethercore/runtime/ffi"
	"github.com/nethercore/nethercore/runtime/input"
	"github.com/nethercore/nethercore/runtime/resources"
)

// Specs is the static description of this console, grounded on
// original_source's Z_SPECS (emberware-z/src/console.rs): four selectable
// resolutions, tick rates of 24/30/60/120 (default 60), a 16MB RAM limit,
// 8MB VRAM budget, 32MB ROM budget, up to four players and four save
// slots (saves.Store's own slotCount).
var Specs = console.ConsoleSpecs{
	Name: "Nethercore ZX",
	Resolutions: []console.Resolution{
		{Width: 640, Height: 360},
		{Width: 960, Height: 540},
		{Width: 1280, Height: 720},
		{Width: 1920, Height: 1080},
	},
	TickRates:    []int{60, 24, 30, 120},
	RAMLimit:     16 << 20,
	VRAMLimit:    8 << 20,
	ROMLimit:     32 << 20,
	MaxPlayers:   4,
	MaxSaveSlots: 4,
}

// GraphicsFactory and AudioFactory construct the platform-specific
// collaborators a ZX console drives. Window/device selection is the
// platform's concern (spec.md Non-goals exclude windowing), so ZX takes
// these as constructor functions rather than reaching into a concrete
// platform package itself.
type GraphicsFactory func() (console.Graphics, error)
type AudioFactory func() (console.Audio, error)

// ZX is the reference fantasy console: a dual-analog 14-button pad, a 3D
// EPU-style renderer surface and tracker audio (package doc comment has
// the full grounding). It implements console.Console[Input].
type ZX struct {
	newGraphics GraphicsFactory
	newAudio    AudioFactory
}

// New builds a ZX console that constructs its Graphics/Audio
// collaborators via newGraphics/newAudio when the simulation loop asks
// for them.
func New(newGraphics GraphicsFactory, newAudio AudioFactory) *ZX {
	return &ZX{newGraphics: newGraphics, newAudio: newAudio}
}

// Specs implements console.Console[Input].
func (z *ZX) Specs() console.ConsoleSpecs { return Specs }

// NewGraphics implements console.Console[Input].
func (z *ZX) NewGraphics() (console.Graphics, error) { return z.newGraphics() }

// NewAudio implements console.Console[Input].
func (z *ZX) NewAudio() (console.Audio, error) { return z.newAudio() }

// MapInput implements console.Console[Input].
func (z *ZX) MapInput(raw input.RawInput) Input { return mapInput(raw) }

// NewInput implements console.Console[Input].
func (z *ZX) NewInput() Input { return Input{} }

// RegisterFFI implements console.Console[Input], installing the
// procedural mesh generators and the EPU preset debug surface.
func (z *ZX) RegisterFFI(reg *ffi.Registry[Input]) {
	ffi.RegisterProceduralMeshFunctions[Input](reg)
	registerEPUPresets(reg)
}

// The clearColor*Shift constants pack four [0,1] float components into a
// uint32 as RGBA8, matching resources.FormatRGBA8's byte order.
const (
	clearColorRShift = 24
	clearColorGShift = 16
	clearColorBShift = 8
	clearColorAShift = 0
)

// PackClearColor implements console.Console[Input].
func (z *ZX) PackClearColor(r, g, b, a float32) uint32 {
	return uint32(clampChannel(r))<<clearColorRShift |
		uint32(clampChannel(g))<<clearColorGShift |
		uint32(clampChannel(b))<<clearColorBShift |
		uint32(clampChannel(a))<<clearColorAShift
}

// UnpackClearColor implements console.Console[Input].
func (z *ZX) UnpackClearColor(packed uint32) (r, g, b, a float32) {
	r = float32(byte(packed>>clearColorRShift)) / 255.0
	g = float32(byte(packed>>clearColorGShift)) / 255.0
	b = float32(byte(packed>>clearColorBShift)) / 255.0
	a = float32(byte(packed>>clearColorAShift)) / 255.0
	return
}

func clampChannel(v float32) byte {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return byte(v * 255.0)
}

// ReplayInputLayout implements console.Console[Input].
func (z *ZX) ReplayInputLayout() []input.ReplayField { return replayLayout }

// NewResourceManager implements console.Console[Input].
func (z *ZX) NewResourceManager(tables *resources.Tables) console.ResourceManager {
	return newResourceManager(tables)
}
