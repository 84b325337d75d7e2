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

// Package console defines the minimal capability-bundle contracts the
// simulation loop, FFI registry and rollback session are written against
// (spec.md §4.6). Following the teacher's emulation.Emulation/TV/VCS
// pattern of small interfaces kept deliberately free of their concrete
// implementation's dependencies, every contract here is a handful of
// methods wide; a concrete console realises them however it likes (static
// struct, code generation, whatever) and plugs into the same loop
// unchanged.
package console

import (
	"github.com/nethercore/nethercore/runtime/ffi"
	"github.com/nethercore/nethercore/runtime/guest"
	"github.com/nethercore/nethercore/runtime/input"
	"github.com/nethercore/nethercore/runtime/resources"
)

// Resolution is one display mode a console supports.
type Resolution struct {
	Width, Height int
}

// ConsoleSpecs is the static, read-only description of a console's limits
// and capabilities (spec.md §4.6).
type ConsoleSpecs struct {
	Name string

	Resolutions []Resolution
	TickRates   []int // Hz; first entry is the default

	RAMLimit  int // bytes; guest linear memory cap
	VRAMLimit int // bytes; advisory budget enforced by the Graphics collaborator
	ROMLimit  int // bytes; advisory budget enforced by the cartridge loader

	MaxPlayers int // <= 4, per spec.md Data Model
	MaxSaveSlots int
}

// DefaultTickRate returns the console's primary simulation rate.
func (s ConsoleSpecs) DefaultTickRate() int {
	if len(s.TickRates) == 0 {
		return 60
	}
	return s.TickRates[0]
}

// Console is the capability bundle a concrete fantasy console implements,
// parametric over its own bit-exact input type I (spec.md §9 static-generic
// realisation of "parametric over Console"). The core (guest instance, FFI
// registry, rollback session, simulation loop) depends only on this
// interface, never on a concrete console type.
type Console[I input.ConsoleInput] interface {
	// Specs returns the console's static limits.
	Specs() ConsoleSpecs

	// NewGraphics and NewAudio construct this console's concrete
	// collaborators. How they are constructed (window handles, device
	// selection, etc.) is entirely the console's concern.
	NewGraphics() (Graphics, error)
	NewAudio() (Audio, error)

	// MapInput converts a platform RawInput into this console's bit-exact
	// ConsoleInput. The conversion itself must be deterministic.
	MapInput(raw input.RawInput) I

	// NewInput returns a zero-valued ConsoleInput, used by the rollback
	// session as the default/neutral prediction before any real input has
	// arrived for a slot.
	NewInput() I

	// RegisterFFI installs this console's FFI functions (including any
	// procedural mesh generators, tracker bindings, etc.) into the
	// registry. Called once, before the guest is loaded.
	RegisterFFI(reg *ffi.Registry[I])

	// PackClearColor and UnpackClearColor translate between the guest's
	// packed clear-color representation and the four float components a
	// Graphics collaborator expects.
	PackClearColor(r, g, b, a float32) uint32
	UnpackClearColor(packed uint32) (r, g, b, a float32)

	// ReplayInputLayout describes this console's ConsoleInput for the
	// replay/script system: field name, byte offset, byte width. Out of
	// core scope to interpret further (replay script compilation is a
	// Non-goal) but the core must be able to ask a console for it.
	ReplayInputLayout() []input.ReplayField

	// NewResourceManager returns the collaborator that knows how to turn
	// this console's render command stream and pending-upload records into
	// calls on a Graphics/Audio collaborator. tables is the same resource
	// table set the FFI registry and audio engine were built against, so
	// decoded sound/tracker uploads land where the audio engine's mixer
	// looks them up by handle.
	NewResourceManager(tables *resources.Tables) ResourceManager
}

// Graphics is the rendering collaborator. Concrete GPU pipeline
// construction (shaders, buffers, bind groups) is entirely its concern;
// the core only ever asks it to resize, bracket a frame, optionally supply
// skinning matrices, and execute a command stream via ResourceManager.
type Graphics interface {
	Resize(width, height int) error
	BeginFrame() error
	EndFrame() error

	// SetBones is optional; consoles without skeletal animation may leave
	// it a no-op. Matrices are column-major 4x4, flattened.
	SetBones(matrices [][16]float32)
}

// Audio is the output collaborator. The engine/mixer in runtime/audio
// writes samples here; the loop calls the handle-oriented methods only for
// collaborator-owned playback state (e.g. ducking a hardware mixer bus),
// never for gameplay-relevant state, which always lives in rollback state.
type Audio interface {
	Play(handle uint32, volume float32, looping bool)
	Stop(handle uint32)
	SetMasterVolume(volume float32)
	SampleRate() int
	PushSamples(samples []float32) error
}

// ResourceManager translates a console's render command stream and pending
// resource uploads into calls on a Graphics/Audio collaborator. It is the
// only code that is allowed to understand both the FFI's recorded command
// shapes and a concrete Graphics/Audio implementation.
type ResourceManager interface {
	FlushPendingUploads(uploads []guest.PendingUpload, gfx Graphics, aud Audio) error
	ExecuteCommands(commands []guest.DrawCommand, shading []guest.ShadingState, gfx Graphics) error
}
