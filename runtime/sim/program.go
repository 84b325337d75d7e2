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

// Package sim implements the fixed-timestep simulation loop that couples
// the guest instance, the FFI registry, the audio engine and the
// rollback session into one driver (spec.md §4.5).
//
// Grounded on the teacher's top-level gopher2600.go Run loop (monotonic
// next-tick timestamp, catch-up ticks, returning a tick count to the
// caller) and hardware/input/input.go's NewFrame trigger idiom,
// generalised from "one console, one local player" to "N consoles'
// guest programs driven identically behind a Console capability bundle".
package sim

import (
	"github.com/nethercore/nethercore/runtime/ffi"
	"github.com/nethercore/nethercore/runtime/input"
)

// ActionArg is one typed argument to a guest CallAction invocation
// (spec.md §4.1 "call_action(name, args) ... typed arguments (i32, f32)").
type ActionArg struct {
	I32     int32
	F32     float32
	IsFloat bool
}

// Program is the loaded guest game's entry-point contract (spec.md §4.1
// "expose a compact API to the simulation loop"). The sandbox, memory
// and state record those entry points operate against belong to
// guest.Instance; Program is the executable behaviour layered on top of
// it — in the reference WASM realisation, a module's exported functions,
// invoked through reg so every host call routes through the FFI
// registry's validation. Nothing in the retrieved pack vendors a Go WASM
// engine, so this is named as the collaborator contract spec.md treats
// it as (§1's "concrete GPU pipeline construction is delegated" pattern
// applied to the guest runtime), rather than implemented.
type Program[I input.ConsoleInput] interface {
	// Init runs the guest's one-time setup. The registry's Instance must
	// have InInit() true for the duration of this call (spec.md §4.1
	// "init sets in_init = true on entry and clears it on exit").
	Init(reg *ffi.Registry[I]) error

	// HasPostConnect reports whether this program splits init into a
	// pre-handshake and post-handshake phase (spec.md §4.1 two-phase
	// init). Programs that don't need a session handshake return false
	// and PostConnect is never called.
	HasPostConnect() bool

	// PostConnect runs once the session is configured, after which the
	// player-aware subset of FFI becomes meaningful.
	PostConnect(reg *ffi.Registry[I]) error

	// SetInput delivers slot's input for the tick about to be simulated
	// (spec.md §4.1 "set_input(slot, input)"). The loop calls this once
	// per player slot, for every slot the session knows about, before
	// Update.
	SetInput(reg *ffi.Registry[I], slot int, value I) error

	// ConfigureSession tells the guest how many players are seated and
	// which slots are local, ahead of PostConnect (spec.md §4.1
	// "configure_session(player_count, local_mask)").
	ConfigureSession(reg *ffi.Registry[I], playerCount int, localMask uint8) error

	// Update advances game logic by one tick of deltaTime seconds.
	Update(reg *ffi.Registry[I], deltaTime float64) error

	// Render produces this tick's render command stream into the
	// registry's FFI staging area. The loop clears staging immediately
	// before calling this (spec.md §4.5 per-frame sequence).
	Render(reg *ffi.Registry[I]) error

	// CallAction invokes an exported function by name with typed
	// arguments. Errors are non-fatal (spec.md §4.1 "the debug surface
	// reports them without aborting the game").
	CallAction(reg *ffi.Registry[I], name string, args []ActionArg) error

	// OnDebugChange invokes the guest's optional on_debug_change export
	// after a debug overlay edits a registered variable (spec.md §4.2).
	// Programs without that export return nil.
	OnDebugChange(reg *ffi.Registry[I], name string) error
}
