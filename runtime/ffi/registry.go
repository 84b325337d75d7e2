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

// Package ffi implements the typed host-function surface a guest invokes
// (spec.md §4.2). Every function validates its arguments against guest
// memory, the resource tables and the handle namespace, then either
// records into the per-frame FFI staging state, mutates the audio
// RollbackState, or returns a handle. It never performs graphics or
// audio I/O directly — that is the ResourceManager's job, once per load.
//
// Grounded on hardware/memory bus's bounds-checked peek/poke (generalised
// here from "a 6502 address bus" to "a validated call surface") and
// debugger/dbgmem's read/write-with-diagnostic pattern.
package ffi

import (
	"math"

	"github.com/nethercore/nethercore/diagnostics"
	"github.com/nethercore/nethercore/runtime/audio"
	"github.com/nethercore/nethercore/runtime/guest"
	"github.com/nethercore/nethercore/runtime/input"
	"github.com/nethercore/nethercore/runtime/resources"
)

// HostFunc is a console-registered extension function (procedural mesh
// generators, console-specific bindings). args/ret mirror the flat
// integer ABI a guest module call uses; a function that needs floats or
// memory offsets reinterprets them via math.Float32frombits or treats
// them as byte offsets into guest memory, exactly like the built-ins do.
type HostFunc[I input.ConsoleInput] func(reg *Registry[I], args []uint64) uint64

// Registry binds the built-in FFI surface plus any console-registered
// extensions to one guest instance and its resource tables. One Registry
// exists per loaded game.
type Registry[I input.ConsoleInput] struct {
	Instance *guest.Instance[I]
	Tables   *resources.Tables
	Diag     *diagnostics.Log
	Engine   *audio.Engine

	custom map[string]HostFunc[I]
}

// NewRegistry builds a Registry bound to instance, tables and the audio
// engine that mixes against the instance's RollbackState. diag may be
// nil, in which case validation failures are silently dropped rather than
// recorded (tests commonly do this).
func NewRegistry[I input.ConsoleInput](instance *guest.Instance[I], tables *resources.Tables, engine *audio.Engine, diag *diagnostics.Log) *Registry[I] {
	return &Registry[I]{
		Instance: instance,
		Tables:   tables,
		Engine:   engine,
		Diag:     diag,
		custom:   make(map[string]HostFunc[I]),
	}
}

// Register installs a console-specific extension function under name,
// called once by Console.RegisterFFI before the guest is loaded.
func (r *Registry[I]) Register(name string, fn HostFunc[I]) {
	r.custom[name] = fn
}

// Call dispatches a console-registered extension by name. It returns
// (0, false) if name was never registered; the built-in functions are
// called directly as Registry methods, not through this path.
func (r *Registry[I]) Call(name string, args []uint64) (uint64, bool) {
	fn, ok := r.custom[name]
	if !ok {
		return 0, false
	}
	return fn(r, args), true
}

// deny records a rejected call as an in-band failure: a diagnostic entry
// and a zero/empty return, never a trap (spec.md §4.2 "Failed validation
// ... does not trap").
func (r *Registry[I]) deny(tag, format string, args ...interface{}) {
	if r.Diag != nil {
		r.Diag.Logf(diagnostics.Deny, tag, format, args...)
	}
}

// allow records an informational diagnostic for a call that was serviced
// but clamped or otherwise adjusted.
func (r *Registry[I]) allow(tag, format string, args ...interface{}) {
	if r.Diag != nil {
		r.Diag.Logf(diagnostics.Allow, tag, format, args...)
	}
}

// clampVolume clamps v to [0,1], mapping NaN to the minimum, per spec.md
// §4.2 "Policy: volume is clamped to [0,1]; NaN inputs clamp to the
// minimum."
func clampVolume(v float32) float32 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
