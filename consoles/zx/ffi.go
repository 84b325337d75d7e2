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

import "github.com/nethercore/nethercore/runtime/ffi"

// epuPresetNames names the environment-procedural-unit presets this
// console cycles through for its debug overlay, a representative subset
// of original_source's examples/3-inspectors/epu-showcase preset table.
// The showcase's presets are themselves layered OP_RAMP/OP_APERTURE/...
// encodings consumed by a concrete EPU shader pipeline; that pipeline is
// out of scope here (spec.md's "concrete GPU pipeline construction is
// delegated" applies to presets the same as to any other render state),
// so this console exposes presets only as the named, debug-inspectable
// index the showcase's own UI cycles with an action button.
var epuPresetNames = []string{
	"gothic_cathedral",
	"ocean_depths",
	"void_station",
	"desert_mirage",
	"neon_arcade",
	"storm_front",
}

// epuPresetIndexVar names the debug variable the overlay edits directly (as a
// float, clamped to the preset table's bounds) or the "epu_next_preset"
// action advances by one, wrapping.
const epuPresetIndexVar = "epu_preset_index"

// registerEPUPresets wires the EPU preset-cycling debug surface
// (spec.md §4.2 debug_register_*/on_debug_change, supplemented per
// SPEC_FULL.md from epu-showcase's preset picker) into reg.
func registerEPUPresets(reg *ffi.Registry[Input]) {
	reg.RegisterDebugVariable(epuPresetIndexVar, 0, 0, float64(len(epuPresetNames)-1))
}

// EPUPresetName returns the currently selected preset's name, for a
// console-specific Program to read back during on_debug_change or
// render.
func EPUPresetName(reg *ffi.Registry[Input]) string {
	v, ok := reg.DebugVariable(epuPresetIndexVar)
	if !ok {
		return epuPresetNames[0]
	}
	i := int(v)
	if i < 0 || i >= len(epuPresetNames) {
		return epuPresetNames[0]
	}
	return epuPresetNames[i]
}

// AdvanceEPUPreset moves the preset index forward by one, wrapping, for
// the "epu_next_preset" action a Program's CallAction handler dispatches
// to.
func AdvanceEPUPreset(reg *ffi.Registry[Input]) {
	v, _ := reg.DebugVariable(epuPresetIndexVar)
	next := float64((int(v) + 1) % len(epuPresetNames))
	reg.SetDebugVariable(epuPresetIndexVar, next)
}
