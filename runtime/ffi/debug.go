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

import "github.com/nethercore/nethercore/runtime/guest"

// RegisterDebugVariable associates name with an inspector entry the
// reference debug overlay displays, defaulting to value (spec.md §4.2
// "Debug variables", supplemented per spec.md §12 from original_source's
// debug inspector presets). Re-registering an existing name overwrites
// its bounds but keeps its current value.
func (r *Registry[I]) RegisterDebugVariable(name string, value, min, max float64) {
	if existing, ok := r.Instance.Staging.DebugVars[name]; ok {
		existing.Min, existing.Max = min, max
		return
	}
	r.Instance.Staging.DebugVars[name] = &guest.DebugVariable{Name: name, Value: value, Min: min, Max: max}
}

// SetDebugVariable is called by the debug overlay when the user edits a
// registered variable's value; the guest's optional on_debug_change
// export is invoked by the caller (the simulation loop) afterward, since
// only it knows how to call into the guest module.
func (r *Registry[I]) SetDebugVariable(name string, value float64) bool {
	v, ok := r.Instance.Staging.DebugVars[name]
	if !ok {
		r.deny("debug_set", "unknown debug variable %q", name)
		return false
	}
	if value < v.Min {
		value = v.Min
	}
	if value > v.Max {
		value = v.Max
	}
	v.Value = value
	return true
}

// DebugVariable returns the current value of a registered debug
// variable and whether it exists.
func (r *Registry[I]) DebugVariable(name string) (float64, bool) {
	v, ok := r.Instance.Staging.DebugVars[name]
	if !ok {
		return 0, false
	}
	return v.Value, true
}
