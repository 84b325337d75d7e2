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

package resources

// Table is a handle-keyed map of one resource kind. Entries whose handle
// is listed in builtin are never removed by Clear, matching spec.md §3's
// "Built-in fallback handles (checkerboard, white, font) are never
// cleared."
type Table[V any] struct {
	entries map[uint32]V
	builtin map[uint32]bool
}

// NewTable creates an empty resource table.
func NewTable[V any]() *Table[V] {
	return &Table[V]{
		entries: make(map[uint32]V),
		builtin: make(map[uint32]bool),
	}
}

// Set installs the value for handle, overwriting any existing entry.
// Resources are immutable post-creation per spec.md §3, so callers must
// only do this once per handle; Set itself does not enforce that, the FFI
// init-only guard does.
func (t *Table[V]) Set(handle uint32, value V) {
	t.entries[handle] = value
}

// SetBuiltin installs a value and marks it as a built-in fallback that
// Clear must not remove.
func (t *Table[V]) SetBuiltin(handle uint32, value V) {
	t.Set(handle, value)
	t.builtin[handle] = true
}

// Get looks up handle. ok is false for handle zero (the sentinel) or any
// handle never created.
func (t *Table[V]) Get(handle uint32) (V, bool) {
	if handle == 0 {
		var zero V
		return zero, false
	}
	v, ok := t.entries[handle]
	return v, ok
}

// Len returns the number of entries, including built-ins.
func (t *Table[V]) Len() int {
	return len(t.entries)
}

// Clear removes every non-built-in entry, implementing the "clear-on-init"
// discipline that wipes a prior game's residual resources while
// preserving built-in fallbacks (spec.md §3).
func (t *Table[V]) Clear() {
	for handle := range t.entries {
		if !t.builtin[handle] {
			delete(t.entries, handle)
		}
	}
}
