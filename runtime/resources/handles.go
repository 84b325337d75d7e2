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

// Package resources implements the host-owned, handle-keyed resource
// tables (spec.md §3 Resource Tables): textures, meshes, sounds, fonts and
// tracker modules. Handles are opaque, monotonically allocated uint32
// values; zero is the in-band "none" sentinel and is never issued.
//
// Grounded on the teacher's database package (map-keyed entries behind a
// small allocator/session type) generalised from a string-keyed CSV entry
// store to a uint32-keyed binary resource store.
package resources

import "sync"

// TrackerBit, when set in a handle, marks it as a tracker handle rather
// than a sound handle (spec.md §4.2 unified audio handles, §8 property 6).
const TrackerBit = uint32(0x8000_0000)

// IsTracker reports whether handle belongs to the tracker namespace.
func IsTracker(handle uint32) bool {
	return handle&TrackerBit != 0
}

// Handles is the single monotonic allocator shared by every resource
// table, so that a sound handle and a tracker handle can never collide
// bit-for-bit even when "the same" counter value underlies both (spec.md
// §13.2).
type Handles struct {
	mu   sync.Mutex
	next uint32
}

// NewHandles creates an allocator. The first allocated handle is 1; 0 is
// reserved as the sentinel meaning "none" throughout the resource tables.
func NewHandles() *Handles {
	return &Handles{next: 1}
}

// Allocate returns the next plain (non-tracker) handle.
func (h *Handles) Allocate() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	v := h.next
	h.next++
	return v
}

// AllocateTracker returns the next handle with the tracker bit set.
func (h *Handles) AllocateTracker() uint32 {
	return h.Allocate() | TrackerBit
}

// Reset rewinds the allocator back to its initial state. Used only when a
// game is unloaded and a new one is about to be loaded (the "clear-on-init"
// discipline in spec.md §3); never called mid-game, since resource
// identity must stay stable across rollback snapshots.
func (h *Handles) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next = 1
}
