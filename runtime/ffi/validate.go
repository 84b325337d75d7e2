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

import "github.com/nethercore/nethercore/runtime/resources"

// validRange reports whether [offset, offset+length) lies inside a
// memory region of size memLen (spec.md §4.2 "checks destination and
// source ranges against the current memory length").
func validRange(offset, length, memLen int) bool {
	return offset >= 0 && length >= 0 && offset+length <= memLen
}

// validCount reports whether n is positive and, if multipleOf > 0, a
// multiple of it (spec.md §4.2 "vertex_count > 0, index_count multiple
// of 3").
func validCount(n, multipleOf int) bool {
	if n <= 0 {
		return false
	}
	if multipleOf > 0 && n%multipleOf != 0 {
		return false
	}
	return true
}

// validFormat reports whether format is one of the enumerated texture
// formats.
func validFormat(format uint32) bool {
	return resources.ValidTextureFormat(resources.TextureFormat(format))
}

// checkInit reports whether the instance is still inside its one-time
// resource-creation window, denying and logging if not (spec.md §4.2
// "Init-only guard").
func (r *Registry[I]) checkInit(tag string) bool {
	if r.Instance.InInit() {
		return true
	}
	r.deny(tag, "resource creation attempted outside init")
	return false
}
