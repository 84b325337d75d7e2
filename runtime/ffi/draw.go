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

// DrawMesh records a draw command against meshHandle under the given
// shading state, deduplicating the shading state against this frame's
// cache (spec.md §4.2 "Command recording"). It never touches a Graphics
// collaborator directly.
func (r *Registry[I]) DrawMesh(meshHandle uint32, shading guest.ShadingState, transform [16]float32) {
	if _, ok := r.Tables.Meshes.Get(meshHandle); !ok {
		r.deny("draw_mesh", "unknown mesh handle %d", meshHandle)
		return
	}
	idx := r.Instance.Staging.InternShading(shading)
	r.Instance.Staging.Commands = append(r.Instance.Staging.Commands, guest.DrawCommand{
		MeshHandle:   meshHandle,
		ShadingIndex: idx,
		Transform:    transform,
	})
}

// SetBoneMatrices appends this frame's bone matrices, returning the
// first index assigned so a subsequent DrawMesh-equivalent call can
// reference [BoneFirst, BoneFirst+len(matrices)) in its DrawCommand.
func (r *Registry[I]) SetBoneMatrices(matrices [][16]float32) int {
	first := len(r.Instance.Staging.BoneMatrices)
	r.Instance.Staging.BoneMatrices = append(r.Instance.Staging.BoneMatrices, matrices...)
	return first
}
