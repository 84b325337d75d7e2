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

import (
	"encoding/binary"
	"math"

	"github.com/nethercore/nethercore/runtime/guest"
	"github.com/nethercore/nethercore/runtime/input"
)

// meshgenVertexFloats is the per-vertex float count a procedural mesh
// generator emits: position(3) + normal(3) + uv(2) + tangent(4), the
// tangent-space layout original_source's primitives_tangent.rs builds for
// normal-mapped shading.
const meshgenVertexFloats = 12
const meshgenVertexStride = meshgenVertexFloats * 4

// RegisterProceduralMeshFunctions installs the box/plane parametric mesh
// builders as console FFI extensions, grounded on original_source's
// nethercore-zx/src/ffi/mesh_generators.rs, uv_shapes.rs and
// primitives_tangent.rs. Unlike create_mesh, these build their vertex/index
// buffers host-side from a handful of scalar parameters instead of reading
// a raw upload out of guest memory; they are still init-only resource
// creation calls, identical to create_mesh in every other respect
// (handle allocation, pending-upload bookkeeping).
func RegisterProceduralMeshFunctions[I input.ConsoleInput](reg *Registry[I]) {
	reg.Register("mesh_box", func(reg *Registry[I], args []uint64) uint64 {
		if !reg.checkInit("mesh_box") {
			return 0
		}
		if len(args) < 3 {
			reg.deny("mesh_box", "mesh_box requires 3 arguments, got %d", len(args))
			return 0
		}
		w := math.Float32frombits(uint32(args[0]))
		h := math.Float32frombits(uint32(args[1]))
		d := math.Float32frombits(uint32(args[2]))
		if w <= 0 || h <= 0 || d <= 0 {
			reg.deny("mesh_box", "invalid box dimensions %v x %v x %v", w, h, d)
			return 0
		}
		verts, indices := buildBox(w, h, d)
		return reg.installProceduralMesh(verts, indices)
	})

	reg.Register("mesh_plane", func(reg *Registry[I], args []uint64) uint64 {
		if !reg.checkInit("mesh_plane") {
			return 0
		}
		if len(args) < 4 {
			reg.deny("mesh_plane", "mesh_plane requires 4 arguments, got %d", len(args))
			return 0
		}
		w := math.Float32frombits(uint32(args[0]))
		d := math.Float32frombits(uint32(args[1]))
		segsX := int(args[2])
		segsZ := int(args[3])
		if w <= 0 || d <= 0 || segsX < 1 || segsZ < 1 {
			reg.deny("mesh_plane", "invalid plane parameters %v x %v, %d x %d segments", w, d, segsX, segsZ)
			return 0
		}
		verts, indices := buildPlane(w, d, segsX, segsZ)
		return reg.installProceduralMesh(verts, indices)
	})
}

// installProceduralMesh allocates a handle and records verts/indices the
// same way create_mesh does for an uploaded mesh, so the ResourceManager's
// flush path never needs to distinguish a generated mesh from an uploaded
// one.
func (r *Registry[I]) installProceduralMesh(verts []byte, indices []uint32) uint64 {
	vertexCount := len(verts) / meshgenVertexStride
	handle := r.Tables.Handles.Allocate()
	r.Tables.Meshes.Set(handle, newMesh(vertexCount, len(indices), verts, indices))
	r.Instance.Staging.Uploads = append(r.Instance.Staging.Uploads, guest.PendingUpload{
		Kind: guest.UploadMesh, Handle: handle, Raw: verts,
	})
	return uint64(handle)
}

type meshgenVertex struct {
	px, py, pz float32
	nx, ny, nz float32
	u, v       float32
	tx, ty, tz, tw float32
}

func appendVertex(buf []byte, vert meshgenVertex) []byte {
	var f [meshgenVertexFloats]float32
	f[0], f[1], f[2] = vert.px, vert.py, vert.pz
	f[3], f[4], f[5] = vert.nx, vert.ny, vert.nz
	f[6], f[7] = vert.u, vert.v
	f[8], f[9], f[10], f[11] = vert.tx, vert.ty, vert.tz, vert.tw
	for _, v := range f {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		buf = append(buf, b[:]...)
	}
	return buf
}

// buildBox generates a 24-vertex, 36-index tangent-space box centred on
// the origin, one quad per face so UVs and normals stay per-face flat
// (matches uv_shapes.rs's box unwrap, not a smoothed cube).
func buildBox(w, h, d float32) ([]byte, []uint32) {
	hx, hy, hz := w/2, h/2, d/2

	type face struct {
		normal  [3]float32
		tangent [3]float32
		corners [4][3]float32
	}
	faces := []face{
		{[3]float32{0, 0, 1}, [3]float32{1, 0, 0}, [4][3]float32{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{[3]float32{0, 0, -1}, [3]float32{-1, 0, 0}, [4][3]float32{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
		{[3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [4][3]float32{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{[3]float32{0, -1, 0}, [3]float32{1, 0, 0}, [4][3]float32{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
		{[3]float32{1, 0, 0}, [3]float32{0, 0, -1}, [4][3]float32{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{[3]float32{-1, 0, 0}, [3]float32{0, 0, 1}, [4][3]float32{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
	}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	var buf []byte
	var indices []uint32
	for _, f := range faces {
		base := uint32(len(indices) / 6 * 4)
		for i, c := range f.corners {
			buf = appendVertex(buf, meshgenVertex{
				px: c[0], py: c[1], pz: c[2],
				nx: f.normal[0], ny: f.normal[1], nz: f.normal[2],
				u: uvs[i][0], v: uvs[i][1],
				tx: f.tangent[0], ty: f.tangent[1], tz: f.tangent[2], tw: 1,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return buf, indices
}

// buildPlane generates a segsX x segsZ grid of quads in the XZ plane,
// facing +Y, centred on the origin.
func buildPlane(w, d float32, segsX, segsZ int) ([]byte, []uint32) {
	var buf []byte
	var indices []uint32
	for z := 0; z <= segsZ; z++ {
		for x := 0; x <= segsX; x++ {
			px := (float32(x)/float32(segsX) - 0.5) * w
			pz := (float32(z)/float32(segsZ) - 0.5) * d
			u := float32(x) / float32(segsX)
			v := float32(z) / float32(segsZ)
			buf = appendVertex(buf, meshgenVertex{
				px: px, py: 0, pz: pz,
				nx: 0, ny: 1, nz: 0,
				u: u, v: v,
				tx: 1, ty: 0, tz: 0, tw: 1,
			})
		}
	}
	rowStride := segsX + 1
	for z := 0; z < segsZ; z++ {
		for x := 0; x < segsX; x++ {
			i0 := uint32(z*rowStride + x)
			i1 := i0 + 1
			i2 := uint32((z+1)*rowStride + x)
			i3 := i2 + 1
			indices = append(indices, i0, i2, i1, i1, i2, i3)
		}
	}
	return buf, indices
}
