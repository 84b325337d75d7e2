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

// CreateTexture validates and records a texture upload, returning its
// handle or 0 on failure. data is read from guest memory at
// [dataOffset, dataOffset+width*height*bytesPerPixel(format)).
func (r *Registry[I]) CreateTexture(width, height int, format uint32, dataOffset int) uint32 {
	if !r.checkInit("create_texture") {
		return 0
	}
	if width <= 0 || height <= 0 {
		r.deny("create_texture", "invalid dimensions %dx%d", width, height)
		return 0
	}
	if !validFormat(format) {
		r.deny("create_texture", "unrecognised format %d", format)
		return 0
	}
	bpp := bytesPerPixel(format)
	length := width * height * bpp
	if !validRange(dataOffset, length, r.Instance.Len()) {
		r.deny("create_texture", "pixel data [%d,%d) exceeds memory", dataOffset, dataOffset+length)
		return 0
	}
	pixels, err := r.Instance.ReadAt(dataOffset, length)
	if err != nil {
		r.deny("create_texture", "%v", err)
		return 0
	}

	handle := r.Tables.Handles.Allocate()
	r.Tables.Textures.Set(handle, newTexture(width, height, format, pixels))
	r.Instance.Staging.Uploads = append(r.Instance.Staging.Uploads, guest.PendingUpload{
		Kind: guest.UploadTexture, Handle: handle, Raw: pixels,
		Width: width, Height: height, Format: format,
	})
	return handle
}

// CreateMesh validates and records a mesh upload, returning its handle
// or 0 on failure.
func (r *Registry[I]) CreateMesh(vertexOffset, vertexCount, vertexStride, indexOffset, indexCount int) uint32 {
	if !r.checkInit("create_mesh") {
		return 0
	}
	if !validCount(vertexCount, 0) {
		r.deny("create_mesh", "invalid vertex_count %d", vertexCount)
		return 0
	}
	if !validCount(indexCount, 3) {
		r.deny("create_mesh", "index_count %d not a multiple of 3", indexCount)
		return 0
	}
	vlen := vertexCount * vertexStride
	if !validRange(vertexOffset, vlen, r.Instance.Len()) {
		r.deny("create_mesh", "vertex data exceeds memory")
		return 0
	}
	ilen := indexCount * 4
	if !validRange(indexOffset, ilen, r.Instance.Len()) {
		r.deny("create_mesh", "index data exceeds memory")
		return 0
	}
	verts, err := r.Instance.ReadAt(vertexOffset, vlen)
	if err != nil {
		r.deny("create_mesh", "%v", err)
		return 0
	}
	idxRaw, err := r.Instance.ReadAt(indexOffset, ilen)
	if err != nil {
		r.deny("create_mesh", "%v", err)
		return 0
	}
	indices := decodeUint32LE(idxRaw)

	handle := r.Tables.Handles.Allocate()
	r.Tables.Meshes.Set(handle, newMesh(vertexCount, indexCount, verts, indices))
	r.Instance.Staging.Uploads = append(r.Instance.Staging.Uploads, guest.PendingUpload{
		Kind: guest.UploadMesh, Handle: handle, Raw: verts,
	})
	return handle
}

// CreateSound validates and records a PCM sound upload, returning its
// handle or 0 on failure. Sound handles share the plain (non-tracker)
// namespace (spec.md §4.2 "Unified audio handles").
func (r *Registry[I]) CreateSound(dataOffset, sampleCount, sampleRate, channels int) uint32 {
	if !r.checkInit("create_sound") {
		return 0
	}
	if !validCount(sampleCount, 0) {
		r.deny("create_sound", "invalid sample_count %d", sampleCount)
		return 0
	}
	if channels != 1 && channels != 2 {
		r.deny("create_sound", "invalid channel count %d", channels)
		return 0
	}
	length := sampleCount * channels * 4
	if !validRange(dataOffset, length, r.Instance.Len()) {
		r.deny("create_sound", "sample data exceeds memory")
		return 0
	}
	raw, err := r.Instance.ReadAt(dataOffset, length)
	if err != nil {
		r.deny("create_sound", "%v", err)
		return 0
	}
	samples := decodeFloat32LE(raw)

	handle := r.Tables.Handles.Allocate()
	r.Tables.Sounds.Set(handle, newSound(samples, sampleRate, channels))
	r.Instance.Staging.Uploads = append(r.Instance.Staging.Uploads, guest.PendingUpload{
		Kind: guest.UploadSound, Handle: handle, Raw: raw,
		SampleRate: sampleRate, Channels: channels,
	})
	return handle
}

// CreateTracker validates and parses a tracker module upload, returning
// a handle with the tracker bit set (spec.md §4.2, §13.2).
func (r *Registry[I]) CreateTracker(dataOffset, dataLen int) uint32 {
	if !r.checkInit("create_tracker") {
		return 0
	}
	if !validRange(dataOffset, dataLen, r.Instance.Len()) {
		r.deny("create_tracker", "module data exceeds memory")
		return 0
	}
	raw, err := r.Instance.ReadAt(dataOffset, dataLen)
	if err != nil {
		r.deny("create_tracker", "%v", err)
		return 0
	}
	mod, err := decodeTrackerModule(raw)
	if err != nil {
		r.deny("create_tracker", "%v", err)
		return 0
	}

	handle := r.Tables.Handles.AllocateTracker()
	r.Tables.Trackers.Set(handle, mod)
	r.Instance.Staging.Uploads = append(r.Instance.Staging.Uploads, guest.PendingUpload{
		Kind: guest.UploadTracker, Handle: handle, Raw: raw,
	})
	return handle
}

func bytesPerPixel(format uint32) int {
	switch format {
	case 2: // FormatR8
		return 1
	case 1: // FormatRGB8
		return 3
	case 3: // FormatRGBA16F
		return 8
	default: // FormatRGBA8
		return 4
	}
}
