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

package zx_test

import (
	"testing"

	"github.com/nethercore/nethercore/consoles/zx"
	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/runtime/audio"
	"github.com/nethercore/nethercore/runtime/ffi"
	"github.com/nethercore/nethercore/runtime/guest"
	"github.com/nethercore/nethercore/runtime/resources"
)

type noopGraphics struct{}

func (noopGraphics) Resize(width, height int) error { return nil }
func (noopGraphics) BeginFrame() error               { return nil }
func (noopGraphics) EndFrame() error                 { return nil }
func (noopGraphics) SetBones(matrices [][16]float32) {}

type noopAudio struct{}

func (noopAudio) Play(handle uint32, volume float32, looping bool) {}
func (noopAudio) Stop(handle uint32)                               {}
func (noopAudio) SetMasterVolume(volume float32)                   {}
func (noopAudio) SampleRate() int                                  { return 48000 }
func (noopAudio) PushSamples(samples []float32) error              { return nil }

func newReadyRegistry() (*ffi.Registry[zx.Input], *resources.Tables) {
	tables := resources.NewTables()
	inst := guest.NewInstance[zx.Input](1<<16, nil)
	engine := audio.NewEngine(tables, 48000)
	reg := ffi.NewRegistry[zx.Input](inst, tables, engine, nil)
	return reg, tables
}

func TestFlushPendingUploadsAcceptsKnownHandles(t *testing.T) {
	reg, tables := newReadyRegistry()
	handle := reg.CreateTexture(2, 2, uint32(resources.FormatRGBA8), 0)

	console := zx.New(nil, nil)
	rm := console.NewResourceManager(tables)

	err := rm.FlushPendingUploads([]guest.PendingUpload{
		{Kind: guest.UploadTexture, Handle: handle},
	}, noopGraphics{}, noopAudio{})
	nettest.ExpectSuccess(t, err)
}

func TestFlushPendingUploadsRejectsUnknownHandle(t *testing.T) {
	_, tables := newReadyRegistry()
	console := zx.New(nil, nil)
	rm := console.NewResourceManager(tables)

	err := rm.FlushPendingUploads([]guest.PendingUpload{
		{Kind: guest.UploadTexture, Handle: 999},
	}, noopGraphics{}, noopAudio{})
	nettest.ExpectFailure(t, err)
}

func TestExecuteCommandsValidatesMeshAndShadingReferences(t *testing.T) {
	reg, tables := newReadyRegistry()
	meshHandle := reg.CreateMesh(0, 3, 12, 36, 3)

	console := zx.New(nil, nil)
	rm := console.NewResourceManager(tables)

	commands := []guest.DrawCommand{{MeshHandle: meshHandle, ShadingIndex: 0}}
	shading := []guest.ShadingState{{TextureHandle: 0}}

	err := rm.ExecuteCommands(commands, shading, noopGraphics{})
	nettest.ExpectSuccess(t, err)
}

func TestExecuteCommandsRejectsUnknownMesh(t *testing.T) {
	_, tables := newReadyRegistry()
	console := zx.New(nil, nil)
	rm := console.NewResourceManager(tables)

	commands := []guest.DrawCommand{{MeshHandle: 999, ShadingIndex: 0}}
	shading := []guest.ShadingState{{}}

	err := rm.ExecuteCommands(commands, shading, noopGraphics{})
	nettest.ExpectFailure(t, err)
}

func TestExecuteCommandsRejectsOutOfRangeShadingIndex(t *testing.T) {
	reg, tables := newReadyRegistry()
	meshHandle := reg.CreateMesh(0, 3, 12, 36, 3)

	console := zx.New(nil, nil)
	rm := console.NewResourceManager(tables)

	commands := []guest.DrawCommand{{MeshHandle: meshHandle, ShadingIndex: 5}}
	err := rm.ExecuteCommands(commands, nil, noopGraphics{})
	nettest.ExpectFailure(t, err)
}
