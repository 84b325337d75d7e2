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

// Package demo is a minimal sim.Program[zx.Input] standing in for the
// guest WASM module spec.md treats as an out-of-scope collaborator
// (runtime/sim.Program's own doc comment: "nothing in the retrieved pack
// vendors a Go WASM engine"). It exercises every operation a real guest
// would: it creates a procedural mesh during init, reads input and
// advances a rotation each tick, records a draw command during render,
// and dispatches the EPU preset-cycling action.
package demo

import (
	"math"

	"github.com/nethercore/nethercore/consoles/zx"
	"github.com/nethercore/nethercore/runtime/ffi"
	"github.com/nethercore/nethercore/runtime/guest"
	"github.com/nethercore/nethercore/runtime/sim"
)

// Cube is the reference demo program: a single spinning box, steered by
// the left stick, whose EPU preset cycles on the "epu_next_preset"
// action.
type Cube struct {
	meshHandle uint32
	angle      float64
	input      zx.Input
}

func f32bits(v float32) uint64 { return uint64(math.Float32bits(v)) }

// Init implements sim.Program[zx.Input].
func (c *Cube) Init(reg *ffi.Registry[zx.Input]) error {
	handle, _ := reg.Call("mesh_box", []uint64{f32bits(1.0), f32bits(1.0), f32bits(1.0)})
	c.meshHandle = uint32(handle)
	return nil
}

// HasPostConnect implements sim.Program[zx.Input]. This demo needs no
// session handshake before it can create resources.
func (c *Cube) HasPostConnect() bool { return false }

// PostConnect implements sim.Program[zx.Input].
func (c *Cube) PostConnect(reg *ffi.Registry[zx.Input]) error { return nil }

// SetInput implements sim.Program[zx.Input]. Only slot 0 steers the cube.
func (c *Cube) SetInput(reg *ffi.Registry[zx.Input], slot int, value zx.Input) error {
	if slot == 0 {
		c.input = value
	}
	return nil
}

// ConfigureSession implements sim.Program[zx.Input].
func (c *Cube) ConfigureSession(reg *ffi.Registry[zx.Input], playerCount int, localMask uint8) error {
	return nil
}

// rotationSpeed is how many radians per second the left stick's full
// deflection spins the cube.
const rotationSpeed = 2.0

// Update implements sim.Program[zx.Input], turning player 0's left stick
// into a rotation rate around the vertical axis.
func (c *Cube) Update(reg *ffi.Registry[zx.Input], deltaTime float64) error {
	x, _ := c.input.LeftStick()
	c.angle += float64(x) * rotationSpeed * deltaTime
	return nil
}

// Render implements sim.Program[zx.Input], recording one draw command for
// the cube at its current rotation.
func (c *Cube) Render(reg *ffi.Registry[zx.Input]) error {
	if c.meshHandle == 0 {
		return nil
	}
	reg.DrawMesh(c.meshHandle, guest.ShadingState{}, rotationY(c.angle))
	return nil
}

// CallAction implements sim.Program[zx.Input]. The only exported action
// this demo has is "epu_next_preset", which cycles the preset-index
// debug variable registered in zx.ZX.RegisterFFI.
func (c *Cube) CallAction(reg *ffi.Registry[zx.Input], name string, args []sim.ActionArg) error {
	switch name {
	case "epu_next_preset":
		zx.AdvanceEPUPreset(reg)
	}
	return nil
}

// OnDebugChange implements sim.Program[zx.Input]. This demo has nothing
// to react to: its only debug variable (the EPU preset index) is read
// lazily wherever it's needed, not cached.
func (c *Cube) OnDebugChange(reg *ffi.Registry[zx.Input], name string) error { return nil }

// rotationY builds a column-major 4x4 rotation matrix around the Y axis.
func rotationY(radians float64) [16]float32 {
	s, co := float32(math.Sin(radians)), float32(math.Cos(radians))
	return [16]float32{
		co, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, co, 0,
		0, 0, 0, 1,
	}
}
