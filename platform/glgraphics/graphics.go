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

// Package glgraphics is a reference console.Graphics implementation over
// OpenGL 3.2 core, grounded on gui/sdlimgui/glsl.go's gl.Init/ClearColor/
// Clear/Viewport sequence. Concrete GPU pipeline construction per console
// (vertex layouts, shaders, procedural mesh upload) is out of scope here by
// spec.md's Non-goals; this package only brackets frames and tracks the
// clear colour and skinning matrices a ResourceManager needs to drive.
package glgraphics

import (
	"fmt"

	"github.com/go-gl/gl/v3.2-core/gl"
)

// Swapper presents the back buffer; satisfied by *sdlhost.Window.
type Swapper interface {
	SwapWindow()
}

// Graphics is the reference OpenGL collaborator. A console's
// ResourceManager issues draw/upload calls against the same context this
// type makes current; Graphics itself only owns frame bracketing, resize
// and the skinning-matrix slot the command executor reads from.
type Graphics struct {
	swap Swapper

	clearR, clearG, clearB, clearA float32
	bones                          [][16]float32
}

// New initialises the GL function pointers for the context swap already
// made current by the window, and returns a Graphics bound to it.
func New(swap Swapper) (*Graphics, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glgraphics: init: %w", err)
	}
	return &Graphics{swap: swap, clearA: 1.0}, nil
}

// SetClearColor sets the colour each frame is cleared to, e.g. one
// unpacked with console.Console.UnpackClearColor. No ResourceManager in
// this module calls it.
func (g *Graphics) SetClearColor(r, gr, b, a float32) {
	g.clearR, g.clearG, g.clearB, g.clearA = r, gr, b, a
}

// Resize implements console.Graphics.
func (g *Graphics) Resize(width, height int) error {
	gl.Viewport(0, 0, int32(width), int32(height))
	return nil
}

// BeginFrame implements console.Graphics.
func (g *Graphics) BeginFrame() error {
	gl.ClearColor(g.clearR, g.clearG, g.clearB, g.clearA)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

// EndFrame implements console.Graphics, presenting the frame via Swapper.
func (g *Graphics) EndFrame() error {
	g.swap.SwapWindow()
	return nil
}

// SetBones implements console.Graphics; a console's ResourceManager reads
// Bones back when binding a skinned draw call's uniform block.
func (g *Graphics) SetBones(matrices [][16]float32) {
	g.bones = matrices
}

// Bones returns the most recently set skinning matrices.
func (g *Graphics) Bones() [][16]float32 {
	return g.bones
}
