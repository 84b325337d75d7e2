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

// Package debugui is the reference debug overlay over the registered debug
// variable table (spec.md §4.2), grounded on gui/sdlimgui's imgui-go usage:
// sdlimgui.go's imgui.CreateContext/DestroyContext bracketing and
// imgui_helpers.go's small stateless widget-wrapper style. Wiring imgui's
// own OpenGL3 renderer backend (vertex/index buffer upload, font atlas
// texture binding) is concrete GPU pipeline construction out of scope per
// spec.md §1's "delegated" pattern; this package only builds the widget
// tree against an imgui.Context and leaves presenting that draw data to a
// platform's own renderer.
package debugui

import (
	"sort"

	"github.com/inkyblackness/imgui-go/v4"

	"github.com/nethercore/nethercore/runtime/guest"
)

// Host is the subset of sim.Loop the overlay needs, kept as a local
// interface so this package never takes on sim's ConsoleInput type
// parameter.
type Host interface {
	DebugVariables() map[string]*guest.DebugVariable
	SetDebugVariable(name string, value float64) error
}

// Overlay owns the imgui context and renders the debug variable table plus
// the registered action buttons into one window each frame.
type Overlay struct {
	ctx *imgui.Context
	io  imgui.IO

	host    Host
	actions []string
}

// New creates an imgui context for the overlay. Only one Overlay may be
// active per process, matching imgui-go's single global-context model.
func New(host Host, actions []string) *Overlay {
	ctx := imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	return &Overlay{ctx: ctx, io: io, host: host, actions: actions}
}

// NewFrame begins the next imgui frame; a platform front-end calls this
// once before issuing input events for the frame and before Build.
func (o *Overlay) NewFrame() {
	imgui.NewFrame()
}

// Build lays out the debug variable window. onAction is invoked with an
// action's name when its button is pressed; the caller routes this to
// Loop.CallAction since Host deliberately excludes it (action calls carry
// typed arguments the overlay itself has no opinion about).
func (o *Overlay) Build(onAction func(name string)) {
	imgui.Begin("Debug")

	names := make([]string, 0, len(o.host.DebugVariables()))
	for name := range o.host.DebugVariables() {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := o.host.DebugVariables()[name]
		value := float32(v.Value)
		if imgui.SliderFloat(name, &value, float32(v.Min), float32(v.Max)) {
			_ = o.host.SetDebugVariable(name, float64(value))
		}
	}

	if len(o.actions) > 0 {
		imgui.Separator()
		for _, name := range o.actions {
			if imgui.Button(name) && onAction != nil {
				onAction(name)
			}
		}
	}

	imgui.End()
}

// Render finalises the frame's draw data; a platform front-end hands the
// result to its own GL/SDL renderer.
func (o *Overlay) Render() imgui.DrawData {
	imgui.Render()
	return imgui.RenderedDrawData()
}

// Close destroys the imgui context.
func (o *Overlay) Close() {
	o.ctx.Destroy()
}
