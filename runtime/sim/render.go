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

package sim

import (
	"github.com/nethercore/nethercore/curated"
	"github.com/nethercore/nethercore/runtime/guest"
)

// RenderFrame runs the render-cadence sequence (spec.md §4.5 "Per-frame
// sequence"): clear the per-frame FFI staging, ask the guest to render,
// then hand the resulting command stream to the Graphics collaborator.
// This is decoupled from Advance — a platform may call RenderFrame at a
// different cadence than the simulation tick rate (e.g. a 144Hz display
// driving a 60Hz game).
func (l *Loop[I]) RenderFrame() error {
	l.instance.Staging.ResetFrame()

	if err := l.program.Render(l.registry); err != nil {
		if trap := l.instance.TakeTrap(); trap != nil {
			return curated.Errorf("sim: render trapped: %s: %s", trap.Reason, trap.Message)
		}
		return err
	}
	if trap := l.instance.TakeTrap(); trap != nil {
		return curated.Errorf("sim: render trapped: %s: %s", trap.Reason, trap.Message)
	}

	if err := l.graphics.BeginFrame(); err != nil {
		return err
	}
	if len(l.instance.Staging.BoneMatrices) > 0 {
		l.graphics.SetBones(l.instance.Staging.BoneMatrices)
	}
	if err := l.resourceMgr.ExecuteCommands(l.instance.Staging.Commands, l.instance.Staging.ShadingCache, l.graphics); err != nil {
		return err
	}
	return l.graphics.EndFrame()
}

// Resize forwards a display/window resize to the Graphics collaborator.
func (l *Loop[I]) Resize(width, height int) error {
	return l.graphics.Resize(width, height)
}

// CallAction invokes a guest-exported function by name, surfacing any
// error to the caller without aborting the running game (spec.md §4.1
// "errors are non-fatal").
func (l *Loop[I]) CallAction(name string, args []ActionArg) error {
	return l.program.CallAction(l.registry, name, args)
}

// SetDebugVariable implements the debug overlay's write path (spec.md
// §4.2): the registry clamps and stores the value, then the guest's
// optional on_debug_change export runs if the variable existed.
func (l *Loop[I]) SetDebugVariable(name string, value float64) error {
	if !l.registry.SetDebugVariable(name, value) {
		return nil
	}
	return l.program.OnDebugChange(l.registry, name)
}

// DebugVariables returns the live map of every registered debug variable
// (not a copy), for a debug overlay to render.
func (l *Loop[I]) DebugVariables() map[string]*guest.DebugVariable {
	return l.instance.Staging.DebugVars
}
