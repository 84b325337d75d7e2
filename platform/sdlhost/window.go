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

package sdlhost

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/nethercore/nethercore/runtime/input"
)

// Window owns the SDL window, its GL context and input polling. Grounded on
// gui/sdlimgui/platform.go's newPlatform: OpenGL 3.2 core context attributes
// set before window creation, GLCreateContext/GLMakeCurrent immediately
// after.
type Window struct {
	window  *sdl.Window
	context sdl.GLContext

	held RawInputState
}

// RawInputState is the accumulated digital/analog state of one local
// player's controller, translated from SDL key/joystick events into the
// platform-neutral shape a console.Console.MapInput call expects.
type RawInputState struct {
	Up, Down, Left, Right bool
	A, B, X, Y            bool
	LeftBumper, RightBumper bool
	Start, Select           bool
	LeftStickX, LeftStickY   float32
	RightStickX, RightStickY float32
}

// NewWindow initialises SDL, creates a resizable GL-backed window and makes
// its context current on the calling OS thread. Callers must keep the
// creating goroutine locked to that thread for the window's lifetime (SDL's
// own requirement, mirrored by the teacher's runtime.LockOSThread call).
func NewWindow(title string, width, height int) (*Window, error) {
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdlhost: init: %w", err)
	}

	attrs := []struct {
		attr sdl.GLattr
		val  int
	}{
		{sdl.GL_CONTEXT_MAJOR_VERSION, 3},
		{sdl.GL_CONTEXT_MINOR_VERSION, 2},
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
	}
	for _, a := range attrs {
		if err := sdl.GLSetAttribute(a.attr, a.val); err != nil {
			sdl.Quit()
			return nil, fmt.Errorf("sdlhost: gl attribute: %w", err)
		}
	}

	win, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height),
		sdl.WINDOW_OPENGL|sdl.WINDOW_ALLOW_HIGHDPI|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdlhost: create window: %w", err)
	}

	ctx, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdlhost: gl context: %w", err)
	}
	if err := win.GLMakeCurrent(ctx); err != nil {
		sdl.GLDeleteContext(ctx)
		win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdlhost: gl make current: %w", err)
	}

	return &Window{window: win, context: ctx}, nil
}

// SwapWindow presents the frame just rendered; satisfies glgraphics.Swapper.
func (w *Window) SwapWindow() {
	w.window.GLSwap()
}

// Size returns the window's current drawable size, for Loop.Resize.
func (w *Window) Size() (int, int) {
	width, height := w.window.GLGetDrawableSize()
	return int(width), int(height)
}

// ErrQuit is returned by PollInput once an sdl.QuitEvent has been observed;
// the caller (the platform's run loop) should stop simulating.
var ErrQuit = fmt.Errorf("sdlhost: quit requested")

// PollInput drains the SDL event queue, folding key/window events into the
// held input state, and returns the resulting RawInput snapshot. The held
// buttons and stick axes are copied into input.RawInput one field at a
// time; RawInput fields the keyboard state has no counterpart for stay
// zero.
func (w *Window) PollInput() (input.RawInput, error) {
	var quit error
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = ErrQuit
		case *sdl.KeyboardEvent:
			w.applyKey(e)
		}
	}

	raw := input.RawInput{
		Up: w.held.Up, Down: w.held.Down, Left: w.held.Left, Right: w.held.Right,
		A: w.held.A, B: w.held.B, X: w.held.X, Y: w.held.Y,
		LeftBumper: w.held.LeftBumper, RightBumper: w.held.RightBumper,
		Start: w.held.Start, Select: w.held.Select,
		LeftStickX: w.held.LeftStickX, LeftStickY: w.held.LeftStickY,
		RightStickX: w.held.RightStickX, RightStickY: w.held.RightStickY,
	}
	return raw, quit
}

func (w *Window) applyKey(e *sdl.KeyboardEvent) {
	down := e.State == sdl.PRESSED
	switch e.Keysym.Sym {
	case sdl.K_UP:
		w.held.Up = down
	case sdl.K_DOWN:
		w.held.Down = down
	case sdl.K_LEFT:
		w.held.Left = down
	case sdl.K_RIGHT:
		w.held.Right = down
	case sdl.K_z:
		w.held.A = down
	case sdl.K_x:
		w.held.B = down
	case sdl.K_a:
		w.held.X = down
	case sdl.K_s:
		w.held.Y = down
	case sdl.K_q:
		w.held.LeftBumper = down
	case sdl.K_w:
		w.held.RightBumper = down
	case sdl.K_RETURN:
		w.held.Start = down
	case sdl.K_RSHIFT, sdl.K_LSHIFT:
		w.held.Select = down
	}
}

// Close tears down the GL context, window and SDL itself.
func (w *Window) Close() {
	sdl.GLDeleteContext(w.context)
	w.window.Destroy()
	sdl.Quit()
}
