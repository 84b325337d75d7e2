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

// Package zx is the reference fantasy console: a dual-analog, 14-button
// pad realised as an 8-byte POD input struct, a 3D EPU-style renderer
// surface, and tracker audio. Grounded on original_source's
// emberware-z/src/console.rs (ZInput's field layout, button bitmask,
// ConsoleSpecs constants) and core/src/console.rs (the generic multi-console
// trait framework spec.md §4.6 distills into runtime/console.Console).
package zx

import "github.com/nethercore/nethercore/runtime/input"

// Button indexes the bit positions of Input.Buttons, matching
// original_source's Button enum exactly (bit = 1 << index).
type Button uint8

const (
	ButtonUp Button = iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonB
	ButtonX
	ButtonY
	ButtonLeftBumper
	ButtonRightBumper
	ButtonLeftStick
	ButtonRightStick
	ButtonStart
	ButtonSelect
)

// Mask returns this button's bit in Input.Buttons.
func (b Button) Mask() uint16 { return 1 << uint16(b) }

// Input is the console's bit-exact ConsoleInput: a 16-bit button mask,
// two signed-byte analog sticks and two unsigned-byte triggers, 8 bytes
// total — original_source's own `#[repr(C)] ZInput`, confirmed POD-sized
// by its test_zinput_size (size_of::<ZInput>() == 8).
type Input struct {
	Buttons                 uint16
	LeftStickX, LeftStickY   int8
	RightStickX, RightStickY int8
	LeftTrigger, RightTrigger uint8
}

const inputSize = 8

// Size implements input.ConsoleInput.
func (Input) Size() int { return inputSize }

// Held reports whether b is currently pressed.
func (in Input) Held(b Button) bool {
	return in.Buttons&b.Mask() != 0
}

// LeftStick returns the left stick as normalised floats in [-1, 1].
func (in Input) LeftStick() (x, y float32) {
	return float32(in.LeftStickX) / 127.0, float32(in.LeftStickY) / 127.0
}

// RightStick returns the right stick as normalised floats in [-1, 1].
func (in Input) RightStick() (x, y float32) {
	return float32(in.RightStickX) / 127.0, float32(in.RightStickY) / 127.0
}

// LeftTriggerF32 returns the left trigger as a normalised float in [0, 1].
func (in Input) LeftTriggerF32() float32 { return float32(in.LeftTrigger) / 255.0 }

// RightTriggerF32 returns the right trigger as a normalised float in [0, 1].
func (in Input) RightTriggerF32() float32 { return float32(in.RightTrigger) / 255.0 }

// MarshalInput implements input.ConsoleInput, matching Input's in-memory
// layout field-for-field little-endian.
func (in Input) MarshalInput() []byte {
	buf := make([]byte, inputSize)
	buf[0] = byte(in.Buttons)
	buf[1] = byte(in.Buttons >> 8)
	buf[2] = byte(in.LeftStickX)
	buf[3] = byte(in.LeftStickY)
	buf[4] = byte(in.RightStickX)
	buf[5] = byte(in.RightStickY)
	buf[6] = in.LeftTrigger
	buf[7] = in.RightTrigger
	return buf
}

// UnmarshalInput implements input.ConsoleInput.
func (Input) UnmarshalInput(buf []byte) (input.ConsoleInput, error) {
	if len(buf) != inputSize {
		return Input{}, inputSizeError{got: len(buf)}
	}
	return Input{
		Buttons:      uint16(buf[0]) | uint16(buf[1])<<8,
		LeftStickX:   int8(buf[2]),
		LeftStickY:   int8(buf[3]),
		RightStickX:  int8(buf[4]),
		RightStickY:  int8(buf[5]),
		LeftTrigger:  buf[6],
		RightTrigger: buf[7],
	}, nil
}

type inputSizeError struct{ got int }

func (e inputSizeError) Error() string {
	return "zx: input must be exactly 8 bytes, got a different length"
}

// replayLayout describes Input's fields for the replay/script system
// (spec.md's console.Console.ReplayInputLayout).
var replayLayout = []input.ReplayField{
	{Name: "buttons", Offset: 0, Width: 2},
	{Name: "left_stick_x", Offset: 2, Width: 1},
	{Name: "left_stick_y", Offset: 3, Width: 1},
	{Name: "right_stick_x", Offset: 4, Width: 1},
	{Name: "right_stick_y", Offset: 5, Width: 1},
	{Name: "left_trigger", Offset: 6, Width: 1},
	{Name: "right_trigger", Offset: 7, Width: 1},
}

func clampAxis(v float32) int8 {
	if v < -1.0 {
		v = -1.0
	}
	if v > 1.0 {
		v = 1.0
	}
	return int8(v * 127.0)
}

func clampTrigger(v float32) uint8 {
	if v < 0.0 {
		v = 0.0
	}
	if v > 1.0 {
		v = 1.0
	}
	return uint8(v * 255.0)
}

// mapInput converts a platform-neutral RawInput into Input, matching
// original_source's EmberwareZ::map_input bit-for-bit.
func mapInput(raw input.RawInput) Input {
	var buttons uint16
	set := func(held bool, b Button) {
		if held {
			buttons |= b.Mask()
		}
	}
	set(raw.Up, ButtonUp)
	set(raw.Down, ButtonDown)
	set(raw.Left, ButtonLeft)
	set(raw.Right, ButtonRight)
	set(raw.A, ButtonA)
	set(raw.B, ButtonB)
	set(raw.X, ButtonX)
	set(raw.Y, ButtonY)
	set(raw.LeftBumper, ButtonLeftBumper)
	set(raw.RightBumper, ButtonRightBumper)
	set(raw.LeftStickClick, ButtonLeftStick)
	set(raw.RightStickClick, ButtonRightStick)
	set(raw.Start, ButtonStart)
	set(raw.Select, ButtonSelect)

	return Input{
		Buttons:      buttons,
		LeftStickX:   clampAxis(raw.LeftStickX),
		LeftStickY:   clampAxis(raw.LeftStickY),
		RightStickX:  clampAxis(raw.RightStickX),
		RightStickY:  clampAxis(raw.RightStickY),
		LeftTrigger:  clampTrigger(raw.LeftTrigger),
		RightTrigger: clampTrigger(raw.RightTrigger),
	}
}
