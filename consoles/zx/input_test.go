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
	"github.com/nethercore/nethercore/runtime/input"
)

func TestInputSizeIsEightBytes(t *testing.T) {
	var in zx.Input
	nettest.ExpectEquality(t, in.Size(), 8)
}

func TestMarshalUnmarshalInputRoundTrips(t *testing.T) {
	in := zx.Input{
		Buttons:      zx.ButtonA.Mask() | zx.ButtonStart.Mask(),
		LeftStickX:   42,
		LeftStickY:   -42,
		RightStickX:  10,
		RightStickY:  -10,
		LeftTrigger:  200,
		RightTrigger: 50,
	}
	buf := in.MarshalInput()
	nettest.ExpectEquality(t, len(buf), 8)

	decoded, err := in.UnmarshalInput(buf)
	nettest.ExpectSuccess(t, err)
	nettest.ExpectEquality(t, decoded.(zx.Input), in)
}

func TestUnmarshalInputRejectsWrongLength(t *testing.T) {
	var in zx.Input
	_, err := in.UnmarshalInput([]byte{1, 2, 3})
	nettest.ExpectFailure(t, err)
}

func TestHeldReportsButtonBit(t *testing.T) {
	in := zx.Input{Buttons: zx.ButtonB.Mask()}
	nettest.ExpectEquality(t, in.Held(zx.ButtonB), true)
	nettest.ExpectEquality(t, in.Held(zx.ButtonA), false)
}

func TestStickNormalisation(t *testing.T) {
	in := zx.Input{LeftStickX: 127, LeftStickY: -127}
	x, y := in.LeftStick()
	nettest.ExpectEquality(t, x, float32(1.0))
	nettest.ExpectEquality(t, y, float32(-1.0))
}

func TestMapInputTranslatesDigitalAndAnalogFields(t *testing.T) {
	raw := input.RawInput{
		A:           true,
		Start:       true,
		LeftStickX:  1.0,
		LeftStickY:  -1.0,
		LeftTrigger: 1.0,
	}
	console := zx.New(nil, nil)
	in := console.MapInput(raw)

	nettest.ExpectEquality(t, in.Held(zx.ButtonA), true)
	nettest.ExpectEquality(t, in.Held(zx.ButtonStart), true)
	nettest.ExpectEquality(t, in.Held(zx.ButtonB), false)
	nettest.ExpectEquality(t, in.LeftStickX, int8(127))
	nettest.ExpectEquality(t, in.LeftTrigger, uint8(255))
}
