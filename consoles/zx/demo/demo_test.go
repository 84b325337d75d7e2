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

package demo_test

import (
	"testing"

	"github.com/nethercore/nethercore/consoles/zx"
	"github.com/nethercore/nethercore/consoles/zx/demo"
	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/runtime/audio"
	"github.com/nethercore/nethercore/runtime/ffi"
	"github.com/nethercore/nethercore/runtime/guest"
	"github.com/nethercore/nethercore/runtime/resources"
)

func newRegistry() *ffi.Registry[zx.Input] {
	tables := resources.NewTables()
	inst := guest.NewInstance[zx.Input](1<<16, nil)
	engine := audio.NewEngine(tables, 48000)
	reg := ffi.NewRegistry[zx.Input](inst, tables, engine, nil)
	ffi.RegisterProceduralMeshFunctions[zx.Input](reg)
	return reg
}

func TestInitCreatesAMeshHandle(t *testing.T) {
	reg := newRegistry()
	cube := &demo.Cube{}
	err := cube.Init(reg)
	nettest.ExpectSuccess(t, err)
}

func TestUpdateAdvancesAngleWithLeftStick(t *testing.T) {
	reg := newRegistry()
	cube := &demo.Cube{}
	nettest.ExpectSuccess(t, cube.Init(reg))

	nettest.ExpectSuccess(t, cube.SetInput(reg, 0, zx.Input{LeftStickX: 127}))
	nettest.ExpectSuccess(t, cube.Update(reg, 1.0))
	nettest.ExpectSuccess(t, cube.Render(reg))

	nettest.ExpectEquality(t, len(reg.Instance.Staging.Commands), 1)
}

func TestRenderIsNoopWithoutInit(t *testing.T) {
	reg := newRegistry()
	cube := &demo.Cube{}
	nettest.ExpectSuccess(t, cube.Render(reg))
	nettest.ExpectEquality(t, len(reg.Instance.Staging.Commands), 0)
}

func TestCallActionAdvancesEPUPreset(t *testing.T) {
	reg := newRegistry()
	console := zx.New(nil, nil)
	console.RegisterFFI(reg)

	cube := &demo.Cube{}
	before := zx.EPUPresetName(reg)
	err := cube.CallAction(reg, "epu_next_preset", nil)
	nettest.ExpectSuccess(t, err)
	after := zx.EPUPresetName(reg)
	nettest.ExpectInequality(t, before, after)
}

func TestCallActionIgnoresUnknownNames(t *testing.T) {
	reg := newRegistry()
	cube := &demo.Cube{}
	err := cube.CallAction(reg, "not_a_real_action", nil)
	nettest.ExpectSuccess(t, err)
}
