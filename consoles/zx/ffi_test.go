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
)

func TestRegisterFFIInstallsMeshGeneratorsAndEPUPresets(t *testing.T) {
	reg, _ := newReadyRegistry()
	console := zx.New(nil, nil)
	console.RegisterFFI(reg)

	nettest.ExpectEquality(t, zx.EPUPresetName(reg), "gothic_cathedral")

	_, ok := reg.Call("mesh_plane", []uint64{})
	nettest.ExpectEquality(t, ok, true)
}

func TestAdvanceEPUPresetWrapsAround(t *testing.T) {
	reg, _ := newReadyRegistry()
	console := zx.New(nil, nil)
	console.RegisterFFI(reg)

	for i := 0; i < 6; i++ {
		zx.AdvanceEPUPreset(reg)
	}
	nettest.ExpectEquality(t, zx.EPUPresetName(reg), "gothic_cathedral")
}
