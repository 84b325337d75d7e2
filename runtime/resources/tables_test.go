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

package resources_test

import (
	"testing"

	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/runtime/resources"
)

func TestHandleNamespaceDisjointness(t *testing.T) {
	h := resources.NewHandles()
	sound := h.Allocate()
	tracker := h.AllocateTracker()

	nettest.ExpectEquality(t, sound&resources.TrackerBit, uint32(0))
	nettest.ExpectInequality(t, tracker&resources.TrackerBit, uint32(0))
	nettest.ExpectEquality(t, resources.IsTracker(sound), false)
	nettest.ExpectEquality(t, resources.IsTracker(tracker), true)
}

func TestBuiltinsSurviveClear(t *testing.T) {
	tabs := resources.NewTables()

	h := tabs.Handles.Allocate()
	tabs.Textures.Set(h, &resources.Texture{Width: 4, Height: 4})

	_, ok := tabs.Textures.Get(resources.CheckerboardHandle())
	nettest.ExpectEquality(t, ok, true)

	tabs.ClearForNewGame()

	_, ok = tabs.Textures.Get(resources.CheckerboardHandle())
	nettest.ExpectEquality(t, ok, true)

	_, ok = tabs.Textures.Get(h)
	nettest.ExpectEquality(t, ok, false)
}

func TestZeroHandleIsSentinel(t *testing.T) {
	tabs := resources.NewTables()
	_, ok := tabs.Textures.Get(0)
	nettest.ExpectEquality(t, ok, false)
}

func TestHandlesResetAfterClearAvoidsBuiltinCollision(t *testing.T) {
	tabs := resources.NewTables()
	h := tabs.Handles.Allocate()
	tabs.ClearForNewGame()
	h2 := tabs.Handles.Allocate()
	nettest.ExpectInequality(t, h, resources.CheckerboardHandle())
	nettest.ExpectInequality(t, h2, resources.CheckerboardHandle())
	nettest.ExpectInequality(t, h2, resources.WhiteHandle())
	nettest.ExpectInequality(t, h2, resources.DefaultFontHandle())
}
