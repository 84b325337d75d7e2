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

package session_test

import (
	"testing"

	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/runtime/rollback"
	"github.com/nethercore/nethercore/runtime/session"
)

func TestResolveLocalUsesLocalRollbackMode(t *testing.T) {
	plan, err := session.Resolve(session.Local{})
	nettest.ExpectSuccess(t, err)
	nettest.ExpectEquality(t, plan.RollbackMode, rollback.ModeLocal)
	nettest.ExpectEquality(t, plan.LocalSlots, []int{0})
	nettest.ExpectEquality(t, plan.NeedsTransport, false)
}

func TestResolveSyncTestAppliesCheckDistanceAsHistoryDepth(t *testing.T) {
	plan, err := session.Resolve(session.SyncTest{CheckDistance: 30})
	nettest.ExpectSuccess(t, err)
	nettest.ExpectEquality(t, plan.RollbackMode, rollback.ModeSyncTest)
	nettest.ExpectEquality(t, plan.Config.HistoryDepth, 30)
}

func TestResolveSyncTestKeepsDefaultHistoryDepthWhenUnset(t *testing.T) {
	plan, err := session.Resolve(session.SyncTest{})
	nettest.ExpectSuccess(t, err)
	nettest.ExpectEquality(t, plan.Config.HistoryDepth, rollback.DefaultConfig().HistoryDepth)
}

func TestResolveP2PAssignsRemoteAsTheOtherSlot(t *testing.T) {
	plan, err := session.Resolve(session.P2P{BindPort: 9000, PeerPort: 9001, LocalPlayer: 0})
	nettest.ExpectSuccess(t, err)
	nettest.ExpectEquality(t, plan.LocalSlots, []int{0})
	nettest.ExpectEquality(t, plan.RemoteSlots, []int{1})
	nettest.ExpectEquality(t, plan.NeedsTransport, true)
	nettest.ExpectEquality(t, plan.BindPort, 9000)
	nettest.ExpectEquality(t, plan.PeerPort, 9001)

	plan, err = session.Resolve(session.P2P{LocalPlayer: 1})
	nettest.ExpectSuccess(t, err)
	nettest.ExpectEquality(t, plan.LocalSlots, []int{1})
	nettest.ExpectEquality(t, plan.RemoteSlots, []int{0})
}

func TestResolveP2PRejectsOutOfRangeLocalPlayer(t *testing.T) {
	_, err := session.Resolve(session.P2P{LocalPlayer: 2})
	nettest.ExpectFailure(t, err)
}
