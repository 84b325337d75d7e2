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
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/runtime/rollback"
	"github.com/nethercore/nethercore/runtime/session"
)

// freeUDPPort grabs an ephemeral port and releases it immediately, for a
// Host that needs to bind a specific, known port number.
func freeUDPPort(t *testing.T) int {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	nettest.ExpectSuccess(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port
	nettest.ExpectSuccess(t, conn.Close())
	return port
}

func TestHostAndJoinAgreeOnSeedAndSlots(t *testing.T) {
	hostPort := freeUDPPort(t)

	type hostResult struct {
		plan session.Plan
		err  error
	}
	hostDone := make(chan hostResult, 1)
	go func() {
		plan, err := session.Resolve(session.Host{Port: hostPort})
		hostDone <- hostResult{plan, err}
	}()

	// Give the host a moment to bind before the joiner dials it.
	time.Sleep(20 * time.Millisecond)

	joinPlan, joinErr := session.Resolve(session.Join{Address: "127.0.0.1:" + strconv.Itoa(hostPort)})
	nettest.ExpectSuccess(t, joinErr)

	result := <-hostDone
	nettest.ExpectSuccess(t, result.err)
	hostPlan := result.plan

	nettest.ExpectEquality(t, hostPlan.RollbackMode, rollback.ModeP2P)
	nettest.ExpectEquality(t, joinPlan.RollbackMode, rollback.ModeP2P)
	nettest.ExpectEquality(t, hostPlan.LocalSlots, []int{0})
	nettest.ExpectEquality(t, joinPlan.LocalSlots, []int{1})
	nettest.ExpectEquality(t, hostPlan.RandomSeed, joinPlan.RandomSeed)
	nettest.ExpectEquality(t, hostPlan.PeerPort, joinPlan.BindPort)
}

func TestHostTimesOutWithNoJoiner(t *testing.T) {
	t.Skip("handshakeTimeout is 10s; exercised manually, not on every test run")
}
