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

package sim_test

import (
	"testing"
	"time"

	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/runtime/rollback"
)

func TestSyncTestModePassesForDeterministicUpdate(t *testing.T) {
	program := &fakeProgram{}
	cfg := rollback.DefaultConfig()
	cfg.HistoryDepth = 2
	loop, _ := newTestLoopWithMode(t, program, rollback.ModeSyncTest, cfg)
	nettest.ExpectSuccess(t, loop.Boot())

	start := time.Unix(6000, 0)
	for i := 0; i < 5; i++ {
		now := start.Add(time.Duration(i) * 10 * time.Millisecond)
		_, _, err := loop.Advance(now, nil)
		nettest.ExpectSuccess(t, err)
	}
}

func TestSyncTestModeCatchesNonDeterministicUpdate(t *testing.T) {
	program := &fakeProgram{writeUpdateCounterToMemory: true}
	cfg := rollback.DefaultConfig()
	cfg.HistoryDepth = 2
	loop, _ := newTestLoopWithMode(t, program, rollback.ModeSyncTest, cfg)
	nettest.ExpectSuccess(t, loop.Boot())

	start := time.Unix(7000, 0)
	var lastErr error
	for i := 0; i < 5 && lastErr == nil; i++ {
		now := start.Add(time.Duration(i) * 10 * time.Millisecond)
		_, _, lastErr = loop.Advance(now, nil)
	}
	nettest.ExpectFailure(t, lastErr)
}

func TestLocalModeDoesNotRunDeterminismCheck(t *testing.T) {
	program := &fakeProgram{writeUpdateCounterToMemory: true}
	cfg := rollback.DefaultConfig()
	cfg.HistoryDepth = 2
	loop, _ := newTestLoopWithMode(t, program, rollback.ModeLocal, cfg)
	nettest.ExpectSuccess(t, loop.Boot())

	start := time.Unix(8000, 0)
	for i := 0; i < 5; i++ {
		now := start.Add(time.Duration(i) * 10 * time.Millisecond)
		_, _, err := loop.Advance(now, nil)
		nettest.ExpectSuccess(t, err) // same non-deterministic write, but ModeLocal never self-checks
	}
}
