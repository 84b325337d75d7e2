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

package rollback

import (
	"testing"
	"time"

	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/runtime/input"
)

// fileRemote mimics what PollRemote would have recorded for slot at tick,
// without requiring an actual UDP round trip.
func fileRemote[I input.ConsoleInput](s *Session[I], tick uint64, slot int, value I) {
	vec, ok := s.remoteBuf[tick]
	if !ok {
		zv := s.zeroVector()
		vec = &zv
		s.remoteBuf[tick] = vec
	}
	vec[slot] = value
	filled := s.remoteFilled[tick]
	filled[slot] = true
	s.remoteFilled[tick] = filled
}

func TestConfirmTickIfReadyWaitsForEverySlot(t *testing.T) {
	s := NewSession[testInput](ModeP2P, DefaultConfig(), []int{0}, []int{1}, testInput{})

	fileRemote(s, 10, 1, testInput{Buttons: 0x7})
	_, ready := s.confirmTickIfReady(10)
	nettest.ExpectEquality(t, ready, false)

	s.pendingLocal[10] = TickInputs[testInput]{0: testInput{Buttons: 0x1}}
	ev, ready := s.confirmTickIfReady(10)
	nettest.ExpectEquality(t, ready, true)
	confirmed, ok := ev.(EventConfirmed)
	nettest.ExpectEquality(t, ok, true)
	nettest.ExpectEquality(t, confirmed.Tick, uint64(10))
}

func TestConfirmTickIfReadyEmitsRollbackOnMispredict(t *testing.T) {
	s := NewSession[testInput](ModeP2P, DefaultConfig(), []int{0}, []int{1}, testInput{})
	s.tick = 20

	s.pendingLocal[10] = TickInputs[testInput]{0: testInput{Buttons: 0x1}}
	predictedVec := TickInputs[testInput]{0: testInput{Buttons: 0x1}, 1: testInput{Buttons: 0x0}}
	s.predicted[10] = predictedVec

	fileRemote(s, 10, 1, testInput{Buttons: 0x9}) // disagrees with the predicted 0x0

	ev, ready := s.confirmTickIfReady(10)
	nettest.ExpectEquality(t, ready, true)
	rollback, ok := ev.(EventRollback)
	nettest.ExpectEquality(t, ok, true)
	nettest.ExpectEquality(t, rollback.RestoreTick, uint64(9))
	nettest.ExpectEquality(t, rollback.ReplayTo, uint64(20))
}

func TestConfirmTickIfReadyEmitsConfirmedWhenPredictionMatches(t *testing.T) {
	s := NewSession[testInput](ModeP2P, DefaultConfig(), []int{0}, []int{1}, testInput{})

	s.pendingLocal[10] = TickInputs[testInput]{0: testInput{Buttons: 0x1}}
	s.predicted[10] = TickInputs[testInput]{0: testInput{Buttons: 0x1}, 1: testInput{Buttons: 0x9}}
	fileRemote(s, 10, 1, testInput{Buttons: 0x9})

	ev, ready := s.confirmTickIfReady(10)
	nettest.ExpectEquality(t, ready, true)
	_, ok := ev.(EventConfirmed)
	nettest.ExpectEquality(t, ok, true)
}

func TestConfirmTickIfReadyIsIdempotent(t *testing.T) {
	s := NewSession[testInput](ModeP2P, DefaultConfig(), []int{0}, []int{1}, testInput{})
	s.pendingLocal[10] = TickInputs[testInput]{0: testInput{Buttons: 0x1}}
	fileRemote(s, 10, 1, testInput{Buttons: 0x2})

	_, ready := s.confirmTickIfReady(10)
	nettest.ExpectEquality(t, ready, true)

	_, ready = s.confirmTickIfReady(10)
	nettest.ExpectEquality(t, ready, false)
}

func TestAdvanceFrameEmitsPeerTimeoutAfterSilence(t *testing.T) {
	cfg := Config{HistoryDepth: 8, PeerTimeout: 10 * time.Millisecond, InputDelay: 0}
	s := NewSession[testInput](ModeP2P, cfg, []int{0}, []int{1}, testInput{})
	s.lastSeen[1] = time.Now().Add(-time.Second)

	events := s.AdvanceFrame()

	found := false
	for _, ev := range events {
		if timeout, ok := ev.(EventPeerTimeout); ok && timeout.Slot == 1 {
			found = true
		}
	}
	nettest.ExpectEquality(t, found, true)
}

func TestAdvanceFrameSkipsTimeoutBeforeFirstContact(t *testing.T) {
	cfg := Config{HistoryDepth: 8, PeerTimeout: time.Millisecond, InputDelay: 0}
	s := NewSession[testInput](ModeP2P, cfg, []int{0}, []int{1}, testInput{})

	events := s.AdvanceFrame()
	nettest.ExpectEquality(t, len(events), 0)
}

func TestAdvanceFrameIgnoresTimeoutsOutsideP2P(t *testing.T) {
	s := NewSession[testInput](ModeSyncTest, DefaultConfig(), []int{0}, []int{1}, testInput{})
	s.lastSeen[1] = time.Now().Add(-time.Hour)

	events := s.AdvanceFrame()
	nettest.ExpectEquality(t, len(events), 0)
}
