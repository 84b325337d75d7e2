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

// testInput mirrors the minimal ConsoleInput a real console would supply;
// kept local to this package's tests rather than importing a console.
type testInput struct {
	Buttons uint8
}

func (t testInput) Size() int             { return 1 }
func (t testInput) MarshalInput() []byte  { return []byte{t.Buttons} }
func (t testInput) UnmarshalInput(buf []byte) (input.ConsoleInput, error) {
	return testInput{Buttons: buf[0]}, nil
}

func TestAddLocalInputRespectsInputDelay(t *testing.T) {
	cfg := Config{HistoryDepth: 8, PeerTimeout: time.Second, InputDelay: 2}
	s := NewSession[testInput](ModeLocal, cfg, []int{0}, nil, testInput{})

	s.AddLocalInput(0, testInput{Buttons: 0x1})

	target := s.tick + 1 + 2
	vec, ok := s.pendingLocal[target]
	nettest.ExpectEquality(t, ok, true)
	nettest.ExpectEquality(t, vec[0], testInput{Buttons: 0x1})
}

func TestAddLocalInputIgnoresNonLocalSlot(t *testing.T) {
	s := NewSession[testInput](ModeLocal, DefaultConfig(), []int{0}, []int{1}, testInput{})
	s.AddLocalInput(1, testInput{Buttons: 0xff})
	nettest.ExpectEquality(t, len(s.pendingLocal), 0)
}

func TestInputAtUsesPendingLocalBeforeConfirmation(t *testing.T) {
	s := NewSession[testInput](ModeLocal, DefaultConfig(), []int{0}, nil, testInput{})
	s.AddLocalInput(0, testInput{Buttons: 0x2})

	target := s.tick + 1
	vec := s.InputAt(target)
	nettest.ExpectEquality(t, vec[0], testInput{Buttons: 0x2})
}

func TestInputAtFallsBackToLastConfirmedForRemoteSlot(t *testing.T) {
	s := NewSession[testInput](ModeP2P, DefaultConfig(), []int{0}, []int{1}, testInput{Buttons: 0})
	vec := s.InputAt(s.tick + 1)
	nettest.ExpectEquality(t, vec[1], testInput{Buttons: 0})
}

func TestStoreSnapshotEvictsOldHistory(t *testing.T) {
	s := NewSession[testInput](ModeLocal, Config{HistoryDepth: 2, PeerTimeout: time.Second}, []int{0}, nil, testInput{})

	s.StoreSnapshot(0, []byte("tick0"))
	s.StoreSnapshot(1, []byte("tick1"))
	s.StoreSnapshot(2, []byte("tick2"))
	s.StoreSnapshot(5, []byte("tick5"))

	if _, ok := s.TakeSnapshot(0); ok {
		t.Errorf("expected tick 0 to be evicted once floor advanced past it")
	}
	b, ok := s.TakeSnapshot(5)
	nettest.ExpectEquality(t, ok, true)
	nettest.ExpectEquality(t, b, []byte("tick5"))
}

func TestCurrentTickStartsAtZero(t *testing.T) {
	s := NewSession[testInput](ModeLocal, DefaultConfig(), []int{0}, nil, testInput{})
	nettest.ExpectEquality(t, s.CurrentTick(), uint64(0))
}

func TestAddLocalInputPanicsFromAnotherGoroutine(t *testing.T) {
	s := NewSession[testInput](ModeLocal, DefaultConfig(), []int{0}, nil, testInput{})

	done := make(chan any, 1)
	go func() {
		defer func() { done <- recover() }()
		s.AddLocalInput(0, testInput{Buttons: 0x1})
	}()

	if r := <-done; r == nil {
		t.Fatal("expected AddLocalInput to panic when called off the owning goroutine")
	}
}

func TestDiagnosticsReportsSlotKindsAndCounts(t *testing.T) {
	s := NewSession[testInput](ModeP2P, DefaultConfig(), []int{0}, []int{1}, testInput{})
	s.AddLocalInput(0, testInput{Buttons: 0x1})
	s.StoreSnapshot(0, []byte("tick0"))

	d := s.Diagnostics()
	nettest.ExpectEquality(t, d.Slots[0], "local")
	nettest.ExpectEquality(t, d.Slots[1], "remote")
	nettest.ExpectEquality(t, d.Slots[2], "unused")
	nettest.ExpectEquality(t, d.PendingLocal, 1)
	nettest.ExpectEquality(t, d.Snapshots, 1)
}
