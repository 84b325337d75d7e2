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

// Package rollback implements the rollback Session: the input timeline,
// misprediction detection, and snapshot retention the simulation loop
// drives to keep every peer's guest instance in lockstep (spec.md §4.4).
//
// Grounded on the teacher's debugger/rewind.go (RerunLastNFrames-style
// snapshot-then-replay control flow, generalised from "rewind for
// debugging" to "rollback for netplay"), hardware/input's
// driven/pushed/recording channel idiom (confirmed vs. predicted input
// streams), and comparison.go's state-comparison driver (generalised
// into the checksum subpackage for SyncTest).
package rollback

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nethercore/nethercore/assert"
	"github.com/nethercore/nethercore/runtime/input"
)

// MaxPlayers bounds the per-tick input vector (spec.md Data Model).
const MaxPlayers = 4

// Mode selects how the session sources and trusts input.
type Mode int

const (
	ModeLocal Mode = iota
	ModeSyncTest
	ModeP2P
)

// TickInputs is one tick's input vector, indexed by player slot.
type TickInputs[I input.ConsoleInput] [MaxPlayers]I

// slotKind distinguishes a session's local slots (authoritative as they
// arrive) from its remote slots (predicted, then confirmed).
type slotKind int

const (
	slotUnused slotKind = iota
	slotLocal
	slotRemote
)

// Event is something the simulation loop must act on after
// AdvanceFrame. The loop type-switches on these (spec.md §4.4
// "the loop acts on the events by calling guest.load_state(...) and
// re-running guest.update deterministically").
type Event interface{ isEvent() }

// EventConfirmed reports that Tick's inputs are now final and will
// never change; history older than the session's retention window may
// be discarded.
type EventConfirmed struct{ Tick uint64 }

// EventRollback reports that the remote prediction for tick
// RestoreTick+1 proved wrong: the loop must restore the snapshot for
// RestoreTick and re-run guest.update for every tick from RestoreTick+1
// through ReplayTo (the session's current tick), using the now-corrected
// input history.
type EventRollback struct {
	RestoreTick uint64
	ReplayTo    uint64
}

// EventPeerTimeout reports that a remote peer has not supplied input for
// longer than PeerTimeout; the loop decides whether to stall or
// disconnect.
type EventPeerTimeout struct{ Slot int }

func (EventConfirmed) isEvent()   {}
func (EventRollback) isEvent()    {}
func (EventPeerTimeout) isEvent() {}

// Session drives one game's rollback input timeline. I is the console's
// concrete ConsoleInput type.
type Session[I input.ConsoleInput] struct {
	Mode Mode

	// HistoryDepth is how many ticks of snapshot/input history the
	// session retains for resimulation (spec.md §9 Open Question,
	// decided as a constructor parameter; default 8).
	HistoryDepth int

	// PeerTimeout is how long a remote slot may go without a confirmed
	// input before EventPeerTimeout fires (spec.md §9 Open Question,
	// decided as a constructor parameter; default 5s).
	PeerTimeout time.Duration

	// InputDelay is how many ticks a local slot's input is buffered
	// before becoming part of the authoritative tick, smoothing small
	// RTT jitter (spec.md §4.4).
	InputDelay int

	slots     [MaxPlayers]slotKind
	zero      I
	transport *transport
	decode    func([]byte) (I, error)

	owner uint64 // goroutine that called NewSession, checked by assertOwner

	tick uint64

	pendingLocal  map[uint64]TickInputs[I] // staged, not yet committed
	confirmed     map[uint64]TickInputs[I]
	lastConfirmed [MaxPlayers]I
	lastSeen      [MaxPlayers]time.Time

	remoteBuf    map[uint64]*TickInputs[I] // partially filled remote vectors, keyed by tick
	remoteFilled map[uint64][MaxPlayers]bool
	predicted    map[uint64]TickInputs[I] // what InputAt handed the loop before confirmation

	snapshots map[uint64][]byte
}

// Config carries the constructor parameters whose defaults spec.md §9
// leaves as implementation choices.
type Config struct {
	HistoryDepth int
	PeerTimeout  time.Duration
	InputDelay   int
}

// DefaultConfig returns the reference defaults: an 8-tick rollback
// window, a 5-second peer timeout, and zero input delay.
func DefaultConfig() Config {
	return Config{HistoryDepth: 8, PeerTimeout: 5 * time.Second, InputDelay: 0}
}

// NewSession builds a session in mode with the given local/remote slot
// assignment. zero is the console's neutral input value, used as the
// prediction before any real input has arrived for a slot.
func NewSession[I input.ConsoleInput](mode Mode, cfg Config, localSlots, remoteSlots []int, zero I) *Session[I] {
	s := &Session[I]{
		Mode:         mode,
		HistoryDepth: cfg.HistoryDepth,
		PeerTimeout:  cfg.PeerTimeout,
		InputDelay:   cfg.InputDelay,
		owner:        assert.GetGoRoutineID(),
		zero:         zero,
		pendingLocal: make(map[uint64]TickInputs[I]),
		confirmed:    make(map[uint64]TickInputs[I]),
		remoteBuf:    make(map[uint64]*TickInputs[I]),
		remoteFilled: make(map[uint64][MaxPlayers]bool),
		predicted:    make(map[uint64]TickInputs[I]),
		snapshots:    make(map[uint64][]byte),
	}
	for _, slot := range localSlots {
		s.slots[slot] = slotLocal
	}
	for _, slot := range remoteSlots {
		s.slots[slot] = slotRemote
	}
	for i := range s.lastConfirmed {
		s.lastConfirmed[i] = zero
	}
	return s
}

// assertOwner panics if called from a goroutine other than the one that
// built the session. A Session has no internal locking: the loop that
// owns it is expected to call AddLocalInput, PollRemote and AdvanceFrame
// from a single goroutine, same as the teacher's debugger/rewind state.
func (s *Session[I]) assertOwner() {
	if g := assert.GetGoRoutineID(); g != s.owner {
		panic("rollback: Session accessed from more than one goroutine")
	}
}

// Diagnostics is a point-in-time snapshot of a session's internal sizes,
// for tools/rollbackviz to graph. It deliberately holds only counts, not
// the maps themselves: the input/snapshot histories are keyed by tick and
// sized for gameplay, not for a debugging tool to walk.
type Diagnostics struct {
	Tick          uint64
	HistoryDepth  int
	PeerTimeout   time.Duration
	InputDelay    int
	Slots         [MaxPlayers]string
	PendingLocal  int
	Confirmed     int
	RemoteBuf     int
	PredictedKept int
	Snapshots     int
}

// Diagnostics reports the session's current internal sizes.
func (s *Session[I]) Diagnostics() Diagnostics {
	d := Diagnostics{
		Tick:          s.tick,
		HistoryDepth:  s.HistoryDepth,
		PeerTimeout:   s.PeerTimeout,
		InputDelay:    s.InputDelay,
		PendingLocal:  len(s.pendingLocal),
		Confirmed:     len(s.confirmed),
		RemoteBuf:     len(s.remoteBuf),
		PredictedKept: len(s.predicted),
		Snapshots:     len(s.snapshots),
	}
	for i, k := range s.slots {
		switch k {
		case slotLocal:
			d.Slots[i] = "local"
		case slotRemote:
			d.Slots[i] = "remote"
		default:
			d.Slots[i] = "unused"
		}
	}
	return d
}

// CurrentTick returns the tick most recently advanced to.
func (s *Session[I]) CurrentTick() uint64 { return s.tick }

// AddLocalInput records input for slot, to take effect InputDelay ticks
// from now (spec.md §4.4 operation 1).
func (s *Session[I]) AddLocalInput(slot int, value I) {
	s.assertOwner()
	if slot < 0 || slot >= MaxPlayers || s.slots[slot] != slotLocal {
		return
	}
	target := s.tick + 1 + uint64(s.InputDelay)
	vec, ok := s.pendingLocal[target]
	if !ok {
		vec = s.zeroVector()
	}
	vec[slot] = value
	s.pendingLocal[target] = vec

	if s.transport != nil {
		if err := s.transport.send(target, slot, value.MarshalInput()); err != nil {
			log.Warn().Int("slot", slot).Uint64("tick", target).Err(err).Msg("rollback: failed to send local input")
		}
	}
}

func (s *Session[I]) zeroVector() TickInputs[I] {
	var v TickInputs[I]
	for i := range v {
		v[i] = s.zero
	}
	return v
}

// TakeSnapshot returns the opaque snapshot bytes filed against tick, if
// any (spec.md §4.4 operation 4).
func (s *Session[I]) TakeSnapshot(tick uint64) ([]byte, bool) {
	b, ok := s.snapshots[tick]
	return b, ok
}

// StoreSnapshot files snap against tick and evicts anything older than
// the retention window.
func (s *Session[I]) StoreSnapshot(tick uint64, snap []byte) {
	s.snapshots[tick] = snap
	if tick < uint64(s.HistoryDepth) {
		return
	}
	floor := tick - uint64(s.HistoryDepth)
	for t := range s.snapshots {
		if t < floor {
			delete(s.snapshots, t)
		}
	}
	for t := range s.confirmed {
		if t < floor {
			delete(s.confirmed, t)
		}
	}
	for t := range s.predicted {
		if t < floor {
			delete(s.predicted, t)
		}
	}
}

// InputAt returns the input vector the loop should use for tick,
// building it from confirmed data if present, otherwise from pending
// local input and predicted (duplicate-last-confirmed) remote input.
func (s *Session[I]) InputAt(tick uint64) TickInputs[I] {
	if vec, ok := s.confirmed[tick]; ok {
		return vec
	}
	vec := s.zeroVector()
	for slot, kind := range s.slots {
		switch kind {
		case slotLocal:
			if pending, ok := s.pendingLocal[tick]; ok {
				vec[slot] = pending[slot]
				continue
			}
			vec[slot] = s.lastConfirmed[slot]
		case slotRemote:
			vec[slot] = s.lastConfirmed[slot]
		}
	}
	if s.Mode == ModeP2P {
		s.predicted[tick] = vec
	}
	return vec
}
