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
	"time"

	"github.com/rs/zerolog/log"
)

// SetTransport wires a UDP socket for P2P mode, bound to bindPort and
// sending to 127.0.0.1:peerPort. Local mode and SyncTest mode never call
// this; they have no remote slots to exchange input with.
func (s *Session[I]) SetTransport(bindPort, peerPort int) error {
	t, err := newTransport(bindPort, peerPort)
	if err != nil {
		return err
	}
	s.transport = t
	return nil
}

// SetDecoder supplies the console's UnmarshalInput entry point. P2P mode
// requires this before PollRemote can do anything; it is kept as an
// explicit function value, rather than asserting the decoded
// input.ConsoleInput back to I, since a type parameter is not a legal
// type-assertion target.
func (s *Session[I]) SetDecoder(fn func([]byte) (I, error)) {
	s.decode = fn
}

// PollRemote drains whatever remote input packets have arrived, files
// them against their tick, and reports every tick that newly became
// confirmed (spec.md §4.4 operation 3). A confirmation whose value
// disagrees with what was already predicted and simulated produces an
// EventRollback instead of an EventConfirmed.
func (s *Session[I]) PollRemote() []Event {
	s.assertOwner()
	if s.transport == nil || s.decode == nil {
		return nil
	}

	var events []Event
	touched := make(map[uint64]bool)

	for _, pkt := range s.transport.drain() {
		if s.slots[pkt.slot] != slotRemote {
			continue
		}
		value, err := s.decode(pkt.payload)
		if err != nil {
			log.Warn().Int("slot", pkt.slot).Uint64("tick", pkt.tick).Err(err).Msg("rollback: dropping undecodable remote input")
			continue
		}

		s.lastSeen[pkt.slot] = time.Now()
		s.lastConfirmed[pkt.slot] = value

		vec, ok := s.remoteBuf[pkt.tick]
		if !ok {
			zv := s.zeroVector()
			vec = &zv
			s.remoteBuf[pkt.tick] = vec
		}
		vec[pkt.slot] = value

		filled := s.remoteFilled[pkt.tick]
		filled[pkt.slot] = true
		s.remoteFilled[pkt.tick] = filled

		touched[pkt.tick] = true
	}

	for tick := range touched {
		if ev, ok := s.confirmTickIfReady(tick); ok {
			events = append(events, ev)
		}
	}
	return events
}

// confirmTickIfReady finalises tick's input vector once every slot has a
// definite value, comparing it against whatever was predicted and
// already simulated for that tick.
func (s *Session[I]) confirmTickIfReady(tick uint64) (Event, bool) {
	if _, already := s.confirmed[tick]; already {
		return nil, false
	}

	var vec TickInputs[I]
	for slot, kind := range s.slots {
		switch kind {
		case slotLocal:
			pending, ok := s.pendingLocal[tick]
			if !ok {
				return nil, false
			}
			vec[slot] = pending[slot]
		case slotRemote:
			if !s.remoteFilled[tick][slot] {
				return nil, false
			}
			vec[slot] = (*s.remoteBuf[tick])[slot]
		}
	}

	s.confirmed[tick] = vec
	delete(s.pendingLocal, tick)
	delete(s.remoteBuf, tick)
	delete(s.remoteFilled, tick)

	predicted, wasPredicted := s.predicted[tick]
	delete(s.predicted, tick)
	if wasPredicted && predicted != vec {
		restoreFrom := tick
		if restoreFrom > 0 {
			restoreFrom--
		}
		return EventRollback{RestoreTick: restoreFrom, ReplayTo: s.tick}, true
	}
	return EventConfirmed{Tick: tick}, true
}

// AdvanceFrame moves the session's current tick forward by one and
// reports any remote slot that has gone silent longer than PeerTimeout
// (spec.md §4.4 operation 2). Tick confirmation and rollback events
// arrive from PollRemote as data is received, not from here.
func (s *Session[I]) AdvanceFrame() []Event {
	s.assertOwner()
	s.tick++

	var events []Event
	if s.Mode != ModeP2P {
		return events
	}
	now := time.Now()
	for slot, kind := range s.slots {
		if kind != slotRemote {
			continue
		}
		if s.lastSeen[slot].IsZero() {
			continue
		}
		if now.Sub(s.lastSeen[slot]) > s.PeerTimeout {
			events = append(events, EventPeerTimeout{Slot: slot})
		}
	}
	return events
}

// Close releases the session's transport, if any.
func (s *Session[I]) Close() error {
	if s.transport == nil {
		return nil
	}
	return s.transport.close()
}
