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

package sim

import (
	"time"

	"github.com/nethercore/nethercore/curated"
	"github.com/nethercore/nethercore/runtime/guest"
	"github.com/nethercore/nethercore/runtime/input"
	"github.com/nethercore/nethercore/runtime/rollback"
)

// Advance runs zero or more simulation ticks to catch up to now,
// following the per-tick sequence of spec.md §4.5: collect input, file
// it with the rollback session, poll remote input, advance the session,
// react to whatever events that produces, then simulate the new tick and
// synthesise its audio. In SyncTest mode each tick is additionally
// self-checked (syncTestCheck). It returns how many ticks actually ran
// and the fractional interpolation factor toward the next tick, for
// render-time extrapolation; the guest's Render still only ever sees
// integer ticks.
func (l *Loop[I]) Advance(now time.Time, raw map[int]input.RawInput) (int, float64, error) {
	if !l.started {
		l.nextTick = now
		l.started = true
	}

	ticksRun := 0
	for now.Sub(l.nextTick) >= 0 && ticksRun < maxCatchUpTicks {
		for slot, r := range raw {
			l.session.AddLocalInput(slot, l.console.MapInput(r))
		}

		events := l.session.PollRemote()
		events = append(events, l.session.AdvanceFrame()...)

		if err := l.handleEvents(events); err != nil {
			return ticksRun, 0, err
		}

		tick := l.session.CurrentTick()
		vec := l.session.InputAt(tick)
		if err := l.simulateTick(tick, vec, true); err != nil {
			return ticksRun, 0, err
		}
		if l.session.Mode == rollback.ModeSyncTest {
			if err := l.syncTestCheck(tick); err != nil {
				return ticksRun, 0, err
			}
		}

		l.nextTick = l.nextTick.Add(l.tickDuration)
		ticksRun++
	}

	alpha := 1 - float64(l.nextTick.Sub(now))/float64(l.tickDuration)
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return ticksRun, alpha, nil
}

func (l *Loop[I]) handleEvents(events []rollback.Event) error {
	for _, ev := range events {
		if pt, ok := ev.(rollback.EventPeerTimeout); ok {
			return curated.Errorf("sim: peer in slot %d timed out", pt.Slot)
		}
		rb, ok := ev.(rollback.EventRollback)
		if !ok {
			continue
		}
		if err := l.replay(rb); err != nil {
			return err
		}
	}
	return nil
}

// replay restores the snapshot at rb.RestoreTick and deterministically
// re-simulates every confirmed tick through rb.ReplayTo, re-synthesising
// audio positions without rendering to avoid audio skew (spec.md §4.4
// item 5, §4.3 "render_sample_and_advance" vs "advance_positions").
func (l *Loop[I]) replay(rb rollback.EventRollback) error {
	buf, ok := l.session.TakeSnapshot(rb.RestoreTick)
	if !ok {
		return curated.Errorf("sim: rollback to tick %d has no retained snapshot", rb.RestoreTick)
	}
	snap, err := guest.DecodeSnapshot[I](buf, l.zero)
	if err != nil {
		return curated.Errorf("sim: decoding snapshot for tick %d: %v", rb.RestoreTick, err)
	}
	l.instance.Restore(snap)

	for tick := rb.RestoreTick + 1; tick <= rb.ReplayTo; tick++ {
		vec := l.session.InputAt(tick)
		if err := l.simulateTick(tick, vec, false); err != nil {
			return curated.Errorf("sim: resimulating tick %d: %v", tick, err)
		}
	}
	return nil
}

// simulateTick delivers vec to the guest and runs one Update. render
// selects whether this tick also mixes and pushes a frame of audio
// (true for a freshly simulated tick) or merely advances tracker/channel
// positions without producing samples (false during rollback replay, so
// corrected positions don't doubly emit audio already pushed once).
func (l *Loop[I]) simulateTick(tick uint64, vec rollback.TickInputs[I], render bool) error {
	for slot := 0; slot < rollback.MaxPlayers; slot++ {
		if err := l.program.SetInput(l.registry, slot, vec[slot]); err != nil {
			return err
		}
	}
	l.instance.BeginFrame(vec[0])

	if err := l.program.Update(l.registry, l.tickDuration.Seconds()); err != nil {
		if trap := l.instance.TakeTrap(); trap != nil {
			return curated.Errorf("sim: tick %d trapped: %s: %s", tick, trap.Reason, trap.Message)
		}
		return err
	}
	if trap := l.instance.TakeTrap(); trap != nil {
		return curated.Errorf("sim: tick %d trapped: %s: %s", tick, trap.Reason, trap.Message)
	}

	if render {
		samples := make([]float32, l.framesPerTick*2)
		l.engine.Render(&l.instance.Audio, samples, l.framesPerTick)
		if err := l.audioOut.PushSamples(samples); err != nil {
			return curated.Errorf("sim: pushing audio samples for tick %d: %v", tick, err)
		}
	} else {
		l.engine.Advance(&l.instance.Audio, l.framesPerTick)
	}

	snap := l.instance.Snapshot()
	l.session.StoreSnapshot(tick, snap.Encode())
	return nil
}
