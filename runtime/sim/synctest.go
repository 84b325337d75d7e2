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
	"github.com/nethercore/nethercore/curated"
	"github.com/nethercore/nethercore/runtime/guest"
	"github.com/nethercore/nethercore/runtime/rollback/checksum"
)

// syncTestCheck implements spec.md §4.4's determinism self-check: having
// just simulated tick the ordinary way, restore the snapshot from
// HistoryDepth ticks earlier, resimulate forward over the same recorded
// input through tick, and confirm the two snapshots are byte-identical
// (spec.md §8 property 3, "advance-then-replay equals advance-once").
// A mismatch means the guest's Update is not a pure function of
// (input, delta_time, random_seed), which is exactly the class of bug
// SyncTest mode exists to surface.
func (l *Loop[I]) syncTestCheck(tick uint64) error {
	depth := uint64(l.session.HistoryDepth)
	if depth == 0 || tick < depth {
		return nil
	}
	restoreTick := tick - depth

	liveBuf, ok := l.session.TakeSnapshot(tick)
	if !ok {
		return nil
	}
	snapBuf, ok := l.session.TakeSnapshot(restoreTick)
	if !ok {
		return nil
	}

	live := checksum.Of(liveBuf)

	snap, err := guest.DecodeSnapshot[I](snapBuf, l.zero)
	if err != nil {
		return curated.Errorf("sim: synctest: decoding snapshot for tick %d: %v", restoreTick, err)
	}
	before := l.instance.Snapshot()

	l.instance.Restore(snap)
	for t := restoreTick + 1; t <= tick; t++ {
		vec := l.session.InputAt(t)
		if err := l.simulateTick(t, vec, false); err != nil {
			return curated.Errorf("sim: synctest: resimulating tick %d: %v", t, err)
		}
	}
	replay := checksum.Of(l.instance.Snapshot().Encode())

	l.instance.Restore(before)

	if !live.Equal(replay) {
		return curated.Errorf("sim: synctest: determinism check failed at tick %d: live=%s replay=%s", tick, live, replay)
	}
	return nil
}
