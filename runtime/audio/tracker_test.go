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

package audio_test

import (
	"testing"

	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/runtime/audio"
	"github.com/nethercore/nethercore/runtime/resources"
)

// rowModule is a degenerate one-channel, rows-row, one-order tracker
// module: every note is a no-op, so only the play-head (row/tick/order)
// moves and tests can assert on it without needing sound resources.
func rowModule(rows, bpm, speed int) *resources.TrackerModule {
	notes := make([][]resources.TrackerNote, rows)
	for i := range notes {
		notes[i] = []resources.TrackerNote{{Note: -1}}
	}
	return &resources.TrackerModule{
		Order: []int{0},
		Patterns: []resources.Pattern{{
			Rows:     rows,
			Channels: 1,
			Notes:    notes,
		}},
		DefaultSpeed: speed,
		DefaultBPM:   bpm,
		RestartPos:   0,
	}
}

func twoRowModule(bpm, speed int) *resources.TrackerModule {
	return rowModule(2, bpm, speed)
}

func newTrackerFixture(t *testing.T, mod *resources.TrackerModule) (*audio.Engine, *audio.RollbackState) {
	t.Helper()
	tables := resources.NewTables()
	tables.Trackers.Set(10, mod)
	engine := audio.NewEngine(tables, 48000)
	state := audio.NewRollbackState()
	return engine, &state
}

// samplesPerTick mirrors the engine's internal 2.5/BPM-seconds formula so
// the test can pick frame counts that straddle a tick boundary exactly.
func samplesPerTick(bpm, sampleRate int) int {
	seconds := 2.5 / float64(bpm)
	return int(seconds * float64(sampleRate))
}

func TestTickTrackerAdvancesRowOnlyAfterSamplesPerTick(t *testing.T) {
	mod := twoRowModule(125, 1)
	engine, state := newTrackerFixture(t, mod)
	engine.PlayTracker(state, 10, 1.0, false)
	nettest.ExpectEquality(t, state.Tracker.Row, 0)

	spt := samplesPerTick(125, 48000)

	engine.Advance(state, spt/2)
	nettest.ExpectEquality(t, state.Tracker.Row, 0) // half a tick: BPM must not have advanced the row yet

	engine.Advance(state, spt/2)
	nettest.ExpectEquality(t, state.Tracker.Row, 1) // the other half crosses samples_per_tick
}

func TestTickTrackerTempoScalesWithBPM(t *testing.T) {
	slow := rowModule(8, 60, 1)
	fast := rowModule(8, 240, 1)

	engineSlow, stateSlow := newTrackerFixture(t, slow)
	engineFast, stateFast := newTrackerFixture(t, fast)
	engineSlow.PlayTracker(stateSlow, 10, 1.0, false)
	engineFast.PlayTracker(stateFast, 10, 1.0, false)

	const frames = 1000
	engineSlow.Advance(stateSlow, frames)
	engineFast.Advance(stateFast, frames)

	// the same number of elapsed frames must advance a high-BPM tracker's
	// row further than a low-BPM one, or BPM has no effect on tempo.
	if stateFast.Tracker.Row < stateSlow.Tracker.Row {
		t.Fatalf("expected faster BPM to advance at least as far: slow row=%d fast row=%d", stateSlow.Tracker.Row, stateFast.Tracker.Row)
	}
	nettest.ExpectEquality(t, stateFast.Tracker.Row > stateSlow.Tracker.Row, true)
}

func TestAdvanceRowStopsAtSongEndWithoutLooping(t *testing.T) {
	mod := twoRowModule(125, 1)
	engine, state := newTrackerFixture(t, mod)
	engine.PlayTracker(state, 10, 1.0, false)

	spt := samplesPerTick(125, 48000)
	for i := 0; i < 3; i++ { // tick 1 plays row 0, tick 2 plays row 1 and runs past song end
		engine.Advance(state, spt)
	}

	nettest.ExpectEquality(t, state.Tracker.Playing, false)
}

func TestAdvanceRowLoopsAtSongEndWhenLooping(t *testing.T) {
	mod := twoRowModule(125, 1)
	engine, state := newTrackerFixture(t, mod)
	engine.PlayTracker(state, 10, 1.0, true)

	spt := samplesPerTick(125, 48000)
	for i := 0; i < 3; i++ {
		engine.Advance(state, spt)
	}

	nettest.ExpectEquality(t, state.Tracker.Playing, true)
	nettest.ExpectEquality(t, state.Tracker.OrderIndex, 0)
	// tick 2 wraps back to row 0 of the restart order; tick 3 plays it
	// and moves on to row 1.
	nettest.ExpectEquality(t, state.Tracker.Row, 1)
}

func TestPlayTrackerSetsTrackerLocalVolume(t *testing.T) {
	mod := twoRowModule(125, 1)
	engine, state := newTrackerFixture(t, mod)
	engine.PlayTracker(state, 10, 0.7, true)

	nettest.ExpectEquality(t, state.Tracker.Volume, uint16(179)) // 0.7 * TrackerVolumeMax = 179.2, truncated
	nettest.ExpectEquality(t, state.MasterVolume, float32(1.0)) // NewRollbackState's unity default, untouched by PlayTracker
}
