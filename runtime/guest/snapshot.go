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

package guest

import (
	"github.com/nethercore/nethercore/runtime/audio"
	"github.com/nethercore/nethercore/runtime/input"
)

// Snapshot is everything a rollback Session needs to restore this
// instance to an earlier tick: a copy of linear memory, the GameState
// record, and the audio engine's RollbackState. FFIStaging is
// deliberately excluded — it is rebuilt from scratch every frame, never
// snapshotted (spec.md Data Model).
type Snapshot[I input.ConsoleInput] struct {
	Memory []byte
	State  GameState[I]
	Audio  audio.RollbackState
}

// Snapshot captures the instance's current rollback-relevant state. The
// returned value owns its own copy of memory and is safe to retain
// across further ticks of the live instance.
func (g *Instance[I]) Snapshot() Snapshot[I] {
	mem := make([]byte, len(g.memory))
	copy(mem, g.memory)
	return Snapshot[I]{
		Memory: mem,
		State:  g.State,
		Audio:  g.Audio,
	}
}

// Restore overwrites the instance's memory, GameState and audio
// RollbackState from snap. FFIStaging is reset rather than restored,
// since the guest rebuilds it deterministically from the restored
// GameState on its next update/render call.
func (g *Instance[I]) Restore(snap Snapshot[I]) {
	if len(g.memory) != len(snap.Memory) {
		g.memory = make([]byte, len(snap.Memory))
	}
	copy(g.memory, snap.Memory)
	g.State = snap.State
	g.Audio = snap.Audio
	g.Staging.ResetFrame()
	g.trap = nil
}
