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
	"fmt"

	"github.com/nethercore/nethercore/curated"
	"github.com/nethercore/nethercore/diagnostics"
	"github.com/nethercore/nethercore/runtime/audio"
	"github.com/nethercore/nethercore/runtime/input"
)

// TrapReason enumerates why a guest call was refused or aborted,
// generalising coprocessor.CoProcessor's yield taxonomy (memory fault,
// program completed, user interrupt) from "a halted ARM core" to "an
// FFI call the host would not honour".
type TrapReason int

const (
	TrapNone TrapReason = iota
	TrapOutOfBounds
	TrapInvalidHandle
	TrapBudgetExceeded
	TrapInitOnlyViolation
	TrapInvalidArgument
)

func (r TrapReason) String() string {
	switch r {
	case TrapNone:
		return "none"
	case TrapOutOfBounds:
		return "out-of-bounds"
	case TrapInvalidHandle:
		return "invalid-handle"
	case TrapBudgetExceeded:
		return "budget-exceeded"
	case TrapInitOnlyViolation:
		return "init-only-violation"
	case TrapInvalidArgument:
		return "invalid-argument"
	default:
		return "unknown"
	}
}

// Trap records a single refused or faulted guest call.
type Trap struct {
	Reason  TrapReason
	Message string
}

// Instance is the host-owned, sandboxed guest runtime state for one
// loaded game: its linear memory, its GameState record, its per-frame
// FFI staging area and the audio engine's RollbackState. I is the
// console's concrete input representation (spec.md §9 static-generic
// realisation of "parametric over Console").
type Instance[I input.ConsoleInput] struct {
	memory      []byte
	memoryLimit int

	State   GameState[I]
	Staging FFIStaging
	Audio   audio.RollbackState

	initDone bool
	trap     *Trap
	diag     *diagnostics.Log
}

// NewInstance allocates a guest instance with a memoryLimit-byte linear
// memory (spec.md §13 RAMLimit/ROMLimit, pulled from the console's
// ConsoleSpecs). diag receives every trap as a Deny entry for the
// reference debug overlay to surface.
func NewInstance[I input.ConsoleInput](memoryLimit int, diag *diagnostics.Log) *Instance[I] {
	return &Instance[I]{
		memory:      make([]byte, memoryLimit),
		memoryLimit: memoryLimit,
		Staging:     NewFFIStaging(),
		Audio:       audio.NewRollbackState(),
		diag:        diag,
	}
}

// Len returns the size of the guest's linear memory.
func (g *Instance[I]) Len() int { return len(g.memory) }

// ReadAt returns a copy of [offset, offset+length) from guest memory,
// trapping TrapOutOfBounds on any access outside the allocation
// (spec.md §4.2 "bounds-checked access").
func (g *Instance[I]) ReadAt(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(g.memory) {
		return nil, g.fault(TrapOutOfBounds, fmt.Sprintf("read [%d,%d) exceeds memory of size %d", offset, offset+length, len(g.memory)))
	}
	out := make([]byte, length)
	copy(out, g.memory[offset:offset+length])
	return out, nil
}

// WriteAt copies data into guest memory at offset, trapping
// TrapOutOfBounds on any access outside the allocation.
func (g *Instance[I]) WriteAt(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > len(g.memory) {
		return g.fault(TrapOutOfBounds, fmt.Sprintf("write [%d,%d) exceeds memory of size %d", offset, offset+len(data), len(g.memory)))
	}
	copy(g.memory[offset:], data)
	return nil
}

// fault records reason as the instance's current trap, logs it, and
// returns it as an error.
func (g *Instance[I]) fault(reason TrapReason, message string) error {
	t := &Trap{Reason: reason, Message: message}
	g.trap = t
	if g.diag != nil {
		g.diag.Logf(diagnostics.Deny, reason.String(), "%s", message)
	}
	return curated.Errorf("%s: %s", reason, message)
}

// Fault is the exported form of fault, used by the FFI registry to
// surface validation failures that happen outside of raw memory access
// (handle lookups, argument range checks).
func (g *Instance[I]) Fault(reason TrapReason, message string) error {
	return g.fault(reason, message)
}

// TakeTrap returns and clears the instance's current trap, or nil if
// the last call did not fault.
func (g *Instance[I]) TakeTrap() *Trap {
	t := g.trap
	g.trap = nil
	return t
}

// BeginFrame rotates the input history and advances the tick counter.
// Called once per simulation tick, before any FFI calls for that tick.
func (g *Instance[I]) BeginFrame(curr I) {
	g.State.InputPrev = g.State.InputCurr
	g.State.InputCurr = curr
	g.State.Tick++
}

// InInit reports whether the guest is still inside its one-time init
// phase, during which resource-creating FFI calls are permitted. Once
// MarkInitDone is called, further create_* calls are denied: the FFI
// registry logs a diagnostic and the call returns 0, without trapping
// (spec.md §4.2 "init-only resource creation guard").
func (g *Instance[I]) InInit() bool { return !g.initDone }

// MarkInitDone closes the init-only window. Idempotent.
func (g *Instance[I]) MarkInitDone() { g.initDone = true }

// SaveState copies the entire linear memory into an owned byte vector
// (spec.md §4.1 "the linear memory is the only guest-owned rollback
// state"). Host-side rollback state — GameState, audio RollbackState —
// is the rollback Session's concern, composed alongside this by the
// simulation loop, not by Instance itself.
func (g *Instance[I]) SaveState() []byte {
	out := make([]byte, len(g.memory))
	copy(out, g.memory)
	return out
}

// LoadState restores linear memory from buf. The snapshot length must
// equal the instance's current memory length; any mismatch indicates
// corruption or an unexpected resize and is a fatal error (spec.md §4.1,
// §7 "Snapshot mismatch: fatal; indicates a host bug").
func (g *Instance[I]) LoadState(buf []byte) error {
	if len(buf) != len(g.memory) {
		return curated.Errorf("guest: load_state length %d does not match memory length %d", len(buf), len(g.memory))
	}
	copy(g.memory, buf)
	return nil
}

// BorrowForAudio returns pointers to the FFI staging area and the audio
// RollbackState simultaneously, for a caller that must touch staging and
// mixer state in the same call (spec.md §4.1 split-borrow accessor). The
// FFI audio functions read and write Instance.Audio directly instead.
func (g *Instance[I]) BorrowForAudio() (*FFIStaging, *audio.RollbackState) {
	return &g.Staging, &g.Audio
}
