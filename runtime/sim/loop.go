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

	"github.com/nethercore/nethercore/diagnostics"
	"github.com/nethercore/nethercore/runtime/audio"
	"github.com/nethercore/nethercore/runtime/console"
	"github.com/nethercore/nethercore/runtime/ffi"
	"github.com/nethercore/nethercore/runtime/guest"
	"github.com/nethercore/nethercore/runtime/input"
	"github.com/nethercore/nethercore/runtime/resources"
	"github.com/nethercore/nethercore/runtime/rollback"
)

// Loop drives one running game: the guest instance, the FFI registry,
// the audio engine and the rollback session, coupled at a fixed tick
// rate (spec.md §4.5). I is the console's concrete input type.
type Loop[I input.ConsoleInput] struct {
	console console.Console[I]
	program Program[I]

	instance *guest.Instance[I]
	registry *ffi.Registry[I]
	engine   *audio.Engine
	tables   *resources.Tables
	session  *rollback.Session[I]

	resourceMgr console.ResourceManager
	graphics    console.Graphics
	audioOut    console.Audio

	diag *diagnostics.Log

	tickDuration  time.Duration
	framesPerTick int
	nextTick      time.Time
	started       bool
	zero          I
}

// maxCatchUpTicks bounds how many simulation ticks a single Advance call
// will run to absorb a stall, so a long pause (debugger breakpoint,
// suspended process) cannot wedge the loop into simulating forever
// trying to catch up.
const maxCatchUpTicks = 8

// New builds a Loop for c, loads program into a freshly constructed
// guest instance, and wires a rollback session in mode. diagCapacity
// sizes the shared diagnostic ring buffer (spec.md ERROR HANDLING
// DESIGN).
func New[I input.ConsoleInput](c console.Console[I], program Program[I], mode rollback.Mode, cfg rollback.Config, localSlots, remoteSlots []int, diagCapacity int) (*Loop[I], error) {
	specs := c.Specs()
	diag := diagnostics.NewLog(diagCapacity)

	tables := resources.NewTables()
	instance := guest.NewInstance[I](specs.RAMLimit, diag)
	sampleRate := 48000
	audioOut, err := c.NewAudio()
	if err != nil {
		return nil, err
	}
	if sr := audioOut.SampleRate(); sr > 0 {
		sampleRate = sr
	}
	tickRate := specs.DefaultTickRate()
	engine := audio.NewEngine(tables, sampleRate)
	registry := ffi.NewRegistry[I](instance, tables, engine, diag)
	c.RegisterFFI(registry)

	graphics, err := c.NewGraphics()
	if err != nil {
		return nil, err
	}

	zero := c.NewInput()
	session := rollback.NewSession[I](mode, cfg, localSlots, remoteSlots, zero)

	l := &Loop[I]{
		console:      c,
		program:      program,
		instance:     instance,
		registry:     registry,
		engine:       engine,
		tables:       tables,
		session:      session,
		resourceMgr:  c.NewResourceManager(tables),
		graphics:     graphics,
		audioOut:     audioOut,
		diag:          diag,
		tickDuration:  time.Second / time.Duration(tickRate),
		framesPerTick: sampleRate / tickRate,
		zero:          zero,
	}
	return l, nil
}

// Diagnostics returns the shared diagnostic log, for a debug overlay to
// read.
func (l *Loop[I]) Diagnostics() *diagnostics.Log { return l.diag }

// Session returns the rollback session, so a transport can be attached
// for P2P mode or a replay/record layer can observe confirmed ticks.
func (l *Loop[I]) Session() *rollback.Session[I] { return l.session }

// Boot runs the guest's init (and, if the console needs a handshake,
// waits for Connect to run post-connect) and flushes whatever resources
// init recorded to the real Graphics/Audio collaborators — the one
// permitted post-init upload window (spec.md §4.2 two-phase upload).
func (l *Loop[I]) Boot() error {
	if err := l.program.Init(l.registry); err != nil {
		return err
	}
	if !l.program.HasPostConnect() {
		l.instance.MarkInitDone()
		return l.flushUploads()
	}
	return nil
}

// ConfigureSession tells the guest how many players are seated and which
// are local, once match setup has resolved them (spec.md §4.1
// "configure_session(player_count, local_mask)"). Called after Boot and
// before Connect.
func (l *Loop[I]) ConfigureSession(playerCount int, localMask uint8) error {
	return l.program.ConfigureSession(l.registry, playerCount, localMask)
}

// Connect runs the guest's post-connect phase, for consoles whose
// Program.HasPostConnect is true (spec.md §4.1 two-phase init). The loop
// calls this once session parameters (player count, local mask) are
// known.
func (l *Loop[I]) Connect() error {
	if err := l.program.PostConnect(l.registry); err != nil {
		return err
	}
	l.instance.MarkInitDone()
	return l.flushUploads()
}

func (l *Loop[I]) flushUploads() error {
	uploads := l.instance.Staging.Uploads
	if len(uploads) == 0 {
		return nil
	}
	if err := l.resourceMgr.FlushPendingUploads(uploads, l.graphics, l.audioOut); err != nil {
		return err
	}
	l.instance.Staging.Uploads = l.instance.Staging.Uploads[:0]
	return nil
}
