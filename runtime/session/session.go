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

// Package session resolves the launch/session-setup surface (spec.md §6)
// into the rollback.Mode/Config a Loop is built with. It is deliberately
// thin: the handshake it runs for Host/Join is just enough to agree on
// player slots and a shared random seed over loopback/LAN, grounded on the
// teacher's environment.Environment (a small, label-free setup bundle the
// rest of the emulation is handed) and on original_source's NchsSocket
// bind/poll/wait_for handshake idiom, generalised from Rust's NCHS protocol
// messages to a single request/ack pair.
package session

import (
	"github.com/nethercore/nethercore/curated"
	"github.com/nethercore/nethercore/runtime/rollback"
)

// Mode is the launch/session-setup surface a platform front-end presents
// to a player (spec.md §6). Exactly one concrete type satisfies it.
type Mode interface {
	isMode()
}

// Local runs with no network: a single local player, no rollback
// confirmation ever needed.
type Local struct{}

// SyncTest self-checks determinism every tick by replaying the last
// CheckDistance ticks from a retained snapshot and comparing checksums
// (spec.md §4.4's SyncTest mode). CheckDistance becomes the session's
// HistoryDepth.
type SyncTest struct {
	CheckDistance int
}

// P2P is a direct two-peer session with already-known ports: the caller
// has negotiated addresses out of band (LAN discovery, a lobby server,
// manual entry) and just needs the transport wired.
type P2P struct {
	BindPort    int
	PeerPort    int
	LocalPlayer int
}

// Host listens on Port for a single joiner, then runs the handshake as the
// authority: it assigns the joiner's player slot and picks the shared
// random seed.
type Host struct {
	Port int
}

// Join connects to a host at Address and waits for its handshake ack.
type Join struct {
	Address string
}

// FromFile reads pre-negotiated parameters from a file a matchmaking
// collaborator produced out of process, consuming it on success (spec.md
// §6 "file is consumed... so a stale file cannot rejoin stale lobbies").
type FromFile struct {
	Path string
}

func (Local) isMode()    {}
func (SyncTest) isMode() {}
func (P2P) isMode()      {}
func (Host) isMode()     {}
func (Join) isMode()     {}
func (FromFile) isMode() {}

// Plan is what a Mode resolves to: the rollback mode/config and slot
// assignment a Loop is built with, plus the transport parameters to wire
// afterward for modes that need one.
type Plan struct {
	RollbackMode rollback.Mode
	Config       rollback.Config
	LocalSlots   []int
	RemoteSlots  []int

	// NeedsTransport is true for any mode that exchanges rollback input
	// over UDP (P2P, Host, Join and FromFile).
	NeedsTransport bool
	BindPort       int
	PeerPort       int

	// RandomSeed seeds the guest's deterministic PRNG (spec.md §4.1
	// GameState.RandomSeed). Host/Join/FromFile agree on one so both
	// peers simulate from the same seed; Local and SyncTest pick any
	// fixed value since there is no peer to disagree with.
	RandomSeed uint64
}

// Resolve turns a launch Mode into a Plan. Host and Join block on the
// handshake described in handshake.go; Local, SyncTest and a P2P mode with
// known ports resolve immediately.
func Resolve(mode Mode) (Plan, error) {
	switch m := mode.(type) {
	case Local:
		return Plan{RollbackMode: rollback.ModeLocal, Config: rollback.DefaultConfig(), LocalSlots: []int{0}}, nil

	case SyncTest:
		cfg := rollback.DefaultConfig()
		if m.CheckDistance > 0 {
			cfg.HistoryDepth = m.CheckDistance
		}
		return Plan{RollbackMode: rollback.ModeSyncTest, Config: cfg, LocalSlots: []int{0}}, nil

	case P2P:
		other := 1 - m.LocalPlayer
		if m.LocalPlayer != 0 && m.LocalPlayer != 1 {
			return Plan{}, curated.Errorf("session: P2P local player must be 0 or 1, got %d", m.LocalPlayer)
		}
		return Plan{
			RollbackMode:   rollback.ModeP2P,
			Config:         rollback.DefaultConfig(),
			LocalSlots:     []int{m.LocalPlayer},
			RemoteSlots:    []int{other},
			NeedsTransport: true,
			BindPort:       m.BindPort,
			PeerPort:       m.PeerPort,
		}, nil

	case Host:
		return resolveHost(m)

	case Join:
		return resolveJoin(m)

	case FromFile:
		params, err := LoadParamsFile(m.Path)
		if err != nil {
			return Plan{}, err
		}
		return planFromParams(params), nil

	default:
		return Plan{}, curated.Errorf("session: unknown launch mode %T", mode)
	}
}

func planFromParams(p SessionParams) Plan {
	local := []int{p.LocalPlayer}
	var remote []int
	for slot := 0; slot < p.PlayerCount; slot++ {
		if slot != p.LocalPlayer {
			remote = append(remote, slot)
		}
	}
	cfg := rollback.DefaultConfig()
	cfg.InputDelay = p.InputDelay
	return Plan{
		RollbackMode:   rollback.ModeP2P,
		Config:         cfg,
		LocalSlots:     local,
		RemoteSlots:    remote,
		NeedsTransport: true,
		BindPort:       p.Socket.BindPort,
		PeerPort:       p.Socket.PeerPort,
		RandomSeed:     p.RandomSeed,
	}
}
