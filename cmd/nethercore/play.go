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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nethercore/nethercore/consoles/zx"
	"github.com/nethercore/nethercore/consoles/zx/demo"
	"github.com/nethercore/nethercore/platform/debugui"
	"github.com/nethercore/nethercore/platform/glgraphics"
	"github.com/nethercore/nethercore/platform/sdlhost"
	"github.com/nethercore/nethercore/platform/statshost"
	"github.com/nethercore/nethercore/runtime/console"
	"github.com/nethercore/nethercore/runtime/input"
	"github.com/nethercore/nethercore/runtime/session"
	"github.com/nethercore/nethercore/runtime/sim"
	"github.com/nethercore/nethercore/tools/nethercli"
	"github.com/nethercore/nethercore/tools/rollbackviz"
)

// playOptions collects every flag newPlayCmd exposes, named the way the
// cobra-based grounding example keeps a flat options struct per command.
type playOptions struct {
	mode string

	bindPort    int
	peerPort    int
	localPlayer int
	hostPort    int
	joinAddress string
	paramsFile  string
	checkDist   int

	width, height int
	statsAddr     string
	debugOverlay  bool
	headlessCLI   bool

	diagCapacity     int
	rollbackVizPath  string
	rollbackVizEvery time.Duration
}

func newPlayOptions() *playOptions {
	return &playOptions{
		mode:             getDefaultOptionString("NETHERCORE_MODE", "local"),
		bindPort:         getDefaultOptionInt("NETHERCORE_BIND_PORT", 9000),
		peerPort:         getDefaultOptionInt("NETHERCORE_PEER_PORT", 9001),
		checkDist:        8,
		width:            960,
		height:           540,
		statsAddr:        getDefaultOptionString("NETHERCORE_STATS_ADDR", ""),
		diagCapacity:     512,
		rollbackVizEvery: time.Second,
	}
}

func newPlayCmd() *cobra.Command {
	opts := newPlayOptions()

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run the reference zx console with the demo cartridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			setupLogging(level)
			return runPlay(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.mode, "mode", opts.mode, "local, synctest, p2p, host, join, file")
	flags.IntVar(&opts.bindPort, "bind-port", opts.bindPort, "p2p: local UDP port")
	flags.IntVar(&opts.peerPort, "peer-port", opts.peerPort, "p2p: remote UDP port")
	flags.IntVar(&opts.localPlayer, "local-player", opts.localPlayer, "p2p: 0 or 1")
	flags.IntVar(&opts.hostPort, "host-port", opts.hostPort, "host: port to listen on")
	flags.StringVar(&opts.joinAddress, "join-address", opts.joinAddress, "join: host address to connect to")
	flags.StringVar(&opts.paramsFile, "params-file", opts.paramsFile, "file: pre-negotiated session parameters")
	flags.IntVar(&opts.checkDist, "check-distance", opts.checkDist, "synctest: ticks between determinism checks")
	flags.IntVar(&opts.width, "width", opts.width, "window width")
	flags.IntVar(&opts.height, "height", opts.height, "window height")
	flags.StringVar(&opts.statsAddr, "stats-addr", opts.statsAddr, "bind address for the runtime stats dashboard, empty disables it")
	flags.BoolVar(&opts.debugOverlay, "debug", opts.debugOverlay, "show the imgui debug variable overlay")
	flags.BoolVar(&opts.headlessCLI, "cli", opts.headlessCLI, "also run a headless debug REPL on stdin")
	flags.StringVar(&opts.rollbackVizPath, "rollback-viz", opts.rollbackVizPath, "file to append periodic rollback session graphs to, empty disables it")
	flags.DurationVar(&opts.rollbackVizEvery, "rollback-viz-interval", opts.rollbackVizEvery, "how often to sample the rollback session for --rollback-viz")

	return cmd
}

func resolveMode(opts *playOptions) (session.Mode, error) {
	switch opts.mode {
	case "local":
		return session.Local{}, nil
	case "synctest":
		return session.SyncTest{CheckDistance: opts.checkDist}, nil
	case "p2p":
		return session.P2P{BindPort: opts.bindPort, PeerPort: opts.peerPort, LocalPlayer: opts.localPlayer}, nil
	case "host":
		return session.Host{Port: opts.hostPort}, nil
	case "join":
		return session.Join{Address: opts.joinAddress}, nil
	case "file":
		return session.FromFile{Path: opts.paramsFile}, nil
	default:
		return nil, fmt.Errorf("nethercore: unknown mode %q", opts.mode)
	}
}

func runPlay(opts *playOptions) error {
	mode, err := resolveMode(opts)
	if err != nil {
		return err
	}
	plan, err := session.Resolve(mode)
	if err != nil {
		return fmt.Errorf("nethercore: resolving session: %w", err)
	}

	window, err := sdlhost.NewWindow(zx.Specs.Name, opts.width, opts.height)
	if err != nil {
		return fmt.Errorf("nethercore: opening window: %w", err)
	}
	defer window.Close()

	cons := zx.New(
		func() (console.Graphics, error) { return glgraphics.New(window) },
		func() (console.Audio, error) { return sdlhost.NewAudio(48000, 2) },
	)

	program := &demo.Cube{}

	loop, err := sim.New[zx.Input](cons, program, plan.RollbackMode, plan.Config, plan.LocalSlots, plan.RemoteSlots, opts.diagCapacity)
	if err != nil {
		return fmt.Errorf("nethercore: building loop: %w", err)
	}

	if plan.NeedsTransport {
		loop.Session().SetDecoder(func(buf []byte) (zx.Input, error) {
			return input.Decode[zx.Input](buf, zx.Input{})
		})
		if err := loop.Session().SetTransport(plan.BindPort, plan.PeerPort); err != nil {
			return fmt.Errorf("nethercore: wiring transport: %w", err)
		}
	}

	if err := loop.Boot(); err != nil {
		return fmt.Errorf("nethercore: boot: %w", err)
	}

	playerCount := len(plan.LocalSlots) + len(plan.RemoteSlots)
	if playerCount == 0 {
		playerCount = 1
	}
	var localMask uint8
	for _, slot := range plan.LocalSlots {
		localMask |= 1 << uint(slot)
	}
	if err := loop.ConfigureSession(playerCount, localMask); err != nil {
		return fmt.Errorf("nethercore: configure session: %w", err)
	}
	if program.HasPostConnect() {
		if err := loop.Connect(); err != nil {
			return fmt.Errorf("nethercore: post-connect: %w", err)
		}
	}

	if opts.statsAddr != "" {
		stats := statshost.New(opts.statsAddr)
		stats.Start()
		defer stats.Stop()
	}

	var overlay *debugui.Overlay
	if opts.debugOverlay {
		overlay = debugui.New(loop, []string{"epu_next_preset"})
		defer overlay.Close()
	}

	if opts.headlessCLI {
		repl := nethercli.NewREPL(cliHost{loop}, os.Stdin, os.Stdout)
		go func() {
			if err := repl.Run(); err != nil {
				log.Error().Err(err).Msg("nethercore: cli repl stopped")
			}
		}()
	}

	if opts.rollbackVizPath != "" {
		vizFile, err := os.Create(opts.rollbackVizPath)
		if err != nil {
			return fmt.Errorf("nethercore: opening rollback-viz file: %w", err)
		}
		defer vizFile.Close()

		stopViz := make(chan struct{})
		defer close(stopViz)
		go func() {
			if err := rollbackviz.Watch(vizFile, loop.Session(), opts.rollbackVizEvery, stopViz); err != nil {
				log.Error().Err(err).Msg("nethercore: rollback-viz stopped")
			}
		}()
	}

	log.Info().Str("mode", opts.mode).Int("players", playerCount).Msg("nethercore: session started")
	return runLoop(window, loop, overlay)
}

func runLoop(window *sdlhost.Window, loop *sim.Loop[zx.Input], overlay *debugui.Overlay) error {
	for {
		raw, err := window.PollInput()
		if err == sdlhost.ErrQuit {
			return nil
		}
		if err != nil {
			return fmt.Errorf("nethercore: polling input: %w", err)
		}

		if _, _, err := loop.Advance(time.Now(), map[int]input.RawInput{0: raw}); err != nil {
			return fmt.Errorf("nethercore: advancing simulation: %w", err)
		}

		if err := loop.RenderFrame(); err != nil {
			return fmt.Errorf("nethercore: rendering frame: %w", err)
		}

		if overlay != nil {
			overlay.NewFrame()
			overlay.Build(func(name string) {
				if err := loop.CallAction(name, nil); err != nil {
					log.Error().Err(err).Str("action", name).Msg("nethercore: action failed")
				}
			})
			overlay.Render()
		}
	}
}

// cliHost adapts sim.Loop to tools/nethercli.Host, whose CallAction takes
// no arguments: the headless REPL only ever drives parameterless debug
// actions (spec.md §4.2's overlay surface), unlike a guest-exported action
// a replay script might invoke with typed arguments.
type cliHost struct {
	loop *sim.Loop[zx.Input]
}

func (h cliHost) DebugVariables() map[string]nethercli.DebugVariable {
	vars := make(map[string]nethercli.DebugVariable, len(h.loop.DebugVariables()))
	for name, v := range h.loop.DebugVariables() {
		vars[name] = nethercli.DebugVariable{Name: v.Name, Value: v.Value, Min: v.Min, Max: v.Max}
	}
	return vars
}

func (h cliHost) SetDebugVariable(name string, value float64) error {
	return h.loop.SetDebugVariable(name, value)
}

func (h cliHost) CallAction(name string) error {
	return h.loop.CallAction(name, nil)
}
