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

// Command nethercore is the reference desktop front-end: it resolves a
// launch mode (spec.md §6) into a rollback session, boots the zx
// reference console and its demo cartridge, and drives the render/input
// loop through an SDL window. Grounded on the teacher's own flat
// command-dispatch entry point (gopher2600.go) and helixml-helix's
// cobra-based cmd/helix layout, since the teacher itself never reaches
// for a CLI framework.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nethercore",
		Short: "Nethercore",
		Long:  "A deterministic fantasy-console runtime with rollback netplay.",
	}

	root.PersistentFlags().String("log-level", getDefaultOptionString("NETHERCORE_LOG_LEVEL", "info"), "trace, debug, info, warn, error")

	root.AddCommand(newPlayCmd())
	root.AddCommand(newAssetsCmd())
	root.AddCommand(newResolveCmd())

	return root
}

func setupLogging(levelName string) {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

func execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("nethercore: fatal error")
	}
}
