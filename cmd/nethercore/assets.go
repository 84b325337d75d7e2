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
	"strings"

	"github.com/spf13/cobra"

	"github.com/nethercore/nethercore/tools/assetimport"
)

func newAssetsCmd() *cobra.Command {
	assets := &cobra.Command{
		Use:   "assets",
		Short: "Offline asset conversion tools",
	}
	assets.AddCommand(newAssetsConvertCmd())
	return assets
}

// newAssetsConvertCmd wires tools/assetimport's WAV/MP3 decoders to a
// file pair: it has no other caller in this tree, since a guest cartridge
// only ever embeds the already-converted blob a create_sound upload
// expects (tools/assetimport's own package doc comment).
func newAssetsConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a WAV or MP3 file to the raw float32 PCM blob create_sound expects",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]

			f, err := os.Open(in)
			if err != nil {
				return fmt.Errorf("nethercore: open %s: %w", in, err)
			}
			defer f.Close()

			var pcm assetimport.PCM
			switch {
			case strings.HasSuffix(strings.ToLower(in), ".mp3"):
				pcm, err = assetimport.DecodeMP3(f)
			default:
				pcm, err = assetimport.DecodeWAV(f)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, pcm.Encode(), 0o644); err != nil {
				return fmt.Errorf("nethercore: write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d samples at %d Hz, %d channel(s)\n", len(pcm.Samples), pcm.SampleRate, pcm.Channels)
			return nil
		},
	}
	return cmd
}
