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
	"strings"

	"github.com/spf13/cobra"

	"github.com/nethercore/nethercore/runtime/library"
)

func newResolveCmd() *cobra.Command {
	var catalog string

	cmd := &cobra.Command{
		Use:   "resolve <partial-id>",
		Short: "Resolve a partial game id against a comma-separated catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := strings.Split(catalog, ",")
			match, err := library.ResolveGameID(ids, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), match)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", getDefaultOptionString("NETHERCORE_CATALOG", ""), "comma-separated list of known game ids")
	return cmd
}
