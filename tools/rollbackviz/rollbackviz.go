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

// Package rollbackviz dumps a rollback.Session's internal state as a
// Graphviz graph via github.com/bradleyjkemp/memviz, the way the teacher's
// debugger package exposes internal emulation state for inspection, but
// here aimed at diagnosing rollback/netplay stalls instead of CPU state:
// a session stuck at the same Tick across polls, or Snapshots/RemoteBuf
// counts climbing without bound, is what a misbehaving peer connection
// looks like from the outside.
package rollbackviz

import (
	"fmt"
	"io"
	"time"

	"github.com/bradleyjkemp/memviz"

	"github.com/nethercore/nethercore/runtime/rollback"
)

// Dump writes d's structure graph to w in Graphviz dot format.
func Dump(w io.Writer, d rollback.Diagnostics) error {
	memviz.Map(w, &d)
	return nil
}

// Sampler is satisfied by *rollback.Session[I] for any console input type;
// a tool built around a generic Session can't name I, so it depends on
// this instead.
type Sampler interface {
	Diagnostics() rollback.Diagnostics
}

// Watch polls sampler every interval and writes a fresh dump to w each
// time, until stop is closed. Intended for a dedicated host process run
// with a --rollback-viz flag (see cmd/nethercore), not for interleaving
// with the simulation loop's own goroutine.
func Watch(w io.Writer, sampler Sampler, interval time.Duration, stop <-chan struct{}) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return nil
		case <-ticker.C:
			d := sampler.Diagnostics()
			if _, err := fmt.Fprintf(w, "// tick=%d\n", d.Tick); err != nil {
				return fmt.Errorf("rollbackviz: write: %w", err)
			}
			if err := Dump(w, d); err != nil {
				return err
			}
		}
	}
}
