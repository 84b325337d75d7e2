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

// Package statshost exposes a live runtime-stats dashboard (goroutine
// count, GC pauses, heap size) over HTTP via go-echarts/statsview, for
// diagnosing a long-running dedicated session host. Nothing in the
// retrieved pack's own runtime exposes HTTP introspection the teacher's
// way; statsview is adopted from the wider example pack's dependency set
// (DESIGN.md) rather than from the teacher itself.
package statshost

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Host runs a statsview dashboard bound to one address until Stop is
// called.
type Host struct {
	mgr *statsview.Manager
}

// New configures the dashboard's bind address (e.g. ":18066", statsview's
// own default) and theme. The dashboard is not started until Start is
// called.
func New(addr string) *Host {
	viewer.SetConfiguration(viewer.WithAddr(addr), viewer.WithTheme(viewer.ThemeWesteros))
	return &Host{mgr: statsview.New()}
}

// Start runs the dashboard's HTTP server in the background. Returns
// immediately; call Stop to shut it down.
func (h *Host) Start() {
	go h.mgr.Start()
}

// Stop shuts the dashboard down. Safe to call even if Start was never
// called.
func (h *Host) Stop() {
	h.mgr.Stop()
}
