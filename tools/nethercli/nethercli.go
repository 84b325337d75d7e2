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

// Package nethercli is a headless debug console for a running simulation:
// list/edit registered debug variables and invoke actions from a terminal,
// without the GL/SDL/imgui overlay. Grounded on the teacher's own
// command-dispatch style in gopher2600.go (a flat table of named commands
// parsed from a line of input) and github.com/pkg/term's raw-mode idiom for
// reading single keystrokes without the terminal driver buffering a whole
// line.
package nethercli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/term"
)

// Host is the subset of sim.Loop the console drives, kept free of sim's
// ConsoleInput type parameter the same way platform/debugui.Host is.
type Host interface {
	DebugVariables() map[string]DebugVariable
	SetDebugVariable(name string, value float64) error
	CallAction(name string) error
}

// DebugVariable is the read-only view of a registered debug variable this
// package prints; callers adapt guest.DebugVariable to this shape so
// nethercli never imports the guest package directly.
type DebugVariable struct {
	Name       string
	Value      float64
	Min, Max   float64
}

// REPL reads commands from r and writes prompts/output to w until r is
// exhausted or the user types "quit".
type REPL struct {
	host Host
	in   *bufio.Scanner
	out  io.Writer
}

// NewREPL builds a console reading lines from r.
func NewREPL(host Host, r io.Reader, w io.Writer) *REPL {
	return &REPL{host: host, in: bufio.NewScanner(r), out: w}
}

// Run processes commands until EOF or "quit". Recognised commands:
//
//	list                 print every registered debug variable
//	set <name> <value>   clamp-assign a debug variable
//	call <name>          invoke an action with no arguments
//	quit                 stop the REPL
func (c *REPL) Run() error {
	for {
		fmt.Fprint(c.out, "nether> ")
		if !c.in.Scan() {
			return c.in.Err()
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "list":
			c.list()
		case "set":
			c.set(fields)
		case "call":
			c.call(fields)
		default:
			fmt.Fprintf(c.out, "unknown command %q\n", fields[0])
		}
	}
}

func (c *REPL) list() {
	for name, v := range c.host.DebugVariables() {
		fmt.Fprintf(c.out, "%s = %g [%g, %g]\n", name, v.Value, v.Min, v.Max)
	}
}

func (c *REPL) set(fields []string) {
	if len(fields) != 3 {
		fmt.Fprintln(c.out, "usage: set <name> <value>")
		return
	}
	value, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		fmt.Fprintf(c.out, "bad value %q: %s\n", fields[2], err)
		return
	}
	if err := c.host.SetDebugVariable(fields[1], value); err != nil {
		fmt.Fprintf(c.out, "set failed: %s\n", err)
	}
}

func (c *REPL) call(fields []string) {
	if len(fields) != 2 {
		fmt.Fprintln(c.out, "usage: call <name>")
		return
	}
	if err := c.host.CallAction(fields[1]); err != nil {
		fmt.Fprintf(c.out, "call failed: %s\n", err)
	}
}

// RawTerminal puts the process's controlling terminal into raw mode for
// the duration of fn, restoring the previous mode on return. Used to read
// a single keystroke (e.g. a "pause" hotkey) without line buffering,
// outside of REPL's line-oriented command mode.
func RawTerminal(fn func(t *term.Term) error) error {
	t, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return fmt.Errorf("nethercli: open tty: %w", err)
	}
	defer t.Restore()
	defer t.Close()

	return fn(t)
}
