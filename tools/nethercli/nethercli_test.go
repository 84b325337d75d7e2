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

package nethercli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/tools/nethercli"
)

type fakeHost struct {
	vars        map[string]nethercli.DebugVariable
	setCalls    []string
	actionCalls []string
}

func (h *fakeHost) DebugVariables() map[string]nethercli.DebugVariable { return h.vars }

func (h *fakeHost) SetDebugVariable(name string, value float64) error {
	h.setCalls = append(h.setCalls, name)
	v := h.vars[name]
	v.Value = value
	h.vars[name] = v
	return nil
}

func (h *fakeHost) CallAction(name string) error {
	h.actionCalls = append(h.actionCalls, name)
	return nil
}

func TestREPLSetUpdatesVariableAndCallInvokesAction(t *testing.T) {
	host := &fakeHost{vars: map[string]nethercli.DebugVariable{
		"speed": {Name: "speed", Value: 1, Min: 0, Max: 2},
	}}

	input := strings.NewReader("set speed 1.5\ncall fire\nquit\n")
	var out bytes.Buffer
	repl := nethercli.NewREPL(host, input, &out)

	nettest.ExpectSuccess(t, repl.Run())
	nettest.ExpectEquality(t, host.setCalls, []string{"speed"})
	nettest.ExpectEquality(t, host.vars["speed"].Value, 1.5)
	nettest.ExpectEquality(t, host.actionCalls, []string{"fire"})
}

func TestREPLReportsUnknownCommand(t *testing.T) {
	host := &fakeHost{vars: map[string]nethercli.DebugVariable{}}
	input := strings.NewReader("frobnicate\nquit\n")
	var out bytes.Buffer
	repl := nethercli.NewREPL(host, input, &out)

	nettest.ExpectSuccess(t, repl.Run())
	if !strings.Contains(out.String(), `unknown command "frobnicate"`) {
		t.Fatalf("expected unknown-command message, got %q", out.String())
	}
}
