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

package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/runtime/session"
)

func TestEncodeDecodeParamsRoundtrip(t *testing.T) {
	p := session.SessionParams{
		Socket:      session.SocketParams{BindPort: 7777, PeerPort: 7778},
		PlayerCount: 2,
		LocalPlayer: 1,
		LocalMask:   0x2,
		RandomSeed:  0x1122334455667788,
		InputDelay:  2,
	}
	buf := session.EncodeParams(p)
	decoded, err := session.DecodeParams(buf)
	nettest.ExpectSuccess(t, err)
	nettest.ExpectEquality(t, decoded, p)
}

func TestDecodeParamsRejectsTruncatedBuffer(t *testing.T) {
	buf := session.EncodeParams(session.SessionParams{})
	_, err := session.DecodeParams(buf[:len(buf)-1])
	nettest.ExpectFailure(t, err)
}

func TestDecodeParamsRejectsBadMagic(t *testing.T) {
	buf := session.EncodeParams(session.SessionParams{})
	buf[0] = 'X'
	_, err := session.DecodeParams(buf)
	nettest.ExpectFailure(t, err)
}

func TestLoadParamsFileDeletesOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.params")
	want := session.SessionParams{
		Socket:      session.SocketParams{BindPort: 1234, PeerPort: 1235},
		PlayerCount: 2,
		LocalPlayer: 0,
		LocalMask:   0x1,
		RandomSeed:  42,
		InputDelay:  1,
	}
	nettest.ExpectSuccess(t, os.WriteFile(path, session.EncodeParams(want), 0o600))

	got, err := session.LoadParamsFile(path)
	nettest.ExpectSuccess(t, err)
	nettest.ExpectEquality(t, got, want)

	_, statErr := os.Stat(path)
	nettest.ExpectFailure(t, statErr)
}

func TestLoadParamsFileLeavesUnparseableFileInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.params")
	nettest.ExpectSuccess(t, os.WriteFile(path, []byte("not a params file"), 0o600))

	_, err := session.LoadParamsFile(path)
	nettest.ExpectFailure(t, err)

	_, statErr := os.Stat(path)
	nettest.ExpectSuccess(t, statErr)
}
