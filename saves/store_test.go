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

package saves_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/saves"
)

func TestLoadMissingFileIsEmptyStore(t *testing.T) {
	s, err := saves.Load(filepath.Join(t.TempDir(), "does-not-exist.ncs"))
	nettest.ExpectSuccess(t, err)
	for i, slot := range s.Slots {
		nettest.ExpectEquality(t, slot == nil, true)
		_ = i
	}
}

func TestWriteLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.ncs")
	s := saves.NewStore()
	s.Slots[0] = []byte("hello")
	s.Slots[2] = []byte{1, 2, 3, 4, 5, 6, 7}

	nettest.ExpectSuccess(t, s.Write(path))

	loaded, err := saves.Load(path)
	nettest.ExpectSuccess(t, err)
	nettest.ExpectEquality(t, loaded.Slots[0], []byte("hello"))
	nettest.ExpectEquality(t, loaded.Slots[1] == nil, true)
	nettest.ExpectEquality(t, loaded.Slots[2], []byte{1, 2, 3, 4, 5, 6, 7})
	nettest.ExpectEquality(t, loaded.Slots[3] == nil, true)
}

func TestBadMagicIsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.ncs")
	nettest.ExpectSuccess(t, os.WriteFile(path, []byte("NOPE0000"), 0o644))

	loaded, err := saves.Load(path)
	nettest.ExpectSuccess(t, err)
	for _, slot := range loaded.Slots {
		nettest.ExpectEquality(t, slot == nil, true)
	}
}

func TestOversizeSlotRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.ncs")
	s := saves.NewStore()
	s.Slots[0] = make([]byte, saves.MaxSaveSize+1)

	nettest.ExpectFailure(t, s.Write(path))
}

func TestTempFileNotLeftBehindOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "save.ncs")
	s := saves.NewStore()
	nettest.ExpectSuccess(t, s.Write(path))

	_, err := os.Stat(path + ".tmp")
	nettest.ExpectEquality(t, os.IsNotExist(err), true)
}
