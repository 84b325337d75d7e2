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

//go:build !windows

package saves

import (
	"os"

	"golang.org/x/sys/unix"
)

// fsyncFile flushes f's data to the underlying device via the raw
// syscall rather than os.File.Sync, so a slot write survives a crash
// the moment Write's rename returns.
func fsyncFile(f *os.File) error {
	return unix.Fsync(int(f.Fd()))
}
