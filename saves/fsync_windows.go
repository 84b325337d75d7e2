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

//go:build windows

package saves

import "os"

// fsyncFile uses os.File.Sync on Windows: golang.org/x/sys/unix's Fsync
// is not available there, and os.File.Sync already calls FlushFileBuffers.
func fsyncFile(f *os.File) error {
	return f.Sync()
}
