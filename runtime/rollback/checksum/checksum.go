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

// Package checksum computes SHA-1 digests of snapshot bytes for the
// rollback Session's SyncTest determinism checking (spec.md §4.4, §8
// properties 3 and 7): replay the same ticks twice and confirm the
// digests match bit-for-bit.
//
// Grounded on the teacher's digest package (digest.Digest interface,
// SHA-1-over-state-bytes), repurposed from golden-file regression
// testing to live resimulation-vs-original equivalence checking.
package checksum

import "crypto/sha1"

// Digest is a SHA-1 hash of one snapshot.
type Digest [sha1.Size]byte

// Of hashes buf.
func Of(buf []byte) Digest {
	return sha1.Sum(buf)
}

// Equal reports whether two digests match.
func (d Digest) Equal(other Digest) bool {
	return d == other
}

func (d Digest) String() string {
	const hex = "0123456789abcdef"
	out := make([]byte, len(d)*2)
	for i, b := range d {
		out[i*2] = hex[b>>4]
		out[i*2+1] = hex[b&0xf]
	}
	return string(out)
}
