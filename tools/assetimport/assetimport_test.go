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

package assetimport_test

import (
	"testing"

	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/tools/assetimport"
)

func TestPCMEncodeProducesLittleEndianFloat32Blob(t *testing.T) {
	pcm := assetimport.PCM{
		Samples:    []float32{1.0, -1.0, 0.5},
		SampleRate: 44100,
		Channels:   1,
	}
	blob := pcm.Encode()
	nettest.ExpectEquality(t, len(blob), 12)

	// first sample, 1.0f, little-endian IEEE754: 00 00 80 3f
	nettest.ExpectEquality(t, blob[0], byte(0x00))
	nettest.ExpectEquality(t, blob[3], byte(0x3f))
}

func TestDecodeWAVRejectsNonSeekableReader(t *testing.T) {
	_, err := assetimport.DecodeWAV(nonSeekable{})
	nettest.ExpectFailure(t, err)
}

type nonSeekable struct{}

func (nonSeekable) Read(p []byte) (int, error) { return 0, nil }
