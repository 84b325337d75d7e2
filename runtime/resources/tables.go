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

package resources

// Tables bundles every resource table plus the shared handle allocator.
// One Tables instance exists per loaded game; it is owned by the main
// thread and only read by any audio thread (spec.md §5 Shared-resource
// policy).
type Tables struct {
	Handles *Handles

	Textures  *Table[*Texture]
	Meshes    *Table[*Mesh]
	Sounds    *Table[*Sound]
	Fonts     *Table[*Font]
	Trackers  *Table[*TrackerModule]
}

// NewTables creates an empty resource set and installs the built-in
// fallback handles (checkerboard texture, white texture, default font)
// that are never cleared by ClearForNewGame (spec.md §3).
func NewTables() *Tables {
	t := &Tables{
		Handles:  NewHandles(),
		Textures: NewTable[*Texture](),
		Meshes:   NewTable[*Mesh](),
		Sounds:   NewTable[*Sound](),
		Fonts:    NewTable[*Font](),
		Trackers: NewTable[*TrackerModule](),
	}
	t.installBuiltins()
	return t
}

const (
	checkerboardTextureHandle = uint32(1)
	whiteTextureHandle        = uint32(2)
	defaultFontHandle         = uint32(3)
)

func (t *Tables) installBuiltins() {
	// consume the handles so later allocations never collide with them
	for i := uint32(0); i < 3; i++ {
		t.Handles.Allocate()
	}

	t.Textures.SetBuiltin(checkerboardTextureHandle, checkerboard())
	t.Textures.SetBuiltin(whiteTextureHandle, whitePixel())
	t.Fonts.SetBuiltin(defaultFontHandle, &Font{Glyphs: map[rune]GlyphMetrics{}})
}

// CheckerboardHandle is the always-available fallback texture handle.
func CheckerboardHandle() uint32 { return checkerboardTextureHandle }

// WhiteHandle is the always-available solid-white texture handle.
func WhiteHandle() uint32 { return whiteTextureHandle }

// DefaultFontHandle is the always-available fallback font handle.
func DefaultFontHandle() uint32 { return defaultFontHandle }

func checkerboard() *Texture {
	const n = 8
	px := make([]byte, n*n*4)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := (y*n + x) * 4
			if (x+y)%2 == 0 {
				px[i], px[i+1], px[i+2], px[i+3] = 0xff, 0x00, 0xff, 0xff
			} else {
				px[i], px[i+1], px[i+2], px[i+3] = 0x00, 0x00, 0x00, 0xff
			}
		}
	}
	return &Texture{Width: n, Height: n, Format: FormatRGBA8, Pixels: px}
}

func whitePixel() *Texture {
	return &Texture{Width: 1, Height: 1, Format: FormatRGBA8, Pixels: []byte{0xff, 0xff, 0xff, 0xff}}
}

// ClearForNewGame wipes every non-built-in resource and rewinds the handle
// allocator back past the built-ins, ready for a freshly loaded game
// (spec.md §3 "clear-on-init" discipline).
func (t *Tables) ClearForNewGame() {
	t.Textures.Clear()
	t.Meshes.Clear()
	t.Sounds.Clear()
	t.Fonts.Clear()
	t.Trackers.Clear()
	t.Handles.Reset()
	for i := uint32(0); i < 3; i++ {
		t.Handles.Allocate()
	}
}
