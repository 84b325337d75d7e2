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

// Package saves implements the atomic, file-backed Save Store (spec.md
// §6, §13.1): four length-prefixed slot payloads behind a magic/version
// header, written through a write-temp-then-rename pattern so a crash
// mid-write never corrupts the file a player already has.
//
// Grounded on the teacher's database/session.go file-session lifecycle
// (open, read-whole, curated.Errorf-wrapped failures) generalised from a
// CSV run-log to a fixed binary slot format.
package saves

import (
	"encoding/binary"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/nethercore/nethercore/curated"
)

const (
	magic        = "NCSV"
	version      = uint32(1)
	slotCount    = 4
	emptySlot    = uint32(0xFFFFFFFF)
	headerSize   = 8 // magic + version
	slotLenSize  = 4
	// MaxSaveSize bounds any single slot's payload; a length exceeding
	// this is rejected by Write rather than trusted from guest-supplied
	// data (spec.md §6 "Length > MAX_SAVE_SIZE ⇒ reject").
	MaxSaveSize = 1 << 16 // 64 KiB
)

// Store holds up to slotCount independent save-slot payloads. A nil
// entry means the slot is absent (spec.md §13.1 "0xFFFFFFFF sentinel
// for absent slot").
type Store struct {
	Slots [slotCount][]byte
}

// NewStore returns an empty store with every slot absent.
func NewStore() *Store {
	return &Store{}
}

// Load reads path and parses it as a Save Store file. A missing file, a
// magic/version mismatch, or mid-slot corruption all return an empty
// store rather than an error, per spec.md §6: "Magic/version mismatch
// ⇒ treat as empty store (not fatal). Corruption mid-slot ⇒ empty
// store." Load only returns an error for an I/O failure other than
// "file does not exist".
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewStore(), nil
	}
	if err != nil {
		return nil, curated.Errorf("saves: reading %s: %v", path, err)
	}

	store, ok := parse(raw)
	if !ok {
		log.Warn().Str("path", path).Msg("save store header or slot corrupt, treating as empty")
		return NewStore(), nil
	}
	return store, nil
}

func parse(raw []byte) (*Store, bool) {
	if len(raw) < headerSize || string(raw[0:4]) != magic {
		return nil, false
	}
	if binary.LittleEndian.Uint32(raw[4:8]) != version {
		return nil, false
	}

	store := NewStore()
	off := headerSize
	for i := 0; i < slotCount; i++ {
		if off+slotLenSize > len(raw) {
			return nil, false
		}
		length := binary.LittleEndian.Uint32(raw[off:])
		off += slotLenSize
		if length == emptySlot {
			continue
		}
		if off+int(length) > len(raw) {
			return nil, false
		}
		payload := make([]byte, length)
		copy(payload, raw[off:off+int(length)])
		store.Slots[i] = payload
		off += int(length)
	}
	return store, true
}

// Write serialises the store and atomically replaces path's contents:
// the whole file is built in memory, written to "<path>.tmp", fsynced,
// then renamed over path (spec.md §6). Any slot exceeding MaxSaveSize is
// rejected.
func (s *Store) Write(path string) error {
	for i, slot := range s.Slots {
		if len(slot) > MaxSaveSize {
			return curated.Errorf("saves: slot %d exceeds max save size %d bytes", i, MaxSaveSize)
		}
	}

	buf := s.serialize()

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return curated.Errorf("saves: creating %s: %v", tmp, err)
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return curated.Errorf("saves: writing %s: %v", tmp, err)
	}
	if err := fsyncFile(f); err != nil {
		f.Close()
		return curated.Errorf("saves: fsyncing %s: %v", tmp, err)
	}
	if err := f.Close(); err != nil {
		return curated.Errorf("saves: closing %s: %v", tmp, err)
	}

	if runtime.GOOS == "windows" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return curated.Errorf("saves: removing existing %s: %v", path, err)
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		return curated.Errorf("saves: renaming %s over %s: %v", tmp, path, err)
	}
	return nil
}

func (s *Store) serialize() []byte {
	total := headerSize
	for _, slot := range s.Slots {
		total += slotLenSize
		if slot != nil {
			total += len(slot)
		}
	}

	buf := make([]byte, total)
	copy(buf[0:4], magic)
	binary.LittleEndian.PutUint32(buf[4:8], version)

	off := headerSize
	for _, slot := range s.Slots {
		if slot == nil {
			binary.LittleEndian.PutUint32(buf[off:], emptySlot)
			off += slotLenSize
			continue
		}
		binary.LittleEndian.PutUint32(buf[off:], uint32(len(slot)))
		off += slotLenSize
		copy(buf[off:], slot)
		off += len(slot)
	}
	return buf
}
