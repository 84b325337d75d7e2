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

// Package input defines the external input contract (spec.md EXTERNAL
// INTERFACES) and the per-console bit-exact input payload contract
// (spec.md §4.6 ConsoleInput). It is a leaf package: every other runtime
// package depends on it, it depends on nothing in this module, so that the
// FFI registry and the Console capability bundle can both be generic over
// a concrete ConsoleInput type without an import cycle.
package input

import "github.com/nethercore/nethercore/curated"

var errDecodeTypeMismatch = curated.Errorf("input: decoded value does not match the expected console input type")

// RawInput is what an input collaborator delivers once per tick, before any
// console-specific mapping.
type RawInput struct {
	// digital buttons
	Up, Down, Left, Right bool
	A, B, X, Y            bool

	// shoulder bumpers and stick clicks
	LeftBumper, RightBumper bool
	LeftStickClick          bool
	RightStickClick         bool

	Start, Select bool

	// analog stick axes, each in [-1.0, 1.0]
	LeftStickX, LeftStickY   float32
	RightStickX, RightStickY float32

	// analog triggers, each in [0.0, 1.0]
	LeftTrigger, RightTrigger float32
}

// ConsoleInput is a console's own bit-exact input payload: plain old data,
// equality-comparable, serialisable, and of a fixed size known ahead of
// time, since it is carried as a rollback payload (spec.md §4.6).
type ConsoleInput interface {
	comparable

	// Size is the number of bytes MarshalInput always produces, regardless
	// of the value's contents. Rollback relies on this being constant so a
	// predicted input and a confirmed input can be compared/stored without
	// varying allocation.
	Size() int

	// MarshalInput writes the deterministic wire form of the input.
	MarshalInput() []byte

	// UnmarshalInput decodes a wire form written by MarshalInput and
	// returns the decoded value. It returns a ConsoleInput rather than
	// mutating the receiver so that value types (the common case, since
	// ConsoleInput values are stored and compared by value throughout
	// rollback) can implement it without a pointer receiver, which a
	// value type used as a generic type argument can never satisfy. It
	// is an error for buf to be shorter than Size().
	UnmarshalInput(buf []byte) (ConsoleInput, error)
}

// ReplayField describes one field of a console's ConsoleInput layout, for
// the out-of-core-scope replay script system (spec.md §4.6).
type ReplayField struct {
	Name   string
	Offset int
	Width  int
}

// Decode unmarshals buf into the concrete ConsoleInput type I, using
// zero's UnmarshalInput as the entry point. zero only supplies the method
// set; its value is discarded. Callers that already hold a decode
// function of this exact shape (e.g. a rollback Session configured via
// SetDecoder) should prefer that instead; Decode exists for code that
// only has a zero value of I in hand, such as the simulation loop
// deserialising a composed snapshot.
func Decode[I ConsoleInput](buf []byte, zero I) (I, error) {
	var out I
	decoded, err := zero.UnmarshalInput(buf)
	if err != nil {
		return out, err
	}
	v, ok := decoded.(I)
	if !ok {
		return out, errDecodeTypeMismatch
	}
	return v, nil
}
