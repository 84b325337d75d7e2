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

// Package nettest is a small assertion helper used by every _test.go file in
// this module, in place of a third-party assertion library.
package nettest

import (
	"reflect"
	"testing"
)

// ExpectSuccess fails the test if v represents a failure. v may be a bool
// (false is a failure), an error (non-nil is a failure), or nil (treated as
// success).
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	if isFailure(v) {
		t.Errorf("unexpected failure: %v", v)
	}
}

// ExpectFailure fails the test if v does not represent a failure.
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	if !isFailure(v) {
		t.Errorf("expected failure, got: %v", v)
	}
}

// ExpectEquality fails the test if a and b are not deeply equal.
func ExpectEquality(t *testing.T, a, b interface{}) {
	t.Helper()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected equality:\n\tgot:  %#v\n\twant: %#v", a, b)
	}
}

// ExpectInequality fails the test if a and b are deeply equal.
func ExpectInequality(t *testing.T, a, b interface{}) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		t.Errorf("expected inequality, both were: %#v", a)
	}
}

func isFailure(v interface{}) bool {
	if v == nil {
		return false
	}
	switch x := v.(type) {
	case bool:
		return !x
	case error:
		return x != nil
	default:
		return false
	}
}
