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

package curated_test

import (
	"fmt"
	"testing"

	"github.com/nethercore/nethercore/curated"
	"github.com/nethercore/nethercore/internal/nettest"
)

const testError = "test error: %s"
const testErrorB = "test error B: %s"

func TestDuplicateErrors(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	nettest.ExpectEquality(t, e.Error(), "test error: foo")

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := curated.Errorf(testError, e)
	nettest.ExpectEquality(t, f.Error(), "test error: foo")
}

func TestIs(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	nettest.ExpectSuccess(t, curated.Is(e, testError))

	// Has() should fail because we haven't included testErrorB anywhere in the error
	nettest.ExpectFailure(t, curated.Has(e, testErrorB))

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := curated.Errorf(testErrorB, e)
	nettest.ExpectFailure(t, curated.Is(f, testError))
	nettest.ExpectSuccess(t, curated.Is(f, testErrorB))
	nettest.ExpectSuccess(t, curated.Has(f, testError))
	nettest.ExpectSuccess(t, curated.Has(f, testErrorB))

	// IsAny should return true for these errors also
	nettest.ExpectSuccess(t, curated.IsAny(e))
	nettest.ExpectSuccess(t, curated.IsAny(f))
}

func TestPlainErrors(t *testing.T) {
	// test plain errors that haven't been formatted with our errors package

	e := fmt.Errorf("plain test error")
	nettest.ExpectFailure(t, curated.IsAny(e))

	const testError = "test error: %s"

	nettest.ExpectFailure(t, curated.Has(e, testError))
}

func TestWrapping(t *testing.T) {
	a := 10
	e := curated.Errorf("error: value = %d", a)
	f := curated.Errorf("fatal: %v", e)

	nettest.ExpectSuccess(t, curated.Has(f, "error: value = %d"))
	nettest.ExpectFailure(t, curated.Is(f, "error: value = %d"))
	nettest.ExpectSuccess(t, curated.Has(f, "fatal: %v"))
	nettest.ExpectSuccess(t, curated.Is(f, "fatal: %v"))

	nettest.ExpectEquality(t, f.Error(), "fatal: error: value = 10")
}
