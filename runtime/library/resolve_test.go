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

package library_test

import (
	"errors"
	"testing"

	"github.com/nethercore/nethercore/internal/nettest"
	"github.com/nethercore/nethercore/runtime/library"
)

var games = []string{"platformer", "billboard", "billboard-lite"}

func TestResolveGameIDUnambiguousPrefix(t *testing.T) {
	id, err := library.ResolveGameID(games, "plat")
	nettest.ExpectSuccess(t, err)
	nettest.ExpectEquality(t, id, "platformer")
}

func TestResolveGameIDExactMatch(t *testing.T) {
	id, err := library.ResolveGameID(games, "billboard")
	nettest.ExpectSuccess(t, err)
	nettest.ExpectEquality(t, id, "billboard")
}

func TestResolveGameIDAmbiguousPrefix(t *testing.T) {
	_, err := library.ResolveGameID(games, "bill")
	nettest.ExpectFailure(t, err)

	var ambiguous *library.AmbiguousError
	nettest.ExpectSuccess(t, errors.As(err, &ambiguous))
	nettest.ExpectEquality(t, ambiguous.Suggestions, []string{"billboard", "billboard-lite"})
}

func TestResolveGameIDNotFoundSuggestsClosestMatch(t *testing.T) {
	_, err := library.ResolveGameID(games, "platfrm")
	nettest.ExpectFailure(t, err)

	var notFound *library.NotFoundError
	nettest.ExpectSuccess(t, errors.As(err, &notFound))

	found := false
	for _, s := range notFound.Suggestions {
		if s == "platformer" {
			found = true
		}
	}
	nettest.ExpectSuccess(t, found)
}

func TestResolveGameIDEmptyID(t *testing.T) {
	_, err := library.ResolveGameID(games, "")
	nettest.ExpectEquality(t, err, library.ErrEmptyGameID)
}
