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

// Package library resolves a partial game id typed by a player against the
// set of games a library/launcher knows about (spec.md §8 scenario S2).
// Exact and unambiguous-prefix matches resolve outright; everything else
// is reported with a "did you mean" suggestion list built from
// github.com/sahilm/fuzzy, the same fuzzy ranking the teacher's own ROM
// picker (gui/sdlimgui/imgui_fuzzy.go) uses for its filter box.
package library

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nethercore/nethercore/curated"
)

// ErrEmptyGameID is returned when the partial id is empty or whitespace.
var ErrEmptyGameID = curated.Errorf("library: game id must not be empty")

// NotFoundError reports that no game matched ID, with a ranked "did you
// mean" list of the closest candidates.
type NotFoundError struct {
	ID          string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("library: no game matches %q (suggestions: %s)", e.ID, strings.Join(e.Suggestions, ", "))
}

// AmbiguousError reports that ID's prefix matched more than one game.
type AmbiguousError struct {
	ID          string
	Suggestions []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("library: %q is ambiguous (matches: %s)", e.ID, strings.Join(e.Suggestions, ", "))
}

// ResolveGameID resolves partial against ids, spec.md §8 S2's exact
// contract: an exact match always wins; failing that, an unambiguous
// prefix match wins; two or more prefix matches report AmbiguousError
// with every match as a suggestion; no prefix match at all falls back to
// fuzzy subsequence ranking and reports NotFoundError with the ranked
// results.
func ResolveGameID(ids []string, partial string) (string, error) {
	if strings.TrimSpace(partial) == "" {
		return "", ErrEmptyGameID
	}

	for _, id := range ids {
		if id == partial {
			return id, nil
		}
	}

	var prefixed []string
	for _, id := range ids {
		if strings.HasPrefix(id, partial) {
			prefixed = append(prefixed, id)
		}
	}
	sort.Strings(prefixed)
	switch len(prefixed) {
	case 1:
		return prefixed[0], nil
	case 0:
		// fall through to fuzzy ranking below
	default:
		return "", &AmbiguousError{ID: partial, Suggestions: prefixed}
	}

	matches := fuzzy.Find(partial, ids)
	suggestions := make([]string, len(matches))
	for i, m := range matches {
		suggestions[i] = m.Str
	}
	return "", &NotFoundError{ID: partial, Suggestions: suggestions}
}
